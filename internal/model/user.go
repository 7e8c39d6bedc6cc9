package model

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// RootAdminID is the bootstrap administrator row. It can never be deleted
// or deactivated.
const RootAdminID int64 = 1

type User struct {
	ID                  int64     `json:"id"`
	Username            string    `json:"username"`
	PasswordHash        string    `json:"-"`
	Role                string    `json:"role"`
	IsActive            bool      `json:"is_active"`
	ForcePasswordChange bool      `json:"force_password_change"`
	CreatedAt           time.Time `json:"created_at"`
}

// Account is the client-facing view of a user (no hash).
type Account struct {
	ID                  int64     `json:"id"`
	Username            string    `json:"username"`
	Role                string    `json:"role"`
	IsActive            bool      `json:"is_active"`
	ForcePasswordChange bool      `json:"force_password_change"`
	CreatedAt           time.Time `json:"created_at"`
}

func (u User) Account() Account {
	return Account{
		ID:                  u.ID,
		Username:            u.Username,
		Role:                u.Role,
		IsActive:            u.IsActive,
		ForcePasswordChange: u.ForcePasswordChange,
		CreatedAt:           u.CreatedAt,
	}
}

type RefreshToken struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AuthClaims is the verified content of an access token, carried through
// the request context once the auth middleware has accepted the request.
type AuthClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}
