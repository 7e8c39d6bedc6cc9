package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"go-web-gallery/internal/model"
	"go-web-gallery/internal/token"
	"go-web-gallery/pkg/apierror"
)

const (
	bcryptCost        = 12
	minPasswordLength = 8
)

// userStore is the credential persistence the auth service needs.
type userStore interface {
	FindByUsername(ctx context.Context, username string) (model.User, error)
	FindByID(ctx context.Context, id int64) (model.User, error)
	Create(ctx context.Context, u model.User) (model.User, error)
	Delete(ctx context.Context, id int64) error
	UpdateStatus(ctx context.Context, id int64, active bool) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	List(ctx context.Context) ([]model.User, error)
	HasAdmin(ctx context.Context) (bool, error)
}

// refreshStore is the refresh-token persistence the auth service needs.
type refreshStore interface {
	Replace(ctx context.Context, username string, tokenValue string, expiresAt time.Time) error
	Lookup(ctx context.Context, tokenValue string) (model.RefreshToken, error)
	Delete(ctx context.Context, tokenValue string) error
	DeleteForUser(ctx context.Context, username string) error
}

type AuthService struct {
	users      userStore
	tokens     refreshStore
	issuer     *token.Issuer
	refreshTTL time.Duration

	now func() time.Time
}

func NewAuthService(users userStore, tokens refreshStore, issuer *token.Issuer, refreshTTL time.Duration) *AuthService {
	return &AuthService{
		users:      users,
		tokens:     tokens,
		issuer:     issuer,
		refreshTTL: refreshTTL,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Bootstrap creates the initial administrator when none exists. The default
// credential is a development convenience; the account is flagged for a
// forced password change and the log makes the rotation requirement loud.
func (s *AuthService) Bootstrap(ctx context.Context, username string, password string) error {
	hasAdmin, err := s.users.HasAdmin(ctx)
	if err != nil {
		return fmt.Errorf("check for existing admin: %w", err)
	}
	if hasAdmin {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash bootstrap password: %w", err)
	}

	created, err := s.users.Create(ctx, model.User{
		Username:            username,
		PasswordHash:        string(hash),
		Role:                model.RoleAdmin,
		IsActive:            true,
		ForcePasswordChange: true,
	})
	if errors.Is(err, model.ErrUserAlreadyExists) {
		// Another instance won the bootstrap race.
		return nil
	}
	if err != nil {
		return fmt.Errorf("create bootstrap admin: %w", err)
	}

	slog.Warn("bootstrap admin created with the default credential; rotate it before deployment",
		"username", created.Username, "id", created.ID)
	return nil
}

// Login verifies the credential and issues an access/refresh token pair.
// The refresh token replaces any previously issued token for the user.
func (s *AuthService) Login(ctx context.Context, username string, password string) (model.LoginResponse, error) {
	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, model.ErrUserNotFound) {
		return model.LoginResponse{}, invalidCredentials()
	}
	if err != nil {
		return model.LoginResponse{}, err
	}

	if !user.IsActive {
		return model.LoginResponse{}, invalidCredentials()
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return model.LoginResponse{}, invalidCredentials()
	}

	access, err := s.issuer.Issue(user.Username, user.Role)
	if err != nil {
		return model.LoginResponse{}, err
	}

	refresh, err := token.NewOpaque(token.RefreshTokenLength)
	if err != nil {
		// Entropy failure is fatal for this call; never degrade to a
		// predictable token.
		return model.LoginResponse{}, fmt.Errorf("generate refresh token: %w", err)
	}

	if err := s.tokens.Replace(ctx, user.Username, refresh, s.now().Add(s.refreshTTL)); err != nil {
		return model.LoginResponse{}, err
	}

	return model.LoginResponse{Token: access, RefreshToken: refresh}, nil
}

// Refresh exchanges a live refresh token for a new access token. An expired
// token is deleted on sight (lazy cleanup, no background sweep).
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	rt, err := s.tokens.Lookup(ctx, refreshToken)
	if errors.Is(err, model.ErrTokenNotFound) {
		return "", invalidRefreshToken()
	}
	if err != nil {
		return "", err
	}

	// Validity is strict: a token is expired at exactly expires_at.
	if !s.now().Before(rt.ExpiresAt) {
		if delErr := s.tokens.Delete(ctx, rt.Token); delErr != nil {
			slog.Warn("delete expired refresh token failed", "error", delErr)
		}
		return "", invalidRefreshToken()
	}

	user, err := s.users.FindByUsername(ctx, rt.Username)
	if errors.Is(err, model.ErrUserNotFound) {
		return "", invalidRefreshToken()
	}
	if err != nil {
		return "", err
	}
	if !user.IsActive {
		return "", invalidRefreshToken()
	}

	return s.issuer.Issue(user.Username, user.Role)
}

// Logout revokes the refresh token. Revoking an unknown or already-revoked
// token succeeds.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if strings.TrimSpace(refreshToken) == "" {
		return nil
	}
	return s.tokens.Delete(ctx, refreshToken)
}

func (s *AuthService) GetAccount(ctx context.Context, username string) (model.Account, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return model.Account{}, err
	}
	return user.Account(), nil
}

// ChangeOwnPassword is the self-service path: the old password must verify
// before the new one is stored. A missing old password is a validation
// failure, not a mismatch.
func (s *AuthService) ChangeOwnPassword(ctx context.Context, username string, oldPassword string, newPassword string) error {
	if oldPassword == "" {
		return apierror.New("BAD_REQUEST", "oldPassword and newPassword are required", "oldPassword", http.StatusBadRequest)
	}
	if err := validateNewPassword(newPassword); err != nil {
		return err
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)) != nil {
		return model.ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash new password: %w", err)
	}

	return s.users.UpdatePassword(ctx, user.ID, string(hash))
}

// SetPassword is the administrative path: no old-password check.
func (s *AuthService) SetPassword(ctx context.Context, id int64, newPassword string) error {
	if err := validateNewPassword(newPassword); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return s.users.UpdatePassword(ctx, id, string(hash))
}

func (s *AuthService) CreateUser(ctx context.Context, username string, password string, role string) (model.Account, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return model.Account{}, apierror.New("BAD_REQUEST", "username and password are required", "", http.StatusBadRequest)
	}
	if err := validateNewPassword(password); err != nil {
		return model.Account{}, err
	}

	role = strings.ToLower(strings.TrimSpace(role))
	if role == "" {
		role = model.RoleUser
	}
	if role != model.RoleAdmin && role != model.RoleUser {
		return model.Account{}, apierror.New("BAD_REQUEST", "invalid role", role, http.StatusBadRequest)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return model.Account{}, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.users.Create(ctx, model.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	})
	if err != nil {
		return model.Account{}, err
	}
	return created.Account(), nil
}

// DeleteUser removes the account and revokes its refresh tokens. The root
// admin is protected.
func (s *AuthService) DeleteUser(ctx context.Context, id int64) error {
	if id == model.RootAdminID {
		return model.ErrRootAdminProtected
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.tokens.DeleteForUser(ctx, user.Username); err != nil {
		slog.Warn("revoke refresh tokens after user delete failed", "username", user.Username, "error", err)
	}
	return nil
}

// UpdateStatus activates or deactivates an account. Deactivation revokes the
// user's refresh tokens so the session cannot be refreshed back to life.
func (s *AuthService) UpdateStatus(ctx context.Context, id int64, active bool) error {
	if id == model.RootAdminID && !active {
		return model.ErrRootAdminProtected
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.users.UpdateStatus(ctx, id, active); err != nil {
		return err
	}

	if !active {
		if err := s.tokens.DeleteForUser(ctx, user.Username); err != nil {
			slog.Warn("revoke refresh tokens after deactivation failed", "username", user.Username, "error", err)
		}
	}
	return nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]model.Account, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	accounts := make([]model.Account, 0, len(users))
	for _, u := range users {
		accounts = append(accounts, u.Account())
	}
	return accounts, nil
}

func validateNewPassword(password string) error {
	if len(password) < minPasswordLength {
		return apierror.New("BAD_REQUEST",
			fmt.Sprintf("password must be at least %d characters", minPasswordLength),
			"", http.StatusBadRequest)
	}
	return nil
}

func invalidCredentials() *apierror.APIError {
	return apierror.New("UNAUTHORIZED", "Invalid credentials", "", http.StatusUnauthorized)
}

func invalidRefreshToken() *apierror.APIError {
	return apierror.New("UNAUTHORIZED", "Invalid refresh token", "", http.StatusUnauthorized)
}
