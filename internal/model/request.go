package model

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type RefreshResponse struct {
	Token string `json:"token"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type CreateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type UpdateStatusRequest struct {
	Active *bool `json:"active"`
}

type SetPasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

type UploadResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Path     string `json:"path"`
	URL      string `json:"url"`
	PhotoID  int64  `json:"photo_id,omitempty"`
	Filename string `json:"filename"`
}
