package model

import "errors"

var (
	// User related errors
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWrongPassword      = errors.New("old password does not match")
	ErrRootAdminProtected = errors.New("root admin cannot be modified")

	// Token related errors
	ErrTokenNotFound = errors.New("token not found")
	ErrTokenExpired  = errors.New("token expired")

	// Photo related errors
	ErrPhotoNotFound = errors.New("photo not found")

	// Permission/Access related errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Store errors
	ErrStoreUnavailable = errors.New("store unavailable")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)
