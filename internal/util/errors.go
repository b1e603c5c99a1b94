package util

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailRegistered    = errors.New("user already exists with this email")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrPermissionDenied   = errors.New("permission denied")

	ErrSubjectNotFound  = errors.New("subject not found")
	ErrSubtopicNotFound = errors.New("subtopic not found")
	ErrQuizNotFound     = errors.New("quiz not found")

	// ErrInvalidInput is wrapped with a field-specific message by the services.
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidFile  = errors.New("invalid file")
)
