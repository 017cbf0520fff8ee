package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrInvalidToken       = fmt.Errorf("invalid or expired token")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrInvalidPassword    = fmt.Errorf("password does not meet requirements")
	ErrUserAlreadyExists  = fmt.Errorf("user already exists")
	ErrUserNotFound       = fmt.Errorf("user not found")
	ErrEmptyMessage       = fmt.Errorf("message text is empty")
	ErrMessageTooLong     = fmt.Errorf("message text exceeds maximum length")
	ErrInvalidAvatar      = fmt.Errorf("avatar is not a valid image")
	ErrTokenGeneration    = fmt.Errorf("token generation failed")
	ErrStoreMessage       = fmt.Errorf("message persistence failed")
	ErrWorkerPanic        = fmt.Errorf("worker panic")
)

// HTTPStatus translates domain sentinels into HTTP status codes.
// Unknown errors map to an internal failure so storage details
// never leak to the client.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidToken), errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ErrUserAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidPassword), errors.Is(err, ErrEmptyMessage),
		errors.Is(err, ErrMessageTooLong), errors.Is(err, ErrInvalidAvatar):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
