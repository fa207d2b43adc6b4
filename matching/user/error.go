package user

import (
	"net/http"

	"github.com/Abraxas-365/resumatch/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("USER")

// Error codes
var (
	CodeUserNotFound       = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "User not found")
	CodeEmailAlreadyExists = ErrRegistry.Register("EMAIL_ALREADY_EXISTS", errx.TypeConflict, http.StatusBadRequest, "Email already exists")
	CodeMissingFields      = ErrRegistry.Register("MISSING_FIELDS", errx.TypeValidation, http.StatusBadRequest, "All fields are required")
	CodeInvalidEmail       = ErrRegistry.Register("INVALID_EMAIL", errx.TypeValidation, http.StatusBadRequest, "Invalid email format")
	CodePasswordTooLong    = ErrRegistry.Register("PASSWORD_TOO_LONG", errx.TypeValidation, http.StatusBadRequest, "Password must be at most 72 bytes")
	CodeInvalidRequest     = ErrRegistry.Register("INVALID_REQUEST", errx.TypeValidation, http.StatusBadRequest, "Invalid request data")
	CodeInvalidPassword    = ErrRegistry.Register("INVALID_PASSWORD", errx.TypeAuthorization, http.StatusUnauthorized, "Invalid password")
	CodeAuthRequired       = ErrRegistry.Register("AUTH_REQUIRED", errx.TypeAuthorization, http.StatusUnauthorized, "Authentication required")
	CodeInvalidToken       = ErrRegistry.Register("INVALID_TOKEN", errx.TypeAuthorization, http.StatusUnauthorized, "Please authenticate")
	CodeTokenExpired       = ErrRegistry.Register("TOKEN_EXPIRED", errx.TypeAuthorization, http.StatusUnauthorized, "Session expired, please log in again")
	CodeTokenUserNotFound  = ErrRegistry.Register("TOKEN_USER_NOT_FOUND", errx.TypeAuthorization, http.StatusUnauthorized, "User not found")
	CodeRegistrationFailed = ErrRegistry.Register("REGISTRATION_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Error creating user")
	CodeLoginFailed        = ErrRegistry.Register("LOGIN_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Error logging in")
)

func ErrUserNotFound() *errx.Error {
	return ErrRegistry.New(CodeUserNotFound)
}

func ErrEmailAlreadyExists() *errx.Error {
	return ErrRegistry.New(CodeEmailAlreadyExists)
}

func ErrMissingFields() *errx.Error {
	return ErrRegistry.New(CodeMissingFields)
}

func ErrInvalidEmail() *errx.Error {
	return ErrRegistry.New(CodeInvalidEmail)
}

func ErrPasswordTooLong() *errx.Error {
	return ErrRegistry.New(CodePasswordTooLong)
}

func ErrInvalidRequest() *errx.Error {
	return ErrRegistry.New(CodeInvalidRequest)
}

func ErrInvalidPassword() *errx.Error {
	return ErrRegistry.New(CodeInvalidPassword)
}

func ErrAuthRequired() *errx.Error {
	return ErrRegistry.New(CodeAuthRequired)
}

func ErrInvalidToken() *errx.Error {
	return ErrRegistry.New(CodeInvalidToken)
}

func ErrTokenExpired() *errx.Error {
	return ErrRegistry.New(CodeTokenExpired)
}

func ErrTokenUserNotFound() *errx.Error {
	return ErrRegistry.New(CodeTokenUserNotFound)
}

func ErrRegistrationFailed(cause error) *errx.Error {
	return ErrRegistry.NewWithCause(CodeRegistrationFailed, cause)
}

func ErrLoginFailed(cause error) *errx.Error {
	return ErrRegistry.NewWithCause(CodeLoginFailed, cause)
}
