package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrDuplicateEmail is returned when the email is already registered.
	ErrDuplicateEmail = errors.New("el correo ya está registrado")
	// ErrUserNotFound is returned when no user matches the lookup.
	ErrUserNotFound = errors.New("usuario no encontrado")
	// ErrInvalidCode is returned when the verification code does not match
	// or no code is pending.
	ErrInvalidCode = errors.New("código incorrecto")
	// ErrUnverifiedAccount is returned on login before email verification.
	ErrUnverifiedAccount = errors.New("debes verificar tu correo primero")
	// ErrInvalidCredentials is returned on a password mismatch.
	ErrInvalidCredentials = errors.New("credenciales inválidas")
	// ErrInvalidRole is returned when a role value is not admin/client.
	ErrInvalidRole = errors.New("rol inválido")
	// ErrLastAdmin is returned when a change would leave zero admins.
	ErrLastAdmin = errors.New("debe existir al menos un administrador")
)

// HTTPError carries the status code a domain error maps to at the boundary.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return e.Message
}

func NewHTTPError(statusCode int, message string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Anything unknown is a
// storage or internal failure and surfaces as a generic 500; the detail is
// logged server-side, never returned to the caller.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrDuplicateEmail):
		return NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidCode):
		return NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrUnverifiedAccount):
		return NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrInvalidRole):
		return NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrLastAdmin):
		return NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return NewHTTPError(http.StatusInternalServerError, "error del servidor")
	}
}
