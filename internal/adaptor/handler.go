package adaptor

import (
	"cotecsa-backend/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Auth *AuthHandler
	User *UserHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth: NewAuthHandler(service.Auth, log),
		User: NewUserHandler(service.User, log),
	}
}

// validationMessage picks one message out of a validation error map in a
// stable field order, so responses don't depend on map iteration.
func validationMessage(errs map[string]string) string {
	for _, field := range []string{"Phone", "Email", "FullName", "Password", "Code", "Role"} {
		if msg, ok := errs[field]; ok {
			return msg
		}
	}
	for _, msg := range errs {
		return msg
	}
	return "Solicitud inválida"
}
