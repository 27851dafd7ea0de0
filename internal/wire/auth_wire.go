package wire

import (
	"cotecsa-backend/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireAuth(r chi.Router, authHandler *adaptor.AuthHandler) {
	r.Post("/register", authHandler.Register)
	r.Post("/verificar-codigo", authHandler.VerifyCode)
	r.Post("/login", authHandler.Login)
}
