package wire

import (
	"cotecsa-backend/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireUser(r chi.Router, userHandler *adaptor.UserHandler) {
	r.Route("/usuarios", func(r chi.Router) {
		r.Get("/", userHandler.GetAllUsers)
		r.Delete("/{id}", userHandler.DeleteUser)
		r.Put("/{id}/rol", userHandler.ChangeRole)
	})
}
