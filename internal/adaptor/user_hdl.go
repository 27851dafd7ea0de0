package adaptor

import (
	"encoding/json"
	"net/http"
	"strconv"

	"cotecsa-backend/internal/dto/request"
	"cotecsa-backend/internal/dto/response"
	apperrors "cotecsa-backend/internal/errors"
	"cotecsa-backend/internal/usecase"
	"cotecsa-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type UserHandler struct {
	service usecase.UserService
	log     *zap.Logger
}

func NewUserHandler(service usecase.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		log:     log,
	}
}

// GetAllUsers handles GET /usuarios
func (h *UserHandler) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		h.handleServiceError(w, err, "get all users")
		return
	}

	utils.ResponseSuccess(w, users)
}

// DeleteUser handles DELETE /usuarios/{id}
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.ResponseBadRequest(w, "ID de usuario inválido")
		return
	}

	if err := h.service.DeleteUser(r.Context(), id); err != nil {
		h.handleServiceError(w, err, "delete user")
		return
	}

	utils.ResponseSuccess(w, response.MessageResponse{Message: "Usuario eliminado correctamente"})
}

// ChangeRole handles PUT /usuarios/{id}/rol
func (h *UserHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.ResponseBadRequest(w, "ID de usuario inválido")
		return
	}

	var req request.ChangeRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Cuerpo de la solicitud inválido")
		return
	}

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		utils.ResponseBadRequest(w, apperrors.ErrInvalidRole.Error())
		return
	}

	if err := h.service.ChangeRole(r.Context(), id, req.Role); err != nil {
		h.handleServiceError(w, err, "change role")
		return
	}

	utils.ResponseSuccess(w, response.OKResponse{OK: true})
}

func (h *UserHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	httpErr := apperrors.MapErrorToHTTP(err)

	if httpErr.StatusCode == http.StatusInternalServerError {
		h.log.Error("Failed to "+operation, zap.Error(err))
	} else {
		h.log.Warn(operation+" rejected", zap.Error(err))
	}

	utils.ResponseError(w, httpErr.StatusCode, httpErr.Message)
}
