package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"cotecsa-backend/internal/dto/request"
	"cotecsa-backend/internal/dto/response"
	apperrors "cotecsa-backend/internal/errors"
	"cotecsa-backend/internal/usecase"
	"cotecsa-backend/pkg/utils"

	"go.uber.org/zap"
)

type AuthHandler struct {
	service usecase.AuthService
	log     *zap.Logger
}

func NewAuthHandler(service usecase.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		log:     log,
	}
}

// Register handles POST /register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Cuerpo de la solicitud inválido")
		return
	}

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		h.log.Warn("Register validation failed", zap.Any("errors", errs))
		utils.ResponseBadRequest(w, validationMessage(errs))
		return
	}

	resp, err := h.service.Register(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "register")
		return
	}

	utils.ResponseSuccess(w, resp)
}

// VerifyCode handles POST /verificar-codigo
func (h *AuthHandler) VerifyCode(w http.ResponseWriter, r *http.Request) {
	var req request.VerifyCodeRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Cuerpo de la solicitud inválido")
		return
	}

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		h.log.Warn("Verify code validation failed", zap.Any("errors", errs))
		utils.ResponseBadRequest(w, validationMessage(errs))
		return
	}

	if err := h.service.VerifyCode(r.Context(), &req); err != nil {
		// An unknown email surfaces like a wrong code: 400, no 404 here.
		if errors.Is(err, apperrors.ErrUserNotFound) {
			utils.ResponseBadRequest(w, apperrors.ErrInvalidCode.Error())
			return
		}
		h.handleServiceError(w, err, "verify code")
		return
	}

	utils.ResponseSuccess(w, response.OKResponse{OK: true})
}

// Login handles POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Cuerpo de la solicitud inválido")
		return
	}

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		utils.ResponseBadRequest(w, "Correo y contraseña requeridos")
		return
	}

	resp, err := h.service.Login(r.Context(), &req)
	if err != nil {
		// Unknown email maps to 401, not 404, to avoid leaking which
		// accounts exist.
		if errors.Is(err, apperrors.ErrUserNotFound) {
			utils.ResponseUnauthorized(w, apperrors.ErrInvalidCredentials.Error())
			return
		}
		h.handleServiceError(w, err, "login")
		return
	}

	utils.ResponseSuccess(w, resp)
}

func (h *AuthHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	httpErr := apperrors.MapErrorToHTTP(err)

	if httpErr.StatusCode == http.StatusInternalServerError {
		h.log.Error("Failed to "+operation, zap.Error(err))
	} else {
		h.log.Warn(operation+" rejected", zap.Error(err))
	}

	utils.ResponseError(w, httpErr.StatusCode, httpErr.Message)
}
