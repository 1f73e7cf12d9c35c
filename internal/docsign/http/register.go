package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"

	"github.com/lexvault/docsign/internal/docsign/service"
	"github.com/lexvault/docsign/pkg/httpx"
	"github.com/lexvault/docsign/pkg/slogx"
)

// RegisterHandler creates an account and hands back the Telegram deep link
// the user must open to finish registration.
type RegisterHandler struct {
	RegistrationService *service.RegistrationService
}

func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Invalid JSON body",
		})
		return
	}

	if _, err := mail.ParseAddress(req.Email); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "A valid email is required",
		})
		return
	}
	if req.Password == "" || req.Phone == "" || req.Name == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "name, phone, and password are required",
		})
		return
	}

	code, link, err := h.RegistrationService.Register(ctx, req.Email, req.Phone, req.Name, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUserExists) {
			httpx.WriteJSON(w, http.StatusConflict, ErrorResponse{
				Error:            "conflict",
				ErrorDescription: "An account with this email or phone already exists",
			})
			return
		}
		log.Error("registration failed", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:            "server_error",
			ErrorDescription: "Failed to register",
		})
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, RegisterResponse{
		Code:     code,
		DeepLink: link,
	})
}
