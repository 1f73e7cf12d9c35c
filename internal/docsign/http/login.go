package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lexvault/docsign/internal/docsign/service"
	"github.com/lexvault/docsign/pkg/httpx"
	"github.com/lexvault/docsign/pkg/slogx"
)

// LoginHandler starts a login: password check plus an out-of-band
// confirmation push. The client then polls verify-login with the session
// token.
type LoginHandler struct {
	LoginService *service.LoginService
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Invalid JSON body",
		})
		return
	}
	if req.Email == "" || req.Password == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "email and password are required",
		})
		return
	}

	token, err := h.LoginService.BeginLogin(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			httpx.WriteJSON(w, http.StatusUnauthorized, ErrorResponse{
				Error:            "invalid_credentials",
				ErrorDescription: "Email or password is incorrect",
			})
		case errors.Is(err, service.ErrTelegramNotLinked):
			httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{
				Error:            "telegram_not_linked",
				ErrorDescription: "Finish registration through the Telegram bot first",
			})
		case errors.Is(err, service.ErrNotifyFailed):
			log.Error("login confirmation push failed", "err", err)
			httpx.WriteJSON(w, http.StatusBadGateway, ErrorResponse{
				Error:            "notify_failed",
				ErrorDescription: "Could not deliver the confirmation request",
			})
		default:
			log.Error("login failed", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, ErrorResponse{
				Error:            "server_error",
				ErrorDescription: "Failed to start login",
			})
		}
		return
	}

	httpx.WriteJSON(w, http.StatusAccepted, LoginResponse{
		Status:       "confirmation_required",
		SessionToken: token,
	})
}

// VerifyLoginHandler exchanges a confirmed session token for a bearer
// credential.
type VerifyLoginHandler struct {
	LoginService *service.LoginService
}

func (h *VerifyLoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req VerifyLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SessionToken == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "session_token is required",
		})
		return
	}

	credential, err := h.LoginService.Exchange(ctx, req.SessionToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			httpx.WriteJSON(w, http.StatusNotFound, ErrorResponse{
				Error:            "session_not_found",
				ErrorDescription: "Login session is unknown or expired",
			})
		case errors.Is(err, service.ErrNotConfirmed):
			httpx.WriteJSON(w, http.StatusForbidden, ErrorResponse{
				Error:            "not_confirmed",
				ErrorDescription: "Login has not been confirmed yet",
			})
		default:
			log.Error("login exchange failed", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, ErrorResponse{
				Error:            "server_error",
				ErrorDescription: "Failed to verify login",
			})
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, TokenResponse{Token: credential})
}

// CheckTelegramHandler is polled by the frontend after registration; once
// the deep link has been redeemed it returns a first credential.
type CheckTelegramHandler struct {
	LoginService *service.LoginService
}

func (h *CheckTelegramHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req CheckTelegramRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "email is required",
		})
		return
	}

	credential, err := h.LoginService.CheckTelegram(ctx, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			httpx.WriteJSON(w, http.StatusNotFound, ErrorResponse{
				Error:            "user_not_found",
				ErrorDescription: "No account for this email",
			})
		case errors.Is(err, service.ErrTelegramNotLinked):
			httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{
				Error:            "telegram_not_linked",
				ErrorDescription: "Telegram has not been linked yet",
			})
		default:
			log.Error("check-telegram failed", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, ErrorResponse{
				Error:            "server_error",
				ErrorDescription: "Failed to check Telegram status",
			})
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, TokenResponse{Token: credential})
}
