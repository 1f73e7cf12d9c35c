package http

import "time"

// ErrorResponse is the stable error envelope every endpoint uses. The
// description stays generic; precise causes are logged, never returned.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	Code     string `json:"code"`
	DeepLink string `json:"deep_link"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Status       string `json:"status"` // always "confirmation_required"
	SessionToken string `json:"session_token"`
}

type VerifyLoginRequest struct {
	SessionToken string `json:"session_token"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type CheckTelegramRequest struct {
	Email string `json:"email"`
}

type CreateDocumentRequest struct {
	Title        string   `json:"title"`
	ContentRef   string   `json:"content_ref"`
	RecipientIDs []string `json:"recipient_ids"`
}

type DocumentResponse struct {
	ID             string              `json:"id"`
	Title          string              `json:"title"`
	ContentRef     string              `json:"content_ref"`
	SenderID       string              `json:"sender_id"`
	OrganizationID string              `json:"organization_id,omitempty"`
	Status         string              `json:"status"`
	CreatedAt      time.Time           `json:"created_at"`
	Signatures     []SignatureResponse `json:"signatures,omitempty"`
}

type SignatureResponse struct {
	SignerID     string     `json:"signer_id"`
	Status       string     `json:"status"`
	SignedAt     *time.Time `json:"signed_at,omitempty"`
	ConfirmedVia string     `json:"confirmed_via,omitempty"`
}

type CreateOrganizationRequest struct {
	Name string `json:"name"`
}

type OrganizationResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	OwnerID string `json:"owner_id,omitempty"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Version string `json:"version"`
}
