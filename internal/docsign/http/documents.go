package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lexvault/docsign/internal/docsign/domain"
	"github.com/lexvault/docsign/internal/docsign/service"
	"github.com/lexvault/docsign/pkg/httpx"
	"github.com/lexvault/docsign/pkg/slogx"
)

// signedViaWeb tags signatures confirmed through the web API.
const signedViaWeb = "web"

type DocumentsHandler struct {
	DocumentService *service.DocumentService
}

// HandleCreate serves both POST /api/documents and
// POST /api/organizations/{org_id}/documents; the latter scopes the document
// to the organization from the path.
func (h *DocumentsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req CreateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Invalid JSON body",
		})
		return
	}
	if req.Title == "" || req.ContentRef == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "title and content_ref are required",
		})
		return
	}

	doc, err := h.DocumentService.Create(ctx, service.CreateDocumentParams{
		Title:          req.Title,
		ContentRef:     req.ContentRef,
		SenderID:       httpx.UserIDFromCtx(ctx),
		OrganizationID: r.PathValue("org_id"),
		RecipientIDs:   req.RecipientIDs,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRecipients):
			httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{
				Error:            "invalid_recipients",
				ErrorDescription: "Every recipient must be a registered user",
			})
		case errors.Is(err, service.ErrNotOrganizationMember):
			httpx.WriteJSON(w, http.StatusForbidden, ErrorResponse{
				Error:            "forbidden",
				ErrorDescription: "You are not a member of this organization",
			})
		default:
			log.Error("document creation failed", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, ErrorResponse{
				Error:            "server_error",
				ErrorDescription: "Failed to create document",
			})
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, documentResponse(doc, nil))
}

func (h *DocumentsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	docs, err := h.DocumentService.ListForUser(ctx, httpx.UserIDFromCtx(ctx))
	if err != nil {
		log.Error("document list failed", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:            "server_error",
			ErrorDescription: "Failed to list documents",
		})
		return
	}

	out := make([]DocumentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, documentResponse(d, nil))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *DocumentsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	doc, sigs, err := h.DocumentService.Get(ctx, r.PathValue("doc_id"), httpx.UserIDFromCtx(ctx))
	if err != nil {
		if errors.Is(err, service.ErrDocumentNotFound) {
			httpx.WriteJSON(w, http.StatusNotFound, ErrorResponse{
				Error:            "document_not_found",
				ErrorDescription: "No such document",
			})
			return
		}
		log.Error("document get failed", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:            "server_error",
			ErrorDescription: "Failed to load document",
		})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, documentResponse(doc, sigs))
}

func (h *DocumentsHandler) HandleSign(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, domain.SignatureSigned)
}

func (h *DocumentsHandler) HandleDecline(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, domain.SignatureDeclined)
}

func (h *DocumentsHandler) resolve(w http.ResponseWriter, r *http.Request, status domain.SignatureStatus) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	docID := r.PathValue("doc_id")
	userID := httpx.UserIDFromCtx(ctx)

	var err error
	if status == domain.SignatureDeclined {
		err = h.DocumentService.Decline(ctx, docID, userID, signedViaWeb)
	} else {
		err = h.DocumentService.Sign(ctx, docID, userID, signedViaWeb)
	}
	if err != nil {
		if errors.Is(err, service.ErrSignatureNotFound) {
			httpx.WriteJSON(w, http.StatusNotFound, ErrorResponse{
				Error:            "signature_not_found",
				ErrorDescription: "No pending signature for you on this document",
			})
			return
		}
		log.Error("signature resolution failed", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:            "server_error",
			ErrorDescription: "Failed to update signature",
		})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func documentResponse(d domain.Document, sigs []domain.Signature) DocumentResponse {
	resp := DocumentResponse{
		ID:             d.ID,
		Title:          d.Title,
		ContentRef:     d.ContentRef,
		SenderID:       d.SenderID,
		OrganizationID: d.OrganizationID,
		Status:         string(d.Status),
		CreatedAt:      d.CreatedAt,
	}
	for _, s := range sigs {
		resp.Signatures = append(resp.Signatures, SignatureResponse{
			SignerID:     s.SignerID,
			Status:       string(s.Status),
			SignedAt:     s.SignedAt,
			ConfirmedVia: s.ConfirmedVia,
		})
	}
	return resp
}
