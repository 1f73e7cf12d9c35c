package http

import (
	"encoding/json"
	"net/http"

	"github.com/lexvault/docsign/internal/docsign/domain"
	"github.com/lexvault/docsign/internal/docsign/service"
	"github.com/lexvault/docsign/pkg/httpx"
	"github.com/lexvault/docsign/pkg/slogx"
)

type OrganizationsHandler struct {
	OrganizationService *service.OrganizationService
}

func (h *OrganizationsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req CreateOrganizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "name is required",
		})
		return
	}

	org, err := h.OrganizationService.Create(ctx, req.Name, httpx.UserIDFromCtx(ctx))
	if err != nil {
		log.Error("organization creation failed", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:            "server_error",
			ErrorDescription: "Failed to create organization",
		})
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, organizationResponse(org))
}

func (h *OrganizationsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	orgs, err := h.OrganizationService.ListForUser(ctx, httpx.UserIDFromCtx(ctx))
	if err != nil {
		log.Error("organization list failed", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:            "server_error",
			ErrorDescription: "Failed to list organizations",
		})
		return
	}

	out := make([]OrganizationResponse, 0, len(orgs))
	for _, o := range orgs {
		out = append(out, organizationResponse(o))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func organizationResponse(o domain.Organization) OrganizationResponse {
	return OrganizationResponse{ID: o.ID, Name: o.Name, OwnerID: o.OwnerID}
}
