package cohort

import (
	"context"
	"net/http"

	"github.com/frahmantamala/sales-crm/internal/access"
	"github.com/frahmantamala/sales-crm/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	ListCohortTypes(ctx context.Context, orgID string) ([]*CohortType, error)
	CreateCohortType(ctx context.Context, subject access.Subject, name string) (*CohortType, error)
	ListBatches(ctx context.Context, orgID, slug string) ([]*Batch, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// ListCohortTypes handles GET /cohort-types
func (h *Handler) ListCohortTypes(w http.ResponseWriter, r *http.Request) {
	subject, ok := h.Subject(w, r)
	if !ok {
		return
	}

	types, err := h.Service.ListCohortTypes(r.Context(), subject.OrganizationID)
	if err != nil {
		h.Logger.Error("ListCohortTypes: failed to list cohort types", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, CohortTypesResponse{CohortTypes: types})
}

// CreateCohortType handles POST /cohort-types
func (h *Handler) CreateCohortType(w http.ResponseWriter, r *http.Request) {
	subject, ok := h.Subject(w, r)
	if !ok {
		return
	}

	var req CreateCohortTypeRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	ct, err := h.Service.CreateCohortType(r.Context(), subject, req.Name)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, ct)
}

// ListBatches handles GET /cohort-types/{slug}/batches
func (h *Handler) ListBatches(w http.ResponseWriter, r *http.Request) {
	subject, ok := h.Subject(w, r)
	if !ok {
		return
	}

	batches, err := h.Service.ListBatches(r.Context(), subject.OrganizationID, chi.URLParam(r, "slug"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, BatchesResponse{Batches: batches})
}
