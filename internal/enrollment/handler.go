package enrollment

import (
	"context"
	"net/http"

	"github.com/frahmantamala/sales-crm/internal/access"
	"github.com/frahmantamala/sales-crm/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Roster(ctx context.Context, subject access.Subject, batchID string, q RosterQuery) (*RosterResponse, error)
	Appointments(ctx context.Context, subject access.Subject, q RosterQuery) (*RosterResponse, error)
	Refund(ctx context.Context, subject access.Subject, studentID string) (*StatusChange, error)
	Discontinue(ctx context.Context, subject access.Subject, studentID string) (*StatusChange, error)
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

// GetBatchRoster handles GET /batches/{batchID}/students
func (h *Handler) GetBatchRoster(w http.ResponseWriter, r *http.Request) {
	subject, ok := h.Subject(w, r)
	if !ok {
		return
	}

	batchID := chi.URLParam(r, "batchID")
	res, err := h.Service.Roster(r.Context(), subject, batchID, RosterQueryFromURL(r.URL.Query()))
	if err != nil {
		h.Logger.Warn("GetBatchRoster: service error", "error", err, "batch_id", batchID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, res)
}

// GetAppointments handles GET /appointments
func (h *Handler) GetAppointments(w http.ResponseWriter, r *http.Request) {
	subject, ok := h.Subject(w, r)
	if !ok {
		return
	}

	res, err := h.Service.Appointments(r.Context(), subject, RosterQueryFromURL(r.URL.Query()))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, res)
}

// Refund handles POST /students/{id}/refund
func (h *Handler) Refund(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, h.Service.Refund)
}

// Discontinue handles POST /students/{id}/discontinue
func (h *Handler) Discontinue(w http.ResponseWriter, r *http.Request) {
	h.changeStatus(w, r, h.Service.Discontinue)
}

func (h *Handler) changeStatus(w http.ResponseWriter, r *http.Request, fn func(context.Context, access.Subject, string) (*StatusChange, error)) {
	subject, ok := h.Subject(w, r)
	if !ok {
		return
	}

	change, err := fn(r.Context(), subject, chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, change)
}
