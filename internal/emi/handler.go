package emi

import (
	"context"
	"net/http"

	"github.com/frahmantamala/sales-crm/internal/access"
	"github.com/frahmantamala/sales-crm/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	RecordInstallment(ctx context.Context, subject access.Subject, studentID string, req RecordInstallmentRequest) (*Receipt, error)
	ListInstallments(ctx context.Context, subject access.Subject, studentID string) (*InstallmentsResponse, error)
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

// RecordInstallment handles POST /students/{id}/emi
func (h *Handler) RecordInstallment(w http.ResponseWriter, r *http.Request) {
	subject, ok := h.Subject(w, r)
	if !ok {
		return
	}

	var req RecordInstallmentRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	receipt, err := h.Service.RecordInstallment(r.Context(), subject, chi.URLParam(r, "id"), req)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, receipt)
}

// ListInstallments handles GET /students/{id}/emi
func (h *Handler) ListInstallments(w http.ResponseWriter, r *http.Request) {
	subject, ok := h.Subject(w, r)
	if !ok {
		return
	}

	res, err := h.Service.ListInstallments(r.Context(), subject, chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, res)
}
