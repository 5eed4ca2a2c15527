package member

import (
	"context"
	"net/http"

	"github.com/frahmantamala/sales-crm/internal/access"
	"github.com/frahmantamala/sales-crm/internal/transport"
)

type ServiceAPI interface {
	Me(ctx context.Context, subject access.Subject) (*Profile, error)
	ResolveRoute(subject access.Subject, path string) RouteResponse
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     svc,
	}
}

// GetCurrentMember handles GET /me
func (h *Handler) GetCurrentMember(w http.ResponseWriter, r *http.Request) {
	subject, ok := h.Subject(w, r)
	if !ok {
		return
	}

	profile, err := h.Service.Me(r.Context(), subject)
	if err != nil {
		h.Logger.Error("GetCurrentMember: failed to build profile", "user_id", subject.UserID, "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, profile)
}

// ResolveRoute handles GET /me/route?path=
func (h *Handler) ResolveRoute(w http.ResponseWriter, r *http.Request) {
	subject, ok := h.Subject(w, r)
	if !ok {
		return
	}

	h.WriteJSON(w, http.StatusOK, h.Service.ResolveRoute(subject, r.URL.Query().Get("path")))
}
