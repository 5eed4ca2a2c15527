package organization

import (
	"context"
	"net/http"

	"github.com/frahmantamala/sales-crm/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	ListMembers(ctx context.Context, orgID string) ([]*Member, error)
	ReplaceMemberPermissions(ctx context.Context, orgID, userID string, keys []string) error
	ResetMemberPermissions(ctx context.Context, orgID, userID string) error
	UpdateMemberRole(ctx context.Context, orgID, userID, role string) error
	ListOrganizations(ctx context.Context) ([]*Organization, error)
	ListModules(ctx context.Context, orgID string) ([]Module, error)
	SetModule(ctx context.Context, orgID, slug string, enabled bool) error
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

// ListMembers handles GET /members
func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	subject, ok := h.Subject(w, r)
	if !ok {
		return
	}

	members, err := h.Service.ListMembers(r.Context(), subject.OrganizationID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, MembersResponse{Members: members})
}

// ReplacePermissions handles PUT /members/{userID}/permissions
func (h *Handler) ReplacePermissions(w http.ResponseWriter, r *http.Request) {
	subject, ok := h.Subject(w, r)
	if !ok {
		return
	}

	var req ReplacePermissionsRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	userID := chi.URLParam(r, "userID")
	if err := h.Service.ReplaceMemberPermissions(r.Context(), subject.OrganizationID, userID, req.Keys); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ResetPermissions handles DELETE /members/{userID}/permissions
func (h *Handler) ResetPermissions(w http.ResponseWriter, r *http.Request) {
	subject, ok := h.Subject(w, r)
	if !ok {
		return
	}

	userID := chi.URLParam(r, "userID")
	if err := h.Service.ResetMemberPermissions(r.Context(), subject.OrganizationID, userID); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UpdateRole handles PATCH /members/{userID}/role
func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	subject, ok := h.Subject(w, r)
	if !ok {
		return
	}

	var req UpdateRoleRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	userID := chi.URLParam(r, "userID")
	if err := h.Service.UpdateMemberRole(r.Context(), subject.OrganizationID, userID, req.Role); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListOrganizations handles GET /admin/organizations
func (h *Handler) ListOrganizations(w http.ResponseWriter, r *http.Request) {
	orgs, err := h.Service.ListOrganizations(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, OrganizationsResponse{Organizations: orgs})
}

// ListModules handles GET /admin/organizations/{orgID}/modules
func (h *Handler) ListModules(w http.ResponseWriter, r *http.Request) {
	modules, err := h.Service.ListModules(r.Context(), chi.URLParam(r, "orgID"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ModulesResponse{Modules: modules})
}

// SetModule handles PUT /admin/organizations/{orgID}/modules/{slug}
func (h *Handler) SetModule(w http.ResponseWriter, r *http.Request) {
	var req SetModuleRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	orgID := chi.URLParam(r, "orgID")
	slug := chi.URLParam(r, "slug")
	if err := h.Service.SetModule(r.Context(), orgID, slug, req.Enabled); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
