package member

import (
	"github.com/frahmantamala/sales-crm/internal/access"
)

// Profile is what the signed-in member's client needs to draw navigation.
type Profile struct {
	UserID         string               `json:"user_id"`
	Email          string               `json:"email"`
	Name           string               `json:"name"`
	OrganizationID string               `json:"organization_id,omitempty"`
	Role           access.Role          `json:"role,omitempty"`
	IsSuperAdmin   bool                 `json:"is_super_admin"`
	Permissions    []access.Key         `json:"permissions"`
	Modules        []string             `json:"modules"`
	Menu           []access.MenuEntry   `json:"menu"`
	Landing        access.RouteDecision `json:"landing"`
}
