package member

import "github.com/frahmantamala/sales-crm/internal/access"

type RouteResponse struct {
	access.RouteDecision
	From string `json:"from"`
}
