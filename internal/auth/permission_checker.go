package auth

import (
	"log/slog"

	"github.com/frahmantamala/sales-crm/internal/access"
)

// PermissionChecker answers authorization questions for a loaded subject.
type PermissionChecker interface {
	HasPermission(subject access.Subject, key access.Key) bool
	ModuleEnabled(subject access.Subject, slug string) bool
	CanManageOrganization(subject access.Subject) bool
}

// ResolverPermissionChecker delegates to access.Resolver so HTTP gates and
// the menu agree on every decision.
type ResolverPermissionChecker struct {
	routes access.RouteTable
	logger *slog.Logger
}

func NewPermissionChecker(routes access.RouteTable, logger *slog.Logger) *ResolverPermissionChecker {
	return &ResolverPermissionChecker{routes: routes, logger: logger}
}

func (c *ResolverPermissionChecker) resolver(subject access.Subject) *access.Resolver {
	return access.NewResolver(subject, c.routes, c.logger)
}

func (c *ResolverPermissionChecker) HasPermission(subject access.Subject, key access.Key) bool {
	return c.resolver(subject).HasPermission(key)
}

func (c *ResolverPermissionChecker) ModuleEnabled(subject access.Subject, slug string) bool {
	return c.resolver(subject).ModuleEnabled(slug)
}

func (c *ResolverPermissionChecker) CanManageOrganization(subject access.Subject) bool {
	return c.resolver(subject).CanManageOrganization()
}
