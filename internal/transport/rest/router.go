package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/sales-crm/internal/access"
	"github.com/frahmantamala/sales-crm/internal/auth"
	"github.com/frahmantamala/sales-crm/internal/cohort"
	"github.com/frahmantamala/sales-crm/internal/emi"
	"github.com/frahmantamala/sales-crm/internal/enrollment"
	"github.com/frahmantamala/sales-crm/internal/member"
	"github.com/frahmantamala/sales-crm/internal/observability"
	"github.com/frahmantamala/sales-crm/internal/organization"
	"github.com/frahmantamala/sales-crm/internal/transport/middleware"
	"github.com/frahmantamala/sales-crm/internal/transport/swagger"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/jmoiron/sqlx"
)

const APIPrefix = "/api/v1"

type Handlers struct {
	Auth         *auth.Handler
	Member       *member.Handler
	Organization *organization.Handler
	Cohort       *cohort.Handler
	Enrollment   *enrollment.Handler
	EMI          *emi.Handler
}

type RouterDeps struct {
	DB             *sqlx.DB
	Handlers       Handlers
	RBAC           *auth.RBACAuthorization
	RecordPolicy   auth.RecordPolicy
	LoginLimiter   *auth.LoginLimiter
	Metrics        *observability.Metrics
	MetricsPath    string
	AllowedOrigins string
	OpenAPIFile    string
	Logger         *slog.Logger
}

func RegisterAllRoutes(router *chi.Mux, deps RouterDeps) {
	healthHandler := NewHealthHandler(deps.DB)
	rbac := deps.RBAC
	h := deps.Handlers

	router.Use(middleware.CORS(deps.AllowedOrigins))
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.RequestID)
	router.Use(middleware.Recovery)
	router.Use(middleware.Logging)
	router.Use(deps.Metrics.Instrument)

	if deps.MetricsPath != "" {
		router.Handle(deps.MetricsPath, deps.Metrics.Handler())
	}

	openAPIFile := deps.OpenAPIFile
	if openAPIFile == "" {
		openAPIFile = "./api/openapi.yml"
	}
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, openAPIFile)
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route(APIPrefix, func(r chi.Router) {
		r.Get("/health", healthHandler.Health)
		r.Get("/ping", healthHandler.Ping)

		r.Group(func(ar chi.Router) {
			if deps.LoginLimiter != nil {
				ar.Use(deps.LoginLimiter.Middleware)
			}
			ar.Post("/auth/login", h.Auth.Login)
			ar.Post("/auth/refresh", h.Auth.RefreshToken)
		})
		r.Post("/auth/logout", h.Auth.Logout)

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Get("/me", h.Member.GetCurrentMember)
			pr.Get("/me/route", h.Member.ResolveRoute)

			pr.Group(func(cr chi.Router) {
				cr.Use(rbac.RequireModule(access.ModuleCohortManagement))
				cr.Use(rbac.Require(access.KeyCohorts))

				cr.Get("/cohort-types", h.Cohort.ListCohortTypes)
				cr.Post("/cohort-types", h.Cohort.CreateCohortType)
				cr.Get("/cohort-types/{slug}/batches", h.Cohort.ListBatches)
				cr.Get("/batches/{batchID}/students", h.Enrollment.GetBatchRoster)

				cr.Group(func(sr chi.Router) {
					sr.Use(auth.RequireCanActOnStudent(deps.DB, deps.RecordPolicy))
					sr.Post("/students/{id}/refund", h.Enrollment.Refund)
					sr.Post("/students/{id}/discontinue", h.Enrollment.Discontinue)
				})
			})

			pr.Group(func(ar chi.Router) {
				ar.Use(rbac.Require(access.KeyCalls))
				ar.Get("/appointments", h.Enrollment.GetAppointments)
			})

			pr.Group(func(er chi.Router) {
				er.Use(rbac.RequireModule(access.ModuleEMITracking))
				er.Use(rbac.Require(access.KeyPayments))
				er.Use(auth.RequireCanActOnStudent(deps.DB, deps.RecordPolicy))
				er.Get("/students/{id}/emi", h.EMI.ListInstallments)
				er.Post("/students/{id}/emi", h.EMI.RecordInstallment)
			})

			pr.Group(func(mr chi.Router) {
				mr.Use(rbac.RequireOrganizationAdmin())
				mr.Get("/members", h.Organization.ListMembers)
				mr.Put("/members/{userID}/permissions", h.Organization.ReplacePermissions)
				mr.Delete("/members/{userID}/permissions", h.Organization.ResetPermissions)
				mr.Patch("/members/{userID}/role", h.Organization.UpdateRole)
			})

			pr.Group(func(sr chi.Router) {
				sr.Use(rbac.RequireSuperAdmin())
				sr.Get("/admin/organizations", h.Organization.ListOrganizations)
				sr.Get("/admin/organizations/{orgID}/modules", h.Organization.ListModules)
				sr.Put("/admin/organizations/{orgID}/modules/{slug}", h.Organization.SetModule)
			})
		})
	})
}
