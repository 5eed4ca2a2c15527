package rest_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/frahmantamala/sales-crm/internal/auth"
	"github.com/frahmantamala/sales-crm/internal/cohort"
	"github.com/frahmantamala/sales-crm/internal/emi"
	"github.com/frahmantamala/sales-crm/internal/enrollment"
	"github.com/frahmantamala/sales-crm/internal/member"
	"github.com/frahmantamala/sales-crm/internal/observability"
	"github.com/frahmantamala/sales-crm/internal/organization"
	"github.com/frahmantamala/sales-crm/internal/transport"
	"github.com/frahmantamala/sales-crm/internal/transport/rest"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const openAPIFile = "../../../api/openapi.yml"

func newRouter() *chi.Mux {
	lg := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	base := transport.NewBaseHandler(lg)
	metrics := observability.NewMetrics()

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, rest.RouterDeps{
		Handlers: rest.Handlers{
			Auth:         auth.NewHandler(nil, lg),
			Member:       member.NewHandler(base, nil),
			Organization: organization.NewHandler(base, nil),
			Cohort:       cohort.NewHandler(base, nil),
			Enrollment:   enrollment.NewHandler(base, nil),
			EMI:          emi.NewHandler(base, nil),
		},
		RBAC:           auth.NewRBACAuthorization(auth.NewPermissionChecker(nil, lg), metrics, lg),
		LoginLimiter:   auth.NewLoginLimiter(context.Background(), 1, 2, 0),
		Metrics:        metrics,
		MetricsPath:    "/metrics",
		AllowedOrigins: "*",
		OpenAPIFile:    openAPIFile,
		Logger:         lg,
	})
	return router
}

var _ = Describe("Router", func() {
	var router *chi.Mux

	BeforeEach(func() {
		router = newRouter()
	})

	It("should serve the liveness probe without auth", func() {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Header().Get("X-Trace-ID")).NotTo(BeEmpty())
	})

	It("should reject protected routes without a bearer token", func() {
		for _, path := range []string{"/api/v1/me", "/api/v1/batches/b-1/students", "/api/v1/admin/organizations"} {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

			Expect(rec.Code).To(Equal(http.StatusUnauthorized), path)
			Expect(rec.Body.String()).To(ContainSubstring("INVALID_TOKEN"))
		}
	})

	It("should expose request metrics with route patterns", func() {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring(`path="/api/v1/ping"`))
	})

	It("should rate limit login attempts per client", func() {
		var last int
		for i := 0; i < 3; i++ {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{`))
			req.RemoteAddr = "203.0.113.7:5000"
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			last = rec.Code
		}
		Expect(last).To(Equal(http.StatusTooManyRequests))
	})

	Describe("OpenAPI document", func() {
		var doc *openapi3.T

		BeforeEach(func() {
			loader := openapi3.NewLoader()
			var err error
			doc, err = loader.LoadFromFile(openAPIFile)
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.Validate(loader.Context)).To(Succeed())
		})

		It("should describe every API route the router serves", func() {
			var missing []string
			err := chi.Walk(router, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
				if !strings.HasPrefix(route, rest.APIPrefix+"/") {
					return nil
				}
				path := strings.TrimPrefix(route, rest.APIPrefix)
				item := doc.Paths.Value(path)
				if item == nil || item.GetOperation(method) == nil {
					missing = append(missing, method+" "+path)
				}
				return nil
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(missing).To(BeEmpty())
		})
	})
})
