package observability_test

import (
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/sales-crm/internal/observability"
)

var _ = Describe("Metrics", func() {
	var m *observability.Metrics

	BeforeEach(func() {
		m = observability.NewMetrics()
	})

	It("should label requests with the route pattern", func() {
		r := chi.NewRouter()
		r.Use(m.Instrument)
		r.Get("/students/{id}", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		})

		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/students/abc", nil))
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/students/def", nil))

		body := scrape(m)
		Expect(body).To(ContainSubstring(`http_requests_total{method="GET",path="/students/{id}",status="418"} 2`))
	})

	It("should count denials per key", func() {
		m.ObserveDenied("members")
		m.ObserveDenied("members")
		m.ObserveDenied("reports")

		body := scrape(m)
		Expect(body).To(ContainSubstring(`access_denied_total{key="members"} 2`))
		Expect(body).To(ContainSubstring(`access_denied_total{key="reports"} 1`))
	})

	It("should record roster sizes", func() {
		m.ObserveRosterFiltered(3)
		Expect(scrape(m)).To(ContainSubstring("roster_records_filtered_count 1"))
	})

	It("should be a no-op when nil", func() {
		var nilMetrics *observability.Metrics
		Expect(func() {
			nilMetrics.ObserveDenied("x")
			nilMetrics.ObserveRosterFiltered(1)
		}).NotTo(Panic())

		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
		Expect(nilMetrics.Instrument(next)).NotTo(BeNil())
	})
})

func scrape(m *observability.Metrics) string {
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	Expect(rec.Code).To(Equal(http.StatusOK))
	return rec.Body.String()
}
