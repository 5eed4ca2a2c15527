package cohort_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/frahmantamala/sales-crm/internal"
	"github.com/frahmantamala/sales-crm/internal/access"
	"github.com/frahmantamala/sales-crm/internal/cohort"
	cohortPostgres "github.com/frahmantamala/sales-crm/internal/cohort/postgres"
	"github.com/frahmantamala/sales-crm/internal/transport"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Cohort Handler Integration", func() {
	var (
		handler *cohort.Handler
		admin   access.Subject
	)

	BeforeEach(func() {
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service := cohort.NewService(cohortPostgres.NewCohortRepository(openTestDB()), slogger)
		handler = cohort.NewHandler(&transport.BaseHandler{Logger: slogger}, service)
		admin = access.Subject{OrganizationID: "org-1", UserID: "u-1", Role: access.RoleAdmin}
	})

	authed := func(req *http.Request) *http.Request {
		return req.WithContext(internal.ContextWithSubject(req.Context(), admin))
	}

	It("should create and then list cohort types", func() {
		w := httptest.NewRecorder()
		handler.CreateCohortType(w, authed(httptest.NewRequest(http.MethodPost, "/cohort-types", strings.NewReader(`{"name":"Swing Trading"}`))))
		Expect(w.Code).To(Equal(http.StatusCreated))

		w = httptest.NewRecorder()
		handler.ListCohortTypes(w, authed(httptest.NewRequest(http.MethodGet, "/cohort-types", nil)))

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Content-Type")).To(ContainSubstring("application/json"))

		var response cohort.CohortTypesResponse
		Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
		Expect(response.CohortTypes).To(HaveLen(1))
		Expect(response.CohortTypes[0].Slug).To(Equal("swing-trading"))
	})

	It("should return 401 without a subject", func() {
		w := httptest.NewRecorder()
		handler.ListCohortTypes(w, httptest.NewRequest(http.MethodGet, "/cohort-types", nil))
		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})
})
