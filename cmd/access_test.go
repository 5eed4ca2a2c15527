package cmd_test

import (
	"bytes"
	"encoding/json"

	"github.com/frahmantamala/sales-crm/cmd"
	"github.com/frahmantamala/sales-crm/internal/access"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type accessOutput struct {
	Role          access.Role           `json:"role"`
	EffectiveKeys []access.Key          `json:"effective_keys"`
	Menu          []access.MenuEntry    `json:"menu"`
	Landing       access.RouteDecision  `json:"landing"`
	Route         *access.RouteDecision `json:"route"`
}

func runAccess(args ...string) (accessOutput, error) {
	out, _, err := runAccessWithStderr(args...)
	return out, err
}

func runAccessWithStderr(args ...string) (accessOutput, string, error) {
	var buf, errBuf bytes.Buffer
	root := cmd.Root()
	root.SetOut(&buf)
	root.SetErr(&errBuf)
	// flags persist between Execute calls, so every run states them all.
	base := []string{"access", "menu", "--role", "viewer", "--modules", "", "--keys", "", "--path", "", "--cohort-types", "", "--super-admin=false"}
	root.SetArgs(append(base, args...))

	var out accessOutput
	if err := root.Execute(); err != nil {
		return out, errBuf.String(), err
	}
	err := json.Unmarshal(buf.Bytes(), &out)
	return out, errBuf.String(), err
}

func menuIDs(entries []access.MenuEntry) []string {
	var ids []string
	for _, e := range entries {
		ids = append(ids, e.ID)
		ids = append(ids, menuIDs(e.Children)...)
	}
	return ids
}

var _ = Describe("access menu", func() {
	It("lands a viewer on the dashboard", func() {
		out, err := runAccess()
		Expect(err).NotTo(HaveOccurred())
		Expect(out.Role).To(Equal(access.RoleViewer))
		Expect(out.EffectiveKeys).To(ContainElement(access.KeyDashboard))
		Expect(out.Landing.Outcome).To(Equal(access.OutcomeRedirect))
		Expect(out.Landing.Path).To(Equal("/"))
		Expect(menuIDs(out.Menu)).NotTo(ContainElement("members"))
	})

	It("hides module gated entries until the module is enabled", func() {
		out, err := runAccess("--role", "admin", "--cohort-types", "options")
		Expect(err).NotTo(HaveOccurred())
		Expect(menuIDs(out.Menu)).NotTo(ContainElement("cohort-batches"))
		Expect(menuIDs(out.Menu)).To(ContainElement("members"))

		out, err = runAccess("--role", "admin", "--modules", "all", "--cohort-types", "options")
		Expect(err).NotTo(HaveOccurred())
		Expect(menuIDs(out.Menu)).To(ContainElement("cohort-batches"))
	})

	It("redirects from a forbidden path", func() {
		out, err := runAccess("--role", "sales_rep", "--path", "/members")
		Expect(err).NotTo(HaveOccurred())
		Expect(out.Route).NotTo(BeNil())
		Expect(out.Route.Outcome).To(Equal(access.OutcomeRedirect))
		Expect(out.Route.Path).To(Equal("/"))
	})

	It("replaces the role default with explicit keys", func() {
		out, err := runAccess("--keys", "reports", "--path", "/reports")
		Expect(err).NotTo(HaveOccurred())
		Expect(out.EffectiveKeys).To(ConsistOf(access.KeyReports))
		Expect(out.Route.Outcome).To(Equal(access.OutcomeStay))
	})

	It("keeps the no route warning out of the JSON output", func() {
		out, stderr, err := runAccessWithStderr("--role", "")
		Expect(err).NotTo(HaveOccurred())
		Expect(out.EffectiveKeys).To(BeEmpty())
		Expect(out.Landing.Outcome).To(Equal(access.OutcomeNoAccessibleRoute))
		Expect(stderr).To(ContainSubstring("no accessible route"))
	})

	It("rejects unknown keys and roles", func() {
		_, err := runAccess("--keys", "nope")
		Expect(err).To(HaveOccurred())

		_, err = runAccess("--role", "owner")
		Expect(err).To(HaveOccurred())
	})
})
