package access_test

import (
	"log/slog"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/sales-crm/internal/access"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

func subjectWith(role access.Role, src access.PermissionSource) access.Subject {
	return access.Subject{
		OrganizationID: "org-1",
		UserID:         "user-1",
		Role:           role,
		Grant:          access.ResolveGrant(src),
		Modules:        access.NewModuleSet(access.AllModules()...),
	}
}

var _ = Describe("Resolver", func() {
	Describe("ResolveGrant", func() {
		It("should use the static table for role defaults", func() {
			g := access.ResolveGrant(access.RoleDefault{Role: access.RoleSalesRep})
			Expect(g.Keys()).To(Equal([]access.Key{
				access.KeyDashboard, access.KeyLeads, access.KeyCalls,
				access.KeySales, access.KeyCustomers, access.KeyWhatsApp,
			}))
		})

		It("should replace role defaults with an explicit override", func() {
			g := access.ResolveGrant(access.ExplicitOverride{Keys: map[access.Key]bool{
				access.KeyDashboard: true,
				access.KeyReports:   false,
			}})
			Expect(g.Keys()).To(Equal([]access.Key{access.KeyDashboard}))
		})

		It("should drop unknown keys from an override", func() {
			g := access.ResolveGrant(access.ExplicitOverride{Keys: map[access.Key]bool{"billing": true}})
			Expect(g).To(BeEmpty())
		})

		It("should resolve a nil source to an empty grant", func() {
			Expect(access.ResolveGrant(nil)).To(BeEmpty())
		})

		It("should give unknown roles no defaults", func() {
			Expect(access.ResolveGrant(access.RoleDefault{Role: access.ParseRole("intern")})).To(BeEmpty())
		})
	})

	Describe("HasPermission", func() {
		Context("when the grant is empty", func() {
			It("should deny every key for every non-admin role", func() {
				for _, role := range []access.Role{access.RoleManager, access.RoleSalesRep, access.RoleViewer, access.RoleUnknown} {
					r := access.NewResolver(access.Subject{Role: role}, nil, testLogger)
					for _, k := range access.AllKeys() {
						Expect(r.HasPermission(k)).To(BeFalse(), "role %q key %q", role, k)
					}
				}
			})
		})

		Context("when the member is an admin or super admin", func() {
			It("should allow every key regardless of grant contents", func() {
				admin := access.NewResolver(access.Subject{Role: access.RoleAdmin, Grant: access.Grant{}}, nil, testLogger)
				super := access.NewResolver(access.Subject{Role: access.RoleViewer, IsSuperAdmin: true}, nil, testLogger)
				for _, k := range access.AllKeys() {
					Expect(admin.HasPermission(k)).To(BeTrue())
					Expect(super.HasPermission(k)).To(BeTrue())
				}
			})
		})

		Context("when a viewer has an explicit override of dashboard only", func() {
			It("should grant dashboard and deny sales even though the viewer default has sales", func() {
				Expect(access.RoleDefaults(access.RoleViewer)).To(ContainElement(access.KeySales))

				r := access.NewResolver(subjectWith(access.RoleViewer, access.ExplicitOverride{
					Keys: map[access.Key]bool{access.KeyDashboard: true},
				}), nil, testLogger)

				Expect(r.HasPermission(access.KeyDashboard)).To(BeTrue())
				Expect(r.HasPermission(access.KeySales)).To(BeFalse())
			})
		})

		It("should deny unknown keys without panicking", func() {
			r := access.NewResolver(subjectWith(access.RoleManager, access.RoleDefault{Role: access.RoleManager}), nil, testLogger)
			Expect(r.HasPermission("billing")).To(BeFalse())
		})

		It("should deny an unknown role even if a grant was forced in", func() {
			r := access.NewResolver(access.Subject{Role: "intern", Grant: access.Grant{access.KeyDashboard: true}}, nil, testLogger)
			Expect(r.HasPermission(access.KeyDashboard)).To(BeFalse())
		})
	})

	Describe("ResolveAccessibleRoute", func() {
		It("should stay on a permitted route", func() {
			r := access.NewResolver(subjectWith(access.RoleSalesRep, access.RoleDefault{Role: access.RoleSalesRep}), nil, testLogger)
			d := r.ResolveAccessibleRoute("/leads")
			Expect(d.Outcome).To(Equal(access.OutcomeStay))
			Expect(d.Path).To(Equal("/leads"))
		})

		It("should stay on a route that is not in the table", func() {
			r := access.NewResolver(access.Subject{Role: access.RoleViewer}, nil, testLogger)
			d := r.ResolveAccessibleRoute("/profile")
			Expect(d.Outcome).To(Equal(access.OutcomeStay))
		})

		It("should redirect to the first permitted route in table order", func() {
			r := access.NewResolver(subjectWith(access.RoleViewer, access.ExplicitOverride{Keys: map[access.Key]bool{
				access.KeyReports: true,
				access.KeySales:   true,
			}}), nil, testLogger)

			d := r.ResolveAccessibleRoute("/members")
			Expect(d.Outcome).To(Equal(access.OutcomeRedirect))
			Expect(d.Path).To(Equal("/sales"))

			again := r.ResolveAccessibleRoute("/members")
			Expect(again).To(Equal(d))
		})

		It("should gate nested paths by their parent route", func() {
			r := access.NewResolver(subjectWith(access.RoleSalesRep, access.RoleDefault{Role: access.RoleSalesRep}), nil, testLogger)
			d := r.ResolveAccessibleRoute("/cohorts/python-bootcamp")
			Expect(d.Outcome).To(Equal(access.OutcomeRedirect))
			Expect(d.Path).To(Equal("/"))
		})

		It("should report the terminal state when nothing is reachable", func() {
			r := access.NewResolver(subjectWith(access.RoleViewer, access.ExplicitOverride{Keys: map[access.Key]bool{}}), nil, testLogger)
			d := r.ResolveAccessibleRoute("/")
			Expect(d.Outcome).To(Equal(access.OutcomeNoAccessibleRoute))
			Expect(d.Err()).To(MatchError(access.ErrNoAccessibleRoute))

			path, ok := d.Target()
			Expect(ok).To(BeFalse())
			Expect(path).To(BeEmpty())
		})

		It("should honour a custom table order", func() {
			routes := access.RouteTable{
				{Path: "/reports", Key: access.KeyReports},
				{Path: "/", Key: access.KeyDashboard},
			}
			r := access.NewResolver(subjectWith(access.RoleViewer, access.RoleDefault{Role: access.RoleViewer}), routes, testLogger)
			Expect(r.LandingRoute().Path).To(Equal("/reports"))
		})
	})

	Describe("LandingRoute", func() {
		It("should send super admins to the console", func() {
			r := access.NewResolver(access.Subject{IsSuperAdmin: true}, nil, testLogger)
			Expect(r.LandingRoute().Path).To(Equal(access.SuperAdminRoute))
		})
	})

	Describe("management capabilities", func() {
		It("should let admins and managers create cohorts but only admins manage the organization", func() {
			admin := access.NewResolver(access.Subject{Role: access.RoleAdmin}, nil, testLogger)
			manager := access.NewResolver(access.Subject{Role: access.RoleManager}, nil, testLogger)
			rep := access.NewResolver(access.Subject{Role: access.RoleSalesRep}, nil, testLogger)

			Expect(admin.CanManageCohorts()).To(BeTrue())
			Expect(manager.CanManageCohorts()).To(BeTrue())
			Expect(rep.CanManageCohorts()).To(BeFalse())

			Expect(admin.CanManageOrganization()).To(BeTrue())
			Expect(manager.CanManageOrganization()).To(BeFalse())
		})
	})
})

var _ = Describe("RouteTable", func() {
	routes := access.DefaultRoutes()

	DescribeTable("Lookup",
		func(path string, key access.Key, ok bool) {
			got, found := routes.Lookup(path)
			Expect(found).To(Equal(ok))
			if ok {
				Expect(got).To(Equal(key))
			}
		},
		Entry("root", "/", access.KeyDashboard, true),
		Entry("exact", "/members", access.KeyMembers, true),
		Entry("trailing slash", "/members/", access.KeyMembers, true),
		Entry("nested", "/cohorts/abc/students", access.KeyCohorts, true),
		Entry("query string", "/leads?page=2", access.KeyLeads, true),
		Entry("unmapped", "/profile", access.Key(""), false),
		Entry("similar prefix", "/leadsboard", access.Key(""), false),
	)
})
