package access_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/sales-crm/internal/access"
)

func ids(entries []access.MenuEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

var _ = Describe("Menu", func() {
	var (
		def      []access.MenuEntry
		resolver *access.Resolver
	)

	BeforeEach(func() {
		def = []access.MenuEntry{
			{ID: "dashboard", Title: "Dashboard", Path: "/", Permission: access.KeyDashboard},
			{ID: "cohort-batches", Title: "Cohort Batches", ModuleSlug: access.ModuleCohortManagement, Children: []access.MenuEntry{
				{ID: "batch-a", Title: "Batch A", Path: "/cohorts/a", Permission: access.KeyCohorts},
				{ID: "batch-b", Title: "Batch B", Path: "/cohorts/b", Permission: access.KeyCohorts},
			}},
			{ID: "sales", Title: "Sales", Children: []access.MenuEntry{
				{ID: "calls", Path: "/calls", Permission: access.KeyCalls},
				{ID: "members", Path: "/members", Permission: access.KeyMembers},
			}},
			{ID: "help", Title: "Help", Path: "/help"},
		}
	})

	Context("when the cohort module is disabled", func() {
		BeforeEach(func() {
			resolver = access.NewResolver(access.Subject{
				Role:    access.RoleManager,
				Grant:   access.ResolveGrant(access.RoleDefault{Role: access.RoleManager}),
				Modules: access.NewModuleSet(access.ModuleWorkshops),
			}, nil, testLogger)
		})

		It("should omit the whole parent even though both children are permitted", func() {
			Expect(resolver.HasPermission(access.KeyCohorts)).To(BeTrue())

			menu := resolver.BuildMenu(def)

			Expect(ids(menu)).NotTo(ContainElement("cohort-batches"))
		})
	})

	Context("when modules have not been loaded", func() {
		It("should treat every module as disabled", func() {
			resolver = access.NewResolver(access.Subject{IsSuperAdmin: true}, nil, testLogger)
			menu := resolver.BuildMenu(access.DefaultMenu())
			for _, e := range menu {
				Expect(e.ModuleSlug).To(BeEmpty())
			}
		})
	})

	Context("when filtering children", func() {
		BeforeEach(func() {
			resolver = access.NewResolver(access.Subject{
				Role:    access.RoleSalesRep,
				Grant:   access.ResolveGrant(access.RoleDefault{Role: access.RoleSalesRep}),
				Modules: access.NewModuleSet(access.ModuleCohortManagement),
			}, nil, testLogger)
		})

		It("should keep a parent with only its surviving children", func() {
			menu := resolver.BuildMenu(def)

			Expect(ids(menu)).To(Equal([]string{"dashboard", "sales", "help"}))
			Expect(ids(menu[1].Children)).To(Equal([]string{"calls"}))
		})

		It("should drop a parent whose children are all filtered out", func() {
			menu := resolver.BuildMenu(def)
			Expect(ids(menu)).NotTo(ContainElement("cohort-batches"))
		})

		It("should not modify the definition", func() {
			resolver.BuildMenu(def)
			Expect(def[2].Children).To(HaveLen(2))
		})

		It("should keep leaves without a permission key", func() {
			Expect(ids(resolver.BuildMenu(def))).To(ContainElement("help"))
		})
	})

	Describe("dynamic cohort entries", func() {
		var manager, rep *access.Resolver

		BeforeEach(func() {
			modules := access.NewModuleSet(access.ModuleCohortManagement)
			manager = access.NewResolver(access.Subject{
				Role:    access.RoleManager,
				Grant:   access.ResolveGrant(access.RoleDefault{Role: access.RoleManager}),
				Modules: modules,
			}, nil, testLogger)
			rep = access.NewResolver(access.Subject{
				Role:    access.RoleSalesRep,
				Grant:   access.ResolveGrant(access.ExplicitOverride{Keys: map[access.Key]bool{access.KeyCohorts: true}}),
				Modules: modules,
			}, nil, testLogger)
		})

		It("should merge live cohort types before filtering", func() {
			children := access.CohortTypeEntries([]access.CohortType{
				{Slug: "data-science", Name: "Data Science"},
				{Slug: "web-dev", Name: "Web Development"},
			}, manager.CanManageCohorts())

			menu := manager.BuildMenu(access.MergeDynamic(access.DefaultMenu(), access.DynamicCohortTypes, children, nil))

			var cohort *access.MenuEntry
			for i := range menu {
				if menu[i].ID == "cohort-batches" {
					cohort = &menu[i]
				}
			}
			Expect(cohort).NotTo(BeNil())
			Expect(ids(cohort.Children)).To(Equal([]string{"cohort-type-data-science", "cohort-type-web-dev"}))
			Expect(cohort.Children[1].Path).To(Equal("/cohorts/web-dev"))
		})

		It("should fall back to a create entry for members who may create", func() {
			children := access.CohortTypeEntries(nil, manager.CanManageCohorts())
			menu := manager.BuildMenu(access.MergeDynamic(access.DefaultMenu(), access.DynamicCohortTypes, children, nil))

			Expect(ids(menu)).To(ContainElement("cohort-batches"))
			for _, e := range menu {
				if e.ID == "cohort-batches" {
					Expect(ids(e.Children)).To(Equal([]string{"cohort-type-new"}))
				}
			}
		})

		It("should hide the cohort section from members who may not create when there are no types", func() {
			children := access.CohortTypeEntries(nil, rep.CanManageCohorts())
			menu := rep.BuildMenu(access.MergeDynamic(access.DefaultMenu(), access.DynamicCohortTypes, children, nil))

			Expect(ids(menu)).NotTo(ContainElement("cohort-batches"))
		})

		It("should use the fallback when the live source is empty", func() {
			fallback := []access.MenuEntry{{ID: "placeholder", Path: "/cohorts", Permission: access.KeyCohorts}}
			merged := access.MergeDynamic(access.DefaultMenu(), access.DynamicCohortTypes, nil, fallback)

			for _, e := range merged {
				if e.DynamicSource == access.DynamicCohortTypes {
					Expect(ids(e.Children)).To(Equal([]string{"placeholder"}))
				}
			}
		})
	})

	Describe("IconFor", func() {
		It("should map known names and fall back for unknown ones", func() {
			Expect(access.IconFor("payments")).To(Equal("wallet"))
			Expect(access.IconFor("nope")).To(Equal("circle"))
		})
	})
})
