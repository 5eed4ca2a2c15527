package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/frahmantamala/sales-crm/internal/access"
	"github.com/frahmantamala/sales-crm/pkg/logger"
	"github.com/spf13/cobra"
)

var (
	accessRole        string
	accessModules     string
	accessKeys        string
	accessCohortTypes string
	accessPath        string
	accessSuperAdmin  bool
)

var accessCmd = &cobra.Command{
	Use:   "access",
	Short: "Inspect access control decisions",
}

var accessMenuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Print the menu, landing route and effective keys for a subject",
	RunE: func(cmd *cobra.Command, args []string) error {
		role := access.ParseRole(accessRole)
		if accessRole != "" && !role.IsKnown() {
			return fmt.Errorf("unknown role %q", accessRole)
		}

		var src access.PermissionSource = access.RoleDefault{Role: role}
		if accessKeys != "" {
			keys := map[access.Key]bool{}
			for _, k := range splitList(accessKeys) {
				if !access.IsKnownKey(access.Key(k)) {
					return fmt.Errorf("unknown permission key %q", k)
				}
				keys[access.Key(k)] = true
			}
			src = access.ExplicitOverride{Keys: keys}
		}

		modules := access.ModuleSet{}
		if accessModules == "all" {
			modules = access.NewModuleSet(access.AllModules()...)
		} else if accessModules != "" {
			modules = access.NewModuleSet(splitList(accessModules)...)
		}

		subject := access.Subject{
			UserID:       "cli",
			Role:         role,
			IsSuperAdmin: accessSuperAdmin,
			Grant:        access.ResolveGrant(src),
			Modules:      modules,
		}
		resolver := access.NewResolver(subject, access.DefaultRoutes(), logger.New(cmd.ErrOrStderr(), "warn", "text"))

		var types []access.CohortType
		for _, slug := range splitList(accessCohortTypes) {
			types = append(types, access.CohortType{Slug: slug, Name: slug})
		}
		def := access.MergeDynamic(access.DefaultMenu(), access.DynamicCohortTypes,
			access.CohortTypeEntries(types, resolver.CanManageCohorts()), nil)

		out := struct {
			Role          access.Role           `json:"role"`
			EffectiveKeys []access.Key          `json:"effective_keys"`
			Menu          []access.MenuEntry    `json:"menu"`
			Landing       access.RouteDecision  `json:"landing"`
			Route         *access.RouteDecision `json:"route,omitempty"`
		}{
			Role:          role,
			EffectiveKeys: resolver.EffectiveKeys(),
			Menu:          resolver.BuildMenu(def),
			Landing:       resolver.LandingRoute(),
		}
		if accessPath != "" {
			d := resolver.ResolveAccessibleRoute(accessPath)
			out.Route = &d
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func init() {
	accessMenuCmd.Flags().StringVar(&accessRole, "role", "viewer", "Member role (admin, manager, sales_rep, viewer)")
	accessMenuCmd.Flags().StringVar(&accessModules, "modules", "", "Comma separated enabled modules, or \"all\"")
	accessMenuCmd.Flags().StringVar(&accessKeys, "keys", "", "Comma separated explicit permission keys, replacing the role default")
	accessMenuCmd.Flags().StringVar(&accessCohortTypes, "cohort-types", "", "Comma separated cohort type slugs for the dynamic cohort menu")
	accessMenuCmd.Flags().StringVar(&accessPath, "path", "", "Current path to resolve")
	accessMenuCmd.Flags().BoolVar(&accessSuperAdmin, "super-admin", false, "Treat the subject as a super admin")

	accessCmd.AddCommand(accessMenuCmd)
	rootCmd.AddCommand(accessCmd)
}
