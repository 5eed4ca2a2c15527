package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/frahmantamala/sales-crm/internal/access"
	"github.com/frahmantamala/sales-crm/internal/auth"
	cohortDatamodel "github.com/frahmantamala/sales-crm/internal/core/datamodel/cohort"
	enrollmentDatamodel "github.com/frahmantamala/sales-crm/internal/core/datamodel/enrollment"
	orgDatamodel "github.com/frahmantamala/sales-crm/internal/core/datamodel/organization"
	userDatamodel "github.com/frahmantamala/sales-crm/internal/core/datamodel/user"
	"github.com/frahmantamala/sales-crm/internal/roster"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const (
	seedOrgSlug  = "demo-academy"
	seedPassword = "password"
)

type seedUser struct {
	Email      string
	Name       string
	Role       access.Role
	SuperAdmin bool
}

var seedUsers = []seedUser{
	{Email: "admin@demo.academy", Name: "Asha Admin", Role: access.RoleAdmin},
	{Email: "manager@demo.academy", Name: "Manoj Manager", Role: access.RoleManager},
	{Email: "rep@demo.academy", Name: "Riya Rep", Role: access.RoleSalesRep},
	{Email: "viewer@demo.academy", Name: "Vikram Viewer", Role: access.RoleViewer},
	{Email: "superadmin@demo.academy", Name: "Sam Super", SuperAdmin: true},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with a demo organization, members, cohorts, students and appointments.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer sqlDB.Close()

		db, err := initGorm(sqlDB)
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		if clearData {
			if err := clearSeed(db); err != nil {
				log.Fatalf("failed to clear data: %v", err)
			}
			fmt.Println("Cleared existing demo data")
		}

		hash, err := auth.HashPassword(seedPassword, cfg.Security.BCryptCost)
		if err != nil {
			log.Fatalf("failed to hash password: %v", err)
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			return seed(tx, hash)
		})
		if err != nil {
			log.Fatalf("failed to seed: %v", err)
		}

		fmt.Println("Seeded demo organization:", seedOrgSlug)
		for _, u := range seedUsers {
			fmt.Printf("  %s / %s\n", u.Email, seedPassword)
		}
	},
}

func seed(tx *gorm.DB, passwordHash string) error {
	org := orgDatamodel.Organization{Slug: seedOrgSlug}
	if err := tx.Where(orgDatamodel.Organization{Slug: seedOrgSlug}).
		Attrs(orgDatamodel.Organization{Name: "Demo Academy", Timezone: "Asia/Kolkata"}).
		FirstOrCreate(&org).Error; err != nil {
		return fmt.Errorf("organization: %w", err)
	}

	userIDs := map[access.Role]string{}
	for _, su := range seedUsers {
		u := userDatamodel.User{}
		if err := tx.Where(userDatamodel.User{Email: su.Email}).
			Attrs(userDatamodel.User{Name: su.Name, PasswordHash: passwordHash, IsActive: true, IsSuperAdmin: su.SuperAdmin}).
			FirstOrCreate(&u).Error; err != nil {
			return fmt.Errorf("user %s: %w", su.Email, err)
		}
		if su.SuperAdmin {
			continue
		}
		userIDs[su.Role] = u.ID

		m := orgDatamodel.Member{}
		if err := tx.Where(orgDatamodel.Member{OrganizationID: org.ID, UserID: u.ID}).
			Attrs(orgDatamodel.Member{Role: string(su.Role)}).
			FirstOrCreate(&m).Error; err != nil {
			return fmt.Errorf("member %s: %w", su.Email, err)
		}
	}

	for _, slug := range access.AllModules() {
		mod := orgDatamodel.Module{}
		if err := tx.Where(orgDatamodel.Module{OrganizationID: org.ID, Slug: slug}).
			Attrs(orgDatamodel.Module{Enabled: true}).
			FirstOrCreate(&mod).Error; err != nil {
			return fmt.Errorf("module %s: %w", slug, err)
		}
	}

	types := []cohortDatamodel.CohortType{
		{Name: "Stock Market Foundations", Slug: "stock-market-foundations"},
		{Name: "Options Mastery", Slug: "options-mastery"},
	}
	batchIDs := make([]string, 0, len(types))
	for _, t := range types {
		ct := cohortDatamodel.CohortType{}
		if err := tx.Where(cohortDatamodel.CohortType{OrganizationID: org.ID, Slug: t.Slug}).
			Attrs(cohortDatamodel.CohortType{Name: t.Name, IsActive: true}).
			FirstOrCreate(&ct).Error; err != nil {
			return fmt.Errorf("cohort type %s: %w", t.Slug, err)
		}

		b := cohortDatamodel.CohortBatch{}
		if err := tx.Where(cohortDatamodel.CohortBatch{OrganizationID: org.ID, CohortTypeID: ct.ID, Name: "Batch 1"}).
			Attrs(cohortDatamodel.CohortBatch{StartDate: time.Now().AddDate(0, -1, 0)}).
			FirstOrCreate(&b).Error; err != nil {
			return fmt.Errorf("batch for %s: %w", t.Slug, err)
		}
		batchIDs = append(batchIDs, b.ID)
	}

	var existing int64
	if err := tx.Model(&enrollmentDatamodel.CohortStudent{}).Where("organization_id = ?", org.ID).Count(&existing).Error; err != nil {
		return fmt.Errorf("count students: %w", err)
	}
	if existing > 0 {
		return nil
	}

	rep := userIDs[access.RoleSalesRep]
	manager := userIDs[access.RoleManager]
	now := time.Now()
	day := 24 * time.Hour

	students := []struct {
		Name   string
		Status roster.Status
		Offer  int64
		Cash   int64
		PAE    bool
		Closer string
		Ago    time.Duration
	}{
		{"Aarav Shah", roster.StatusConverted, 50000, 50000, false, rep, 2 * day},
		{"Diya Menon", roster.StatusConvertedBeginner, 40000, 15000, false, rep, 5 * day},
		{"Kabir Rao", roster.StatusConvertedIntermediate, 60000, 20000, true, manager, 9 * day},
		{"Meera Iyer", roster.StatusConvertedAdvance, 80000, 80000, false, manager, 15 * day},
		{"Rohan Gupta", roster.StatusBookingAmount, 45000, 5000, false, rep, 1 * day},
		{"Sara Khan", roster.StatusRefunded, 50000, 0, false, rep, 30 * day},
		{"Vivaan Das", roster.StatusDiscontinued, 40000, 10000, false, manager, 40 * day},
	}
	for i, s := range students {
		closer := s.Closer
		row := enrollmentDatamodel.CohortStudent{
			OrganizationID:  org.ID,
			BatchID:         batchIDs[i%len(batchIDs)],
			ContactName:     s.Name,
			Status:          string(s.Status),
			OfferAmount:     s.Offer,
			CashReceived:    s.Cash,
			DueAmount:       roster.ComputeDue(s.Offer, s.Cash),
			PayAfterEarning: s.PAE,
			CloserID:        &closer,
			ConvertedAt:     now.Add(-s.Ago),
		}
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("student %s: %w", s.Name, err)
		}
	}

	appointments := []struct {
		Name   string
		Status roster.Status
		In     time.Duration
	}{
		{"Ishaan Verma", roster.StatusScheduled, day},
		{"Anaya Pillai", roster.StatusRescheduled, 3 * day},
		{"Arjun Nair", roster.StatusNoShow, -2 * day},
		{"Tara Joshi", roster.StatusNotConverted, -4 * day},
	}
	for _, a := range appointments {
		closer := rep
		row := enrollmentDatamodel.CallAppointment{
			OrganizationID: org.ID,
			ContactName:    a.Name,
			Status:         string(a.Status),
			ScheduledDate:  now.Add(a.In),
			OfferAmount:    45000,
			DueAmount:      45000,
			CloserID:       &closer,
		}
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("appointment %s: %w", a.Name, err)
		}
	}

	return nil
}

// clearSeed removes the demo organization. Child rows go with it through the
// foreign key cascades; the demo users are removed explicitly.
func clearSeed(db *gorm.DB) error {
	emails := make([]string, 0, len(seedUsers))
	for _, u := range seedUsers {
		emails = append(emails, u.Email)
	}
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("slug = ?", seedOrgSlug).Delete(&orgDatamodel.Organization{}).Error; err != nil {
			return err
		}
		return tx.Where("email IN ?", emails).Delete(&userDatamodel.User{}).Error
	})
}
