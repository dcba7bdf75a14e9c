package mockapi

import (
	"time"

	"github.com/prospira/edi-portal/internal/core/domain"
)

// DevPassword is the password of every seeded account.
const DevPassword = "password123"

// Seed loads a vendor that needs a code, a vendor that does not, and two
// employees.
func Seed(s *Service, now time.Time) error {
	accounts := []struct {
		user       domain.User
		withoutOTP bool
	}{
		{
			user: domain.User{
				ExternalID: "V-1001", Username: "acme", DisplayName: "Acme Supply",
				Email: "vendor@acme.test", RoleName: domain.RoleVendor, Profile: "VENDOR",
				Group: "V1001", SourceSystem: domain.SourceVendor,
			},
		},
		{
			user: domain.User{
				ExternalID: "V-1002", Username: "quickparts", DisplayName: "Quick Parts",
				Email: "quick@parts.test", RoleName: domain.RoleVendor, Profile: "VENDOR",
				Group: "V1002", SourceSystem: domain.SourceVendor,
			},
			withoutOTP: true,
		},
		{
			user: domain.User{
				ExternalID: "E-01", Username: "jdoe", DisplayName: "Jane Doe",
				Email: "jdoe@prospira.test", RoleName: domain.RoleAdmin, Profile: "ADMIN",
				SourceSystem: domain.SourceEmployee,
			},
		},
		{
			user: domain.User{
				ExternalID: "E-02", Username: "planner", DisplayName: "Paul Planner",
				Email: "planner@prospira.test", RoleName: domain.RolePlanning, Profile: "PLANNING",
				SourceSystem: domain.SourceEmployee,
			},
			withoutOTP: true,
		},
	}
	for _, a := range accounts {
		if err := s.AddAccount(a.user, DevPassword, a.withoutOTP); err != nil {
			return err
		}
	}

	unread := false
	s.AddSummary("V1001",
		domain.SummaryItem{NumberForecast: "FC-2024-001", StatusForecast: "New", ReadForecast: &unread, VendorCode: "V1001", CreatedAt: now.Add(-2 * time.Hour)},
		domain.SummaryItem{NumberOrder: "PO-88123", StatusOrder: "Pending", ReadOrder: &unread, VendorCode: "V1001", CreatedAt: now.Add(-26 * time.Hour)},
		domain.SummaryItem{NumberInvoice: "INV-5521", StatusInvoice: "Rejected", ReadInvoice: &unread, VendorCode: "V1001", CreatedAt: now.Add(-72 * time.Hour)},
	)
	return nil
}
