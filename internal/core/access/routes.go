package access

import (
	"github.com/prospira/edi-portal/internal/core/domain"
)

// Route is a guarded portal page below /:lang.
type Route struct {
	Key   string
	Path  string
	Title string
	Allow []string
}

// Routes lists every role-gated page of the portal.
var Routes = []Route{
	{Key: "forecast", Path: "forecast", Title: "Forecast",
		Allow: []string{domain.RoleSU, domain.RoleEngineer, domain.RoleVendor}},
	{Key: "orders", Path: "orders", Title: "Orders",
		Allow: []string{domain.RoleSU, domain.RoleHR, domain.RoleEngineer, domain.RoleVendor}},
	{Key: "invoices", Path: "invoices", Title: "Invoices",
		Allow: []string{domain.RoleSU, domain.RoleHR, domain.RoleEngineer, domain.RoleVendor}},
	{Key: "settings", Path: "settings", Title: "Settings",
		Allow: []string{domain.RoleSU, domain.RoleEngineer, domain.RoleVendor}},
	{Key: "vendors", Path: "vendors", Title: "Vendors",
		Allow: []string{domain.RoleSU, domain.RoleHR, domain.RoleEngineer, domain.RoleVendor}},
	{Key: "forecast-form", Path: "forecast-form/:number", Title: "Forecast",
		Allow: []string{domain.RoleSU, domain.RoleEngineer, domain.RoleVendor}},
	{Key: "vendor-detail", Path: "vendor-detail", Title: "Vendor detail",
		Allow: []string{domain.RoleSU, domain.RoleHR, domain.RoleEngineer}},
	{Key: "order-form", Path: "order-form/:number", Title: "Order",
		Allow: []string{domain.RoleSU, domain.RoleHR, domain.RoleEngineer, domain.RoleVendor}},
	{Key: "invoice-form", Path: "invoice-form/:number", Title: "Invoice",
		Allow: []string{domain.RoleSU, domain.RoleHR, domain.RoleEngineer, domain.RoleVendor}},
	{Key: "user", Path: "user", Title: "Users",
		Allow: []string{domain.RoleSU, domain.RoleEngineer}},
}

// HomePath is where a fresh login lands.
const HomePath = "forecast"

// LoginPath returns the login entry point for lang.
func LoginPath(lang string) string {
	return "/" + lang + "/login"
}

// CanConfirm gates the confirm, reject and approve actions of document
// forms. Only internal employees act on vendor documents.
func CanConfirm(u *domain.User) bool {
	return u.IsEmployee()
}
