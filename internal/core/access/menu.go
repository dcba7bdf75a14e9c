package access

import (
	"strings"

	"github.com/prospira/edi-portal/internal/core/domain"
)

// NavItem is an entry of the portal sidebar.
type NavItem struct {
	Key    string   `json:"key"`
	Label  string   `json:"label"`
	Path   string   `json:"path"`
	Active bool     `json:"active"`
	Allow  []string `json:"-"`
	// Open items are shown to everybody and skip Allow.
	Open bool `json:"-"`
	// Also lists sub-paths that mark the item active.
	Also []string `json:"-"`
}

var navItems = []NavItem{
	{Key: "forecast", Label: "forecast", Path: "forecast",
		Allow: []string{domain.RoleSU, domain.RoleAdmin, domain.RoleVendor, domain.RolePlanning, domain.RolePurchase}},
	{Key: "orders", Label: "orders", Path: "orders", Also: []string{"order-form/"},
		Allow: []string{domain.RoleSU, domain.RoleAdmin, domain.RoleVendor, domain.RolePurchase}},
	{Key: "invoices", Label: "invoices", Path: "invoices", Also: []string{"invoice-form/"},
		Allow: []string{domain.RoleSU, domain.RoleAdmin, domain.RoleVendor, domain.RolePurchase}},
	{Key: "vendors", Label: "vendors", Path: "vendors", Also: []string{"vendor-detail"},
		Allow: []string{domain.RoleSU, domain.RoleAdmin}},
	{Key: "user", Label: "user", Path: "user",
		Allow: []string{domain.RoleSU}},
	{Key: "settings", Label: "settings", Path: "settings",
		Allow: []string{domain.RoleSU, domain.RoleAdmin, domain.RoleVendor, domain.RolePlanning, domain.RolePurchase}},
}

// Menu returns the sidebar items visible to u under /lang, marking the one
// that matches currentPath. Open items are always shown; the others go
// through the same role predicate as the route guard, so an item with an
// empty or nil allow-list is hidden.
func Menu(u *domain.User, lang, currentPath string) []NavItem {
	base := "/" + lang + "/"
	out := make([]NavItem, 0, len(navItems))
	for _, it := range navItems {
		if !it.Open && !u.HasAnyRole(it.Allow...) {
			continue
		}
		item := it
		item.Path = base + it.Path
		item.Active = isActive(currentPath, base, it)
		out = append(out, item)
	}
	return out
}

func isActive(current, base string, it NavItem) bool {
	if strings.HasPrefix(current, base+it.Path) {
		return true
	}
	for _, sub := range it.Also {
		if strings.HasPrefix(current, base+sub) {
			return true
		}
	}
	return false
}
