package domain

import "strings"

// SourceSystem tells internal employees apart from external vendor users.
type SourceSystem string

const (
	SourceVendor   SourceSystem = "APP_USER"
	SourceEmployee SourceSystem = "APP_EMPLOYEE"
)

// Role names as issued by the EDI API. Matching is case-insensitive.
const (
	RoleSU       = "SU"
	RoleAdmin    = "ADMIN"
	RoleHR       = "HR"
	RoleEngineer = "ENGINEER 1"
	RoleVendor   = "VENDER"
	RolePlanning = "PLANNING"
	RolePurchase = "PURCHASE"
)

// User is the authenticated principal resolved from the session token.
type User struct {
	PrincipalID  string       `json:"edi_principal_id"`
	ExternalID   string       `json:"external_id"`
	Username     string       `json:"username"`
	DisplayName  string       `json:"display_name,omitempty"`
	Email        string       `json:"email,omitempty"`
	RoleName     string       `json:"role_name"`
	Profile      string       `json:"profile"`
	Group        string       `json:"group"`
	SourceSystem SourceSystem `json:"source_system"`
}

// HasRoleName reports whether the user carries a non-blank role.
func (u *User) HasRoleName() bool {
	return u != nil && strings.TrimSpace(u.RoleName) != ""
}

// IsEmployee reports whether the user is an internal employee. Everybody
// else is treated as an external vendor user.
func (u *User) IsEmployee() bool {
	return u != nil && u.SourceSystem == SourceEmployee
}

// HasRole reports whether the user's role equals role, ignoring case.
func (u *User) HasRole(role string) bool {
	if !u.HasRoleName() {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(u.RoleName), strings.TrimSpace(role))
}

// HasAnyRole is the single role predicate of the portal: true when any of
// roles matches the user's role ignoring case. A nil user, a blank role or an
// empty allow-list never match.
func (u *User) HasAnyRole(roles ...string) bool {
	for _, r := range roles {
		if u.HasRole(r) {
			return true
		}
	}
	return false
}
