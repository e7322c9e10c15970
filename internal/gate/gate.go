// Package gate decides which navigation entries and routes an identity may
// see. Role checks live here and nowhere else, so adding a role or a
// restricted entry touches a single file.
package gate

import (
	"github.com/traceai/trace-client/internal/models"
)

// NavEntry is one sidebar navigation item.
type NavEntry struct {
	Name string
	Path string
	// Group labels the section the entry renders under.
	Group string
}

const (
	// GroupGeneral entries are visible to every authenticated identity.
	GroupGeneral = "Main Menu"
	// GroupAdmin entries are visible to administrators only.
	GroupAdmin = "Administration"
)

// generalItems are visible to every authenticated identity regardless of role.
var generalItems = []NavEntry{
	{Name: "Overview", Path: "/dashboard", Group: GroupGeneral},
	{Name: "New Analysis", Path: "/dashboard/upload", Group: GroupGeneral},
	{Name: "History", Path: "/dashboard/history", Group: GroupGeneral},
}

// adminItems require the Admin role. The check is by-value equality on the
// role enum: a new role must be added to models and considered here together.
var adminItems = []NavEntry{
	{Name: "Admin Control Panel", Path: "/dashboard/admin", Group: GroupAdmin},
}

// NormalizeRole maps any stored role onto the enum, defaulting unknown or
// missing values to the least-privileged role. Gating fails closed: a
// tampered session blob can only lose privileges, never gain them.
func NormalizeRole(r models.Role) models.Role {
	switch r {
	case models.RoleStudent, models.RoleClinician, models.RoleAdmin:
		return r
	default:
		return models.RoleStudent
	}
}

// VisibleNavItems returns the ordered navigation entries for id. An absent
// identity sees nothing.
func VisibleNavItems(id *models.Identity) []NavEntry {
	if id == nil {
		return nil
	}
	items := make([]NavEntry, 0, len(generalItems)+len(adminItems))
	items = append(items, generalItems...)
	if NormalizeRole(id.Role) == models.RoleAdmin {
		items = append(items, adminItems...)
	}
	return items
}

// IsAuthorized reports whether id may open route. Authorization mirrors nav
// visibility: there is no separate trust boundary on the client, and the
// server re-checks the role on every privileged endpoint.
func IsAuthorized(route string, id *models.Identity) bool {
	if id == nil {
		return false
	}
	for _, e := range adminItems {
		if e.Path == route {
			return NormalizeRole(id.Role) == models.RoleAdmin
		}
	}
	return true
}
