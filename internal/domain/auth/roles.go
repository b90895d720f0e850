package auth

import (
	"fmt"
	"strings"
)

// Role represents an application's authorization role.
// Keep string form for easy persistence and JSON payloads.
type Role string

const (
	RoleInfluencer Role = "influencer"
	RoleBrand      Role = "brand"
	// RoleOri is the administrator role.
	RoleOri Role = "ori"
)

// AllRoles returns every valid role in declaration order.
func AllRoles() []Role {
	return []Role{RoleInfluencer, RoleBrand, RoleOri}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleInfluencer, RoleBrand, RoleOri:
		return true
	default:
		return false
	}
}

func (r Role) String() string { return string(r) }

// ParseRole converts a raw string into a Role. Input is trimmed and lower-cased.
func ParseRole(raw string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(raw)))
	if !r.Valid() {
		return "", fmt.Errorf("invalid role %q (valid options: influencer, brand, ori)", raw)
	}
	return r, nil
}

// IsAdministrator reports whether r is the privileged role.
func IsAdministrator(r Role) bool { return r == RoleOri }

// Permissions is the static capability record derived from a role.
type Permissions struct {
	IsAdmin              bool `json:"isAdmin"`
	CanManageUsers       bool `json:"canManageUsers"`
	CanManageBrands      bool `json:"canManageBrands"`
	CanManageInfluencers bool `json:"canManageInfluencers"`
	CanViewAnalytics     bool `json:"canViewAnalytics"`
	CanCreateCampaigns   bool `json:"canCreateCampaigns"`
	CanApplyToCampaigns  bool `json:"canApplyToCampaigns"`
}

// PermissionsFor returns the permission set for a role.
// Unknown or empty roles get the zero value (everything false).
func PermissionsFor(r Role) Permissions {
	switch r {
	case RoleOri:
		return Permissions{
			IsAdmin:              true,
			CanManageUsers:       true,
			CanManageBrands:      true,
			CanManageInfluencers: true,
			CanViewAnalytics:     true,
		}
	case RoleBrand:
		return Permissions{
			CanViewAnalytics:   true,
			CanCreateCampaigns: true,
		}
	case RoleInfluencer:
		return Permissions{
			CanViewAnalytics:    true,
			CanApplyToCampaigns: true,
		}
	default:
		return Permissions{}
	}
}
