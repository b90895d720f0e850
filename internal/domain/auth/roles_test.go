package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPermissionsFor_AdminIffOri(t *testing.T) {
	for _, r := range AllRoles() {
		assert.Equal(t, r == RoleOri, PermissionsFor(r).IsAdmin, "role %s", r)
		assert.Equal(t, r == RoleOri, IsAdministrator(r), "role %s", r)
	}
}

func TestPermissionsFor_Table(t *testing.T) {
	tests := []struct {
		role Role
		want Permissions
	}{
		{RoleOri, Permissions{IsAdmin: true, CanManageUsers: true, CanManageBrands: true, CanManageInfluencers: true, CanViewAnalytics: true}},
		{RoleBrand, Permissions{CanViewAnalytics: true, CanCreateCampaigns: true}},
		{RoleInfluencer, Permissions{CanViewAnalytics: true, CanApplyToCampaigns: true}},
		{Role(""), Permissions{}},
		{Role("superuser"), Permissions{}},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.want, PermissionsFor(tt.role))
		})
	}
}

func TestUser_Permissions(t *testing.T) {
	var nilUser *User
	assert.Equal(t, Permissions{}, nilUser.Permissions())
	assert.True(t, (&User{Role: RoleOri}).Permissions().CanManageUsers)
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole(" Brand ")
	require.NoError(t, err)
	assert.Equal(t, RoleBrand, r)

	_, err = ParseRole("admin")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "valid options")

	assert.False(t, Role("").Valid())
	assert.Len(t, AllRoles(), 3)
}
