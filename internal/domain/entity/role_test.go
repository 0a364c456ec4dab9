package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseUserRole(t *testing.T) {
	role, ok := ParseUserRole("clinic_admin")
	assert.True(t, ok)
	assert.Equal(t, RoleClinicAdmin, role)

	_, ok = ParseUserRole("doctor")
	assert.False(t, ok)
}

func TestUserRoleIDRoundTrip(t *testing.T) {
	for _, role := range UserRoles() {
		got, ok := UserRoleFromID(role.ID())
		assert.True(t, ok)
		assert.Equal(t, role, got)
	}
	_, ok := UserRoleFromID(99)
	assert.False(t, ok)
	assert.Equal(t, 0, UserRole("nobody").ID())
}

func TestUser_UserRolePrefersPreloadedRole(t *testing.T) {
	u := &User{RoleID: RoleIDAdmin, Role: Role{RoleName: "superadmin"}}
	assert.Equal(t, RoleSuperadmin, u.UserRole())

	u = &User{RoleID: RoleIDClinicAdmin}
	assert.Equal(t, RoleClinicAdmin, u.UserRole())
}

func TestUser_Active(t *testing.T) {
	inactive := false
	assert.True(t, (&User{}).Active())
	assert.False(t, (&User{IsActive: &inactive}).Active())
}
