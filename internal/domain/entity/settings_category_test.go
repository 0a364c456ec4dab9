package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func categoryIDs(categories []SettingsCategory) []CategoryID {
	ids := make([]CategoryID, len(categories))
	for i, c := range categories {
		ids[i] = c.ID
	}
	return ids
}

func TestCategoriesForRole_FiltersAndKeepsOrder(t *testing.T) {
	cases := []struct {
		role UserRole
		want []CategoryID
	}{
		{RoleSuperadmin, []CategoryID{CategoryGeneral, CategoryUsers, CategoryClinics, CategoryServices, CategoryData}},
		{RoleAdmin, []CategoryID{CategoryGeneral, CategoryServices}},
		{RoleClinicAdmin, []CategoryID{CategoryClinics}},
	}

	for _, tc := range cases {
		t.Run(string(tc.role), func(t *testing.T) {
			got := CategoriesForRole(tc.role)
			require.Equal(t, tc.want, categoryIDs(got))
			for _, c := range got {
				require.True(t, c.Allows(tc.role), "category %s leaked to %s", c.ID, tc.role)
			}
		})
	}
}

func TestCategoriesForRole_UnknownRoleIsEmpty(t *testing.T) {
	require.Empty(t, CategoriesForRole(UserRole("receptionist")))
	require.Empty(t, CategoriesForRole(""))
}

func TestAllowedRolesAreKnownRoles(t *testing.T) {
	for _, c := range SettingsCategories() {
		require.NotEmpty(t, c.AllowedRoles, c.ID)
		for _, role := range c.AllowedRoles {
			require.True(t, role.Valid(), "category %s allows unknown role %q", c.ID, role)
		}
	}
}

func TestSettingsCategories_ReturnsCopy(t *testing.T) {
	first := SettingsCategories()
	first[0].Label = "changed"
	first[0].AllowedRoles[0] = RoleClinicAdmin

	second := SettingsCategories()
	require.Equal(t, "General Settings", second[0].Label)
	require.Equal(t, RoleSuperadmin, second[0].AllowedRoles[0])
}

func TestFindCategory(t *testing.T) {
	c, ok := FindCategory(CategoryData)
	require.True(t, ok)
	require.Equal(t, "Data & Audit", c.Label)
	require.Equal(t, IconDatabase, c.Icon)

	_, ok = FindCategory("billing")
	require.False(t, ok)
}
