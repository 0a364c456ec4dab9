package entity

// CategoryID is the stable key of a settings category
type CategoryID string

const (
	CategoryGeneral  CategoryID = "general"
	CategoryUsers    CategoryID = "users"
	CategoryClinics  CategoryID = "clinics"
	CategoryServices CategoryID = "services"
	CategoryData     CategoryID = "data"
)

// Icon names the glyph the browser renders next to a category
type Icon string

const (
	IconSettings Icon = "settings"
	IconUsers    Icon = "users"
	IconBuilding Icon = "building"
	IconFileText Icon = "file-text"
	IconDatabase Icon = "database"
)

// SettingsCategory is one selectable section of the settings console
type SettingsCategory struct {
	ID           CategoryID `json:"id"`
	Label        string     `json:"label"`
	Icon         Icon       `json:"icon"`
	Description  string     `json:"description"`
	AllowedRoles []UserRole `json:"allowed_roles"`
}

func (c SettingsCategory) Allows(role UserRole) bool {
	for _, allowed := range c.AllowedRoles {
		if allowed == role {
			return true
		}
	}
	return false
}

var settingsCategories = []SettingsCategory{
	{
		ID:           CategoryGeneral,
		Label:        "General Settings",
		Icon:         IconSettings,
		Description:  "Configure global system parameters",
		AllowedRoles: []UserRole{RoleSuperadmin, RoleAdmin},
	},
	{
		ID:           CategoryUsers,
		Label:        "User & Role Management",
		Icon:         IconUsers,
		Description:  "Manage admin users and permissions",
		AllowedRoles: []UserRole{RoleSuperadmin},
	},
	{
		ID:           CategoryClinics,
		Label:        "Clinic-Specific Settings",
		Icon:         IconBuilding,
		Description:  "Configure individual clinic operations",
		AllowedRoles: []UserRole{RoleSuperadmin, RoleClinicAdmin},
	},
	{
		ID:           CategoryServices,
		Label:        "Medical Services & Catalogs",
		Icon:         IconFileText,
		Description:  "Manage medical specialties and services",
		AllowedRoles: []UserRole{RoleSuperadmin, RoleAdmin},
	},
	{
		ID:           CategoryData,
		Label:        "Data & Audit",
		Icon:         IconDatabase,
		Description:  "System logs and data management",
		AllowedRoles: []UserRole{RoleSuperadmin},
	},
}

// SettingsCategories returns a copy of the static category list in display order
func SettingsCategories() []SettingsCategory {
	out := make([]SettingsCategory, len(settingsCategories))
	for i, c := range settingsCategories {
		c.AllowedRoles = append([]UserRole(nil), c.AllowedRoles...)
		out[i] = c
	}
	return out
}

// CategoriesForRole keeps the categories whose allow-set contains role, preserving order
func CategoriesForRole(role UserRole) []SettingsCategory {
	out := make([]SettingsCategory, 0, len(settingsCategories))
	for _, c := range SettingsCategories() {
		if c.Allows(role) {
			out = append(out, c)
		}
	}
	return out
}

func FindCategory(id CategoryID) (SettingsCategory, bool) {
	for _, c := range SettingsCategories() {
		if c.ID == id {
			return c, true
		}
	}
	return SettingsCategory{}, false
}
