package entity

// UserRole identifies which console areas an admin account may use
type UserRole string

const (
	RoleSuperadmin  UserRole = "superadmin"
	RoleAdmin       UserRole = "admin"
	RoleClinicAdmin UserRole = "clinic_admin"
)

// Role ID constants, seeded by the initial migration
const (
	RoleIDSuperadmin  = 1
	RoleIDAdmin       = 2
	RoleIDClinicAdmin = 3
)

var userRoleIDs = map[UserRole]int{
	RoleSuperadmin:  RoleIDSuperadmin,
	RoleAdmin:       RoleIDAdmin,
	RoleClinicAdmin: RoleIDClinicAdmin,
}

// UserRoles returns every known role, most privileged first
func UserRoles() []UserRole {
	return []UserRole{RoleSuperadmin, RoleAdmin, RoleClinicAdmin}
}

func (r UserRole) Valid() bool {
	_, ok := userRoleIDs[r]
	return ok
}

// ID returns the roles table key for r, or 0 when r is unknown
func (r UserRole) ID() int {
	return userRoleIDs[r]
}

func (r UserRole) String() string {
	return string(r)
}

func ParseUserRole(s string) (UserRole, bool) {
	role := UserRole(s)
	return role, role.Valid()
}

func UserRoleFromID(id int) (UserRole, bool) {
	for role, roleID := range userRoleIDs {
		if roleID == id {
			return role, true
		}
	}
	return "", false
}

// Role represents a user role in the system
type Role struct {
	ID          int    `gorm:"primaryKey;autoIncrement" json:"id"`
	RoleName    string `gorm:"type:varchar(50);uniqueIndex;not null" json:"role_name"`
	Description string `gorm:"type:text" json:"description,omitempty"`

	// Relationships
	Users []User `gorm:"foreignKey:RoleID" json:"users,omitempty"`
}

func (Role) TableName() string {
	return "roles"
}
