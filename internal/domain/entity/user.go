package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is an admin account that can sign in to the console
type User struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	RoleID      int        `gorm:"not null;index" json:"role_id"`
	Email       string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password    string     `gorm:"type:text;not null" json:"-"`
	FullName    string     `gorm:"type:varchar(255);not null" json:"full_name"`
	IsActive    *bool      `gorm:"not null;default:true;index" json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Role Role `gorm:"foreignKey:RoleID" json:"role,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// UserRole resolves the console role from the preloaded Role, falling back to RoleID
func (u *User) UserRole() UserRole {
	if role, ok := ParseUserRole(u.Role.RoleName); ok {
		return role
	}
	role, _ := UserRoleFromID(u.RoleID)
	return role
}

func (u *User) Active() bool {
	return u.IsActive == nil || *u.IsActive
}
