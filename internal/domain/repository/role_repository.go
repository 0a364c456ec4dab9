package repository

import (
	"context"

	"unihealth-admin/internal/domain/entity"

	"gorm.io/gorm"
)

type RoleRepository interface {
	// FindByUserRole loads the row seeded for role; nil when it is missing or renamed
	FindByUserRole(ctx context.Context, db *gorm.DB, role entity.UserRole) (*entity.Role, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]entity.Role, error)
}
