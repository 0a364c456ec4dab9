package repository

import (
	"context"
	"errors"

	"unihealth-admin/internal/domain/entity"
	domainRepo "unihealth-admin/internal/domain/repository"

	"gorm.io/gorm"
)

type roleRepository struct{}

func NewRoleRepository() domainRepo.RoleRepository {
	return &roleRepository{}
}

func (r *roleRepository) FindByUserRole(ctx context.Context, db *gorm.DB, role entity.UserRole) (*entity.Role, error) {
	var found entity.Role
	err := db.WithContext(ctx).
		Where("id = ? AND role_name = ?", role.ID(), role.String()).
		First(&found).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &found, nil
}

func (r *roleRepository) FindAll(ctx context.Context, db *gorm.DB) ([]entity.Role, error) {
	var roles []entity.Role
	err := db.WithContext(ctx).Order("id ASC").Find(&roles).Error
	return roles, err
}
