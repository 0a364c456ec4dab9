package repository

import (
	"context"

	"unihealth-admin/internal/domain/entity"

	"gorm.io/gorm"
)

type SystemSettingRepository interface {
	FindAll(ctx context.Context, db *gorm.DB) ([]entity.SystemSetting, error)
	FindByKeys(ctx context.Context, db *gorm.DB, keys []string) ([]entity.SystemSetting, error)
	Save(ctx context.Context, db *gorm.DB, setting *entity.SystemSetting) error
}
