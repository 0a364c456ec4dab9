package repository

import (
	"context"

	"unihealth-admin/internal/domain/entity"

	"gorm.io/gorm"
)

type ClinicSettingRepository interface {
	FindAll(ctx context.Context, db *gorm.DB) ([]entity.ClinicSetting, error)
	FindByClinicName(ctx context.Context, db *gorm.DB, clinicName string) (*entity.ClinicSetting, error)
	Save(ctx context.Context, db *gorm.DB, setting *entity.ClinicSetting) error
}
