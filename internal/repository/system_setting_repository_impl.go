package repository

import (
	"context"

	"unihealth-admin/internal/domain/entity"
	domainRepo "unihealth-admin/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type systemSettingRepository struct{}

func NewSystemSettingRepository() domainRepo.SystemSettingRepository {
	return &systemSettingRepository{}
}

func (r *systemSettingRepository) FindAll(ctx context.Context, db *gorm.DB) ([]entity.SystemSetting, error) {
	var settings []entity.SystemSetting
	err := db.WithContext(ctx).Order("group_name ASC, key ASC").Find(&settings).Error
	if err != nil {
		return nil, err
	}
	return settings, nil
}

func (r *systemSettingRepository) FindByKeys(ctx context.Context, db *gorm.DB, keys []string) ([]entity.SystemSetting, error) {
	var settings []entity.SystemSetting
	err := db.WithContext(ctx).Where("key IN ?", keys).Find(&settings).Error
	if err != nil {
		return nil, err
	}
	return settings, nil
}

// Save upserts by key
func (r *systemSettingRepository) Save(ctx context.Context, db *gorm.DB, setting *entity.SystemSetting) error {
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(setting).Error
}
