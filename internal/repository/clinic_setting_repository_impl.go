package repository

import (
	"context"
	"errors"

	"unihealth-admin/internal/domain/entity"
	domainRepo "unihealth-admin/internal/domain/repository"

	"gorm.io/gorm"
)

type clinicSettingRepository struct{}

func NewClinicSettingRepository() domainRepo.ClinicSettingRepository {
	return &clinicSettingRepository{}
}

func (r *clinicSettingRepository) FindAll(ctx context.Context, db *gorm.DB) ([]entity.ClinicSetting, error) {
	var settings []entity.ClinicSetting
	err := db.WithContext(ctx).Order("clinic_name ASC").Find(&settings).Error
	if err != nil {
		return nil, err
	}
	return settings, nil
}

func (r *clinicSettingRepository) FindByClinicName(ctx context.Context, db *gorm.DB, clinicName string) (*entity.ClinicSetting, error) {
	var setting entity.ClinicSetting
	err := db.WithContext(ctx).Where("clinic_name = ?", clinicName).First(&setting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &setting, nil
}

func (r *clinicSettingRepository) Save(ctx context.Context, db *gorm.DB, setting *entity.ClinicSetting) error {
	return db.WithContext(ctx).Save(setting).Error
}
