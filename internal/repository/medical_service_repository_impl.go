package repository

import (
	"context"
	"errors"

	"unihealth-admin/internal/domain/entity"
	domainRepo "unihealth-admin/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type medicalServiceRepository struct{}

func NewMedicalServiceRepository() domainRepo.MedicalServiceRepository {
	return &medicalServiceRepository{}
}

func (r *medicalServiceRepository) Create(ctx context.Context, db *gorm.DB, service *entity.MedicalService) error {
	return db.WithContext(ctx).Create(service).Error
}

func (r *medicalServiceRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.MedicalService, error) {
	var service entity.MedicalService
	err := db.WithContext(ctx).Where("id = ?", id).First(&service).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &service, nil
}

func (r *medicalServiceRepository) FindAll(ctx context.Context, db *gorm.DB, specialty string) ([]entity.MedicalService, error) {
	var services []entity.MedicalService
	query := db.WithContext(ctx)
	if specialty != "" {
		query = query.Where("specialty ILIKE ?", "%"+specialty+"%")
	}
	err := query.Order("specialty ASC, name ASC").Find(&services).Error
	if err != nil {
		return nil, err
	}
	return services, nil
}

func (r *medicalServiceRepository) Update(ctx context.Context, db *gorm.DB, service *entity.MedicalService) error {
	return db.WithContext(ctx).Save(service).Error
}

func (r *medicalServiceRepository) Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.WithContext(ctx).Where("id = ?", id).Delete(&entity.MedicalService{})
	return result.RowsAffected, result.Error
}
