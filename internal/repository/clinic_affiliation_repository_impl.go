package repository

import (
	"context"
	"errors"

	"unihealth-admin/internal/domain/entity"
	domainRepo "unihealth-admin/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type clinicAffiliationRepository struct{}

func NewClinicAffiliationRepository() domainRepo.ClinicAffiliationRepository {
	return &clinicAffiliationRepository{}
}

func (r *clinicAffiliationRepository) Create(ctx context.Context, db *gorm.DB, affiliation *entity.ClinicAffiliation) error {
	return db.WithContext(ctx).Create(affiliation).Error
}

func (r *clinicAffiliationRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.ClinicAffiliation, error) {
	var affiliation entity.ClinicAffiliation
	err := db.WithContext(ctx).Where("id = ?", id).First(&affiliation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &affiliation, nil
}

func (r *clinicAffiliationRepository) FindByDoctorID(ctx context.Context, db *gorm.DB, doctorID uuid.UUID) ([]entity.ClinicAffiliation, error) {
	var affiliations []entity.ClinicAffiliation
	err := db.WithContext(ctx).Where("doctor_id = ?", doctorID).Order("name ASC").Find(&affiliations).Error
	if err != nil {
		return nil, err
	}
	return affiliations, nil
}

func (r *clinicAffiliationRepository) Update(ctx context.Context, db *gorm.DB, affiliation *entity.ClinicAffiliation) error {
	return db.WithContext(ctx).Save(affiliation).Error
}

func (r *clinicAffiliationRepository) Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.WithContext(ctx).Where("id = ?", id).Delete(&entity.ClinicAffiliation{})
	return result.RowsAffected, result.Error
}
