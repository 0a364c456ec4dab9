package repository

import (
	"context"

	"unihealth-admin/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClinicAffiliationRepository interface {
	Create(ctx context.Context, db *gorm.DB, affiliation *entity.ClinicAffiliation) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.ClinicAffiliation, error)
	FindByDoctorID(ctx context.Context, db *gorm.DB, doctorID uuid.UUID) ([]entity.ClinicAffiliation, error)
	Update(ctx context.Context, db *gorm.DB, affiliation *entity.ClinicAffiliation) error
	Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error)
}
