package repository

import (
	"context"

	"unihealth-admin/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MedicalServiceRepository interface {
	Create(ctx context.Context, db *gorm.DB, service *entity.MedicalService) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.MedicalService, error)
	FindAll(ctx context.Context, db *gorm.DB, specialty string) ([]entity.MedicalService, error)
	Update(ctx context.Context, db *gorm.DB, service *entity.MedicalService) error
	Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error)
}
