package repository

import (
	"context"

	"unihealth-admin/internal/domain/entity"

	"gorm.io/gorm"
)

// AuditLogFilter narrows audit log listings; zero values mean no filter
type AuditLogFilter struct {
	Action string
	Limit  int
	Offset int
}

type AuditLogRepository interface {
	Create(ctx context.Context, db *gorm.DB, log *entity.AuditLog) error
	FindAll(ctx context.Context, db *gorm.DB, filter AuditLogFilter) ([]entity.AuditLog, int64, error)
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.AuditLog, error)
}
