package usecase

import (
	"context"
	"errors"

	"unihealth-admin/internal/console"
	"unihealth-admin/internal/converter"
	"unihealth-admin/internal/delivery/dto"
	"unihealth-admin/internal/domain/entity"
	"unihealth-admin/internal/domain/repository"
	"unihealth-admin/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrAuditLogNotFound = errors.New("audit log not found")
)

const (
	defaultAuditLogLimit = 20
	maxAuditLogLimit     = 100
	// rows written to one export workbook
	maxAuditLogExportRows = 10000
)

// AuditLogUsecase backs the data and audit panel
type AuditLogUsecase interface {
	console.Panel
	GetAllAuditLogs(ctx context.Context, action string, page, limit int) (*dto.AuditLogListResponse, error)
	GetAuditLog(ctx context.Context, id int64) (*dto.AuditLogResponse, error)
	ExportAuditLogs(ctx context.Context, principal entity.Principal, action string) ([]dto.AuditLogResponse, error)
}

type auditLogUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	auditLogRepo repository.AuditLogRepository
	auditService service.AuditService
}

func NewAuditLogUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	auditLogRepo repository.AuditLogRepository,
	auditService service.AuditService,
) AuditLogUsecase {
	return &auditLogUsecase{
		db:           db,
		log:          log,
		auditLogRepo: auditLogRepo,
		auditService: auditService,
	}
}

func (u *auditLogUsecase) Render(ctx context.Context, _ console.UnsavedChangesReporter) (any, error) {
	return u.GetAllAuditLogs(ctx, "", 1, defaultAuditLogLimit)
}

// NormalizeAuditLogPage clamps paging input to the range the list query accepts
func NormalizeAuditLogPage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultAuditLogLimit
	}
	if limit > maxAuditLogLimit {
		limit = maxAuditLogLimit
	}
	return page, limit
}

func (u *auditLogUsecase) GetAllAuditLogs(ctx context.Context, action string, page, limit int) (*dto.AuditLogListResponse, error) {
	page, limit = NormalizeAuditLogPage(page, limit)

	logs, total, err := u.auditLogRepo.FindAll(ctx, u.db, repository.AuditLogFilter{
		Action: action,
		Limit:  limit,
		Offset: (page - 1) * limit,
	})
	if err != nil {
		u.log.Warnf("Failed to find all audit logs: %+v", err)
		return nil, err
	}

	return &dto.AuditLogListResponse{
		Logs:  converter.AuditLogsToResponses(logs),
		Total: total,
	}, nil
}

func (u *auditLogUsecase) GetAuditLog(ctx context.Context, id int64) (*dto.AuditLogResponse, error) {
	auditLog, err := u.auditLogRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find audit log: %+v", err)
		return nil, err
	}
	if auditLog == nil {
		return nil, ErrAuditLogNotFound
	}

	return converter.AuditLogToResponse(auditLog), nil
}

// ExportAuditLogs returns the newest entries matching action and records the export itself
func (u *auditLogUsecase) ExportAuditLogs(ctx context.Context, principal entity.Principal, action string) ([]dto.AuditLogResponse, error) {
	logs, _, err := u.auditLogRepo.FindAll(ctx, u.db, repository.AuditLogFilter{
		Action: action,
		Limit:  maxAuditLogExportRows,
	})
	if err != nil {
		u.log.Warnf("Failed to find audit logs for export: %+v", err)
		return nil, err
	}

	details := entity.JSON{"rows": len(logs)}
	if action != "" {
		details["action"] = action
	}
	if err := u.auditService.LogEvent(ctx, u.db.WithContext(ctx), &principal.UserID, entity.AuditActionAuditLogExport, details); err != nil {
		return nil, err
	}

	return converter.AuditLogsToResponses(logs), nil
}
