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
	ErrSettingNotFound = errors.New("system setting not found")
)

// GeneralSettingsUsecase backs the general settings panel
type GeneralSettingsUsecase interface {
	console.Panel
	GetSettings(ctx context.Context) (*dto.GeneralSettingsResponse, error)
	UpdateSettings(ctx context.Context, principal entity.Principal, req *dto.UpdateGeneralSettingsRequest) (*dto.GeneralSettingsResponse, error)
}

type generalSettingsUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	settingRepo  repository.SystemSettingRepository
	auditService service.AuditService
	sessionStore service.ConsoleSessionStore
}

func NewGeneralSettingsUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	settingRepo repository.SystemSettingRepository,
	auditService service.AuditService,
	sessionStore service.ConsoleSessionStore,
) GeneralSettingsUsecase {
	return &generalSettingsUsecase{
		db:           db,
		log:          log,
		settingRepo:  settingRepo,
		auditService: auditService,
		sessionStore: sessionStore,
	}
}

func (u *generalSettingsUsecase) Render(ctx context.Context, _ console.UnsavedChangesReporter) (any, error) {
	return u.GetSettings(ctx)
}

func (u *generalSettingsUsecase) GetSettings(ctx context.Context) (*dto.GeneralSettingsResponse, error) {
	settings, err := u.settingRepo.FindAll(ctx, u.db)
	if err != nil {
		u.log.Warnf("Failed to find system settings: %+v", err)
		return nil, err
	}

	return &dto.GeneralSettingsResponse{
		Settings: converter.SystemSettingsToResponses(settings),
	}, nil
}

func (u *generalSettingsUsecase) UpdateSettings(ctx context.Context, principal entity.Principal, req *dto.UpdateGeneralSettingsRequest) (*dto.GeneralSettingsResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	keys := make([]string, len(req.Settings))
	for i, s := range req.Settings {
		keys[i] = s.Key
	}

	existing, err := u.settingRepo.FindByKeys(ctx, tx, keys)
	if err != nil {
		u.log.Warnf("Failed to find system settings: %+v", err)
		return nil, err
	}

	byKey := make(map[string]entity.SystemSetting, len(existing))
	for _, s := range existing {
		byKey[s.Key] = s
	}

	oldValues := entity.JSON{}
	newValues := entity.JSON{}
	for _, s := range req.Settings {
		current, ok := byKey[s.Key]
		if !ok {
			return nil, ErrSettingNotFound
		}
		if current.Value == s.Value {
			continue
		}

		oldValues[s.Key] = current.Value
		newValues[s.Key] = s.Value
		current.Value = s.Value
		byKey[s.Key] = current

		if err := u.settingRepo.Save(ctx, tx, &current); err != nil {
			u.log.Warnf("Failed to save system setting: %+v", err)
			return nil, err
		}
	}

	if len(newValues) > 0 {
		if err := u.auditService.LogUpdate(ctx, tx, &principal.UserID, entity.AuditActionSettingsUpdate, "system_settings", string(entity.CategoryGeneral), oldValues, newValues); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	markPanelSaved(ctx, u.log, u.sessionStore, principal, entity.CategoryGeneral)

	return u.GetSettings(ctx)
}
