package usecase

import (
	"context"
	"errors"
	"strings"

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
	ErrClinicNameRequired = errors.New("clinic name is required")
)

// ClinicSettingsUsecase backs the clinic-specific settings panel
type ClinicSettingsUsecase interface {
	console.Panel
	ListClinics(ctx context.Context) (*dto.ClinicSettingListResponse, error)
	UpsertClinic(ctx context.Context, principal entity.Principal, clinicName string, req *dto.UpsertClinicSettingRequest) (*dto.ClinicSettingResponse, error)
}

type clinicSettingsUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	clinicRepo   repository.ClinicSettingRepository
	auditService service.AuditService
	sessionStore service.ConsoleSessionStore
}

func NewClinicSettingsUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	clinicRepo repository.ClinicSettingRepository,
	auditService service.AuditService,
	sessionStore service.ConsoleSessionStore,
) ClinicSettingsUsecase {
	return &clinicSettingsUsecase{
		db:           db,
		log:          log,
		clinicRepo:   clinicRepo,
		auditService: auditService,
		sessionStore: sessionStore,
	}
}

func (u *clinicSettingsUsecase) Render(ctx context.Context, _ console.UnsavedChangesReporter) (any, error) {
	return u.ListClinics(ctx)
}

func (u *clinicSettingsUsecase) ListClinics(ctx context.Context) (*dto.ClinicSettingListResponse, error) {
	clinics, err := u.clinicRepo.FindAll(ctx, u.db)
	if err != nil {
		u.log.Warnf("Failed to find clinic settings: %+v", err)
		return nil, err
	}

	return &dto.ClinicSettingListResponse{
		Clinics: converter.ClinicSettingsToResponses(clinics),
	}, nil
}

// UpsertClinic creates the settings row for clinicName on first write
func (u *clinicSettingsUsecase) UpsertClinic(ctx context.Context, principal entity.Principal, clinicName string, req *dto.UpsertClinicSettingRequest) (*dto.ClinicSettingResponse, error) {
	clinicName = strings.TrimSpace(clinicName)
	if clinicName == "" {
		return nil, ErrClinicNameRequired
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	setting, err := u.clinicRepo.FindByClinicName(ctx, tx, clinicName)
	if err != nil {
		u.log.Warnf("Failed to find clinic setting: %+v", err)
		return nil, err
	}

	var oldValue interface{}
	if setting == nil {
		setting = &entity.ClinicSetting{ClinicName: clinicName}
	} else {
		oldValue = converter.ClinicSettingToResponse(setting)
	}

	setting.OpeningHours = req.OpeningHours
	setting.BookingWindowDays = req.BookingWindowDays
	setting.MaxDailyAppointments = req.MaxDailyAppointments
	setting.AcceptsWalkIns = req.AcceptsWalkIns

	if err := u.clinicRepo.Save(ctx, tx, setting); err != nil {
		u.log.Warnf("Failed to save clinic setting: %+v", err)
		return nil, err
	}

	newValue := converter.ClinicSettingToResponse(setting)
	if err := u.auditService.LogUpdate(ctx, tx, &principal.UserID, entity.AuditActionClinicSettingsUpdate, "clinic_setting", setting.ID.String(), oldValue, newValue); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	markPanelSaved(ctx, u.log, u.sessionStore, principal, entity.CategoryClinics)

	return newValue, nil
}
