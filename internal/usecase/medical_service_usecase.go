package usecase

import (
	"context"
	"errors"
	"sort"

	"unihealth-admin/internal/console"
	"unihealth-admin/internal/converter"
	"unihealth-admin/internal/delivery/dto"
	"unihealth-admin/internal/domain/entity"
	"unihealth-admin/internal/domain/repository"
	"unihealth-admin/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrMedicalServiceNotFound = errors.New("medical service not found")
	ErrInvalidPrice           = errors.New("price must not be negative")
)

// MedicalServiceUsecase backs the medical services and catalogs panel
type MedicalServiceUsecase interface {
	console.Panel
	ListServices(ctx context.Context, specialty string) (*dto.MedicalServiceListResponse, error)
	CreateService(ctx context.Context, principal entity.Principal, req *dto.MedicalServiceRequest) (*dto.MedicalServiceResponse, error)
	UpdateService(ctx context.Context, principal entity.Principal, id uuid.UUID, req *dto.MedicalServiceRequest) (*dto.MedicalServiceResponse, error)
	DeleteService(ctx context.Context, principal entity.Principal, id uuid.UUID) error
}

type medicalServiceUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	serviceRepo  repository.MedicalServiceRepository
	auditService service.AuditService
	sessionStore service.ConsoleSessionStore
}

func NewMedicalServiceUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	serviceRepo repository.MedicalServiceRepository,
	auditService service.AuditService,
	sessionStore service.ConsoleSessionStore,
) MedicalServiceUsecase {
	return &medicalServiceUsecase{
		db:           db,
		log:          log,
		serviceRepo:  serviceRepo,
		auditService: auditService,
		sessionStore: sessionStore,
	}
}

func (u *medicalServiceUsecase) Render(ctx context.Context, _ console.UnsavedChangesReporter) (any, error) {
	return u.ListServices(ctx, "")
}

func (u *medicalServiceUsecase) ListServices(ctx context.Context, specialty string) (*dto.MedicalServiceListResponse, error) {
	services, err := u.serviceRepo.FindAll(ctx, u.db, specialty)
	if err != nil {
		u.log.Warnf("Failed to find medical services: %+v", err)
		return nil, err
	}

	seen := make(map[string]bool)
	specialties := make([]string, 0)
	for _, s := range services {
		if !seen[s.Specialty] {
			seen[s.Specialty] = true
			specialties = append(specialties, s.Specialty)
		}
	}
	sort.Strings(specialties)

	return &dto.MedicalServiceListResponse{
		Services:    converter.MedicalServicesToResponses(services),
		Specialties: specialties,
	}, nil
}

func (u *medicalServiceUsecase) CreateService(ctx context.Context, principal entity.Principal, req *dto.MedicalServiceRequest) (*dto.MedicalServiceResponse, error) {
	if req.Price.IsNegative() {
		return nil, ErrInvalidPrice
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	svc := &entity.MedicalService{IsActive: true}
	applyMedicalService(svc, req)

	if err := u.serviceRepo.Create(ctx, tx, svc); err != nil {
		u.log.Warnf("Failed to create medical service: %+v", err)
		return nil, err
	}

	result := converter.MedicalServiceToResponse(svc)
	if err := u.auditService.LogCreate(ctx, tx, &principal.UserID, entity.AuditActionMedicalServiceCreate, "medical_service", svc.ID.String(), result); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	markPanelSaved(ctx, u.log, u.sessionStore, principal, entity.CategoryServices)

	return result, nil
}

func (u *medicalServiceUsecase) UpdateService(ctx context.Context, principal entity.Principal, id uuid.UUID, req *dto.MedicalServiceRequest) (*dto.MedicalServiceResponse, error) {
	if req.Price.IsNegative() {
		return nil, ErrInvalidPrice
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	svc, err := u.serviceRepo.FindByID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to find medical service: %+v", err)
		return nil, err
	}
	if svc == nil {
		return nil, ErrMedicalServiceNotFound
	}

	oldValue := converter.MedicalServiceToResponse(svc)
	applyMedicalService(svc, req)

	if err := u.serviceRepo.Update(ctx, tx, svc); err != nil {
		u.log.Warnf("Failed to update medical service: %+v", err)
		return nil, err
	}

	result := converter.MedicalServiceToResponse(svc)
	if err := u.auditService.LogUpdate(ctx, tx, &principal.UserID, entity.AuditActionMedicalServiceUpdate, "medical_service", svc.ID.String(), oldValue, result); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	markPanelSaved(ctx, u.log, u.sessionStore, principal, entity.CategoryServices)

	return result, nil
}

func (u *medicalServiceUsecase) DeleteService(ctx context.Context, principal entity.Principal, id uuid.UUID) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	svc, err := u.serviceRepo.FindByID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to find medical service: %+v", err)
		return err
	}
	if svc == nil {
		return ErrMedicalServiceNotFound
	}

	if _, err := u.serviceRepo.Delete(ctx, tx, id); err != nil {
		u.log.Warnf("Failed to delete medical service: %+v", err)
		return err
	}

	if err := u.auditService.LogDelete(ctx, tx, &principal.UserID, entity.AuditActionMedicalServiceDelete, "medical_service", id.String(), converter.MedicalServiceToResponse(svc)); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}

func applyMedicalService(svc *entity.MedicalService, req *dto.MedicalServiceRequest) {
	svc.Specialty = req.Specialty
	svc.Name = req.Name
	svc.Description = req.Description
	svc.Price = req.Price.Round(2)
	svc.DurationMinutes = req.DurationMinutes
	if req.IsActive != nil {
		svc.IsActive = *req.IsActive
	}
}
