package usecase

import (
	"context"
	"errors"

	"unihealth-admin/internal/affiliation"
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
	ErrDoctorNotFound             = errors.New("doctor not found")
	ErrAffiliationNotFound        = errors.New("clinic affiliation not found")
	ErrNoDialogOpen               = errors.New("no affiliation dialog is open")
	ErrUnknownAffiliationField    = errors.New("unknown affiliation field")
	ErrAffiliationDraftIncomplete = errors.New("name, role, days and hours are all required")
)

// AffiliationUsecase owns the affiliation dialog of each console session and
// persists whatever the dialog hands back on save.
type AffiliationUsecase interface {
	ListAffiliations(ctx context.Context, doctorID uuid.UUID) (*dto.AffiliationListResponse, error)
	OpenDialog(ctx context.Context, principal entity.Principal, doctorID uuid.UUID, req *dto.OpenAffiliationDialogRequest) (*dto.AffiliationDialogResponse, error)
	GetDialog(ctx context.Context, principal entity.Principal) (*dto.AffiliationDialogResponse, error)
	EditDialogField(ctx context.Context, principal entity.Principal, req *dto.EditAffiliationFieldRequest) (*dto.AffiliationDialogResponse, error)
	SaveDialog(ctx context.Context, principal entity.Principal) (*dto.SaveAffiliationDialogResponse, error)
	CancelDialog(ctx context.Context, principal entity.Principal) (*dto.AffiliationDialogResponse, error)
	DeleteAffiliation(ctx context.Context, principal entity.Principal, id uuid.UUID) error
}

type affiliationUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	doctorRepo      repository.DoctorProfileRepository
	affiliationRepo repository.ClinicAffiliationRepository
	auditService    service.AuditService
	sessionStore    service.ConsoleSessionStore
}

func NewAffiliationUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	doctorRepo repository.DoctorProfileRepository,
	affiliationRepo repository.ClinicAffiliationRepository,
	auditService service.AuditService,
	sessionStore service.ConsoleSessionStore,
) AffiliationUsecase {
	return &affiliationUsecase{
		db:              db,
		log:             log,
		doctorRepo:      doctorRepo,
		affiliationRepo: affiliationRepo,
		auditService:    auditService,
		sessionStore:    sessionStore,
	}
}

func (u *affiliationUsecase) ListAffiliations(ctx context.Context, doctorID uuid.UUID) (*dto.AffiliationListResponse, error) {
	doctor, err := u.findDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	affiliations, err := u.affiliationRepo.FindByDoctorID(ctx, u.db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find clinic affiliations: %+v", err)
		return nil, err
	}

	return &dto.AffiliationListResponse{
		DoctorID:     doctor.UserID,
		DoctorName:   doctor.FullName,
		Affiliations: converter.AffiliationsToResponses(affiliations),
	}, nil
}

// OpenDialog opens the dialog for doctorID, seeded with an existing
// affiliation when req names one. Reopening the seed that is already open
// keeps the draft.
func (u *affiliationUsecase) OpenDialog(ctx context.Context, principal entity.Principal, doctorID uuid.UUID, req *dto.OpenAffiliationDialogRequest) (*dto.AffiliationDialogResponse, error) {
	if _, err := u.findDoctor(ctx, doctorID); err != nil {
		return nil, err
	}

	var seed *entity.ClinicAffiliation
	if req != nil && req.AffiliationID != nil {
		found, err := u.affiliationRepo.FindByID(ctx, u.db, *req.AffiliationID)
		if err != nil {
			u.log.Warnf("Failed to find clinic affiliation: %+v", err)
			return nil, err
		}
		if found == nil || found.DoctorID != doctorID {
			return nil, ErrAffiliationNotFound
		}
		seed = found
	}

	var result dto.AffiliationDialogResponse
	_, err := u.sessionStore.Update(ctx, principal.SessionID, func(session *service.ConsoleSession) error {
		dlg := restoreDialog(session.Dialog)
		// a different doctor never inherits the previous draft
		if session.Dialog != nil && session.Dialog.DoctorID != doctorID {
			dlg.SetProps(affiliation.Props{Open: false})
		}
		dlg.SetProps(affiliation.Props{Open: true, Clinic: seed})

		session.Dialog = &service.DialogSession{DoctorID: doctorID, Snapshot: dlg.Snapshot()}
		result = converter.DialogToResponse(dlg, &doctorID)
		return nil
	})
	if err != nil {
		u.log.Warnf("Failed to open affiliation dialog: %+v", err)
		return nil, err
	}

	return &result, nil
}

func (u *affiliationUsecase) GetDialog(ctx context.Context, principal entity.Principal) (*dto.AffiliationDialogResponse, error) {
	session, err := u.sessionStore.Find(ctx, principal.SessionID)
	if err != nil {
		u.log.Warnf("Failed to find console session: %+v", err)
		return nil, err
	}

	var ds *service.DialogSession
	if session != nil {
		ds = session.Dialog
	}

	result := converter.DialogToResponse(restoreDialog(ds), dialogDoctor(ds))
	return &result, nil
}

func (u *affiliationUsecase) EditDialogField(ctx context.Context, principal entity.Principal, req *dto.EditAffiliationFieldRequest) (*dto.AffiliationDialogResponse, error) {
	var result dto.AffiliationDialogResponse
	_, err := u.sessionStore.Update(ctx, principal.SessionID, func(session *service.ConsoleSession) error {
		if session.Dialog == nil {
			return ErrNoDialogOpen
		}

		dlg := affiliation.Restore(session.Dialog.Snapshot)
		if err := dlg.SetField(affiliation.Field(req.Field), req.Value); err != nil {
			switch {
			case errors.Is(err, affiliation.ErrDialogClosed):
				return ErrNoDialogOpen
			case errors.Is(err, affiliation.ErrUnknownField):
				return ErrUnknownAffiliationField
			}
			return err
		}

		session.Dialog.Snapshot = dlg.Snapshot()
		result = converter.DialogToResponse(dlg, &session.Dialog.DoctorID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// SaveDialog submits the draft. A valid draft is created for the dialog's
// doctor, or written over the seeded affiliation, and the dialog is closed.
// Once the affiliation is committed the save is reported as done even when
// the session write that closes the dialog fails.
func (u *affiliationUsecase) SaveDialog(ctx context.Context, principal entity.Principal) (*dto.SaveAffiliationDialogResponse, error) {
	var result dto.SaveAffiliationDialogResponse
	var mode affiliation.Mode
	var saved *entity.ClinicAffiliation
	var closing service.DialogSession

	_, err := u.sessionStore.Update(ctx, principal.SessionID, func(session *service.ConsoleSession) error {
		if session.Dialog == nil || !session.Dialog.Snapshot.Open {
			return ErrNoDialogOpen
		}

		doctorID := session.Dialog.DoctorID
		snap := session.Dialog.Snapshot
		dlg := affiliation.Restore(snap)
		mode = dlg.Mode()

		var saveErr error
		closeDialog := func(open bool) {
			dlg.SetProps(affiliation.Props{Open: open, Clinic: snap.Seed})
		}
		dlg.SetProps(affiliation.Props{
			Open:         snap.Open,
			Clinic:       snap.Seed,
			OnOpenChange: closeDialog,
			OnSave: func(fields entity.AffiliationFields) {
				saved, saveErr = u.persist(ctx, principal, doctorID, snap.Seed, fields)
			},
		})

		if !dlg.Save() {
			return ErrAffiliationDraftIncomplete
		}
		if saveErr != nil {
			return saveErr
		}
		closeDialog(false)

		session.Dialog.Snapshot = dlg.Snapshot()
		closing = service.DialogSession{DoctorID: doctorID, Snapshot: snap}
		result = dto.SaveAffiliationDialogResponse{
			Affiliation: converter.AffiliationToResponse(saved),
			Dialog:      converter.DialogToResponse(dlg, &doctorID),
		}
		return nil
	})
	if err != nil && saved != nil {
		u.log.Warnf("Failed to close affiliation dialog after save: %+v", err)
		u.closeSavedDialog(ctx, principal, closing)
		err = nil
	}
	if err != nil {
		switch {
		case errors.Is(err, ErrAffiliationDraftIncomplete):
			service.RecordDialogSave(string(mode), "invalid")
		case errors.Is(err, ErrNoDialogOpen):
		default:
			service.RecordDialogSave(string(mode), "error")
		}
		return nil, err
	}

	service.RecordDialogSave(string(mode), "saved")
	return &result, nil
}

// closeSavedDialog retries closing the dialog that was just saved. It leaves
// the session alone when a different dialog has been opened since.
func (u *affiliationUsecase) closeSavedDialog(ctx context.Context, principal entity.Principal, saved service.DialogSession) {
	_, err := u.sessionStore.Update(ctx, principal.SessionID, func(session *service.ConsoleSession) error {
		ds := session.Dialog
		if ds == nil || !ds.Snapshot.Open || ds.DoctorID != saved.DoctorID || !sameSeed(ds.Snapshot.Seed, saved.Snapshot.Seed) {
			return nil
		}

		dlg := affiliation.Restore(ds.Snapshot)
		dlg.SetProps(affiliation.Props{Open: false, Clinic: ds.Snapshot.Seed})
		ds.Snapshot = dlg.Snapshot()
		return nil
	})
	if err != nil {
		u.log.Warnf("Failed to close affiliation dialog: %+v", err)
	}
}

func sameSeed(a, b *entity.ClinicAffiliation) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID == b.ID
}

func (u *affiliationUsecase) CancelDialog(ctx context.Context, principal entity.Principal) (*dto.AffiliationDialogResponse, error) {
	var result dto.AffiliationDialogResponse
	_, err := u.sessionStore.Update(ctx, principal.SessionID, func(session *service.ConsoleSession) error {
		dlg := restoreDialog(session.Dialog)
		snap := dlg.Snapshot()
		dlg.SetProps(affiliation.Props{
			Open:   snap.Open,
			Clinic: snap.Seed,
			OnOpenChange: func(open bool) {
				dlg.SetProps(affiliation.Props{Open: open, Clinic: snap.Seed})
			},
		})
		dlg.Cancel()

		if session.Dialog != nil {
			session.Dialog.Snapshot = dlg.Snapshot()
		}
		result = converter.DialogToResponse(dlg, dialogDoctor(session.Dialog))
		return nil
	})
	if err != nil {
		u.log.Warnf("Failed to cancel affiliation dialog: %+v", err)
		return nil, err
	}

	return &result, nil
}

func (u *affiliationUsecase) DeleteAffiliation(ctx context.Context, principal entity.Principal, id uuid.UUID) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	existing, err := u.affiliationRepo.FindByID(ctx, tx, id)
	if err != nil {
		u.log.Warnf("Failed to find clinic affiliation: %+v", err)
		return err
	}
	if existing == nil {
		return ErrAffiliationNotFound
	}

	if _, err := u.affiliationRepo.Delete(ctx, tx, id); err != nil {
		u.log.Warnf("Failed to delete clinic affiliation: %+v", err)
		return err
	}

	if err := u.auditService.LogDelete(ctx, tx, &principal.UserID, entity.AuditActionAffiliationDelete, "clinic_affiliation", id.String(), converter.AffiliationToResponse(existing)); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}

// persist stores fields as a new affiliation of doctorID, or over seed when editing
func (u *affiliationUsecase) persist(ctx context.Context, principal entity.Principal, doctorID uuid.UUID, seed *entity.ClinicAffiliation, fields entity.AffiliationFields) (*entity.ClinicAffiliation, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	var saved *entity.ClinicAffiliation
	if seed == nil {
		saved = &entity.ClinicAffiliation{DoctorID: doctorID}
		saved.Apply(fields)

		if err := u.affiliationRepo.Create(ctx, tx, saved); err != nil {
			u.log.Warnf("Failed to create clinic affiliation: %+v", err)
			return nil, err
		}

		if err := u.auditService.LogCreate(ctx, tx, &principal.UserID, entity.AuditActionAffiliationCreate, "clinic_affiliation", saved.ID.String(), converter.AffiliationToResponse(saved)); err != nil {
			return nil, err
		}
	} else {
		current, err := u.affiliationRepo.FindByID(ctx, tx, seed.ID)
		if err != nil {
			u.log.Warnf("Failed to find clinic affiliation: %+v", err)
			return nil, err
		}
		if current == nil {
			return nil, ErrAffiliationNotFound
		}

		oldValue := converter.AffiliationToResponse(current)
		current.Apply(fields)

		if err := u.affiliationRepo.Update(ctx, tx, current); err != nil {
			u.log.Warnf("Failed to update clinic affiliation: %+v", err)
			return nil, err
		}

		if err := u.auditService.LogUpdate(ctx, tx, &principal.UserID, entity.AuditActionAffiliationUpdate, "clinic_affiliation", current.ID.String(), oldValue, converter.AffiliationToResponse(current)); err != nil {
			return nil, err
		}
		saved = current
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return saved, nil
}

func (u *affiliationUsecase) findDoctor(ctx context.Context, doctorID uuid.UUID) (*entity.DoctorProfile, error) {
	doctor, err := u.doctorRepo.FindByUserID(ctx, u.db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor profile: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	return doctor, nil
}

// restoreDialog returns the session's dialog, or a closed one when none was opened yet
func restoreDialog(ds *service.DialogSession) *affiliation.Dialog {
	if ds == nil {
		return affiliation.New(affiliation.Props{})
	}
	return affiliation.Restore(ds.Snapshot)
}

func dialogDoctor(ds *service.DialogSession) *uuid.UUID {
	if ds == nil {
		return nil
	}
	id := ds.DoctorID
	return &id
}
