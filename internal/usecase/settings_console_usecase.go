package usecase

import (
	"context"
	"errors"

	"unihealth-admin/internal/console"
	"unihealth-admin/internal/converter"
	"unihealth-admin/internal/delivery/dto"
	"unihealth-admin/internal/domain/entity"
	"unihealth-admin/internal/service"

	"github.com/sirupsen/logrus"
)

var (
	ErrNoPendingNavigation = errors.New("no navigation is waiting for confirmation")
	ErrPendingMismatch     = errors.New("navigation confirmation does not match the pending request")
	ErrNoVisibleCategory   = errors.New("no settings category is available for this role")
)

type SettingsConsoleUsecase interface {
	ListCategories(ctx context.Context, principal entity.Principal) (*dto.CategoryListResponse, error)
	GetConsole(ctx context.Context, principal entity.Principal) (*dto.ConsoleResponse, error)
	SelectCategory(ctx context.Context, principal entity.Principal, req *dto.SelectCategoryRequest) (*dto.NavigationResponse, error)
	ResolveNavigation(ctx context.Context, principal entity.Principal, pendingID string, req *dto.ResolveNavigationRequest) (*dto.NavigationResponse, error)
	ReportUnsavedChanges(ctx context.Context, principal entity.Principal, req *dto.ReportUnsavedChangesRequest) (*dto.ConsoleResponse, error)
	RenderActivePanel(ctx context.Context, principal entity.Principal) (*dto.PanelResponse, error)
}

type settingsConsoleUsecase struct {
	log          *logrus.Logger
	sessionStore service.ConsoleSessionStore
	panels       *console.Registry
}

func NewSettingsConsoleUsecase(
	log *logrus.Logger,
	sessionStore service.ConsoleSessionStore,
	panels *console.Registry,
) SettingsConsoleUsecase {
	return &settingsConsoleUsecase{
		log:          log,
		sessionStore: sessionStore,
		panels:       panels,
	}
}

func (u *settingsConsoleUsecase) ListCategories(ctx context.Context, principal entity.Principal) (*dto.CategoryListResponse, error) {
	return &dto.CategoryListResponse{
		Role:       principal.Role.String(),
		Categories: converter.CategoriesToResponses(entity.CategoriesForRole(principal.Role)),
	}, nil
}

func (u *settingsConsoleUsecase) GetConsole(ctx context.Context, principal entity.Principal) (*dto.ConsoleResponse, error) {
	session, err := u.sessionStore.Find(ctx, principal.SessionID)
	if err != nil {
		u.log.Warnf("Failed to find console session: %+v", err)
		return nil, err
	}

	shell := console.NewShell(principal.Role)
	if session != nil {
		shell = console.Restore(principal.Role, session.Shell)
	}

	return converter.ShellToResponse(shell), nil
}

func (u *settingsConsoleUsecase) SelectCategory(ctx context.Context, principal entity.Principal, req *dto.SelectCategoryRequest) (*dto.NavigationResponse, error) {
	var nav console.Navigation
	shell, err := u.withShell(ctx, principal, func(shell *console.Shell) error {
		nav = shell.Select(entity.CategoryID(req.CategoryID))
		return nil
	})
	if err != nil {
		return nil, err
	}

	service.RecordNavigation(string(nav.Outcome))
	return &dto.NavigationResponse{
		Outcome: string(nav.Outcome),
		Console: *converter.ShellToResponse(shell),
	}, nil
}

func (u *settingsConsoleUsecase) ResolveNavigation(ctx context.Context, principal entity.Principal, pendingID string, req *dto.ResolveNavigationRequest) (*dto.NavigationResponse, error) {
	var nav console.Navigation
	shell, err := u.withShell(ctx, principal, func(shell *console.Shell) error {
		var err error
		nav, err = shell.Resolve(pendingID, *req.Confirm)
		return err
	})
	if err != nil {
		switch {
		case errors.Is(err, console.ErrNoPendingNavigation):
			return nil, ErrNoPendingNavigation
		case errors.Is(err, console.ErrPendingMismatch):
			return nil, ErrPendingMismatch
		}
		return nil, err
	}

	service.RecordNavigation(string(nav.Outcome))
	return &dto.NavigationResponse{
		Outcome: string(nav.Outcome),
		Console: *converter.ShellToResponse(shell),
	}, nil
}

func (u *settingsConsoleUsecase) ReportUnsavedChanges(ctx context.Context, principal entity.Principal, req *dto.ReportUnsavedChangesRequest) (*dto.ConsoleResponse, error) {
	shell, err := u.withShell(ctx, principal, func(shell *console.Shell) error {
		shell.ReportUnsavedChanges(*req.Unsaved)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return converter.ShellToResponse(shell), nil
}

func (u *settingsConsoleUsecase) RenderActivePanel(ctx context.Context, principal entity.Principal) (*dto.PanelResponse, error) {
	var rendered *console.RenderedPanel
	shell, err := u.withShell(ctx, principal, func(shell *console.Shell) error {
		var err error
		rendered, err = shell.RenderActivePanel(ctx, u.panels)
		return err
	})
	if err != nil {
		u.log.Warnf("Failed to render settings panel: %+v", err)
		return nil, err
	}
	if rendered == nil {
		return nil, ErrNoVisibleCategory
	}

	return &dto.PanelResponse{
		Category:          string(rendered.Category),
		HasUnsavedChanges: shell.HasUnsavedChanges(),
		Data:              rendered.Data,
	}, nil
}

// withShell runs fn against the session's shell and stores the resulting state.
// Nothing is stored when fn fails.
func (u *settingsConsoleUsecase) withShell(ctx context.Context, principal entity.Principal, fn func(shell *console.Shell) error) (*console.Shell, error) {
	var shell *console.Shell
	_, err := u.sessionStore.Update(ctx, principal.SessionID, func(session *service.ConsoleSession) error {
		shell = console.Restore(principal.Role, session.Shell)
		if err := fn(shell); err != nil {
			return err
		}
		session.Shell = shell.State()
		return nil
	})
	if err != nil {
		if !errors.Is(err, console.ErrNoPendingNavigation) && !errors.Is(err, console.ErrPendingMismatch) {
			u.log.Warnf("Failed to update console session: %+v", err)
		}
		return nil, err
	}
	return shell, nil
}

// markPanelSaved clears the unsaved flag once the panel for category has
// persisted its edits, provided it is still the active one.
func markPanelSaved(ctx context.Context, log *logrus.Logger, store service.ConsoleSessionStore, principal entity.Principal, category entity.CategoryID) {
	if store == nil || principal.SessionID == "" {
		return
	}

	_, err := store.Update(ctx, principal.SessionID, func(session *service.ConsoleSession) error {
		shell := console.Restore(principal.Role, session.Shell)
		if shell.Active() == category {
			shell.ReportUnsavedChanges(false)
		}
		session.Shell = shell.State()
		return nil
	})
	if err != nil {
		log.Warnf("Failed to clear unsaved changes: %+v", err)
	}
}
