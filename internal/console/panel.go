package console

import (
	"context"

	"unihealth-admin/internal/domain/entity"
)

// UnsavedChangesReporter lets a panel tell the shell it holds edits
type UnsavedChangesReporter func(unsaved bool)

// Panel is the content hosted for one category. The shell knows nothing about
// it beyond the reporter it passes in.
type Panel interface {
	Render(ctx context.Context, report UnsavedChangesReporter) (any, error)
}

// PanelFunc adapts a function to Panel
type PanelFunc func(ctx context.Context, report UnsavedChangesReporter) (any, error)

func (f PanelFunc) Render(ctx context.Context, report UnsavedChangesReporter) (any, error) {
	return f(ctx, report)
}

// Registry maps categories to their panels
type Registry struct {
	panels map[entity.CategoryID]Panel
}

func NewRegistry(general, users, clinics, services, data Panel) *Registry {
	return &Registry{
		panels: map[entity.CategoryID]Panel{
			entity.CategoryGeneral:  general,
			entity.CategoryUsers:    users,
			entity.CategoryClinics:  clinics,
			entity.CategoryServices: services,
			entity.CategoryData:     data,
		},
	}
}

// Dispatch returns the panel for id; unknown ids get the general panel
func (r *Registry) Dispatch(id entity.CategoryID) (entity.CategoryID, Panel) {
	if p, ok := r.panels[id]; ok && p != nil {
		return id, p
	}
	return entity.CategoryGeneral, r.panels[entity.CategoryGeneral]
}

// RenderedPanel is the output of the active panel
type RenderedPanel struct {
	Category entity.CategoryID
	Data     any
}

// RenderActivePanel renders the panel for the active category. It returns
// nil when the role can see no category at all.
func (s *Shell) RenderActivePanel(ctx context.Context, registry *Registry) (*RenderedPanel, error) {
	id, ok := s.panelID()
	if !ok {
		return nil, nil
	}

	id, panel := registry.Dispatch(id)
	data, err := panel.Render(ctx, s.ReportUnsavedChanges)
	if err != nil {
		return nil, err
	}

	return &RenderedPanel{Category: id, Data: data}, nil
}
