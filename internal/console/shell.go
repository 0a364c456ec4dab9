// Package console holds the settings console shell: the role-filtered
// category navigation, the active panel and the unsaved-changes guard.
package console

import (
	"errors"
	"time"

	"unihealth-admin/internal/domain/entity"

	"github.com/google/uuid"
)

var (
	ErrNoPendingNavigation = errors.New("no navigation is waiting for confirmation")
	ErrPendingMismatch     = errors.New("confirmation does not match the pending navigation")
)

// DiscardPrompt is shown to the user while a navigation waits for confirmation
const DiscardPrompt = "You have unsaved changes. Are you sure you want to leave this section?"

type Outcome string

const (
	// OutcomeCommitted means the active category changed and the flag was cleared
	OutcomeCommitted Outcome = "committed"
	// OutcomePending means the user must confirm discarding unsaved changes first
	OutcomePending Outcome = "pending"
	OutcomeAborted Outcome = "aborted"
	// OutcomeIgnored means the target is not a visible category
	OutcomeIgnored Outcome = "ignored"
)

// PendingNavigation is a category switch held back until the user answers the discard prompt
type PendingNavigation struct {
	ID          string            `json:"id"`
	Target      entity.CategoryID `json:"target"`
	Prompt      string            `json:"prompt"`
	RequestedAt time.Time         `json:"requested_at"`
}

// Navigation reports what a Select or Resolve call did
type Navigation struct {
	Outcome Outcome
	Active  entity.CategoryID
	Pending *PendingNavigation
}

// State is the part of a Shell that outlives a single request
type State struct {
	Active  entity.CategoryID  `json:"active"`
	Unsaved bool               `json:"unsaved"`
	Pending *PendingNavigation `json:"pending,omitempty"`
}

type Shell struct {
	role       entity.UserRole
	categories []entity.SettingsCategory
	state      State

	now   func() time.Time
	newID func() string
}

// NewShell starts a console for role on its first visible category
func NewShell(role entity.UserRole) *Shell {
	return Restore(role, State{})
}

// Restore rebuilds a shell for role from a saved state
func Restore(role entity.UserRole, state State) *Shell {
	s := &Shell{
		role:       role,
		categories: entity.CategoriesForRole(role),
		state:      state,
		now:        time.Now,
		newID:      uuid.NewString,
	}
	if s.state.Active == "" && len(s.categories) > 0 {
		s.state.Active = s.categories[0].ID
	}
	return s
}

func (s *Shell) Role() entity.UserRole {
	return s.role
}

// Categories returns the navigation entries visible to the shell's role
func (s *Shell) Categories() []entity.SettingsCategory {
	return append([]entity.SettingsCategory(nil), s.categories...)
}

func (s *Shell) State() State {
	st := s.state
	if st.Pending != nil {
		p := *st.Pending
		st.Pending = &p
	}
	return st
}

func (s *Shell) Active() entity.CategoryID {
	return s.state.Active
}

// ActiveCategory returns the header entry for the active category, if it is visible
func (s *Shell) ActiveCategory() (entity.SettingsCategory, bool) {
	return s.visible(s.state.Active)
}

func (s *Shell) HasUnsavedChanges() bool {
	return s.state.Unsaved
}

func (s *Shell) Pending() *PendingNavigation {
	return s.State().Pending
}

// ReportUnsavedChanges is the callback handed to hosted panels
func (s *Shell) ReportUnsavedChanges(unsaved bool) {
	s.state.Unsaved = unsaved
}

// Select asks to switch to target. With no unsaved changes the switch is
// committed at once; otherwise a pending navigation is returned and nothing
// changes until Resolve is called with its id.
func (s *Shell) Select(target entity.CategoryID) Navigation {
	if _, ok := s.visible(target); !ok {
		return Navigation{Outcome: OutcomeIgnored, Active: s.state.Active, Pending: s.Pending()}
	}

	if !s.state.Unsaved {
		s.commit(target)
		return Navigation{Outcome: OutcomeCommitted, Active: s.state.Active}
	}

	// a newer request replaces any unanswered one
	s.state.Pending = &PendingNavigation{
		ID:          s.newID(),
		Target:      target,
		Prompt:      DiscardPrompt,
		RequestedAt: s.now().UTC(),
	}
	return Navigation{Outcome: OutcomePending, Active: s.state.Active, Pending: s.Pending()}
}

// Resolve answers the discard prompt of the pending navigation identified by id
func (s *Shell) Resolve(id string, confirm bool) (Navigation, error) {
	pending := s.state.Pending
	if pending == nil {
		return Navigation{}, ErrNoPendingNavigation
	}
	if pending.ID != id {
		return Navigation{}, ErrPendingMismatch
	}

	s.state.Pending = nil
	if !confirm {
		return Navigation{Outcome: OutcomeAborted, Active: s.state.Active}, nil
	}

	s.commit(pending.Target)
	return Navigation{Outcome: OutcomeCommitted, Active: s.state.Active}, nil
}

// commit switches panels; the unsaved flag is cleared whether or not anything was saved
func (s *Shell) commit(target entity.CategoryID) {
	s.state.Active = target
	s.state.Unsaved = false
	s.state.Pending = nil
}

func (s *Shell) visible(id entity.CategoryID) (entity.SettingsCategory, bool) {
	for _, c := range s.categories {
		if c.ID == id {
			return c, true
		}
	}
	return entity.SettingsCategory{}, false
}

// panelID picks the category whose panel is rendered. An active id that is
// not visible falls back to general, or to the first visible category when
// general is hidden for the role.
func (s *Shell) panelID() (entity.CategoryID, bool) {
	if len(s.categories) == 0 {
		return "", false
	}
	if _, ok := s.visible(s.state.Active); ok {
		return s.state.Active, true
	}
	if _, ok := s.visible(entity.CategoryGeneral); ok {
		return entity.CategoryGeneral, true
	}
	return s.categories[0].ID, true
}
