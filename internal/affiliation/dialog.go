// Package affiliation holds the add/edit dialog for a doctor's clinic affiliation.
// The dialog keeps a draft and hands a finished record back to its caller;
// it never stores anything itself.
package affiliation

import (
	"errors"

	"unihealth-admin/internal/domain/entity"

	"github.com/google/uuid"
)

var (
	ErrDialogClosed = errors.New("affiliation dialog is not open")
	ErrUnknownField = errors.New("unknown affiliation field")
)

type Field string

const (
	FieldName  Field = "name"
	FieldRole  Field = "role"
	FieldDays  Field = "days"
	FieldHours Field = "hours"
)

// Fields returns the editable fields in form order
func Fields() []Field {
	return []Field{FieldName, FieldRole, FieldDays, FieldHours}
}

type Mode string

const (
	ModeClosed Mode = "closed"
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// Props is what the caller controls
type Props struct {
	Open         bool
	// Clinic is the affiliation being edited, nil when adding one
	Clinic       *entity.ClinicAffiliation
	OnOpenChange func(open bool)
	OnSave       func(fields entity.AffiliationFields)
}

// Snapshot is the dialog's saved form between requests
type Snapshot struct {
	Open  bool                      `json:"open"`
	Seed  *entity.ClinicAffiliation `json:"seed,omitempty"`
	Draft entity.AffiliationFields  `json:"draft"`
}

type seedKey struct {
	open    bool
	hasSeed bool
	seedID  uuid.UUID
}

func keyOf(p Props) seedKey {
	k := seedKey{open: p.Open}
	if p.Clinic != nil {
		k.hasSeed = true
		k.seedID = p.Clinic.ID
	}
	return k
}

type Dialog struct {
	props      Props
	draft      entity.AffiliationFields
	key        seedKey
	reconciled bool
}

func New(props Props) *Dialog {
	d := &Dialog{}
	d.SetProps(props)
	return d
}

// Restore rebuilds a dialog from a snapshot without resetting its draft.
// Callbacks are supplied through SetProps afterwards.
func Restore(snap Snapshot) *Dialog {
	d := &Dialog{
		props: Props{Open: snap.Open, Clinic: snap.Seed},
		draft: snap.Draft,
	}
	d.key = keyOf(d.props)
	d.reconciled = true
	return d
}

// SetProps replaces the caller's props and reconciles the draft when the
// open state or the seed identity changed.
func (d *Dialog) SetProps(p Props) {
	d.props = p
	if !d.reconciled || keyOf(p) != d.key {
		d.Reconcile()
	}
}

// Reconcile resets the draft from the seed, or to empty fields when there is none
func (d *Dialog) Reconcile() {
	if d.props.Clinic != nil {
		d.draft = d.props.Clinic.Fields()
	} else {
		d.draft = entity.AffiliationFields{}
	}
	d.key = keyOf(d.props)
	d.reconciled = true
}

func (d *Dialog) Mode() Mode {
	switch {
	case !d.props.Open:
		return ModeClosed
	case d.props.Clinic != nil:
		return ModeEdit
	default:
		return ModeCreate
	}
}

func (d *Dialog) Draft() entity.AffiliationFields {
	return d.draft
}

func (d *Dialog) Seed() *entity.ClinicAffiliation {
	return d.props.Clinic
}

// SetField changes exactly one draft field
func (d *Dialog) SetField(field Field, value string) error {
	if !d.props.Open {
		return ErrDialogClosed
	}

	switch field {
	case FieldName:
		d.draft.Name = value
	case FieldRole:
		d.draft.Role = entity.AffiliationRole(value)
	case FieldDays:
		d.draft.Days = value
	case FieldHours:
		d.draft.Hours = value
	default:
		return ErrUnknownField
	}
	return nil
}

// Valid gates the save action
func (d *Dialog) Valid() bool {
	return d.draft.Complete()
}

// Save hands the draft to OnSave when it is valid and reports whether it did.
// The dialog stays open; closing is up to the caller.
func (d *Dialog) Save() bool {
	if !d.props.Open || !d.Valid() {
		return false
	}
	if d.props.OnSave != nil {
		d.props.OnSave(d.draft)
	}
	return true
}

// Cancel asks the caller to close the dialog without saving
func (d *Dialog) Cancel() {
	if d.props.OnOpenChange != nil {
		d.props.OnOpenChange(false)
	}
}

func (d *Dialog) Snapshot() Snapshot {
	return Snapshot{
		Open:  d.props.Open,
		Seed:  d.props.Clinic,
		Draft: d.draft,
	}
}

func (d *Dialog) Title() string {
	if d.props.Clinic != nil {
		return "Edit Clinic Affiliation"
	}
	return "Add Clinic Affiliation"
}

func (d *Dialog) Description() string {
	return "Configure the doctor's role and schedule at a clinic."
}

func (d *Dialog) SubmitLabel() string {
	if d.props.Clinic != nil {
		return "Update Affiliation"
	}
	return "Add Affiliation"
}
