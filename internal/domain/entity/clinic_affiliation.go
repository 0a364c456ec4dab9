package entity

import (
	"time"

	"github.com/google/uuid"
)

// AffiliationRole is the doctor's position at an affiliated clinic
type AffiliationRole string

const (
	AffiliationRoleSeniorConsultant   AffiliationRole = "Senior Consultant"
	AffiliationRoleVisitingConsultant AffiliationRole = "Visiting Consultant"
	AffiliationRoleConsultant         AffiliationRole = "Consultant"
	AffiliationRoleAssociate          AffiliationRole = "Associate"
)

// AffiliationRoles returns the selectable roles in display order
func AffiliationRoles() []AffiliationRole {
	return []AffiliationRole{
		AffiliationRoleSeniorConsultant,
		AffiliationRoleVisitingConsultant,
		AffiliationRoleConsultant,
		AffiliationRoleAssociate,
	}
}

// AffiliationFields is an affiliation without its identifier
type AffiliationFields struct {
	Name  string          `json:"name"`
	Role  AffiliationRole `json:"role"`
	Days  string          `json:"days"`
	Hours string          `json:"hours"`
}

// Complete reports whether every field is non-empty
func (f AffiliationFields) Complete() bool {
	return f.Name != "" && f.Role != "" && f.Days != "" && f.Hours != ""
}

// ClinicAffiliation associates a doctor with a clinic, with role and schedule
type ClinicAffiliation struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	DoctorID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"doctor_id"`
	Name      string          `gorm:"type:varchar(255);not null" json:"name"`
	Role      AffiliationRole `gorm:"type:varchar(50);not null" json:"role"`
	Days      string          `gorm:"type:varchar(100);not null" json:"days"`
	Hours     string          `gorm:"type:varchar(100);not null" json:"hours"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ClinicAffiliation) TableName() string {
	return "clinic_affiliations"
}

func (a *ClinicAffiliation) Fields() AffiliationFields {
	return AffiliationFields{
		Name:  a.Name,
		Role:  a.Role,
		Days:  a.Days,
		Hours: a.Hours,
	}
}

// Apply overwrites the four editable fields, leaving identity untouched
func (a *ClinicAffiliation) Apply(f AffiliationFields) {
	a.Name = f.Name
	a.Role = f.Role
	a.Days = f.Days
	a.Hours = f.Hours
}
