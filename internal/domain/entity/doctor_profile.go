package entity

import "github.com/google/uuid"

// DoctorProfile represents doctor-specific profile data
type DoctorProfile struct {
	UserID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	FullName       string    `gorm:"type:varchar(255);not null" json:"full_name"`
	STRNumber      string    `gorm:"column:str_number;type:varchar(50);uniqueIndex;not null" json:"str_number"`
	Specialization string    `gorm:"type:varchar(100);not null;index" json:"specialization"`

	// Relationships
	Affiliations []ClinicAffiliation `gorm:"foreignKey:DoctorID" json:"affiliations,omitempty"`
}

func (DoctorProfile) TableName() string {
	return "doctor_profiles"
}
