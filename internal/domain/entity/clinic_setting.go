package entity

import (
	"time"

	"github.com/google/uuid"
)

// ClinicSetting holds operating parameters for one clinic
type ClinicSetting struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ClinicName           string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"clinic_name"`
	OpeningHours         string    `gorm:"type:varchar(100)" json:"opening_hours"`
	BookingWindowDays    int       `gorm:"not null;default:30" json:"booking_window_days"`
	MaxDailyAppointments int       `gorm:"not null;default:0" json:"max_daily_appointments"`
	AcceptsWalkIns       bool      `gorm:"not null;default:false" json:"accepts_walk_ins"`
	CreatedAt            time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ClinicSetting) TableName() string {
	return "clinic_settings"
}
