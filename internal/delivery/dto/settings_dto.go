package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type SettingValue struct {
	Key   string `json:"key" validate:"required,max=100"`
	Value string `json:"value"`
}

type UpdateGeneralSettingsRequest struct {
	Settings []SettingValue `json:"settings" validate:"required,min=1,dive"`
}

type UpsertClinicSettingRequest struct {
	OpeningHours         string `json:"opening_hours" validate:"max=100"`
	BookingWindowDays    int    `json:"booking_window_days" validate:"gte=1,lte=365"`
	MaxDailyAppointments int    `json:"max_daily_appointments" validate:"gte=0"`
	AcceptsWalkIns       bool   `json:"accepts_walk_ins"`
}

type MedicalServiceRequest struct {
	Specialty       string          `json:"specialty" validate:"required,min=2,max=100"`
	Name            string          `json:"name" validate:"required,min=2,max=255"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price" validate:"required"`
	DurationMinutes int             `json:"duration_minutes" validate:"gte=5,lte=480"`
	IsActive        *bool           `json:"is_active"`
}

// Response DTOs

type SystemSettingResponse struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	Group     string    `json:"group"`
	Label     string    `json:"label"`
	UpdatedAt time.Time `json:"updated_at"`
}

type GeneralSettingsResponse struct {
	Settings []SystemSettingResponse `json:"settings"`
}

type ClinicSettingResponse struct {
	ID                   uuid.UUID `json:"id"`
	ClinicName           string    `json:"clinic_name"`
	OpeningHours         string    `json:"opening_hours"`
	BookingWindowDays    int       `json:"booking_window_days"`
	MaxDailyAppointments int       `json:"max_daily_appointments"`
	AcceptsWalkIns       bool      `json:"accepts_walk_ins"`
	UpdatedAt            time.Time `json:"updated_at"`
}

type ClinicSettingListResponse struct {
	Clinics []ClinicSettingResponse `json:"clinics"`
}

type MedicalServiceResponse struct {
	ID              uuid.UUID       `json:"id"`
	Specialty       string          `json:"specialty"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price"`
	DurationMinutes int             `json:"duration_minutes"`
	IsActive        bool            `json:"is_active"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type MedicalServiceListResponse struct {
	Services    []MedicalServiceResponse `json:"services"`
	Specialties []string                 `json:"specialties"`
}
