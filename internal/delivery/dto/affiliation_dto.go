package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type OpenAffiliationDialogRequest struct {
	AffiliationID *uuid.UUID `json:"affiliation_id"`
}

type EditAffiliationFieldRequest struct {
	Field string `json:"field" validate:"required,oneof=name role days hours"`
	Value string `json:"value"`
}

// Response DTOs

type AffiliationResponse struct {
	ID        uuid.UUID `json:"id"`
	DoctorID  uuid.UUID `json:"doctor_id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Days      string    `json:"days"`
	Hours     string    `json:"hours"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type AffiliationListResponse struct {
	DoctorID     uuid.UUID             `json:"doctor_id"`
	DoctorName   string                `json:"doctor_name"`
	Affiliations []AffiliationResponse `json:"affiliations"`
}

type AffiliationDraftResponse struct {
	Name  string `json:"name"`
	Role  string `json:"role"`
	Days  string `json:"days"`
	Hours string `json:"hours"`
}

type AffiliationDialogResponse struct {
	Open        bool                     `json:"open"`
	Mode        string                   `json:"mode"`
	DoctorID    *uuid.UUID               `json:"doctor_id,omitempty"`
	Title       string                   `json:"title"`
	Description string                   `json:"description"`
	SubmitLabel string                   `json:"submit_label"`
	Seed        *AffiliationResponse     `json:"seed,omitempty"`
	Draft       AffiliationDraftResponse `json:"draft"`
	CanSave     bool                     `json:"can_save"`
	RoleOptions []string                 `json:"role_options"`
}

type SaveAffiliationDialogResponse struct {
	Affiliation *AffiliationResponse      `json:"affiliation"`
	Dialog      AffiliationDialogResponse `json:"dialog"`
}
