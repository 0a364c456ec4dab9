package converter

import (
	"unihealth-admin/internal/affiliation"
	"unihealth-admin/internal/delivery/dto"
	"unihealth-admin/internal/domain/entity"

	"github.com/google/uuid"
)

// AffiliationToResponse converts a ClinicAffiliation entity to AffiliationResponse DTO
func AffiliationToResponse(a *entity.ClinicAffiliation) *dto.AffiliationResponse {
	if a == nil {
		return nil
	}

	return &dto.AffiliationResponse{
		ID:        a.ID,
		DoctorID:  a.DoctorID,
		Name:      a.Name,
		Role:      string(a.Role),
		Days:      a.Days,
		Hours:     a.Hours,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func AffiliationsToResponses(affiliations []entity.ClinicAffiliation) []dto.AffiliationResponse {
	responses := make([]dto.AffiliationResponse, len(affiliations))
	for i := range affiliations {
		responses[i] = *AffiliationToResponse(&affiliations[i])
	}
	return responses
}

func AffiliationFieldsToDraft(f entity.AffiliationFields) dto.AffiliationDraftResponse {
	return dto.AffiliationDraftResponse{
		Name:  f.Name,
		Role:  string(f.Role),
		Days:  f.Days,
		Hours: f.Hours,
	}
}

// DialogToResponse renders the dialog as the browser needs it. doctorID is
// nil when no dialog was ever opened in the session.
func DialogToResponse(d *affiliation.Dialog, doctorID *uuid.UUID) dto.AffiliationDialogResponse {
	roles := entity.AffiliationRoles()
	options := make([]string, len(roles))
	for i, role := range roles {
		options[i] = string(role)
	}

	return dto.AffiliationDialogResponse{
		Open:        d.Mode() != affiliation.ModeClosed,
		Mode:        string(d.Mode()),
		DoctorID:    doctorID,
		Title:       d.Title(),
		Description: d.Description(),
		SubmitLabel: d.SubmitLabel(),
		Seed:        AffiliationToResponse(d.Seed()),
		Draft:       AffiliationFieldsToDraft(d.Draft()),
		CanSave:     d.Valid(),
		RoleOptions: options,
	}
}
