package converter

import (
	"unihealth-admin/internal/delivery/dto"
	"unihealth-admin/internal/domain/entity"
)

func SystemSettingsToResponses(settings []entity.SystemSetting) []dto.SystemSettingResponse {
	responses := make([]dto.SystemSettingResponse, len(settings))
	for i, s := range settings {
		responses[i] = dto.SystemSettingResponse{
			Key:       s.Key,
			Value:     s.Value,
			Group:     s.Group,
			Label:     s.Label,
			UpdatedAt: s.UpdatedAt,
		}
	}
	return responses
}

func ClinicSettingToResponse(s *entity.ClinicSetting) *dto.ClinicSettingResponse {
	if s == nil {
		return nil
	}

	return &dto.ClinicSettingResponse{
		ID:                   s.ID,
		ClinicName:           s.ClinicName,
		OpeningHours:         s.OpeningHours,
		BookingWindowDays:    s.BookingWindowDays,
		MaxDailyAppointments: s.MaxDailyAppointments,
		AcceptsWalkIns:       s.AcceptsWalkIns,
		UpdatedAt:            s.UpdatedAt,
	}
}

func ClinicSettingsToResponses(settings []entity.ClinicSetting) []dto.ClinicSettingResponse {
	responses := make([]dto.ClinicSettingResponse, len(settings))
	for i := range settings {
		responses[i] = *ClinicSettingToResponse(&settings[i])
	}
	return responses
}

func MedicalServiceToResponse(s *entity.MedicalService) *dto.MedicalServiceResponse {
	if s == nil {
		return nil
	}

	return &dto.MedicalServiceResponse{
		ID:              s.ID,
		Specialty:       s.Specialty,
		Name:            s.Name,
		Description:     s.Description,
		Price:           s.Price,
		DurationMinutes: s.DurationMinutes,
		IsActive:        s.IsActive,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

func MedicalServicesToResponses(services []entity.MedicalService) []dto.MedicalServiceResponse {
	responses := make([]dto.MedicalServiceResponse, len(services))
	for i := range services {
		responses[i] = *MedicalServiceToResponse(&services[i])
	}
	return responses
}
