package converter

import (
	"unihealth-admin/internal/console"
	"unihealth-admin/internal/delivery/dto"
	"unihealth-admin/internal/domain/entity"
)

func CategoryToResponse(c entity.SettingsCategory) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:          string(c.ID),
		Label:       c.Label,
		Icon:        string(c.Icon),
		Description: c.Description,
	}
}

func CategoriesToResponses(categories []entity.SettingsCategory) []dto.CategoryResponse {
	responses := make([]dto.CategoryResponse, len(categories))
	for i, c := range categories {
		responses[i] = CategoryToResponse(c)
	}
	return responses
}

func PendingNavigationToResponse(p *console.PendingNavigation) *dto.PendingNavigationResponse {
	if p == nil {
		return nil
	}

	return &dto.PendingNavigationResponse{
		ID:          p.ID,
		Target:      string(p.Target),
		Prompt:      p.Prompt,
		RequestedAt: p.RequestedAt,
	}
}

// ShellToResponse converts the shell into the navigation and header the browser renders
func ShellToResponse(s *console.Shell) *dto.ConsoleResponse {
	response := &dto.ConsoleResponse{
		Role:              s.Role().String(),
		Categories:        CategoriesToResponses(s.Categories()),
		Active:            string(s.Active()),
		HasUnsavedChanges: s.HasUnsavedChanges(),
		Pending:           PendingNavigationToResponse(s.Pending()),
	}

	if active, ok := s.ActiveCategory(); ok {
		header := CategoryToResponse(active)
		response.ActiveCategory = &header
	}

	return response
}
