package handler

import (
	"encoding/json"
	"net/http"

	"unihealth-admin/internal/delivery/dto"
	"unihealth-admin/internal/delivery/http/middleware"
	"unihealth-admin/internal/usecase"
	"unihealth-admin/pkg/response"
	"unihealth-admin/pkg/validator"
)

type GeneralSettingsHandler struct {
	settingsUsecase usecase.GeneralSettingsUsecase
	validator       *validator.CustomValidator
}

func NewGeneralSettingsHandler(settingsUsecase usecase.GeneralSettingsUsecase, validator *validator.CustomValidator) *GeneralSettingsHandler {
	return &GeneralSettingsHandler{
		settingsUsecase: settingsUsecase,
		validator:       validator,
	}
}

func (h *GeneralSettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingsUsecase.GetSettings(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get general settings")
		return
	}

	response.Success(w, http.StatusOK, "General settings retrieved successfully", settings)
}

func (h *GeneralSettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipalFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var req dto.UpdateGeneralSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	settings, err := h.settingsUsecase.UpdateSettings(r.Context(), principal, &req)
	if err != nil {
		switch err {
		case usecase.ErrSettingNotFound:
			response.Error(w, http.StatusBadRequest, "Unknown setting key", nil)
		default:
			response.InternalServerError(w, "Failed to update general settings")
		}
		return
	}

	response.Success(w, http.StatusOK, "General settings updated successfully", settings)
}
