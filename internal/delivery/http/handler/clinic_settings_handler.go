package handler

import (
	"encoding/json"
	"net/http"

	"unihealth-admin/internal/delivery/dto"
	"unihealth-admin/internal/delivery/http/middleware"
	"unihealth-admin/internal/usecase"
	"unihealth-admin/pkg/response"
	"unihealth-admin/pkg/validator"

	"github.com/gorilla/mux"
)

type ClinicSettingsHandler struct {
	clinicUsecase usecase.ClinicSettingsUsecase
	validator     *validator.CustomValidator
}

func NewClinicSettingsHandler(clinicUsecase usecase.ClinicSettingsUsecase, validator *validator.CustomValidator) *ClinicSettingsHandler {
	return &ClinicSettingsHandler{
		clinicUsecase: clinicUsecase,
		validator:     validator,
	}
}

func (h *ClinicSettingsHandler) ListClinics(w http.ResponseWriter, r *http.Request) {
	clinics, err := h.clinicUsecase.ListClinics(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get clinic settings")
		return
	}

	response.Success(w, http.StatusOK, "Clinic settings retrieved successfully", clinics)
}

// UpsertClinic creates or replaces the settings of the clinic named in the path
func (h *ClinicSettingsHandler) UpsertClinic(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipalFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var req dto.UpsertClinicSettingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	clinic, err := h.clinicUsecase.UpsertClinic(r.Context(), principal, mux.Vars(r)["clinicName"], &req)
	if err != nil {
		switch err {
		case usecase.ErrClinicNameRequired:
			response.BadRequest(w, err.Error())
		default:
			response.InternalServerError(w, "Failed to save clinic settings")
		}
		return
	}

	response.Success(w, http.StatusOK, "Clinic settings saved successfully", clinic)
}
