package handler

import (
	"encoding/json"
	"net/http"

	"unihealth-admin/internal/delivery/dto"
	"unihealth-admin/internal/delivery/http/middleware"
	"unihealth-admin/internal/usecase"
	"unihealth-admin/pkg/response"
	"unihealth-admin/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type MedicalServiceHandler struct {
	serviceUsecase usecase.MedicalServiceUsecase
	validator      *validator.CustomValidator
}

func NewMedicalServiceHandler(serviceUsecase usecase.MedicalServiceUsecase, validator *validator.CustomValidator) *MedicalServiceHandler {
	return &MedicalServiceHandler{
		serviceUsecase: serviceUsecase,
		validator:      validator,
	}
}

// ListServices handles the catalog, optionally narrowed by ?specialty=
func (h *MedicalServiceHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.serviceUsecase.ListServices(r.Context(), r.URL.Query().Get("specialty"))
	if err != nil {
		response.InternalServerError(w, "Failed to get medical services")
		return
	}

	response.Success(w, http.StatusOK, "Medical services retrieved successfully", services)
}

func (h *MedicalServiceHandler) CreateService(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipalFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var req dto.MedicalServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	service, err := h.serviceUsecase.CreateService(r.Context(), principal, &req)
	if err != nil {
		switch err {
		case usecase.ErrInvalidPrice:
			response.BadRequest(w, err.Error())
		default:
			response.InternalServerError(w, "Failed to create medical service")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Medical service created successfully", service)
}

func (h *MedicalServiceHandler) UpdateService(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipalFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	serviceID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid medical service ID", nil)
		return
	}

	var req dto.MedicalServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	service, err := h.serviceUsecase.UpdateService(r.Context(), principal, serviceID, &req)
	if err != nil {
		switch err {
		case usecase.ErrMedicalServiceNotFound:
			response.NotFound(w, "Medical service not found")
		case usecase.ErrInvalidPrice:
			response.BadRequest(w, err.Error())
		default:
			response.InternalServerError(w, "Failed to update medical service")
		}
		return
	}

	response.Success(w, http.StatusOK, "Medical service updated successfully", service)
}

func (h *MedicalServiceHandler) DeleteService(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipalFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	serviceID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid medical service ID", nil)
		return
	}

	if err := h.serviceUsecase.DeleteService(r.Context(), principal, serviceID); err != nil {
		if err == usecase.ErrMedicalServiceNotFound {
			response.NotFound(w, "Medical service not found")
			return
		}
		response.InternalServerError(w, "Failed to delete medical service")
		return
	}

	response.Success(w, http.StatusOK, "Medical service deleted successfully", nil)
}
