package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"unihealth-admin/internal/delivery/dto"
	"unihealth-admin/internal/delivery/http/middleware"
	"unihealth-admin/internal/usecase"
	"unihealth-admin/pkg/response"
	"unihealth-admin/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type AffiliationHandler struct {
	affiliationUsecase usecase.AffiliationUsecase
	validator          *validator.CustomValidator
}

func NewAffiliationHandler(affiliationUsecase usecase.AffiliationUsecase, validator *validator.CustomValidator) *AffiliationHandler {
	return &AffiliationHandler{
		affiliationUsecase: affiliationUsecase,
		validator:          validator,
	}
}

func (h *AffiliationHandler) ListAffiliations(w http.ResponseWriter, r *http.Request) {
	doctorID, err := uuid.Parse(mux.Vars(r)["doctorId"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid doctor ID", nil)
		return
	}

	affiliations, err := h.affiliationUsecase.ListAffiliations(r.Context(), doctorID)
	if err != nil {
		if err == usecase.ErrDoctorNotFound {
			response.NotFound(w, "Doctor not found")
			return
		}
		response.InternalServerError(w, "Failed to get clinic affiliations")
		return
	}

	response.Success(w, http.StatusOK, "Clinic affiliations retrieved successfully", affiliations)
}

// OpenDialog opens the add dialog, or the edit dialog when affiliation_id is given.
// The body is optional.
func (h *AffiliationHandler) OpenDialog(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipalFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	doctorID, err := uuid.Parse(mux.Vars(r)["doctorId"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid doctor ID", nil)
		return
	}

	var req dto.OpenAffiliationDialogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	dialog, err := h.affiliationUsecase.OpenDialog(r.Context(), principal, doctorID, &req)
	if err != nil {
		switch err {
		case usecase.ErrDoctorNotFound:
			response.NotFound(w, "Doctor not found")
		case usecase.ErrAffiliationNotFound:
			response.NotFound(w, "Clinic affiliation not found")
		default:
			response.InternalServerError(w, "Failed to open affiliation dialog")
		}
		return
	}

	response.Success(w, http.StatusOK, "Affiliation dialog opened", dialog)
}

func (h *AffiliationHandler) GetDialog(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipalFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	dialog, err := h.affiliationUsecase.GetDialog(r.Context(), principal)
	if err != nil {
		response.InternalServerError(w, "Failed to get affiliation dialog")
		return
	}

	response.Success(w, http.StatusOK, "Affiliation dialog retrieved successfully", dialog)
}

func (h *AffiliationHandler) EditDialogField(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipalFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var req dto.EditAffiliationFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	dialog, err := h.affiliationUsecase.EditDialogField(r.Context(), principal, &req)
	if err != nil {
		switch err {
		case usecase.ErrNoDialogOpen:
			response.Conflict(w, err.Error())
		case usecase.ErrUnknownAffiliationField:
			response.BadRequest(w, err.Error())
		default:
			response.InternalServerError(w, "Failed to edit affiliation draft")
		}
		return
	}

	response.Success(w, http.StatusOK, "Affiliation draft updated", dialog)
}

func (h *AffiliationHandler) SaveDialog(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipalFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	saved, err := h.affiliationUsecase.SaveDialog(r.Context(), principal)
	if err != nil {
		switch err {
		case usecase.ErrNoDialogOpen:
			response.Conflict(w, err.Error())
		case usecase.ErrAffiliationDraftIncomplete:
			response.UnprocessableEntity(w, err.Error())
		case usecase.ErrAffiliationNotFound:
			response.NotFound(w, "Clinic affiliation not found")
		default:
			response.InternalServerError(w, "Failed to save clinic affiliation")
		}
		return
	}

	response.Success(w, http.StatusOK, "Clinic affiliation saved successfully", saved)
}

func (h *AffiliationHandler) CancelDialog(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipalFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	dialog, err := h.affiliationUsecase.CancelDialog(r.Context(), principal)
	if err != nil {
		response.InternalServerError(w, "Failed to cancel affiliation dialog")
		return
	}

	response.Success(w, http.StatusOK, "Affiliation dialog closed", dialog)
}

func (h *AffiliationHandler) DeleteAffiliation(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipalFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid affiliation ID", nil)
		return
	}

	if err := h.affiliationUsecase.DeleteAffiliation(r.Context(), principal, id); err != nil {
		if err == usecase.ErrAffiliationNotFound {
			response.NotFound(w, "Clinic affiliation not found")
			return
		}
		response.InternalServerError(w, "Failed to delete clinic affiliation")
		return
	}

	response.Success(w, http.StatusOK, "Clinic affiliation deleted successfully", nil)
}
