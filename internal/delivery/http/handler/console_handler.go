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

// ConsoleHandler serves the settings shell: category list, navigation and
// the active panel
type ConsoleHandler struct {
	consoleUsecase usecase.SettingsConsoleUsecase
	validator      *validator.CustomValidator
}

func NewConsoleHandler(consoleUsecase usecase.SettingsConsoleUsecase, validator *validator.CustomValidator) *ConsoleHandler {
	return &ConsoleHandler{
		consoleUsecase: consoleUsecase,
		validator:      validator,
	}
}

// ListCategories handles listing the categories visible to the caller's role
// @Summary List settings categories
// @Tags Console
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /console/categories [get]
func (h *ConsoleHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipalFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	categories, err := h.consoleUsecase.ListCategories(r.Context(), principal)
	if err != nil {
		response.InternalServerError(w, "Failed to list settings categories")
		return
	}

	response.Success(w, http.StatusOK, "Settings categories retrieved successfully", categories)
}

// GetConsole handles reading the shell state
// @Summary Get settings console
// @Tags Console
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /console [get]
func (h *ConsoleHandler) GetConsole(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipalFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	console, err := h.consoleUsecase.GetConsole(r.Context(), principal)
	if err != nil {
		response.InternalServerError(w, "Failed to get settings console")
		return
	}

	response.Success(w, http.StatusOK, "Settings console retrieved successfully", console)
}

// SelectCategory handles a sidebar click
// @Summary Select settings category
// @Description Switches immediately, or returns a pending navigation when the active panel has unsaved changes
// @Tags Console
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.SelectCategoryRequest true "Select Category Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /console/select [post]
func (h *ConsoleHandler) SelectCategory(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipalFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var req dto.SelectCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	navigation, err := h.consoleUsecase.SelectCategory(r.Context(), principal, &req)
	if err != nil {
		response.InternalServerError(w, "Failed to select settings category")
		return
	}

	response.Success(w, http.StatusOK, "Navigation "+navigation.Outcome, navigation)
}

// ResolveNavigation handles the answer to the discard prompt
// @Summary Resolve pending navigation
// @Tags Console
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param pendingId path string true "Pending navigation ID"
// @Param request body dto.ResolveNavigationRequest true "Resolve Navigation Request"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /console/navigation/{pendingId}/resolve [post]
func (h *ConsoleHandler) ResolveNavigation(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipalFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var req dto.ResolveNavigationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	navigation, err := h.consoleUsecase.ResolveNavigation(r.Context(), principal, mux.Vars(r)["pendingId"], &req)
	if err != nil {
		switch err {
		case usecase.ErrNoPendingNavigation, usecase.ErrPendingMismatch:
			response.Conflict(w, err.Error())
		default:
			response.InternalServerError(w, "Failed to resolve navigation")
		}
		return
	}

	response.Success(w, http.StatusOK, "Navigation "+navigation.Outcome, navigation)
}

// ReportUnsavedChanges handles the active panel's dirty flag
// @Summary Report unsaved changes
// @Tags Console
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.ReportUnsavedChangesRequest true "Report Unsaved Changes Request"
// @Success 200 {object} response.Response
// @Router /console/unsaved [put]
func (h *ConsoleHandler) ReportUnsavedChanges(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipalFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var req dto.ReportUnsavedChangesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	console, err := h.consoleUsecase.ReportUnsavedChanges(r.Context(), principal, &req)
	if err != nil {
		response.InternalServerError(w, "Failed to update unsaved changes")
		return
	}

	response.Success(w, http.StatusOK, "Unsaved changes updated", console)
}

// RenderPanel handles rendering the active category's panel
// @Summary Render active panel
// @Tags Console
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /console/panel [get]
func (h *ConsoleHandler) RenderPanel(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipalFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	panel, err := h.consoleUsecase.RenderActivePanel(r.Context(), principal)
	if err != nil {
		switch err {
		case usecase.ErrNoVisibleCategory:
			response.Forbidden(w, err.Error())
		default:
			response.InternalServerError(w, "Failed to render settings panel")
		}
		return
	}

	response.Success(w, http.StatusOK, "Settings panel rendered successfully", panel)
}
