package http

import (
	"net/http"

	"unihealth-admin/internal/delivery/http/handler"
	"unihealth-admin/internal/delivery/http/middleware"
	"unihealth-admin/internal/domain/entity"
	"unihealth-admin/internal/service"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	router                 *mux.Router
	authHandler            *handler.AuthHandler
	consoleHandler         *handler.ConsoleHandler
	affiliationHandler     *handler.AffiliationHandler
	generalSettingsHandler *handler.GeneralSettingsHandler
	userManagementHandler  *handler.UserManagementHandler
	clinicSettingsHandler  *handler.ClinicSettingsHandler
	medicalServiceHandler  *handler.MedicalServiceHandler
	auditLogHandler        *handler.AuditLogHandler
	authMiddleware         *middleware.AuthMiddleware
	corsMiddleware         *middleware.CORSMiddleware
	policy                 service.PolicyService
}

func NewRouter(
	authHandler *handler.AuthHandler,
	consoleHandler *handler.ConsoleHandler,
	affiliationHandler *handler.AffiliationHandler,
	generalSettingsHandler *handler.GeneralSettingsHandler,
	userManagementHandler *handler.UserManagementHandler,
	clinicSettingsHandler *handler.ClinicSettingsHandler,
	medicalServiceHandler *handler.MedicalServiceHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	policy service.PolicyService,
) *Router {
	return &Router{
		router:                 mux.NewRouter(),
		authHandler:            authHandler,
		consoleHandler:         consoleHandler,
		affiliationHandler:     affiliationHandler,
		generalSettingsHandler: generalSettingsHandler,
		userManagementHandler:  userManagementHandler,
		clinicSettingsHandler:  clinicSettingsHandler,
		medicalServiceHandler:  medicalServiceHandler,
		auditLogHandler:        auditLogHandler,
		authMiddleware:         authMiddleware,
		corsMiddleware:         corsMiddleware,
		policy:                 policy,
	}
}

func (r *Router) Setup() *mux.Router {
	r.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)

	// Settings shell
	console := api.PathPrefix("/console").Subrouter()
	console.Use(r.authMiddleware.Authenticate)
	console.HandleFunc("", r.consoleHandler.GetConsole).Methods(http.MethodGet)
	console.HandleFunc("/categories", r.consoleHandler.ListCategories).Methods(http.MethodGet)
	console.HandleFunc("/select", r.consoleHandler.SelectCategory).Methods(http.MethodPost)
	console.HandleFunc("/navigation/{pendingId}/resolve", r.consoleHandler.ResolveNavigation).Methods(http.MethodPost)
	console.HandleFunc("/unsaved", r.consoleHandler.ReportUnsavedChanges).Methods(http.MethodPut)
	console.HandleFunc("/panel", r.consoleHandler.RenderPanel).Methods(http.MethodGet)

	// Clinic affiliation dialog
	affiliations := api.NewRoute().Subrouter()
	affiliations.Use(r.authMiddleware.Authenticate)
	affiliations.Use(middleware.RequirePolicy(r.policy, service.ObjectAffiliations))
	affiliations.HandleFunc("/doctors/{doctorId}/affiliations", r.affiliationHandler.ListAffiliations).Methods(http.MethodGet)
	affiliations.HandleFunc("/doctors/{doctorId}/affiliations/dialog", r.affiliationHandler.OpenDialog).Methods(http.MethodPost)
	affiliations.HandleFunc("/affiliations/dialog", r.affiliationHandler.GetDialog).Methods(http.MethodGet)
	affiliations.HandleFunc("/affiliations/dialog", r.affiliationHandler.EditDialogField).Methods(http.MethodPatch)
	affiliations.HandleFunc("/affiliations/dialog/save", r.affiliationHandler.SaveDialog).Methods(http.MethodPost)
	affiliations.HandleFunc("/affiliations/dialog/cancel", r.affiliationHandler.CancelDialog).Methods(http.MethodPost)
	affiliations.HandleFunc("/affiliations/{id}", r.affiliationHandler.DeleteAffiliation).Methods(http.MethodDelete)

	// Settings panels, one category each
	general := r.settingsRoutes(api, "/settings/general", entity.CategoryGeneral)
	general.HandleFunc("", r.generalSettingsHandler.GetSettings).Methods(http.MethodGet)
	general.HandleFunc("", r.generalSettingsHandler.UpdateSettings).Methods(http.MethodPut)

	users := r.settingsRoutes(api, "/settings/users", entity.CategoryUsers)
	users.HandleFunc("", r.userManagementHandler.ListUsers).Methods(http.MethodGet)
	users.HandleFunc("", r.userManagementHandler.CreateUser).Methods(http.MethodPost)
	users.HandleFunc("/{id}/role", r.userManagementHandler.ChangeRole).Methods(http.MethodPut)
	users.HandleFunc("/{id}/status", r.userManagementHandler.ChangeStatus).Methods(http.MethodPut)

	clinics := r.settingsRoutes(api, "/settings/clinics", entity.CategoryClinics)
	clinics.HandleFunc("", r.clinicSettingsHandler.ListClinics).Methods(http.MethodGet)
	clinics.HandleFunc("/{clinicName}", r.clinicSettingsHandler.UpsertClinic).Methods(http.MethodPut)

	services := r.settingsRoutes(api, "/settings/services", entity.CategoryServices)
	services.HandleFunc("", r.medicalServiceHandler.ListServices).Methods(http.MethodGet)
	services.HandleFunc("", r.medicalServiceHandler.CreateService).Methods(http.MethodPost)
	services.HandleFunc("/{id}", r.medicalServiceHandler.UpdateService).Methods(http.MethodPut)
	services.HandleFunc("/{id}", r.medicalServiceHandler.DeleteService).Methods(http.MethodDelete)

	// export is registered before {id} so it is not read as an id
	auditLogs := r.settingsRoutes(api, "/settings/audit-logs", entity.CategoryData)
	auditLogs.HandleFunc("", r.auditLogHandler.GetAllAuditLogs).Methods(http.MethodGet)
	auditLogs.HandleFunc("/export", r.auditLogHandler.ExportAuditLogs).Methods(http.MethodGet)
	auditLogs.HandleFunc("/{id:[0-9]+}", r.auditLogHandler.GetAuditLog).Methods(http.MethodGet)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) settingsRoutes(api *mux.Router, prefix string, category entity.CategoryID) *mux.Router {
	sub := api.PathPrefix(prefix).Subrouter()
	sub.Use(r.authMiddleware.Authenticate)
	sub.Use(middleware.RequireCategory(r.policy, category))
	return sub
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
