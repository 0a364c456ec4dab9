package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"unihealth-admin/internal/delivery/dto"
	"unihealth-admin/internal/delivery/http/middleware"
	"unihealth-admin/internal/domain/entity"
	"unihealth-admin/internal/usecase"
	"unihealth-admin/pkg/response"
	"unihealth-admin/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var testPrincipal = entity.Principal{UserID: uuid.New(), SessionID: "session-1", Role: entity.RoleSuperadmin}

func authed(r *http.Request) *http.Request {
	return r.WithContext(middleware.WithPrincipal(r.Context(), testPrincipal))
}

func jsonBody(t *testing.T, v any) *bytes.Reader {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(raw)
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var out response.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

type fakeConsoleUsecase struct {
	usecase.SettingsConsoleUsecase
	resolveErr error
	gotPending string
	gotConfirm bool
}

func (f *fakeConsoleUsecase) SelectCategory(ctx context.Context, p entity.Principal, req *dto.SelectCategoryRequest) (*dto.NavigationResponse, error) {
	return &dto.NavigationResponse{Outcome: "committed", Console: dto.ConsoleResponse{Active: req.CategoryID}}, nil
}

func (f *fakeConsoleUsecase) ResolveNavigation(ctx context.Context, p entity.Principal, pendingID string, req *dto.ResolveNavigationRequest) (*dto.NavigationResponse, error) {
	f.gotPending = pendingID
	f.gotConfirm = *req.Confirm
	if f.resolveErr != nil {
		return nil, f.resolveErr
	}
	return &dto.NavigationResponse{Outcome: "aborted"}, nil
}

func (f *fakeConsoleUsecase) RenderActivePanel(ctx context.Context, p entity.Principal) (*dto.PanelResponse, error) {
	return nil, usecase.ErrNoVisibleCategory
}

func TestConsoleHandler_SelectCategory(t *testing.T) {
	h := NewConsoleHandler(&fakeConsoleUsecase{}, validator.NewValidator())

	rec := httptest.NewRecorder()
	req := authed(httptest.NewRequest(http.MethodPost, "/console/select", jsonBody(t, dto.SelectCategoryRequest{CategoryID: "users"})))
	h.SelectCategory(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	require.True(t, env.Success)
	require.Equal(t, "Navigation committed", env.Message)
}

func TestConsoleHandler_SelectCategoryValidation(t *testing.T) {
	h := NewConsoleHandler(&fakeConsoleUsecase{}, validator.NewValidator())

	rec := httptest.NewRecorder()
	h.SelectCategory(rec, authed(httptest.NewRequest(http.MethodPost, "/console/select", bytes.NewBufferString(`{}`))))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.SelectCategory(rec, httptest.NewRequest(http.MethodPost, "/console/select", bytes.NewBufferString(`{"category_id":"users"}`)))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestConsoleHandler_ResolveNavigation(t *testing.T) {
	fake := &fakeConsoleUsecase{}
	h := NewConsoleHandler(fake, validator.NewValidator())

	req := authed(httptest.NewRequest(http.MethodPost, "/console/navigation/p-1/resolve", bytes.NewBufferString(`{"confirm":false}`)))
	req = mux.SetURLVars(req, map[string]string{"pendingId": "p-1"})
	rec := httptest.NewRecorder()
	h.ResolveNavigation(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "p-1", fake.gotPending)
	require.False(t, fake.gotConfirm)
}

func TestConsoleHandler_ResolveNavigationConflicts(t *testing.T) {
	for _, err := range []error{usecase.ErrNoPendingNavigation, usecase.ErrPendingMismatch} {
		h := NewConsoleHandler(&fakeConsoleUsecase{resolveErr: err}, validator.NewValidator())

		req := authed(httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"confirm":true}`)))
		req = mux.SetURLVars(req, map[string]string{"pendingId": "stale"})
		rec := httptest.NewRecorder()
		h.ResolveNavigation(rec, req)

		require.Equal(t, http.StatusConflict, rec.Code)
		require.Equal(t, err.Error(), decodeEnvelope(t, rec).Message)
	}
}

func TestConsoleHandler_ResolveNavigationRequiresConfirm(t *testing.T) {
	h := NewConsoleHandler(&fakeConsoleUsecase{}, validator.NewValidator())

	req := authed(httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{}`)))
	rec := httptest.NewRecorder()
	h.ResolveNavigation(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConsoleHandler_RenderPanelWithoutCategories(t *testing.T) {
	h := NewConsoleHandler(&fakeConsoleUsecase{}, validator.NewValidator())

	rec := httptest.NewRecorder()
	h.RenderPanel(rec, authed(httptest.NewRequest(http.MethodGet, "/console/panel", nil)))

	require.Equal(t, http.StatusForbidden, rec.Code)
}

type fakeAffiliationUsecase struct {
	usecase.AffiliationUsecase
	openReq *dto.OpenAffiliationDialogRequest
	saveErr error
}

func (f *fakeAffiliationUsecase) OpenDialog(ctx context.Context, p entity.Principal, doctorID uuid.UUID, req *dto.OpenAffiliationDialogRequest) (*dto.AffiliationDialogResponse, error) {
	f.openReq = req
	mode := "create"
	if req.AffiliationID != nil {
		mode = "edit"
	}
	return &dto.AffiliationDialogResponse{Open: true, Mode: mode, DoctorID: &doctorID}, nil
}

func (f *fakeAffiliationUsecase) SaveDialog(ctx context.Context, p entity.Principal) (*dto.SaveAffiliationDialogResponse, error) {
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	return &dto.SaveAffiliationDialogResponse{}, nil
}

func TestAffiliationHandler_OpenDialogWithoutBody(t *testing.T) {
	fake := &fakeAffiliationUsecase{}
	h := NewAffiliationHandler(fake, validator.NewValidator())
	doctorID := uuid.New()

	req := authed(httptest.NewRequest(http.MethodPost, "/", nil))
	req = mux.SetURLVars(req, map[string]string{"doctorId": doctorID.String()})
	rec := httptest.NewRecorder()
	h.OpenDialog(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, fake.openReq)
	require.Nil(t, fake.openReq.AffiliationID)
}

func TestAffiliationHandler_OpenDialogRejectsBadDoctorID(t *testing.T) {
	h := NewAffiliationHandler(&fakeAffiliationUsecase{}, validator.NewValidator())

	req := authed(httptest.NewRequest(http.MethodPost, "/", nil))
	req = mux.SetURLVars(req, map[string]string{"doctorId": "not-a-uuid"})
	rec := httptest.NewRecorder()
	h.OpenDialog(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAffiliationHandler_EditFieldValidation(t *testing.T) {
	h := NewAffiliationHandler(&fakeAffiliationUsecase{}, validator.NewValidator())

	rec := httptest.NewRecorder()
	h.EditDialogField(rec, authed(httptest.NewRequest(http.MethodPatch, "/", bytes.NewBufferString(`{"field":"clinic","value":"x"}`))))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Validation failed", decodeEnvelope(t, rec).Message)
}

func TestAffiliationHandler_SaveErrors(t *testing.T) {
	cases := map[error]int{
		usecase.ErrAffiliationDraftIncomplete: http.StatusUnprocessableEntity,
		usecase.ErrNoDialogOpen:               http.StatusConflict,
		usecase.ErrAffiliationNotFound:        http.StatusNotFound,
	}
	for err, status := range cases {
		h := NewAffiliationHandler(&fakeAffiliationUsecase{saveErr: err}, validator.NewValidator())

		rec := httptest.NewRecorder()
		h.SaveDialog(rec, authed(httptest.NewRequest(http.MethodPost, "/", nil)))

		require.Equal(t, status, rec.Code, err.Error())
	}
}

type fakeAuditLogUsecase struct {
	usecase.AuditLogUsecase
	logs      []dto.AuditLogResponse
	total     int64
	gotAction string
	gotPage   int
	gotLimit  int
}

func (f *fakeAuditLogUsecase) GetAllAuditLogs(ctx context.Context, action string, page, limit int) (*dto.AuditLogListResponse, error) {
	f.gotAction, f.gotPage, f.gotLimit = action, page, limit
	return &dto.AuditLogListResponse{Logs: f.logs, Total: f.total}, nil
}

func (f *fakeAuditLogUsecase) ExportAuditLogs(ctx context.Context, p entity.Principal, action string) ([]dto.AuditLogResponse, error) {
	f.gotAction = action
	return f.logs, nil
}

func sampleAuditLogs() []dto.AuditLogResponse {
	at := time.Date(2026, 3, 4, 10, 30, 0, 0, time.UTC)
	return []dto.AuditLogResponse{
		{
			ID:        2,
			User:      &dto.UserResponse{FullName: "Ana Admin", Email: "ana@unihealth.test", Role: "admin"},
			Action:    entity.AuditActionSettingsUpdate,
			Metadata:  entity.JSON{"key": "site_name"},
			CreatedAt: at,
		},
		{ID: 1, Action: entity.AuditActionUserLogin, CreatedAt: at.Add(-time.Hour)},
	}
}

func TestAuditLogHandler_ListPaginates(t *testing.T) {
	fake := &fakeAuditLogUsecase{logs: sampleAuditLogs(), total: 45}
	h := NewAuditLogHandler(fake)

	rec := httptest.NewRecorder()
	h.GetAllAuditLogs(rec, httptest.NewRequest(http.MethodGet, "/settings/audit-logs?action=auth.login&page=2&limit=20", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "auth.login", fake.gotAction)
	require.Equal(t, 2, fake.gotPage)
	require.Equal(t, 20, fake.gotLimit)

	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Meta)
	require.Equal(t, response.Meta{Page: 2, Limit: 20, Total: 45, TotalPages: 3}, *env.Meta)
}

func TestAuditLogHandler_ListClampsPaging(t *testing.T) {
	fake := &fakeAuditLogUsecase{}
	h := NewAuditLogHandler(fake)

	rec := httptest.NewRecorder()
	h.GetAllAuditLogs(rec, httptest.NewRequest(http.MethodGet, "/settings/audit-logs?page=-1&limit=5000", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, fake.gotPage)
	require.Equal(t, 100, fake.gotLimit)
}

func TestAuditLogHandler_GetRejectsBadID(t *testing.T) {
	h := NewAuditLogHandler(&fakeAuditLogUsecase{})

	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": "abc"})
	rec := httptest.NewRecorder()
	h.GetAuditLog(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuditLogHandler_ExportWritesWorkbook(t *testing.T) {
	fake := &fakeAuditLogUsecase{logs: sampleAuditLogs()}
	h := NewAuditLogHandler(fake)

	rec := httptest.NewRecorder()
	h.ExportAuditLogs(rec, authed(httptest.NewRequest(http.MethodGet, "/settings/audit-logs/export?action=settings.update", nil)))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "settings.update", fake.gotAction)
	require.Contains(t, rec.Header().Get("Content-Disposition"), "audit_logs_")

	f, err := excelize.OpenReader(rec.Body)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(auditLogSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, []string{"ID", "Time", "Action", "User", "Email", "Role", "Metadata"}, rows[0])
	require.Equal(t, []string{"2", "2026-03-04 10:30:00", entity.AuditActionSettingsUpdate, "Ana Admin", "ana@unihealth.test", "admin", `{"key":"site_name"}`}, rows[1])
	require.Equal(t, "1", rows[2][0])
	require.Equal(t, entity.AuditActionUserLogin, rows[2][2])
}

func TestBuildAuditLogWorkbook_EmptyHasHeaderOnly(t *testing.T) {
	f, err := buildAuditLogWorkbook(nil)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(auditLogSheet)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
