package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"unihealth-admin/internal/delivery/dto"
	"unihealth-admin/internal/delivery/http/middleware"
	"unihealth-admin/internal/usecase"
	"unihealth-admin/pkg/response"

	"github.com/gorilla/mux"
	"github.com/xuri/excelize/v2"
)

const auditLogSheet = "Audit Log"

var auditLogHeaders = []interface{}{"ID", "Time", "Action", "User", "Email", "Role", "Metadata"}

type AuditLogHandler struct {
	auditLogUsecase usecase.AuditLogUsecase
}

func NewAuditLogHandler(auditLogUsecase usecase.AuditLogUsecase) *AuditLogHandler {
	return &AuditLogHandler{
		auditLogUsecase: auditLogUsecase,
	}
}

func (h *AuditLogHandler) GetAuditLog(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	auditLogID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid audit log ID", nil)
		return
	}

	auditLog, err := h.auditLogUsecase.GetAuditLog(r.Context(), auditLogID)
	if err != nil {
		if err == usecase.ErrAuditLogNotFound {
			response.NotFound(w, "Audit log not found")
			return
		}
		response.InternalServerError(w, "Failed to get audit log")
		return
	}

	response.Success(w, http.StatusOK, "Audit log retrieved successfully", auditLog)
}

// GetAllAuditLogs handles ?action=&page=&limit=
func (h *AuditLogHandler) GetAllAuditLogs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, _ := strconv.Atoi(query.Get("page"))
	limit, _ := strconv.Atoi(query.Get("limit"))
	page, limit = usecase.NormalizeAuditLogPage(page, limit)

	auditLogs, err := h.auditLogUsecase.GetAllAuditLogs(r.Context(), query.Get("action"), page, limit)
	if err != nil {
		response.InternalServerError(w, "Failed to get audit logs")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Audit logs retrieved successfully", auditLogs.Logs, response.NewMeta(page, limit, auditLogs.Total))
}

// ExportAuditLogs streams the matching entries as an xlsx workbook
func (h *AuditLogHandler) ExportAuditLogs(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipalFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	logs, err := h.auditLogUsecase.ExportAuditLogs(r.Context(), principal, r.URL.Query().Get("action"))
	if err != nil {
		response.InternalServerError(w, "Failed to export audit logs")
		return
	}

	f, err := buildAuditLogWorkbook(logs)
	if err != nil {
		response.InternalServerError(w, "Failed to build audit log export")
		return
	}
	defer f.Close()

	fileName := fmt.Sprintf("audit_logs_%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename="+fileName)
	w.WriteHeader(http.StatusOK)
	f.Write(w)
}

func buildAuditLogWorkbook(logs []dto.AuditLogResponse) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", auditLogSheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(auditLogSheet, "A1", &auditLogHeaders); err != nil {
		return nil, err
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	f.SetCellStyle(auditLogSheet, "A1", "G1", style)

	for i, entry := range logs {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := auditLogRow(entry)
		if err := f.SetSheetRow(auditLogSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	f.SetColWidth(auditLogSheet, "B", "B", 20)
	f.SetColWidth(auditLogSheet, "C", "C", 28)
	f.SetColWidth(auditLogSheet, "D", "E", 30)
	f.SetColWidth(auditLogSheet, "G", "G", 60)

	return f, nil
}

func auditLogRow(entry dto.AuditLogResponse) []interface{} {
	var name, email, role string
	if entry.User != nil {
		name = entry.User.FullName
		email = entry.User.Email
		role = entry.User.Role
	}

	metadata := ""
	if len(entry.Metadata) > 0 {
		raw, err := json.Marshal(entry.Metadata)
		if err == nil {
			metadata = string(raw)
		}
	}

	return []interface{}{
		entry.ID, entry.CreatedAt.Format("2006-01-02 15:04:05"), entry.Action,
		name, email, role, metadata,
	}
}
