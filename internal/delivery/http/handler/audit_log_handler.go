package handler

import (
	"errors"
	"net/http"
	"strconv"

	"hospital-frontdesk/internal/delivery/dto"
	"hospital-frontdesk/internal/usecase"
	"hospital-frontdesk/pkg/pagination"
	"hospital-frontdesk/pkg/response"

	"github.com/gorilla/mux"
)

type AuditLogHandler struct {
	auditLogUsecase usecase.AuditLogUsecase
}

func NewAuditLogHandler(auditLogUsecase usecase.AuditLogUsecase) *AuditLogHandler {
	return &AuditLogHandler{
		auditLogUsecase: auditLogUsecase,
	}
}

func (h *AuditLogHandler) GetAuditLog(w http.ResponseWriter, r *http.Request) {
	auditLogID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid audit log ID", nil)
		return
	}

	auditLog, err := h.auditLogUsecase.GetByID(r.Context(), auditLogID)
	if err != nil {
		if errors.Is(err, usecase.ErrAuditLogNotFound) {
			response.NotFound(w, "Audit log not found")
			return
		}
		serverError(w, "Failed to get audit log", err)
		return
	}

	response.Success(w, http.StatusOK, "Audit log retrieved successfully", auditLog)
}

// GetAllAuditLogs lists audit rows newest first, filtered by ?action= and ?user_id=.
func (h *AuditLogHandler) GetAllAuditLogs(w http.ResponseWriter, r *http.Request) {
	userID, ok := queryUUID(w, r, "user_id")
	if !ok {
		return
	}

	p := pagination.FromRequest(r)
	query := dto.AuditLogListQuery{
		Action: r.URL.Query().Get("action"),
		UserID: userID,
		Page:   p.Page,
		Limit:  p.Limit,
	}

	auditLogs, total, err := h.auditLogUsecase.GetAll(r.Context(), query)
	if err != nil {
		serverError(w, "Failed to get audit logs", err)
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Audit logs retrieved successfully", auditLogs, response.NewMeta(p.Page, p.Limit, total))
}
