package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"hospital-frontdesk/internal/delivery/dto"
	"hospital-frontdesk/internal/service"
	"hospital-frontdesk/internal/usecase"
	"hospital-frontdesk/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type SummaryHandler struct {
	summaryUsecase usecase.SummaryUsecase
	location       *time.Location
	now            func() time.Time
}

func NewSummaryHandler(summaryUsecase usecase.SummaryUsecase, location *time.Location) *SummaryHandler {
	if location == nil {
		location = time.UTC
	}
	return &SummaryHandler{
		summaryUsecase: summaryUsecase,
		location:       location,
		now:            time.Now,
	}
}

// query reads from, to and doctor. A missing bound falls back to today.
func (h *SummaryHandler) query(w http.ResponseWriter, r *http.Request) (dto.SummaryQuery, bool) {
	from, to, err := dateRange(r, h.location)
	if err != nil {
		response.BadRequest(w, err.Error())
		return dto.SummaryQuery{}, false
	}
	doctorID, ok := queryUUID(w, r, "doctor")
	if !ok {
		return dto.SummaryQuery{}, false
	}

	start, end := service.DayBounds(h.now(), h.location)
	if from != nil {
		start = *from
	}
	if to != nil {
		end = *to
	}
	return dto.SummaryQuery{From: start, To: end, DoctorID: doctorID}, true
}

func (h *SummaryHandler) writeError(w http.ResponseWriter, err error, fallback string) {
	if errors.Is(err, usecase.ErrInvalidDateRange) {
		response.BadRequest(w, err.Error())
		return
	}
	serverError(w, fallback, err)
}

// Get returns the financial summary
// @Summary Financial summary
// @Tags Summary
// @Security BearerAuth
// @Param from query string false "YYYY-MM-DD, defaults to today"
// @Param to query string false "YYYY-MM-DD, inclusive, defaults to today"
// @Param doctor query string false "Doctor ID"
// @Router /summary [get]
func (h *SummaryHandler) Get(w http.ResponseWriter, r *http.Request) {
	query, ok := h.query(w, r)
	if !ok {
		return
	}

	summary, err := h.summaryUsecase.GetSummary(r.Context(), query)
	if err != nil {
		h.writeError(w, err, "Failed to get summary")
		return
	}

	response.Success(w, http.StatusOK, "Summary retrieved successfully", summary)
}

// Export streams the same summary as an xlsx workbook
// @Summary Export financial summary
// @Tags Summary
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Router /summary/export [get]
func (h *SummaryHandler) Export(w http.ResponseWriter, r *http.Request) {
	query, ok := h.query(w, r)
	if !ok {
		return
	}

	data, err := h.summaryUsecase.Export(r.Context(), query)
	if err != nil {
		h.writeError(w, err, "Failed to export summary")
		return
	}

	filename := fmt.Sprintf("summary_%s_%s.xlsx",
		query.From.Format(dayLayout),
		query.To.Add(-time.Nanosecond).Format(dayLayout))

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
