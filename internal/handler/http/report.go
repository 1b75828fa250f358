package http

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
)

type ReportHandler interface {
	GetReport(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.Service
}

func NewReportHandler(reportService report.Service) ReportHandler {
	return &reportHandlerImpl{reportService: reportService}
}

// GetReport handles GET /attendance/report
func (h *reportHandlerImpl) GetReport(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := report.ReportFilter{
		Range: query.Get("range"), // defaults to today when empty
	}
	if v := query.Get("date"); v != "" {
		filter.Date = &v
	}
	if v := query.Get("branch_id"); v != "" {
		filter.BranchID = &v
	}
	if v := query.Get("user_id"); v != "" {
		filter.UserID = &v
	}

	result, err := h.reportService.GetReport(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
