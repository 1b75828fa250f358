package http

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/monitoring"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
)

type MonitoringHandler interface {
	// GetLiveSnapshot returns today's per-employee status with aggregate stats
	GetLiveSnapshot(w http.ResponseWriter, r *http.Request)
}

type monitoringHandlerImpl struct {
	monitoringService monitoring.Service
}

func NewMonitoringHandler(monitoringService monitoring.Service) MonitoringHandler {
	return &monitoringHandlerImpl{monitoringService: monitoringService}
}

// GetLiveSnapshot handles GET /attendance/live
func (h *monitoringHandlerImpl) GetLiveSnapshot(w http.ResponseWriter, r *http.Request) {
	var branchID *string
	if v := r.URL.Query().Get("branch_id"); v != "" {
		branchID = &v
	}

	result, err := h.monitoringService.GetLiveSnapshot(r.Context(), branchID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
