package report

import (
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

// Date range modes for report filters.
const (
	RangeToday         = "today"
	RangeWeek          = "week"
	RangeMonth         = "month"
	RangeCurrentPeriod = "current_period"
)

type ReportFilter struct {
	Range    string  `json:"range"`          // today, week, month, current_period
	Date     *string `json:"date,omitempty"` // reference date, YYYY-MM-DD, defaults to today
	BranchID *string `json:"branch_id,omitempty"`
	UserID   *string `json:"user_id,omitempty"`
}

func (f *ReportFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Range == "" {
		f.Range = RangeToday
	}
	if !validator.IsInSlice(f.Range, []string{RangeToday, RangeWeek, RangeMonth, RangeCurrentPeriod}) {
		errs = append(errs, validator.ValidationError{
			Field:   "range",
			Message: "range must be one of: today, week, month, current_period",
		})
	}

	if f.Date != nil && *f.Date != "" {
		if _, ok := validator.IsValidDate(*f.Date); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// EnrichedRecord joins a raw attendance record with roster and office
// metadata for reporting.
type EnrichedRecord struct {
	RecordID             string   `json:"record_id"`
	UserID               string   `json:"user_id"`
	UserName             string   `json:"user_name"`
	Department           *string  `json:"department,omitempty"`
	BranchID             *string  `json:"branch_id,omitempty"`
	BranchName           *string  `json:"branch_name,omitempty"`
	CycleType            *string  `json:"cycle_type,omitempty"`
	Date                 string   `json:"date"`
	ClockInTime          *string  `json:"clock_in_time,omitempty"`
	ClockOutTime         *string  `json:"clock_out_time,omitempty"`
	IsWithinOffice       bool     `json:"is_within_office"`
	IsWithinWorkingHours *bool    `json:"is_within_working_hours,omitempty"`
	TotalHours           *float64 `json:"total_hours,omitempty"`
}

type BranchSummary struct {
	BranchID     string  `json:"branch_id"`
	BranchName   string  `json:"branch_name"`
	TotalRecords int     `json:"total_records"`
	Present      int     `json:"present"`
	OnTime       int     `json:"on_time"`
	TotalHours   float64 `json:"total_hours"`
}

type ReportSummary struct {
	TotalEmployees int             `json:"total_employees"`
	PresentToday   int             `json:"present_today"`
	OnTime         int             `json:"on_time"`
	TotalHours     float64         `json:"total_hours"`
	AverageHours   float64         `json:"average_hours"`
	ByBranch       []BranchSummary `json:"by_branch,omitempty"`
}

type ReportResponse struct {
	Range       string           `json:"range"`
	PeriodStart string           `json:"period_start"`
	PeriodEnd   string           `json:"period_end"`
	PeriodLabel string           `json:"period_label,omitempty"`
	Summary     ReportSummary    `json:"summary"`
	Records     []EnrichedRecord `json:"records"`
}
