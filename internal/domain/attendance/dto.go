package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

// CheckInRequest carries the browser-reported GPS fix. Coordinates are
// pointers so a missing field is distinguishable from a literal zero.
type CheckInRequest struct {
	Latitude       *float64 `json:"latitude"`
	Longitude      *float64 `json:"longitude"`
	AccuracyMeters *float64 `json:"accuracy,omitempty"`
}

func (r *CheckInRequest) Validate() error {
	return validateLocation(r.Latitude, r.Longitude)
}

type CheckOutRequest struct {
	Latitude       *float64 `json:"latitude"`
	Longitude      *float64 `json:"longitude"`
	AccuracyMeters *float64 `json:"accuracy,omitempty"`
}

func (r *CheckOutRequest) Validate() error {
	return validateLocation(r.Latitude, r.Longitude)
}

func validateLocation(lat, lng *float64) error {
	var errs validator.ValidationErrors

	if lat == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude is required",
		})
	} else if !validator.IsValidLatitude(*lat) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}

	if lng == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude is required",
		})
	} else if !validator.IsValidLongitude(*lng) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type RecordResponse struct {
	ID                string   `json:"id"`
	UserID            string   `json:"user_id"`
	UserName          *string  `json:"user_name,omitempty"`
	Date              string   `json:"date"`
	Status            string   `json:"status"`
	ClockInTime       *string  `json:"clock_in_time,omitempty"`
	ClockOutTime      *string  `json:"clock_out_time,omitempty"`
	ClockInLatitude   *float64 `json:"clock_in_latitude,omitempty"`
	ClockInLongitude  *float64 `json:"clock_in_longitude,omitempty"`
	ClockOutLatitude  *float64 `json:"clock_out_latitude,omitempty"`
	ClockOutLongitude *float64 `json:"clock_out_longitude,omitempty"`
	IsWithinOffice    bool     `json:"is_within_office"`
	TotalHours        *float64 `json:"total_hours,omitempty"`
	CreatedAt         string   `json:"created_at"`
	UpdatedAt         string   `json:"updated_at"`
}

// CheckInResponse adds geofence diagnostics to the created record so the UI
// can tell the employee how far from the nearest office they were.
type CheckInResponse struct {
	Record            RecordResponse `json:"record"`
	NearestOfficeID   *string        `json:"nearest_office_id,omitempty"`
	NearestOfficeName *string        `json:"nearest_office_name,omitempty"`
	DistanceMeters    *float64       `json:"distance_meters,omitempty"`
}

// CheckOutResponse reports the checkout location validity without it ever
// touching the persisted is_within_office flag.
type CheckOutResponse struct {
	Record               RecordResponse `json:"record"`
	TotalHours           float64        `json:"total_hours"`
	CheckOutWithinOffice bool           `json:"check_out_within_office"`
}

// StatusResponse is derived purely from today's record state.
type StatusResponse struct {
	Record      *RecordResponse `json:"record"`
	CanCheckIn  bool            `json:"can_check_in"`
	CanCheckOut bool            `json:"can_check_out"`
}

type HistoryFilter struct {
	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Page      int     `json:"page"`
	Limit     int     `json:"limit"`
}

func (f *HistoryFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	var start, end time.Time
	if f.StartDate != nil && *f.StartDate != "" {
		var ok bool
		if start, ok = validator.IsValidDate(*f.StartDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}
	if f.EndDate != nil && *f.EndDate != "" {
		var ok bool
		if end, ok = validator.IsValidDate(*f.EndDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type HistorySummary struct {
	DaysPresent      int     `json:"days_present"`
	DaysWithinOffice int     `json:"days_within_office"`
	TotalHours       float64 `json:"total_hours"`
	AverageHours     float64 `json:"average_hours"`
}

type HistoryResponse struct {
	TotalCount int64            `json:"total_count"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
	Summary    HistorySummary   `json:"summary"`
	Records    []RecordResponse `json:"records"`
}

// ToResponse converts a Record entity to its transport shape.
func ToResponse(r Record) RecordResponse {
	return RecordResponse{
		ID:                r.ID,
		UserID:            r.UserID,
		UserName:          r.UserName,
		Date:              r.Date.Format("2006-01-02"),
		Status:            r.Status(),
		ClockInTime:       timePtrToString(r.ClockInTime),
		ClockOutTime:      timePtrToString(r.ClockOutTime),
		ClockInLatitude:   r.ClockInLatitude,
		ClockInLongitude:  r.ClockInLongitude,
		ClockOutLatitude:  r.ClockOutLatitude,
		ClockOutLongitude: r.ClockOutLongitude,
		IsWithinOffice:    r.IsWithinOffice,
		TotalHours:        r.TotalHours,
		CreatedAt:         r.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:         r.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

// timePtrToString safely converts a *time.Time to a string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format("2006-01-02 15:04:05")
	return &format
}
