package office

import (
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

// OfficeResponse represents the response structure for an office.
type OfficeResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	RadiusMeters  float64 `json:"radius_meters"`
	IsActive      bool    `json:"is_active"`
	WorkStartTime string  `json:"work_start_time"`
	WorkEndTime   string  `json:"work_end_time"`
	Timezone      string  `json:"timezone"`
	CycleType     string  `json:"cycle_type"`
	CycleStartDay int     `json:"cycle_start_day"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

func ToResponse(o Office) OfficeResponse {
	return OfficeResponse{
		ID:            o.ID,
		Name:          o.Name,
		Latitude:      o.Latitude,
		Longitude:     o.Longitude,
		RadiusMeters:  o.RadiusMeters,
		IsActive:      o.IsActive,
		WorkStartTime: o.WorkStartTime,
		WorkEndTime:   o.WorkEndTime,
		Timezone:      o.Timezone,
		CycleType:     string(o.CycleType),
		CycleStartDay: o.CycleStartDay,
		CreatedAt:     o.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:     o.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

// CreateOfficeRequest represents the request structure for creating an office.
type CreateOfficeRequest struct {
	Name          string  `json:"name"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	RadiusMeters  float64 `json:"radius_meters"`
	WorkStartTime string  `json:"work_start_time"`
	WorkEndTime   string  `json:"work_end_time"`
	Timezone      string  `json:"timezone"`
	CycleType     string  `json:"cycle_type"`
	CycleStartDay int     `json:"cycle_start_day"`
}

func (r *CreateOfficeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}
	if len(r.Name) > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not exceed 100 characters",
		})
	}

	if !validator.IsValidLatitude(r.Latitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}
	if !validator.IsValidLongitude(r.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if r.RadiusMeters <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "radius_meters",
			Message: "radius_meters must be greater than 0",
		})
	}

	if !validator.IsValidClockTime(r.WorkStartTime) {
		errs = append(errs, validator.ValidationError{
			Field:   "work_start_time",
			Message: "work_start_time must be in HH:MM format",
		})
	}
	if !validator.IsValidClockTime(r.WorkEndTime) {
		errs = append(errs, validator.ValidationError{
			Field:   "work_end_time",
			Message: "work_end_time must be in HH:MM format",
		})
	}

	if r.Timezone != "" {
		if _, err := time.LoadLocation(r.Timezone); err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "timezone",
				Message: "timezone must be a valid IANA timezone name",
			})
		}
	}

	switch CycleType(r.CycleType) {
	case CycleCalendar:
	case CycleCustom:
		if r.CycleStartDay < 1 || r.CycleStartDay > 28 {
			errs = append(errs, validator.ValidationError{
				Field:   "cycle_start_day",
				Message: "cycle_start_day must be between 1 and 28",
			})
		}
	default:
		errs = append(errs, validator.ValidationError{
			Field:   "cycle_type",
			Message: "cycle_type must be one of: calendar, custom",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// UpdateOfficeRequest represents the request structure for updating an office.
type UpdateOfficeRequest struct {
	ID            string   `json:"id"`
	Name          *string  `json:"name,omitempty"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
	RadiusMeters  *float64 `json:"radius_meters,omitempty"`
	IsActive      *bool    `json:"is_active,omitempty"`
	WorkStartTime *string  `json:"work_start_time,omitempty"`
	WorkEndTime   *string  `json:"work_end_time,omitempty"`
	Timezone      *string  `json:"timezone,omitempty"`
	CycleType     *string  `json:"cycle_type,omitempty"`
	CycleStartDay *int     `json:"cycle_start_day,omitempty"`
}

func (r *UpdateOfficeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if r.Name != nil {
		if validator.IsEmpty(*r.Name) {
			errs = append(errs, validator.ValidationError{
				Field:   "name",
				Message: "name must not be empty",
			})
		}
		if len(*r.Name) > 100 {
			errs = append(errs, validator.ValidationError{
				Field:   "name",
				Message: "name must not exceed 100 characters",
			})
		}
	}

	if r.Latitude != nil && !validator.IsValidLatitude(*r.Latitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}
	if r.Longitude != nil && !validator.IsValidLongitude(*r.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if r.RadiusMeters != nil && *r.RadiusMeters <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "radius_meters",
			Message: "radius_meters must be greater than 0",
		})
	}

	if r.WorkStartTime != nil && !validator.IsValidClockTime(*r.WorkStartTime) {
		errs = append(errs, validator.ValidationError{
			Field:   "work_start_time",
			Message: "work_start_time must be in HH:MM format",
		})
	}
	if r.WorkEndTime != nil && !validator.IsValidClockTime(*r.WorkEndTime) {
		errs = append(errs, validator.ValidationError{
			Field:   "work_end_time",
			Message: "work_end_time must be in HH:MM format",
		})
	}

	if r.Timezone != nil {
		if _, err := time.LoadLocation(*r.Timezone); err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "timezone",
				Message: "timezone must be a valid IANA timezone name",
			})
		}
	}

	if r.CycleType != nil {
		switch CycleType(*r.CycleType) {
		case CycleCalendar, CycleCustom:
		default:
			errs = append(errs, validator.ValidationError{
				Field:   "cycle_type",
				Message: "cycle_type must be one of: calendar, custom",
			})
		}
	}
	if r.CycleStartDay != nil && (*r.CycleStartDay < 1 || *r.CycleStartDay > 28) {
		errs = append(errs, validator.ValidationError{
			Field:   "cycle_start_day",
			Message: "cycle_start_day must be between 1 and 28",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}
