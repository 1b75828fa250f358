package office

import (
	"fmt"
	"time"
)

type CycleType string

const (
	CycleCalendar CycleType = "calendar"
	CycleCustom   CycleType = "custom"
)

// Office is an administrator-managed branch with a circular geofence and the
// attendance accounting configuration for its employees.
type Office struct {
	ID            string
	Name          string
	Latitude      float64
	Longitude     float64
	RadiusMeters  float64
	IsActive      bool
	WorkStartTime string // "HH:MM" in the office timezone
	WorkEndTime   string // "HH:MM" in the office timezone
	Timezone      string // IANA name, e.g. "Asia/Jakarta"
	CycleType     CycleType
	CycleStartDay int // day-of-month the custom cycle begins on, 1-28
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Location returns the office timezone, falling back to UTC when the stored
// name does not resolve.
func (o Office) Location() *time.Location {
	loc, err := time.LoadLocation(o.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// WorkStartOn returns the work-start cutoff for the given calendar date in the
// office timezone. An unparseable configured time yields an error so callers
// can treat the office as having unknown work hours instead of guessing.
func (o Office) WorkStartOn(date time.Time) (time.Time, error) {
	return o.workTimeOn(date, o.WorkStartTime)
}

// WorkEndOn returns the work-end cutoff for the given calendar date.
func (o Office) WorkEndOn(date time.Time) (time.Time, error) {
	return o.workTimeOn(date, o.WorkEndTime)
}

func (o Office) workTimeOn(date time.Time, hhmm string) (time.Time, error) {
	parsed, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid work time %q: %w", hhmm, err)
	}
	loc := o.Location()
	return time.Date(date.Year(), date.Month(), date.Day(),
		parsed.Hour(), parsed.Minute(), 0, 0, loc), nil
}
