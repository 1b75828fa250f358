package attendance

import (
	"time"
)

// Per-day lifecycle states. A record moves not_started -> clocked_in ->
// clocked_out and never skips or reverses.
const (
	StatusNotStarted = "not_started"
	StatusClockedIn  = "clocked_in"
	StatusClockedOut = "clocked_out"
)

// Record is one employee-day of attendance. (UserID, Date) is the logical key;
// the database enforces its uniqueness.
type Record struct {
	ID     string
	UserID string
	Date   time.Time // calendar date, midnight UTC

	ClockInTime       *time.Time
	ClockInLatitude   *float64
	ClockInLongitude  *float64
	ClockInAccuracy   *float64
	ClockOutTime      *time.Time
	ClockOutLatitude  *float64
	ClockOutLongitude *float64
	ClockOutAccuracy  *float64

	// IsWithinOffice is fixed at check-in; check-out never rewrites it.
	IsWithinOffice bool
	TotalHours     *float64

	CreatedAt time.Time
	UpdatedAt time.Time

	// DTO
	UserName   *string
	Department *string
	BranchID   *string
	BranchName *string
}

// Status derives the lifecycle state from the clock timestamps.
func (r Record) Status() string {
	switch {
	case r.ClockInTime == nil:
		return StatusNotStarted
	case r.ClockOutTime == nil:
		return StatusClockedIn
	default:
		return StatusClockedOut
	}
}

// IsOpen reports whether the record has a clock-in but no clock-out yet.
func (r Record) IsOpen() bool {
	return r.ClockInTime != nil && r.ClockOutTime == nil
}
