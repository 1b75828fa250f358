package attendance

import "errors"

// Attendance domain errors
var (
	// Check-in / check-out state machine
	ErrAlreadyCheckedIn    = errors.New("you have already checked in today")
	ErrNotCheckedIn        = errors.New("you have not checked in yet")
	ErrAlreadyCheckedOut   = errors.New("you have already checked out")
	ErrOutsideOfficeRadius = errors.New("you are outside the allowed office radius")
	ErrNoActiveOffice      = errors.New("no active office is configured")

	// General
	ErrRecordNotFound = errors.New("attendance record not found")
)
