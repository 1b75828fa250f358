package attendance

import (
	"context"
	"time"
)

// RecordRepository defines data access for attendance records.
type RecordRepository interface {
	// Create inserts a new record. A unique violation on (user_id, date)
	// surfaces as ErrAlreadyCheckedIn so concurrent double check-ins cannot
	// both succeed.
	Create(ctx context.Context, rec Record) (Record, error)

	// Update persists check-out fields for an existing record.
	Update(ctx context.Context, rec Record) error

	// GetByUserAndDate retrieves the record for one employee-day, nil when
	// none exists. This is the single lookup every state transition reads
	// before mutating.
	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*Record, error)

	// ListByDate retrieves all records for a date, optionally filtered to one
	// branch, with roster metadata joined in.
	ListByDate(ctx context.Context, date time.Time, branchID *string) ([]Record, error)

	// ListRange retrieves enriched records inside an inclusive date range.
	ListRange(ctx context.Context, start, end time.Time, branchID, userID *string) ([]Record, error)

	// ListByUser retrieves one employee's records, newest first, paged.
	ListByUser(ctx context.Context, userID string, start, end *time.Time, page, limit int) ([]Record, int64, error)
}
