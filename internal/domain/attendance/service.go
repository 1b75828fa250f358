package attendance

import (
	"context"
)

// Service defines the check-in/check-out state machine exposed to employees.
type Service interface {
	// CheckIn validates the reported location and opens today's record.
	CheckIn(ctx context.Context, req CheckInRequest) (CheckInResponse, error)

	// CheckOut closes today's open record and computes total hours.
	CheckOut(ctx context.Context, req CheckOutRequest) (CheckOutResponse, error)

	// GetStatus reports today's record and which transitions remain legal.
	GetStatus(ctx context.Context) (StatusResponse, error)

	// GetHistory retrieves the caller's records with a summary.
	GetHistory(ctx context.Context, filter HistoryFilter) (HistoryResponse, error)
}
