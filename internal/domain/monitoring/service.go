package monitoring

import "context"

// Service builds read-only snapshots of everyone's status for today.
type Service interface {
	GetLiveSnapshot(ctx context.Context, branchID *string) (LiveSnapshotResponse, error)
}
