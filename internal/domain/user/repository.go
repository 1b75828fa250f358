package user

import "context"

// UserRepository reads the roster owned by the user-directory collaborator.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (User, error)

	// ListRoster returns active non-admin users, optionally filtered to one
	// branch. This is the population "absent today" is computed against.
	ListRoster(ctx context.Context, branchID *string) ([]User, error)
}
