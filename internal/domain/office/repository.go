package office

import "context"

// OfficeRepository defines data access for office reference data. Offices are
// read-mostly: the attendance core only reads them, mutation is reserved for
// the admin surface.
type OfficeRepository interface {
	Create(ctx context.Context, o Office) (Office, error)
	GetByID(ctx context.Context, id string) (Office, error)
	List(ctx context.Context, activeOnly bool) ([]Office, error)
	Update(ctx context.Context, req UpdateOfficeRequest) error
	Delete(ctx context.Context, id string) error
}
