package office

import "context"

// Service manages the office registry used by geofencing and pay cycles.
type Service interface {
	Create(ctx context.Context, req CreateOfficeRequest) (OfficeResponse, error)
	Get(ctx context.Context, id string) (OfficeResponse, error)
	List(ctx context.Context, activeOnly bool) ([]OfficeResponse, error)
	Update(ctx context.Context, req UpdateOfficeRequest) (OfficeResponse, error)
	Delete(ctx context.Context, id string) error
}
