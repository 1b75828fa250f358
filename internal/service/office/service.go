package office

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/office"
)

type OfficeServiceImpl struct {
	office.OfficeRepository
}

func NewOfficeService(officeRepo office.OfficeRepository) office.Service {
	return &OfficeServiceImpl{OfficeRepository: officeRepo}
}

// Create implements office.Service.
func (s *OfficeServiceImpl) Create(ctx context.Context, req office.CreateOfficeRequest) (office.OfficeResponse, error) {
	if err := req.Validate(); err != nil {
		return office.OfficeResponse{}, err
	}

	o := office.Office{
		Name:          req.Name,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		RadiusMeters:  req.RadiusMeters,
		IsActive:      true,
		WorkStartTime: req.WorkStartTime,
		WorkEndTime:   req.WorkEndTime,
		Timezone:      req.Timezone,
		CycleType:     office.CycleType(req.CycleType),
		CycleStartDay: req.CycleStartDay,
	}
	if o.Timezone == "" {
		o.Timezone = "UTC"
	}

	created, err := s.OfficeRepository.Create(ctx, o)
	if err != nil {
		if err == office.ErrNameExists {
			return office.OfficeResponse{}, err
		}
		return office.OfficeResponse{}, fmt.Errorf("failed to create office: %w", err)
	}

	return office.ToResponse(created), nil
}

// Get implements office.Service.
func (s *OfficeServiceImpl) Get(ctx context.Context, id string) (office.OfficeResponse, error) {
	o, err := s.OfficeRepository.GetByID(ctx, id)
	if err != nil {
		return office.OfficeResponse{}, err
	}
	return office.ToResponse(o), nil
}

// List implements office.Service.
func (s *OfficeServiceImpl) List(ctx context.Context, activeOnly bool) ([]office.OfficeResponse, error) {
	offices, err := s.OfficeRepository.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list offices: %w", err)
	}

	responses := make([]office.OfficeResponse, 0, len(offices))
	for _, o := range offices {
		responses = append(responses, office.ToResponse(o))
	}
	return responses, nil
}

// Update implements office.Service.
func (s *OfficeServiceImpl) Update(ctx context.Context, req office.UpdateOfficeRequest) (office.OfficeResponse, error) {
	if err := req.Validate(); err != nil {
		return office.OfficeResponse{}, err
	}

	if err := s.OfficeRepository.Update(ctx, req); err != nil {
		if err == office.ErrOfficeNotFound || err == office.ErrNameExists {
			return office.OfficeResponse{}, err
		}
		return office.OfficeResponse{}, fmt.Errorf("failed to update office: %w", err)
	}

	updated, err := s.OfficeRepository.GetByID(ctx, req.ID)
	if err != nil {
		return office.OfficeResponse{}, err
	}
	return office.ToResponse(updated), nil
}

// Delete implements office.Service.
func (s *OfficeServiceImpl) Delete(ctx context.Context, id string) error {
	return s.OfficeRepository.Delete(ctx, id)
}
