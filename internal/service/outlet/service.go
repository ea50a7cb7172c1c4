package outlet

import (
	"context"
	"errors"
	"fmt"

	"github.com/attenda-hq/attendance-backend-go/internal/domain/outlet"
	"github.com/jackc/pgx/v5"
)

type OutletServiceImpl struct {
	outlet.OutletRepository
}

func NewOutletService(outlets outlet.OutletRepository) outlet.OutletService {
	return &OutletServiceImpl{
		OutletRepository: outlets,
	}
}

func toOutletResponse(o outlet.Outlet) outlet.OutletResponse {
	return outlet.OutletResponse{
		ID:           o.ID,
		Name:         o.Name,
		Address:      o.Address,
		Latitude:     o.Latitude,
		Longitude:    o.Longitude,
		RadiusMeters: o.RadiusMeters,
		IsActive:     o.IsActive,
	}
}

// Get implements outlet.OutletService.
func (s *OutletServiceImpl) Get(ctx context.Context, id string) (outlet.OutletResponse, error) {
	o, err := s.OutletRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return outlet.OutletResponse{}, outlet.ErrOutletNotFound
		}
		return outlet.OutletResponse{}, fmt.Errorf("failed to get outlet: %w", err)
	}
	return toOutletResponse(o), nil
}

// List implements outlet.OutletService.
func (s *OutletServiceImpl) List(ctx context.Context) (outlet.ListOutletsResponse, error) {
	outlets, err := s.OutletRepository.List(ctx)
	if err != nil {
		return outlet.ListOutletsResponse{}, fmt.Errorf("failed to list outlets: %w", err)
	}

	resp := outlet.ListOutletsResponse{
		Outlets: make([]outlet.OutletResponse, 0, len(outlets)),
		Total:   len(outlets),
	}
	for _, o := range outlets {
		resp.Outlets = append(resp.Outlets, toOutletResponse(o))
	}
	return resp, nil
}
