package repository

import (
	"context"

	"tripfolio-service/internal/domain/entity"
)

// PlaceRepository defines the interface for travel-location reference data
type PlaceRepository interface {
	GetByCode(ctx context.Context, code string) (*entity.Place, error)
	SearchByName(ctx context.Context, name string) (*entity.Place, error)
}
