package repository

import (
	"context"
	"errors"

	"tripfolio-service/internal/domain/entity"
)

// ErrLocationNotFound is returned when the geocoder has no result for the
// given text. Geocoding failures are never fatal to a merge; the event
// simply keeps its coordinates unset.
var ErrLocationNotFound = errors.New("location not found")

// GeocodeRepository defines the interface for free-text location resolution
type GeocodeRepository interface {
	Resolve(ctx context.Context, locationText string) (*entity.Coordinates, error)
}
