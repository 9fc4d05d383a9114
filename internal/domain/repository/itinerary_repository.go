package repository

import (
	"context"
	"errors"

	"tripfolio-service/internal/domain/entity"
)

// ErrVersionConflict is returned by Save when the itinerary was modified
// since the caller read it. The caller should re-fetch and re-run the
// merge step only, not the full parse.
var ErrVersionConflict = errors.New("itinerary version conflict")

// ItineraryRepository defines the interface for itinerary persistence
type ItineraryRepository interface {
	// GetByTripID returns the trip's itinerary, or an empty version-0
	// itinerary when none exists yet.
	GetByTripID(ctx context.Context, tripID string) (*entity.Itinerary, error)

	// Save persists the itinerary if its stored version still equals
	// expectedVersion, bumping the version. Returns ErrVersionConflict
	// otherwise.
	Save(ctx context.Context, itinerary *entity.Itinerary, expectedVersion int64) error
}
