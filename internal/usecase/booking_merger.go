package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"tripfolio-service/internal/domain/entity"
	"tripfolio-service/internal/domain/repository"
	"tripfolio-service/pkg/logger"
	"tripfolio-service/pkg/metrics"
)

// maxConflictRetries bounds how often a merge is replayed against a fresh
// itinerary snapshot before the conflict is surfaced as retryable.
const maxConflictRetries = 3

var placeCodeRe = regexp.MustCompile(`^([A-Z]{3})\b`)

// BookingMerger folds parsed bookings into persisted itineraries. On a
// version conflict only the merge step re-runs against a re-fetched
// snapshot; the parse result is reused as-is.
type BookingMerger struct {
	itineraryRepo repository.ItineraryRepository
	placeRepo     repository.PlaceRepository
	geocodeRepo   repository.GeocodeRepository
	aggregator    *ItineraryAggregator
	metrics       *metrics.Metrics
	logger        logger.Logger
}

// NewBookingMerger creates a booking merger. placeRepo and geocodeRepo may
// be nil; coordinate enrichment is then skipped.
func NewBookingMerger(
	itineraryRepo repository.ItineraryRepository,
	placeRepo repository.PlaceRepository,
	geocodeRepo repository.GeocodeRepository,
	aggregator *ItineraryAggregator,
	m *metrics.Metrics,
	log logger.Logger,
) *BookingMerger {
	return &BookingMerger{
		itineraryRepo: itineraryRepo,
		placeRepo:     placeRepo,
		geocodeRepo:   geocodeRepo,
		aggregator:    aggregator,
		metrics:       m,
		logger:        log,
	}
}

// Merge enriches the booking's coordinates and persists it into the
// trip's itinerary. Returns the saved itinerary and whether a new event
// was actually inserted (false when the dedup key collided).
func (m *BookingMerger) Merge(ctx context.Context, tripID string, booking *entity.Booking) (*entity.Itinerary, bool, error) {
	m.enrichCoordinates(ctx, booking)

	for attempt := 0; attempt <= maxConflictRetries; attempt++ {
		itinerary, err := m.itineraryRepo.GetByTripID(ctx, tripID)
		if err != nil {
			return nil, false, fmt.Errorf("failed to load itinerary for trip %s: %w", tripID, err)
		}

		merged, inserted := m.aggregator.Merge(tripID, itinerary.Events, booking)
		if !inserted {
			return itinerary, false, nil
		}

		itinerary.Events = merged
		err = m.itineraryRepo.Save(ctx, itinerary, itinerary.Version)
		if err == nil {
			if m.metrics != nil {
				m.metrics.BookingsMerged.Inc()
			}
			return itinerary, true, nil
		}
		if !errors.Is(err, repository.ErrVersionConflict) {
			return nil, false, fmt.Errorf("failed to save itinerary for trip %s: %w", tripID, err)
		}

		if m.metrics != nil {
			m.metrics.MergeConflicts.Inc()
		}
		m.logger.Warn("Itinerary version conflict, retrying merge",
			"tripId", tripID,
			"attempt", attempt+1)
	}

	return nil, false, repository.ErrVersionConflict
}

// enrichCoordinates resolves the booking location to a coordinate pair:
// known place codes first (no network hop), then the geocoder. Failures
// leave coordinates unset; they are never fatal.
func (m *BookingMerger) enrichCoordinates(ctx context.Context, booking *entity.Booking) {
	if booking.Coordinates != nil || booking.Location == "" {
		return
	}

	if m.placeRepo != nil {
		if code := placeCodeRe.FindString(strings.ToUpper(booking.Location)); code != "" {
			place, err := m.placeRepo.GetByCode(ctx, code)
			if err == nil && place != nil {
				booking.Coordinates = place.Coordinates()
				return
			}
		}
	}

	if m.geocodeRepo != nil {
		coords, err := m.geocodeRepo.Resolve(ctx, booking.Location)
		if err != nil {
			if !errors.Is(err, repository.ErrLocationNotFound) {
				m.logger.Warn("Geocoding failed", "location", booking.Location, "error", err)
			}
			return
		}
		booking.Coordinates = coords
	}
}
