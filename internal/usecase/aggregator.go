package usecase

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"tripfolio-service/internal/domain/entity"
	"tripfolio-service/pkg/logger"
)

// dedupTimeTolerance is how far apart the time-of-day of two otherwise
// identical bookings may be while still counting as the same reservation.
// Re-parsing the same confirmation email must not create a second event.
const dedupTimeTolerance = 2 * time.Hour

// ItineraryAggregator merges parsed bookings into a trip's ordered event
// list. It holds no state between calls; persistence belongs to the
// caller.
type ItineraryAggregator struct {
	logger logger.Logger
}

// NewItineraryAggregator creates an aggregator
func NewItineraryAggregator(log logger.Logger) *ItineraryAggregator {
	return &ItineraryAggregator{logger: log}
}

// Merge folds a booking into the event sequence, returning the updated
// sequence and whether a new event was inserted. A booking whose dedup key
// collides with an existing event (within the time tolerance) leaves the
// sequence untouched.
func (a *ItineraryAggregator) Merge(tripID string, events []entity.ItineraryEvent, booking *entity.Booking) ([]entity.ItineraryEvent, bool) {
	for i := range events {
		if a.isDuplicate(&events[i], booking) {
			a.logger.Info("Duplicate booking skipped",
				"tripId", tripID,
				"category", booking.Category,
				"title", booking.Title)
			return events, false
		}
	}

	now := time.Now()
	event := entity.ItineraryEvent{
		ID:               uuid.NewString(),
		TripID:           tripID,
		Category:         booking.Category,
		Title:            booking.Title,
		StartDate:        booking.StartDate,
		EndDate:          booking.EndDate,
		StartTime:        booking.StartTime,
		EndTime:          booking.EndTime,
		Location:         booking.Location,
		Coordinates:      booking.Coordinates,
		ConfirmationCode: booking.ConfirmationCode,
		Price:            booking.Price,
		Confidence:       booking.Confidence,
		SourceExcerpt:    booking.SourceExcerpt,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	merged := append(append([]entity.ItineraryEvent{}, events...), event)
	sortEvents(merged)
	for i := range merged {
		merged[i].Order = i
	}

	a.logger.Info("Booking merged into itinerary",
		"tripId", tripID,
		"eventId", event.ID,
		"category", event.Category,
		"events", len(merged))
	return merged, true
}

// isDuplicate checks the dedup key (category, normalized title, startDate)
// with a small tolerance on the time-of-day fields.
func (a *ItineraryAggregator) isDuplicate(event *entity.ItineraryEvent, booking *entity.Booking) bool {
	if event.Category != booking.Category {
		return false
	}
	if normalizeTitle(event.Title) != normalizeTitle(booking.Title) {
		return false
	}
	if event.StartDate != booking.StartDate {
		return false
	}
	if event.StartTime == "" || booking.StartTime == "" {
		return true
	}
	existing, err1 := time.Parse("15:04", event.StartTime)
	incoming, err2 := time.Parse("15:04", booking.StartTime)
	if err1 != nil || err2 != nil {
		return true
	}
	diff := existing.Sub(incoming)
	if diff < 0 {
		diff = -diff
	}
	return diff <= dedupTimeTolerance
}

func normalizeTitle(title string) string {
	return strings.Join(strings.Fields(strings.ToLower(title)), " ")
}

// sortEvents orders chronologically by (date, time, category rank). ISO
// date and 24-hour time strings compare correctly as plain strings; events
// without a date sort last, keeping their relative order.
func sortEvents(events []entity.ItineraryEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		return eventLess(&events[i], &events[j])
	})
}

func eventLess(a, b *entity.ItineraryEvent) bool {
	if a.StartDate != b.StartDate {
		if a.StartDate == "" {
			return false
		}
		if b.StartDate == "" {
			return true
		}
		return a.StartDate < b.StartDate
	}
	if a.StartTime != b.StartTime {
		if a.StartTime == "" {
			return false
		}
		if b.StartTime == "" {
			return true
		}
		return a.StartTime < b.StartTime
	}
	return a.Category.MergeRank() < b.Category.MergeRank()
}
