package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"tripfolio-service/internal/domain/entity"
	"tripfolio-service/pkg/logger"
)

// bookingSubjectRe matches subjects that plausibly announce a travel
// reservation; anything else is left for other handlers or skipped.
var bookingSubjectRe = regexp.MustCompile(`(?i)confirm|reservation|booking|itinerary|e-?ticket|check[ -]?in`)

// BookingEmailHandler processes inbound booking-confirmation emails: parse
// into a Booking, merge into the trip's itinerary, record the outcome on
// the email row.
type BookingEmailHandler struct {
	pipeline *ParsePipeline
	merger   *BookingMerger
	logger   logger.Logger
}

// NewBookingEmailHandler creates a booking email handler
func NewBookingEmailHandler(pipeline *ParsePipeline, merger *BookingMerger, log logger.Logger) *BookingEmailHandler {
	return &BookingEmailHandler{
		pipeline: pipeline,
		merger:   merger,
		logger:   log,
	}
}

// CanHandle reports whether the subject looks like a booking confirmation
func (h *BookingEmailHandler) CanHandle(subject string) bool {
	return bookingSubjectRe.MatchString(subject)
}

// Process runs one inbound email through the pipeline and merges the
// result. Unclassified emails are not failures; they surface as a
// "no booking found" outcome in the email's extracted data.
func (h *BookingEmailHandler) Process(ctx context.Context, email *entity.InboundEmail) error {
	if email.TripID == "" {
		return fmt.Errorf("email %s has no trip tag", email.EmailID)
	}

	body := email.Body
	if email.HTMLBody != "" {
		body = email.HTMLBody
	}

	booking, err := h.pipeline.Run(email.Subject, body)
	if err != nil {
		if errors.Is(err, ErrUnclassified) || errors.Is(err, ErrEmptyInput) {
			h.logger.Info("No booking found in email",
				"emailID", email.EmailID,
				"reason", err.Error())
			email.ExtractedData = map[string]interface{}{"outcome": "no_booking"}
			return nil
		}
		return err
	}

	itinerary, inserted, err := h.merger.Merge(ctx, email.TripID, booking)
	if err != nil {
		return fmt.Errorf("failed to merge booking for trip %s: %w", email.TripID, err)
	}

	email.ExtractedData = map[string]interface{}{
		"category":   string(booking.Category),
		"confidence": booking.Confidence,
		"inserted":   inserted,
		"events":     len(itinerary.Events),
	}

	h.logger.Info("Booking email processed",
		"emailID", email.EmailID,
		"tripId", email.TripID,
		"category", booking.Category,
		"inserted", inserted)
	return nil
}
