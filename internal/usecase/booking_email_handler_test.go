package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripfolio-service/internal/domain/entity"
	"tripfolio-service/pkg/logger"
)

func newTestHandler(repo *fakeItineraryRepo) *BookingEmailHandler {
	log := logger.NewNopLogger()
	pipeline := NewParsePipeline(0, nil, log)
	merger := NewBookingMerger(repo, nil, nil, NewItineraryAggregator(log), nil, log)
	return NewBookingEmailHandler(pipeline, merger, log)
}

func TestBookingEmailHandlerCanHandle(t *testing.T) {
	h := newTestHandler(&fakeItineraryRepo{})

	tests := []struct {
		subject string
		want    bool
	}{
		{"Your flight confirmation AC1234", true},
		{"Hotel reservation for July", true},
		{"Booking reference QX83ZA", true},
		{"Your e-ticket is attached", true},
		{"Check-in opens tomorrow", true},
		{"Team lunch on Friday", false},
		{"Weekly newsletter", false},
	}

	for _, tt := range tests {
		t.Run(tt.subject, func(t *testing.T) {
			assert.Equal(t, tt.want, h.CanHandle(tt.subject))
		})
	}
}

func TestBookingEmailHandlerProcess(t *testing.T) {
	repo := &fakeItineraryRepo{}
	h := newTestHandler(repo)

	email := &entity.InboundEmail{
		EmailID: "msg-1",
		TripID:  "trip-1",
		Subject: "Your flight confirmation AC1234",
		Body:    "Departure: 2025-06-01 14:30 from YUL to SJU, Confirmation: XK92PL",
	}

	err := h.Process(context.Background(), email)

	require.NoError(t, err)
	assert.Equal(t, "flight", email.ExtractedData["category"])
	assert.Equal(t, true, email.ExtractedData["inserted"])
	require.NotNil(t, repo.itinerary)
	assert.Len(t, repo.itinerary.Events, 1)
}

func TestBookingEmailHandlerProcessNoBooking(t *testing.T) {
	h := newTestHandler(&fakeItineraryRepo{})

	email := &entity.InboundEmail{
		EmailID: "msg-2",
		TripID:  "trip-1",
		Subject: "Booking question",
		Body:    "Hi, quick question about parking options near you.",
	}

	// Unclassified is an outcome, not a failure.
	err := h.Process(context.Background(), email)

	require.NoError(t, err)
	assert.Equal(t, "no_booking", email.ExtractedData["outcome"])
}

func TestBookingEmailHandlerRequiresTripTag(t *testing.T) {
	h := newTestHandler(&fakeItineraryRepo{})

	email := &entity.InboundEmail{
		EmailID: "msg-3",
		Subject: "Your flight confirmation AC1234",
		Body:    "Departure: 2025-06-01 from YUL to SJU",
	}

	err := h.Process(context.Background(), email)
	assert.Error(t, err)
}

func TestBookingEmailHandlerPrefersHTMLBody(t *testing.T) {
	repo := &fakeItineraryRepo{}
	h := newTestHandler(repo)

	email := &entity.InboundEmail{
		EmailID:  "msg-4",
		TripID:   "trip-1",
		Subject:  "Hotel reservation",
		Body:     "",
		HTMLBody: "<p>Check-in: 2025-07-10</p><p>Check-out: 2025-07-12</p><p>Address: 5 Ocean Drive</p>",
	}

	err := h.Process(context.Background(), email)

	require.NoError(t, err)
	assert.Equal(t, "lodging", email.ExtractedData["category"])
}
