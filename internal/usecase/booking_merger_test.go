package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripfolio-service/internal/domain/entity"
	"tripfolio-service/internal/domain/repository"
	"tripfolio-service/pkg/logger"
)

// fakeItineraryRepo is an in-memory stand-in that can fail the next N
// saves with a version conflict.
type fakeItineraryRepo struct {
	itinerary *entity.Itinerary
	conflicts int
	saves     int
}

func (f *fakeItineraryRepo) GetByTripID(_ context.Context, tripID string) (*entity.Itinerary, error) {
	if f.itinerary == nil {
		return &entity.Itinerary{TripID: tripID}, nil
	}
	snapshot := *f.itinerary
	snapshot.Events = append([]entity.ItineraryEvent{}, f.itinerary.Events...)
	return &snapshot, nil
}

func (f *fakeItineraryRepo) Save(_ context.Context, itinerary *entity.Itinerary, expectedVersion int64) error {
	f.saves++
	if f.conflicts > 0 {
		f.conflicts--
		return repository.ErrVersionConflict
	}
	itinerary.Version = expectedVersion + 1
	f.itinerary = itinerary
	return nil
}

type fakePlaceRepo struct {
	places map[string]*entity.Place
}

func (f *fakePlaceRepo) GetByCode(_ context.Context, code string) (*entity.Place, error) {
	if p, ok := f.places[code]; ok {
		return p, nil
	}
	return nil, repository.ErrLocationNotFound
}

func (f *fakePlaceRepo) SearchByName(_ context.Context, _ string) (*entity.Place, error) {
	return nil, repository.ErrLocationNotFound
}

type fakeGeocodeRepo struct {
	coords map[string]*entity.Coordinates
	calls  int
}

func (f *fakeGeocodeRepo) Resolve(_ context.Context, locationText string) (*entity.Coordinates, error) {
	f.calls++
	if c, ok := f.coords[locationText]; ok {
		return c, nil
	}
	return nil, repository.ErrLocationNotFound
}

func newTestMerger(repo *fakeItineraryRepo, placeRepo repository.PlaceRepository, geocodeRepo repository.GeocodeRepository) *BookingMerger {
	log := logger.NewNopLogger()
	return NewBookingMerger(repo, placeRepo, geocodeRepo, NewItineraryAggregator(log), nil, log)
}

func TestMergerInsertsBooking(t *testing.T) {
	repo := &fakeItineraryRepo{}
	merger := newTestMerger(repo, nil, nil)

	itinerary, inserted, err := merger.Merge(context.Background(), "trip-1", flightBooking())

	require.NoError(t, err)
	assert.True(t, inserted)
	require.Len(t, itinerary.Events, 1)
	assert.Equal(t, int64(1), itinerary.Version)
}

func TestMergerDuplicateLeavesItineraryUnchanged(t *testing.T) {
	repo := &fakeItineraryRepo{}
	merger := newTestMerger(repo, nil, nil)

	_, _, err := merger.Merge(context.Background(), "trip-1", flightBooking())
	require.NoError(t, err)
	savesAfterFirst := repo.saves

	itinerary, inserted, err := merger.Merge(context.Background(), "trip-1", flightBooking())

	require.NoError(t, err)
	assert.False(t, inserted)
	assert.Len(t, itinerary.Events, 1)
	// A duplicate must not touch the store at all.
	assert.Equal(t, savesAfterFirst, repo.saves)
}

func TestMergerRetriesOnVersionConflict(t *testing.T) {
	repo := &fakeItineraryRepo{conflicts: 2}
	merger := newTestMerger(repo, nil, nil)

	itinerary, inserted, err := merger.Merge(context.Background(), "trip-1", flightBooking())

	require.NoError(t, err)
	assert.True(t, inserted)
	assert.Equal(t, 3, repo.saves)
	assert.Len(t, itinerary.Events, 1)
}

func TestMergerGivesUpAfterMaxRetries(t *testing.T) {
	repo := &fakeItineraryRepo{conflicts: 10}
	merger := newTestMerger(repo, nil, nil)

	_, _, err := merger.Merge(context.Background(), "trip-1", flightBooking())

	assert.ErrorIs(t, err, repository.ErrVersionConflict)
}

func TestMergerEnrichesFromPlaceCode(t *testing.T) {
	repo := &fakeItineraryRepo{}
	places := &fakePlaceRepo{places: map[string]*entity.Place{
		"YUL": {Code: "YUL", Name: "Montreal-Trudeau", Lat: 45.47, Lng: -73.74},
	}}
	geocoder := &fakeGeocodeRepo{}
	merger := newTestMerger(repo, places, geocoder)

	itinerary, _, err := merger.Merge(context.Background(), "trip-1", flightBooking())

	require.NoError(t, err)
	require.NotNil(t, itinerary.Events[0].Coordinates)
	assert.InDelta(t, 45.47, itinerary.Events[0].Coordinates.Lat, 0.001)
	// The known code resolved locally; no geocoder round trip.
	assert.Zero(t, geocoder.calls)
}

func TestMergerFallsBackToGeocoder(t *testing.T) {
	repo := &fakeItineraryRepo{}
	geocoder := &fakeGeocodeRepo{coords: map[string]*entity.Coordinates{
		"5 Ocean Drive": {Lat: 25.77, Lng: -80.13},
	}}
	merger := newTestMerger(repo, nil, geocoder)

	booking := &entity.Booking{
		Category:  entity.CategoryLodging,
		Title:     "Sunrise Hotel",
		StartDate: "2025-07-10",
		Location:  "5 Ocean Drive",
	}
	itinerary, _, err := merger.Merge(context.Background(), "trip-1", booking)

	require.NoError(t, err)
	require.NotNil(t, itinerary.Events[0].Coordinates)
	assert.InDelta(t, -80.13, itinerary.Events[0].Coordinates.Lng, 0.001)
}

func TestMergerGeocodeFailureIsNotFatal(t *testing.T) {
	repo := &fakeItineraryRepo{}
	merger := newTestMerger(repo, nil, &fakeGeocodeRepo{})

	booking := &entity.Booking{
		Category:  entity.CategoryActivity,
		Title:     "City tour",
		StartDate: "2025-08-03",
		Location:  "somewhere unrecognizable",
	}
	itinerary, inserted, err := merger.Merge(context.Background(), "trip-1", booking)

	require.NoError(t, err)
	assert.True(t, inserted)
	assert.Nil(t, itinerary.Events[0].Coordinates)
}
