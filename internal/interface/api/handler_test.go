package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripfolio-service/internal/domain/entity"
	"tripfolio-service/internal/usecase"
	"tripfolio-service/pkg/logger"
)

type memItineraryRepo struct {
	itineraries map[string]*entity.Itinerary
}

func (m *memItineraryRepo) GetByTripID(_ context.Context, tripID string) (*entity.Itinerary, error) {
	if it, ok := m.itineraries[tripID]; ok {
		return it, nil
	}
	return &entity.Itinerary{TripID: tripID}, nil
}

func (m *memItineraryRepo) Save(_ context.Context, itinerary *entity.Itinerary, expectedVersion int64) error {
	itinerary.Version = expectedVersion + 1
	m.itineraries[itinerary.TripID] = itinerary
	return nil
}

type memNoteRepo struct {
	notes []*entity.TripNote
}

func (m *memNoteRepo) Save(_ context.Context, note *entity.TripNote) error {
	if note.ID == "" {
		note.ID = fmt.Sprintf("note-%d", len(m.notes)+1)
	}
	m.notes = append(m.notes, note)
	return nil
}

func (m *memNoteRepo) ListByTripID(_ context.Context, tripID string) ([]*entity.TripNote, error) {
	var out []*entity.TripNote
	for _, n := range m.notes {
		if n.TripID == tripID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *memNoteRepo) Delete(_ context.Context, tripID, noteID string) error {
	for i, n := range m.notes {
		if n.TripID == tripID && n.ID == noteID {
			m.notes = append(m.notes[:i], m.notes[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("note %s not found", noteID)
}

func newTestRouter() (*gin.Engine, *memItineraryRepo, *memNoteRepo) {
	gin.SetMode(gin.TestMode)
	log := logger.NewNopLogger()

	itineraryRepo := &memItineraryRepo{itineraries: make(map[string]*entity.Itinerary)}
	noteRepo := &memNoteRepo{}

	pipeline := usecase.NewParsePipeline(0, nil, log)
	merger := usecase.NewBookingMerger(itineraryRepo, nil, nil, usecase.NewItineraryAggregator(log), nil, log)
	handler := NewHandler(pipeline, merger, itineraryRepo, noteRepo, log)

	return SetupRoutes(handler), itineraryRepo, noteRepo
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestParseEmailEndpoint(t *testing.T) {
	router, repo, _ := newTestRouter()

	w := doJSON(router, http.MethodPost, "/api/v1/trips/trip-1/parse-email",
		`{"subject":"Your flight confirmation AC1234","body":"Departure: 2025-06-01 14:30 from YUL to SJU, Confirmation: XK92PL"}`)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success  bool           `json:"success"`
		Inserted bool           `json:"inserted"`
		Booking  entity.Booking `json:"booking"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.True(t, resp.Inserted)
	assert.Equal(t, entity.CategoryFlight, resp.Booking.Category)
	assert.Equal(t, "XK92PL", resp.Booking.ConfirmationCode)

	require.Len(t, repo.itineraries["trip-1"].Events, 1)
}

func TestParseEmailEndpointEmptyInput(t *testing.T) {
	router, _, _ := newTestRouter()

	w := doJSON(router, http.MethodPost, "/api/v1/trips/trip-1/parse-email",
		`{"subject":"","body":""}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "empty-input")
}

func TestParseEmailEndpointUnclassified(t *testing.T) {
	router, _, _ := newTestRouter()

	w := doJSON(router, http.MethodPost, "/api/v1/trips/trip-1/parse-email",
		`{"subject":"Lunch on Thursday?","body":"Does 12:30 at the usual place work?"}`)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool   `json:"success"`
		Reason  string `json:"reason"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "unclassified", resp.Reason)
}

func TestGetItineraryEndpoint(t *testing.T) {
	router, _, _ := newTestRouter()

	doJSON(router, http.MethodPost, "/api/v1/trips/trip-1/parse-email",
		`{"subject":"Your flight confirmation AC1234","body":"Departure: 2025-06-01 14:30 from YUL to SJU"}`)

	w := doJSON(router, http.MethodGet, "/api/v1/trips/trip-1/itinerary", "")

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success   bool             `json:"success"`
		Itinerary entity.Itinerary `json:"itinerary"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Len(t, resp.Itinerary.Events, 1)
	assert.Equal(t, int64(1), resp.Itinerary.Version)
}

func TestNotesEndpoints(t *testing.T) {
	router, _, noteRepo := newTestRouter()

	w := doJSON(router, http.MethodPost, "/api/v1/trips/trip-1/notes", `{"text":"Remember travel adapters"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, noteRepo.notes, 1)

	w = doJSON(router, http.MethodGet, "/api/v1/trips/trip-1/notes", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Remember travel adapters")

	w = doJSON(router, http.MethodDelete, "/api/v1/trips/trip-1/notes/"+noteRepo.notes[0].ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, noteRepo.notes)

	w = doJSON(router, http.MethodDelete, "/api/v1/trips/trip-1/notes/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNoteRequiresText(t *testing.T) {
	router, _, _ := newTestRouter()

	w := doJSON(router, http.MethodPost, "/api/v1/trips/trip-1/notes", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthEndpoint(t *testing.T) {
	router, _, _ := newTestRouter()

	w := doJSON(router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
}
