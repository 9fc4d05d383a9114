package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"tripfolio-service/internal/domain/entity"
	"tripfolio-service/internal/domain/repository"
	"tripfolio-service/pkg/logger"
)

// HTTPGeocodeRepository resolves free-text locations against a
// Google-style geocoding endpoint
type HTTPGeocodeRepository struct {
	endpoint string
	apiKey   string
	client   *http.Client
	logger   logger.Logger
}

// NewHTTPGeocodeRepository creates a new geocode repository. An empty
// apiKey disables lookups; Resolve then always reports not found.
func NewHTTPGeocodeRepository(endpoint, apiKey string, logger logger.Logger) repository.GeocodeRepository {
	return &HTTPGeocodeRepository{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 10 * time.Second},
		logger:   logger,
	}
}

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Resolve looks up a location string and returns its coordinates
func (r *HTTPGeocodeRepository) Resolve(ctx context.Context, locationText string) (*entity.Coordinates, error) {
	if r.apiKey == "" || locationText == "" {
		return nil, repository.ErrLocationNotFound
	}

	reqURL := fmt.Sprintf("%s?address=%s&key=%s",
		r.endpoint, url.QueryEscape(locationText), r.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create geocode request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocode service returned status %d", resp.StatusCode)
	}

	var data geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode geocode response: %w", err)
	}

	if data.Status != "OK" || len(data.Results) == 0 {
		r.logger.Debug("No geocode result", "location", locationText, "status", data.Status)
		return nil, repository.ErrLocationNotFound
	}

	loc := data.Results[0].Geometry.Location
	return &entity.Coordinates{Lat: loc.Lat, Lng: loc.Lng}, nil
}
