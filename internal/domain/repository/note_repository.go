package repository

import (
	"context"

	"tripfolio-service/internal/domain/entity"
)

// NoteRepository defines the interface for trip note persistence
type NoteRepository interface {
	Save(ctx context.Context, note *entity.TripNote) error
	ListByTripID(ctx context.Context, tripID string) ([]*entity.TripNote, error)
	Delete(ctx context.Context, tripID, noteID string) error
}
