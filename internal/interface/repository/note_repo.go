package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tripfolio-service/internal/domain/entity"
	"tripfolio-service/internal/domain/repository"
)

// MongoNoteRepository implements NoteRepository
type MongoNoteRepository struct {
	collection *mongo.Collection
}

// NewMongoNoteRepository creates a new trip note repository
func NewMongoNoteRepository(db *mongo.Database) repository.NoteRepository {
	collection := db.Collection("tripNotes")

	ctx := context.Background()
	tripIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "tripId", Value: 1},
			{Key: "createdAt", Value: -1},
		},
	}
	collection.Indexes().CreateOne(ctx, tripIndex)

	return &MongoNoteRepository{
		collection: collection,
	}
}

// Save stores a note, assigning an ID and timestamp for new notes
func (r *MongoNoteRepository) Save(ctx context.Context, note *entity.TripNote) error {
	if note.ID == "" {
		note.ID = uuid.NewString()
	}
	if note.CreatedAt.IsZero() {
		note.CreatedAt = time.Now()
	}

	_, err := r.collection.InsertOne(ctx, note)
	return err
}

// ListByTripID returns the trip's notes, newest first
func (r *MongoNoteRepository) ListByTripID(ctx context.Context, tripID string) ([]*entity.TripNote, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"tripId": tripID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var notes []*entity.TripNote
	if err := cursor.All(ctx, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// Delete removes a note scoped by trip
func (r *MongoNoteRepository) Delete(ctx context.Context, tripID, noteID string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": noteID, "tripId": tripID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("no note found with id: %s", noteID)
	}
	return nil
}
