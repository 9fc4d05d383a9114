package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tripfolio-service/internal/domain/entity"
	"tripfolio-service/internal/domain/repository"
)

// MongoItineraryRepository implements ItineraryRepository
type MongoItineraryRepository struct {
	collection *mongo.Collection
}

// NewMongoItineraryRepository creates a new itinerary repository
func NewMongoItineraryRepository(db *mongo.Database) repository.ItineraryRepository {
	collection := db.Collection("itineraries")

	// Unique index on tripId: one itinerary document per trip
	ctx := context.Background()
	indexModel := mongo.IndexModel{
		Keys:    bson.M{"tripId": 1},
		Options: options.Index().SetUnique(true),
	}
	collection.Indexes().CreateOne(ctx, indexModel)

	return &MongoItineraryRepository{
		collection: collection,
	}
}

// GetByTripID returns the trip's itinerary. A trip with no itinerary yet
// gets an empty version-0 itinerary; the first Save creates the document.
func (r *MongoItineraryRepository) GetByTripID(ctx context.Context, tripID string) (*entity.Itinerary, error) {
	var itinerary entity.Itinerary
	err := r.collection.FindOne(ctx, bson.M{"tripId": tripID}).Decode(&itinerary)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return &entity.Itinerary{TripID: tripID, Events: []entity.ItineraryEvent{}}, nil
		}
		return nil, err
	}
	return &itinerary, nil
}

// Save persists the itinerary only if the stored version still matches
// expectedVersion. Concurrent merges for the same trip serialize here:
// the loser gets ErrVersionConflict and must re-fetch.
func (r *MongoItineraryRepository) Save(ctx context.Context, itinerary *entity.Itinerary, expectedVersion int64) error {
	itinerary.Version = expectedVersion + 1
	itinerary.UpdatedAt = time.Now()

	if expectedVersion == 0 {
		// First write for this trip. The unique tripId index turns a
		// concurrent first write into a duplicate-key error.
		_, err := r.collection.InsertOne(ctx, itinerary)
		if mongo.IsDuplicateKeyError(err) {
			itinerary.Version = expectedVersion
			return repository.ErrVersionConflict
		}
		return err
	}

	filter := bson.M{"tripId": itinerary.TripID, "version": expectedVersion}
	result, err := r.collection.ReplaceOne(ctx, filter, itinerary)
	if err != nil {
		itinerary.Version = expectedVersion
		return err
	}
	if result.MatchedCount == 0 {
		itinerary.Version = expectedVersion
		return repository.ErrVersionConflict
	}
	return nil
}
