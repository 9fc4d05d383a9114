package entity

import "time"

// TripNote is a user note attached to a trip. Notes are durable rows in
// the store, never an in-process list, so every instance of the service
// sees the same set.
type TripNote struct {
	ID        string    `json:"id" bson:"_id"`
	TripID    string    `json:"tripId" bson:"tripId"`
	AuthorID  string    `json:"authorId" bson:"authorId"`
	Text      string    `json:"text" bson:"text"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}
