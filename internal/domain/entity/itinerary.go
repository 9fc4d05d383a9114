package entity

import "time"

// ItineraryEvent is a persisted, trip-scoped record derived from a Booking
// at merge time. A trip exclusively owns its events.
type ItineraryEvent struct {
	ID               string       `json:"id" bson:"id"`
	TripID           string       `json:"tripId" bson:"tripId"`
	Order            int          `json:"order" bson:"order"`
	Category         Category     `json:"category" bson:"category"`
	Title            string       `json:"title" bson:"title"`
	StartDate        string       `json:"startDate,omitempty" bson:"startDate,omitempty"`
	EndDate          string       `json:"endDate,omitempty" bson:"endDate,omitempty"`
	StartTime        string       `json:"startTime,omitempty" bson:"startTime,omitempty"`
	EndTime          string       `json:"endTime,omitempty" bson:"endTime,omitempty"`
	Location         string       `json:"location,omitempty" bson:"location,omitempty"`
	Coordinates      *Coordinates `json:"coordinates,omitempty" bson:"coordinates,omitempty"`
	ConfirmationCode string       `json:"confirmationCode,omitempty" bson:"confirmationCode,omitempty"`
	Price            *Price       `json:"price,omitempty" bson:"price,omitempty"`
	Confidence       float64      `json:"confidence" bson:"confidence"`
	SourceExcerpt    string       `json:"sourceExcerpt,omitempty" bson:"sourceExcerpt,omitempty"`
	CreatedAt        time.Time    `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time    `json:"updatedAt" bson:"updatedAt"`
}

// Itinerary is the ordered event list for one trip. Version is bumped on
// every save; a save with a stale expected version is rejected so that
// concurrent merges against the same trip serialize at the store.
type Itinerary struct {
	TripID    string           `json:"tripId" bson:"tripId"`
	Events    []ItineraryEvent `json:"events" bson:"events"`
	Version   int64            `json:"version" bson:"version"`
	UpdatedAt time.Time        `json:"updatedAt" bson:"updatedAt"`
}
