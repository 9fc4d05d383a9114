package entity

// Category identifies the kind of travel reservation a parsed email describes
type Category string

const (
	CategoryFlight    Category = "flight"
	CategoryLodging   Category = "lodging"
	CategoryCarRental Category = "car-rental"
	CategoryActivity  Category = "activity"
	CategoryTransport Category = "transport"
	CategoryUnknown   Category = "unknown"
)

// MergeRank orders same-day events: a flight departure sorts before the
// lodging check-in on the same date.
func (c Category) MergeRank() int {
	switch c {
	case CategoryFlight:
		return 0
	case CategoryTransport:
		return 1
	case CategoryCarRental:
		return 2
	case CategoryActivity:
		return 3
	case CategoryLodging:
		return 4
	default:
		return 5
	}
}

// Coordinates is a resolved latitude/longitude pair
type Coordinates struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lng float64 `json:"lng" bson:"lng"`
}

// Price is a decimal amount paired with its currency code. Currency is ""
// when the email carried an amount without any currency indicator; the
// booking is then flagged low confidence.
type Price struct {
	Amount   float64 `json:"amount" bson:"amount"`
	Currency string  `json:"currency" bson:"currency"`
}

// Booking is one parsed unit of travel information extracted from a single
// email. Bookings are transient: they live only for the duration of a
// parse-and-merge request and are folded into an ItineraryEvent or dropped.
//
// Dates are ISO-8601 date strings ("2006-01-02") and times are 24-hour
// clock strings ("15:04"). They are kept as strings so that re-rendering a
// normalized value never introduces timezone drift.
type Booking struct {
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
	LowConfidence    bool         `json:"lowConfidence,omitempty" bson:"lowConfidence,omitempty"`
	SourceExcerpt    string       `json:"sourceExcerpt,omitempty" bson:"sourceExcerpt,omitempty"`
}

// HasAnchorField reports whether the booking carries at least one of the
// fields that make a classified booking usable (date, location or
// confirmation code).
func (b *Booking) HasAnchorField() bool {
	return b.StartDate != "" || b.Location != "" || b.ConfirmationCode != ""
}
