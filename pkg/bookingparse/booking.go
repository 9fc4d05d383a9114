package bookingparse

import (
	"strconv"
	"strings"
	"time"

	"tripfolio-service/internal/domain/entity"
)

// expectedFields is how many fields a fully-extracted booking of each
// category carries; the populated/expected ratio drives the confidence
// recomputation.
var expectedFields = map[entity.Category]int{
	entity.CategoryFlight:    4, // startDate, startTime, location, confirmationCode
	entity.CategoryLodging:   5, // startDate, endDate, location, confirmationCode, price
	entity.CategoryCarRental: 4, // startDate, endDate, location, confirmationCode
	entity.CategoryActivity:  3, // startDate, startTime, location
	entity.CategoryTransport: 3, // startDate, startTime, location
}

// minRequiredFields is the floor under which a booking is still returned
// but flagged low confidence so the caller can ask the user to confirm.
var minRequiredFields = map[entity.Category]int{
	entity.CategoryFlight:    2,
	entity.CategoryLodging:   2,
	entity.CategoryCarRental: 2,
	entity.CategoryActivity:  1,
	entity.CategoryTransport: 1,
}

// unresolvedCurrencyPenalty scales confidence down when a price amount was
// found without any currency indicator.
const unresolvedCurrencyPenalty = 0.85

// BuildBooking coerces the raw field mapping into a typed Booking record.
// Fields that fail validation are dropped rather than aborting the whole
// booking; partial information is still useful to the trip owner. A
// classified extraction with zero usable fields degrades to unknown.
func BuildBooking(classification Classification, extraction Extraction) *entity.Booking {
	booking := &entity.Booking{
		Category:      classification.Category,
		SourceExcerpt: extraction.Excerpt,
	}

	fields := extraction.Fields
	populated := 0

	if d := validDate(fields[FieldStartDate]); d != "" {
		booking.StartDate = d
		populated++
	}
	if d := validDate(fields[FieldEndDate]); d != "" {
		booking.EndDate = d
	}
	if t := validTime(fields[FieldStartTime]); t != "" {
		booking.StartTime = t
		populated++
	}
	if t := validTime(fields[FieldEndTime]); t != "" {
		booking.EndTime = t
	}
	if loc := strings.TrimSpace(fields[FieldLocation]); loc != "" {
		booking.Location = loc
		populated++
	}
	if code := fields[FieldConfirmationCode]; code != "" {
		booking.ConfirmationCode = code
		populated++
	}

	currencyUnresolved := false
	if raw := fields[FieldPriceAmount]; raw != "" {
		if amount, err := strconv.ParseFloat(raw, 64); err == nil && amount > 0 {
			booking.Price = &entity.Price{
				Amount:   amount,
				Currency: fields[FieldPriceCurrency],
			}
			currencyUnresolved = booking.Price.Currency == ""
			populated++
		}
	}

	// Category-dependent counting: lodging's endDate and flight's endTime
	// count toward the expected set only where the category expects them.
	switch classification.Category {
	case entity.CategoryLodging, entity.CategoryCarRental:
		if booking.EndDate != "" {
			populated++
		}
	}

	expected := expectedFields[classification.Category]
	if expected == 0 {
		expected = 3
	}

	if populated == 0 || !booking.HasAnchorField() {
		booking.Category = entity.CategoryUnknown
		booking.Confidence = 0
		booking.Title = titleFor(booking, fields)
		return booking
	}

	ratio := float64(populated) / float64(expected)
	if ratio > 1 {
		ratio = 1
	}
	confidence := 0.5*classification.Score + 0.5*ratio
	if currencyUnresolved {
		confidence *= unresolvedCurrencyPenalty
	}
	if confidence > 1 {
		confidence = 1
	}
	booking.Confidence = confidence
	booking.LowConfidence = populated < minRequiredFields[classification.Category] || currencyUnresolved
	booking.Title = titleFor(booking, fields)
	return booking
}

func titleFor(booking *entity.Booking, fields map[string]string) string {
	if t := strings.TrimSpace(fields[FieldTitle]); t != "" {
		return t
	}
	if booking.Location != "" {
		return capitalize(string(booking.Category)) + " - " + booking.Location
	}
	return capitalize(string(booking.Category))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func validDate(raw string) string {
	if raw == "" {
		return ""
	}
	if _, err := time.Parse("2006-01-02", raw); err != nil {
		return ""
	}
	return raw
}

func validTime(raw string) string {
	if raw == "" {
		return ""
	}
	if _, err := time.Parse("15:04", raw); err != nil {
		return ""
	}
	return raw
}
