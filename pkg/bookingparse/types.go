// Package bookingparse classifies normalized email text into a booking
// category and extracts the structured fields for that category.
package bookingparse

import "tripfolio-service/internal/domain/entity"

// Raw field keys produced by the extractor. Values are already in
// canonical form (ISO dates, 24-hour times) by the time they land here.
const (
	FieldTitle            = "title"
	FieldStartDate        = "startDate"
	FieldEndDate          = "endDate"
	FieldStartTime        = "startTime"
	FieldEndTime          = "endTime"
	FieldLocation         = "location"
	FieldConfirmationCode = "confirmationCode"
	FieldPriceAmount      = "priceAmount"
	FieldPriceCurrency    = "priceCurrency"
)

// Classification is the classifier verdict for one normalized text.
type Classification struct {
	Category entity.Category
	Score    float64
}

// Extraction is the raw field mapping pulled out of normalized text for a
// chosen category, plus the text span that triggered the highest-priority
// match (kept on the booking for auditability).
type Extraction struct {
	Fields  map[string]string
	Excerpt string
}

// Empty reports whether no field at all was extracted.
func (e Extraction) Empty() bool {
	return len(e.Fields) == 0
}
