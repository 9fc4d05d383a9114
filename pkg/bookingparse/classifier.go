package bookingparse

import (
	"regexp"

	"tripfolio-service/internal/domain/entity"
)

// DefaultThreshold is the minimum score a category must clear before the
// classifier commits to it. Below this everything is unknown.
const DefaultThreshold = 0.3

// coOccurrenceBoost rewards text where distinct marker types show up
// together (a recognizable date plus a recognizable location), which is a
// much stronger booking signal than keywords alone.
const coOccurrenceBoost = 1.2

type marker struct {
	pattern *regexp.Regexp
	weight  float64
}

// Marker tables are declarative data: adding a category or a marker is an
// edit here, not new control flow.
var categoryMarkers = map[entity.Category][]marker{
	entity.CategoryFlight: {
		{regexp.MustCompile(`(?i)\bflights?\b`), 3},
		{regexp.MustCompile(`(?i)boarding pass`), 3},
		{regexp.MustCompile(`(?i)\bdepartures?\b`), 2},
		{regexp.MustCompile(`(?i)\bairlines?\b|\bairport\b`), 2},
		{regexp.MustCompile(`(?i)\be-?ticket\b`), 2},
		{regexp.MustCompile(`(?i)\bgate\b`), 1},
		{regexp.MustCompile(`(?i)\barriv(?:al|es)\b`), 1},
	},
	entity.CategoryLodging: {
		{regexp.MustCompile(`(?i)\bhotels?\b|\bhostel\b|\bresort\b`), 3},
		{regexp.MustCompile(`(?i)check[ -]?in`), 3},
		{regexp.MustCompile(`(?i)check[ -]?out`), 2},
		{regexp.MustCompile(`(?i)\bnights?\b`), 2},
		{regexp.MustCompile(`(?i)\breservation\b`), 2},
		{regexp.MustCompile(`(?i)\brooms?\b`), 1},
		{regexp.MustCompile(`(?i)\bguests?\b`), 1},
	},
	entity.CategoryCarRental: {
		{regexp.MustCompile(`(?i)car rental|rental car|rent-?a-?car`), 4},
		{regexp.MustCompile(`(?i)\bpick-?up\b`), 2},
		{regexp.MustCompile(`(?i)\bdrop-?off\b`), 2},
		{regexp.MustCompile(`(?i)\bvehicle\b`), 2},
		{regexp.MustCompile(`(?i)\brental\b`), 2},
		{regexp.MustCompile(`(?i)\bdrivers?\b`), 1},
	},
	entity.CategoryActivity: {
		{regexp.MustCompile(`(?i)\btours?\b|\bexcursion\b`), 3},
		{regexp.MustCompile(`(?i)\bactivity\b|\bactivities\b`), 3},
		{regexp.MustCompile(`(?i)\badmission\b`), 2},
		{regexp.MustCompile(`(?i)\btickets?\b`), 2},
		{regexp.MustCompile(`(?i)\bmuseum\b`), 2},
		{regexp.MustCompile(`(?i)\bexperience\b`), 1},
	},
	entity.CategoryTransport: {
		{regexp.MustCompile(`(?i)\btrain\b|\brail\b`), 3},
		{regexp.MustCompile(`(?i)\bferry\b`), 3},
		{regexp.MustCompile(`(?i)\btransfer\b`), 2},
		{regexp.MustCompile(`(?i)\bshuttle\b`), 2},
		{regexp.MustCompile(`(?i)\bbus\b|\bcoach\b`), 2},
		{regexp.MustCompile(`(?i)\bplatform\b`), 1},
	},
}

// Classify scores normalized text against every category's marker table
// and returns the best match, or unknown when nothing clears the
// threshold. An exact tie between the top two categories also yields
// unknown: surfacing "not detected" beats a silent misclassification.
func Classify(text string, threshold float64) Classification {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	boost := 1.0
	if len(findDates(text)) > 0 && hasLocationSignal(text) {
		boost = coOccurrenceBoost
	}

	best := Classification{Category: entity.CategoryUnknown}
	var second float64

	for category, markers := range categoryMarkers {
		var matched, total float64
		for _, m := range markers {
			total += m.weight
			if m.pattern.MatchString(text) {
				matched += m.weight
			}
		}
		score := matched / total * boost
		if score > 1 {
			score = 1
		}
		if score > best.Score {
			second = best.Score
			best = Classification{Category: category, Score: score}
		} else if score > second {
			second = score
		}
	}

	if best.Score < threshold {
		return Classification{Category: entity.CategoryUnknown, Score: best.Score}
	}
	if best.Score == second {
		return Classification{Category: entity.CategoryUnknown, Score: best.Score}
	}
	return best
}

func hasLocationSignal(text string) bool {
	return routeRe.MatchString(text) || labelledLocRe.MatchString(text)
}
