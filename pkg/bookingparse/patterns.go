package bookingparse

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

const confirmationLabel = `(?i)(?:confirmation(?:\s+(?:number|code|no\.?|#))?|booking\s+ref(?:erence)?|reservation\s*(?:number|code|#)?|record\s+locator|PNR|itinerary\s+(?:number|#))`

// Shared pattern library. Every date match is normalized to ISO-8601 and
// every time match to 24-hour form immediately, so downstream code only
// ever sees canonical strings.
var (
	isoDateRe   = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	dayFirstRe  = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\s+(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.?,?\s+(\d{4})\b`)
	monthFirstRe = regexp.MustCompile(`(?i)\b(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.?\s+(\d{1,2})(?:st|nd|rd|th)?,?\s+(\d{4})\b`)
	slashDateRe = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`)

	time12Re = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\s*([AaPp])\.?[Mm]\.?\b`)
	time24Re = regexp.MustCompile(`\b([01]?\d|2[0-3]):([0-5]\d)\b`)

	currencySymbolRe = regexp.MustCompile(`([$€£¥])\s?(\d+(?:,\d{3})*(?:\.\d{1,2})?)`)
	currencyCodeRe   = regexp.MustCompile(`\b(USD|EUR|GBP|CAD|AUD|JPY|IDR|SGD|CHF|MXN)\s?(\d+(?:,\d{3})*(?:\.\d{1,2})?)\b`)
	codeAfterRe      = regexp.MustCompile(`\b(\d+(?:,\d{3})*(?:\.\d{1,2})?)\s?(USD|EUR|GBP|CAD|AUD|JPY|IDR|SGD|CHF|MXN)\b`)
	bareAmountRe     = regexp.MustCompile(`(?i)\b(\d+(?:,\d{3})*\.\d{2})\b(?:\s*(?:per night|/night|total|/day))?`)

	// An explicit separator ("Confirmation: XK92PL") outranks a bare
	// labelled code, so "flight confirmation AC1234" in a subject line
	// cannot shadow the real code in the body.
	confirmationRe      = regexp.MustCompile(confirmationLabel + `\s*[:#]\s*([A-Z0-9]{5,10})\b`)
	confirmationLooseRe = regexp.MustCompile(confirmationLabel + `\s+([A-Z0-9]{5,10})\b`)

	routeRe        = regexp.MustCompile(`(?i)\bfrom\s+([A-Z]{3})\b(?:.{0,40}?)\bto\s+([A-Z]{3})\b`)
	labelledLocRe  = regexp.MustCompile(`(?i)(?:address|location|destination|property|venue|meeting point|pick-?up(?: location)?)\s*[:\-]\s*([^\n,.;]{3,80})`)
	flightNumberRe = regexp.MustCompile(`\b([A-Z]{2}\s?\d{2,4})\b`)

	checkInRe  = regexp.MustCompile(`(?i)check[ -]?in\s*(?:date)?\s*[:\-]?\s*`)
	checkOutRe = regexp.MustCompile(`(?i)check[ -]?out\s*(?:date)?\s*[:\-]?\s*`)

	monthNumbers = map[string]int{
		"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
		"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
	}
)

type dateMatch struct {
	iso string
	pos int
}

// findDates returns every recognizable date in the text as ISO-8601, in
// order of appearance, de-duplicated.
func findDates(text string) []dateMatch {
	var out []dateMatch

	for _, m := range isoDateRe.FindAllStringSubmatchIndex(text, -1) {
		iso := text[m[0]:m[1]]
		out = append(out, dateMatch{iso: iso, pos: m[0]})
	}
	for _, m := range dayFirstRe.FindAllStringSubmatchIndex(text, -1) {
		day, _ := strconv.Atoi(text[m[2]:m[3]])
		month := monthNumbers[strings.ToLower(text[m[4]:m[5]])]
		year, _ := strconv.Atoi(text[m[6]:m[7]])
		out = append(out, dateMatch{iso: isoDate(year, month, day), pos: m[0]})
	}
	for _, m := range monthFirstRe.FindAllStringSubmatchIndex(text, -1) {
		month := monthNumbers[strings.ToLower(text[m[2]:m[3]])]
		day, _ := strconv.Atoi(text[m[4]:m[5]])
		year, _ := strconv.Atoi(text[m[6]:m[7]])
		out = append(out, dateMatch{iso: isoDate(year, month, day), pos: m[0]})
	}
	for _, m := range slashDateRe.FindAllStringSubmatchIndex(text, -1) {
		first, _ := strconv.Atoi(text[m[2]:m[3]])
		second, _ := strconv.Atoi(text[m[4]:m[5]])
		year, _ := strconv.Atoi(text[m[6]:m[7]])
		// Month/day by default, swapped when the first number cannot be
		// a month.
		month, day := first, second
		if first > 12 && second <= 12 {
			month, day = second, first
		}
		if month > 12 || day > 31 {
			continue
		}
		out = append(out, dateMatch{iso: isoDate(year, month, day), pos: m[0]})
	}

	sortByPos(out)
	return dedupDates(out)
}

func isoDate(year, month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

func sortByPos(matches []dateMatch) {
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].pos < matches[j].pos
	})
}

func dedupDates(matches []dateMatch) []dateMatch {
	seen := make(map[string]bool, len(matches))
	var out []dateMatch
	for _, m := range matches {
		if seen[m.iso] {
			continue
		}
		seen[m.iso] = true
		out = append(out, m)
	}
	return out
}

type timeMatch struct {
	hhmm string
	pos  int
}

// findTimes returns every clock time in the text normalized to 24-hour
// "15:04" form, in order of appearance, de-duplicated.
func findTimes(text string) []timeMatch {
	var out []timeMatch
	covered := make(map[int]bool)

	for _, m := range time12Re.FindAllStringSubmatchIndex(text, -1) {
		hour, _ := strconv.Atoi(text[m[2]:m[3]])
		minute, _ := strconv.Atoi(text[m[4]:m[5]])
		meridiem := strings.ToLower(text[m[6]:m[7]])
		if hour < 1 || hour > 12 {
			continue
		}
		if meridiem == "p" && hour != 12 {
			hour += 12
		}
		if meridiem == "a" && hour == 12 {
			hour = 0
		}
		out = append(out, timeMatch{hhmm: fmt.Sprintf("%02d:%02d", hour, minute), pos: m[0]})
		covered[m[0]] = true
	}
	for _, m := range time24Re.FindAllStringSubmatchIndex(text, -1) {
		if covered[m[0]] {
			continue
		}
		hour, _ := strconv.Atoi(text[m[2]:m[3]])
		minute, _ := strconv.Atoi(text[m[4]:m[5]])
		out = append(out, timeMatch{hhmm: fmt.Sprintf("%02d:%02d", hour, minute), pos: m[0]})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].pos < out[j].pos })

	seen := make(map[string]bool, len(out))
	var dedup []timeMatch
	for _, m := range out {
		if seen[m.hhmm] {
			continue
		}
		seen[m.hhmm] = true
		dedup = append(dedup, m)
	}
	return dedup
}

var symbolCurrencies = map[string]string{
	"$": "USD",
	"€": "EUR",
	"£": "GBP",
	"¥": "JPY",
}

// findPrice returns the first price in the text. Currency is "" when only
// a bare amount with no symbol or code was found.
func findPrice(text string) (amount, currency string, ok bool) {
	if m := currencySymbolRe.FindStringSubmatch(text); m != nil {
		return cleanAmount(m[2]), symbolCurrencies[m[1]], true
	}
	if m := currencyCodeRe.FindStringSubmatch(text); m != nil {
		return cleanAmount(m[2]), m[1], true
	}
	if m := codeAfterRe.FindStringSubmatch(text); m != nil {
		return cleanAmount(m[1]), m[2], true
	}
	if m := bareAmountRe.FindStringSubmatch(text); m != nil {
		return cleanAmount(m[1]), "", true
	}
	return "", "", false
}

func cleanAmount(raw string) string {
	return strings.ReplaceAll(raw, ",", "")
}

// lineAround returns the full trimmed line containing byte offset pos.
func lineAround(text string, pos int) string {
	if pos < 0 || pos >= len(text) {
		return ""
	}
	start := strings.LastIndexByte(text[:pos], '\n') + 1
	end := strings.IndexByte(text[pos:], '\n')
	if end == -1 {
		end = len(text)
	} else {
		end += pos
	}
	return strings.TrimSpace(text[start:end])
}
