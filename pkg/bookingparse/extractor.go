package bookingparse

import (
	"regexp"
	"strings"

	"tripfolio-service/internal/domain/entity"
)

// Extract pulls the raw field mapping for a classified category out of
// normalized text. Every rule is best-effort: a field that does not match
// is omitted, never an error. The excerpt records the line behind the
// highest-priority match so a trip owner can see what the parser keyed on.
func Extract(text string, category entity.Category) Extraction {
	fields := make(map[string]string)
	excerpt := ""

	setExcerpt := func(pos int) {
		if excerpt == "" {
			excerpt = lineAround(text, pos)
		}
	}

	if m := confirmationRe.FindStringSubmatchIndex(text); m != nil {
		fields[FieldConfirmationCode] = text[m[2]:m[3]]
		setExcerpt(m[0])
	} else if m := confirmationLooseRe.FindStringSubmatchIndex(text); m != nil {
		fields[FieldConfirmationCode] = text[m[2]:m[3]]
		setExcerpt(m[0])
	}

	extractDates(text, category, fields, setExcerpt)

	times := findTimes(text)
	if len(times) > 0 {
		fields[FieldStartTime] = times[0].hhmm
		setExcerpt(times[0].pos)
	}
	if len(times) > 1 {
		fields[FieldEndTime] = times[1].hhmm
	}

	if amount, currency, ok := findPrice(text); ok {
		fields[FieldPriceAmount] = amount
		if currency != "" {
			fields[FieldPriceCurrency] = currency
		}
	}

	extractLocation(text, category, fields, setExcerpt)
	extractTitle(text, category, fields)

	return Extraction{Fields: fields, Excerpt: excerpt}
}

// extractDates assigns the first recognizable date to startDate and the
// second to endDate. Lodging emails prefer labelled check-in/check-out
// dates over positional order.
func extractDates(text string, category entity.Category, fields map[string]string, setExcerpt func(int)) {
	if category == entity.CategoryLodging {
		if d := labelledDate(text, checkInRe); d != nil {
			fields[FieldStartDate] = d.iso
			setExcerpt(d.pos)
		}
		if d := labelledDate(text, checkOutRe); d != nil {
			fields[FieldEndDate] = d.iso
		}
		if fields[FieldStartDate] != "" {
			return
		}
	}

	dates := findDates(text)
	if len(dates) > 0 {
		fields[FieldStartDate] = dates[0].iso
		setExcerpt(dates[0].pos)
	}
	if len(dates) > 1 && fields[FieldEndDate] == "" {
		fields[FieldEndDate] = dates[1].iso
	}
}

// labelledDate finds the first date that appears right after a label such
// as "Check-in:".
func labelledDate(text string, label *regexp.Regexp) *dateMatch {
	loc := label.FindStringIndex(text)
	if loc == nil {
		return nil
	}
	tail := text[loc[1]:]
	if end := strings.IndexByte(tail, '\n'); end != -1 {
		tail = tail[:end]
	}
	dates := findDates(tail)
	if len(dates) == 0 {
		return nil
	}
	return &dateMatch{iso: dates[0].iso, pos: loc[0]}
}

func extractLocation(text string, category entity.Category, fields map[string]string, setExcerpt func(int)) {
	if category == entity.CategoryFlight || category == entity.CategoryTransport {
		if m := routeRe.FindStringSubmatchIndex(text); m != nil {
			from := text[m[2]:m[3]]
			to := text[m[4]:m[5]]
			fields[FieldLocation] = from + " to " + to
			setExcerpt(m[0])
			return
		}
	}
	if m := labelledLocRe.FindStringSubmatchIndex(text); m != nil {
		fields[FieldLocation] = strings.TrimSpace(text[m[2]:m[3]])
		setExcerpt(m[0])
	}
}

func extractTitle(text string, category entity.Category, fields map[string]string) {
	if category == entity.CategoryFlight {
		if m := flightNumberRe.FindStringSubmatch(text); m != nil {
			fields[FieldTitle] = "Flight " + strings.ReplaceAll(m[1], " ", "")
			return
		}
	}
	// First non-empty line is usually the subject, which reads well as a
	// fallback label.
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			if len(line) > 80 {
				line = line[:80]
			}
			fields[FieldTitle] = line
			return
		}
	}
}
