// Package emailtext turns raw email subject and body text into a single
// normalized plain-text string the booking parser can work on.
package emailtext

import (
	"regexp"
	"strings"
)

var (
	tagRe        = regexp.MustCompile(`<[^>]*>`)
	brRe         = regexp.MustCompile(`(?i)<br\s*/?>|</p>|</tr>|</div>|</li>`)
	numEntityRe  = regexp.MustCompile(`&#(\d{2,4});`)
	spaceRunRe   = regexp.MustCompile(`[ \t]+`)
	blankRunRe   = regexp.MustCompile(`\n{3,}`)
	quoteHeadRe  = regexp.MustCompile(`(?i)^on .{5,120} wrote:\s*$`)
	quoteMarkers = []string{">", "|", "-----Original Message-----", "________________________________"}
)

// Normalize combines subject and body into one plain-text block. HTML tags
// are stripped conservatively (only the tags, never their content), common
// entities are decoded, quoted-reply lines are dropped and whitespace runs
// collapse, while line breaks separating logical fields survive. Always
// returns a string, possibly empty.
func Normalize(subject, body string) string {
	text := strings.TrimSpace(subject)
	if text != "" && body != "" {
		text += "\n"
	}
	text += body

	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	// Closing block tags double as line breaks before tags are removed,
	// otherwise table cells run together.
	text = brRe.ReplaceAllString(text, "\n")
	text = tagRe.ReplaceAllString(text, " ")
	text = decodeEntities(text)

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = spaceRunRe.ReplaceAllString(line, " ")
		line = strings.TrimSpace(line)
		if isQuotedReply(line) {
			continue
		}
		lines = append(lines, line)
	}

	text = strings.Join(lines, "\n")
	text = blankRunRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

func decodeEntities(text string) string {
	text = strings.ReplaceAll(text, "&nbsp;", " ")
	text = strings.ReplaceAll(text, "&amp;", "&")
	text = strings.ReplaceAll(text, "&lt;", "<")
	text = strings.ReplaceAll(text, "&gt;", ">")
	text = strings.ReplaceAll(text, "&#39;", "'")
	text = strings.ReplaceAll(text, "&quot;", "\"")
	text = numEntityRe.ReplaceAllString(text, " ")
	return text
}

func isQuotedReply(line string) bool {
	if line == "" {
		return false
	}
	for _, marker := range quoteMarkers {
		if strings.HasPrefix(line, marker) {
			return true
		}
	}
	return quoteHeadRe.MatchString(line)
}
