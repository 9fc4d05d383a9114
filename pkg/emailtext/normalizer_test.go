package emailtext

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		subject string
		body    string
		want    string
	}{
		{
			name:    "plain text passthrough",
			subject: "Your booking",
			body:    "Confirmation: ABC123",
			want:    "Your booking\nConfirmation: ABC123",
		},
		{
			name:    "empty subject and body",
			subject: "",
			body:    "",
			want:    "",
		},
		{
			name:    "subject only",
			subject: "  Itinerary update  ",
			body:    "",
			want:    "Itinerary update",
		},
		{
			name:    "html tags stripped content kept",
			subject: "",
			body:    "<html><body><p>Check-in: 2025-06-01</p><p>Room: Double</p></body></html>",
			want:    "Check-in: 2025-06-01\nRoom: Double",
		},
		{
			name:    "table cells do not run together",
			subject: "",
			body:    "<tr><td>Flight</td></tr><tr><td>AC1234</td></tr>",
			want:    "Flight\nAC1234",
		},
		{
			name:    "entities decoded",
			subject: "",
			body:    "Tom &amp; Jerry&nbsp;Tours &#8212; admission",
			want:    "Tom & Jerry Tours admission",
		},
		{
			name:    "crlf normalized and blank runs collapsed",
			subject: "",
			body:    "line one\r\n\r\n\r\n\r\nline two",
			want:    "line one\n\nline two",
		},
		{
			name:    "whitespace runs collapse within lines",
			subject: "",
			body:    "Departure:    2025-06-01\t\t14:30",
			want:    "Departure: 2025-06-01 14:30",
		},
		{
			name:    "quoted reply lines dropped",
			subject: "Re: your booking",
			body:    "Thanks, see attached.\n> Original confirmation ABC123\n> from last week",
			want:    "Re: your booking\nThanks, see attached.",
		},
		{
			name:    "reply header line dropped",
			subject: "",
			body:    "New details below.\nOn Mon, Jun 2, 2025 at 9:00 AM Hotel Desk wrote:\nold content",
			want:    "New details below.\nold content",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.subject, tt.body)
			if got != tt.want {
				t.Errorf("Normalize() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeNeverErrors(t *testing.T) {
	// Malformed HTML must still come back as usable text.
	got := Normalize("Broken", "<div><p>unclosed <b>tags everywhere")
	if got == "" {
		t.Fatal("expected non-empty output for malformed HTML input")
	}
	if got != "Broken\nunclosed tags everywhere" {
		t.Errorf("Normalize() = %q", got)
	}
}
