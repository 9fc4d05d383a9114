package gmail

import "testing"

func TestTripTagExtraction(t *testing.T) {
	tests := []struct {
		name string
		to   string
		want string
	}{
		{"plus tag", "inbox+trip-42@tripfolio.example.com", "trip-42"},
		{"uuid tag", "inbox+9f1c2d3e@tripfolio.example.com", "9f1c2d3e"},
		{"display name wrapper", "Trips <inbox+summer-2025@tripfolio.example.com>", "summer-2025"},
		{"no tag", "inbox@tripfolio.example.com", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ""
			if m := tripTagRe.FindStringSubmatch(tt.to); m != nil {
				got = m[1]
			}
			if got != tt.want {
				t.Errorf("trip tag = %q, want %q", got, tt.want)
			}
		})
	}
}
