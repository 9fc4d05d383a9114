package bookingparse

import (
	"testing"

	"tripfolio-service/internal/domain/entity"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want entity.Category
	}{
		{
			name: "flight confirmation",
			text: "Your flight confirmation AC1234\nDeparture: 2025-06-01 14:30 from YUL to SJU, Confirmation: XK92PL",
			want: entity.CategoryFlight,
		},
		{
			name: "hotel reservation",
			text: "Sunrise Hotel reservation\nCheck-in: 2025-07-10\nCheck-out: 2025-07-12\nAddress: 5 Ocean Drive",
			want: entity.CategoryLodging,
		},
		{
			name: "car rental",
			text: "Your car rental is confirmed\nPick-up: 2025-07-10 09:00\nDrop-off: 2025-07-14\nVehicle: Compact",
			want: entity.CategoryCarRental,
		},
		{
			name: "activity tickets",
			text: "Museum tour tickets\nAdmission for 2 adults on 2025-08-03\nMeeting point: Main entrance",
			want: entity.CategoryActivity,
		},
		{
			name: "train transfer",
			text: "Train tickets attached\nDeparts 2025-08-03 08:15, platform 4\nDestination: Rome Termini",
			want: entity.CategoryTransport,
		},
		{
			name: "marker-free text",
			text: "Hi team, the quarterly report is attached. Let me know if anything is missing.",
			want: entity.CategoryUnknown,
		},
		{
			name: "weak single marker stays below threshold",
			text: "Meet me at the gate after lunch",
			want: entity.CategoryUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.text, DefaultThreshold)
			if got.Category != tt.want {
				t.Errorf("Classify() = %s (score %.2f), want %s", got.Category, got.Score, tt.want)
			}
		})
	}
}

func TestClassifyTieYieldsUnknown(t *testing.T) {
	// "tour tickets" and "train shuttle" score identically for activity
	// and transport; an exact tie must not silently pick one.
	got := Classify("tour tickets for the train shuttle", DefaultThreshold)
	if got.Category != entity.CategoryUnknown {
		t.Errorf("expected unknown on tie, got %s (score %.2f)", got.Category, got.Score)
	}
}

func TestClassifyScoreBounds(t *testing.T) {
	got := Classify("Your flight confirmation AC1234\nDeparture: 2025-06-01 from YUL to SJU", DefaultThreshold)
	if got.Score <= 0 || got.Score > 1 {
		t.Errorf("score out of range: %f", got.Score)
	}
}

func TestClassifyZeroThresholdUsesDefault(t *testing.T) {
	// A single weak marker scores under the default threshold even when
	// the caller passes zero.
	got := Classify("Meet me at the gate", 0)
	if got.Category != entity.CategoryUnknown {
		t.Errorf("expected unknown, got %s", got.Category)
	}
}
