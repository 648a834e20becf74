package service

import (
	"testing"
	"time"
)

func TestValidateFuelEntry(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		fillDate string
		meter    int
		liters   float64
		wantErr  bool
	}{
		{"valid fill", "2026-03-10", 45200, 32.5, false},
		{"same day", "2026-03-15", 45200, 10, false},
		{"max liters", "2026-03-10", 45200, 500, false},
		{"future date", "2026-03-20", 45200, 32.5, true},
		{"garbage date", "10/03/2026", 45200, 32.5, true},
		{"zero meter", "2026-03-10", 0, 32.5, true},
		{"negative meter", "2026-03-10", -1, 32.5, true},
		{"zero liters", "2026-03-10", 45200, 0, true},
		{"implausible liters", "2026-03-10", 45200, 500.01, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFuelEntry(tt.fillDate, tt.meter, tt.liters, now)
			if tt.wantErr && err == nil {
				t.Fatalf("expected error for %s meter=%d liters=%.2f", tt.fillDate, tt.meter, tt.liters)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
