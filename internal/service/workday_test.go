package service

import "testing"

func TestValidateEndDay(t *testing.T) {
	tests := []struct {
		name       string
		start      int
		end        int
		personalKm int
		wantErr    bool
	}{
		{"valid day", 1000, 1120, 20, false},
		{"no personal", 1000, 1120, 0, false},
		{"all personal", 1000, 1120, 120, false},
		{"end equals start", 1000, 1000, 0, true},
		{"end below start", 1000, 990, 0, true},
		{"negative personal", 1000, 1120, -5, true},
		{"personal exceeds distance", 1000, 1120, 121, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEndDay(tt.start, tt.end, tt.personalKm)
			if tt.wantErr && err == nil {
				t.Fatalf("expected error for start=%d end=%d personal=%d", tt.start, tt.end, tt.personalKm)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestOfficialKm(t *testing.T) {
	if got := OfficialKm(1000, 1120, 20); got != 100 {
		t.Fatalf("OfficialKm = %d, want 100", got)
	}
	if got := OfficialKm(1000, 1120, 0); got != 120 {
		t.Fatalf("OfficialKm = %d, want 120", got)
	}
	// Clamped when personal claims more than the distance.
	if got := OfficialKm(1000, 1120, 200); got != 0 {
		t.Fatalf("OfficialKm = %d, want 0", got)
	}
}
