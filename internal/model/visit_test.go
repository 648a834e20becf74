package model

import "testing"

func TestNewOutcomeSet(t *testing.T) {
	tests := []struct {
		name    string
		tags    []string
		want    string
		wantErr bool
	}{
		{"single tag", []string{"order_taken"}, "order_taken", false},
		{"multiple sorted", []string{"just_visit", "collection"}, "collection,just_visit", false},
		{"duplicates collapse", []string{"collection", "collection"}, "collection", false},
		{"shop_closed exclusive", []string{"order_taken", "shop_closed", "collection"}, "shop_closed", false},
		{"shop_closed alone", []string{"shop_closed"}, "shop_closed", false},
		{"unknown tag", []string{"order_taken", "sold_out"}, "", true},
		{"empty", nil, "", true},
		{"blank entries only", []string{"", "  "}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := NewOutcomeSet(tt.tags)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for tags %v, got set %q", tt.tags, set.String())
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if set.String() != tt.want {
				t.Fatalf("got %q, want %q", set.String(), tt.want)
			}
		})
	}
}

func TestParseOutcomesRoundTrip(t *testing.T) {
	set, err := NewOutcomeSet([]string{"collection", "order_taken"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	parsed, err := ParseOutcomes(set.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed.String() != set.String() {
		t.Fatalf("round trip changed set: %q -> %q", set.String(), parsed.String())
	}
	if !parsed.Contains(OutcomeCollection) || !parsed.Contains(OutcomeOrderTaken) {
		t.Fatalf("parsed set missing tags: %v", parsed.Tags())
	}
	if parsed.Contains(OutcomeShopClosed) {
		t.Fatalf("parsed set should not contain shop_closed")
	}
}
