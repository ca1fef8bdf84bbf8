package normalizer

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name   string
		token  string
		want   string
		accept bool
	}{
		{"lowercase kept", "apple", "apple", true},
		{"uppercase folded", "Apple", "apple", true},
		{"mixed case folded", "BaNaNa", "banana", true},
		{"trailing comma stripped", "cherry,", "cherry", true},
		{"trailing period stripped", "mango.", "mango", true},
		{"multiple trailing punctuation stripped", "plum.,;?*:", "plum", true},
		{"inner punctuation kept", "e.g.", "e.g", true},
		{"leading digit rejected", "9lives", "", false},
		{"leading symbol rejected", "#tag", "", false},
		{"question-leading rejected", "?!", "", false},
		{"pure punctuation rejected", ".,;", "", false},
		{"empty rejected", "", "", false},
		{"digit after strip rejected", "42.", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Normalize(tt.token)
			if ok != tt.accept {
				t.Fatalf("Normalize(%q) accepted=%v, want %v", tt.token, ok, tt.accept)
			}
			if ok && got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.token, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	tokens := []string{"apple", "Apple,", "cherry.;?", "e.g.", "Mixed.Case,"}
	for _, token := range tokens {
		once, ok := Normalize(token)
		if !ok {
			t.Fatalf("Normalize(%q) unexpectedly rejected", token)
		}
		twice, ok := Normalize(once)
		if !ok {
			t.Fatalf("Normalize(%q) rejected its own output %q", token, once)
		}
		if twice != once {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", token, once, twice)
		}
	}
}
