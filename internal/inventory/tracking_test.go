package inventory

import "testing"

func TestAbbreviation(t *testing.T) {
	tests := map[string]string{
		"PLA":      "PLA",
		"PLA+":     "PLA",
		"petg":     "PETG",
		"Silk PLA": "SILK",
		"TPU 95A":  "TPUA",
		" 123 ":    "123",
	}
	for in, want := range tests {
		if got := Abbreviation(in); got != want {
			t.Errorf("Abbreviation(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNextTrackingID(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		existing []string
		want     string
	}{
		{"first", "PLA", nil, "PLA01"},
		{"after highest", "PLA", []string{"PLA01", "PLA07", "PLA03"}, "PLA08"},
		{"ignores other prefixes and junk", "PLA", []string{"PETG09", "PLAX", "PLA-3", "PLA02"}, "PLA03"},
		{"three digits from 100", "ABS", []string{"ABS99"}, "ABS100"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextTrackingID(tt.prefix, tt.existing); got != tt.want {
				t.Errorf("NextTrackingID() = %q, want %q", got, tt.want)
			}
		})
	}
}
