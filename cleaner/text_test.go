package cleaner

import "testing"

func TestFixCaps(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"MAIN LIBRARY", "Main Library"},
		{"DUI ARREST", "DUI Arrest"},
		{"UCLA PARKING LOT 3", "UCLA Parking Lot 3"},
		// Mixed case is assumed intentional.
		{"Main LIBRARY", "Main LIBRARY"},
		{"123", "123"},
		{"", ""},
	}
	for _, tt := range tests {
		got := FixCaps(tt.input)
		if got != tt.want {
			t.Errorf("FixCaps(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestStandardizeDisposition(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Clsd 01/02/2023 10:00", "Closed"},
		{"Closed: 01/02/2023", "Closed"},
		{"OPEN/ACTIVE", "OPEN"},
		{"Pend 3PM", "Pending"},
		{"Arrest", "Arrest"},
		{"  Referred   to   Dean ", "Referred to Dean"},
	}
	for _, tt := range tests {
		got := StandardizeDisposition(tt.input)
		if got != tt.want {
			t.Errorf("StandardizeDisposition(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
