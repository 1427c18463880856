package cleaner

import "testing"

func TestFormatTimes(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2/17/25 906", "2/17/25 9:06"},
		{"Meeting at 1230", "Meeting at 12:30"},
		{"0836-0917 Conference", "08:36 Conference"},
		{"12:00-12:30", "12:00"},
		{"08:36-\n09:17", "08:36"},
		{"00:00-23:59", "00:00"},
		{"12/4/2024-12/5/2024", "12/4/2024"},
		{"0214 03-23-2025", "03/23/2025 02:14"},
		{"01/05/2023 0906", "01/05/2023 09:06"},
		// Years, amounts and impossible clocks are left alone.
		{"12/4/2024", "12/4/2024"},
		{"Theft $1250", "Theft $1250"},
		{"1,250", "1,250"},
		{"Room 1275", "Room 1275"},
		{"25-00123", "25-00123"},
		{"", ""},
	}
	for _, tt := range tests {
		got := FormatTimes(tt.input)
		if got != tt.want {
			t.Errorf("FormatTimes(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestCompactClock(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"906", "9:06", true},
		{"1230", "12:30", true},
		{"0000", "00:00", true},
		{"2360", "", false},
		{"2400", "", false},
	}
	for _, tt := range tests {
		got, ok := compactClock(tt.input)
		if got != tt.want || ok != tt.ok {
			t.Errorf("compactClock(%q) = %q, %v, want %q, %v", tt.input, got, ok, tt.want, tt.ok)
		}
	}
}
