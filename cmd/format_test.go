package cmd

import (
	"math"
	"testing"
	"unicode/utf8"
)

func TestFormatNum(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-45210, "-45,210"},
		{2.5, "2.50"},
		{0.126, "0.13"},
		{math.NaN(), "- -"},
	}
	for _, tt := range tests {
		if got := formatNum(tt.in); got != tt.want {
			t.Errorf("formatNum(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAddCommas(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"1", "1"},
		{"123", "123"},
		{"1234", "1,234"},
		{"123456", "123,456"},
		{"1234567", "1,234,567"},
	}
	for _, tt := range tests {
		if got := addCommas(tt.in); got != tt.want {
			t.Errorf("addCommas(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{5, "$5.00"},
		{1234.5, "$1,234.50"},
		{99.999, "$100.00"},
		{-20.25, "-$20.25"},
	}
	for _, tt := range tests {
		if got := formatMoney(tt.in); got != tt.want {
			t.Errorf("formatMoney(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{12, "12"},
		{2.5, "2.5"},
		{1600, "2k"},
		{2500000, "2.5M"},
	}
	for _, tt := range tests {
		if got := formatCompact(tt.in); got != tt.want {
			t.Errorf("formatCompact(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	up, down := 12.5, -50.0
	if got := formatPercent(nil); got != "- -" {
		t.Errorf("formatPercent(nil) = %q", got)
	}
	if got := formatPercent(&up); got != "+12.50%" {
		t.Errorf("formatPercent(12.5) = %q", got)
	}
	if got := formatPercent(&down); got != "-50.00%" {
		t.Errorf("formatPercent(-50) = %q", got)
	}
}

func TestSparkline(t *testing.T) {
	tests := []struct {
		name string
		in   []float64
		want string
	}{
		{"rising", []float64{0, 3.5, 7}, "▁▄█"},
		{"flat", []float64{3, 3, 3}, "▅▅▅"},
		{"gap", []float64{0, math.NaN(), 7}, "▁ █"},
		{"empty", []float64{math.NaN(), math.NaN()}, "  "},
	}
	for _, tt := range tests {
		if got := sparkline(tt.in); got != tt.want {
			t.Errorf("%s: sparkline(%v) = %q, want %q", tt.name, tt.in, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("Library", 10); got != "Library" {
		t.Errorf("truncate short = %q", got)
	}
	got := truncate("Residence Hall North Tower", 10)
	if utf8.RuneCountInString(got) != 10 || got != "Residence…" {
		t.Errorf("truncate long = %q", got)
	}
}
