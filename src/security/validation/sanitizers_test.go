package validation

import "testing"

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text untouched", "Morning coffee", "Morning coffee"},
		{"script tag removed", `<script>alert(1)</script>coffee`, "coffee"},
		{"markup stripped, text kept", "<b>rent</b> payment", "rent payment"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeText(tt.input); got != tt.want {
				t.Errorf("SanitizeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestStripUnprintable(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text untouched", "Morning coffee", "Morning coffee"},
		{"control characters dropped", "lu\x00n\x07ch", "lunch"},
		{"common whitespace kept", "a\tb\nc\r", "a\tb\nc\r"},
		{"escape sequence dropped", "\x1b[31mred\x1b[0m", "[31mred[0m"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripUnprintable(tt.input); got != tt.want {
				t.Errorf("StripUnprintable(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
