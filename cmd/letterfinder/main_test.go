package main

import "testing"

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		input     string
		wantStart string
		wantEnd   string
		wantErr   bool
	}{
		{"1946-10 to 1946-12", "1946-10-01", "1946-12-31", false},
		{"1946-02 to 1946-02", "1946-02-01", "1946-02-28", false},
		{"1946-10 to 1946-09", "", "", true},
		{"1946-10", "", "", true},
		{"October to December", "", "", true},
	}

	for _, tt := range tests {
		start, end, err := parsePeriod(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parsePeriod(%q): expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("parsePeriod(%q): %v", tt.input, err)
			continue
		}
		if start != tt.wantStart || end != tt.wantEnd {
			t.Errorf("parsePeriod(%q) = %s, %s; want %s, %s", tt.input, start, end, tt.wantStart, tt.wantEnd)
		}
	}
}
