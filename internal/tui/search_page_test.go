package tui

import "testing"

func TestMatchHint(t *testing.T) {
	tests := []struct {
		query    string
		mode     string
		wantHint bool
	}{
		{"NAS1149F0332P", "term", true},
		{"32-21-41", "term", true},
		{"NAS1149F0332P", "pn", false},
		{"NAS1149F0332P", "all", false},
		{"bolt assy", "term", false},
		{"", "term", false},
	}
	for _, tt := range tests {
		got := matchHint(tt.query, tt.mode)
		if (got != "") != tt.wantHint {
			t.Errorf("matchHint(%q, %q) = %q, wantHint=%v", tt.query, tt.mode, got, tt.wantHint)
		}
	}
}
