package ipc

import "testing"

func TestPositiveInt(t *testing.T) {
	tests := []struct {
		value, fallback, expected int
	}{
		{50, 20, 50},
		{0, 20, 20},
		{-5, 20, 20},
		{0, 0, DefaultPageSize},
		{0, -3, DefaultPageSize},
		{1, 0, 1},
	}
	for _, tt := range tests {
		if got := PositiveInt(tt.value, tt.fallback); got != tt.expected {
			t.Errorf("PositiveInt(%d, %d) = %d, want %d", tt.value, tt.fallback, got, tt.expected)
		}
	}
}

func TestClampPageSize(t *testing.T) {
	tests := []struct {
		in, expected int
	}{
		{0, 1},
		{-10, 1},
		{1, 1},
		{50, 50},
		{200, 200},
		{201, 200},
		{10000, 200},
	}
	for _, tt := range tests {
		if got := ClampPageSize(tt.in); got != tt.expected {
			t.Errorf("ClampPageSize(%d) = %d, want %d", tt.in, got, tt.expected)
		}
	}
}

func TestClampPage(t *testing.T) {
	if ClampPage(0) != 1 {
		t.Errorf("ClampPage(0) = %d, want 1", ClampPage(0))
	}
	if ClampPage(7) != 7 {
		t.Errorf("ClampPage(7) = %d, want 7", ClampPage(7))
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total, pageSize, expected int
	}{
		{0, 20, 1},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{100, 20, 5},
		{5, 0, 1},
	}
	for _, tt := range tests {
		if got := TotalPages(tt.total, tt.pageSize); got != tt.expected {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.total, tt.pageSize, got, tt.expected)
		}
	}
}

func TestFigItemDisplay(t *testing.T) {
	tests := []struct {
		raw, no        string
		notIllustrated bool
		expected       string
	}{
		{"-", "15", false, "- 15"},
		{"-", "15", true, "- 15"},
		{"10", "15", false, "10 15"},
		{"10", "", false, "10"},
		{"", "15", false, "15"},
		{"", "15", true, "- 15"},
		{"", "", false, ""},
		{" - ", " 15 ", false, "- 15"},
	}
	for _, tt := range tests {
		got := FigItemDisplay(tt.raw, tt.no, tt.notIllustrated)
		if got != tt.expected {
			t.Errorf("FigItemDisplay(%q, %q, %v) = %q, want %q", tt.raw, tt.no, tt.notIllustrated, got, tt.expected)
		}
	}
}

func TestPartNumber(t *testing.T) {
	if got := PartNumber("AN3-4A", "AN3-4", "an3 4"); got != "AN3-4A" {
		t.Errorf("PartNumber = %q, want canonical", got)
	}
	if got := PartNumber("", "AN3-4", "an3 4"); got != "AN3-4" {
		t.Errorf("PartNumber = %q, want extracted", got)
	}
	if got := PartNumber("", "", "an3 4"); got != "an3 4" {
		t.Errorf("PartNumber = %q, want raw cell", got)
	}
}

func TestLooksLikePartNumber(t *testing.T) {
	tests := []struct {
		q        string
		expected bool
	}{
		{"AN3-4A", true},
		{"an3-4a", true}, // uppercased before matching
		{"MS20470AD4", true},
		{"65-12345-7", true},
		{"1234.56", true},
		{"BOLT", false},      // no digit
		{"AN3 4A", false},    // whitespace
		{".5-123", false},    // dot-led
		{"", false},
		{"   ", false},
		{"AN3_4", false},     // underscore not allowed
	}
	for _, tt := range tests {
		if got := LooksLikePartNumber(tt.q); got != tt.expected {
			t.Errorf("LooksLikePartNumber(%q) = %v, want %v", tt.q, got, tt.expected)
		}
	}
}

func TestHighlight(t *testing.T) {
	mark := func(s string) string { return "[" + s + "]" }

	tests := []struct {
		text, keyword, expected string
	}{
		{"BOLT, HEX", "bolt", "[BOLT], HEX"},
		{"bolt and Bolt", "BOLT", "[bolt] and [Bolt]"},
		{"WASHER", "bolt", "WASHER"},
		{"", "bolt", ""},
		{"BOLT", "", "BOLT"},
		{"aaa", "aa", "[aa]a"},
	}
	for _, tt := range tests {
		if got := Highlight(tt.text, tt.keyword, mark); got != tt.expected {
			t.Errorf("Highlight(%q, %q) = %q, want %q", tt.text, tt.keyword, got, tt.expected)
		}
	}
}
