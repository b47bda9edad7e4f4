package render

import (
	"context"
	"testing"
)

type fakeFetcher struct {
	calls int
	data  []byte
	err   error
}

func (f *fakeFetcher) RenderPage(ctx context.Context, pdfName string, page int, scale float64) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

func TestPageKeyFormat(t *testing.T) {
	key := PageKey("wing.pdf", 12, 1.5)
	expected := "wing.pdf__p12__s1.50.png"
	if key != expected {
		t.Errorf("PageKey = %q, want %q", key, expected)
	}
}

func TestSafePDFName(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"wing.pdf", "wing.pdf"},
		{"fleet/b737/wing.pdf", "wing.pdf"},
		{"fleet\\b737\\wing.pdf", "wing.pdf"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := SafePDFName(tt.in); got != tt.expected {
			t.Errorf("SafePDFName(%q) = %q, want %q", tt.in, got, tt.expected)
		}
	}
}

func TestPageFetchesOnMiss(t *testing.T) {
	fetch := &fakeFetcher{data: []byte("png-bytes")}
	cache := New(fetch, t.TempDir())

	data, err := cache.Page(context.Background(), "wing.pdf", 3, 1.0)
	if err != nil {
		t.Fatalf("Page error: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Errorf("data = %q, want %q", data, "png-bytes")
	}
	if fetch.calls != 1 {
		t.Errorf("fetch.calls = %d, want 1", fetch.calls)
	}
}

func TestPageServesFromCache(t *testing.T) {
	fetch := &fakeFetcher{data: []byte("png-bytes")}
	cache := New(fetch, t.TempDir())

	ctx := context.Background()
	if _, err := cache.Page(ctx, "wing.pdf", 3, 1.0); err != nil {
		t.Fatalf("Page error: %v", err)
	}
	if _, err := cache.Page(ctx, "wing.pdf", 3, 1.0); err != nil {
		t.Fatalf("Page error: %v", err)
	}
	if fetch.calls != 1 {
		t.Errorf("fetch.calls = %d, want 1 (second read should hit cache)", fetch.calls)
	}
}

func TestPageDistinctScalesAreDistinctEntries(t *testing.T) {
	fetch := &fakeFetcher{data: []byte("png-bytes")}
	cache := New(fetch, t.TempDir())

	ctx := context.Background()
	cache.Page(ctx, "wing.pdf", 3, 1.0)
	cache.Page(ctx, "wing.pdf", 3, 2.0)

	if fetch.calls != 2 {
		t.Errorf("fetch.calls = %d, want 2", fetch.calls)
	}
}

func TestEvictForcesRefetch(t *testing.T) {
	fetch := &fakeFetcher{data: []byte("png-bytes")}
	cache := New(fetch, t.TempDir())

	ctx := context.Background()
	cache.Page(ctx, "wing.pdf", 3, 1.0)
	if err := cache.Evict("wing.pdf", 3, 1.0); err != nil {
		t.Fatalf("Evict error: %v", err)
	}
	cache.Page(ctx, "wing.pdf", 3, 1.0)

	if fetch.calls != 2 {
		t.Errorf("fetch.calls = %d, want 2 after evict", fetch.calls)
	}
}

func TestEvictMissingEntry(t *testing.T) {
	cache := New(&fakeFetcher{}, t.TempDir())
	if err := cache.Evict("missing.pdf", 1, 1.0); err != nil {
		t.Errorf("Evict for missing entry should not error: %v", err)
	}
}
