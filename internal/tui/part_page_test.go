package tui

import (
	"path/filepath"
	"testing"

	"github.com/tormodhaugland/ipcq/internal/api"
	"github.com/tormodhaugland/ipcq/internal/history"
)

func newTestPartPage(t *testing.T) partPage {
	t.Helper()
	db, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	p := newPartPage(nil, db)
	p.detail = &api.PartDetail{
		Part: api.Part{
			ID:                  7,
			PartNumberCanonical: "NAS1149F0332P",
			Nomenclature:        "WASHER",
			SourcePDF:           "wing.pdf",
		},
	}
	return p
}

func TestToggleFavorite(t *testing.T) {
	p := newTestPartPage(t)

	p = p.toggleFavorite()
	if !p.faved {
		t.Fatal("expected faved after first toggle")
	}
	if p.statusMsg != "已收藏" {
		t.Errorf("statusMsg = %q", p.statusMsg)
	}
	faved, err := p.hist.IsFavorite(7)
	if err != nil {
		t.Fatalf("IsFavorite error: %v", err)
	}
	if !faved {
		t.Error("store should report part 7 as favorite")
	}

	favs, err := p.hist.Favorites()
	if err != nil {
		t.Fatalf("Favorites error: %v", err)
	}
	if len(favs) != 1 {
		t.Fatalf("expected 1 favorite, got %d", len(favs))
	}
	if favs[0].PartNumber != "NAS1149F0332P" || favs[0].Description != "WASHER" || favs[0].PDFName != "wing.pdf" {
		t.Errorf("unexpected favorite row: %+v", favs[0])
	}

	p = p.toggleFavorite()
	if p.faved {
		t.Fatal("expected unfaved after second toggle")
	}
	faved, err = p.hist.IsFavorite(7)
	if err != nil {
		t.Fatalf("IsFavorite error: %v", err)
	}
	if faved {
		t.Error("store should no longer report part 7 as favorite")
	}
}

func TestToggleFavoriteWithoutStore(t *testing.T) {
	p := newPartPage(nil, nil)
	p.detail = &api.PartDetail{Part: api.Part{ID: 1}}

	p = p.toggleFavorite()
	if p.faved || p.statusMsg != "" {
		t.Errorf("toggle without a store should be a no-op, got faved=%v status=%q", p.faved, p.statusMsg)
	}
}

func TestToggleFavoriteWithoutDetail(t *testing.T) {
	p := newTestPartPage(t)
	p.detail = nil

	p = p.toggleFavorite()
	if p.faved {
		t.Error("toggle before a part is loaded should be a no-op")
	}
}
