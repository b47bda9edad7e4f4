package history

import (
	"fmt"
	"time"
)

// SearchEntry is one remembered search.
type SearchEntry struct {
	ID          int64
	Query       string
	MatchMode   string
	ResultCount int
	SearchedAt  time.Time
}

// Favorite is a bookmarked part.
type Favorite struct {
	PartID      int64
	PartNumber  string
	Description string
	PDFName     string
	AddedAt     time.Time
}

// AddSearch records a completed search.
func (db *DB) AddSearch(query, matchMode string, resultCount int) error {
	if query == "" {
		return nil
	}
	_, err := db.conn.Exec(
		"INSERT INTO searches (query, match_mode, result_count) VALUES (?, ?, ?)",
		query, matchMode, resultCount,
	)
	if err != nil {
		return fmt.Errorf("recording search: %w", err)
	}
	return nil
}

// RecentSearches returns up to limit distinct queries, most recent first.
func (db *DB) RecentSearches(limit int) ([]SearchEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(`
		SELECT id, query, match_mode, result_count, searched_at
		FROM searches
		WHERE id IN (SELECT MAX(id) FROM searches GROUP BY query)
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying searches: %w", err)
	}
	defer rows.Close()

	var entries []SearchEntry
	for rows.Next() {
		var e SearchEntry
		if err := rows.Scan(&e.ID, &e.Query, &e.MatchMode, &e.ResultCount, &e.SearchedAt); err != nil {
			return nil, fmt.Errorf("scanning search row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ClearSearches removes all recorded searches.
func (db *DB) ClearSearches() error {
	if _, err := db.conn.Exec("DELETE FROM searches"); err != nil {
		return fmt.Errorf("clearing searches: %w", err)
	}
	return nil
}

// AddFavorite bookmarks a part. Re-adding updates the stored details.
func (db *DB) AddFavorite(partID int64, partNumber, description, pdfName string) error {
	_, err := db.conn.Exec(`
		INSERT INTO favorites (part_id, part_number, description, pdf_name)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(part_id) DO UPDATE SET
			part_number = excluded.part_number,
			description = excluded.description,
			pdf_name = excluded.pdf_name`,
		partID, partNumber, description, pdfName,
	)
	if err != nil {
		return fmt.Errorf("adding favorite: %w", err)
	}
	return nil
}

// RemoveFavorite deletes a bookmark. Removing a missing part is not an error.
func (db *DB) RemoveFavorite(partID int64) error {
	if _, err := db.conn.Exec("DELETE FROM favorites WHERE part_id = ?", partID); err != nil {
		return fmt.Errorf("removing favorite: %w", err)
	}
	return nil
}

// Favorites returns all bookmarks, most recently added first.
func (db *DB) Favorites() ([]Favorite, error) {
	rows, err := db.conn.Query(`
		SELECT part_id, part_number, COALESCE(description, ''), COALESCE(pdf_name, ''), added_at
		FROM favorites
		ORDER BY added_at DESC, part_id DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying favorites: %w", err)
	}
	defer rows.Close()

	var favs []Favorite
	for rows.Next() {
		var f Favorite
		if err := rows.Scan(&f.PartID, &f.PartNumber, &f.Description, &f.PDFName, &f.AddedAt); err != nil {
			return nil, fmt.Errorf("scanning favorite row: %w", err)
		}
		favs = append(favs, f)
	}
	return favs, rows.Err()
}

// IsFavorite reports whether a part is bookmarked.
func (db *DB) IsFavorite(partID int64) (bool, error) {
	var n int
	row := db.conn.QueryRow("SELECT COUNT(*) FROM favorites WHERE part_id = ?", partID)
	if err := row.Scan(&n); err != nil {
		return false, fmt.Errorf("checking favorite: %w", err)
	}
	return n > 0, nil
}
