package history

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestAddAndRecentSearches(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.AddSearch("bolt", "contains", 12))
	require.NoError(t, db.AddSearch("washer", "exact", 3))

	entries, err := db.RecentSearches(10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "washer", entries[0].Query)
	assert.Equal(t, "exact", entries[0].MatchMode)
	assert.Equal(t, "bolt", entries[1].Query)
}

func TestRecentSearchesDeduplicates(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.AddSearch("bolt", "contains", 12))
	require.NoError(t, db.AddSearch("washer", "contains", 3))
	require.NoError(t, db.AddSearch("bolt", "contains", 15))

	entries, err := db.RecentSearches(10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "bolt", entries[0].Query)
	assert.Equal(t, 15, entries[0].ResultCount, "latest count wins")
}

func TestAddSearchIgnoresEmptyQuery(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.AddSearch("", "contains", 0))

	entries, err := db.RecentSearches(10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestClearSearches(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.AddSearch("bolt", "contains", 12))
	require.NoError(t, db.ClearSearches())

	entries, err := db.RecentSearches(10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFavorites(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.AddFavorite(42, "MS20470AD4", "RIVET", "wing.pdf"))

	fav, err := db.IsFavorite(42)
	require.NoError(t, err)
	assert.True(t, fav)

	favs, err := db.Favorites()
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, "MS20470AD4", favs[0].PartNumber)
	assert.Equal(t, "RIVET", favs[0].Description)

	require.NoError(t, db.RemoveFavorite(42))
	fav, err = db.IsFavorite(42)
	require.NoError(t, err)
	assert.False(t, fav)
}

func TestAddFavoriteUpsert(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.AddFavorite(7, "AN3-4A", "BOLT", "a.pdf"))
	require.NoError(t, db.AddFavorite(7, "AN3-4A", "BOLT, HEX", "b.pdf"))

	favs, err := db.Favorites()
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, "BOLT, HEX", favs[0].Description)
	assert.Equal(t, "b.pdf", favs[0].PDFName)
}

func TestRemoveFavoriteMissing(t *testing.T) {
	db := openTestDB(t)
	assert.NoError(t, db.RemoveFavorite(999))
}
