package render

import (
	"context"
	"fmt"
	"strings"

	"github.com/peterbourgon/diskv/v3"
)

// PageFetcher renders a single catalog page as a PNG.
type PageFetcher interface {
	RenderPage(ctx context.Context, pdfName string, page int, scale float64) ([]byte, error)
}

// Cache is a read-through store for rendered page images. Keys are stable
// per (pdf, page, scale), so a cached page is reused until evicted.
type Cache struct {
	fetch PageFetcher
	d     *diskv.Diskv
}

// New creates a page cache rooted at baseDir.
func New(fetch PageFetcher, baseDir string) *Cache {
	return &Cache{
		fetch: fetch,
		d: diskv.New(diskv.Options{
			BasePath:     baseDir,
			CacheSizeMax: 8 * 1024 * 1024, // 8MB in-memory layer
		}),
	}
}

// Page returns the PNG for a catalog page, fetching and storing it on a miss.
func (c *Cache) Page(ctx context.Context, pdfName string, page int, scale float64) ([]byte, error) {
	key := PageKey(pdfName, page, scale)

	if c.d.Has(key) {
		data, err := c.d.Read(key)
		if err == nil {
			return data, nil
		}
		// Fall through to a fresh fetch on a corrupt cache entry.
	}

	data, err := c.fetch.RenderPage(ctx, pdfName, page, scale)
	if err != nil {
		return nil, err
	}

	if err := c.d.Write(key, data); err != nil {
		return nil, fmt.Errorf("caching rendered page: %w", err)
	}
	return data, nil
}

// Evict removes a single cached page.
func (c *Cache) Evict(pdfName string, page int, scale float64) error {
	key := PageKey(pdfName, page, scale)
	if !c.d.Has(key) {
		return nil
	}
	return c.d.Erase(key)
}

// Clear drops every cached page.
func (c *Cache) Clear() error {
	return c.d.EraseAll()
}

// PageKey builds the cache key for one rendered page.
func PageKey(pdfName string, page int, scale float64) string {
	return fmt.Sprintf("%s__p%d__s%.2f.png", SafePDFName(pdfName), page, scale)
}

// SafePDFName reduces a document path to a flat key segment. The server
// addresses render targets by bare PDF name, so only the last path segment
// matters; any remaining separators are flattened.
func SafePDFName(pdfName string) string {
	name := strings.ReplaceAll(pdfName, "\\", "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return strings.ReplaceAll(name, "/", "_")
}
