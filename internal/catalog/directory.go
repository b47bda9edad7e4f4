// Package catalog holds the client-side state for the catalog management
// page: the cached view of the remote directory tree, the selection set,
// per-row rename/move state, background job tracking, and the coordinator
// that issues mutating requests.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/tormodhaugland/ipcq/internal/api"
)

// TreeFetcher is the slice of the API client the directory model needs.
type TreeFetcher interface {
	DocsTree(ctx context.Context, path string) (*api.TreeNode, error)
}

// ErrStaleLoad is returned when a directory load finished after a newer
// navigation superseded it; its result was discarded.
var ErrStaleLoad = errors.New("directory load superseded by newer navigation")

// LoadOptions controls LoadDirectory behavior.
type LoadOptions struct {
	// Push records the navigation in the session history.
	Push bool
	// Force bypasses the tree cache.
	Force bool
}

// DirectoryModel is the single source of truth for the currently displayed
// directory and everything cached about the remote tree.
//
// The tree cache maps normalized path to the last node the server returned
// for it. Entries are replaced whole on refresh and never evicted; catalogs
// are small enough that unbounded growth over a session is acceptable.
type DirectoryModel struct {
	fetch TreeFetcher

	mu       sync.Mutex
	cache    map[string]*api.TreeNode
	current  string
	files    []api.TreeFile
	selected map[string]struct{}
	expanded map[string]struct{}
	status   string
	history  []string
	gen      uint64
}

// NewDirectoryModel creates an empty model. Call LoadDirectory to populate
// it.
func NewDirectoryModel(fetch TreeFetcher) *DirectoryModel {
	return &DirectoryModel{
		fetch:    fetch,
		cache:    map[string]*api.TreeNode{},
		selected: map[string]struct{}{},
		expanded: map[string]struct{}{},
	}
}

// EnsureTreeNode returns the cached node for path, fetching it when absent
// or when force is set. The node is stored under both the requested key and
// the server-resolved path so later lookups by either key hit the cache.
func (m *DirectoryModel) EnsureTreeNode(ctx context.Context, path string, force bool) (*api.TreeNode, error) {
	key := Normalize(path)

	if !force {
		m.mu.Lock()
		node, ok := m.cache[key]
		m.mu.Unlock()
		if ok {
			return node, nil
		}
	}

	node, err := m.fetch.DocsTree(ctx, key)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.cache[key] = node
	m.cache[Normalize(node.Path)] = node
	m.mu.Unlock()
	return node, nil
}

// PreloadPathChain ensures every directory from the root down to path is
// cached, root first, so breadcrumb and tree-expansion UI never has a gap.
func (m *DirectoryModel) PreloadPathChain(ctx context.Context, path string, force bool) error {
	for _, ancestor := range AncestorChain(path) {
		if _, err := m.EnsureTreeNode(ctx, ancestor, force); err != nil {
			return fmt.Errorf("preloading %q: %w", ancestor, err)
		}
	}
	return nil
}

// LoadDirectory navigates to path: it preloads the ancestor chain, fetches
// the leaf node, makes it current (under the server's canonicalization of
// the path), prunes the selection to the files now visible, and expands the
// ancestor chain. With opts.Push the navigation is recorded in the session
// history.
//
// On fetch failure the visible file list is cleared and a status string is
// set, but the tree cache keeps its other branches. A load that completes
// after a newer navigation has started is discarded and reported as
// ErrStaleLoad.
func (m *DirectoryModel) LoadDirectory(ctx context.Context, path string, opts LoadOptions) error {
	path = Normalize(path)

	m.mu.Lock()
	m.gen++
	gen := m.gen
	m.mu.Unlock()

	if err := m.PreloadPathChain(ctx, path, opts.Force); err != nil {
		return m.failLoad(gen, err)
	}
	node, err := m.EnsureTreeNode(ctx, path, opts.Force)
	if err != nil {
		return m.failLoad(gen, err)
	}

	canonical := Normalize(node.Path)

	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.gen {
		return ErrStaleLoad
	}

	m.current = canonical
	m.files = append([]api.TreeFile(nil), node.Files...)
	m.status = ""
	m.pruneSelectionLocked()
	for _, ancestor := range AncestorChain(canonical) {
		m.expanded[ancestor] = struct{}{}
	}
	if opts.Push {
		if n := len(m.history); n == 0 || m.history[n-1] != canonical {
			m.history = append(m.history, canonical)
		}
	}
	return nil
}

func (m *DirectoryModel) failLoad(gen uint64, err error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.gen {
		return ErrStaleLoad
	}
	m.files = nil
	m.status = fmt.Sprintf("目录加载失败：%v", err)
	m.pruneSelectionLocked()
	return err
}

// Refresh reloads the current directory from the server, bypassing the
// cache. Used after every mutation.
func (m *DirectoryModel) Refresh(ctx context.Context) error {
	m.mu.Lock()
	current := m.current
	m.mu.Unlock()
	return m.LoadDirectory(ctx, current, LoadOptions{Force: true})
}

// ToggleExpandDir flips UI visibility of a subtree. It never fetches;
// callers expanding a directory for the first time also call EnsureTreeNode.
func (m *DirectoryModel) ToggleExpandDir(path string, expanded bool) {
	path = Normalize(path)
	m.mu.Lock()
	defer m.mu.Unlock()
	if expanded {
		m.expanded[path] = struct{}{}
	} else {
		delete(m.expanded, path)
	}
}

// IsExpanded reports whether a directory subtree is visible.
func (m *DirectoryModel) IsExpanded(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.expanded[Normalize(path)]
	return ok
}

// CurrentPath returns the server-canonicalized path of the displayed
// directory.
func (m *DirectoryModel) CurrentPath() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// VisibleFiles returns the files in the displayed directory.
func (m *DirectoryModel) VisibleFiles() []api.TreeFile {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]api.TreeFile(nil), m.files...)
}

// CachedNode returns the cached tree node for path, or nil.
func (m *DirectoryModel) CachedNode(path string) *api.TreeNode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cache[Normalize(path)]
}

// Status returns the human-readable load status ("" when the last load
// succeeded).
func (m *DirectoryModel) Status() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// History returns the recorded navigation history, oldest first.
func (m *DirectoryModel) History() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.history...)
}

// SetSelected adds or removes a file path from the selection. Paths not
// visible in the current directory are ignored.
func (m *DirectoryModel) SetSelected(path string, selected bool) {
	path = Normalize(path)
	m.mu.Lock()
	defer m.mu.Unlock()
	if !selected {
		delete(m.selected, path)
		return
	}
	for _, f := range m.files {
		if Normalize(f.RelativePath) == path {
			m.selected[path] = struct{}{}
			return
		}
	}
}

// IsSelected reports whether a file path is in the selection.
func (m *DirectoryModel) IsSelected(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.selected[Normalize(path)]
	return ok
}

// SelectedPaths returns the selection, sorted.
func (m *DirectoryModel) SelectedPaths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	paths := make([]string, 0, len(m.selected))
	for p := range m.selected {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// ClearSelection empties the selection set.
func (m *DirectoryModel) ClearSelection() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selected = map[string]struct{}{}
}

// pruneSelectionLocked drops selected paths no longer present in the visible
// file list. The selection must always be a subset of what is on screen.
func (m *DirectoryModel) pruneSelectionLocked() {
	if len(m.selected) == 0 {
		return
	}
	visible := make(map[string]struct{}, len(m.files))
	for _, f := range m.files {
		visible[Normalize(f.RelativePath)] = struct{}{}
	}
	for p := range m.selected {
		if _, ok := visible[p]; !ok {
			delete(m.selected, p)
		}
	}
}
