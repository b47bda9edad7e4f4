package catalog

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/tormodhaugland/ipcq/internal/api"
)

// fakeTree serves canned tree nodes and records fetch order.
type fakeTree struct {
	nodes   map[string]*api.TreeNode
	fetched []string
	err     error
}

func (f *fakeTree) DocsTree(ctx context.Context, path string) (*api.TreeNode, error) {
	f.fetched = append(f.fetched, path)
	if f.err != nil {
		return nil, f.err
	}
	node, ok := f.nodes[path]
	if !ok {
		return &api.TreeNode{Path: path}, nil
	}
	return node, nil
}

func treeFixture() *fakeTree {
	return &fakeTree{nodes: map[string]*api.TreeNode{
		"": {
			Path:        "",
			Directories: []api.TreeDir{{Name: "a", Path: "a"}},
			Files: []api.TreeFile{
				{Name: "root.pdf", RelativePath: "root.pdf", Indexed: true},
			},
		},
		"a": {
			Path:        "a",
			Directories: []api.TreeDir{{Name: "b", Path: "a/b"}},
		},
		"a/b": {
			Path: "a/b",
			Files: []api.TreeFile{
				{Name: "wing.pdf", RelativePath: "a/b/wing.pdf", Indexed: true},
				{Name: "tail.pdf", RelativePath: "a/b/tail.pdf", Indexed: false},
			},
		},
	}}
}

func TestLoadDirectoryPreloadsChainRootFirst(t *testing.T) {
	fetch := treeFixture()
	m := NewDirectoryModel(fetch)

	if err := m.LoadDirectory(context.Background(), "a/b", LoadOptions{}); err != nil {
		t.Fatalf("LoadDirectory error: %v", err)
	}

	expected := []string{"", "a", "a/b"}
	if !reflect.DeepEqual(fetch.fetched, expected) {
		t.Errorf("fetched = %v, want %v", fetch.fetched, expected)
	}
	if m.CurrentPath() != "a/b" {
		t.Errorf("CurrentPath() = %q, want %q", m.CurrentPath(), "a/b")
	}
	files := m.VisibleFiles()
	if len(files) != 2 {
		t.Fatalf("len(VisibleFiles()) = %d, want 2", len(files))
	}
	for _, p := range expected {
		if !m.IsExpanded(p) {
			t.Errorf("IsExpanded(%q) = false, want true", p)
		}
	}
}

func TestLoadDirectoryUsesServerCanonicalPath(t *testing.T) {
	fetch := treeFixture()
	m := NewDirectoryModel(fetch)

	if err := m.LoadDirectory(context.Background(), "/a/b/", LoadOptions{}); err != nil {
		t.Fatalf("LoadDirectory error: %v", err)
	}
	if m.CurrentPath() != "a/b" {
		t.Errorf("CurrentPath() = %q, want %q", m.CurrentPath(), "a/b")
	}
}

func TestEnsureTreeNodeCaches(t *testing.T) {
	fetch := treeFixture()
	m := NewDirectoryModel(fetch)
	ctx := context.Background()

	if _, err := m.EnsureTreeNode(ctx, "a", false); err != nil {
		t.Fatalf("EnsureTreeNode error: %v", err)
	}
	if _, err := m.EnsureTreeNode(ctx, "a", false); err != nil {
		t.Fatalf("EnsureTreeNode error: %v", err)
	}
	if len(fetch.fetched) != 1 {
		t.Errorf("fetch count = %d, want 1 (second call should hit cache)", len(fetch.fetched))
	}

	if _, err := m.EnsureTreeNode(ctx, "a", true); err != nil {
		t.Fatalf("EnsureTreeNode error: %v", err)
	}
	if len(fetch.fetched) != 2 {
		t.Errorf("fetch count = %d, want 2 after force", len(fetch.fetched))
	}
}

func TestLoadDirectoryFailureKeepsCacheClearsFiles(t *testing.T) {
	fetch := treeFixture()
	m := NewDirectoryModel(fetch)
	ctx := context.Background()

	if err := m.LoadDirectory(ctx, "a/b", LoadOptions{}); err != nil {
		t.Fatalf("LoadDirectory error: %v", err)
	}

	fetch.err = errors.New("connection refused")
	if err := m.LoadDirectory(ctx, "a", LoadOptions{Force: true}); err == nil {
		t.Fatal("expected error from failed load")
	}

	if len(m.VisibleFiles()) != 0 {
		t.Errorf("VisibleFiles() = %v, want empty after failure", m.VisibleFiles())
	}
	if m.Status() == "" {
		t.Error("Status() should report the failure")
	}
	if m.CachedNode("a/b") == nil {
		t.Error("tree cache should survive a failed load")
	}
}

func TestSelectionPrunedOnNavigation(t *testing.T) {
	fetch := treeFixture()
	m := NewDirectoryModel(fetch)
	ctx := context.Background()

	m.LoadDirectory(ctx, "a/b", LoadOptions{})
	m.SetSelected("a/b/wing.pdf", true)
	if !m.IsSelected("a/b/wing.pdf") {
		t.Fatal("expected wing.pdf selected")
	}

	m.LoadDirectory(ctx, "", LoadOptions{})
	if m.IsSelected("a/b/wing.pdf") {
		t.Error("selection should be pruned when the file is no longer visible")
	}
	if len(m.SelectedPaths()) != 0 {
		t.Errorf("SelectedPaths() = %v, want empty", m.SelectedPaths())
	}
}

func TestSetSelectedIgnoresInvisiblePaths(t *testing.T) {
	fetch := treeFixture()
	m := NewDirectoryModel(fetch)
	ctx := context.Background()

	m.LoadDirectory(ctx, "", LoadOptions{})
	m.SetSelected("a/b/wing.pdf", true)
	if m.IsSelected("a/b/wing.pdf") {
		t.Error("selecting a path outside the current directory should be a no-op")
	}
}

func TestSelectedPathsSorted(t *testing.T) {
	fetch := treeFixture()
	m := NewDirectoryModel(fetch)
	ctx := context.Background()

	m.LoadDirectory(ctx, "a/b", LoadOptions{})
	m.SetSelected("a/b/wing.pdf", true)
	m.SetSelected("a/b/tail.pdf", true)

	expected := []string{"a/b/tail.pdf", "a/b/wing.pdf"}
	if got := m.SelectedPaths(); !reflect.DeepEqual(got, expected) {
		t.Errorf("SelectedPaths() = %v, want %v", got, expected)
	}
}

func TestHistoryRecordsPushedNavigations(t *testing.T) {
	fetch := treeFixture()
	m := NewDirectoryModel(fetch)
	ctx := context.Background()

	m.LoadDirectory(ctx, "", LoadOptions{Push: true})
	m.LoadDirectory(ctx, "a/b", LoadOptions{Push: true})
	m.LoadDirectory(ctx, "a/b", LoadOptions{Push: true}) // duplicate, not recorded
	m.LoadDirectory(ctx, "a", LoadOptions{})             // not pushed

	expected := []string{"", "a/b"}
	if got := m.History(); !reflect.DeepEqual(got, expected) {
		t.Errorf("History() = %v, want %v", got, expected)
	}
}

func TestRefreshBypassesCache(t *testing.T) {
	fetch := treeFixture()
	m := NewDirectoryModel(fetch)
	ctx := context.Background()

	m.LoadDirectory(ctx, "a/b", LoadOptions{})
	before := len(fetch.fetched)

	if err := m.Refresh(ctx); err != nil {
		t.Fatalf("Refresh error: %v", err)
	}
	if len(fetch.fetched) <= before {
		t.Error("Refresh should refetch instead of serving the cache")
	}
}

func TestToggleExpandDir(t *testing.T) {
	m := NewDirectoryModel(treeFixture())

	m.ToggleExpandDir("a", true)
	if !m.IsExpanded("a") {
		t.Error("IsExpanded(a) = false after expand")
	}
	m.ToggleExpandDir("a", false)
	if m.IsExpanded("a") {
		t.Error("IsExpanded(a) = true after collapse")
	}
}
