package tui

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/tormodhaugland/ipcq/internal/api"
	"github.com/tormodhaugland/ipcq/internal/catalog"
)

// stubServer satisfies the catalog interfaces with canned data.
type stubServer struct{}

func (stubServer) DocsTree(ctx context.Context, path string) (*api.TreeNode, error) {
	if path == "" {
		return &api.TreeNode{
			Path:        "",
			Directories: []api.TreeDir{{Name: "fleet", Path: "fleet"}},
			Files: []api.TreeFile{
				{Name: "wing.pdf", RelativePath: "wing.pdf", Indexed: true},
				{Name: "tail.pdf", RelativePath: "tail.pdf", Indexed: true},
				{Name: "manual.pdf", RelativePath: "manual.pdf", Indexed: false},
			},
		}, nil
	}
	return &api.TreeNode{Path: path}, nil
}

func (stubServer) ImportJobStatus(ctx context.Context, jobID string) (*api.ImportJob, error) {
	return &api.ImportJob{JobID: jobID, Status: api.JobSuccess}, nil
}

func (stubServer) ScanJobStatus(ctx context.Context, jobID string) (*api.ScanJob, error) {
	return &api.ScanJob{JobID: jobID, Status: api.JobSuccess}, nil
}

func (stubServer) Upload(ctx context.Context, filename, targetDir string, content io.Reader, size int64) (*api.ImportJob, error) {
	return &api.ImportJob{JobID: "j-" + filename, Status: api.JobQueued}, nil
}

func (stubServer) BatchDelete(ctx context.Context, paths []string) (*api.BatchDeleteResult, error) {
	return &api.BatchDeleteResult{Total: len(paths), Deleted: len(paths)}, nil
}

func (stubServer) RenameDoc(ctx context.Context, path, newName string) (*api.MutationResult, error) {
	return &api.MutationResult{Updated: true}, nil
}

func (stubServer) MoveDoc(ctx context.Context, path, targetDir string) (*api.MutationResult, error) {
	return &api.MutationResult{Updated: true}, nil
}

func (stubServer) CreateFolder(ctx context.Context, path, name string) (*api.FolderCreateResult, error) {
	return &api.FolderCreateResult{Created: true, Path: name}, nil
}

func (stubServer) SubmitScan(ctx context.Context, path string) (*api.ScanJob, error) {
	return &api.ScanJob{JobID: "s1", Path: path, Status: api.JobQueued}, nil
}

func newTestBrowsePage(t *testing.T) browsePage {
	t.Helper()
	stub := stubServer{}
	dir := catalog.NewDirectoryModel(stub)
	tracker := catalog.NewJobTracker(stub)
	coord := catalog.NewCoordinator(stub, dir, tracker)
	if err := dir.LoadDirectory(context.Background(), "", catalog.LoadOptions{}); err != nil {
		t.Fatalf("LoadDirectory error: %v", err)
	}
	p := newBrowsePage(dir, tracker, coord)
	p.loaded = true
	return p
}

func TestRowsDirectoriesFirst(t *testing.T) {
	p := newTestBrowsePage(t)

	rows := p.rows()
	if len(rows) != 4 {
		t.Fatalf("len(rows) = %d, want 4", len(rows))
	}
	if !rows[0].isDir || rows[0].name() != "fleet" {
		t.Errorf("rows[0] = %+v, want the fleet directory", rows[0])
	}
	if rows[1].isDir {
		t.Error("rows[1] should be a file")
	}
}

func TestRowsFuzzyFilter(t *testing.T) {
	p := newTestBrowsePage(t)
	p.filter = "wing"

	rows := p.rows()
	if len(rows) != 1 {
		t.Fatalf("len(rows) = %d, want 1", len(rows))
	}
	if rows[0].name() != "wing.pdf" {
		t.Errorf("rows[0].name() = %q, want wing.pdf", rows[0].name())
	}
}

func TestRowPathForDirAndFile(t *testing.T) {
	p := newTestBrowsePage(t)
	rows := p.rows()

	if rows[0].path() != "fleet" {
		t.Errorf("dir path = %q, want fleet", rows[0].path())
	}
	if rows[1].path() != "wing.pdf" {
		t.Errorf("file path = %q, want wing.pdf", rows[1].path())
	}
}

func TestJobStatusText(t *testing.T) {
	// Terminal statuses must render differently from in-flight ones.
	if jobStatusText(api.JobQueued) == jobStatusText(api.JobFailed) {
		t.Error("queued and failed should not render identically")
	}
	if got := jobStatusText("weird"); got != "weird" {
		t.Errorf("unknown status = %q, want passthrough", got)
	}
}

func TestRowEditViewShowsError(t *testing.T) {
	row := catalog.RowAction{Mode: catalog.RowRenaming, Value: "x.pdf", Phase: catalog.RowError, Err: "名称不能为空"}
	p := newTestBrowsePage(t)

	out := rowEditView(row, false, p.input)
	if !strings.Contains(out, "名称不能为空") {
		t.Errorf("rowEditView = %q, want the error text", out)
	}
	if !strings.Contains(out, "重命名为:") {
		t.Errorf("rowEditView = %q, want the rename label", out)
	}
}

func TestDirLoadFailureKeepsCursorAndFilter(t *testing.T) {
	p := newTestBrowsePage(t)
	p.cursor = 2
	p.filter = "wi"

	p, _ = p.update(dirLoadedMsg{err: errors.New("connection refused")})
	if p.cursor != 2 || p.filter != "wi" {
		t.Errorf("failed load moved the view: cursor=%d filter=%q", p.cursor, p.filter)
	}

	p, _ = p.update(dirLoadedMsg{stale: true})
	if p.cursor != 2 || p.filter != "wi" {
		t.Errorf("stale load moved the view: cursor=%d filter=%q", p.cursor, p.filter)
	}

	p, _ = p.update(dirLoadedMsg{})
	if p.cursor != 0 || p.filter != "" {
		t.Errorf("successful load should reset the view: cursor=%d filter=%q", p.cursor, p.filter)
	}
}
