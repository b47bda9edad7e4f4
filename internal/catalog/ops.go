package catalog

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/tormodhaugland/ipcq/internal/api"
)

// MutationClient is the slice of the API client the coordinator needs.
type MutationClient interface {
	Upload(ctx context.Context, filename, targetDir string, content io.Reader, size int64) (*api.ImportJob, error)
	BatchDelete(ctx context.Context, paths []string) (*api.BatchDeleteResult, error)
	RenameDoc(ctx context.Context, path, newName string) (*api.MutationResult, error)
	MoveDoc(ctx context.Context, path, targetDir string) (*api.MutationResult, error)
	CreateFolder(ctx context.Context, path, name string) (*api.FolderCreateResult, error)
	SubmitScan(ctx context.Context, path string) (*api.ScanJob, error)
}

// ActionKind identifies one of the four coordinator operations for status
// reporting.
type ActionKind int

const (
	ActionUpload ActionKind = iota
	ActionDelete
	ActionCreateFolder
	ActionRescan
)

// ActionPhase is the lifecycle of an operation's status banner.
type ActionPhase int

const (
	ActionIdle ActionPhase = iota
	ActionPending
	ActionSuccess
	ActionError
)

// ActionStatus is the user-facing report of the last run of one operation.
type ActionStatus struct {
	Phase     ActionPhase
	Message   string
	Err       string
	UpdatedAt time.Time
}

// UploadFile is one file handed to SubmitUploads.
type UploadFile struct {
	Name    string
	Content io.Reader
	Size    int64
}

// Coordinator gates, executes and reports every mutating user action against
// the catalog. Every operation checks the server capabilities first and
// short-circuits with the server's reason string before any network call.
type Coordinator struct {
	client MutationClient
	dir    *DirectoryModel
	jobs   *JobTracker
	rows   *RowActions

	mu     sync.Mutex
	caps   api.Capabilities
	status map[ActionKind]ActionStatus
}

// NewCoordinator wires the coordinator to the model, tracker and row state
// it updates.
func NewCoordinator(client MutationClient, dir *DirectoryModel, jobs *JobTracker) *Coordinator {
	return &Coordinator{
		client: client,
		dir:    dir,
		jobs:   jobs,
		rows:   NewRowActions(),
		caps:   api.Capabilities{ImportEnabled: true, ScanEnabled: true},
		status: map[ActionKind]ActionStatus{},
	}
}

// SetCapabilities installs the server-advertised feature flags, fetched once
// per session.
func (c *Coordinator) SetCapabilities(caps api.Capabilities) {
	c.mu.Lock()
	c.caps = caps
	c.mu.Unlock()
}

// Rows exposes the per-file edit state map.
func (c *Coordinator) Rows() *RowActions {
	return c.rows
}

// Status returns the last reported status of one operation kind.
func (c *Coordinator) Status(kind ActionKind) ActionStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status[kind]
}

func (c *Coordinator) report(kind ActionKind, phase ActionPhase, message, errMsg string) {
	c.mu.Lock()
	c.status[kind] = ActionStatus{Phase: phase, Message: message, Err: errMsg, UpdatedAt: time.Now()}
	c.mu.Unlock()
}

// importDisabledReason returns the gate message when imports are off, or "".
func (c *Coordinator) importDisabledReason() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.caps.ImportEnabled {
		return ""
	}
	if c.caps.ImportReason != "" {
		return c.caps.ImportReason
	}
	return "导入功能未启用"
}

func (c *Coordinator) scanDisabledReason() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.caps.ScanEnabled {
		return ""
	}
	if c.caps.ScanReason != "" {
		return c.caps.ScanReason
	}
	return "扫描功能未启用"
}

// SubmitUploads uploads files one at a time, in order. Sequential submission
// bounds the load on the server and keeps per-file error attribution
// unambiguous. Each accepted file registers its job id for polling; each
// failed one gets a synthetic failed row so the user still sees an entry.
// The summary message reports counts only; per-file detail lives in the job
// rows.
func (c *Coordinator) SubmitUploads(ctx context.Context, files []UploadFile) {
	if reason := c.importDisabledReason(); reason != "" {
		c.report(ActionUpload, ActionError, reason, reason)
		return
	}
	if len(files) == 0 {
		c.report(ActionUpload, ActionError, "未选择文件", "未选择文件")
		return
	}

	targetDir := c.dir.CurrentPath()
	c.report(ActionUpload, ActionPending, fmt.Sprintf("正在上传 %d 个文件…", len(files)), "")

	ok := 0
	for _, f := range files {
		job, err := c.client.Upload(ctx, f.Name, targetDir, f.Content, f.Size)
		if err != nil {
			c.jobs.PushLocalFailure(KindImport, joinRel(targetDir, f.Name), err.Error())
			continue
		}
		ok++
		c.jobs.StartImportJob(job.JobID, joinRel(targetDir, f.Name))
	}

	failed := len(files) - ok
	msg := fmt.Sprintf("上传完成：成功 %d/%d，失败 %d", ok, len(files), failed)
	if failed > 0 {
		c.report(ActionUpload, ActionError, msg, msg)
		return
	}
	c.report(ActionUpload, ActionSuccess, msg, "")
}

// DeleteSelected batch-deletes the given file paths. Input is normalized and
// deduplicated; an empty list is a no-op. Partial failure is a normal
// response: the message reports deleted/total counts, and CONFLICT-coded
// failures (ambiguous filename needing a fuller relative path) list up to
// three failing paths with up to three disambiguating candidates each taken
// from the server's details. Selection is cleared and the directory
// refreshed regardless of outcome, so the UI reflects whatever the server
// actually did.
func (c *Coordinator) DeleteSelected(ctx context.Context, paths []string) {
	if reason := c.importDisabledReason(); reason != "" {
		c.report(ActionDelete, ActionError, reason, reason)
		return
	}

	seen := map[string]struct{}{}
	var deduped []string
	for _, p := range paths {
		p = Normalize(p)
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		deduped = append(deduped, p)
	}
	if len(deduped) == 0 {
		return
	}

	c.report(ActionDelete, ActionPending, fmt.Sprintf("正在删除 %d 个文件…", len(deduped)), "")

	result, err := c.client.BatchDelete(ctx, deduped)
	if err != nil {
		c.report(ActionDelete, ActionError, fmt.Sprintf("删除失败：%v", err), err.Error())
		c.dir.ClearSelection()
		c.dir.Refresh(ctx)
		return
	}

	msg := fmt.Sprintf("删除完成：成功 %d/%d", result.Deleted, result.Total)
	if result.Failed > 0 {
		msg += fmt.Sprintf("，失败 %d", result.Failed)
		if conflict := conflictSummary(result.Results); conflict != "" {
			msg += "；" + conflict
		}
		c.report(ActionDelete, ActionError, msg, msg)
	} else {
		c.report(ActionDelete, ActionSuccess, msg, "")
	}

	c.dir.ClearSelection()
	c.dir.Refresh(ctx)
}

// conflictSummary renders CONFLICT failures: at most three failing paths and
// at most three candidate paths overall.
func conflictSummary(items []api.BatchDeleteItem) string {
	var failing, candidates []string
	for _, item := range items {
		if item.OK || item.ErrorCode != "CONFLICT" {
			continue
		}
		if len(failing) < 3 {
			failing = append(failing, item.Path)
		}
		if item.Details != nil {
			for _, cand := range item.Details.Candidates {
				if len(candidates) < 3 {
					candidates = append(candidates, cand)
				}
			}
		}
	}
	if len(failing) == 0 {
		return ""
	}
	s := "文件名有歧义：" + strings.Join(failing, "、")
	if len(candidates) > 0 {
		s += "（候选：" + strings.Join(candidates, "、") + "）"
	}
	return s
}

// CreateFolder creates a subdirectory of the root. Creating nested
// subfolders through this client is deliberately unsupported; outside the
// root the call is rejected locally without a network request.
func (c *Coordinator) CreateFolder(ctx context.Context, name string) {
	if reason := c.importDisabledReason(); reason != "" {
		c.report(ActionCreateFolder, ActionError, reason, reason)
		return
	}
	if Normalize(c.dir.CurrentPath()) != "" {
		msg := "仅支持在根目录创建文件夹"
		c.report(ActionCreateFolder, ActionError, msg, msg)
		return
	}
	name = strings.TrimSpace(name)
	if name == "" {
		msg := "文件夹名称不能为空"
		c.report(ActionCreateFolder, ActionError, msg, msg)
		return
	}

	c.report(ActionCreateFolder, ActionPending, "正在创建文件夹…", "")
	result, err := c.client.CreateFolder(ctx, "", name)
	if err != nil {
		c.report(ActionCreateFolder, ActionError, fmt.Sprintf("创建失败：%v", err), err.Error())
		return
	}
	c.report(ActionCreateFolder, ActionSuccess, fmt.Sprintf("已创建文件夹：%s", result.Path), "")
	c.dir.Refresh(ctx)
}

// TriggerRescan submits a scan of the current directory. The server must
// return a non-empty job id; an empty one means nothing could be polled and
// is treated as an error rather than silently tracking nothing.
func (c *Coordinator) TriggerRescan(ctx context.Context) {
	if reason := c.scanDisabledReason(); reason != "" {
		c.report(ActionRescan, ActionError, reason, reason)
		return
	}

	path := c.dir.CurrentPath()
	c.report(ActionRescan, ActionPending, "正在提交扫描任务…", "")
	job, err := c.client.SubmitScan(ctx, path)
	if err != nil {
		c.report(ActionRescan, ActionError, fmt.Sprintf("扫描提交失败：%v", err), err.Error())
		return
	}
	if job.JobID == "" {
		msg := "服务器未返回任务 ID"
		c.report(ActionRescan, ActionError, msg, msg)
		return
	}
	pathText := job.Path
	if pathText == "" {
		pathText = path
	}
	c.jobs.StartScanJob(job.JobID, pathText)
	c.report(ActionRescan, ActionSuccess, "扫描任务已提交", "")
}

// BeginRename starts an inline rename edit on a row.
func (c *Coordinator) BeginRename(path string) { c.rows.BeginRename(path) }

// BeginMove starts an inline move edit on a row.
func (c *Coordinator) BeginMove(path string) { c.rows.BeginMove(path) }

// ClearRow cancels a row edit.
func (c *Coordinator) ClearRow(path string) { c.rows.Clear(path) }

// ApplyRename submits the row's edited name. An empty trimmed name is
// rejected locally. On success the row state is cleared and the directory
// refreshed; on failure the row keeps its mode and error so the user can
// retry or see the failed value. The file list is never mutated optimistically.
func (c *Coordinator) ApplyRename(ctx context.Context, path string) {
	path = Normalize(path)
	row, ok := c.rows.Get(path)
	if !ok || row.Mode != RowRenaming {
		return
	}
	if reason := c.importDisabledReason(); reason != "" {
		c.rows.setPhase(path, RowError, reason)
		return
	}
	newName := strings.TrimSpace(row.Value)
	if newName == "" {
		c.rows.setPhase(path, RowError, "名称不能为空")
		return
	}

	c.rows.setPhase(path, RowPending, "")
	if _, err := c.client.RenameDoc(ctx, path, newName); err != nil {
		c.rows.setPhase(path, RowError, err.Error())
		return
	}
	c.rows.Clear(path)
	c.dir.Refresh(ctx)
}

// ApplyMove submits the row's target directory. Unlike rename, an empty
// value is valid: it normalizes to the root.
func (c *Coordinator) ApplyMove(ctx context.Context, path string) {
	path = Normalize(path)
	row, ok := c.rows.Get(path)
	if !ok || row.Mode != RowMoving {
		return
	}
	if reason := c.importDisabledReason(); reason != "" {
		c.rows.setPhase(path, RowError, reason)
		return
	}
	targetDir := Normalize(row.Value)

	c.rows.setPhase(path, RowPending, "")
	if _, err := c.client.MoveDoc(ctx, path, targetDir); err != nil {
		c.rows.setPhase(path, RowError, err.Error())
		return
	}
	c.rows.Clear(path)
	c.dir.Refresh(ctx)
}

func joinRel(dir, name string) string {
	if dir == "" {
		return name
	}
	return dir + "/" + name
}
