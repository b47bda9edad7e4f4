package catalog

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/tormodhaugland/ipcq/internal/api"
)

// PollInterval is the fixed delay between job status polls.
const PollInterval = 1500 * time.Millisecond

// maxDisplayJobs caps the job row list; only recent status matters to the
// user, oldest rows are silently dropped.
const maxDisplayJobs = 80

// JobKind distinguishes the two background job families.
type JobKind int

const (
	KindImport JobKind = iota
	KindScan
)

func (k JobKind) String() string {
	if k == KindScan {
		return "scan"
	}
	return "import"
}

// DisplayJob is a polled snapshot of one background job, as shown to the
// user. RowID is "<kind>-<job id>", so an import and a scan sharing an
// underlying id never collide.
type DisplayJob struct {
	RowID     string
	Kind      JobKind
	JobID     string
	Status    string
	PathText  string
	Error     string
	UpdatedAt time.Time
}

// Terminal reports whether the job has finished, successfully or not.
func (j DisplayJob) Terminal() bool {
	return j.Status == api.JobSuccess || j.Status == api.JobFailed
}

// PollFetcher is the slice of the API client the tracker needs.
type PollFetcher interface {
	ImportJobStatus(ctx context.Context, jobID string) (*api.ImportJob, error)
	ScanJobStatus(ctx context.Context, jobID string) (*api.ScanJob, error)
}

// JobTracker polls in-flight background jobs until every one of them is
// terminal, then notifies. Imports form a set (several uploads may index
// concurrently); scan is a single slot, because only one rescan per
// directory makes sense at a time. Starting a new scan replaces the tracked
// id.
type JobTracker struct {
	fetch PollFetcher

	mu      sync.Mutex
	imports map[string]string // job id → display path text
	scanID  string
	jobs    []DisplayJob
	polling bool
	ticking bool
	settled func()

	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewJobTracker creates an idle tracker.
func NewJobTracker(fetch PollFetcher) *JobTracker {
	return &JobTracker{
		fetch:   fetch,
		imports: map[string]string{},
		stopCh:  make(chan struct{}),
	}
}

// OnAllSettled registers the callback invoked once each time the last
// outstanding job reaches a terminal state. The page uses it to refresh the
// directory listing exactly once after all background work finishes.
func (t *JobTracker) OnAllSettled(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.settled = fn
}

// StartImportJob registers an import job id for polling and records an
// initial queued row.
func (t *JobTracker) StartImportJob(jobID, pathText string) {
	t.mu.Lock()
	t.imports[jobID] = pathText
	t.polling = true
	t.upsertLocked(DisplayJob{
		RowID:     rowID(KindImport, jobID),
		Kind:      KindImport,
		JobID:     jobID,
		Status:    api.JobQueued,
		PathText:  pathText,
		UpdatedAt: time.Now(),
	})
	t.mu.Unlock()
}

// StartScanJob registers a scan job id for polling. Any previously tracked
// scan id is overwritten.
func (t *JobTracker) StartScanJob(jobID, pathText string) {
	t.mu.Lock()
	t.scanID = jobID
	t.polling = true
	t.upsertLocked(DisplayJob{
		RowID:     rowID(KindScan, jobID),
		Kind:      KindScan,
		JobID:     jobID,
		Status:    api.JobQueued,
		PathText:  pathText,
		UpdatedAt: time.Now(),
	})
	t.mu.Unlock()
}

// PushLocalFailure records a synthetic failed row for an operation that
// never produced a server-side job (for example an upload whose request
// failed). The row id is unique per call.
func (t *JobTracker) PushLocalFailure(kind JobKind, pathText, errMsg string) {
	t.mu.Lock()
	t.upsertLocked(DisplayJob{
		RowID:     fmt.Sprintf("error-%d-%06d", time.Now().UnixMilli(), rand.Intn(1000000)),
		Kind:      kind,
		Status:    api.JobFailed,
		PathText:  pathText,
		Error:     errMsg,
		UpdatedAt: time.Now(),
	})
	t.mu.Unlock()
}

// Active reports whether any job is still being polled.
func (t *JobTracker) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.imports) > 0 || t.scanID != ""
}

// Jobs returns a snapshot of the display rows, most recently updated first.
func (t *JobTracker) Jobs() []DisplayJob {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]DisplayJob(nil), t.jobs...)
}

// Tick performs one polling pass over every active job. A tick that fires
// while the previous one is still in flight is skipped entirely, not queued:
// this bounds concurrent requests against a slow server, at the cost of
// seeing a status transition one interval late.
//
// A job whose status fetch fails is dropped from the active set; its row is
// updated to a terminal failed state carrying the poll error so the user is
// not left watching a stale entry.
func (t *JobTracker) Tick(ctx context.Context) {
	t.mu.Lock()
	if t.ticking {
		t.mu.Unlock()
		return
	}
	t.ticking = true
	importIDs := make(map[string]string, len(t.imports))
	for id, p := range t.imports {
		importIDs[id] = p
	}
	scanID := t.scanID
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		t.ticking = false
		t.mu.Unlock()
	}()

	for id, pathText := range importIDs {
		job, err := t.fetch.ImportJobStatus(ctx, id)
		if err != nil {
			t.dropImport(id, pathText, err)
			continue
		}
		display := DisplayJob{
			RowID:     rowID(KindImport, id),
			Kind:      KindImport,
			JobID:     id,
			Status:    job.Status,
			PathText:  importPathText(job, pathText),
			Error:     job.Error,
			UpdatedAt: time.Now(),
		}
		t.mu.Lock()
		t.upsertLocked(display)
		if display.Terminal() {
			delete(t.imports, id)
		}
		t.mu.Unlock()
	}

	if scanID != "" {
		job, err := t.fetch.ScanJobStatus(ctx, scanID)
		if err != nil {
			t.dropScan(scanID, err)
		} else {
			display := DisplayJob{
				RowID:     rowID(KindScan, scanID),
				Kind:      KindScan,
				JobID:     scanID,
				Status:    job.Status,
				PathText:  job.Path,
				Error:     job.Error,
				UpdatedAt: time.Now(),
			}
			t.mu.Lock()
			t.upsertLocked(display)
			if display.Terminal() && t.scanID == scanID {
				t.scanID = ""
			}
			t.mu.Unlock()
		}
	}

	t.maybeSettle()
}

// Run polls on a fixed interval until every job settles, the context is
// canceled, or Stop is called. Intended for CLI use; the TUI drives Tick
// from its own message loop instead.
func (t *JobTracker) Run(ctx context.Context) {
	ticker := time.NewTicker(PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.stopCh:
			return
		case <-ticker.C:
			t.Tick(ctx)
			if !t.Active() {
				return
			}
		}
	}
}

// Stop ends any Run loop. It must be called on teardown so that no timer
// keeps hitting the network after the page is gone. In-flight status fetches
// are not canceled; only the loop stops.
func (t *JobTracker) Stop() {
	t.stopOnce.Do(func() { close(t.stopCh) })
}

func (t *JobTracker) dropImport(id, pathText string, err error) {
	t.mu.Lock()
	delete(t.imports, id)
	t.upsertLocked(DisplayJob{
		RowID:     rowID(KindImport, id),
		Kind:      KindImport,
		JobID:     id,
		Status:    api.JobFailed,
		PathText:  pathText,
		Error:     fmt.Sprintf("任务状态查询失败：%v", err),
		UpdatedAt: time.Now(),
	})
	t.mu.Unlock()
}

func (t *JobTracker) dropScan(id string, err error) {
	t.mu.Lock()
	if t.scanID == id {
		t.scanID = ""
	}
	t.upsertLocked(DisplayJob{
		RowID:     rowID(KindScan, id),
		Kind:      KindScan,
		JobID:     id,
		Status:    api.JobFailed,
		Error:     fmt.Sprintf("任务状态查询失败：%v", err),
		UpdatedAt: time.Now(),
	})
	t.mu.Unlock()
}

// maybeSettle fires the settle callback exactly once per transition from
// "jobs outstanding" to "all settled".
func (t *JobTracker) maybeSettle() {
	t.mu.Lock()
	var fn func()
	if t.polling && len(t.imports) == 0 && t.scanID == "" {
		t.polling = false
		fn = t.settled
	}
	t.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// upsertLocked inserts or refreshes a row. Re-observing a row moves it to
// the front, keeping the list most-recently-updated-first.
func (t *JobTracker) upsertLocked(job DisplayJob) {
	for i, existing := range t.jobs {
		if existing.RowID == job.RowID {
			t.jobs = append(t.jobs[:i], t.jobs[i+1:]...)
			break
		}
	}
	t.jobs = append([]DisplayJob{job}, t.jobs...)
	if len(t.jobs) > maxDisplayJobs {
		t.jobs = t.jobs[:maxDisplayJobs]
	}
}

func rowID(kind JobKind, jobID string) string {
	return kind.String() + "-" + jobID
}

func importPathText(job *api.ImportJob, fallback string) string {
	switch {
	case job.RelativePath != "":
		return job.RelativePath
	case job.Filename != "":
		return job.Filename
	default:
		return fallback
	}
}
