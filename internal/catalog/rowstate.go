package catalog

import "sync"

// RowMode is the edit mode of one file row.
type RowMode int

const (
	RowNormal RowMode = iota
	RowRenaming
	RowMoving
)

// RowPhase tracks the lifecycle of the edit in progress.
type RowPhase int

const (
	RowIdle RowPhase = iota
	RowPending
	RowError
)

// RowAction is the ephemeral inline rename/move state of one file row. It is
// created on the first begin-rename/begin-move action and removed again on
// success or cancel; rows without an entry are in their normal state.
type RowAction struct {
	Mode  RowMode
	Value string
	Phase RowPhase
	Err   string
}

// RowActions holds per-file edit state keyed by normalized file path.
// Independent edits on different rows may run concurrently; each path holds
// at most one active edit.
type RowActions struct {
	mu   sync.Mutex
	rows map[string]*RowAction
}

// NewRowActions creates an empty state map.
func NewRowActions() *RowActions {
	return &RowActions{rows: map[string]*RowAction{}}
}

// BeginRename seeds a renaming edit with the file's basename.
func (r *RowActions) BeginRename(path string) {
	path = Normalize(path)
	r.mu.Lock()
	r.rows[path] = &RowAction{Mode: RowRenaming, Value: Basename(path)}
	r.mu.Unlock()
}

// BeginMove seeds a moving edit with the file's current directory.
func (r *RowActions) BeginMove(path string) {
	path = Normalize(path)
	r.mu.Lock()
	r.rows[path] = &RowAction{Mode: RowMoving, Value: ParentDir(path)}
	r.mu.Unlock()
}

// Get returns a copy of the row's state. The second result is false when the
// row is in its normal state.
func (r *RowActions) Get(path string) (RowAction, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[Normalize(path)]
	if !ok {
		return RowAction{}, false
	}
	return *row, true
}

// SetValue updates the edit buffer of an active row.
func (r *RowActions) SetValue(path, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if row, ok := r.rows[Normalize(path)]; ok {
		row.Value = value
	}
}

// Clear discards the row's edit state unconditionally (cancel).
func (r *RowActions) Clear(path string) {
	r.mu.Lock()
	delete(r.rows, Normalize(path))
	r.mu.Unlock()
}

func (r *RowActions) setPhase(path string, phase RowPhase, errMsg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if row, ok := r.rows[Normalize(path)]; ok {
		row.Phase = phase
		row.Err = errMsg
	}
}
