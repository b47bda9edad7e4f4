package api

// Request/response shapes for the IPC query server's JSON API. Field names
// follow the wire format exactly; the server is the source of truth.

// Document is one indexed PDF as stored in the server database.
type Document struct {
	ID           int64  `json:"id"`
	PDFName      string `json:"pdf_name"`
	RelativePath string `json:"relative_path,omitempty"`
	CreatedAt    string `json:"created_at,omitempty"`
}

// TreeDir is an immediate subdirectory entry in a tree listing.
type TreeDir struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// TreeFile is a leaf PDF entry in a tree listing. Document is nil for files
// present on disk but not yet indexed.
type TreeFile struct {
	Name         string    `json:"name"`
	RelativePath string    `json:"relative_path"`
	Indexed      bool      `json:"indexed"`
	Document     *Document `json:"document,omitempty"`
}

// TreeNode is one directory level of the remote tree. Path is the
// server-canonicalized relative path ("" = root) and may differ from the
// path that was requested.
type TreeNode struct {
	Path        string    `json:"path"`
	Directories []TreeDir `json:"directories"`
	Files       []TreeFile `json:"files"`
}

// BatchDeleteDetails carries disambiguation hints for CONFLICT failures.
type BatchDeleteDetails struct {
	Candidates []string `json:"candidates,omitempty"`
}

// BatchDeleteItem is the per-path outcome of a batch delete.
type BatchDeleteItem struct {
	Path      string              `json:"path"`
	OK        bool                `json:"ok"`
	Error     string              `json:"error,omitempty"`
	ErrorCode string              `json:"error_code,omitempty"`
	Details   *BatchDeleteDetails `json:"details,omitempty"`
}

// BatchDeleteResult is the overall batch delete response. A response with
// Failed > 0 is still a successful call; per-item outcomes are in Results.
type BatchDeleteResult struct {
	Total   int               `json:"total"`
	Deleted int               `json:"deleted"`
	Failed  int               `json:"failed"`
	Results []BatchDeleteItem `json:"results"`
}

// MutationResult is the response to a rename or move.
type MutationResult struct {
	Updated bool   `json:"updated"`
	OldPath string `json:"old_path"`
	NewPath string `json:"new_path"`
	PDFName string `json:"pdf_name"`
}

// FolderCreateResult is the response to a folder create.
type FolderCreateResult struct {
	Created bool   `json:"created"`
	Path    string `json:"path"`
}

// Job status values shared by import and scan jobs.
const (
	JobQueued  = "queued"
	JobRunning = "running"
	JobSuccess = "success"
	JobFailed  = "failed"
)

// ImportJob is a background PDF import/indexing job.
type ImportJob struct {
	JobID        string         `json:"job_id"`
	Filename     string         `json:"filename,omitempty"`
	RelativePath string         `json:"relative_path,omitempty"`
	Status       string         `json:"status"`
	Error        string         `json:"error,omitempty"`
	Summary      map[string]any `json:"summary,omitempty"`
}

// ScanJob is a background directory rescan job.
type ScanJob struct {
	JobID  string `json:"job_id"`
	Path   string `json:"path,omitempty"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Capabilities are the server-advertised feature flags fetched once per
// session. The reason strings are user-facing and already localized by the
// server; they are empty when the corresponding feature is enabled.
type Capabilities struct {
	ImportEnabled     bool   `json:"import_enabled"`
	ScanEnabled       bool   `json:"scan_enabled"`
	ImportReason      string `json:"import_reason"`
	ScanReason        string `json:"scan_reason"`
	WriteAuthMode     string `json:"write_auth_mode,omitempty"`
	WriteAuthRequired bool   `json:"write_auth_required,omitempty"`
	DirectoryPolicy   string `json:"directory_policy,omitempty"`
}

// SearchQuery holds the parameters of a search request.
type SearchQuery struct {
	Query        string
	Match        string // "all", "pn" or "term"
	Sort         string
	Page         int
	PageSize     int
	IncludeNotes bool
	SourcePDF    string
	SourceDir    string
}

// SearchResult is one row of a search response.
type SearchResult struct {
	ID                   int64   `json:"id"`
	SourcePDF            string  `json:"source_pdf"`
	PageNum              int     `json:"page_num"`
	PageEnd              int     `json:"page_end,omitempty"`
	FigureCode           string  `json:"figure_code,omitempty"`
	FigureLabel          string  `json:"figure_label,omitempty"`
	DateText             string  `json:"date_text,omitempty"`
	RowKind              string  `json:"row_kind"`
	FigItem              string  `json:"fig_item,omitempty"`
	NotIllustrated       int     `json:"not_illustrated,omitempty"`
	PartNumberCell       string  `json:"part_number_cell,omitempty"`
	PartNumberExtracted  string  `json:"part_number_extracted,omitempty"`
	PartNumberCanonical  string  `json:"part_number_canonical,omitempty"`
	PNCorrected          int     `json:"pn_corrected,omitempty"`
	PNNeedsReview        int     `json:"pn_needs_review,omitempty"`
	PNBestSimilarity     float64 `json:"pn_best_similarity,omitempty"`
	NomLevel             int     `json:"nom_level,omitempty"`
	ParentPartID         *int64  `json:"parent_part_id,omitempty"`
	Effectivity          string  `json:"effectivity,omitempty"`
	UnitsPerAssy         string  `json:"units_per_assy,omitempty"`
	NomenclaturePreview  string  `json:"nomenclature_preview,omitempty"`
}

// SearchResponse is the paged search response.
type SearchResponse struct {
	Query     string         `json:"query"`
	Count     int            `json:"count"`
	Total     int            `json:"total"`
	Page      int            `json:"page"`
	PageSize  int            `json:"page_size"`
	Match     string         `json:"match"`
	ElapsedMS int            `json:"elapsed_ms"`
	Results   []SearchResult `json:"results"`
}

// PartNode is the summary shape used in part hierarchies.
type PartNode struct {
	ID           int64  `json:"id"`
	RowKind      string `json:"row_kind"`
	SourcePDF    string `json:"source_pdf"`
	PageNum      int    `json:"page_num"`
	FigureCode   string `json:"figure_code,omitempty"`
	FigItem      string `json:"fig_item,omitempty"`
	PartNumber   string `json:"part_number"`
	NomLevel     int    `json:"nom_level"`
	Nomenclature string `json:"nomenclature"`
	ParentPartID *int64 `json:"parent_part_id,omitempty"`
}

// Hierarchy places a part among its ancestors, siblings and children.
type Hierarchy struct {
	Ancestors []PartNode `json:"ancestors"`
	Siblings  []PartNode `json:"siblings"`
	Children  []PartNode `json:"children"`
	Root      *PartNode  `json:"root,omitempty"`
}

// Xref is a cross-reference attached to a part row.
type Xref struct {
	Kind   string `json:"kind"`
	Target string `json:"target"`
}

// Alias is an alternative part-number spelling.
type Alias struct {
	AliasType  string `json:"alias_type"`
	AliasValue string `json:"alias_value"`
}

// AttachedNote is a note row attached to a part.
type AttachedNote struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}

// Part is the full detail record for one part row.
type Part struct {
	ID                  int64          `json:"id"`
	SourcePDF           string         `json:"source_pdf"`
	PageNum             int            `json:"page_num"`
	PageEnd             int            `json:"page_end,omitempty"`
	FigureCode          string         `json:"figure_code,omitempty"`
	FigureLabel         string         `json:"figure_label,omitempty"`
	DateText            string         `json:"date_text,omitempty"`
	RowKind             string         `json:"row_kind"`
	FigItem             string         `json:"fig_item,omitempty"`
	NotIllustrated      int            `json:"not_illustrated,omitempty"`
	PartNumberCell      string         `json:"part_number_cell,omitempty"`
	PartNumberExtracted string         `json:"part_number_extracted,omitempty"`
	PartNumberCanonical string         `json:"part_number_canonical,omitempty"`
	NomLevel            int            `json:"nom_level,omitempty"`
	Nomenclature        string         `json:"nomenclature,omitempty"`
	NomenclatureClean   string         `json:"nomenclature_clean,omitempty"`
	NomenclatureFull    string         `json:"nomenclature_full,omitempty"`
	ParentPartID        *int64         `json:"parent_part_id,omitempty"`
	Effectivity         string         `json:"effectivity,omitempty"`
	UnitsPerAssy        string         `json:"units_per_assy,omitempty"`
	AttachedNotes       []AttachedNote `json:"attached_notes,omitempty"`
}

// PartDetail is the /api/part/:id response.
type PartDetail struct {
	Part      Part      `json:"part"`
	Xrefs     []Xref    `json:"xrefs"`
	Aliases   []Alias   `json:"aliases"`
	Hierarchy Hierarchy `json:"hierarchy"`
}

// Health is the /api/health response.
type Health struct {
	Status   string         `json:"status"`
	Version  string         `json:"version"`
	Database map[string]any `json:"database"`
}
