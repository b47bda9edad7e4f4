// Package api implements the HTTP client for the IPC query server.
//
// Every method maps to one documented endpoint. Errors from non-2xx responses
// are returned as *Error with the message extracted from the response body
// when the server provided one.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client talks to one IPC query server.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// New creates a client for the server at baseURL. A zero timeout falls back
// to 30 seconds.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// SetAPIKey sets the X-API-Key header value sent on write requests. The
// server only enforces it when write_auth_mode is "api_key".
func (c *Client) SetAPIKey(key string) {
	c.apiKey = key
}

// BaseURL returns the configured server base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Error is a non-2xx response from the server.
type Error struct {
	StatusCode int
	StatusText string
	Code       string // machine code from the body "error" field, e.g. "NOT_FOUND"
	Message    string // human message from the body, if any
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%d %s", e.StatusCode, e.StatusText)
}

// IsNotFound reports whether err is a server 404.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// decodeError turns a non-2xx response into an *Error, pulling the message
// out of the JSON body when there is one.
func decodeError(resp *http.Response) error {
	apiErr := &Error{
		StatusCode: resp.StatusCode,
		StatusText: http.StatusText(resp.StatusCode),
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err == nil && len(body) > 0 {
		var payload struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if json.Unmarshal(body, &payload) == nil {
			apiErr.Code = payload.Error
			if payload.Message != "" {
				apiErr.Message = payload.Message
			} else if payload.Error != "" && !looksLikeCode(payload.Error) {
				apiErr.Message = payload.Error
			}
		}
	}
	return apiErr
}

// looksLikeCode reports whether s is a machine error code like "NOT_FOUND"
// rather than a human-readable message.
func looksLikeCode(s string) bool {
	for _, r := range s {
		if r != '_' && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.applyAuth(req)
	return c.do(req, out)
}

func (c *Client) applyAuth(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}

// Capabilities fetches the server feature flags.
func (c *Client) Capabilities(ctx context.Context) (*Capabilities, error) {
	var caps Capabilities
	if err := c.getJSON(ctx, "/api/capabilities", nil, &caps); err != nil {
		return nil, err
	}
	return &caps, nil
}

// Health fetches the server health report.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var h Health
	if err := c.getJSON(ctx, "/api/health", nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// Search runs a full-text/part-number search.
func (c *Client) Search(ctx context.Context, q SearchQuery) (*SearchResponse, error) {
	query := url.Values{}
	query.Set("q", q.Query)
	if q.Match != "" {
		query.Set("match", q.Match)
	}
	if q.Sort != "" {
		query.Set("sort", q.Sort)
	}
	if q.Page > 0 {
		query.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		query.Set("page_size", strconv.Itoa(q.PageSize))
	}
	if q.IncludeNotes {
		query.Set("include_notes", "1")
	}
	if q.SourcePDF != "" {
		query.Set("source_pdf", q.SourcePDF)
	}
	if q.SourceDir != "" {
		query.Set("source_dir", q.SourceDir)
	}
	var resp SearchResponse
	if err := c.getJSON(ctx, "/api/search", query, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Part fetches the full detail record for one part id.
func (c *Client) Part(ctx context.Context, id int64) (*PartDetail, error) {
	var detail PartDetail
	if err := c.getJSON(ctx, "/api/part/"+strconv.FormatInt(id, 10), nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Docs fetches the flat list of all indexed documents.
func (c *Client) Docs(ctx context.Context) ([]Document, error) {
	var docs []Document
	if err := c.getJSON(ctx, "/api/docs", nil, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// DocsTree fetches one directory level of the remote tree. The returned
// node's Path is server-canonicalized and may differ from the request.
func (c *Client) DocsTree(ctx context.Context, path string) (*TreeNode, error) {
	query := url.Values{}
	if path != "" {
		query.Set("path", path)
	}
	var node TreeNode
	if err := c.getJSON(ctx, "/api/docs/tree", query, &node); err != nil {
		return nil, err
	}
	return &node, nil
}

// BatchDelete deletes multiple documents. Per-path failures are reported in
// the result, not as an error.
func (c *Client) BatchDelete(ctx context.Context, paths []string) (*BatchDeleteResult, error) {
	body := map[string]any{"paths": paths}
	var result BatchDeleteResult
	if err := c.postJSON(ctx, "/api/docs/batch-delete", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// RenameDoc renames a document in place.
func (c *Client) RenameDoc(ctx context.Context, path, newName string) (*MutationResult, error) {
	body := map[string]string{"path": path, "new_name": newName}
	var result MutationResult
	if err := c.postJSON(ctx, "/api/docs/rename", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// MoveDoc moves a document to another directory. An empty targetDir means
// the root.
func (c *Client) MoveDoc(ctx context.Context, path, targetDir string) (*MutationResult, error) {
	body := map[string]string{"path": path, "target_dir": targetDir}
	var result MutationResult
	if err := c.postJSON(ctx, "/api/docs/move", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateFolder creates a subdirectory of path. The server only allows
// creation directly under the root.
func (c *Client) CreateFolder(ctx context.Context, path, name string) (*FolderCreateResult, error) {
	body := map[string]string{"path": path, "name": name}
	var result FolderCreateResult
	if err := c.postJSON(ctx, "/api/folders", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Upload submits one PDF for import. The file bytes go as the raw request
// body; filename and target directory travel in the query string and are
// mirrored in the X-File-Name / X-Target-Dir headers for server convenience.
func (c *Client) Upload(ctx context.Context, filename, targetDir string, content io.Reader, size int64) (*ImportJob, error) {
	query := url.Values{}
	query.Set("filename", filename)
	if targetDir != "" {
		query.Set("target_dir", targetDir)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/import?"+query.Encode(), content)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.ContentLength = size
	req.Header.Set("Content-Type", "application/pdf")
	req.Header.Set("X-File-Name", filename)
	if targetDir != "" {
		req.Header.Set("X-Target-Dir", targetDir)
	}
	c.applyAuth(req)

	var job ImportJob
	if err := c.do(req, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// ImportJobStatus fetches the status of one import job.
func (c *Client) ImportJobStatus(ctx context.Context, jobID string) (*ImportJob, error) {
	var job ImportJob
	if err := c.getJSON(ctx, "/api/import/"+url.PathEscape(jobID), nil, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// ImportJobs fetches the most recent import jobs.
func (c *Client) ImportJobs(ctx context.Context, limit int) ([]ImportJob, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	var resp struct {
		Jobs []ImportJob `json:"jobs"`
	}
	if err := c.getJSON(ctx, "/api/import/jobs", query, &resp); err != nil {
		return nil, err
	}
	return resp.Jobs, nil
}

// SubmitScan asks the server to rescan a directory.
func (c *Client) SubmitScan(ctx context.Context, path string) (*ScanJob, error) {
	query := url.Values{}
	if path != "" {
		query.Set("path", path)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/scan?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	c.applyAuth(req)
	var job ScanJob
	if err := c.do(req, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// ScanJobStatus fetches the status of one scan job.
func (c *Client) ScanJobStatus(ctx context.Context, jobID string) (*ScanJob, error) {
	var job ScanJob
	if err := c.getJSON(ctx, "/api/scan/"+url.PathEscape(jobID), nil, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// RenderPage fetches the rasterized PNG for one PDF page. Scale is clamped
// by the server to [1.0, 4.0].
func (c *Client) RenderPage(ctx context.Context, pdfName string, page int, scale float64) ([]byte, error) {
	query := url.Values{}
	if scale > 0 {
		query.Set("scale", strconv.FormatFloat(scale, 'f', 2, 64))
	}
	u := fmt.Sprintf("%s/render/%s/%d.png", c.baseURL, url.PathEscape(pdfName), page)
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}
	return io.ReadAll(resp.Body)
}

// FetchPDF opens a stream over the raw PDF bytes. The caller must close the
// returned reader.
func (c *Client) FetchPDF(ctx context.Context, pdfName string) (io.ReadCloser, int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/pdf/"+url.PathEscape(pdfName), nil)
	if err != nil {
		return nil, 0, fmt.Errorf("creating request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("executing request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, 0, decodeError(resp)
	}
	return resp.Body, resp.ContentLength, nil
}
