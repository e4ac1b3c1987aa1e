// Package searchsvc is the HTTP client for the course document search
// backend. It speaks the backend's course-scoped wire protocol and owns the
// error taxonomy for upstream failures; it performs no retries.
package searchsvc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/courseloop/coursegw/internal/domain"
)

const (
	// MinPageSize and MaxPageSize bound the page_size the backend accepts.
	MinPageSize = 1
	MaxPageSize = 20

	defaultTimeout = 30 * time.Second
)

// UpstreamError is a non-2xx response from the search backend, carrying the
// upstream status and raw body so callers can surface them verbatim.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("search backend error %d: %s", e.Status, e.Body)
}

// SearchInput describes one retrieval call.
type SearchInput struct {
	CourseID string
	Query    string
	Mode     domain.SearchMode
	PageSize int
	// AuthToken, when set, is forwarded as a bearer credential. The client
	// never inspects it; token validation is the backend's job.
	AuthToken string
}

// SearchResponse is the backend's retrieval response.
type SearchResponse struct {
	Query         string                 `json:"query"`
	Mode          domain.SearchMode      `json:"mode"`
	Results       []domain.DocumentChunk `json:"results"`
	NextPageToken string                 `json:"next_page_token,omitempty"`
}

// RawResponse carries an upstream body and status untouched, for routes that
// pass the backend response through byte-for-byte.
type RawResponse struct {
	Status int
	Body   []byte
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// NewClientWithHTTPClient allows callers to supply their own http.Client,
// e.g. for tighter timeouts in health probes.
func NewClientWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{baseURL: baseURL, httpClient: httpClient}
}

type searchPayload struct {
	Query    string            `json:"query"`
	Mode     domain.SearchMode `json:"mode"`
	PageSize int               `json:"page_size"`
}

// Search performs a scoped document search and decodes the ranked results.
func (c *Client) Search(ctx context.Context, input SearchInput) (*SearchResponse, error) {
	raw, err := c.post(ctx, c.endpoint(input.CourseID, "search"), input)
	if err != nil {
		return nil, err
	}
	return decodeSearchResponse(raw)
}

// RagSearch performs the backend's RAG-oriented retrieval and decodes the
// ranked results.
func (c *Client) RagSearch(ctx context.Context, input SearchInput) (*SearchResponse, error) {
	raw, err := c.post(ctx, c.endpoint(input.CourseID, "ragSearch"), input)
	if err != nil {
		return nil, err
	}
	return decodeSearchResponse(raw)
}

// RagSearchRaw performs the RAG retrieval but keeps the upstream body and
// status untouched, for the passthrough proxy route. Transport failures are
// still returned as errors; non-2xx statuses are not.
func (c *Client) RagSearchRaw(ctx context.Context, input SearchInput) (*RawResponse, error) {
	return c.postRaw(ctx, c.endpoint(input.CourseID, "ragSearch"), input)
}

// BatchCreateInput is the ingestion payload for documents:batchCreate.
// Ingestion belongs to the backend; the gateway only forwards it, which the
// CLI and tests use to seed courses.
type BatchCreateInput struct {
	CourseID  string
	Documents []domain.DocumentChunk
	AuthToken string
}

// BatchCreate forwards a batch of document chunks to the backend.
func (c *Client) BatchCreate(ctx context.Context, input BatchCreateInput) error {
	body := map[string]any{"documents": input.Documents}
	jsonData, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	raw, err := c.doRequest(ctx, c.endpoint(input.CourseID, "batchCreate"), jsonData, input.AuthToken)
	if err != nil {
		return err
	}
	if raw.Status < 200 || raw.Status > 299 {
		return &UpstreamError{Status: raw.Status, Body: string(raw.Body)}
	}
	return nil
}

// Ping checks backend reachability with a minimal search. Used by the
// health endpoint's best-effort probe.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.postRaw(ctx, c.endpoint("_health", "search"), SearchInput{
		Query:    "ping",
		Mode:     domain.SearchModeLexical,
		PageSize: MinPageSize,
	})
	return err
}

func (c *Client) endpoint(courseID, verb string) string {
	return fmt.Sprintf("%s/v1/courses/%s/documents:%s", c.baseURL, url.PathEscape(courseID), verb)
}

func (c *Client) post(ctx context.Context, endpoint string, input SearchInput) (*RawResponse, error) {
	raw, err := c.postRaw(ctx, endpoint, input)
	if err != nil {
		return nil, err
	}
	if raw.Status < 200 || raw.Status > 299 {
		return nil, &UpstreamError{Status: raw.Status, Body: string(raw.Body)}
	}
	return raw, nil
}

func (c *Client) postRaw(ctx context.Context, endpoint string, input SearchInput) (*RawResponse, error) {
	payload := searchPayload{
		Query:    input.Query,
		Mode:     input.Mode,
		PageSize: ClampPageSize(input.PageSize),
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	return c.doRequest(ctx, endpoint, jsonData, input.AuthToken)
}

func (c *Client) doRequest(ctx context.Context, endpoint string, body []byte, authToken string) (*RawResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeTransport, "search backend unreachable", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeTransport, "failed to read search backend response", err)
	}

	return &RawResponse{Status: resp.StatusCode, Body: respBody}, nil
}

func decodeSearchResponse(raw *RawResponse) (*SearchResponse, error) {
	var resp SearchResponse
	if err := json.Unmarshal(raw.Body, &resp); err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeUpstream, "failed to parse search backend response", err)
	}
	return &resp, nil
}

// ClampPageSize coerces a requested page size into the backend's accepted
// range. Zero or negative requests get the minimum rather than an error.
func ClampPageSize(n int) int {
	if n < MinPageSize {
		return MinPageSize
	}
	if n > MaxPageSize {
		return MaxPageSize
	}
	return n
}
