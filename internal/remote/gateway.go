// Package remote performs REST operations against a configured note
// backend, translating every failure mode into one normalized error shape.
//
// The gateway is stateless per call and never invents data: a 2xx response
// with an unparseable body is BAD_JSON, a create response without a usable
// id is a failure, and anything the server returns passes through the same
// normalization as locally stored notes.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/jotdown/jot/internal/note"
)

// DefaultTimeout bounds every request unless configured otherwise.
const DefaultTimeout = 8 * time.Second

// Doer issues a single HTTP request. *http.Client satisfies it; tests
// substitute their own transport.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config holds gateway configuration.
type Config struct {
	// BaseURL is the backend host plus API path prefix, e.g.
	// "https://notes.example.com/api". Must be non-empty; the decision to
	// skip the remote entirely belongs to the sync layer, not here.
	BaseURL string

	// Timeout aborts in-flight requests (default 8s).
	Timeout time.Duration

	// Client is the HTTP transport (default http.DefaultClient).
	Client Doer

	// Logger for request failures (default stderr).
	Logger *log.Logger
}

// Gateway performs note CRUD against the configured backend.
type Gateway struct {
	baseURL string
	timeout time.Duration
	client  Doer
	logger  *log.Logger
}

// New creates a gateway from cfg, applying defaults for unset fields.
func New(cfg Config) *Gateway {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Client == nil {
		cfg.Client = http.DefaultClient
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(os.Stderr, "[remote] ", log.LstdFlags)
	}
	return &Gateway{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		timeout: cfg.Timeout,
		client:  cfg.Client,
		logger:  cfg.Logger,
	}
}

// request performs one HTTP round trip and normalizes every failure.
// It returns the raw response body for 2xx statuses; an empty body is a
// valid null payload.
func (g *Gateway) request(ctx context.Context, method, path string, body any) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, &Error{Code: CodeUnknown, Message: fmt.Sprintf("failed to encode request: %v", err)}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return nil, &Error{Code: CodeUnknown, Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, classifyTransport(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransport(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{
			Code:    HTTPCode(resp.StatusCode),
			Message: errorMessage(data, resp.StatusCode),
		}
	}
	return data, nil
}

// classifyTransport maps a transport error to TIMEOUT or FETCH_FAILED.
func classifyTransport(err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Code: CodeTimeout, Message: "request timed out"}
	}
	var ue *url.Error
	if errors.As(err, &ue) && ue.Timeout() {
		return &Error{Code: CodeTimeout, Message: "request timed out"}
	}
	return &Error{Code: CodeFetchFailed, Message: err.Error()}
}

// errorMessage extracts a best-effort human message from a non-2xx body,
// falling back to the status text.
func errorMessage(body []byte, status int) string {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, key := range []string{"message", "error"} {
			if s, ok := payload[key].(string); ok && s != "" {
				return s
			}
		}
	}
	return http.StatusText(status)
}

// List fetches all notes. The backend may answer with a bare array or an
// object carrying a "notes" array; anything else yields an empty list.
func (g *Gateway) List(ctx context.Context) ([]note.Note, error) {
	data, err := g.request(ctx, http.MethodGet, "/notes", nil)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &Error{Code: CodeBadJSON, Message: err.Error()}
	}

	var elements []any
	switch v := raw.(type) {
	case []any:
		elements = v
	case map[string]any:
		if arr, ok := v["notes"].([]any); ok {
			elements = arr
		}
	}

	notes := make([]note.Note, 0, len(elements))
	for _, el := range elements {
		if n := note.Normalize(el); n != nil && n.ID != "" {
			notes = append(notes, *n)
		}
	}
	return notes, nil
}

// Get fetches one note by id, returning nil for an empty payload.
func (g *Gateway) Get(ctx context.Context, id string) (*note.Note, error) {
	data, err := g.request(ctx, http.MethodGet, "/notes/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	return g.decodeNote(data)
}

// Create posts a new note. The server assigns the id; if the response
// lacks one, Create reports a failure rather than inventing an id.
func (g *Gateway) Create(ctx context.Context, n note.Note) (*note.Note, error) {
	payload := map[string]any{
		"title":     n.Title,
		"content":   n.Content,
		"createdAt": n.CreatedAt,
		"updatedAt": n.UpdatedAt,
	}
	data, err := g.request(ctx, http.MethodPost, "/notes", payload)
	if err != nil {
		return nil, err
	}

	created, err := g.decodeNote(data)
	if err != nil {
		return nil, err
	}
	if created == nil || created.ID == "" {
		return nil, &Error{Code: CodeUnknown, Message: "create response lacks a usable id"}
	}
	return created, nil
}

// Update patches an existing note, returning the canonical record or nil
// for an empty payload.
func (g *Gateway) Update(ctx context.Context, id string, p note.Patch) (*note.Note, error) {
	data, err := g.request(ctx, http.MethodPatch, "/notes/"+url.PathEscape(id), p)
	if err != nil {
		return nil, err
	}
	return g.decodeNote(data)
}

// Delete removes a note, returning true iff the server affirms success.
// Any 2xx affirms unless the body explicitly says otherwise.
func (g *Gateway) Delete(ctx context.Context, id string) (bool, error) {
	data, err := g.request(ctx, http.MethodDelete, "/notes/"+url.PathEscape(id), nil)
	if err != nil {
		return false, err
	}
	if len(data) == 0 {
		return true, nil
	}

	var asBool bool
	if err := json.Unmarshal(data, &asBool); err == nil {
		return asBool, nil
	}
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err == nil {
		if ok, present := payload["success"].(bool); present {
			return ok, nil
		}
	}
	return true, nil
}

// decodeNote normalizes a 2xx response body into a note. An empty body is
// a valid null payload; a malformed one is BAD_JSON.
func (g *Gateway) decodeNote(data []byte) (*note.Note, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &Error{Code: CodeBadJSON, Message: err.Error()}
	}
	return note.Normalize(raw), nil
}
