package devserver

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jotdown/jot/internal/note"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()

	ds := New(log.New(io.Discard, "", 0))
	srv := httptest.NewServer(ds.Handler("/api"))
	t.Cleanup(srv.Close)
	return ds, srv
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response: %v", err)
	}
	return resp, data
}

func TestListWrapsNotes(t *testing.T) {
	ds, srv := newTestServer(t)
	ds.Seed([]note.Note{{ID: "1", Title: "seeded", CreatedAt: 1, UpdatedAt: 1}})

	resp, data := doJSON(t, http.MethodGet, srv.URL+"/api/notes", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var payload struct {
		Notes []note.Note `json:"notes"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if len(payload.Notes) != 1 || payload.Notes[0].Title != "seeded" {
		t.Errorf("notes = %v, want the seeded note", payload.Notes)
	}
}

func TestCreateAssignsSequentialIDs(t *testing.T) {
	ds, srv := newTestServer(t)

	for i, want := range []string{"1", "2"} {
		resp, data := doJSON(t, http.MethodPost, srv.URL+"/api/notes",
			map[string]any{"title": "note", "createdAt": i, "updatedAt": i})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("status = %d, want 201", resp.StatusCode)
		}
		var created note.Note
		if err := json.Unmarshal(data, &created); err != nil {
			t.Fatalf("invalid response: %v", err)
		}
		if created.ID != want {
			t.Errorf("ID = %q, want %q", created.ID, want)
		}
	}
	if got := len(ds.Notes()); got != 2 {
		t.Errorf("server holds %d notes, want 2", got)
	}
}

func TestGetAndNotFound(t *testing.T) {
	ds, srv := newTestServer(t)
	ds.Seed([]note.Note{{ID: "n1", Title: "hello", CreatedAt: 1, UpdatedAt: 1}})

	resp, data := doJSON(t, http.MethodGet, srv.URL+"/api/notes/n1", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var got note.Note
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if got.Title != "hello" {
		t.Errorf("Title = %q, want hello", got.Title)
	}

	resp, data = doJSON(t, http.MethodGet, srv.URL+"/api/notes/missing", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
	var errPayload map[string]string
	if err := json.Unmarshal(data, &errPayload); err != nil {
		t.Fatalf("invalid error body: %v", err)
	}
	if errPayload["message"] == "" {
		t.Error("404 body carries no message")
	}
}

func TestUpdatePatchesFields(t *testing.T) {
	ds, srv := newTestServer(t)
	ds.Seed([]note.Note{{ID: "n1", Title: "old", Content: "keep", CreatedAt: 1, UpdatedAt: 1}})

	resp, data := doJSON(t, http.MethodPatch, srv.URL+"/api/notes/n1",
		map[string]any{"title": "new"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var updated note.Note
	if err := json.Unmarshal(data, &updated); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if updated.Title != "new" || updated.Content != "keep" {
		t.Errorf("updated = %+v, want only the title patched", updated)
	}
	if updated.UpdatedAt <= 1 {
		t.Errorf("UpdatedAt = %d, want bumped", updated.UpdatedAt)
	}
}

func TestDelete(t *testing.T) {
	ds, srv := newTestServer(t)
	ds.Seed([]note.Note{{ID: "n1", CreatedAt: 1, UpdatedAt: 1}})

	resp, data := doJSON(t, http.MethodDelete, srv.URL+"/api/notes/n1", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var payload map[string]bool
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if !payload["success"] {
		t.Error("success = false, want true")
	}

	resp, _ = doJSON(t, http.MethodDelete, srv.URL+"/api/notes/n1", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", resp.StatusCode)
	}
}
