package notestore

import (
	"encoding/json"
	"io"
	"log"
	"testing"

	"github.com/jotdown/jot/internal/note"
	"github.com/jotdown/jot/internal/storage"
)

func setupStore(t *testing.T) (*Store, *storage.MemoryStore) {
	t.Helper()

	kv := storage.NewMemoryStore()
	return New(kv, log.New(io.Discard, "", 0)), kv
}

func TestReadAllTolerance(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"missing key", ""},
		{"malformed JSON", "{not json"},
		{"non-array", `{"id":"1"}`},
		{"scalar", `42`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, kv := setupStore(t)
			if tt.payload != "" {
				if err := kv.Write(StorageKey, []byte(tt.payload)); err != nil {
					t.Fatalf("failed to seed payload: %v", err)
				}
			}
			if got := store.ReadAll(); len(got) != 0 {
				t.Errorf("ReadAll() = %v, want empty", got)
			}
		})
	}
}

func TestReadAllDropsInvalidElements(t *testing.T) {
	store, kv := setupStore(t)

	payload := `[
		{"id":"keep","title":"a","createdAt":1,"updatedAt":1},
		{"title":"no id"},
		"not an object",
		{"id":42,"title":"numeric id","createdAt":2,"updatedAt":2}
	]`
	if err := kv.Write(StorageKey, []byte(payload)); err != nil {
		t.Fatalf("failed to seed payload: %v", err)
	}

	notes := store.ReadAll()
	if len(notes) != 2 {
		t.Fatalf("ReadAll() returned %d notes, want 2", len(notes))
	}
	if notes[0].ID != "keep" || notes[1].ID != "42" {
		t.Errorf("ReadAll() ids = %q, %q; want keep, 42", notes[0].ID, notes[1].ID)
	}
}

func TestCreatePrepends(t *testing.T) {
	store, _ := setupStore(t)

	first := store.Create("first", "")
	second := store.Create("second", "")

	notes := store.ReadAll()
	if len(notes) != 2 {
		t.Fatalf("got %d notes, want 2", len(notes))
	}
	if notes[0].ID != second.ID || notes[1].ID != first.ID {
		t.Errorf("stored order = %q, %q; want newest first", notes[0].ID, notes[1].ID)
	}
	if first.ID == second.ID {
		t.Error("Create reused an id")
	}
	if first.CreatedAt <= 0 || first.UpdatedAt <= 0 {
		t.Errorf("Create left timestamps unset: %+v", first)
	}
}

func TestUpdate(t *testing.T) {
	store, _ := setupStore(t)
	n := store.Create("title", "content")

	title := "patched"
	updated := store.Update(n.ID, note.Patch{Title: &title})
	if updated == nil {
		t.Fatal("Update returned nil for existing id")
	}
	if updated.Title != "patched" {
		t.Errorf("Title = %q, want %q", updated.Title, "patched")
	}
	if updated.Content != "content" {
		t.Errorf("Content = %q, want untouched", updated.Content)
	}
	if updated.UpdatedAt < n.UpdatedAt {
		t.Errorf("UpdatedAt went backwards: %d -> %d", n.UpdatedAt, updated.UpdatedAt)
	}

	if got := store.Update("absent", note.Patch{Title: &title}); got != nil {
		t.Errorf("Update(absent) = %+v, want nil", got)
	}
}

func TestDelete(t *testing.T) {
	store, _ := setupStore(t)
	n := store.Create("goner", "")

	if !store.Delete(n.ID) {
		t.Error("Delete(existing) = false, want true")
	}
	if store.Delete(n.ID) {
		t.Error("Delete(absent) = true, want false")
	}
	if got := store.ReadAll(); len(got) != 0 {
		t.Errorf("ReadAll() after delete = %v, want empty", got)
	}
}

func TestListSortsByUpdatedDesc(t *testing.T) {
	store, kv := setupStore(t)

	seed := []note.Note{
		{ID: "old", Title: "old", CreatedAt: 1, UpdatedAt: 100},
		{ID: "new", Title: "new", CreatedAt: 2, UpdatedAt: 300},
		{ID: "mid", Title: "mid", CreatedAt: 3, UpdatedAt: 200},
	}
	data, _ := json.Marshal(seed)
	if err := kv.Write(StorageKey, data); err != nil {
		t.Fatalf("failed to seed: %v", err)
	}

	notes := store.List()
	want := []string{"new", "mid", "old"}
	for i, id := range want {
		if notes[i].ID != id {
			t.Errorf("List()[%d] = %q, want %q", i, notes[i].ID, id)
		}
	}
}

func TestWriteAllSwallowsPersistenceFailure(t *testing.T) {
	store, kv := setupStore(t)
	store.Create("survives", "")

	kv.FailWrites = true
	// Must not panic or surface an error.
	store.WriteAll([]note.Note{{ID: "x", Title: "y", CreatedAt: 1, UpdatedAt: 1}})

	// The durable value still holds the previous state.
	notes := store.ReadAll()
	if len(notes) != 1 || notes[0].Title != "survives" {
		t.Errorf("ReadAll() = %v, want the pre-failure state", notes)
	}
}

func TestEnsureSeed(t *testing.T) {
	store, _ := setupStore(t)

	store.EnsureSeed("Welcome", "hello")
	notes := store.ReadAll()
	if len(notes) != 1 || notes[0].Title != "Welcome" {
		t.Fatalf("ReadAll() after seed = %v, want one welcome note", notes)
	}

	// Seeding again is a no-op.
	store.EnsureSeed("Welcome", "hello")
	if got := store.ReadAll(); len(got) != 1 {
		t.Errorf("ReadAll() after second seed = %d notes, want 1", len(got))
	}
}
