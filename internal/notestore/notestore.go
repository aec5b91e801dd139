// Package notestore translates between raw persisted bytes and a validated
// list of notes.
//
// The whole collection lives as one serialized JSON array under a fixed
// namespaced key in the durable store. Reads tolerate a missing key,
// malformed JSON, or non-array content by yielding an empty list;
// persistence failures are swallowed and logged, leaving the in-memory
// state as the fallback source of truth for the rest of the process. No
// method of this package ever returns an error to its caller.
package notestore

import (
	"encoding/json"
	"log"
	"os"
	"sort"

	"github.com/jotdown/jot/internal/note"
	"github.com/jotdown/jot/internal/storage"
)

// StorageKey is the namespaced key holding the serialized note array.
const StorageKey = "jot.notes.v1"

// Store performs array-level CRUD against the durable local store.
type Store struct {
	kv     storage.Store
	key    string
	logger *log.Logger
}

// New creates a note store on top of the given key/value store.
//
// If logger is nil, a default logger writing to stderr is used.
func New(kv storage.Store, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(os.Stderr, "[notestore] ", log.LstdFlags)
	}
	return &Store{kv: kv, key: StorageKey, logger: logger}
}

// ReadAll parses the persisted bytes as an array of notes.
//
// Any read failure, parse failure, or non-array content yields an empty
// slice. Elements that do not normalize to a record with a non-empty string
// id are dropped.
func (s *Store) ReadAll() []note.Note {
	data, err := s.kv.Read(s.key)
	if err != nil {
		s.logger.Printf("WARNING: failed to read notes: %v (treating as empty)", err)
		return nil
	}
	if len(data) == 0 {
		return nil
	}

	var raw []any
	if err := json.Unmarshal(data, &raw); err != nil {
		s.logger.Printf("WARNING: malformed notes payload: %v (treating as empty)", err)
		return nil
	}

	notes := make([]note.Note, 0, len(raw))
	for _, el := range raw {
		n := note.Normalize(el)
		if n == nil || n.ID == "" {
			continue
		}
		notes = append(notes, *n)
	}
	return notes
}

// WriteAll serializes and persists the collection.
//
// A persistence failure (quota, disabled storage) is logged and swallowed;
// the in-memory state remains authoritative for the session.
func (s *Store) WriteAll(notes []note.Note) {
	if notes == nil {
		notes = []note.Note{}
	}
	data, err := json.Marshal(notes)
	if err != nil {
		s.logger.Printf("WARNING: failed to serialize notes: %v", err)
		return
	}
	if err := s.kv.Write(s.key, data); err != nil {
		s.logger.Printf("WARNING: failed to persist notes: %v (in-memory state remains authoritative)", err)
	}
}

// Create assigns a fresh id and timestamps and prepends the note to the
// stored list.
func (s *Store) Create(title, content string) note.Note {
	now := note.Now()
	n := note.Note{
		ID:        note.NewID(),
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	notes := append([]note.Note{n}, s.ReadAll()...)
	s.WriteAll(notes)
	return n
}

// Get returns the stored note with the given id, or nil.
func (s *Store) Get(id string) *note.Note {
	for _, n := range s.ReadAll() {
		if n.ID == id {
			found := n
			return &found
		}
	}
	return nil
}

// Update merges partial fields into the stored note and bumps updatedAt.
// Returns nil if no note carries the id.
func (s *Store) Update(id string, p note.Patch) *note.Note {
	notes := s.ReadAll()
	for i := range notes {
		if notes[i].ID != id {
			continue
		}
		p.Apply(&notes[i])
		notes[i].UpdatedAt = note.Now()
		updated := notes[i]
		s.WriteAll(notes)
		return &updated
	}
	return nil
}

// Delete removes the note by id, reporting whether a matching record
// existed.
func (s *Store) Delete(id string) bool {
	notes := s.ReadAll()
	for i := range notes {
		if notes[i].ID == id {
			notes = append(notes[:i], notes[i+1:]...)
			s.WriteAll(notes)
			return true
		}
	}
	return false
}

// List returns all records sorted by updatedAt descending.
func (s *Store) List() []note.Note {
	notes := s.ReadAll()
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].UpdatedAt > notes[j].UpdatedAt
	})
	return notes
}

// EnsureSeed writes a single welcome note when the store is empty, so a
// first run has something to show.
func (s *Store) EnsureSeed(title, content string) {
	if len(s.ReadAll()) > 0 {
		return
	}
	s.Create(title, content)
	s.logger.Printf("Seeded default content")
}
