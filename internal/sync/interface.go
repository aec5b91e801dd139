// Package sync routes every note operation to the remote gateway or the
// local store.
//
// The policy is fallback, not merge: when a backend is configured each call
// makes exactly one remote attempt, and on any normalized failure retries
// the same operation once against the local store. Callers never observe
// the remote failure directly; they only see a local-equivalent outcome.
// The fallback is operation-local: backend configuration, not prior
// failure, gates whether the next call tries the remote again.
package sync

import (
	"context"

	"github.com/jotdown/jot/internal/note"
)

// Client resolves note operations remote-first with local fallback.
//
// Every note returned, remote or local, has a string id; callers never
// branch on id type or origin.
type Client interface {
	// List returns all notes.
	List(ctx context.Context) ([]note.Note, error)

	// Get returns one note by id, or nil if no record carries it.
	Get(ctx context.Context, id string) (*note.Note, error)

	// Create persists a new note and returns the canonical record. The
	// persisted id may differ from the id on the input note; the caller
	// owns rekeying its references.
	Create(ctx context.Context, n note.Note) (note.Note, error)

	// Update merges partial fields into the note. A NOT_FOUND error means
	// no record carries the id anywhere.
	Update(ctx context.Context, id string, p note.Patch) (*note.Note, error)

	// Delete removes the note, reporting whether a matching record
	// existed (local) or the server affirmed success (remote).
	Delete(ctx context.Context, id string) (bool, error)

	// Configured reports whether a remote backend is configured at all.
	Configured() bool

	// Online reports whether the most recent remote attempt succeeded.
	// It is false until a backend is configured and reachable; the value
	// feeds a display label only, never the routing decision.
	Online() bool
}
