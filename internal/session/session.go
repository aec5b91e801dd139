// Package session owns the in-memory note collection and the single draft
// being edited.
//
// Every mutation follows the same protocol: the collection is changed
// optimistically and the selection adjusted synchronously, then the sync
// client's eventual result is folded back in: rekeying a created note to
// its server id, replacing an updated note with the canonical record, or
// rolling back on failure. Rapid edits coalesce through a per-note
// cancellable debounce timer into a single persisted write.
//
// Reconciliation callbacks capture the target note id at dispatch time and
// apply by id lookup, never by "whatever is currently selected", so they
// stay correct if the user has navigated away.
package session

import (
	"context"
	"fmt"
	"log"
	"os"
	stdsync "sync"
	"time"

	"github.com/jotdown/jot/internal/note"
	"github.com/jotdown/jot/internal/sync"
)

// DefaultQuietInterval is how long after the last keystroke an autosave
// fires.
const DefaultQuietInterval = 450 * time.Millisecond

// EditState describes the draft relative to the last persisted values.
type EditState int

const (
	// StateClean means the draft matches the last persisted values.
	StateClean EditState = iota
	// StateDirty means the user has typed since the last persist.
	StateDirty
	// StateSaving means a persist is in flight.
	StateSaving
)

// String returns a human-readable representation of the state.
func (s EditState) String() string {
	switch s {
	case StateClean:
		return "clean"
	case StateDirty:
		return "dirty"
	case StateSaving:
		return "saving"
	default:
		return "unknown"
	}
}

// Draft is the title/content pair being typed, not yet confirmed persisted.
type Draft struct {
	Title   string
	Content string
}

// opKind tags a pending operation variant.
type opKind int

const (
	opCreate opKind = iota
	opUpdate
	opDelete
)

func (k opKind) String() string {
	switch k {
	case opCreate:
		return "create"
	case opUpdate:
		return "update"
	case opDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// pendingOp tracks one dispatched persist awaiting reconciliation. The
// snapshot carries the pre-mutation record for rollback.
type pendingOp struct {
	kind     opKind
	noteID   string
	snapshot *note.Note
}

// Config holds session configuration.
type Config struct {
	// QuietInterval is the debounce window for autosave (default 450ms).
	QuietInterval time.Duration

	// Logger for session activity (default stderr).
	Logger *log.Logger

	// Notify receives transient notifications for the presentation
	// layer. May be nil.
	Notify func(Notification)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		QuietInterval: DefaultQuietInterval,
		Logger:        log.New(os.Stderr, "[session] ", log.LstdFlags),
	}
}

// Session is the edit state machine. All exported methods are safe for
// concurrent use; mutations are serialized by one mutex and in-flight
// persists are tracked so callers can wait for them to settle.
type Session struct {
	client sync.Client
	cfg    Config

	mu         stdsync.Mutex
	notes      []note.Note
	selectedID string
	draft      Draft
	state      EditState

	pending map[string]pendingOp   // opID -> tagged variant
	nextOp  uint64
	timers  map[string]*time.Timer // noteID -> debounce timer
	snaps   map[string]note.Note   // noteID -> pre-edit snapshot
	aliases map[string]string      // placeholder id -> server id after rekey

	pendingDeleteID string

	query     string
	sortMode  SortMode
	hideEmpty bool

	wg stdsync.WaitGroup
}

// New creates a session over the given sync client.
func New(client sync.Client, cfg Config) *Session {
	if cfg.QuietInterval <= 0 {
		cfg.QuietInterval = DefaultQuietInterval
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(os.Stderr, "[session] ", log.LstdFlags)
	}
	return &Session{
		client:   client,
		cfg:      cfg,
		pending:  make(map[string]pendingOp),
		timers:   make(map[string]*time.Timer),
		snaps:    make(map[string]note.Note),
		aliases:  make(map[string]string),
		sortMode: SortUpdated,
	}
}

// Load replaces the collection from the sync client and re-establishes the
// selection invariant. Seed lets callers show locally cached notes
// immediately before the (possibly slow) load settles.
func (s *Session) Load(ctx context.Context) error {
	notes, err := s.client.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to load notes: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = notes
	s.ensureSelectionLocked()
	return nil
}

// Seed places an already-available collection into the session without any
// persistence round trip, for fast first paint.
func (s *Session) Seed(notes []note.Note) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = notes
	s.ensureSelectionLocked()
}

// CreateNote inserts an optimistic note at the head of the collection,
// selects it, and dispatches persistence. The returned note carries the
// placeholder id; reconciliation may rekey it to a server-issued id.
func (s *Session) CreateNote() note.Note {
	now := note.Now()
	n := note.Note{ID: note.NewID(), CreatedAt: now, UpdatedAt: now}

	s.mu.Lock()
	// Creating selects the new note, so a pending autosave for the
	// previous selection is flushed first.
	s.flushLocked(s.selectedID)
	s.notes = append([]note.Note{n}, s.notes...)
	s.selectedID = n.ID
	s.draft = Draft{}
	s.state = StateClean
	opID := s.trackLocked(pendingOp{kind: opCreate, noteID: n.ID})
	s.mu.Unlock()

	s.dispatch(func() { s.reconcileCreate(opID, n) })
	return n
}

// reconcileCreate folds the persist outcome of a create back in.
func (s *Session) reconcileCreate(opID string, placeholder note.Note) {
	persisted, err := s.client.Create(context.Background(), placeholder)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, opID)

	if err != nil {
		// Roll the optimistic entry back out entirely.
		id := s.resolveLocked(placeholder.ID)
		s.removeLocked(id)
		if s.selectedID == id {
			s.selectedID = ""
			s.ensureSelectionLocked()
		}
		s.notifyLocked(Notification{Kind: NoteCreateFailed, NoteID: id,
			Message: "could not save the new note"})
		return
	}

	id := s.resolveLocked(placeholder.ID)
	i := s.indexLocked(id)
	if i < 0 {
		// Deleted while the create was in flight; nothing to rekey.
		return
	}

	if persisted.ID != id {
		// Rekey every reference to the placeholder id. Title/content
		// stay as typed; user edits since dispatch win over the echo.
		s.aliases[id] = persisted.ID
		s.notes[i].ID = persisted.ID
		if s.selectedID == id {
			s.selectedID = persisted.ID
		}
		if t, ok := s.timers[id]; ok {
			s.timers[persisted.ID] = t
			delete(s.timers, id)
		}
		if snap, ok := s.snaps[id]; ok {
			snap.ID = persisted.ID
			s.snaps[persisted.ID] = snap
			delete(s.snaps, id)
		}
	}
	s.notes[i].CreatedAt = persisted.CreatedAt
	s.notes[i].UpdatedAt = persisted.UpdatedAt
	s.notifyLocked(Notification{Kind: NoteCreated, NoteID: persisted.ID})
}

// Select switches the selected note. A pending autosave for the previous
// note is flushed (timer cancelled, persist dispatched with the latest
// draft) before the new draft loads, so edits never bleed across notes.
func (s *Session) Select(id string) {
	s.mu.Lock()
	if id == s.selectedID {
		s.mu.Unlock()
		return
	}
	s.flushLocked(s.selectedID)

	if i := s.indexLocked(id); i >= 0 {
		s.selectedID = id
		s.draft = Draft{Title: s.notes[i].Title, Content: s.notes[i].Content}
		s.state = StateClean
	}
	s.mu.Unlock()
}

// EditTitle applies a keystroke to the draft title.
func (s *Session) EditTitle(v string) {
	s.edit(func(d *Draft) { d.Title = v })
}

// EditContent applies a keystroke to the draft content.
func (s *Session) EditContent(v string) {
	s.edit(func(d *Draft) { d.Content = v })
}

// edit updates the draft, patches the collection entry optimistically, and
// (re)schedules the debounced persist.
func (s *Session) edit(apply func(*Draft)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.selectedID
	i := s.indexLocked(id)
	if i < 0 {
		return
	}

	// First keystroke since clean captures the rollback snapshot.
	if _, ok := s.snaps[id]; !ok {
		s.snaps[id] = s.notes[i]
	}

	apply(&s.draft)
	s.notes[i].Title = s.draft.Title
	s.notes[i].Content = s.draft.Content
	s.state = StateDirty

	s.scheduleAutosaveLocked(id)
}

// Blur marks the end of an editing interaction. If the title ended up
// empty, one is synthesized from the content (or the untitled sentinel);
// the synthesized title is itself a dirty edit on the debounced path.
func (s *Session) Blur() {
	s.mu.Lock()
	needsTitle := s.selectedID != "" && s.draft.Title == "" &&
		s.indexLocked(s.selectedID) >= 0
	content := s.draft.Content
	s.mu.Unlock()

	if !needsTitle {
		return
	}
	s.EditTitle(note.DeriveTitle(content))
}

// scheduleAutosaveLocked cancels any earlier pending timer for the note
// and arms a new one. Cancelling, not ignoring, is what prevents a stale
// late write from clobbering a newer one.
func (s *Session) scheduleAutosaveLocked(id string) {
	if t, ok := s.timers[id]; ok {
		t.Stop()
	}
	s.timers[id] = time.AfterFunc(s.cfg.QuietInterval, func() {
		s.autosaveFired(id)
	})
}

// autosaveFired runs on the debounce timer goroutine.
func (s *Session) autosaveFired(id string) {
	s.mu.Lock()
	id = s.resolveLocked(id)
	delete(s.timers, id)
	opID, patch, ok := s.beginUpdateLocked(id)
	s.mu.Unlock()
	if !ok {
		return
	}
	s.dispatch(func() { s.reconcileUpdate(opID, id, patch) })
}

// beginUpdateLocked snapshots the persist for a note and marks it saving.
// Returns ok=false when the note is gone or has nothing pending.
func (s *Session) beginUpdateLocked(id string) (string, note.Patch, bool) {
	i := s.indexLocked(id)
	if i < 0 {
		delete(s.snaps, id)
		return "", note.Patch{}, false
	}

	title := s.notes[i].Title
	content := s.notes[i].Content
	patch := note.Patch{Title: &title, Content: &content}

	snap, ok := s.snaps[id]
	var snapshot *note.Note
	if ok {
		snapCopy := snap
		snapshot = &snapCopy
	}

	opID := s.trackLocked(pendingOp{kind: opUpdate, noteID: id, snapshot: snapshot})
	if s.selectedID == id {
		s.state = StateSaving
	}
	return opID, patch, true
}

// reconcileUpdate folds the persist outcome of an update back in.
func (s *Session) reconcileUpdate(opID, id string, patch note.Patch) {
	updated, err := s.client.Update(context.Background(), id, patch)

	s.mu.Lock()
	defer s.mu.Unlock()
	op := s.pending[opID]
	delete(s.pending, opID)

	id = s.resolveLocked(id)
	i := s.indexLocked(id)

	if err != nil {
		// Restore the pre-edit snapshot captured before the optimistic
		// mutation. The next keystroke or flush tries again with
		// then-current values; there is no automatic retry.
		if i >= 0 && op.snapshot != nil {
			restored := *op.snapshot
			restored.ID = id
			s.notes[i] = restored
			if s.selectedID == id {
				s.draft = Draft{Title: restored.Title, Content: restored.Content}
			}
		}
		if s.selectedID == id {
			s.state = StateClean
		}
		delete(s.snaps, id)
		s.notifyLocked(Notification{Kind: NoteSaveFailed, NoteID: id,
			Message: "could not save changes"})
		return
	}

	if i >= 0 && updated != nil {
		canonical := *updated
		canonical.ID = id
		s.notes[i] = canonical
		// Edits typed while the persist was in flight stay visible; the
		// armed timer will carry them in the next write.
		if _, dirty := s.timers[id]; dirty {
			s.notes[i].Title, s.notes[i].Content = s.dirtyValuesLocked(id)
		} else if s.selectedID == id {
			s.draft = Draft{Title: canonical.Title, Content: canonical.Content}
		}
	}
	if s.selectedID == id && s.state == StateSaving {
		s.state = StateClean
	}
	if _, dirty := s.timers[id]; !dirty {
		delete(s.snaps, id)
	}
	s.notifyLocked(Notification{Kind: NoteSaved, NoteID: id})
}

// dirtyValuesLocked returns the freshest typed values for a note: the
// draft when it is selected, otherwise whatever the collection holds.
func (s *Session) dirtyValuesLocked(id string) (string, string) {
	if s.selectedID == id {
		return s.draft.Title, s.draft.Content
	}
	if i := s.indexLocked(id); i >= 0 {
		return s.notes[i].Title, s.notes[i].Content
	}
	return "", ""
}

// RequestDelete records which note a delete was requested for. The
// presentation layer confirms or cancels.
func (s *Session) RequestDelete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexLocked(id) >= 0 {
		s.pendingDeleteID = id
	}
}

// CancelDelete clears a pending delete request.
func (s *Session) CancelDelete() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingDeleteID = ""
}

// ConfirmDelete performs the requested delete, if any.
func (s *Session) ConfirmDelete() {
	s.mu.Lock()
	id := s.pendingDeleteID
	s.pendingDeleteID = ""
	s.mu.Unlock()
	if id != "" {
		s.DeleteNote(id)
	}
}

// DeleteNote optimistically removes a note and dispatches persistence. On
// failure the record is reinserted at the head of the collection.
func (s *Session) DeleteNote(id string) {
	s.mu.Lock()
	id = s.resolveLocked(id)
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return
	}

	// A pending autosave for a note being deleted is moot.
	if t, ok := s.timers[id]; ok {
		t.Stop()
		delete(s.timers, id)
	}
	delete(s.snaps, id)

	removed := s.notes[i]
	s.notes = append(s.notes[:i], s.notes[i+1:]...)
	if s.selectedID == id {
		s.selectedID = ""
	}
	s.ensureSelectionLocked()

	opID := s.trackLocked(pendingOp{kind: opDelete, noteID: id, snapshot: &removed})
	s.mu.Unlock()

	s.dispatch(func() { s.reconcileDelete(opID, id) })
}

// reconcileDelete folds the persist outcome of a delete back in.
func (s *Session) reconcileDelete(opID, id string) {
	ok, err := s.client.Delete(context.Background(), id)

	s.mu.Lock()
	defer s.mu.Unlock()
	op := s.pending[opID]
	delete(s.pending, opID)

	if err == nil && ok {
		s.notifyLocked(Notification{Kind: NoteDeleted, NoteID: id})
		return
	}

	// Restore at the head, not necessarily the original position, and
	// leave an existing selection alone.
	if op.snapshot != nil {
		s.notes = append([]note.Note{*op.snapshot}, s.notes...)
		if s.selectedID == "" {
			s.ensureSelectionLocked()
		}
	}
	s.notifyLocked(Notification{Kind: NoteDeleteFailed, NoteID: id,
		Message: "could not delete the note"})
}

// Flush fires any pending autosaves immediately and waits for every
// in-flight persist to settle.
func (s *Session) Flush() {
	s.mu.Lock()
	ids := make([]string, 0, len(s.timers))
	for id := range s.timers {
		ids = append(ids, id)
	}
	for _, id := range ids {
		s.flushLocked(id)
	}
	s.mu.Unlock()

	s.wg.Wait()
}

// Wait blocks until all dispatched persists have settled. Pending debounce
// timers are left armed.
func (s *Session) Wait() {
	s.wg.Wait()
}

// flushLocked cancels the debounce timer for a note and dispatches its
// persist immediately with the latest draft values.
func (s *Session) flushLocked(id string) {
	if id == "" {
		return
	}
	id = s.resolveLocked(id)
	t, ok := s.timers[id]
	if !ok {
		return
	}
	t.Stop()
	delete(s.timers, id)

	opID, patch, ok := s.beginUpdateLocked(id)
	if !ok {
		return
	}
	s.dispatch(func() { s.reconcileUpdate(opID, id, patch) })
}

// dispatch runs a reconciliation on its own goroutine, tracked for Flush
// and Wait.
func (s *Session) dispatch(fn func()) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		fn()
	}()
}

// trackLocked registers a pending operation and returns its id.
func (s *Session) trackLocked(op pendingOp) string {
	s.nextOp++
	opID := fmt.Sprintf("op-%d", s.nextOp)
	s.pending[opID] = op
	return opID
}

// ensureSelectionLocked re-establishes the selection invariant: the
// selected id is either present in the collection, the first element when
// the previous selection vanished, or empty when no notes exist.
func (s *Session) ensureSelectionLocked() {
	if s.selectedID != "" && s.indexLocked(s.selectedID) >= 0 {
		return
	}
	if len(s.notes) == 0 {
		s.selectedID = ""
		s.draft = Draft{}
		s.state = StateClean
		return
	}
	s.selectedID = s.notes[0].ID
	s.draft = Draft{Title: s.notes[0].Title, Content: s.notes[0].Content}
	s.state = StateClean
}

// indexLocked returns the collection index of a note id, or -1.
func (s *Session) indexLocked(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.notes {
		if s.notes[i].ID == id {
			return i
		}
	}
	return -1
}

// resolveLocked follows rekey aliases from a placeholder id to the
// current id.
func (s *Session) resolveLocked(id string) string {
	for {
		next, ok := s.aliases[id]
		if !ok {
			return id
		}
		id = next
	}
}

// removeLocked deletes a note from the collection by id, if present.
func (s *Session) removeLocked(id string) {
	if i := s.indexLocked(id); i >= 0 {
		s.notes = append(s.notes[:i], s.notes[i+1:]...)
	}
}

// notifyLocked raises a transient notification without blocking the state
// machine.
func (s *Session) notifyLocked(n Notification) {
	if s.cfg.Notify == nil {
		return
	}
	go s.cfg.Notify(n)
}

// Notes returns a copy of the collection in insertion order.
func (s *Session) Notes() []note.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]note.Note(nil), s.notes...)
}

// SelectedID returns the selected note id, or "" when no notes exist.
func (s *Session) SelectedID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedID
}

// Selected returns a copy of the selected note, or nil.
func (s *Session) Selected() *note.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexLocked(s.selectedID); i >= 0 {
		n := s.notes[i]
		return &n
	}
	return nil
}

// Draft returns the current draft values.
func (s *Session) Draft() Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// State returns the edit state of the selected note.
func (s *Session) State() EditState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// StatusLabel derives the connectivity display label. It never feeds back
// into routing decisions.
func (s *Session) StatusLabel() string {
	if !s.client.Configured() {
		return "local only"
	}
	if s.client.Online() {
		return "synced"
	}
	return "offline"
}
