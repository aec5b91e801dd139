package session

// NotificationKind tags a transient, non-blocking notification for the
// presentation layer. No notification is fatal; the session always remains
// usable in local-only mode.
type NotificationKind string

const (
	// NoteCreated means a created note finished persisting.
	NoteCreated NotificationKind = "note_created"
	// NoteSaved means a debounced update finished persisting.
	NoteSaved NotificationKind = "note_saved"
	// NoteDeleted means a delete was confirmed.
	NoteDeleted NotificationKind = "note_deleted"

	// NoteCreateFailed means the create could not persist anywhere and
	// the optimistic entry was rolled back out.
	NoteCreateFailed NotificationKind = "note_create_failed"
	// NoteSaveFailed means an update failed and the note reverted to its
	// pre-edit snapshot.
	NoteSaveFailed NotificationKind = "note_save_failed"
	// NoteDeleteFailed means the delete was not confirmed and the note
	// was restored at the head of the collection.
	NoteDeleteFailed NotificationKind = "note_delete_failed"
)

// Notification is what the session raises toward the presentation layer.
type Notification struct {
	Kind    NotificationKind
	NoteID  string
	Message string
}

// Failed reports whether the notification describes a failure outcome.
func (n Notification) Failed() bool {
	switch n.Kind {
	case NoteCreateFailed, NoteSaveFailed, NoteDeleteFailed:
		return true
	default:
		return false
	}
}
