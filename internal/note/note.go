// Package note defines the canonical note record shared by every storage
// and transport layer.
//
// A note can arrive from the durable local store, from a remote backend, or
// from user input. Normalize collapses all of those origins into one shape
// with string ids and millisecond timestamps, so nothing downstream has to
// branch on where a record came from.
package note

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UntitledTitle is the display sentinel for notes without a title.
const UntitledTitle = "Untitled note"

// maxDerivedTitleLen caps titles synthesized from note content.
const maxDerivedTitleLen = 60

// Note is the sole entity of the system.
//
// Timestamps are integer milliseconds since the Unix epoch. UpdatedAt >=
// CreatedAt is expected but not enforced.
type Note struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}

// DisplayTitle returns the title shown to the user, substituting the
// sentinel for empty titles.
func (n Note) DisplayTitle() string {
	if strings.TrimSpace(n.Title) == "" {
		return UntitledTitle
	}
	return n.Title
}

// Patch is a partial update: nil fields are left untouched.
type Patch struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

// Apply merges the patch into the note without touching timestamps.
func (p Patch) Apply(n *Note) {
	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Content != nil {
		n.Content = *p.Content
	}
}

// Now returns the current time in milliseconds since the epoch.
func Now() int64 {
	return time.Now().UnixMilli()
}

// Normalize canonicalizes arbitrary note-shaped data.
//
// It accepts a Note, a *Note, or a decoded JSON object (map[string]any) and
// returns a Note with the id coerced to string, title/content defaulted to
// strings, and both timestamps defaulted to "now" when absent or malformed.
// Non-object input yields nil. An empty id is preserved as empty; callers
// must treat it as invalid for list membership.
//
// Normalize is idempotent: Normalize(Normalize(x)) == Normalize(x).
func Normalize(raw any) *Note {
	switch v := raw.(type) {
	case Note:
		n := v
		fillTimestamps(&n)
		return &n
	case *Note:
		if v == nil {
			return nil
		}
		n := *v
		fillTimestamps(&n)
		return &n
	case map[string]any:
		n := Note{
			ID:        coerceID(v["id"]),
			Title:     coerceString(v["title"]),
			Content:   coerceString(v["content"]),
			CreatedAt: coerceMillis(v["createdAt"]),
			UpdatedAt: coerceMillis(v["updatedAt"]),
		}
		fillTimestamps(&n)
		return &n
	default:
		return nil
	}
}

// fillTimestamps defaults zero or negative timestamps to the current time.
func fillTimestamps(n *Note) {
	if n.CreatedAt <= 0 {
		n.CreatedAt = Now()
	}
	if n.UpdatedAt <= 0 {
		n.UpdatedAt = Now()
	}
}

// coerceID converts a raw id value to its string form. Numeric server ids
// are rendered without an exponent or fractional part.
func coerceID(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatInt(int64(v), 10)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return ""
	}
}

func coerceString(raw any) string {
	if s, ok := raw.(string); ok {
		return s
	}
	return ""
}

// coerceMillis converts a raw timestamp to int64 milliseconds, returning 0
// for anything that is not a number.
func coerceMillis(raw any) int64 {
	switch v := raw.(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i
		}
		return 0
	default:
		return 0
	}
}

// NewID produces an identifier unique with overwhelming probability within
// one process. It prefers a cryptographically sourced UUID; if the secure
// source is unavailable it falls back to a weaker pseudo-random token
// assembled from multiple segments. Collisions are not checked.
func NewID() string {
	if id, err := uuid.NewRandom(); err == nil {
		return id.String()
	}
	return fmt.Sprintf("note-%08x-%08x-%08x",
		rand.Uint32(), rand.Uint32(), rand.Uint32())
}

// DeriveTitle synthesizes a title from the first non-blank line of content,
// truncated to 60 runes with an ellipsis when longer. Empty content yields
// the untitled sentinel.
func DeriveTitle(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		runes := []rune(line)
		if len(runes) > maxDerivedTitleLen {
			return string(runes[:maxDerivedTitleLen]) + "…"
		}
		return line
	}
	return UntitledTitle
}
