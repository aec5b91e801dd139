package session

import (
	"sort"
	"strings"

	"github.com/jotdown/jot/internal/note"
)

// SortMode selects the ordering of the derived view.
type SortMode string

const (
	// SortUpdated orders most-recently-updated first (the default).
	SortUpdated SortMode = "updated"
	// SortCreated orders most-recently-created first.
	SortCreated SortMode = "created"
	// SortTitle orders by title ascending, case-insensitive, with empty
	// titles normalized to the untitled sentinel before comparison.
	SortTitle SortMode = "title"
)

// SetQuery sets the case-insensitive substring search query.
func (s *Session) SetQuery(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = q
}

// SetSort sets the view ordering. Unknown modes fall back to SortUpdated.
func (s *Session) SetSort(mode SortMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch mode {
	case SortUpdated, SortCreated, SortTitle:
		s.sortMode = mode
	default:
		s.sortMode = SortUpdated
	}
}

// SetFilter toggles exclusion of notes with no meaningful title and no
// content.
func (s *Session) SetFilter(hideEmpty bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hideEmpty = hideEmpty
}

// View returns the derived projection of the collection: filtered by the
// query, optionally excluding empty notes, in the configured order. It is
// a pure projection and never mutates session state.
func (s *Session) View() []note.Note {
	s.mu.Lock()
	notes := append([]note.Note(nil), s.notes...)
	query := strings.ToLower(strings.TrimSpace(s.query))
	mode := s.sortMode
	hideEmpty := s.hideEmpty
	s.mu.Unlock()

	filtered := notes[:0]
	for _, n := range notes {
		if hideEmpty && strings.TrimSpace(n.Title) == "" && strings.TrimSpace(n.Content) == "" {
			continue
		}
		if query != "" {
			haystack := strings.ToLower(n.Title + "\n" + n.Content)
			if !strings.Contains(haystack, query) {
				continue
			}
		}
		filtered = append(filtered, n)
	}

	switch mode {
	case SortCreated:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].CreatedAt > filtered[j].CreatedAt
		})
	case SortTitle:
		sort.SliceStable(filtered, func(i, j int) bool {
			return strings.ToLower(filtered[i].DisplayTitle()) <
				strings.ToLower(filtered[j].DisplayTitle())
		})
	default:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].UpdatedAt > filtered[j].UpdatedAt
		})
	}
	return filtered
}
