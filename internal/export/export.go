// Package export dumps and loads the note collection as JSONL or YAML.
//
// Exports are a plain serialization of the canonical note shape, one
// record per JSONL line or one YAML sequence, so collections can be moved
// between machines or backed up independently of the storage backend.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jotdown/jot/internal/note"
)

// Format names accepted by the export/import commands.
const (
	FormatJSONL = "jsonl"
	FormatYAML  = "yaml"
)

// yamlNote mirrors note.Note with yaml field tags.
type yamlNote struct {
	ID        string `yaml:"id"`
	Title     string `yaml:"title"`
	Content   string `yaml:"content"`
	CreatedAt int64  `yaml:"createdAt"`
	UpdatedAt int64  `yaml:"updatedAt"`
}

// Write serializes notes to w in the given format.
func Write(w io.Writer, notes []note.Note, format string) error {
	switch format {
	case FormatJSONL, "":
		enc := json.NewEncoder(w)
		for _, n := range notes {
			if err := enc.Encode(n); err != nil {
				return fmt.Errorf("failed to encode note %s: %w", n.ID, err)
			}
		}
		return nil

	case FormatYAML:
		out := make([]yamlNote, 0, len(notes))
		for _, n := range notes {
			out = append(out, yamlNote(n))
		}
		if err := yaml.NewEncoder(w).Encode(out); err != nil {
			return fmt.Errorf("failed to encode notes: %w", err)
		}
		return nil

	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

// Read parses notes from r in the given format. Every record passes
// through normalization; records without a usable id are dropped.
func Read(r io.Reader, format string) ([]note.Note, error) {
	switch format {
	case FormatJSONL, "":
		var notes []note.Note
		dec := json.NewDecoder(r)
		line := 0
		for {
			var raw map[string]any
			if err := dec.Decode(&raw); err != nil {
				if err == io.EOF {
					break
				}
				return nil, fmt.Errorf("invalid JSON at record %d: %w", line+1, err)
			}
			line++
			if n := note.Normalize(raw); n != nil && n.ID != "" {
				notes = append(notes, *n)
			}
		}
		return notes, nil

	case FormatYAML:
		var raw []yamlNote
		if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
			if err == io.EOF {
				return nil, nil
			}
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
		var notes []note.Note
		for _, y := range raw {
			if n := note.Normalize(note.Note(y)); n != nil && n.ID != "" {
				notes = append(notes, *n)
			}
		}
		return notes, nil

	default:
		return nil, fmt.Errorf("unknown import format %q", format)
	}
}

// WriteFile exports notes to path.
func WriteFile(path string, notes []note.Note, format string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()
	return Write(f, notes, format)
}

// ReadFile imports notes from path.
func ReadFile(path string, format string) ([]note.Note, error) {
	// #nosec G304 - controlled path from CLI
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open import file: %w", err)
	}
	defer f.Close()
	return Read(f, format)
}
