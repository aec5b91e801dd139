package export

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jotdown/jot/internal/note"
)

var sample = []note.Note{
	{ID: "1", Title: "first", Content: "body one", CreatedAt: 1, UpdatedAt: 10},
	{ID: "2", Title: "second", Content: "line one\nline two", CreatedAt: 2, UpdatedAt: 20},
}

func TestRoundTrip(t *testing.T) {
	for _, format := range []string{FormatJSONL, FormatYAML} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Write(&buf, sample, format); err != nil {
				t.Fatalf("Write() error: %v", err)
			}

			got, err := Read(&buf, format)
			if err != nil {
				t.Fatalf("Read() error: %v", err)
			}
			if len(got) != len(sample) {
				t.Fatalf("Read() returned %d notes, want %d", len(got), len(sample))
			}
			for i := range sample {
				if got[i] != sample[i] {
					t.Errorf("note %d = %+v, want %+v", i, got[i], sample[i])
				}
			}
		})
	}
}

func TestJSONLIsOneLinePerNote(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sample, FormatJSONL); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != len(sample) {
		t.Errorf("got %d lines, want %d", len(lines), len(sample))
	}
}

func TestReadDropsIdlessRecords(t *testing.T) {
	input := `{"id":"kept","title":"a","createdAt":1,"updatedAt":1}
{"title":"no id"}
{"id":"","title":"blank id"}`

	got, err := Read(strings.NewReader(input), FormatJSONL)
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "kept" {
		t.Errorf("Read() = %v, want only the record with an id", got)
	}
}

func TestReadInvalidJSONL(t *testing.T) {
	_, err := Read(strings.NewReader(`{"id":"ok"}` + "\n{broken"), FormatJSONL)
	if err == nil {
		t.Error("Read() = nil error for malformed input")
	}
}

func TestUnknownFormat(t *testing.T) {
	if err := Write(&bytes.Buffer{}, sample, "csv"); err == nil {
		t.Error("Write() accepted an unknown format")
	}
	if _, err := Read(strings.NewReader(""), "csv"); err == nil {
		t.Error("Read() accepted an unknown format")
	}
}

func TestEmptyYAML(t *testing.T) {
	got, err := Read(strings.NewReader(""), FormatYAML)
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Read() = %v, want empty", got)
	}
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.jsonl")

	if err := WriteFile(path, sample, FormatJSONL); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	got, err := ReadFile(path, FormatJSONL)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if len(got) != len(sample) {
		t.Errorf("ReadFile() returned %d notes, want %d", len(got), len(sample))
	}
}
