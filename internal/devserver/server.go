// Package devserver implements the remote note protocol against an
// in-memory map, so the client can be exercised end to end without a real
// backend.
//
// The protocol matches what the gateway expects:
//
//	GET    /api/notes       -> {"notes": [...]}
//	POST   /api/notes       -> created object (server-assigned id)
//	GET    /api/notes/{id}  -> object or 404
//	PATCH  /api/notes/{id}  -> updated object or 404
//	DELETE /api/notes/{id}  -> {"success": true} or 404
//
// The handler is also mounted on httptest servers by the gateway and sync
// tests.
package devserver

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/mux"

	"github.com/jotdown/jot/internal/note"
)

// Server holds the in-memory note collection behind the REST handler.
type Server struct {
	mu     sync.Mutex
	notes  []note.Note
	nextID int64
	logger *log.Logger
}

// New creates an empty dev server. If logger is nil, log.Default is used.
func New(logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{nextID: 1, logger: logger}
}

// Handler returns the HTTP handler implementing the note protocol under
// the given API prefix (e.g. "/api").
func (s *Server) Handler(prefix string) http.Handler {
	r := mux.NewRouter()
	api := r.PathPrefix(prefix).Subrouter()
	api.HandleFunc("/notes", s.handleList).Methods(http.MethodGet)
	api.HandleFunc("/notes", s.handleCreate).Methods(http.MethodPost)
	api.HandleFunc("/notes/{id}", s.handleGet).Methods(http.MethodGet)
	api.HandleFunc("/notes/{id}", s.handleUpdate).Methods(http.MethodPatch)
	api.HandleFunc("/notes/{id}", s.handleDelete).Methods(http.MethodDelete)
	return r
}

// Seed replaces the collection, for tests and demos.
func (s *Server) Seed(notes []note.Note) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = append([]note.Note(nil), notes...)
}

// Notes returns a copy of the current collection.
func (s *Server) Notes() []note.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]note.Note(nil), s.notes...)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeNotFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "note not found"})
}

func (s *Server) handleList(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	notes := append([]note.Note(nil), s.notes...)
	s.mu.Unlock()

	if notes == nil {
		notes = []note.Note{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"notes": notes})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid JSON body"})
		return
	}

	n := note.Normalize(payload)
	if n == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "body must be an object"})
		return
	}

	s.mu.Lock()
	n.ID = strconv.FormatInt(s.nextID, 10)
	s.nextID++
	s.notes = append([]note.Note{*n}, s.notes...)
	s.mu.Unlock()

	s.logger.Printf("Created note %s (%s)", n.ID, n.DisplayTitle())
	writeJSON(w, http.StatusCreated, n)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.notes {
		if n.ID == id {
			writeJSON(w, http.StatusOK, n)
			return
		}
	}
	writeNotFound(w)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var p note.Patch
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid JSON body"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notes {
		if s.notes[i].ID != id {
			continue
		}
		p.Apply(&s.notes[i])
		s.notes[i].UpdatedAt = note.Now()
		s.logger.Printf("Updated note %s", id)
		writeJSON(w, http.StatusOK, s.notes[i])
		return
	}
	writeNotFound(w)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notes {
		if s.notes[i].ID == id {
			s.notes = append(s.notes[:i], s.notes[i+1:]...)
			s.logger.Printf("Deleted note %s", id)
			writeJSON(w, http.StatusOK, map[string]bool{"success": true})
			return
		}
	}
	writeNotFound(w)
}
