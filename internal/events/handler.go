package events

import (
	"encoding/json"
	"log"

	"github.com/jotdown/jot/internal/session"
)

// Handler bridges session notifications to the WebSocket server.
type Handler struct {
	server *Server
	logger *log.Logger
}

// NewHandler creates a handler broadcasting through the given server.
func NewHandler(server *Server, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{server: server, logger: logger}
}

// OnNotification is wired as the session's notify callback.
func (h *Handler) OnNotification(n session.Notification) {
	data, err := json.Marshal(NoteEventData{
		NoteID:  n.NoteID,
		Kind:    string(n.Kind),
		Failed:  n.Failed(),
		Message: n.Message,
	})
	if err != nil {
		h.logger.Printf("Failed to marshal note event: %v", err)
		return
	}
	h.server.Broadcast(Message{Type: MessageTypeNote, Data: data})
}

// OnConnectivity broadcasts the derived connectivity label.
func (h *Handler) OnConnectivity(label string) {
	data, err := json.Marshal(ConnectivityData{Label: label})
	if err != nil {
		h.logger.Printf("Failed to marshal connectivity event: %v", err)
		return
	}
	h.server.Broadcast(Message{Type: MessageTypeConnectivity, Data: data})
}

// OnReload broadcasts that the collection was reloaded from disk.
func (h *Handler) OnReload() {
	h.server.Broadcast(Message{Type: MessageTypeReload})
}
