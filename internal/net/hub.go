package net

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"warbound/server/internal/sim"
	"warbound/server/internal/world"
)

const writeDeadline = 5 * time.Second

// Session is one connected client. Writes are serialized per connection so
// the broadcast fan-out and the handler never interleave frames.
type Session struct {
	ID      string
	Faction sim.Faction

	conn    *websocket.Conn
	writeMu sync.Mutex
}

// Write sends one frame, bounded by the write deadline.
func (s *Session) Write(messageType int, data []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
	return s.conn.WriteMessage(messageType, data)
}

// Hub tracks connected sessions and fans simulation snapshots out to them.
type Hub struct {
	logger *logrus.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewHub creates an empty session registry.
func NewHub(logger *logrus.Logger) *Hub {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Hub{
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// Subscribe registers a connection and assigns it a session id. Every human
// client drives the player faction.
func (h *Hub) Subscribe(conn *websocket.Conn) *Session {
	session := &Session{
		ID:      uuid.NewString(),
		Faction: sim.FactionPlayer,
		conn:    conn,
	}
	h.mu.Lock()
	h.sessions[session.ID] = session
	h.mu.Unlock()
	h.logger.WithField("session", session.ID).Info("client connected")
	return session
}

// Disconnect removes a session and closes its connection.
func (h *Hub) Disconnect(id string) {
	h.mu.Lock()
	session, ok := h.sessions[id]
	if ok {
		delete(h.sessions, id)
	}
	h.mu.Unlock()
	if !ok {
		return
	}
	session.conn.Close()
	h.logger.WithField("session", id).Info("client disconnected")
}

// Broadcast marshals the snapshot once and sends it to every session,
// dropping subscribers whose writes fail.
func (h *Hub) Broadcast(snapshot world.Snapshot) {
	data, err := json.Marshal(StateMessage{Type: "state", State: snapshot})
	if err != nil {
		h.logger.WithError(err).Error("failed to marshal state")
		return
	}

	h.mu.Lock()
	sessions := make([]*Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		sessions = append(sessions, s)
	}
	h.mu.Unlock()

	for _, s := range sessions {
		if err := s.Write(websocket.TextMessage, data); err != nil {
			h.logger.WithError(err).WithField("session", s.ID).Warn("dropping slow subscriber")
			h.Disconnect(s.ID)
		}
	}
}

// StateMessage is the full-state frame sent after every tick.
type StateMessage struct {
	Type  string         `json:"type"`
	State world.Snapshot `json:"state"`
}
