// Package realtime pushes balance events to connected clients over WebSocket.
package realtime

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"bongo-server/internal/domain/meter"
	"bongo-server/internal/infrastructure/metrics"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 16
)

// Session is one connected client for a subject. Events for a session are
// delivered through a buffered channel drained by a single writer goroutine,
// which preserves event order per connection.
type Session struct {
	id      string
	subject string
	conn    *websocket.Conn
	hub     *Hub

	mu     sync.Mutex
	send   chan meter.BalanceEvent
	closed bool
}

// Hub fans balance events out to the live sessions of each subject. It
// implements meter.Publisher.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string][]*Session
	log      zerolog.Logger
}

// NewHub creates an empty hub.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		sessions: make(map[string][]*Session),
		log:      log,
	}
}

// Subscribe registers a connection for a subject and starts its read and
// write pumps. The session lives until the peer disconnects or falls too far
// behind.
func (h *Hub) Subscribe(id, subject string, conn *websocket.Conn) *Session {
	s := &Session{
		id:      id,
		subject: subject,
		conn:    conn,
		send:    make(chan meter.BalanceEvent, sendBufferSize),
		hub:     h,
	}

	h.mu.Lock()
	h.sessions[subject] = append(h.sessions[subject], s)
	h.mu.Unlock()

	metrics.RecordSessionConnected()
	h.log.Info().
		Str("session_id", id).
		Msg("[RealtimeHub] Session subscribed")

	go s.writePump()
	go s.readPump()
	return s
}

// Publish sends an event to every live session of a subject. Sessions whose
// buffers are full are closed rather than blocking the publisher.
func (h *Hub) Publish(subject string, event meter.BalanceEvent) {
	h.mu.RLock()
	sessions := make([]*Session, len(h.sessions[subject]))
	copy(sessions, h.sessions[subject])
	h.mu.RUnlock()

	for _, s := range sessions {
		if !s.trySend(event) {
			h.log.Warn().
				Str("session_id", s.id).
				Msg("[RealtimeHub] Session too slow, dropping")
			s.Close()
		}
	}
}

// SessionCount returns the number of live sessions for a subject.
func (h *Hub) SessionCount(subject string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[subject])
}

func (h *Hub) unsubscribe(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	list := h.sessions[s.subject]
	for i, candidate := range list {
		if candidate == s {
			h.sessions[s.subject] = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(h.sessions[s.subject]) == 0 {
		delete(h.sessions, s.subject)
	}
}

// trySend queues an event unless the session is closed or its buffer is
// full. It reports false only when the buffer is full.
func (s *Session) trySend(event meter.BalanceEvent) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return true
	}
	select {
	case s.send <- event:
		return true
	default:
		return false
	}
}

// Close detaches the session from the hub and closes the connection. Safe to
// call more than once.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.send)
	s.mu.Unlock()

	s.hub.unsubscribe(s)
	metrics.RecordSessionDisconnected()
	s.hub.log.Info().
		Str("session_id", s.id).
		Msg("[RealtimeHub] Session closed")
}

// writePump drains the send channel onto the connection and keeps the peer
// alive with pings. It owns all writes to the connection.
func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = s.conn.Close()
	}()

	for {
		select {
		case event, ok := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteJSON(event); err != nil {
				s.Close()
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.Close()
				return
			}
		}
	}
}

// readPump discards inbound frames and detects disconnects. Clients only
// listen on this channel; anything they send is ignored.
func (s *Session) readPump() {
	defer s.Close()

	s.conn.SetReadLimit(512)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			return
		}
	}
}
