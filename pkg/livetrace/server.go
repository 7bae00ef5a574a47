// Package livetrace streams reactor.Observer events to connected
// browser/CLI inspectors over WebSocket, adapted from the session and
// writer-goroutine pattern used for server-push session management.
package livetrace

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/recera/lunk/pkg/reactor"
)

const (
	writeTimeout = 10 * time.Second
	pingInterval = 30 * time.Second
	pongTimeout  = 90 * time.Second
)

// Server accepts WebSocket connections and fans out trace Events to
// every connected session. It implements reactor.Observer directly, so
// it can be installed on an EventGraph with eg.Observe(server).
type Server struct {
	upgrader websocket.Upgrader

	mu       sync.RWMutex
	sessions map[*session]struct{}
}

// NewServer creates a Server with no connected sessions.
func NewServer() *Server {
	return &Server{
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		sessions: make(map[*session]struct{}),
	}
}

// session is one connected inspector's outbound message queue and its
// read loop (used only to detect the connection closing).
type session struct {
	conn   *websocket.Conn
	send   chan []byte
	closed chan struct{}
	once   sync.Once
}

// HandleWebSocket upgrades r into a trace-streaming WebSocket
// connection and blocks until it closes.
func (srv *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := srv.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[livetrace] upgrade failed: %v", err)
		return
	}

	sess := &session{
		conn:   conn,
		send:   make(chan []byte, 256),
		closed: make(chan struct{}),
	}

	srv.mu.Lock()
	srv.sessions[sess] = struct{}{}
	srv.mu.Unlock()

	go sess.writer()
	sess.reader()

	srv.mu.Lock()
	delete(srv.sessions, sess)
	srv.mu.Unlock()
	sess.close()
}

// reader drains inbound frames (inspectors never send anything
// meaningful; this only exists to notice the socket closing, mirroring
// a read-loop-as-disconnect-detector pattern).
func (s *session) reader() {
	s.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongTimeout))
		return nil
	})
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writer owns the connection's write side: broadcast messages and
// periodic pings both funnel through here so only one goroutine ever
// calls WriteMessage, per gorilla/websocket's concurrency contract.
func (s *session) writer() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-s.send:
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-s.closed:
			return
		}
	}
}

func (s *session) close() {
	s.once.Do(func() {
		close(s.closed)
		s.conn.Close()
	})
}

// broadcast encodes event as JSON and pushes it to every connected
// session's queue, dropping it for any session whose queue is full
// rather than blocking the caller (the caller is almost always inside
// an active event scope).
func (srv *Server) broadcast(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[livetrace] failed to marshal event: %v", err)
		return
	}

	srv.mu.RLock()
	defer srv.mu.RUnlock()
	for sess := range srv.sessions {
		select {
		case sess.send <- data:
		default:
			log.Printf("[livetrace] session send buffer full, dropping event")
		}
	}
}

// PassStart implements reactor.Observer.
func (srv *Server) PassStart(involved, leaves int) {
	srv.broadcast(Event{Kind: EventPassStart, PassInvolved: involved, PassLeaves: leaves})
}

// LinkActivated implements reactor.Observer.
func (srv *Server) LinkActivated(linkID uint64) {
	srv.broadcast(Event{Kind: EventLinkActivated, LinkID: linkID})
}

// SendSnapshot pushes a point-in-time graph snapshot (typically from
// reactor.Registry.Snapshot) to every connected inspector, for an
// initial render on connect or a manual refresh.
func (srv *Server) SendSnapshot(data reactor.Data) {
	srv.broadcast(Event{Kind: EventSnapshot, Snapshot: &data})
}
