package transport

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/amalg016/bomb-arena/internal/protocol"
	"github.com/amalg016/bomb-arena/internal/room"
)

// session is one client's WebSocket connection. It implements
// room.Sender and owns its transport exclusively; it only ever holds a
// weak reference (the *room.Room pointer and player id) back to its
// room, never the other way around (spec §4, Ownership).
type session struct {
	conn     *websocket.Conn
	log      *logrus.Entry
	room     *room.Room
	playerID int

	writeMu sync.Mutex
	closed  bool
}

func newSession(conn *websocket.Conn, log *logrus.Entry) *session {
	return &session{conn: conn, log: log}
}

func (s *session) bind(r *room.Room, playerID int) {
	s.room = r
	s.playerID = playerID
}

// Send writes one already-encoded envelope frame. Safe for concurrent
// use: the room's broadcast tick and the session's own reject/accept
// path can both call it.
func (s *session) Send(data []byte) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if s.closed {
		return
	}
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = s.conn.WriteMessage(websocket.TextMessage, data)
}

// Close sends a close frame with the given gameplay/system code and
// tears down the socket.
func (s *session) Close(code int, reason string) {
	s.writeMu.Lock()
	if s.closed {
		s.writeMu.Unlock()
		return
	}
	s.closed = true
	deadline := time.Now().Add(writeWait)
	msg := websocket.FormatCloseMessage(code, reason)
	_ = s.conn.SetWriteDeadline(deadline)
	_ = s.conn.WriteMessage(websocket.CloseMessage, msg)
	s.writeMu.Unlock()
	_ = s.conn.Close()
}

// run drains inbound frames on the calling goroutine (the HTTP
// handler's own goroutine, per net/http's one-goroutine-per-request
// model) until the socket closes, dispatching each decoded envelope to
// onMessage. A missed-pong watchdog enforces the 3s/3-miss drop policy
// (spec §6 Environment).
func (s *session) run(onMessage func(playerID int, env *protocol.Envelope)) {
	abnormal := true
	defer func() {
		s.Close(protocol.CloseAbnormal, "")
		if s.room != nil {
			s.room.Leave(s.playerID, abnormal)
		}
	}()

	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	stopPing := s.startPingLoop()
	defer stopPing()

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				abnormal = false
			}
			return
		}
		env, err := protocol.Decode(data)
		if err != nil {
			continue // invalid input is silently ignored, spec §7
		}
		onMessage(s.playerID, env)
	}
}

func (s *session) startPingLoop() func() {
	ticker := time.NewTicker(pingInterval)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				ticker.Stop()
				return
			case <-ticker.C:
				s.writeMu.Lock()
				if s.closed {
					s.writeMu.Unlock()
					continue
				}
				_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
				err := s.conn.WriteMessage(websocket.PingMessage, nil)
				s.writeMu.Unlock()
				if err != nil {
					return
				}
			}
		}
	}()
	return func() { close(done) }
}
