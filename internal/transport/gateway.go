// Package transport hosts the session gateway (C10): WebSocket upgrade,
// handshake, message decode/encode, and the read/write pumps that hand
// off to a room. The single-goroutine-per-connection read loop plus a
// mutex-guarded writer is grounded on the teacher's room.handleConnection in
// spirit (one reader goroutine per socket, decoded messages routed into
// the room's guarded state) generalized from raw TCP framing to
// gorilla/websocket frames and from the teacher's chat/appearance
// verbs to this domain's input/bomb/ready verbs.
package transport

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/amalg016/bomb-arena/internal/matchmaker"
	"github.com/amalg016/bomb-arena/internal/protocol"
	"github.com/amalg016/bomb-arena/internal/room"
	"github.com/amalg016/bomb-arena/internal/sim"
)

const (
	pingInterval = 3 * time.Second
	pongWait     = pingInterval*3 + time.Second
	writeWait    = 5 * time.Second
)

// Gateway upgrades HTTP connections to WebSocket sessions and routes
// join/quick-match/reconnect requests into the matchmaker registry.
type Gateway struct {
	registry *matchmaker.Registry
	log      *logrus.Entry
	upgrader websocket.Upgrader
}

// NewGateway builds a session gateway bound to a room registry.
func NewGateway(registry *matchmaker.Registry, log *logrus.Entry) *Gateway {
	return &Gateway{
		registry: registry,
		log:      log,
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true }, // CORS permissive for browser clients (spec §6)
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}
}

// ServeWS handles GET /ws. Query params select the join verb: `code`
// joins an existing room, `mode` (+optional `private=1`) quick-matches
// or creates one, and `token` re-binds a returning session.
func (g *Gateway) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	sess := newSession(conn, g.log)

	target, joinErr := g.resolveRoom(r)
	if joinErr != nil {
		g.rejectJoin(sess, joinErr)
		return
	}

	if token := r.URL.Query().Get("token"); token != "" {
		if playerID, snapshot, err := target.Rejoin(token, sess); err == nil {
			sess.bind(target, playerID)
			sess.Send(snapshot)
			sess.run(g.onMessage(target))
			return
		}
	}

	token := uuid.NewString()
	playerID, snapshot, err := target.Join(sess, token)
	if err != nil {
		g.rejectJoin(sess, err)
		return
	}
	sess.bind(target, playerID)
	sess.Send(snapshot)
	sess.run(g.onMessage(target))
}

func (g *Gateway) resolveRoom(r *http.Request) (*room.Room, error) {
	q := r.URL.Query()
	if code := q.Get("code"); code != "" {
		return g.registry.JoinByCode(code)
	}

	mode := sim.ModePVP
	if q.Get("mode") == "pve" {
		mode = sim.ModePVE
	}
	if q.Get("private") == "1" {
		return g.registry.Create(mode, true), nil
	}
	return g.registry.QuickMatch(mode), nil
}

func (g *Gateway) rejectJoin(sess *session, err error) {
	data, encErr := protocol.Encode(protocol.MsgJoinError, protocol.JoinErrorMsg{
		Category: errorCategory(err), Message: err.Error(),
	})
	if encErr == nil {
		sess.Send(data)
	}
	sess.Close(protocol.CloseNormal, "join failed")
}

// errorCategory maps a matchmaker/room error to the wire taxonomy
// (spec §7: "a machine-readable category, no stack traces").
func errorCategory(err error) protocol.ErrorCategory {
	switch err {
	case room.ErrRoomLocked:
		return protocol.ErrCategoryLocked
	case room.ErrRoomNotWaiting:
		return protocol.ErrCategoryNotWaiting
	case room.ErrModeMismatch:
		return protocol.ErrCategoryModeMismatch
	default:
		return protocol.ErrCategoryNotFound
	}
}

// onMessage returns the per-session callback that decodes an inbound
// frame and routes it into the bound room.
func (g *Gateway) onMessage(r *room.Room) func(playerID int, env *protocol.Envelope) {
	return func(playerID int, env *protocol.Envelope) {
		switch env.Type {
		case protocol.MsgInput:
			var in protocol.InputMsg
			if err := protocol.DecodePayload(env, &in); err != nil {
				return
			}
			r.HandleInput(playerID, in)
		case protocol.MsgBomb:
			r.HandleBomb(playerID)
		case protocol.MsgReady:
			r.HandleReady(playerID)
		}
	}
}
