package transport

import (
	"fmt"
	"net/url"
	"time"

	"github.com/gorilla/websocket"

	"github.com/amalg016/bomb-arena/internal/protocol"
)

// DebugClient is a minimal WebSocket client used by cmd/client for
// manual smoke-testing: it joins a room and decodes every server frame,
// with no rendering or prediction (out of scope, spec §1).
type DebugClient struct {
	conn *websocket.Conn
}

// DialOptions selects how the debug client joins a room.
type DialOptions struct {
	Addr    string // host:port, no scheme
	Code    string // joinByCode when set
	Mode    string // "pve" or "pvp", used when Code is empty
	Private bool
	Token   string // reconnect token, takes precedence when set
}

// Dial opens a WebSocket connection using the given join options.
func Dial(opts DialOptions) (*DebugClient, error) {
	q := url.Values{}
	switch {
	case opts.Token != "":
		q.Set("token", opts.Token)
	case opts.Code != "":
		q.Set("code", opts.Code)
	default:
		q.Set("mode", opts.Mode)
		if opts.Private {
			q.Set("private", "1")
		}
	}

	u := url.URL{Scheme: "ws", Host: opts.Addr, Path: "/ws", RawQuery: q.Encode()}
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", u.String(), err)
	}
	return &DebugClient{conn: conn}, nil
}

// Close closes the underlying connection.
func (c *DebugClient) Close() error {
	return c.conn.Close()
}

// SendInput encodes and sends an input update.
func (c *DebugClient) SendInput(up, down, left, right bool) error {
	data, err := protocol.Encode(protocol.MsgInput, protocol.InputMsg{Up: up, Down: down, Left: left, Right: right})
	if err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// SendBomb requests a bomb placement.
func (c *DebugClient) SendBomb() error {
	data, err := protocol.Encode(protocol.MsgBomb, struct{}{})
	if err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// SendReady signals willingness to start.
func (c *DebugClient) SendReady() error {
	data, err := protocol.Encode(protocol.MsgReady, struct{}{})
	if err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Next blocks until the next decoded server envelope, or an error once
// the connection closes.
func (c *DebugClient) Next() (*protocol.Envelope, error) {
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	return protocol.Decode(data)
}

// SetReadDeadline forwards to the underlying connection, useful for
// bounding a debug session in tests.
func (c *DebugClient) SetReadDeadline(t time.Time) error {
	return c.conn.SetReadDeadline(t)
}
