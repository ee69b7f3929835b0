// Package protocol defines the wire envelope and message shapes shared
// between the session gateway and connected clients (spec §6). The
// envelope/typed-payload shape is grounded on the teacher's
// internal/network/protocol.go; the transport underneath is WebSocket
// text frames rather than length-prefixed TCP, so no length header is
// needed here.
package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/amalg016/bomb-arena/internal/sim"
)

// MsgType discriminates envelope payloads.
type MsgType string

const (
	// Client -> server
	MsgInput MsgType = "input"
	MsgBomb  MsgType = "bomb"
	MsgReady MsgType = "ready"

	// Server -> client
	MsgJoinAccept MsgType = "join_accept"
	MsgSnapshot   MsgType = "snapshot"
	MsgJoinError  MsgType = "join_error"
	MsgLeave      MsgType = "leave"
)

// Envelope wraps every message with a type discriminator.
type Envelope struct {
	Type    MsgType         `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// InputMsg is the client's edge-triggered movement state (spec §6).
type InputMsg struct {
	Up    bool `json:"up"`
	Down  bool `json:"down"`
	Left  bool `json:"left"`
	Right bool `json:"right"`
}

// JoinAcceptMsg is sent once after a successful join/handshake.
type JoinAcceptMsg struct {
	SessionID    string   `json:"sessionId"`
	SessionToken string   `json:"sessionToken"`
	PlayerID     int      `json:"playerId"`
	Snapshot     Snapshot `json:"snapshot"`
}

// ErrorCategory is the machine-readable failure category surfaced to a
// failed join attempt (spec §7 — never a stack trace).
type ErrorCategory string

const (
	ErrCategoryNotFound     ErrorCategory = "room_not_found"
	ErrCategoryLocked       ErrorCategory = "room_locked"
	ErrCategoryNotWaiting   ErrorCategory = "room_not_waiting"
	ErrCategoryModeMismatch ErrorCategory = "mode_mismatch"
)

// JoinErrorMsg reports why a join/matchmaking request failed.
type JoinErrorMsg struct {
	Category ErrorCategory `json:"category"`
	Message  string        `json:"message"`
}

// Close codes (spec §6).
const (
	CloseNormal          = 1000
	CloseAbnormal        = 1006
	CloseMatchTerminated = 4000
)

// --- Snapshot wire schema (spec §6) ---

type Snapshot struct {
	Phase       string          `json:"phase"`
	GameMode    string          `json:"gameMode"`
	RoomCode    string          `json:"roomCode"`
	IsPrivate   bool            `json:"isPrivate"`
	Countdown   int             `json:"countdown"`
	TimeLeft    int             `json:"timeLeft"`
	Level       int             `json:"level"`
	Winner      int             `json:"winner"`
	BossSpawned bool            `json:"bossSpawned"`
	Grid        []int           `json:"grid"`
	Items       []ItemWire      `json:"items"`
	Players     []PlayerWire    `json:"players"`
	Bombs       []BombWire      `json:"bombs"`
	Explosions  []ExplosionWire `json:"explosions"`
	Enemies     []EnemyWire     `json:"enemies"`
}

type ItemWire struct {
	GridX int `json:"gridX"`
	GridY int `json:"gridY"`
	Item  int `json:"itemType"`
}

type PlayerWire struct {
	ID              int     `json:"id"`
	X               float64 `json:"x"`
	Y               float64 `json:"y"`
	Color           int     `json:"color"`
	State           int     `json:"state"`
	Direction       int     `json:"direction"`
	Speed           float64 `json:"speed"`
	BombRange       int     `json:"bombRange"`
	MaxBombs        int     `json:"maxBombs"`
	ActiveBombs     int     `json:"activeBombs"`
	Score           int     `json:"score"`
	CanKick         bool    `json:"canKick"`
	HasShield       bool    `json:"hasShield"`
	GhostTimer      int     `json:"ghostTimer"`
	TrappedTimer    int     `json:"trappedTimer"`
	InvincibleTimer int     `json:"invincibleTimer"`
}

type BombWire struct {
	ID      uint32  `json:"id"`
	OwnerID int     `json:"ownerId"`
	GridX   int     `json:"gridX"`
	GridY   int     `json:"gridY"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	VX      float64 `json:"vx"`
	VY      float64 `json:"vy"`
	Range   int     `json:"range"`
	Timer   int     `json:"timer"`
}

type ExplosionWire struct {
	ID      uint32 `json:"id"`
	OwnerID int    `json:"ownerId"`
	GridX   int    `json:"gridX"`
	GridY   int    `json:"gridY"`
	Timer   int    `json:"timer"`
}

type EnemyWire struct {
	ID        uint32  `json:"id"`
	EnemyType int     `json:"enemyType"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Direction int     `json:"direction"`
	Speed     float64 `json:"speed"`
	HP        int     `json:"hp"`
	MaxHP     int     `json:"maxHp"`
}

// Encode wraps a payload in a typed envelope and marshals it to JSON.
func Encode(msgType MsgType, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	env := Envelope{Type: msgType, Payload: json.RawMessage(body)}
	return json.Marshal(env)
}

// Decode unmarshals a raw frame into its envelope.
func Decode(data []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("unmarshal envelope: %w", err)
	}
	return &env, nil
}

// DecodePayload unmarshals an envelope's payload into target.
func DecodePayload(env *Envelope, target interface{}) error {
	return json.Unmarshal(env.Payload, target)
}

// BuildSnapshot flattens a sim.State into its wire representation.
func BuildSnapshot(s *sim.State) Snapshot {
	grid := make([]int, len(s.Grid))
	for i, t := range s.Grid {
		grid[i] = int(t)
	}

	items := make([]ItemWire, 0)
	for _, it := range s.Items {
		if !it.Revealed {
			continue
		}
		items = append(items, ItemWire{GridX: it.Cell.Col, GridY: it.Cell.Row, Item: int(it.Kind)})
	}

	players := make([]PlayerWire, 0, len(s.Players))
	for _, p := range s.Players {
		players = append(players, PlayerWire{
			ID: p.ID, X: p.Pos.X, Y: p.Pos.Y, Color: p.ID - 1,
			State: int(p.State), Direction: int(p.Dir), Speed: p.Speed,
			BombRange: p.BombRange, MaxBombs: p.MaxBombs, ActiveBombs: p.ActiveBombs,
			Score: p.Score, CanKick: p.CanKick, HasShield: p.HasShield,
			GhostTimer: int(p.GhostMS), TrappedTimer: int(p.TrappedMS), InvincibleTimer: int(p.InvincibleMS),
		})
	}

	bombs := make([]BombWire, 0, len(s.Bombs))
	for _, b := range s.Bombs {
		bombs = append(bombs, BombWire{
			ID: b.ID, OwnerID: b.OwnerID, GridX: b.Cell.Col, GridY: b.Cell.Row,
			X: b.Pos.X, Y: b.Pos.Y, VX: b.Vel.X, VY: b.Vel.Y, Range: b.Range, Timer: int(b.FuseMS),
		})
	}

	explosions := make([]ExplosionWire, 0, len(s.Explosions))
	for _, e := range s.Explosions {
		explosions = append(explosions, ExplosionWire{
			ID: e.ID, OwnerID: e.OwnerID, GridX: e.Cell.Col, GridY: e.Cell.Row, Timer: int(e.TTLMS),
		})
	}

	enemies := make([]EnemyWire, 0, len(s.Enemies))
	for _, e := range s.Enemies {
		enemies = append(enemies, EnemyWire{
			ID: e.ID, EnemyType: int(e.Kind), X: e.Pos.X, Y: e.Pos.Y,
			Direction: int(e.Dir), Speed: e.Speed, HP: e.HP, MaxHP: e.MaxHP,
		})
	}

	return Snapshot{
		Phase:       phaseName(s.Phase),
		GameMode:    modeName(s.GameMode),
		RoomCode:    s.RoomCode,
		IsPrivate:   s.IsPrivate,
		Countdown:   s.CountdownS,
		TimeLeft:    s.TimeLeftS,
		Level:       s.Level,
		Winner:      int(s.Winner),
		BossSpawned: s.BossSpawned,
		Grid:        grid,
		Items:       items,
		Players:     players,
		Bombs:       bombs,
		Explosions:  explosions,
		Enemies:     enemies,
	}
}

func phaseName(p sim.Phase) string {
	switch p {
	case sim.PhaseWaiting:
		return "WAITING"
	case sim.PhaseCountdown:
		return "COUNTDOWN"
	case sim.PhasePlaying:
		return "PLAYING"
	case sim.PhaseLevelClear:
		return "LEVEL_CLEAR"
	case sim.PhaseFinished:
		return "FINISHED"
	default:
		return "UNKNOWN"
	}
}

func modeName(m sim.GameMode) string {
	if m == sim.ModePVE {
		return "PVE"
	}
	return "PVP"
}
