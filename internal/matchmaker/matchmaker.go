// Package matchmaker implements the room registry: creation, join by
// code, quick-match, and disposal. The registry is the one structure
// touched by multiple goroutines (the session-accept path and each
// room's dispose path), so it is guarded by a single RWMutex kept
// deliberately dumb — create/join/dispose are all it does, matching
// spec §5's "low frequency, must be linearizable" requirement. The
// index-by-code-plus-by-mode shape is grounded on the teacher's
// internal/discovery registry, generalized from LAN broadcast entries
// to matchmaker rooms.
package matchmaker

import (
	"crypto/rand"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/amalg016/bomb-arena/internal/room"
	"github.com/amalg016/bomb-arena/internal/sim"
)

// codeAlphabet excludes 0/O/1/I to keep spoken/typed room codes
// unambiguous (spec §4.6).
const codeAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"
const codeLength = 4

// Stable per-mode room-type names (spec §6: "Public lobby distinguishes
// two room kinds by stable name, one per gameMode... Quick-match and
// join-by-code both scope to these names"). The registry indexes by
// this name rather than the raw sim.GameMode so the name is the actual
// scoping key, not just a label applied after the fact.
const (
	RoomTypePVP = "bubble_pvp"
	RoomTypePVE = "bubble_pve"
)

func roomType(mode sim.GameMode) string {
	if mode == sim.ModePVE {
		return RoomTypePVE
	}
	return RoomTypePVP
}

var (
	ErrRoomNotFound   = room.ErrRoomNotFound
	ErrRoomLocked     = room.ErrRoomLocked
	ErrRoomNotWaiting = room.ErrRoomNotWaiting
	ErrModeMismatch   = room.ErrModeMismatch
)

// Registry is the process-wide set of live rooms.
type Registry struct {
	log *logrus.Entry

	mu     sync.RWMutex
	byCode map[string]*room.Room
	byMode map[string][]*room.Room
}

// New builds an empty registry.
func New(log *logrus.Entry) *Registry {
	return &Registry{
		log:    log,
		byCode: make(map[string]*room.Room),
		byMode: make(map[string][]*room.Room),
	}
}

// Stats is a snapshot of the registry for the /online-stats endpoint.
type Stats struct {
	TotalPlayers int
	TotalRooms   int
	Rooms        []RoomStats
}

type RoomStats struct {
	RoomCode   string
	Mode       string
	Players    int
	MaxPlayers int
	IsPrivate  bool
}

// Create always mints a fresh room with a fresh code (spec §4.6).
func (reg *Registry) Create(mode sim.GameMode, isPrivate bool) *room.Room {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	code := reg.freshCodeLocked()
	r := room.New(code, mode, isPrivate, reg.log)
	r.OnDispose = reg.dispose
	reg.byCode[code] = r
	t := roomType(mode)
	reg.byMode[t] = append(reg.byMode[t], r)
	go r.Run()
	return r
}

// JoinByCode looks a room up by its code; fails if none, locked, or not
// WAITING (spec §4.6).
func (reg *Registry) JoinByCode(code string) (*room.Room, error) {
	reg.mu.RLock()
	r, ok := reg.byCode[code]
	reg.mu.RUnlock()
	if !ok {
		return nil, ErrRoomNotFound
	}
	if r.Locked() {
		return nil, ErrRoomLocked
	}
	if r.Phase() != sim.PhaseWaiting {
		return nil, ErrRoomNotWaiting
	}
	return r, nil
}

// QuickMatch returns the first non-private, non-locked, WAITING room of
// the requested mode, else creates one (spec §4.6).
func (reg *Registry) QuickMatch(mode sim.GameMode) *room.Room {
	reg.mu.RLock()
	for _, r := range reg.byMode[roomType(mode)] {
		if !r.IsPrivate && !r.Locked() && r.Phase() == sim.PhaseWaiting {
			reg.mu.RUnlock()
			return r
		}
	}
	reg.mu.RUnlock()
	return reg.Create(mode, false)
}

// Lookup returns room metadata without joining (spec §6, room metadata
// "queryable without joining").
func (reg *Registry) Lookup(code string) (*room.Room, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	r, ok := reg.byCode[code]
	return r, ok
}

// StatsSnapshot aggregates registry-wide counts for the HTTP surface.
func (reg *Registry) StatsSnapshot() Stats {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	out := Stats{Rooms: make([]RoomStats, 0, len(reg.byCode))}
	for code, r := range reg.byCode {
		n := r.SessionCount()
		out.TotalPlayers += n
		out.TotalRooms++
		out.Rooms = append(out.Rooms, RoomStats{
			RoomCode: code, Mode: roomType(r.Mode), Players: n,
			MaxPlayers: r.Capacity(), IsPrivate: r.IsPrivate,
		})
	}
	return out
}

func (reg *Registry) dispose(code string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	r, ok := reg.byCode[code]
	if !ok {
		return
	}
	delete(reg.byCode, code)
	t := roomType(r.Mode)
	list := reg.byMode[t]
	for i, cand := range list {
		if cand == r {
			reg.byMode[t] = append(list[:i], list[i+1:]...)
			break
		}
	}
}

func (reg *Registry) freshCodeLocked() string {
	for {
		code := randomCode()
		if _, exists := reg.byCode[code]; !exists {
			return code
		}
	}
}

func randomCode() string {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failure is unreachable on any real platform; fall
		// back to a fixed but still valid-alphabet code rather than panic.
		return "AAAA"
	}
	out := make([]byte, codeLength)
	for i, b := range buf {
		out[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(out)
}
