// Package room implements the per-match tick worker: it owns one
// sim.State, the sessions bound to its two player slots, the phase
// state machine layered on top of the simulation, and the timers that
// govern countdown and reconnect grace. The single-threaded tick-worker
// shape (one goroutine, everything else communicated through channels
// or a guarding mutex) is grounded on the teacher's internal/game
// engine and refined against kazip-game's server/main.go room.run(),
// which drives simulation and broadcast off two independent tickers
// and defers disconnect handling to a time.AfterFunc grace timer.
package room

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/amalg016/bomb-arena/internal/protocol"
	"github.com/amalg016/bomb-arena/internal/sim"
)

const (
	tickRate       = 16 * time.Millisecond // ~60 Hz, matches sim.nominalDtMS
	broadcastRate  = 50 * time.Millisecond // 20 Hz snapshot publish
	reconnectGrace = 15 * time.Second
	countdownSecs  = 3
	inputQueueCap  = 32
)

// Sender is the write side of a session's transport, owned exclusively
// by the gateway. Room never touches a socket directly.
type Sender interface {
	Send(data []byte)
	Close(code int, reason string)
}

// queuedMsg is one drained inbound event; the room's tick worker is the
// only goroutine that ever reads player-facing simulation state, so all
// mutation happens by replaying this queue at the top of a tick.
type queuedMsg struct {
	playerID int
	kind     protocol.MsgType
	input    protocol.InputMsg
}

type slot struct {
	playerID   int
	token      string
	sender     Sender
	connected  bool
	ready      bool
	disconnect *time.Timer
}

// Room holds one simulation instance, its connected sessions, the
// layered phase state machine, input buffers, and the snapshot
// publisher (component C8).
type Room struct {
	Code      string
	Mode      sim.GameMode
	IsPrivate bool

	log *logrus.Entry

	mu             sync.Mutex
	state          *sim.State
	rng            *sim.RNG
	slots          map[int]*slot
	inputs         map[int]sim.Input
	inbound        chan queuedMsg
	cancel         chan struct{}
	countdownAccMS float64

	// OnDispose is invoked once, off the tick goroutine, when the room
	// has zero sessions and should be removed from the matchmaker
	// registry.
	OnDispose func(code string)

	disposed bool
}

// New builds a room in WAITING phase with a freshly seeded simulation.
func New(code string, mode sim.GameMode, isPrivate bool, log *logrus.Entry) *Room {
	rng := sim.NewRNG(sim.NewSeed())
	state := sim.NewState(mode, code, isPrivate)
	state.InitLevel(0, rng)

	return &Room{
		Code:      code,
		Mode:      mode,
		IsPrivate: isPrivate,
		log:       log.WithField("room_code", code),
		state:     state,
		rng:       rng,
		slots:     make(map[int]*slot),
		inputs:    make(map[int]sim.Input),
		inbound:   make(chan queuedMsg, inputQueueCap),
		cancel:    make(chan struct{}),
	}
}

// Capacity reports how many player slots the room's mode allows.
func (r *Room) Capacity() int {
	if r.Mode == sim.ModePVE {
		return 1
	}
	return 2
}

// SessionCount returns the number of currently bound slots (connected
// or within their reconnect grace window).
func (r *Room) SessionCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.slots)
}

// Locked reports whether the room has reached capacity.
func (r *Room) Locked() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.slots) >= r.Capacity()
}

// Phase returns the room's current game phase.
func (r *Room) Phase() sim.Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.Phase
}

// Join binds a new session to a fresh player slot. Called by the
// matchmaker/gateway after it has already validated the room is
// joinable (not locked, WAITING).
func (r *Room) Join(sender Sender, token string) (playerID int, snapshot []byte, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.slots) >= r.Capacity() {
		return 0, nil, ErrRoomLocked
	}
	if r.state.Phase != sim.PhaseWaiting {
		return 0, nil, ErrRoomNotWaiting
	}

	id := 1
	for r.slots[id] != nil {
		id++
	}
	r.state.AddPlayer(id)
	r.slots[id] = &slot{playerID: id, token: token, sender: sender, connected: true}
	r.inputs[id] = sim.Input{}

	if len(r.slots) >= r.Capacity() {
		r.beginCountdownLocked()
	}

	env, encErr := protocol.Encode(protocol.MsgJoinAccept, protocol.JoinAcceptMsg{
		SessionID:    token,
		SessionToken: token,
		PlayerID:     id,
		Snapshot:     protocol.BuildSnapshot(r.state),
	})
	if encErr != nil {
		return 0, nil, encErr
	}
	return id, env, nil
}

// Rejoin re-binds a returning session to its previously held slot,
// cancelling the pending disconnect timer.
func (r *Room) Rejoin(token string, sender Sender) (playerID int, snapshot []byte, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, sl := range r.slots {
		if sl.token != token {
			continue
		}
		if sl.disconnect != nil {
			sl.disconnect.Stop()
			sl.disconnect = nil
		}
		sl.sender = sender
		sl.connected = true

		env, encErr := protocol.Encode(protocol.MsgJoinAccept, protocol.JoinAcceptMsg{
			SessionID:    token,
			SessionToken: token,
			PlayerID:     id,
			Snapshot:     protocol.BuildSnapshot(r.state),
		})
		return id, env, encErr
	}
	return 0, nil, ErrRoomNotFound
}

// Leave marks a session's transport gone. A graceful leave removes the
// slot at once; an abnormal one starts its reconnect grace window
// (spec §4.6) and the grace timer removes the slot when it fires.
// Removal takes the room mutex, so it never lands in the middle of a tick.
func (r *Room) Leave(playerID int, abnormal bool) {
	r.mu.Lock()
	sl, ok := r.slots[playerID]
	if !ok {
		r.mu.Unlock()
		return
	}
	sl.connected = false
	sl.sender = nil
	if !abnormal {
		r.mu.Unlock()
		r.removeSlot(playerID)
		return
	}

	if sl.disconnect != nil {
		sl.disconnect.Stop()
	}
	var timer *time.Timer
	timer = time.AfterFunc(reconnectGrace, func() {
		r.mu.Lock()
		current, ok := r.slots[playerID]
		if !ok || current.disconnect != timer {
			r.mu.Unlock()
			return
		}
		r.mu.Unlock()
		r.removeSlot(playerID)
	})
	sl.disconnect = timer
	r.mu.Unlock()
}

func (r *Room) removeSlot(playerID int) {
	r.mu.Lock()
	if sl, ok := r.slots[playerID]; ok && sl.disconnect != nil {
		sl.disconnect.Stop()
	}
	delete(r.slots, playerID)
	delete(r.inputs, playerID)
	r.state.RemovePlayer(playerID)
	if r.state.Phase == sim.PhasePlaying {
		r.state.Arbitrate()
	}
	empty := len(r.slots) == 0
	r.mu.Unlock()

	if empty {
		r.Dispose()
	}
}

// HandleInput enqueues a client input update for the next tick drain.
func (r *Room) HandleInput(playerID int, in protocol.InputMsg) {
	select {
	case r.inbound <- queuedMsg{playerID: playerID, kind: protocol.MsgInput, input: in}:
	default:
		r.log.Warn("input queue full, dropping message")
	}
}

// HandleBomb enqueues a one-shot bomb-placement request.
func (r *Room) HandleBomb(playerID int) {
	select {
	case r.inbound <- queuedMsg{playerID: playerID, kind: protocol.MsgBomb}:
	default:
		r.log.Warn("input queue full, dropping bomb request")
	}
}

// HandleReady marks a slot ready; a PVE room starts as soon as its
// single player signals ready (spec §6, `ready {}`).
func (r *Room) HandleReady(playerID int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sl, ok := r.slots[playerID]
	if !ok || r.state.Phase != sim.PhaseWaiting {
		return
	}
	sl.ready = true
	if r.Mode == sim.ModePVE {
		r.beginCountdownLocked()
	}
}

func (r *Room) beginCountdownLocked() {
	r.state.Phase = sim.PhaseCountdown
	r.state.CountdownS = countdownSecs
	r.countdownAccMS = 0
}

// Run is the room's tick worker: one goroutine driving the simulation
// clock and a slower snapshot-broadcast clock, exactly as the teacher's
// room.run() pairs a tick ticker with a broadcast ticker.
func (r *Room) Run() {
	tick := time.NewTicker(tickRate)
	broadcast := time.NewTicker(broadcastRate)
	defer tick.Stop()
	defer broadcast.Stop()

	for {
		select {
		case <-r.cancel:
			return
		case <-tick.C:
			r.step(float64(tickRate / time.Millisecond))
		case <-broadcast.C:
			r.publish()
		}
	}
}

func (r *Room) step(dtMS float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.drainInboundLocked()

	switch r.state.Phase {
	case sim.PhaseCountdown:
		r.countdownAccMS += dtMS
		for r.countdownAccMS >= 1000 {
			r.countdownAccMS -= 1000
			r.state.CountdownS--
		}
		if r.state.CountdownS <= 0 {
			r.state.Phase = sim.PhasePlaying
		}
	case sim.PhasePlaying:
		r.state.Step(dtMS, r.inputs, r.rng)
	case sim.PhaseLevelClear, sim.PhaseFinished, sim.PhaseWaiting:
		// awaiting an explicit advance/restart signal
	}
	r.clearBombFlagsLocked()
}

// clearBombFlagsLocked resets the one-shot bomb request after the tick
// that consumed it, so a single queued `bomb` message places at most
// one bomb even though the movement booleans it travels alongside
// persist across ticks until the client sends a new input state.
func (r *Room) clearBombFlagsLocked() {
	for id, in := range r.inputs {
		if in.Bomb {
			in.Bomb = false
			r.inputs[id] = in
		}
	}
}

func (r *Room) drainInboundLocked() {
	for {
		select {
		case msg := <-r.inbound:
			r.applyLocked(msg)
		default:
			return
		}
	}
}

func (r *Room) applyLocked(msg queuedMsg) {
	if _, ok := r.slots[msg.playerID]; !ok {
		return
	}
	switch msg.kind {
	case protocol.MsgInput:
		r.inputs[msg.playerID] = sim.Input{
			Up: msg.input.Up, Down: msg.input.Down,
			Left: msg.input.Left, Right: msg.input.Right,
		}
	case protocol.MsgBomb:
		in := r.inputs[msg.playerID]
		in.Bomb = true
		r.inputs[msg.playerID] = in
	}
}

func (r *Room) publish() {
	r.mu.Lock()
	snap := protocol.BuildSnapshot(r.state)
	senders := make([]Sender, 0, len(r.slots))
	for _, sl := range r.slots {
		if sl.connected && sl.sender != nil {
			senders = append(senders, sl.sender)
		}
	}
	r.mu.Unlock()

	data, err := protocol.Encode(protocol.MsgSnapshot, snap)
	if err != nil {
		r.log.WithError(err).Error("encode snapshot")
		return
	}
	for _, sender := range senders {
		sender.Send(data)
	}
}

// AdvanceLevel moves a PVE room out of LEVEL_CLEAR into the next level
// (spec §4.5: LEVEL_CLEAR "awaits an explicit advance signal").
func (r *Room) AdvanceLevel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state.Phase != sim.PhaseLevelClear {
		return
	}
	r.state.InitLevel(r.state.Level+1, r.rng)
	r.beginCountdownLocked()
}

// Restart returns a FINISHED room to a fresh match (spec §4.5 restart
// semantics): scores reset, level 0, and a fresh COUNTDOWN at once when
// every slot is still bound; otherwise the room stays WAITING.
func (r *Room) Restart() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state.Phase != sim.PhaseFinished {
		return
	}
	r.state.Reset(r.rng)
	if len(r.slots) >= r.Capacity() {
		r.beginCountdownLocked()
	}
}

// Dispose stops the tick worker, closes any live sessions with a
// normal-closure code, and notifies the matchmaker registry.
func (r *Room) Dispose() {
	r.mu.Lock()
	if r.disposed {
		r.mu.Unlock()
		return
	}
	r.disposed = true
	for _, sl := range r.slots {
		if sl.disconnect != nil {
			sl.disconnect.Stop()
		}
		if sl.sender != nil {
			sl.sender.Close(protocol.CloseNormal, "room disposed")
		}
	}
	code := r.Code
	r.mu.Unlock()

	close(r.cancel)
	if r.OnDispose != nil {
		r.OnDispose(code)
	}
}
