package room

import (
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/amalg016/bomb-arena/internal/protocol"
	"github.com/amalg016/bomb-arena/internal/sim"
)

type fakeSender struct {
	sent   [][]byte
	closed bool
}

func (f *fakeSender) Send(data []byte)              { f.sent = append(f.sent, data) }
func (f *fakeSender) Close(code int, reason string) { f.closed = true }

func testLog() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(nopWriter{})
	return logrus.NewEntry(l)
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestJoinLocksAtCapacityAndStartsCountdown(t *testing.T) {
	r := New("ABCD", sim.ModePVP, false, testLog())

	if _, _, err := r.Join(&fakeSender{}, "tok1"); err != nil {
		t.Fatalf("first join: %v", err)
	}
	if r.Phase() != sim.PhaseWaiting {
		t.Fatalf("expected WAITING with 1/2 slots, got %v", r.Phase())
	}

	if _, _, err := r.Join(&fakeSender{}, "tok2"); err != nil {
		t.Fatalf("second join: %v", err)
	}
	if r.Phase() != sim.PhaseCountdown {
		t.Fatalf("expected COUNTDOWN once capacity reached, got %v", r.Phase())
	}
	if !r.Locked() {
		t.Fatal("expected room locked at capacity")
	}
}

func TestJoinRejectsWhenLocked(t *testing.T) {
	r := New("ABCD", sim.ModePVP, false, testLog())
	r.Join(&fakeSender{}, "tok1")
	r.Join(&fakeSender{}, "tok2")

	if _, _, err := r.Join(&fakeSender{}, "tok3"); err != ErrRoomLocked {
		t.Fatalf("expected ErrRoomLocked, got %v", err)
	}
}

func TestJoinRejectsWhenNotWaiting(t *testing.T) {
	r := New("WXYZ", sim.ModePVP, false, testLog())
	r.Join(&fakeSender{}, "solo")
	r.mu.Lock()
	r.state.Phase = sim.PhasePlaying
	r.mu.Unlock()

	if _, _, err := r.Join(&fakeSender{}, "tok2"); err != ErrRoomNotWaiting {
		t.Fatalf("expected ErrRoomNotWaiting, got %v", err)
	}
}

func TestLeaveGracefulRemovesSlotImmediately(t *testing.T) {
	r := New("ABCD", sim.ModePVE, false, testLog())
	disposed := false
	r.OnDispose = func(code string) { disposed = true }

	id, _, err := r.Join(&fakeSender{}, "tok1")
	if err != nil {
		t.Fatalf("join: %v", err)
	}

	r.Leave(id, false)

	if r.SessionCount() != 0 {
		t.Fatalf("expected 0 sessions after graceful leave, got %d", r.SessionCount())
	}
	if !disposed {
		t.Fatal("expected room to dispose once empty")
	}
}

func TestLeaveAbnormalThenRejoinRebindsSlot(t *testing.T) {
	r := New("ABCD", sim.ModePVE, false, testLog())
	id, _, err := r.Join(&fakeSender{}, "reconnect-token")
	if err != nil {
		t.Fatalf("join: %v", err)
	}

	r.Leave(id, true)
	if r.SessionCount() != 1 {
		t.Fatalf("expected slot held during grace, got %d sessions", r.SessionCount())
	}

	newSender := &fakeSender{}
	rejoinedID, snapshot, err := r.Rejoin("reconnect-token", newSender)
	if err != nil {
		t.Fatalf("rejoin: %v", err)
	}
	if rejoinedID != id {
		t.Fatalf("expected rejoin to same player id %d, got %d", id, rejoinedID)
	}
	if len(snapshot) == 0 {
		t.Fatal("expected a snapshot payload on rejoin")
	}
}

func TestCountdownAdvancesOncePerSecondNotPerTick(t *testing.T) {
	r := New("ABCD", sim.ModePVE, false, testLog())
	id, _, _ := r.Join(&fakeSender{}, "tok1")
	r.HandleReady(id)
	if r.Phase() != sim.PhaseCountdown {
		t.Fatalf("expected countdown after solo ready in PVE, got %v", r.Phase())
	}

	r.mu.Lock()
	start := r.state.CountdownS
	r.mu.Unlock()

	// A handful of 16ms ticks is nowhere near a full second; the
	// countdown must not have moved yet.
	for i := 0; i < 10; i++ {
		r.step(16)
	}
	r.mu.Lock()
	mid := r.state.CountdownS
	r.mu.Unlock()
	if mid != start {
		t.Fatalf("expected countdown to hold at %d after 160ms, got %d", start, mid)
	}

	// Enough ticks to cross a full second should advance it by exactly one.
	for i := 0; i < 53; i++ {
		r.step(16)
	}
	r.mu.Lock()
	after := r.state.CountdownS
	r.mu.Unlock()
	if after != start-1 {
		t.Fatalf("expected countdown to drop to %d after ~1s, got %d", start-1, after)
	}
}

func TestHandleInputAndBombAreDrainedOnStep(t *testing.T) {
	r := New("ABCD", sim.ModePVE, false, testLog())
	id, _, _ := r.Join(&fakeSender{}, "tok1")
	r.HandleReady(id)
	if r.Phase() != sim.PhaseCountdown {
		t.Fatalf("expected countdown after solo ready in PVE, got %v", r.Phase())
	}

	r.mu.Lock()
	r.state.Phase = sim.PhasePlaying
	r.mu.Unlock()

	r.HandleInput(id, protocol.InputMsg{Right: true})
	r.HandleBomb(id)
	r.step(16)

	r.mu.Lock()
	in := r.inputs[id]
	bombs := len(r.state.Bombs)
	r.mu.Unlock()
	if !in.Right {
		t.Fatal("expected drained input to set Right")
	}
	if bombs != 1 {
		t.Fatalf("expected drained bomb request to place one bomb, got %d", bombs)
	}
}
