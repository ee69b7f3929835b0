package protocol

import (
	"testing"

	"github.com/amalg016/bomb-arena/internal/sim"
)

func TestSnapshotRoundTrip(t *testing.T) {
	s := sim.NewState(sim.ModePVE, "ABCD", true)
	s.AddPlayer(1)
	rng := sim.NewRNG(42)
	s.InitLevel(0, rng)
	s.Phase = sim.PhasePlaying

	want := BuildSnapshot(s)

	data, err := Encode(MsgSnapshot, want)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	env, err := Decode(data)
	if err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if env.Type != MsgSnapshot {
		t.Fatalf("expected type %q, got %q", MsgSnapshot, env.Type)
	}

	var got Snapshot
	if err := DecodePayload(env, &got); err != nil {
		t.Fatalf("decode payload: %v", err)
	}

	if got.Phase != want.Phase || got.RoomCode != want.RoomCode || got.Level != want.Level {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, want)
	}
	if len(got.Grid) != len(want.Grid) {
		t.Fatalf("grid length mismatch: got %d, want %d", len(got.Grid), len(want.Grid))
	}
	for i := range want.Grid {
		if got.Grid[i] != want.Grid[i] {
			t.Fatalf("grid cell %d mismatch: got %d, want %d", i, got.Grid[i], want.Grid[i])
		}
	}
	if len(got.Players) != len(want.Players) {
		t.Fatalf("player count mismatch: got %d, want %d", len(got.Players), len(want.Players))
	}
}

func TestInputMsgRoundTrip(t *testing.T) {
	want := InputMsg{Up: true, Left: true}
	data, err := Encode(MsgInput, want)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	env, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	var got InputMsg
	if err := DecodePayload(env, &got); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestDecodeRejectsMalformedEnvelope(t *testing.T) {
	if _, err := Decode([]byte("not json")); err == nil {
		t.Fatal("expected error decoding malformed envelope")
	}
}
