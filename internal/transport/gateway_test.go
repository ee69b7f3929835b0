package transport

import (
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/amalg016/bomb-arena/internal/matchmaker"
	"github.com/amalg016/bomb-arena/internal/room"
	"github.com/amalg016/bomb-arena/internal/sim"
)

func testGateway() (*Gateway, *matchmaker.Registry) {
	l := logrus.New()
	l.SetOutput(nopWriter{})
	entry := logrus.NewEntry(l)
	reg := matchmaker.New(entry)
	return NewGateway(reg, entry), reg
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestResolveRoomByCode(t *testing.T) {
	g, reg := testGateway()
	created := reg.Create(sim.ModePVP, false)

	req := httptest.NewRequest("GET", "/ws?code="+created.Code, nil)
	got, err := g.resolveRoom(req)
	if err != nil {
		t.Fatalf("resolveRoom: %v", err)
	}
	if got != created {
		t.Fatal("expected resolveRoom to return the created room")
	}
}

func TestResolveRoomByCodeNotFound(t *testing.T) {
	g, _ := testGateway()
	req := httptest.NewRequest("GET", "/ws?code=ZZZZ", nil)
	if _, err := g.resolveRoom(req); err != room.ErrRoomNotFound {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}
}

func TestResolveRoomQuickMatchCreatesPVEWhenNoneWaiting(t *testing.T) {
	g, _ := testGateway()
	req := httptest.NewRequest("GET", "/ws?mode=pve", nil)
	got, err := g.resolveRoom(req)
	if err != nil {
		t.Fatalf("resolveRoom: %v", err)
	}
	if got.Mode != sim.ModePVE {
		t.Fatalf("expected PVE room, got %v", got.Mode)
	}
}

func TestResolveRoomPrivateAlwaysCreatesFresh(t *testing.T) {
	g, _ := testGateway()
	req := httptest.NewRequest("GET", "/ws?mode=pvp&private=1", nil)
	first, err := g.resolveRoom(req)
	if err != nil {
		t.Fatalf("resolveRoom: %v", err)
	}
	second, err := g.resolveRoom(req)
	if err != nil {
		t.Fatalf("resolveRoom: %v", err)
	}
	if first == second {
		t.Fatal("expected two private requests to mint two distinct rooms")
	}
	if !first.IsPrivate || !second.IsPrivate {
		t.Fatal("expected both rooms to be private")
	}
}

func TestErrorCategoryMapping(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{room.ErrRoomNotFound, "room_not_found"},
		{room.ErrRoomLocked, "room_locked"},
		{room.ErrRoomNotWaiting, "room_not_waiting"},
		{room.ErrModeMismatch, "mode_mismatch"},
	}
	for _, c := range cases {
		if got := string(errorCategory(c.err)); got != c.want {
			t.Errorf("errorCategory(%v) = %q, want %q", c.err, got, c.want)
		}
	}
}
