package matchmaker

import (
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/amalg016/bomb-arena/internal/sim"
)

func testLog() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(nopWriter{})
	return logrus.NewEntry(l)
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestCreateMintsUniqueCode(t *testing.T) {
	reg := New(testLog())
	r1 := reg.Create(sim.ModePVP, false)
	r2 := reg.Create(sim.ModePVP, false)
	defer r1.Dispose()
	defer r2.Dispose()

	if r1.Code == r2.Code {
		t.Fatal("expected distinct room codes")
	}
	if len(r1.Code) != codeLength {
		t.Fatalf("expected code length %d, got %d", codeLength, len(r1.Code))
	}
}

func TestJoinByCodeFailsForUnknownCode(t *testing.T) {
	reg := New(testLog())
	if _, err := reg.JoinByCode("ZZZZ"); err != ErrRoomNotFound {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}
}

func TestQuickMatchReusesWaitingRoomThenCreatesNew(t *testing.T) {
	reg := New(testLog())
	r1 := reg.QuickMatch(sim.ModePVP)
	defer r1.Dispose()

	r2 := reg.QuickMatch(sim.ModePVP)
	if r2 != r1 {
		t.Fatal("expected quick match to reuse the existing non-locked WAITING room")
	}

	r1.Join(discardSender{}, "a")
	r1.Join(discardSender{}, "b") // fills capacity, locks the room

	r3 := reg.QuickMatch(sim.ModePVP)
	defer r3.Dispose()
	if r3 == r1 {
		t.Fatal("expected quick match to create a new room once the first is locked")
	}
}

func TestStatsSnapshotReportsStableRoomTypeName(t *testing.T) {
	reg := New(testLog())
	rPVP := reg.Create(sim.ModePVP, false)
	rPVE := reg.Create(sim.ModePVE, false)
	defer rPVP.Dispose()
	defer rPVE.Dispose()

	stats := reg.StatsSnapshot()
	got := map[string]string{}
	for _, rs := range stats.Rooms {
		got[rs.RoomCode] = rs.Mode
	}
	if got[rPVP.Code] != RoomTypePVP {
		t.Fatalf("expected PVP room mode %q, got %q", RoomTypePVP, got[rPVP.Code])
	}
	if got[rPVE.Code] != RoomTypePVE {
		t.Fatalf("expected PVE room mode %q, got %q", RoomTypePVE, got[rPVE.Code])
	}
}

func TestQuickMatchScopesByRoomType(t *testing.T) {
	reg := New(testLog())
	rPVP := reg.QuickMatch(sim.ModePVP)
	defer rPVP.Dispose()

	rPVE := reg.QuickMatch(sim.ModePVE)
	defer rPVE.Dispose()

	if rPVE == rPVP {
		t.Fatal("expected quick match to keep PVP and PVE rooms in separate pools")
	}
}

func TestDisposeRemovesRoomFromRegistry(t *testing.T) {
	reg := New(testLog())
	r := reg.Create(sim.ModePVE, false)
	code := r.Code

	r.Dispose()

	if _, ok := reg.Lookup(code); ok {
		t.Fatal("expected disposed room to be removed from the registry")
	}
}

type discardSender struct{}

func (discardSender) Send(data []byte)              {}
func (discardSender) Close(code int, reason string) {}
