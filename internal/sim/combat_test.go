package sim

import "testing"

func TestRescueRestoresTrappedPlayer(t *testing.T) {
	s := emptyState()
	s.Players[1] = &Player{ID: 1, State: StateNormal, Pos: CenterOf(Cell{Col: 5, Row: 5})}
	s.Players[2] = &Player{ID: 2, State: StateTrapped, TrappedMS: 3000, Pos: CenterOf(Cell{Col: 5, Row: 5})}

	s.resolveCombat(16)

	if s.Players[2].State != StateNormal {
		t.Fatalf("trapped player overlapping a normal teammate should recover, got state %v", s.Players[2].State)
	}
	if s.Players[2].InvincibleMS <= 0 {
		t.Fatal("rescued player should gain invincibility grace")
	}
}

func TestHurtEscalation(t *testing.T) {
	p := &Player{State: StateNormal}
	hurt(p)
	if p.State != StateTrapped {
		t.Fatalf("normal player hit once should become trapped, got %v", p.State)
	}
	p.InvincibleMS = 0
	hurt(p)
	if p.State != StateDead {
		t.Fatalf("trapped non-invincible player hit again should die, got %v", p.State)
	}
}

func TestShieldAbsorbsOneHit(t *testing.T) {
	p := &Player{State: StateNormal, HasShield: true}
	hurt(p)
	if p.State != StateNormal {
		t.Fatal("shielded player should not change state")
	}
	if p.HasShield {
		t.Fatal("shield should be consumed")
	}
	if p.InvincibleMS <= 0 {
		t.Fatal("shield hit should grant invincibility")
	}
}

func TestPVPArbitrationLastStanding(t *testing.T) {
	s := emptyState()
	s.GameMode = ModePVP
	s.Phase = PhasePlaying
	s.Players[1] = &Player{ID: 1, State: StateNormal}
	s.Players[2] = &Player{ID: 2, State: StateDead}

	s.Arbitrate()

	if s.Phase != PhaseFinished {
		t.Fatal("expected match to finish when one player remains")
	}
	if s.Winner != WinCode(1) {
		t.Fatalf("expected winner 1, got %v", s.Winner)
	}
}

func TestPVPArbitrationDrawWhenAllDead(t *testing.T) {
	s := emptyState()
	s.GameMode = ModePVP
	s.Phase = PhasePlaying
	s.Players[1] = &Player{ID: 1, State: StateDead}
	s.Players[2] = &Player{ID: 2, State: StateDead}

	s.Arbitrate()

	if s.Phase != PhaseFinished || s.Winner != WinNone {
		t.Fatalf("expected draw finish, got phase=%v winner=%v", s.Phase, s.Winner)
	}
}

func TestGhostExpiryRelocatesPlayer(t *testing.T) {
	s := emptyState()
	s.SetTile(Cell{Col: 5, Row: 5}, TileSoftWall)
	p := s.AddPlayer(1)
	p.Pos = CenterOf(Cell{Col: 5, Row: 5})
	p.GhostMS = 10 // expires this tick

	s.Step(16, map[int]Input{}, NewRNG(1))

	if s.TileAt(CellOf(p.Pos)) == TileSoftWall {
		t.Fatal("player should have been relocated out of the soft wall on ghost expiry")
	}
}
