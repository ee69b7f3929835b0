package sim

import "testing"

func TestPlaceBombRejectsOccupiedCell(t *testing.T) {
	s := emptyState()
	p := s.AddPlayer(1)
	p.Pos = CenterOf(Cell{Col: 5, Row: 5})
	s.PlaceBomb(1, 3000)
	if len(s.Bombs) != 1 {
		t.Fatalf("expected 1 bomb, got %d", len(s.Bombs))
	}
	// Raise the bomb limit so only the occupied-cell check can reject the
	// second attempt from the same cell.
	p.MaxBombs = 2
	s.PlaceBomb(1, 3000)
	if len(s.Bombs) != 1 {
		t.Fatalf("expected still 1 bomb after duplicate placement, got %d", len(s.Bombs))
	}
}

func TestSoftWallAbsorbsRayNoExplosionBeyond(t *testing.T) {
	s := emptyState()
	s.SetTile(Cell{Col: 3, Row: 5}, TileSoftWall)
	bomb := &Bomb{ID: 1, OwnerID: 1, Cell: Cell{Col: 2, Row: 5}, Range: 3}
	s.Bombs = []*Bomb{bomb}
	s.Enemies = []*Enemy{{ID: 2, Pos: CenterOf(Cell{Col: 4, Row: 5}), HP: 1, MaxHP: 1}}

	s.stepFuses(bomb.FuseMS + 1) // force expiry

	if s.TileAt(Cell{Col: 3, Row: 5}) != TileEmpty {
		t.Fatal("soft wall should be destroyed")
	}
	for _, e := range s.Explosions {
		if e.Cell == (Cell{Col: 3, Row: 5}) || e.Cell == (Cell{Col: 4, Row: 5}) {
			t.Fatalf("no explosion cell should be emitted at or beyond the absorbing wall, found %+v", e.Cell)
		}
	}
	if len(s.Enemies) != 1 {
		t.Fatal("enemy beyond the absorbed wall should not be affected by detonation directly")
	}
}

func TestChainDetonation(t *testing.T) {
	s := emptyState()
	b1 := &Bomb{ID: 1, OwnerID: 1, Cell: Cell{Col: 3, Row: 5}, Range: 2}
	b2 := &Bomb{ID: 2, OwnerID: 2, Cell: Cell{Col: 4, Row: 5}, Range: 2, FuseMS: 3500}
	s.Bombs = []*Bomb{b1, b2}
	s.Players[1] = &Player{ID: 1, ActiveBombs: 1}
	s.Players[2] = &Player{ID: 2, ActiveBombs: 1}

	s.stepFuses(b1.FuseMS + 1)

	if len(s.Bombs) != 0 {
		t.Fatalf("both bombs should have detonated, got %d remaining", len(s.Bombs))
	}
	if s.Players[1].ActiveBombs != 0 || s.Players[2].ActiveBombs != 0 {
		t.Fatal("both owners' activeBombs should be decremented")
	}

	seen := make(map[Cell]int)
	for _, e := range s.Explosions {
		seen[e.Cell]++
	}
	for c, n := range seen {
		if n != 1 {
			t.Errorf("cell %+v emitted %d explosion cells, want exactly 1", c, n)
		}
	}
}

func TestKickImpartsVelocityAndStopsAtWall(t *testing.T) {
	s := emptyState()
	p := s.AddPlayer(1)
	p.CanKick = true
	p.Pos = CenterOf(Cell{Col: 3, Row: 5})
	s.Bombs = []*Bomb{{ID: 1, Cell: Cell{Col: 4, Row: 5}, Pos: CenterOf(Cell{Col: 4, Row: 5}), Range: 2, FuseMS: 3000}}
	s.SetTile(Cell{Col: 6, Row: 5}, TileHardWall)

	s.tryKick(p, TileSize, 0)
	if s.Bombs[0].Vel.X <= 0 {
		t.Fatal("expected bomb to acquire positive X velocity from rightward kick")
	}

	for i := 0; i < 50; i++ {
		s.stepBombPhysics(1.0)
	}

	if s.Bombs[0].Vel.X != 0 || s.Bombs[0].Vel.Y != 0 {
		t.Fatal("bomb should have stopped after hitting the wall")
	}
	if s.Bombs[0].Cell.Col >= 6 {
		t.Fatalf("bomb should stop before the wall at col 6, got col %d", s.Bombs[0].Cell.Col)
	}
	if s.Bombs[0].FuseMS != 3000 {
		t.Fatal("kicked bomb should keep its original fuse")
	}
}
