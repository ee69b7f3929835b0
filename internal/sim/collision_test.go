package sim

import "testing"

func emptyState() *State {
	grid := make([]TileKind, GridWidth*GridHeight)
	for row := 0; row < GridHeight; row++ {
		for col := 0; col < GridWidth; col++ {
			if row == 0 || col == 0 || row == GridHeight-1 || col == GridWidth-1 {
				grid[row*GridWidth+col] = TileHardWall
			}
		}
	}
	return &State{Grid: grid, Players: make(map[int]*Player)}
}

func TestBlockedHardWall(t *testing.T) {
	s := emptyState()
	// Cell (0,5) is a hard wall on the left border; its center is blocked.
	pos := CenterOf(Cell{Col: 0, Row: 5})
	if !s.Blocked(pos, MoveOptions{}) {
		t.Fatal("expected hard wall cell to be blocked")
	}
}

func TestGhostPassesSoftWallAndBomb(t *testing.T) {
	s := emptyState()
	s.SetTile(Cell{Col: 5, Row: 5}, TileSoftWall)
	s.Bombs = append(s.Bombs, &Bomb{ID: 1, Cell: Cell{Col: 6, Row: 5}, Pos: CenterOf(Cell{Col: 6, Row: 5})})

	pos := CenterOf(Cell{Col: 5, Row: 5})
	if !s.Blocked(pos, MoveOptions{}) {
		t.Fatal("non-ghost should be blocked by soft wall")
	}
	if s.Blocked(pos, MoveOptions{CanPassSoftWalls: true}) {
		t.Fatal("ghost should pass soft wall")
	}

	bombPos := CenterOf(Cell{Col: 6, Row: 5})
	if !s.Blocked(bombPos, MoveOptions{}) {
		t.Fatal("non-ghost should be blocked by bomb")
	}
	if s.Blocked(bombPos, MoveOptions{CanPassBombs: true}) {
		t.Fatal("ghost should pass bomb")
	}
}

func TestCornerSlideNudgesTowardCorridor(t *testing.T) {
	s := emptyState()
	// Vertical corridor at col 5; wall directly to the right blocks straight motion.
	s.SetTile(Cell{Col: 6, Row: 5}, TileHardWall)

	start := CenterOf(Cell{Col: 5, Row: 5})
	start.Y -= 6 // misaligned by less than CornerTolerance

	opts := MoveOptions{}
	next := s.PredictMove(start, TileSize, 0, opts)

	// Blocked rightward move should have nudged Y toward the corridor center.
	if next.X != start.X {
		t.Fatalf("expected X unchanged when blocked, got %v", next.X)
	}
	if next.Y <= start.Y {
		t.Fatalf("expected corner-slide nudge to move Y toward center, start=%v next=%v", start.Y, next.Y)
	}
}

func TestBFSNearestEmptyFindsOpenCell(t *testing.T) {
	s := emptyState()
	s.SetTile(Cell{Col: 5, Row: 5}, TileSoftWall)
	// Surround with soft walls except one exit.
	s.SetTile(Cell{Col: 4, Row: 5}, TileSoftWall)
	s.SetTile(Cell{Col: 6, Row: 5}, TileSoftWall)
	s.SetTile(Cell{Col: 5, Row: 4}, TileSoftWall)
	// Row 6 stays empty as the exit.

	found := s.bfsNearestEmpty(Cell{Col: 5, Row: 5})
	if s.TileAt(found) != TileEmpty {
		t.Fatalf("expected BFS to find an empty cell, got tile kind %v at %+v", s.TileAt(found), found)
	}
}
