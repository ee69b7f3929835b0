package sim

// MoveOptions toggles collision exemptions and identifies the entity's
// current position so it can "walk off" a cell it already overlaps
// (e.g. the bomb it just placed).
type MoveOptions struct {
	CanPassSoftWalls bool
	CanPassBombs     bool
	CurrentPos       *Position
	IgnoreBombID     uint32 // bomb id to ignore, e.g. the entity's own just-placed bomb
}

// corners returns the four corners of the shrunk hitbox centered at p.
func corners(p Position) [4]Position {
	half := PlayerSize/2 - HitboxEpsilon
	return [4]Position{
		{X: p.X - half, Y: p.Y - half},
		{X: p.X + half, Y: p.Y - half},
		{X: p.X - half, Y: p.Y + half},
		{X: p.X + half, Y: p.Y + half},
	}
}

// Blocked reports whether a PLAYER_SIZE hitbox centered at p collides with
// a hard wall, a soft wall (unless ghosting), or a bomb (unless ghosting
// or standing on the entity's own current cell / ignored bomb).
func (s *State) Blocked(p Position, opts MoveOptions) bool {
	for _, corner := range corners(p) {
		cell := CellOf(corner)
		tile := s.TileAt(cell)
		if tile == TileHardWall {
			return true
		}
		if tile == TileSoftWall && !opts.CanPassSoftWalls {
			return true
		}
		if !opts.CanPassBombs {
			if b := s.bombAt(cell); b != nil && b.ID != opts.IgnoreBombID {
				if opts.CurrentPos != nil && CellOf(*opts.CurrentPos) == cell {
					continue
				}
				return true
			}
		}
	}
	return false
}

// PredictMove applies X motion then Y motion, each with a corner-slide
// fallback, and is used identically by the server's authoritative step
// and by client-side prediction so both share exact geometry (spec §4.1).
func (s *State) PredictMove(cur Position, dx, dy float64, opts MoveOptions) Position {
	pos := cur
	opts.CurrentPos = &cur

	if dx != 0 {
		pos = s.moveAxis(pos, dx, 0, opts)
	}
	if dy != 0 {
		pos = s.moveAxis(pos, 0, dy, opts)
	}
	return pos
}

// moveAxis moves along a single axis, applying a corner-slide nudge on
// the orthogonal axis when the straight move is blocked but the entity is
// nearly aligned with a corridor center.
func (s *State) moveAxis(cur Position, dx, dy float64, opts MoveOptions) Position {
	next := Position{X: cur.X + dx, Y: cur.Y + dy}
	if !s.Blocked(next, opts) {
		return next
	}

	if dx != 0 {
		centerY := CenterOf(CellOf(cur)).Y
		if diff := cur.Y - centerY; diff > -CornerTolerance && diff < CornerTolerance && diff != 0 {
			nudge := Position{X: cur.X, Y: cur.Y - sign(diff)*minF(absF(diff), absF(dx))}
			if !s.Blocked(nudge, opts) {
				return nudge
			}
		}
	} else if dy != 0 {
		centerX := CenterOf(CellOf(cur)).X
		if diff := cur.X - centerX; diff > -CornerTolerance && diff < CornerTolerance && diff != 0 {
			nudge := Position{X: cur.X - sign(diff)*minF(absF(diff), absF(dy)), Y: cur.Y}
			if !s.Blocked(nudge, opts) {
				return nudge
			}
		}
	}

	return cur
}

func sign(v float64) float64 {
	if v > 0 {
		return 1
	}
	if v < 0 {
		return -1
	}
	return 0
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// bfsNearestEmpty finds the nearest EMPTY, non-bomb cell to start via BFS,
// used to rescue a player whose GHOST mode expires inside geometry
// (spec §4.2 step 2) and to relocate spawned enemies/bosses.
func (s *State) bfsNearestEmpty(start Cell) Cell {
	visited := map[Cell]bool{start: true}
	queue := []Cell{start}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if s.TileAt(c) == TileEmpty && s.bombAt(c) == nil {
			return c
		}
		for _, d := range []Cell{{Col: 1}, {Col: -1}, {Row: 1}, {Row: -1}} {
			n := Cell{Col: c.Col + d.Col, Row: c.Row + d.Row}
			if visited[n] {
				continue
			}
			if n.Col < 0 || n.Col >= GridWidth || n.Row < 0 || n.Row >= GridHeight {
				continue
			}
			visited[n] = true
			queue = append(queue, n)
		}
	}
	return start
}
