package sim

import "math"

// findNearestLiving returns the live (non-dead) player nearest to pos, by
// Euclidean distance, or nil if none are alive (spec §4.3).
func findNearestLiving(players map[int]*Player, pos Position) *Player {
	var best *Player
	bestDist := math.MaxFloat64
	for _, p := range players {
		if p.State == StateDead {
			continue
		}
		d := dist2(pos, p.Pos)
		if d < bestDist {
			bestDist = d
			best = p
		}
	}
	return best
}

func dist2(a, b Position) float64 {
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx*dx + dy*dy
}

var cardinalDirs = []Direction{DirUp, DirDown, DirLeft, DirRight}

func dirDelta(d Direction) (dx, dy float64) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	}
	return 0, 0
}

func (s *State) canStepInto(pos Position, dir Direction, speed float64, opts MoveOptions) bool {
	dx, dy := dirDelta(dir)
	target := Position{X: pos.X + dx*speed, Y: pos.Y + dy*speed}
	opts.CurrentPos = &pos
	return !s.Blocked(target, opts)
}

// chaseDirection scores the four cardinal directions toward target and
// returns the highest-scoring unblocked one (spec §4.3). When all four
// are blocked it returns DirDown and ok=false.
func (s *State) chaseDirection(rng *RNG, from, target Position, speed float64, opts MoveOptions) (Direction, bool) {
	type scored struct {
		dir   Direction
		score float64
		open  bool
	}
	cands := make([]scored, 0, 4)
	for _, d := range cardinalDirs {
		dx, dy := dirDelta(d)
		var score float64
		switch {
		case dx != 0:
			score = dx * (target.X - from.X)
		case dy != 0:
			score = dy * (target.Y - from.Y)
		}
		cands = append(cands, scored{dir: d, score: score, open: s.canStepInto(from, d, speed, opts)})
	}

	best := -1
	for i, c := range cands {
		if !c.open {
			continue
		}
		if best == -1 || c.score > cands[best].score {
			best = i
		}
	}
	if best != -1 {
		return cands[best].dir, true
	}

	open := make([]Direction, 0, 4)
	for _, c := range cands {
		if c.open {
			open = append(open, c.dir)
		}
	}
	if len(open) == 0 {
		return DirDown, false
	}
	return open[rng.Intn(len(open))], true
}

// dangerLevel scores a cell by proximity to threatening bomb fuses; cells
// with no threatening bomb score 0 (spec §4.3).
func (s *State) dangerLevel(c Cell) float64 {
	total := 0.0
	for _, b := range s.Bombs {
		if b.Cell == c {
			total += maxF(0, DodgeThresholdMS-b.FuseMS+1000)
			continue
		}
		if b.Cell.Row == c.Row && absInt(b.Cell.Col-c.Col) <= b.Range {
			total += maxF(0, DodgeThresholdMS-b.FuseMS+1000)
		} else if b.Cell.Col == c.Col && absInt(b.Cell.Row-c.Row) <= b.Range {
			total += maxF(0, DodgeThresholdMS-b.FuseMS+1000)
		}
	}
	return total
}

// isInDanger reports whether any near-fuse bomb's blast cross covers c's cell.
func (s *State) isInDanger(pos Position) bool {
	c := CellOf(pos)
	for _, b := range s.Bombs {
		if b.FuseMS > DodgeThresholdMS {
			continue
		}
		if b.Cell == c {
			return true
		}
		if b.Cell.Row == c.Row && absInt(b.Cell.Col-c.Col) <= b.Range {
			return true
		}
		if b.Cell.Col == c.Col && absInt(b.Cell.Row-c.Row) <= b.Range {
			return true
		}
	}
	return false
}

// dodgeDirection picks the unblocked neighbor with strictly lower danger
// than the current cell, or ok=false if no neighbor improves on it.
func (s *State) dodgeDirection(pos Position, speed float64, opts MoveOptions) (Direction, bool) {
	cur := s.dangerLevel(CellOf(pos))
	bestDir := DirDown
	bestScore := cur
	found := false
	for _, d := range cardinalDirs {
		if !s.canStepInto(pos, d, speed, opts) {
			continue
		}
		dx, dy := dirDelta(d)
		neighbor := Cell{Col: CellOf(pos).Col + int(dx), Row: CellOf(pos).Row + int(dy)}
		score := s.dangerLevel(neighbor)
		if score < bestScore {
			bestScore = score
			bestDir = d
			found = true
		}
	}
	return bestDir, found
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
