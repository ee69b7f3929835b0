package sim

// PlaceBomb attempts to place a bomb at the player's current cell.
// Silently rejected if the player can't act, is at their bomb limit, or
// the cell is already occupied by a bomb (spec §3 invariant, §7 policy).
func (s *State) PlaceBomb(playerID int, fuseMS float64) {
	p, ok := s.Players[playerID]
	if !ok || p.State != StateNormal {
		return
	}
	if p.ActiveBombs >= p.MaxBombs {
		return
	}
	cell := CellOf(p.Pos)
	if s.bombAt(cell) != nil {
		return
	}

	s.Bombs = append(s.Bombs, &Bomb{
		ID:      s.nextID(),
		OwnerID: playerID,
		Cell:    cell,
		Pos:     CenterOf(cell),
		Range:   p.BombRange,
		FuseMS:  fuseMS,
	})
	p.ActiveBombs++
}

// PlaceEnemyBomb places a neutral (ownerId 0) bomb, used by BOSS_MECHA.
func (s *State) PlaceEnemyBomb(cell Cell, rang int, fuseMS float64) {
	if s.bombAt(cell) != nil {
		return
	}
	s.Bombs = append(s.Bombs, &Bomb{
		ID:      s.nextID(),
		OwnerID: 0,
		Cell:    cell,
		Pos:     CenterOf(cell),
		Range:   rang,
		FuseMS:  fuseMS,
	})
}

// tryKick imparts a slide velocity to a stationary bomb a kicking player
// is walking into. Kicks are a dedicated post-move resolution, never a
// side effect of collision testing (spec §9 open question 3).
func (s *State) tryKick(p *Player, dx, dy float64) {
	if !p.CanKick {
		return
	}
	target := CellOf(Position{X: p.Pos.X + dx, Y: p.Pos.Y + dy})
	b := s.bombAt(target)
	if b == nil || b.Vel.X != 0 || b.Vel.Y != 0 {
		return
	}
	b.Vel = Position{X: sign(dx) * KickSpeed, Y: sign(dy) * KickSpeed}
}

// stepBombPhysics integrates sliding bombs and stops them on contact with
// a wall, another bomb, a player, or an enemy (spec §4.2 step 5).
func (s *State) stepBombPhysics(timeFactor float64) {
	for _, b := range s.Bombs {
		if b.Vel.X == 0 && b.Vel.Y == 0 {
			continue
		}
		next := Position{X: b.Pos.X + b.Vel.X*timeFactor, Y: b.Pos.Y + b.Vel.Y*timeFactor}
		nextCell := CellOf(next)

		blocked := s.TileAt(nextCell) != TileEmpty
		if !blocked {
			for _, ob := range s.Bombs {
				if ob.ID != b.ID && ob.Cell == nextCell {
					blocked = true
					break
				}
			}
		}
		if !blocked {
			for _, pl := range s.Players {
				if pl.State != StateDead && CellOf(pl.Pos) == nextCell {
					blocked = true
					break
				}
			}
		}
		if !blocked {
			for _, en := range s.Enemies {
				if CellOf(en.Pos) == nextCell {
					blocked = true
					break
				}
			}
		}

		if blocked {
			b.Vel = Position{}
			b.Pos = CenterOf(b.Cell)
			continue
		}

		b.Pos = next
		b.Cell = nextCell
	}
}

// stepFuses decrements all fuses by raw dt and detonates any that expire,
// following the DFS chain-detonation algorithm of spec §4.2 step 6.
func (s *State) stepFuses(dtMS float64) {
	for _, b := range s.Bombs {
		b.FuseMS -= dtMS
	}

	toDetonate := make([]*Bomb, 0)
	for _, b := range s.Bombs {
		if b.FuseMS <= 0 {
			toDetonate = append(toDetonate, b)
		}
	}
	if len(toDetonate) == 0 {
		return
	}

	// cellBombs freezes every bomb's cell as of the start of this pass, so
	// a ray can recognize a bomb occupying a cell regardless of DFS order
	// — including a second bomb expiring on this same tick, which never
	// enters any other bomb's "remaining to discover" set because both
	// start out already queued.
	cellBombs := make(map[Cell]*Bomb, len(s.Bombs))
	for _, b := range s.Bombs {
		cellBombs[b.Cell] = b
	}

	// emitted is shared across the whole DFS pass, not per-bomb, so two
	// bombs whose blast rays reach the same cell still produce exactly
	// one explosion cell there (spec §8).
	emitted := make(map[Cell]bool)
	detonated := make(map[uint32]bool, len(toDetonate))
	queued := make(map[uint32]bool, len(toDetonate))
	for _, b := range toDetonate {
		queued[b.ID] = true
	}

	queue := toDetonate
	for len(queue) > 0 {
		b := queue[0]
		queue = queue[1:]
		if detonated[b.ID] {
			continue
		}
		detonated[b.ID] = true

		for _, ob := range s.detonate(b, cellBombs, detonated, emitted) {
			if !queued[ob.ID] {
				queued[ob.ID] = true
				queue = append(queue, ob)
			}
		}

		if p, ok := s.Players[b.OwnerID]; ok {
			p.ActiveBombs--
		}
	}

	live := make([]*Bomb, 0, len(s.Bombs))
	for _, b := range s.Bombs {
		if !detonated[b.ID] {
			live = append(live, b)
		}
	}
	s.Bombs = live
}

// detonate emits explosion cells in the four cardinal directions from one
// bomb, destroying the first soft wall it meets (absorbing the ray without
// emitting a cell there, per spec §3/§4.2), and reports any bomb it hits
// for the same detonation pass. The ray stops at the first hard wall, soft
// wall, or bomb it meets, per spec §4.2; a bomb's own cell is left for that
// bomb's detonate() call to emit, never the discovering ray, so a chained
// or co-expiring bomb's cell is never painted twice.
func (s *State) detonate(b *Bomb, cellBombs map[Cell]*Bomb, detonated map[uint32]bool, emitted map[Cell]bool) []*Bomb {
	s.emitExplosion(b.OwnerID, b.Cell, emitted)

	var chained []*Bomb
	dirs := []Cell{{Col: 0, Row: -1}, {Col: 0, Row: 1}, {Col: -1, Row: 0}, {Col: 1, Row: 0}}

	for _, d := range dirs {
		for dist := 1; dist <= b.Range; dist++ {
			c := Cell{Col: b.Cell.Col + d.Col*dist, Row: b.Cell.Row + d.Row*dist}
			if c.Col < 0 || c.Col >= GridWidth || c.Row < 0 || c.Row >= GridHeight {
				break
			}
			tile := s.TileAt(c)
			if tile == TileHardWall {
				break
			}
			if tile == TileSoftWall {
				s.SetTile(c, TileEmpty)
				s.revealItemAt(c)
				break
			}

			if ob, ok := cellBombs[c]; ok {
				if !detonated[ob.ID] {
					chained = append(chained, ob)
				}
				break
			}

			s.emitExplosion(b.OwnerID, c, emitted)
		}
	}
	return chained
}

// emitExplosion appends one explosion cell, guarding against duplicate
// emission on the same tile within a single detonation pass (spec §8:
// "exactly one explosion-cell set per cell").
func (s *State) emitExplosion(ownerID int, c Cell, emitted map[Cell]bool) {
	if emitted[c] {
		return
	}
	emitted[c] = true
	s.Explosions = append(s.Explosions, &Explosion{
		ID:      s.nextID(),
		OwnerID: ownerID,
		Cell:    c,
		TTLMS:   explosionTTLMS,
	})
}

// revealItemAt marks an item as pending reveal; it becomes collectible on
// the following tick (spec §9 open question 5).
func (s *State) revealItemAt(c Cell) {
	for i := range s.Items {
		if s.Items[i].Cell == c {
			s.Items[i].Revealed = false // flips true at the start of next tick
			s.pendingReveals = append(s.pendingReveals, c)
			return
		}
	}
}

// applyPendingReveals flips items destroyed last tick to collectible.
func (s *State) applyPendingReveals() {
	if len(s.pendingReveals) == 0 {
		return
	}
	set := make(map[Cell]bool, len(s.pendingReveals))
	for _, c := range s.pendingReveals {
		set[c] = true
	}
	for i := range s.Items {
		if set[s.Items[i].Cell] {
			s.Items[i].Revealed = true
		}
	}
	s.pendingReveals = s.pendingReveals[:0]
}

// stepExplosionTTL decrements and drops expired explosion cells.
func (s *State) stepExplosionTTL(dtMS float64) {
	live := make([]*Explosion, 0, len(s.Explosions))
	for _, e := range s.Explosions {
		e.TTLMS -= dtMS
		if e.TTLMS > 0 {
			live = append(live, e)
		}
	}
	s.Explosions = live
}
