package sim

// hurt is the single funnel through which all player damage flows
// (spec §4.4): shield absorbs once, NORMAL escalates to TRAPPED, TRAPPED
// (while not invincible) escalates to DEAD.
func hurt(p *Player) {
	switch {
	case p.HasShield:
		p.HasShield = false
		p.InvincibleMS = shieldGraceMS
	case p.State == StateNormal:
		p.State = StateTrapped
		p.TrappedMS = trappedDurationMS
		p.InvincibleMS = shieldGraceMS
	case p.State == StateTrapped && p.InvincibleMS <= 0:
		p.State = StateDead
	}
}

// explosionCellSet returns the set of cells currently on fire.
func (s *State) explosionCellSet() map[Cell]bool {
	set := make(map[Cell]bool, len(s.Explosions))
	for _, e := range s.Explosions {
		set[e.Cell] = true
	}
	return set
}

// resolveCombat runs the full per-tick damage/rescue pass (spec §4.4).
func (s *State) resolveCombat(dtMS float64) {
	fire := s.explosionCellSet()

	for _, p := range s.Players {
		if p.State == StateDead {
			continue
		}
		if p.InvincibleMS > 0 {
			p.InvincibleMS -= dtMS
			continue
		}
		if fire[CellOf(p.Pos)] {
			hurt(p)
		}
	}

	for _, p := range s.Players {
		if p.State != StateTrapped {
			continue
		}
		p.TrappedMS -= dtMS
		if p.TrappedMS <= 0 {
			p.State = StateDead
		}
	}

	if s.GameMode == ModePVE {
		s.resolveEnemyDamage(fire)
		s.resolveEnemyContact()
	}

	s.resolveRescues()
}

// resolveEnemyDamage applies explosion damage to enemies and scores kills
// to the player who owns the killing bomb (spec §4.4, PVE only).
func (s *State) resolveEnemyDamage(fire map[Cell]bool) {
	live := make([]*Enemy, 0, len(s.Enemies))
	for _, e := range s.Enemies {
		if e.InvincibleMS <= 0 && fire[CellOf(e.Pos)] {
			e.HP--
			e.InvincibleMS = enemyHitGraceMS
			if e.HP <= 0 {
				if owner := ownerOfExplosion(s.Explosions, CellOf(e.Pos)); owner > 0 {
					if p, ok := s.Players[owner]; ok {
						p.Score++
					}
				}
				continue
			}
		}
		live = append(live, e)
	}
	s.Enemies = live
}

func ownerOfExplosion(explosions []*Explosion, c Cell) int {
	for _, e := range explosions {
		if e.Cell == c {
			return e.OwnerID
		}
	}
	return 0
}

// resolveEnemyContact hurts any live, non-invincible player sharing a
// hitbox cell with an enemy (spec §4.4, PVE only).
func (s *State) resolveEnemyContact() {
	for _, p := range s.Players {
		if p.State == StateDead || p.InvincibleMS > 0 {
			continue
		}
		pc := CellOf(p.Pos)
		for _, e := range s.Enemies {
			if CellOf(e.Pos) == pc {
				hurt(p)
				break
			}
		}
	}
}

// resolveRescues restores a TRAPPED player to NORMAL when a NORMAL
// teammate overlaps their cell (spec §4.4).
func (s *State) resolveRescues() {
	players := make([]*Player, 0, len(s.Players))
	for _, p := range s.Players {
		players = append(players, p)
	}
	for i := 0; i < len(players); i++ {
		for j := 0; j < len(players); j++ {
			if i == j {
				continue
			}
			a, b := players[i], players[j]
			if a.State == StateNormal && b.State == StateTrapped && CellOf(a.Pos) == CellOf(b.Pos) {
				b.State = StateNormal
				b.TrappedMS = 0
				b.InvincibleMS = rescueGraceMS
			}
		}
	}
}
