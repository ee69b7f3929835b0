package sim

// InitLevel rebuilds the grid/items for the given level index and resets
// transient per-level player stats while preserving score (spec §4.5).
func (s *State) InitLevel(level int, rng *RNG) {
	cfg := Levels[clampLevel(level)]
	s.Level = level
	s.Grid = NewGrid(cfg.WallDensity, rng)
	s.Items = seedItems(s.Grid, rng)
	s.Bombs = nil
	s.Explosions = nil
	s.Enemies = spawnEnemiesInto(s, cfg, rng)
	s.BossSpawned = false

	i := 0
	for _, p := range s.Players {
		p.Pos = SpawnPixelPosition(i)
		p.Dir = DirDown
		p.State = StateNormal
		p.Speed = 2
		p.BombRange = 2
		p.MaxBombs = 1
		p.ActiveBombs = 0
		p.CanKick = false
		p.HasShield = false
		p.GhostMS = 0
		p.TrappedMS = 0
		p.InvincibleMS = 0
		i++
	}
}

func clampLevel(level int) int {
	if level < 0 {
		return 0
	}
	if level >= len(Levels) {
		return len(Levels) - 1
	}
	return level
}

// spawnEnemiesInto places the level's non-boss roster at cells away from the
// spawn corners, giving up (spec §7: fewer enemies than configured is
// acceptable) after a bounded number of attempts per enemy.
func spawnEnemiesInto(state *State, cfg LevelConfig, rng *RNG) []*Enemy {
	enemies := make([]*Enemy, 0, len(cfg.Enemies))
	safe := spawnSafeSet()
	for _, kind := range cfg.Enemies {
		cell, ok := findSpawnCell(state.Grid, safe, rng)
		if !ok {
			continue
		}
		stats := statsFor(kind)
		enemies = append(enemies, &Enemy{
			ID:    state.nextID(),
			Kind:  kind,
			Pos:   CenterOf(cell),
			Speed: stats.Speed,
			HP:    stats.HP,
			MaxHP: stats.HP,
		})
	}
	return enemies
}

func findSpawnCell(grid []TileKind, safe map[Cell]bool, rng *RNG) (Cell, bool) {
	const maxTries = 200
	for i := 0; i < maxTries; i++ {
		col := 1 + rng.Intn(GridWidth-2)
		row := 1 + rng.Intn(GridHeight-2)
		c := Cell{Col: col, Row: row}
		if safe[c] {
			continue
		}
		if grid[row*GridWidth+col] == TileEmpty {
			return c, true
		}
	}
	return Cell{}, false
}

// TrySpawnBoss places the level's configured boss once all regular
// enemies are dead, per spec §4.5's boss-spawn trigger.
func (s *State) TrySpawnBoss(rng *RNG) {
	cfg := Levels[clampLevel(s.Level)]
	if cfg.Boss == nil || s.BossSpawned || len(s.Enemies) > 0 {
		return
	}
	safe := spawnSafeSet()
	cell, ok := findSpawnCell(s.Grid, safe, rng)
	if !ok {
		cell = Cell{Col: GridWidth / 2, Row: GridHeight / 2}
	}
	stats := statsFor(*cfg.Boss)
	s.Enemies = append(s.Enemies, &Enemy{
		ID:    s.nextID(),
		Kind:  *cfg.Boss,
		Pos:   CenterOf(cell),
		Speed: stats.Speed,
		HP:    stats.HP,
		MaxHP: stats.HP,
	})
	s.BossSpawned = true
}

// levelComplete reports whether the current level's clear condition holds:
// zero live enemies and (no boss configured, or the boss has spawned and
// died) — spec §4.5.
func (s *State) levelComplete() bool {
	cfg := Levels[clampLevel(s.Level)]
	if len(s.Enemies) > 0 {
		return false
	}
	if cfg.Boss == nil {
		return true
	}
	return s.BossSpawned
}

// Arbitrate runs the win/level-clear/loss checks for the current tick
// (spec §4.5). It is a no-op unless Phase is PhasePlaying.
func (s *State) Arbitrate() {
	if s.Phase != PhasePlaying {
		return
	}

	if s.GameMode == ModePVE {
		if s.levelComplete() {
			if s.Level >= len(Levels)-1 {
				s.Winner = WinCampaignComplete
				s.Phase = PhaseFinished
			} else {
				s.Phase = PhaseLevelClear
			}
			return
		}
		if len(s.LivingPlayers()) == 0 {
			s.Winner = WinNone
			s.Phase = PhaseFinished
		}
		return
	}

	// PVP
	living := s.LivingPlayers()
	if len(living) == 0 {
		s.Winner = WinNone
		s.Phase = PhaseFinished
		return
	}
	if len(living) == 1 {
		anyTrapped := false
		for _, p := range s.Players {
			if p.State == StateTrapped {
				anyTrapped = true
				break
			}
		}
		if !anyTrapped {
			s.Winner = WinCode(living[0].ID)
			s.Phase = PhaseFinished
		}
	}
}
