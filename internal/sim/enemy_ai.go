package sim

// enemyOpts is the standard non-ghosting movement profile shared by every
// enemy kind; no enemy currently ignores walls or bombs.
var enemyOpts = MoveOptions{}

// stepEnemies runs the shared scheduler over every enemy, then dispatches
// to its kind-specific behavior (spec §4.3): decrement timers, invoke
// behavior, attempt the chosen move, and reset changeDirMS to force an
// immediate re-choice next tick if the move was blocked.
func (s *State) stepEnemies(rng *RNG, dtMS, timeFactor float64) {
	for _, e := range s.Enemies {
		if e.InvincibleMS > 0 {
			e.InvincibleMS -= dtMS
		}
		e.ChangeDirMS -= dtMS
		e.ActionMS -= dtMS
		if e.JumpCooldownMS > 0 {
			e.JumpCooldownMS -= dtMS
		}

		step, ok := enemyBehaviors[e.Kind]
		if !ok {
			continue
		}
		moved := step(s, e, rng, dtMS, timeFactor)
		if !moved {
			e.ChangeDirMS = 0
		}
	}
}

type enemyStepFn func(s *State, e *Enemy, rng *RNG, dtMS, timeFactor float64) bool

var enemyBehaviors = map[EnemyKind]enemyStepFn{
	EnemyBalloon:   stepBalloon,
	EnemyGhost:     stepChaser,
	EnemyMinion:    stepChaser,
	EnemyTank:      stepChaser,
	EnemyFrog:      stepFrog,
	EnemyBossSlime: stepBossSlime,
	EnemyBossMecha: stepBossMecha,
}

// attemptMove tries to move e by speed*timeFactor in e.Dir; returns whether it succeeded.
func (s *State) attemptMove(e *Enemy, timeFactor float64) bool {
	dx, dy := dirDelta(e.Dir)
	speed := e.Speed * timeFactor
	target := Position{X: e.Pos.X + dx*speed, Y: e.Pos.Y + dy*speed}
	opts := enemyOpts
	opts.CurrentPos = &e.Pos
	if s.Blocked(target, opts) {
		return false
	}
	e.Pos = target
	return true
}

func stepBalloon(s *State, e *Enemy, rng *RNG, dtMS, timeFactor float64) bool {
	if e.ChangeDirMS <= 0 {
		e.Dir = rng.Direction()
		e.ChangeDirMS = 2000 + rng.Float64()*2000
	}
	if s.attemptMove(e, timeFactor) {
		return true
	}
	// On wall hit, immediately re-pick and try once more this tick.
	e.Dir = rng.Direction()
	e.ChangeDirMS = 2000 + rng.Float64()*2000
	return s.attemptMove(e, timeFactor)
}

func stepChaser(s *State, e *Enemy, rng *RNG, dtMS, timeFactor float64) bool {
	if e.ChangeDirMS <= 0 {
		target := findNearestLiving(s.Players, e.Pos)
		if target != nil {
			dir, _ := s.chaseDirection(rng, e.Pos, target.Pos, e.Speed*timeFactor, enemyOpts)
			e.Dir = dir
		}
		e.ChangeDirMS = 100
	}
	if s.attemptMove(e, timeFactor) {
		return true
	}
	e.Dir = rng.Direction()
	e.ChangeDirMS = 300
	return false
}

func stepFrog(s *State, e *Enemy, rng *RNG, dtMS, timeFactor float64) bool {
	if e.ChangeDirMS <= 0 {
		e.Dir = rng.Direction()
		e.ChangeDirMS = 2000 + rng.Float64()*2000
	}
	if s.attemptMove(e, timeFactor) {
		return true
	}
	if e.JumpCooldownMS <= 0 && s.tryFrogJump(e) {
		e.JumpCooldownMS = 1000
		return true
	}
	e.Dir = rng.Direction()
	e.ChangeDirMS = 2000 + rng.Float64()*2000
	return false
}

// tryFrogJump teleports over a single soft wall directly ahead if the far
// cell is empty (spec §4.3).
func (s *State) tryFrogJump(e *Enemy) bool {
	cell := CellOf(e.Pos)
	dx, dy := dirDelta(e.Dir)
	mid := Cell{Col: cell.Col + int(dx), Row: cell.Row + int(dy)}
	far := Cell{Col: cell.Col + int(dx)*2, Row: cell.Row + int(dy)*2}
	if s.TileAt(mid) != TileSoftWall || s.TileAt(far) != TileEmpty {
		return false
	}
	e.Pos = CenterOf(far)
	return true
}

func stepBossSlime(s *State, e *Enemy, rng *RNG, dtMS, timeFactor float64) bool {
	moved := stepChaser(s, e, rng, dtMS, timeFactor)
	if e.ActionMS <= 0 {
		e.ActionMS = 4000
		if len(s.Enemies) < 8 {
			s.spawnMinionAt(CellOf(e.Pos))
		}
	}
	return moved
}

func (s *State) spawnMinionAt(c Cell) {
	s.Enemies = append(s.Enemies, &Enemy{
		ID:    s.nextID(),
		Kind:  EnemyMinion,
		Pos:   CenterOf(c),
		Speed: statsFor(EnemyMinion).Speed,
		HP:    statsFor(EnemyMinion).HP,
		MaxHP: statsFor(EnemyMinion).HP,
	})
}

func stepBossMecha(s *State, e *Enemy, rng *RNG, dtMS, timeFactor float64) bool {
	if dir, ok := s.dodgeDirection(e.Pos, e.Speed*timeFactor, enemyOpts); ok {
		e.Dir = dir
		e.ChangeDirMS = 50
		return s.attemptMove(e, timeFactor)
	}

	moved := stepChaser(s, e, rng, dtMS, timeFactor)

	if e.ActionMS <= 0 && !s.isInDanger(e.Pos) {
		s.PlaceEnemyBomb(CellOf(e.Pos), 5, 4000)
		e.ActionMS = 5000
	}
	return moved
}
