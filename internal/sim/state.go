package sim

// NewState builds an empty room-state ready for players to join. The
// grid/items are populated by the first InitLevel call (spec §4.5).
func NewState(mode GameMode, roomCode string, isPrivate bool) *State {
	return &State{
		Players:   make(map[int]*Player),
		GameMode:  mode,
		RoomCode:  roomCode,
		IsPrivate: isPrivate,
		Phase:     PhaseWaiting,
		Level:     0,
	}
}

// AddPlayer creates a new Player slot for the given id (1 or 2) at its
// spawn corner. The slot is never reused within a match once removed
// (spec §3 Player lifecycle).
func (s *State) AddPlayer(id int) *Player {
	p := &Player{
		ID:        id,
		Pos:       SpawnPixelPosition(id - 1),
		Dir:       DirDown,
		State:     StateNormal,
		Speed:     2,
		BombRange: 2,
		MaxBombs:  1,
	}
	s.Players[id] = p
	return p
}

// RemovePlayer deletes a player's slot; their bombs remain live and still
// count against nobody (activeBombs bookkeeping is per-owner, not
// re-attributed on leave).
func (s *State) RemovePlayer(id int) {
	delete(s.Players, id)
}

// PlayerCount returns the number of connected player slots.
func (s *State) PlayerCount() int {
	return len(s.Players)
}

// Reset clears all per-match transient state for a restart from FINISHED,
// preserving nothing (a fresh match), per spec §4.5's restart semantics.
func (s *State) Reset(rng *RNG) {
	for id := range s.Players {
		s.Players[id].Score = 0
	}
	s.Winner = WinNone
	s.Phase = PhaseWaiting
	s.Level = 0
	s.InitLevel(0, rng)
}
