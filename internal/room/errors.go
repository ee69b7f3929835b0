package room

import "errors"

// Matchmaking failure taxonomy (spec §7): surfaced as a typed error on
// the join reply rather than a stack trace.
var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrRoomLocked     = errors.New("room locked")
	ErrRoomNotWaiting = errors.New("room not waiting")
	ErrModeMismatch   = errors.New("mode mismatch")
)
