package sim

import (
	"crypto/rand"
	"encoding/binary"
	mrand "math/rand"
)

// NewSeed draws a fresh 64-bit seed from the OS CSPRNG. Simulation code
// never reads math/rand's global source directly — every room owns its
// own stream so replays and property tests stay reproducible (spec §9).
func NewSeed() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand failing is effectively unrecoverable on any real
		// platform; fall back to a fixed seed rather than panic.
		return 1
	}
	return int64(binary.LittleEndian.Uint64(buf[:]))
}

// RNG wraps a per-room deterministic random stream.
type RNG struct {
	r *mrand.Rand
}

// NewRNG builds a seeded RNG. Pass NewSeed() in production, a fixed value in tests.
func NewRNG(seed int64) *RNG {
	return &RNG{r: mrand.New(mrand.NewSource(seed))}
}

func (g *RNG) Float64() float64 { return g.r.Float64() }
func (g *RNG) Intn(n int) int   { return g.r.Intn(n) }

// Direction returns a uniformly random cardinal direction.
func (g *RNG) Direction() Direction {
	return Direction(g.r.Intn(4))
}
