package sim

// LevelConfig is one static entry in the campaign's level table (spec §4.5).
type LevelConfig struct {
	WallDensity float64
	Enemies     []EnemyKind
	Boss        *EnemyKind
}

// EnemyStats holds the per-kind constants that drive AI speed and health.
// Absolute speeds are an implementer's choice (spec §9 open question 2);
// only the relative ordering
//
//	TANK < BALLOON < FROG ≈ MINION < GHOST < BOSS_MECHA < BOSS_SLIME
//
// and frame-rate independence via timeFactor are normative.
type EnemyStats struct {
	Speed float64
	HP    int
}

var enemyStatTable = map[EnemyKind]EnemyStats{
	EnemyTank:      {Speed: 0.6, HP: 2},
	EnemyBalloon:   {Speed: 0.9, HP: 1},
	EnemyFrog:      {Speed: 1.1, HP: 1},
	EnemyMinion:    {Speed: 1.15, HP: 1},
	EnemyGhost:     {Speed: 1.3, HP: 1},
	EnemyBossMecha: {Speed: 1.5, HP: 20},
	EnemyBossSlime: {Speed: 1.7, HP: 24},
}

func statsFor(k EnemyKind) EnemyStats {
	return enemyStatTable[k]
}

func bossKind(k EnemyKind) *EnemyKind {
	v := k
	return &v
}

// Levels is the static campaign sequence. Level 12 (index 11) is the
// campaign finale; clearing it produces WinCampaignComplete.
var Levels = []LevelConfig{
	{WallDensity: 0.55, Enemies: []EnemyKind{EnemyBalloon, EnemyBalloon}},
	{WallDensity: 0.55, Enemies: []EnemyKind{EnemyBalloon, EnemyBalloon, EnemyBalloon}},
	{WallDensity: 0.58, Enemies: []EnemyKind{EnemyBalloon, EnemyGhost}},
	{WallDensity: 0.58, Enemies: []EnemyKind{EnemyGhost, EnemyGhost, EnemyBalloon}},
	{WallDensity: 0.6, Enemies: []EnemyKind{EnemyFrog, EnemyGhost, EnemyBalloon}},
	{WallDensity: 0.6, Enemies: []EnemyKind{EnemyMinion, EnemyMinion, EnemyFrog}},
	{WallDensity: 0.62, Enemies: []EnemyKind{EnemyTank, EnemyGhost, EnemyMinion}},
	{WallDensity: 0.62, Enemies: []EnemyKind{EnemyTank, EnemyTank, EnemyMinion, EnemyMinion}},
	{WallDensity: 0.64, Enemies: []EnemyKind{EnemyFrog, EnemyFrog, EnemyGhost, EnemyMinion}},
	{WallDensity: 0.64, Enemies: []EnemyKind{EnemyTank, EnemyTank, EnemyFrog, EnemyGhost}},
	{WallDensity: 0.5, Enemies: nil, Boss: bossKind(EnemyBossSlime)},
	{WallDensity: 0.5, Enemies: nil, Boss: bossKind(EnemyBossMecha)},
}

// Config holds room-wide simulation parameters that are not per-level.
type Config struct {
	TickHz int
}

// DefaultConfig returns the normative 60Hz simulation configuration.
func DefaultConfig() Config {
	return Config{TickHz: int(tickHz)}
}
