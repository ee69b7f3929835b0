package sim

// NewGrid builds the fixed 15x13 grid: border and even/even hard walls,
// two 3x3 spawn corners forced empty, remaining interior cells randomly
// soft-walled at wallDensity. Grounded on the teacher's NewBoard, extended
// to the two-corner spawn layout and level-dependent density (spec §3).
func NewGrid(wallDensity float64, rng *RNG) []TileKind {
	grid := make([]TileKind, GridWidth*GridHeight)

	set := func(c Cell, k TileKind) { grid[c.Row*GridWidth+c.Col] = k }
	at := func(c Cell) TileKind { return grid[c.Row*GridWidth+c.Col] }

	for row := 0; row < GridHeight; row++ {
		for col := 0; col < GridWidth; col++ {
			c := Cell{Col: col, Row: row}
			switch {
			case col == 0 || row == 0 || col == GridWidth-1 || row == GridHeight-1:
				set(c, TileHardWall)
			case col%2 == 0 && row%2 == 0:
				set(c, TileHardWall)
			default:
				set(c, TileEmpty)
			}
		}
	}

	safe := spawnSafeSet()
	for row := 1; row < GridHeight-1; row++ {
		for col := 1; col < GridWidth-1; col++ {
			c := Cell{Col: col, Row: row}
			if at(c) != TileEmpty || safe[c] {
				continue
			}
			if rng.Float64() < wallDensity {
				set(c, TileSoftWall)
			}
		}
	}

	return grid
}

// SpawnCorners returns the two 3x3 spawn-corner anchors (top-left,
// bottom-right), forced empty per spec §3.
func SpawnCorners() []Cell {
	return []Cell{
		{Col: 1, Row: 1},
		{Col: GridWidth - 2, Row: GridHeight - 2},
	}
}

// spawnSafeSet returns every cell inside the two forced-empty 3x3 corners.
func spawnSafeSet() map[Cell]bool {
	safe := make(map[Cell]bool)
	for _, corner := range SpawnCorners() {
		for dc := -1; dc <= 1; dc++ {
			for dr := -1; dr <= 1; dr++ {
				safe[Cell{Col: corner.Col + dc, Row: corner.Row + dr}] = true
			}
		}
	}
	return safe
}

// SpawnPixelPosition returns the pixel-space center of a player's spawn corner.
func SpawnPixelPosition(playerIndex int) Position {
	corners := SpawnCorners()
	c := corners[playerIndex%len(corners)]
	return CenterOf(c)
}

// seedItems assigns a pending (unrevealed) item to a subset of soft-wall
// cells so that destroying the wall can later reveal it (spec §3 Items).
func seedItems(grid []TileKind, rng *RNG) []Item {
	kinds := []ItemKind{ItemRangeUp, ItemBombUp, ItemSpeedUp, ItemKick, ItemGhost, ItemShield}
	items := make([]Item, 0)
	for row := 0; row < GridHeight; row++ {
		for col := 0; col < GridWidth; col++ {
			idx := row*GridWidth + col
			if grid[idx] != TileSoftWall {
				continue
			}
			// Roughly a third of soft walls hide an item.
			if rng.Float64() < 0.33 {
				items = append(items, Item{
					Cell:     Cell{Col: col, Row: row},
					Kind:     kinds[rng.Intn(len(kinds))],
					Revealed: false,
				})
			}
		}
	}
	return items
}
