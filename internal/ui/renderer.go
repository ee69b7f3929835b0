// Package ui renders a bomb-arena sim.State directly to a terminal for
// the two-player local harness (cmd/localplay). It is a debug/demo
// surface, not the reference client — real clients render from the
// wire snapshot and predict locally (spec §4.7), which is out of scope
// here.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/amalg016/bomb-arena/internal/sim"
)

var (
	hardWallStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#3a3a3a")).
			Foreground(lipgloss.Color("#555555"))

	softWallStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#8B6914")).
			Foreground(lipgloss.Color("#A0772B"))

	emptyStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#1a1a2e")).
			Foreground(lipgloss.Color("#1a1a2e"))

	bombStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#1a1a2e")).
			Foreground(lipgloss.Color("#ff4444")).
			Bold(true)

	fireStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#ff6600")).
			Foreground(lipgloss.Color("#ffcc00")).
			Bold(true)

	enemyStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#1a1a2e")).
			Foreground(lipgloss.Color("#cc44cc")).
			Bold(true)

	playerColors = []lipgloss.Color{
		lipgloss.Color("#00ff88"),
		lipgloss.Color("#4488ff"),
	}

	deadPlayerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Strikethrough(true)

	hudBorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444466")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff8844")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#44aaff")).
			Bold(true)

	winnerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ff88")).
			Bold(true)
)

// RenderBoard converts the simulation grid into a styled terminal string.
func RenderBoard(state *sim.State) string {
	if state == nil || len(state.Grid) == 0 {
		return "waiting for game state..."
	}

	bombAt := make(map[sim.Cell]*sim.Bomb, len(state.Bombs))
	for _, b := range state.Bombs {
		bombAt[b.Cell] = b
	}
	fireAt := make(map[sim.Cell]bool, len(state.Explosions))
	for _, e := range state.Explosions {
		fireAt[e.Cell] = true
	}
	playerAt := make(map[sim.Cell]*sim.Player, len(state.Players))
	for _, p := range state.Players {
		if p.State != sim.StateDead {
			playerAt[sim.CellOf(p.Pos)] = p
		}
	}
	enemyAt := make(map[sim.Cell]*sim.Enemy, len(state.Enemies))
	for _, e := range state.Enemies {
		enemyAt[sim.CellOf(e.Pos)] = e
	}

	var rows []string
	for row := 0; row < sim.GridHeight; row++ {
		var cells []string
		for col := 0; col < sim.GridWidth; col++ {
			c := sim.Cell{Col: col, Row: row}
			cells = append(cells, renderCell(state, c, fireAt, bombAt, playerAt, enemyAt))
		}
		rows = append(rows, strings.Join(cells, ""))
	}
	return strings.Join(rows, "\n")
}

func renderCell(
	state *sim.State,
	c sim.Cell,
	fireAt map[sim.Cell]bool,
	bombAt map[sim.Cell]*sim.Bomb,
	playerAt map[sim.Cell]*sim.Player,
	enemyAt map[sim.Cell]*sim.Enemy,
) string {
	if p, ok := playerAt[c]; ok {
		colorIdx := (p.ID - 1) % len(playerColors)
		style := lipgloss.NewStyle().Bold(true).
			Background(playerColors[colorIdx]).
			Foreground(playerColors[colorIdx])
		return style.Render("██")
	}

	if fireAt[c] {
		return fireStyle.Render("░░")
	}

	if _, ok := bombAt[c]; ok {
		return bombStyle.Render("()")
	}

	if _, ok := enemyAt[c]; ok {
		return enemyStyle.Render("<>")
	}

	if it, ok := state.ItemAt(c); ok {
		_ = it
		return lipgloss.NewStyle().Background(lipgloss.Color("#1a1a2e")).Foreground(lipgloss.Color("#ffee88")).Render("**")
	}

	switch state.TileAt(c) {
	case sim.TileHardWall:
		return hardWallStyle.Render("██")
	case sim.TileSoftWall:
		return softWallStyle.Render("▒▒")
	default:
		return emptyStyle.Render("  ")
	}
}

// RenderHUD renders phase, level, and per-player status.
func RenderHUD(state *sim.State) string {
	if state == nil {
		return ""
	}

	var parts []string
	parts = append(parts, titleStyle.Render("BOMB ARENA — local play"))
	parts = append(parts, "")

	switch state.Phase {
	case sim.PhaseWaiting:
		parts = append(parts, statusStyle.Render("WAITING — press enter to ready up"))
	case sim.PhaseCountdown:
		parts = append(parts, statusStyle.Render(fmt.Sprintf("COUNTDOWN: %d", state.CountdownS)))
	case sim.PhasePlaying:
		parts = append(parts, fmt.Sprintf("PLAYING — level %d", state.Level))
	case sim.PhaseLevelClear:
		parts = append(parts, statusStyle.Render("LEVEL CLEAR — press enter to advance"))
	case sim.PhaseFinished:
		if state.Winner == sim.WinNone {
			parts = append(parts, lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Render("DRAW"))
		} else if state.Winner == sim.WinCampaignComplete {
			parts = append(parts, winnerStyle.Render("CAMPAIGN COMPLETE"))
		} else {
			parts = append(parts, winnerStyle.Render(fmt.Sprintf("PLAYER %d WINS", int(state.Winner))))
		}
	}
	parts = append(parts, "")

	parts = append(parts, lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Render("Players:"))
	for id := 1; id <= 2; id++ {
		p, ok := state.Players[id]
		if !ok {
			continue
		}
		colorIdx := (id - 1) % len(playerColors)
		nameStyle := lipgloss.NewStyle().Foreground(playerColors[colorIdx])
		label := fmt.Sprintf("P%d", id)
		stateLabel := "normal"
		switch p.State {
		case sim.StateTrapped:
			stateLabel = "trapped"
		case sim.StateDead:
			stateLabel = "dead"
			nameStyle = deadPlayerStyle
		}
		parts = append(parts, fmt.Sprintf("  %s [%s] bombs %d/%d range %d score %d",
			nameStyle.Render(label), stateLabel, p.MaxBombs-p.ActiveBombs, p.MaxBombs, p.BombRange, p.Score))
	}

	parts = append(parts, "")
	parts = append(parts, lipgloss.NewStyle().Foreground(lipgloss.Color("#555555")).Render("P1: WASD+space  P2: arrows+enter  q: quit"))

	return hudBorderStyle.Render(strings.Join(parts, "\n"))
}
