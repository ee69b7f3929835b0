package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/amalg016/bomb-arena/internal/sim"
)

// tickMsg drives the simulation clock; local play has no network, so
// the tick loop lives directly in the Bubbletea update cycle instead of
// a room's goroutine.
type tickMsg time.Time

const localTickInterval = 16 * time.Millisecond

// Model is the Bubbletea model for the two-player local harness. Unlike
// a real client it holds the authoritative sim.State directly.
type Model struct {
	state    *sim.State
	rng      *sim.RNG
	quitting bool
}

// NewModel builds a two-player PvP local match.
func NewModel() Model {
	rng := sim.NewRNG(sim.NewSeed())
	state := sim.NewState(sim.ModePVP, "LOCAL", true)
	state.AddPlayer(1)
	state.AddPlayer(2)
	state.InitLevel(0, rng)
	return Model{state: state, rng: rng}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(localTickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tickMsg:
		if m.state.Phase == sim.PhasePlaying {
			m.state.Step(float64(localTickInterval/time.Millisecond), map[int]sim.Input{}, m.rng)
		}
		return m, tick()
	}
	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return "goodbye\n"
	}
	board := RenderBoard(m.state)
	hud := RenderHUD(m.state)
	return board + "\n\n" + hud + "\n"
}

// handleKey moves the discrete-step local harness by one tick per
// keypress: it has no key-up event to hold a direction continuously, so
// each press advances the simulation exactly once with that single
// input, rather than the continuous-while-held semantics real sessions
// get from edge-triggered network input (spec §4.7).
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "enter":
		switch m.state.Phase {
		case sim.PhaseWaiting:
			m.state.Phase = sim.PhaseCountdown
			m.state.CountdownS = 3
			go m.countdownLoop()
		case sim.PhaseLevelClear:
			m.state.InitLevel(m.state.Level+1, m.rng)
			m.state.Phase = sim.PhasePlaying
		case sim.PhaseFinished:
			m.state.Reset(m.rng)
			m.state.Phase = sim.PhaseCountdown
			m.state.CountdownS = 3
			go m.countdownLoop()
		default:
			m.stepWithInput(2, sim.Input{Bomb: true})
		}
		return m, nil
	}

	if m.state.Phase != sim.PhasePlaying {
		return m, nil
	}

	switch msg.String() {
	case "w":
		m.stepWithInput(1, sim.Input{Up: true})
	case "s":
		m.stepWithInput(1, sim.Input{Down: true})
	case "a":
		m.stepWithInput(1, sim.Input{Left: true})
	case "d":
		m.stepWithInput(1, sim.Input{Right: true})
	case " ":
		m.stepWithInput(1, sim.Input{Bomb: true})
	case "up":
		m.stepWithInput(2, sim.Input{Up: true})
	case "down":
		m.stepWithInput(2, sim.Input{Down: true})
	case "left":
		m.stepWithInput(2, sim.Input{Left: true})
	case "right":
		m.stepWithInput(2, sim.Input{Right: true})
	}
	return m, nil
}

func (m Model) stepWithInput(playerID int, in sim.Input) {
	m.state.Step(float64(localTickInterval/time.Millisecond), map[int]sim.Input{playerID: in}, m.rng)
}

// countdownLoop advances the pre-round countdown once per second; it
// runs off the Bubbletea update cycle since local play has no room
// worker to own its phase timers.
func (m Model) countdownLoop() {
	for m.state.Phase == sim.PhaseCountdown && m.state.CountdownS > 0 {
		time.Sleep(time.Second)
		m.state.CountdownS--
	}
	if m.state.Phase == sim.PhaseCountdown {
		m.state.Phase = sim.PhasePlaying
	}
}
