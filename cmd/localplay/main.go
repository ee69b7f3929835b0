// Command localplay is a same-process, shared-keyboard debug harness: it
// drives two players against the shared simulation engine with no
// networking, useful for exercising §4.2's tick order interactively.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/amalg016/bomb-arena/internal/ui"
)

func main() {
	p := tea.NewProgram(ui.NewModel(), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error running local play: %v\n", err)
		os.Exit(1)
	}
}
