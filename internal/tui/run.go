package tui

import (
	"context"
	"fmt"
	"math/big"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/diffsquare/diffsquare/internal/fermat"
	"github.com/diffsquare/diffsquare/internal/types"
)

// Work runs a batch, reporting through progress and result. It must return
// promptly once ctx is canceled.
type Work func(ctx context.Context, progress func(int, fermat.Observation), result func(types.JobResult)) error

// Run shows the live view while work runs. Quitting early cancels work; Run
// returns only after work has returned.
func Run(ctx context.Context, moduli []*big.Int, work Work) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewModel(moduli, cancel), tea.WithAltScreen())

	workErr := make(chan error, 1)
	go func() {
		err := work(ctx,
			func(i int, o fermat.Observation) {
				p.Send(ProgressMsg{Index: i, Iteration: new(big.Int).Set(o.Iteration)})
			},
			func(r types.JobResult) {
				p.Send(ResultMsg{Result: r})
			},
		)
		p.Send(DoneMsg{Err: err})
		workErr <- err
	}()

	_, tuiErr := p.Run()
	cancel()
	err := <-workErr
	if tuiErr != nil {
		return fmt.Errorf("error running TUI: %w", tuiErr)
	}
	return err
}
