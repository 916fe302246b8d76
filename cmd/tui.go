package main

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/rosterx/internal/roster"
	"github.com/desertthunder/rosterx/internal/shared"
	"github.com/desertthunder/rosterx/internal/ui"
)

// TUI launches the interactive roster browser.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Logs would interfere with TUI rendering
	r.SetLogger(shared.NewLogger(io.Discard))

	a, actor, err := r.session(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.close()

	model := ui.NewModel(ctx, a.roster, actor, roster.Query{Search: cmd.String("search"), State: cmd.String("state")})
	p := tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
