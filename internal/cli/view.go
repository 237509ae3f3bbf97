package cli

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/msaview/pkg/viewport"
)

// viewCommand creates the view command for the interactive terminal viewer.
func (c *CLI) viewCommand() *cobra.Command {
	var position string

	cmd := &cobra.Command{
		Use:   "view <file.fasta>",
		Short: "Explore an alignment interactively in the terminal",
		Long: `Open a full-screen viewer over a FASTA alignment. The labels pane sits on
the left, the alignment on the right with the consensus as its first row.

Pan with the arrow keys, the mouse wheel or by dragging. Zoom with +/- or
ctrl+wheel. Drag the separator or press </> to resize the panes. Press g to
jump to a "column,row,zoom" position and ? for all keys.`,
		Example: `  msaview view globins.fasta
  msaview view --position 120,40,30 globins.fasta`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runView(cmd.Context(), args[0], position)
		},
	}

	cmd.Flags().StringVarP(&position, "position", "p", "", `start position as "column,row,zoom"`)
	return cmd
}

func (c *CLI) runView(ctx context.Context, path, position string) error {
	var start *viewport.Position
	if position != "" {
		pos, err := viewport.ParsePosition(position)
		if err != nil {
			return err
		}
		start = &pos
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	opts := cfg.SessionOptions(0, 0)
	opts.InitialCellSize = cellPixels
	opts.LabelCharWidth = 1

	sess, err := loadSession(ctx, path, opts)
	if err != nil {
		return err
	}

	progOpts := []tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	}
	if path == stdinPath {
		progOpts = append(progOpts, tea.WithInputTTY())
	}

	p := tea.NewProgram(newViewerModel(sess, start), progOpts...)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
