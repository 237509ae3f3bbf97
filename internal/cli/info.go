package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/msaview/pkg/alignment"
)

// infoCommand creates the info command for summarising an alignment.
func (c *CLI) infoCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "info <file.fasta>",
		Short: "Summarise an alignment and list its sequences",
		Long: `Parse a FASTA alignment and print its dimensions, alphabet and a table
of its sequences. Use "-" to read from standard input.`,
		Example: `  msaview info globins.fasta
  msaview info --limit 0 globins.fasta
  cat globins.fasta | msaview info -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInfo(cmd.Context(), args[0], limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum sequences to list (0 lists none, -1 lists all)")
	return cmd
}

func (c *CLI) runInfo(ctx context.Context, path string, limit int) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	sess, err := loadSession(ctx, path, cfg.SessionOptions(0, 0))
	if err != nil {
		return err
	}
	aln := sess.Alignment()
	tm := sess.TileMap()

	printSuccess("Alignment %s", StyleHighlight.Render(displayName(path)))
	printKeyValue("Sequences", strconv.Itoa(aln.RealCount()))
	printKeyValue("Columns", strconv.Itoa(aln.MaxSequenceLength()))
	printKeyValue("Alphabet", aln.Alphabet().String())
	printKeyValue("Label max", strconv.Itoa(aln.MaxLabelLength()))
	printKeyValue("Tiles", fmt.Sprintf("%d (%dx%d, %d per row)", tm.Len(), tm.TileWidth, tm.TileHeight, tm.Stride))
	printKeyValue("Hash", sess.Hash()[:12])

	if limit == 0 || aln.RealCount() == 0 {
		return nil
	}
	printNewline()
	fmt.Println(sequenceTable(aln, limit))
	if limit > 0 && aln.RealCount() > limit {
		printDetail("%d more sequences not shown", aln.RealCount()-limit)
	}
	return nil
}

// sequenceTable renders up to limit sequences (all when limit < 0) with
// their length and gap share.
func sequenceTable(aln *alignment.Alignment, limit int) string {
	rows := [][]string{}
	for i, seq := range aln.Sequences() {
		if limit > 0 && len(rows) >= limit {
			break
		}
		gaps := 0
		for _, r := range seq.Residues {
			if r == alignment.Gap {
				gaps++
			}
		}
		share := "0%"
		if len(seq.Residues) > 0 {
			share = fmt.Sprintf("%.0f%%", 100*float64(gaps)/float64(len(seq.Residues)))
		}
		rows = append(rows, []string{strconv.Itoa(i), truncate(string(seq.Label), 48), strconv.Itoa(len(seq.Residues)), share})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Row", "Label", "Length", "Gaps").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 1 {
				return StyleValue
			}
			return lipgloss.NewStyle().Foreground(colorGray)
		}).
		Render()
}

// truncate shortens s to n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
