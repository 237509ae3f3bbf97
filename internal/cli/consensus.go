package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/msaview/pkg/alignment"
)

// consensusCommand creates the consensus command.
func (c *CLI) consensusCommand() *cobra.Command {
	var (
		scores bool
		all    bool
		width  int
	)

	cmd := &cobra.Command{
		Use:   "consensus <file.fasta>",
		Short: "Print the consensus sequence of an alignment",
		Long: `Compute the per-column consensus of a FASTA alignment.

By default the consensus is printed as a FASTA record. Columns where several
residues tie for the highest count are marked with '+'. With --scores one
line per column is printed instead, giving the residue and the share of
sequences that agree with it.`,
		Example: `  msaview consensus globins.fasta
  msaview consensus --scores globins.fasta
  msaview consensus --all globins.fasta > with-consensus.fasta`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConsensus(cmd.Context(), args[0], scores, all, width)
		},
	}

	cmd.Flags().BoolVar(&scores, "scores", false, "print one column per line with its score")
	cmd.Flags().BoolVar(&all, "all", false, "write the whole alignment with the consensus as first record")
	cmd.Flags().IntVar(&width, "width", 60, "line width for the consensus record (0 for one line)")
	return cmd
}

func (c *CLI) runConsensus(ctx context.Context, path string, scores, all bool, width int) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	sess, err := loadSession(ctx, path, cfg.SessionOptions(0, 0))
	if err != nil {
		return err
	}
	aln := sess.Alignment()

	switch {
	case all:
		return alignment.WriteFASTA(os.Stdout, aln, true)
	case scores:
		cons := aln.Consensus().Residues
		for col := range cons {
			score, err := aln.ConsensusScore(col)
			if err != nil {
				return err
			}
			fmt.Printf("%d\t%c\t%.4f\n", col, cons[col], score)
		}
		return nil
	}

	fmt.Println(">" + alignment.ConsensusLabel)
	fmt.Println(wrap(string(aln.Consensus().Residues), width))
	return nil
}

// wrap breaks s into lines of at most width bytes.
func wrap(s string, width int) string {
	if width <= 0 || len(s) <= width {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i += width {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(s[i:min(i+width, len(s))])
	}
	return b.String()
}
