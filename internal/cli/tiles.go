package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/msaview/pkg/upload"
)

// tilesCommand creates the tiles command for exporting residue tiles.
func (c *CLI) tilesCommand() *cobra.Command {
	var (
		output   string
		tileSize int
		workers  int
	)

	cmd := &cobra.Command{
		Use:   "tiles <file.fasta>",
		Short: "Export residue tiles and consensus chunks",
		Long: `Cut an alignment into square tiles and write each tile's residue bytes
to its own file, together with the packed consensus chunks and a
manifest.json describing them. Tiles are cached by content hash, so
exporting the same alignment again is fast.`,
		Example: `  msaview tiles -o out/ globins.fasta
  msaview tiles --tile-size 256 -o out/ globins.fasta`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTiles(cmd.Context(), args[0], output, tileSize, workers)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "tiles", "output directory")
	cmd.Flags().IntVar(&tileSize, "tile-size", 0, "tile edge in cells (default from config)")
	cmd.Flags().IntVar(&workers, "workers", upload.DefaultWorkers, "concurrent tile extractions")
	return cmd
}

func (c *CLI) runTiles(ctx context.Context, path, output string, tileSize, workers int) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if tileSize != 0 {
		cfg.Viewer.TileSize = tileSize
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	sess, err := loadSession(ctx, path, cfg.SessionOptions(0, 0))
	if err != nil {
		return err
	}

	u, closeCache, err := c.newUploader(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeCache()
	u.Workers = workers

	sink, err := upload.NewDirSink(output, sess.Hash(), sess.TileMap())
	if err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	prog := newProgress(loggerFromContext(ctx))
	stats, err := u.Upload(ctx, sess, sink)
	if err != nil {
		return err
	}
	if err := sink.Flush(); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	prog.done("Exported", "tiles", stats.Tiles, "chunks", stats.ConsensusChunks, "cache_hits", stats.CacheHits)

	printSuccess("Exported %d tiles and %d consensus chunks", stats.Tiles, stats.ConsensusChunks)
	printStats(stats.Bytes, stats.CacheHits, stats.Tiles+stats.ConsensusChunks)
	printFile(filepath.Join(output, upload.ManifestFile))
	return nil
}
