package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	msaerrors "github.com/matzehuels/msaview/pkg/errors"
	"github.com/matzehuels/msaview/pkg/server"
	"github.com/matzehuels/msaview/pkg/session"
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve alignment sessions over HTTP",
		Long: `Start an HTTP server that accepts FASTA uploads and exposes each
alignment as a session: tiles, consensus chunks, camera state and
pan/zoom/position controls.`,
		Example: `  msaview serve
  msaview serve --addr 127.0.0.1:9000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if addr != "" {
		if err := msaerrors.ValidateAddr(addr); err != nil {
			return err
		}
		cfg.Server.Addr = addr
	}

	u, closeCache, err := c.newUploader(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeCache()

	srv := server.New(server.Options{
		Config:   cfg,
		Store:    session.NewMemoryStore(cfg.Server.SessionTTL),
		Uploader: u,
		Logger:   loggerFromContext(ctx),
	})
	printInfo("Serving on %s", StyleHighlight.Render(cfg.Server.Addr))
	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
