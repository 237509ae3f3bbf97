package cli

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/msaview/pkg/buildinfo"
	"github.com/matzehuels/msaview/pkg/cache"
	"github.com/matzehuels/msaview/pkg/config"
	msaerrors "github.com/matzehuels/msaview/pkg/errors"
	"github.com/matzehuels/msaview/pkg/session"
	"github.com/matzehuels/msaview/pkg/upload"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = config.AppName

	// stdinPath selects standard input as the FASTA source.
	stdinPath = "-"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
	LogWarn  = log.WarnLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	noCache    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "msaview explores multiple sequence alignments",
		Long:         `msaview loads FASTA multiple sequence alignments, computes their consensus and lets you pan and zoom through them in the terminal or over an HTTP API.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/msaview/config.toml)")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "disable the tile cache")

	root.AddCommand(c.infoCommand())
	root.AddCommand(c.consensusCommand())
	root.AddCommand(c.tilesCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config and Cache
// =============================================================================

// loadConfig reads the config file named by --config, or the default
// location when the flag is unset. A missing default file is not an error.
func (c *CLI) loadConfig() (config.Config, error) {
	if c.configPath != "" {
		return config.Load(c.configPath)
	}
	path, err := config.DefaultPath()
	if err != nil {
		cfg := config.Default()
		return cfg, cfg.Validate()
	}
	return config.LoadOrDefault(path)
}

// openCache opens the configured cache backend. --no-cache forces NullCache.
func (c *CLI) openCache(ctx context.Context, cfg config.Config) (cache.Cache, error) {
	if c.noCache {
		return cache.NewNullCache(), nil
	}
	var (
		backend cache.Cache
		err     error
	)
	switch cfg.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		backend, err = cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
	default:
		backend, err = cache.NewFileCache(cfg.Cache.Dir)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s cache: %w", cfg.Cache.Backend, err)
	}
	return cache.NewInstrumented(backend), nil
}

// newUploader builds an Uploader over the configured cache. The returned
// close function releases the cache.
func (c *CLI) newUploader(ctx context.Context, cfg config.Config) (*upload.Uploader, func() error, error) {
	cc, err := c.openCache(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	var keyer cache.Keyer = cache.NewDefaultKeyer()
	if cfg.Cache.Prefix != "" {
		keyer = cache.NewScopedKeyer(keyer, cfg.Cache.Prefix)
	}
	u := &upload.Uploader{
		Cache:  cc,
		Keyer:  keyer,
		TTL:    cfg.Cache.TTL,
		Logger: loggerFromContext(ctx),
	}
	return u, cc.Close, nil
}

// =============================================================================
// Loading
// =============================================================================

// readInput reads a FASTA file, or standard input for "-". Gzip input is
// recognised by its magic bytes rather than the file name, so compressed
// data piped through stdin works too.
func readInput(path string) ([]byte, error) {
	var (
		raw []byte
		err error
	)
	if path == stdinPath {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		if err := msaerrors.ValidatePath(path); err != nil {
			return nil, err
		}
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	return gunzip(raw)
}

var gzipMagic = []byte{0x1f, 0x8b}

// gunzip returns raw unchanged unless it starts with the gzip header.
func gunzip(raw []byte) ([]byte, error) {
	if !bytes.HasPrefix(raw, gzipMagic) {
		return raw, nil
	}
	zr, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}
	defer zr.Close()
	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}
	return out, nil
}

// loadSession reads and parses a FASTA file into a session, showing a
// spinner on the terminal while it works.
func loadSession(ctx context.Context, path string, opts session.Options) (*session.Session, error) {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	raw, err := readInput(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	spin := newSpinnerWithContext(ctx, "Parsing "+displayName(path))
	spin.Start()
	sess, err := session.New(ctx, raw, opts)
	if err != nil {
		spin.StopWithError("Could not load " + displayName(path))
		return nil, err
	}
	spin.Stop()

	prog.done("Loaded",
		"file", displayName(path),
		"sequences", sess.Alignment().RealCount(),
		"columns", sess.Alignment().MaxSequenceLength())
	return sess, nil
}

func displayName(path string) string {
	if path == stdinPath {
		return "stdin"
	}
	return filepath.Base(path)
}
