package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pedigree/pkg/annotation"
	"github.com/matzehuels/pedigree/pkg/buildinfo"
	"github.com/matzehuels/pedigree/pkg/cache"
	"github.com/matzehuels/pedigree/pkg/config"
	"github.com/matzehuels/pedigree/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "pedigree"

	// configEnv names a config file when --config is not given.
	configEnv = "PEDIGREE_CONFIG"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        config.Config
}

// New creates a new CLI instance with a default logger and the built-in
// configuration. RootCommand replaces the configuration before any
// subcommand runs.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// Config returns the active configuration.
func (c *CLI) Config() config.Config { return c.cfg }

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Pedigree lays out family trees as generation/slot charts",
		Long: `Pedigree lays out family pedigrees: every relative of a proband gets a
generation row and a horizontal slot, ready for drawing as a chart.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(withLogger(ctx, c.Logger))
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (TOML or YAML; default $"+configEnv+")")

	// Register all subcommands
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.annotationsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	path := c.configPath
	if path == "" {
		path = os.Getenv(configEnv)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	c.cfg = cfg
	if path != "" {
		c.Logger.Debug("loaded config", "path", path)
	}
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use, with the cache and
// annotation store selected by the configuration.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	store, err := annotation.Open(ctx, c.cfg.Annotations)
	if err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("open annotations: %w", err)
	}
	r := pipeline.NewRunner(ch, nil, store, c.Logger)
	r.TTL = c.cfg.Cache.TTL.Duration
	return r, nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.cfg.Cache.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		return cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:   c.cfg.Cache.RedisAddr,
			Prefix: c.cfg.Cache.RedisPrefix,
		})
	default:
		dir, err := c.fileCacheDir()
		if err != nil {
			c.Logger.Warn("no cache directory, caching disabled", "error", err)
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/pedigree/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// fileCacheDir is the configured cache directory, or cacheDir when unset.
func (c *CLI) fileCacheDir() (string, error) {
	if c.cfg.Cache.Dir != "" {
		return c.cfg.Cache.Dir, nil
	}
	return cacheDir()
}

// datasetPath resolves a command argument to a dataset file. Arguments
// that name an existing file or end in ".json" are paths; anything else is
// a family id in the data directory.
func (c *CLI) datasetPath(arg string) (string, error) {
	if strings.HasSuffix(arg, ".json") {
		return arg, nil
	}
	if info, err := os.Stat(arg); err == nil && !info.IsDir() {
		return arg, nil
	}
	return pipeline.FamilyPath(c.cfg.Data.Dir, arg)
}

// =============================================================================
// Options Helpers
// =============================================================================

// layoutFlags are the layout options shared by several commands. Flags the
// user did not set keep the configured value.
type layoutFlags struct {
	maxDepth       int
	strict         bool
	skipSeparation bool
	noCache        bool
	refresh        bool
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.maxDepth, "max-depth", 0, "recursion depth cap (default from config)")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "fail on overlaps or depth-capped branches")
	cmd.Flags().BoolVar(&f.skipSeparation, "skip-separation", false, "do not move overlapping ancestor branches apart")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached results")
}

// options returns pipeline options from the configuration with the flags
// the user set applied on top.
func (c *CLI) options(cmd *cobra.Command, f *layoutFlags) pipeline.Options {
	opts := pipeline.FromConfig(c.cfg)
	flags := cmd.Flags()
	if flags.Changed("max-depth") {
		opts.MaxDepth = f.maxDepth
	}
	if flags.Changed("strict") {
		opts.Strict = f.strict
	}
	if flags.Changed("skip-separation") {
		opts.SkipSeparation = f.skipSeparation
	}
	opts.Refresh = f.refresh
	opts.Logger = c.Logger
	return opts
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return pipeline.DefaultFormats
	}
	var formats []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			formats = append(formats, f)
		}
	}
	return formats
}
