package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/marquee/pkg/assets"
	"github.com/matzehuels/marquee/pkg/buildinfo"
	"github.com/matzehuels/marquee/pkg/cache"
	"github.com/matzehuels/marquee/pkg/config"
	"github.com/matzehuels/marquee/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "marquee"

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

	// configPath is the value of the persistent --config flag.
	configPath string
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
		Short:        "Marquee composes title posters from artwork and metadata",
		Long:         `Marquee is a CLI tool that turns a piece of artwork, an optional logo and a few lines of metadata into a finished JPEG title poster.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+config.DefaultPath()+")")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config & Runner Factory
// =============================================================================

// loadConfig loads the config named by --config, the per-user config file,
// or the built-in defaults, in that order.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadOrDefault(c.configPath)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("loaded config", "path", c.configPath, "cache", cfg.Cache.Backend)
	return cfg, nil
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config, noCache bool) (*pipeline.Runner, error) {
	lib := assets.Load(cfg.AssetConfig(), c.Logger)
	for _, p := range lib.Problems() {
		printWarning("%v", p)
	}

	store, err := c.newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}

	var keyer cache.Keyer
	if cfg.Cache.Namespace != "" {
		keyer = cache.NewScopedKeyer(nil, cfg.Cache.Namespace+":")
	}

	r := pipeline.NewRunner(lib, cfg.Settings(), store, keyer, c.Logger)
	if ttl, _ := cfg.CacheTTL(); ttl > 0 {
		r.TTL = ttl
	}
	return r, nil
}

// newCache opens the configured cache backend. A backend that cannot be
// opened disables caching rather than failing the render; the returned
// *cache.NullCache records why.
func (c *CLI) newCache(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, error) {
	switch {
	case noCache:
		return cache.Disabled("--no-cache"), nil
	case cfg.Cache.Backend == config.CacheNone:
		return cache.Disabled("cache.backend is none"), nil
	case cfg.Cache.Backend == config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, redisConfig(cfg))
		if err != nil {
			c.Logger.Warn("redis unavailable, caching disabled", "addr", cfg.Cache.Redis.Addr, "err", err)
			return cache.Disabled("redis unavailable at " + cfg.Cache.Redis.Addr), nil
		}
		return rc, nil
	}
	dir, err := cacheDir(cfg)
	if err != nil {
		c.Logger.Warn("no cache directory, caching disabled", "err", err)
		return cache.Disabled("no cache directory"), nil
	}
	return cache.NewFileCache(dir)
}

func redisConfig(cfg *config.Config) cache.RedisConfig {
	return cache.RedisConfig{
		Addr:     cfg.Cache.Redis.Addr,
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
		Prefix:   appName + ":",
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the file cache directory: cache.dir from the config if
// set, otherwise the XDG standard location (~/.cache/marquee/).
func cacheDir(cfg *config.Config) (string, error) {
	if cfg != nil && cfg.Cache.Dir != "" {
		return cfg.Cache.Dir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
