// Package config loads marquee's TOML configuration.
//
// [Default] is the single source of default values. [Load] reads a file and
// overlays the keys it sets onto the defaults, so a config file only needs
// the values it changes:
//
//	[assets]
//	panel   = "/srv/marquee/panel.png"
//	overlay = "/srv/marquee/overlay.png"
//
//	[assets.badges]
//	jellyfin = "/srv/marquee/badges/jellyfin.png"
//
//	[fonts.title]
//	path = "/usr/share/fonts/Roboto-Light.ttf"
//	size = 190
//
//	[ambient.vignette]
//	position = "bottom-right"
//
//	[cache]
//	backend = "redis"
//	ttl     = "72h"
package config

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/marquee/pkg/assets"
	"github.com/matzehuels/marquee/pkg/errors"
	"github.com/matzehuels/marquee/pkg/fonts"
	"github.com/matzehuels/marquee/pkg/poster"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config is the complete marquee configuration.
type Config struct {
	Fonts   FontsConfig            `toml:"fonts"`
	Assets  AssetsConfig           `toml:"assets"`
	Layout  poster.LayoutSettings  `toml:"layout"`
	Framed  poster.FramedSettings  `toml:"framed"`
	Ambient poster.AmbientSettings `toml:"ambient"`
	Logo    poster.LogoSettings    `toml:"logo"`
	Summary poster.SummarySettings `toml:"summary"`
	Output  OutputConfig           `toml:"output"`
	Cache   CacheConfig            `toml:"cache"`
}

// FontsConfig binds a font file and size to each role.
type FontsConfig struct {
	Title   fonts.Spec `toml:"title"`
	Info    fonts.Spec `toml:"info"`
	Summary fonts.Spec `toml:"summary"`
	Footer  fonts.Spec `toml:"footer"`
}

// AssetsConfig names the static images.
type AssetsConfig struct {
	Panel   string            `toml:"panel"`
	Overlay string            `toml:"overlay"`
	Badges  map[string]string `toml:"badges"`
}

// OutputConfig controls encoding and the default render options.
type OutputConfig struct {
	Quality    int                   `toml:"quality"`
	Background poster.BackgroundMode `toml:"background"`
	Label      string                `toml:"label"`
	Dir        string                `toml:"dir"`
}

// CacheConfig selects and configures the render cache.
type CacheConfig struct {
	Backend   string      `toml:"backend"`
	Dir       string      `toml:"dir"`
	Namespace string      `toml:"namespace"`
	TTL       string      `toml:"ttl"`
	Redis     RedisConfig `toml:"redis"`
}

// RedisConfig addresses a Redis server.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// Default returns the built-in configuration.
func Default() *Config {
	specs := fonts.DefaultSpecs()
	settings := poster.DefaultSettings()
	return &Config{
		Fonts: FontsConfig{
			Title:   specs[fonts.RoleTitle],
			Info:    specs[fonts.RoleInfo],
			Summary: specs[fonts.RoleSummary],
			Footer:  specs[fonts.RoleFooter],
		},
		Assets:  AssetsConfig{Badges: map[string]string{}},
		Layout:  settings.Layout,
		Framed:  settings.Framed,
		Ambient: settings.Ambient,
		Logo:    settings.Logo,
		Summary: settings.Summary,
		Output: OutputConfig{
			Quality:    poster.DefaultQuality,
			Background: poster.BackgroundAmbient,
			Label:      poster.DefaultLabel,
			Dir:        ".",
		},
		Cache: CacheConfig{
			Backend: CacheFile,
			TTL:     "168h",
			Redis:   RedisConfig{Addr: "localhost:6379"},
		},
	}
}

// Load reads the TOML file at path over the defaults and validates the
// result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	cfg.resolvePaths(filepath.Dir(path))
	return cfg, nil
}

// Parse decodes TOML data over the defaults and validates the result.
// Relative asset paths are left as written.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q", undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads path if it is non-empty, otherwise the file at
// DefaultPath if it exists, otherwise the defaults.
func LoadOrDefault(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}
	if def := DefaultPath(); def != "" {
		if _, err := os.Stat(def); err == nil {
			return Load(def)
		}
	}
	return Default(), nil
}

// DefaultPath returns the per-user config file location, or "" when the
// user config directory is unknown.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "marquee", "config.toml")
}

// resolvePaths makes relative file references relative to base.
func (c *Config) resolvePaths(base string) {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}
	c.Assets.Panel = abs(c.Assets.Panel)
	c.Assets.Overlay = abs(c.Assets.Overlay)
	for name, p := range c.Assets.Badges {
		c.Assets.Badges[name] = abs(p)
	}
	for _, spec := range []*fonts.Spec{&c.Fonts.Title, &c.Fonts.Info, &c.Fonts.Summary, &c.Fonts.Footer} {
		spec.Path = abs(spec.Path)
	}
	if c.Cache.Dir != "" {
		c.Cache.Dir = abs(c.Cache.Dir)
	}
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if err := c.Settings().Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid render settings")
	}
	if err := errors.ValidateDimension("output.quality", c.Output.Quality, 1, 100); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid output settings")
	}
	if err := poster.ValidateBackgroundMode(c.Output.Background); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid output settings")
	}
	switch c.Cache.Backend {
	case CacheFile, CacheRedis, CacheNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "cache.backend must be file, redis or none, got %q", c.Cache.Backend)
	}
	if _, err := c.CacheTTL(); err != nil {
		return err
	}
	return nil
}

// Settings returns the render settings portion of the configuration.
func (c *Config) Settings() poster.Settings {
	return poster.Settings{
		Layout:  c.Layout,
		Framed:  c.Framed,
		Ambient: c.Ambient,
		Logo:    c.Logo,
		Summary: c.Summary,
	}
}

// AssetConfig returns the resource loader configuration.
func (c *Config) AssetConfig() assets.Config {
	return assets.Config{
		Fonts: map[fonts.Role]fonts.Spec{
			fonts.RoleTitle:   c.Fonts.Title,
			fonts.RoleInfo:    c.Fonts.Info,
			fonts.RoleSummary: c.Fonts.Summary,
			fonts.RoleFooter:  c.Fonts.Footer,
		},
		Panel:   c.Assets.Panel,
		Overlay: c.Assets.Overlay,
		Badges:  c.Assets.Badges,
	}
}

// CacheTTL parses the cache TTL. An empty value means entries never expire.
func (c *Config) CacheTTL() (time.Duration, error) {
	if c.Cache.TTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil || d < 0 {
		return 0, errors.New(errors.ErrCodeInvalidConfig, "cache.ttl: invalid duration %q", c.Cache.TTL)
	}
	return d, nil
}

// Encode writes the configuration as TOML.
func (c *Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
