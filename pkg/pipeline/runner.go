package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"

	"github.com/matzehuels/marquee/pkg/assets"
	"github.com/matzehuels/marquee/pkg/cache"
	"github.com/matzehuels/marquee/pkg/errors"
	"github.com/matzehuels/marquee/pkg/observability"
	"github.com/matzehuels/marquee/pkg/poster"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner holds only shared, read-only state: the asset library, the
// base settings, the cache and the logger. Every Execute call gets its own
// poster.Session, so multiple goroutines can safely use the same Runner.
type Runner struct {
	Library  *assets.Library
	Settings poster.Settings
	Cache    cache.Cache
	Keyer    cache.Keyer
	Logger   *log.Logger
	TTL      time.Duration
}

// NewRunner creates a runner.
// If keyer is nil, a DefaultKeyer is used.
// If c is nil, a NullCache is used (caching disabled).
func NewRunner(lib *assets.Library, settings poster.Settings, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if lib == nil {
		lib = assets.New(nil, nil, nil, nil)
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Library:  lib,
		Settings: settings,
		Cache:    c,
		Keyer:    keyer,
		Logger:   logger,
		TTL:      cache.DefaultTTL,
	}
}

// Execute runs the complete decode → compose → encode pipeline with caching.
func (r *Runner) Execute(ctx context.Context, req Request) (*Result, error) {
	opts := req.Options
	opts.SetDefaults(r.Settings)
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	settings := opts.Apply(r.Settings)
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	meta := req.Metadata
	if opts.Badge != "" {
		meta.Badge = opts.Badge
	}

	if len(req.Artwork) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "artwork is required")
	}

	result := &Result{}

	// Stage 1: Cache lookup. The key covers the raw bytes, and undecodable
	// inputs are never stored, so a hit implies both inputs decode.
	key := ""
	if !opts.NoCache {
		key = r.cacheKey(req, meta, opts, settings)
		if data, ok := r.lookup(ctx, key); ok {
			result.Bytes = data
			result.CacheHit = true
			result.Stats.Size = len(data)
			r.Logger.Info("poster served from cache", "title", meta.Title, "bytes", len(data))
			return result, nil
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 2: Decode
	decodeStart := time.Now()
	artwork, logo, err := decodeInputs(req.Artwork, req.Logo)
	if err != nil {
		return nil, err
	}
	result.Stats.DecodeTime = time.Since(decodeStart)

	// Stage 3: Compose
	hooks := observability.Render()
	mode := string(opts.Background)
	hooks.OnRenderStart(ctx, mode)
	start := time.Now()

	sess := poster.NewSession(r.Library, settings, r.Logger)
	result.RenderID = sess.ID
	err = sess.Compose(poster.Input{
		Artwork:     artwork,
		Logo:        logo,
		Metadata:    meta,
		Background:  opts.Background,
		TargetWidth: opts.TargetWidth,
		Label:       opts.Label,
	})
	result.Stats.ComposeTime = time.Since(start)
	if err != nil {
		hooks.OnRenderComplete(ctx, mode, time.Since(start), err)
		return nil, fmt.Errorf("compose: %w", err)
	}
	b := sess.Image().Bounds()
	result.Stats.Width, result.Stats.Height = b.Dx(), b.Dy()

	r.Logger.Info("composed poster",
		"mode", mode,
		"size", fmt.Sprintf("%dx%d", b.Dx(), b.Dy()),
		"duration", result.Stats.ComposeTime)

	// Stage 4: Encode
	encodeStart := time.Now()
	data, err := sess.Bytes(opts.Quality)
	result.Stats.EncodeTime = time.Since(encodeStart)
	hooks.OnRenderComplete(ctx, mode, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	hooks.OnEncode(ctx, len(data), result.Stats.EncodeTime)
	result.Bytes = data
	result.Stats.Size = len(data)

	r.Logger.Debug("encoded poster",
		"bytes", len(data),
		"quality", opts.Quality,
		"duration", result.Stats.EncodeTime)

	if key != "" {
		r.store(ctx, key, data)
	}
	return result, nil
}

// RenderToFile executes req and writes the poster to path. The file is
// written to a temporary name in the same directory and renamed into place,
// so a failed render never leaves a partial poster behind.
func (r *Runner) RenderToFile(ctx context.Context, req Request, path string) (*Result, error) {
	if err := errors.ValidateOutputPath(path); err != nil {
		return nil, err
	}
	result, err := r.Execute(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := writeAtomic(path, result.Bytes); err != nil {
		return nil, err
	}
	return result, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func decodeInputs(artworkData, logoData []byte) (artwork, logo image.Image, err error) {
	artwork, err = imaging.Decode(bytes.NewReader(artworkData), imaging.AutoOrientation(true))
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeDecode, err, "decode artwork")
	}
	if len(logoData) > 0 {
		logo, err = imaging.Decode(bytes.NewReader(logoData), imaging.AutoOrientation(true))
		if err != nil {
			return nil, nil, errors.Wrap(errors.ErrCodeDecode, err, "decode logo")
		}
	}
	return artwork, logo, nil
}

// cacheKey hashes the raw inputs together with everything that shapes the
// output: metadata, options, settings and the library fingerprint, which
// covers the fonts, panel, overlay and badge images.
func (r *Runner) cacheKey(req Request, meta poster.Metadata, opts Options, settings poster.Settings) string {
	metaData, _ := json.Marshal(meta)
	inputHash := cache.HashParts(req.Artwork, req.Logo, metaData)

	env, _ := json.Marshal(struct {
		Settings poster.Settings
		Assets   string
	}{settings, r.Library.Fingerprint()})

	keyOpts := opts.PosterKeyOpts(meta.Badge)
	keyOpts.SettingsHash = cache.Hash(env)
	return r.Keyer.PosterKey(inputHash, keyOpts)
}

// lookup reads key from the cache. Cache errors are logged and reported as
// a miss.
func (r *Runner) lookup(ctx context.Context, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "err", errors.Wrap(errors.ErrCodeCache, err, "get"))
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, "poster")
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "poster")
	return data, true
}

func (r *Runner) store(ctx context.Context, key string, data []byte) {
	if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
		r.Logger.Warn("cache write failed", "err", errors.Wrap(errors.ErrCodeCache, err, "set"))
		return
	}
	observability.Cache().OnCacheSet(ctx, "poster", len(data))
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "create %s", dir)
	}
	tmp, err := os.CreateTemp(dir, ".marquee-*.jpg")
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "create temp file in %s", dir)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", path)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", path)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "chmod %s", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "rename to %s", path)
	}
	return nil
}
