// Package pipeline provides the poster rendering pipeline for marquee.
//
// This package implements the complete decode → compose → encode pipeline
// used by the CLI. By centralizing this logic, every entry point gets the
// same caching, logging and validation.
//
// # Architecture
//
// A render consists of four stages:
//
//  1. Decode: Parse the artwork and optional logo bytes into images
//  2. Lookup: Check the render cache for an identical request
//  3. Compose: Build the background and lay out text on a [poster.Session]
//  4. Encode: Flatten to JPEG and store the bytes in the cache
//
// # Usage
//
//	runner := pipeline.NewRunner(lib, settings, cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Request{
//	    Artwork:  artworkBytes,
//	    Logo:     logoBytes,
//	    Metadata: meta,
//	    Options:  pipeline.Options{Background: poster.BackgroundAmbient},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("poster.jpg", result.Bytes, 0644)
package pipeline

import (
	"time"

	"github.com/matzehuels/marquee/pkg/cache"
	"github.com/matzehuels/marquee/pkg/errors"
	"github.com/matzehuels/marquee/pkg/poster"
)

// =============================================================================
// Default Values - Single Source of Truth for the CLI and library callers
// =============================================================================

const (
	// DefaultBackground is the background mode used when none is given.
	DefaultBackground = poster.DefaultBackground

	// DefaultQuality is the JPEG quality used when none is given.
	DefaultQuality = poster.DefaultQuality

	// MaxTargetWidth bounds the ambient artwork width.
	MaxTargetWidth = 8192
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options are the per-request render choices. Zero values fall back to the
// runner's settings.
type Options struct {
	Background  poster.BackgroundMode `json:"background,omitempty"`
	Wrap        poster.WrapMode       `json:"wrap,omitempty"`
	TargetWidth int                   `json:"target_width,omitempty"`
	Position    string                `json:"position,omitempty"` // vignette fade corner or edge
	Label       string                `json:"label,omitempty"`
	Badge       string                `json:"badge,omitempty"` // overrides Metadata.Badge
	Quality     int                   `json:"quality,omitempty"`
	NoCache     bool                  `json:"no_cache,omitempty"`
}

// Request is one poster to render.
type Request struct {
	Artwork  []byte
	Logo     []byte
	Metadata poster.Metadata
	Options  Options
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Bytes is the encoded JPEG.
	Bytes []byte

	// RenderID identifies the session that produced Bytes. It is empty on a
	// cache hit.
	RenderID string

	// CacheHit reports whether Bytes came from the cache.
	CacheHit bool

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Width       int
	Height      int
	Size        int
	DecodeTime  time.Duration
	ComposeTime time.Duration
	EncodeTime  time.Duration
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults fills unset options from settings.
func (o *Options) SetDefaults(s poster.Settings) {
	if o.Background == "" {
		o.Background = DefaultBackground
	}
	if o.Wrap == "" {
		o.Wrap = s.Summary.Wrap
	}
	if o.TargetWidth == 0 {
		o.TargetWidth = s.Ambient.TargetWidth
	}
	if o.Position == "" {
		o.Position = s.Ambient.Vignette.Position
	}
	if o.Label == "" {
		o.Label = poster.DefaultLabel
	}
	if o.Quality == 0 {
		o.Quality = DefaultQuality
	}
}

// Validate checks option values. Call SetDefaults first.
func (o *Options) Validate() error {
	if err := poster.ValidateBackgroundMode(o.Background); err != nil {
		return err
	}
	if err := poster.ValidateWrapMode(o.Wrap); err != nil {
		return err
	}
	if err := errors.ValidateDimension("target width", o.TargetWidth, 1, MaxTargetWidth); err != nil {
		return err
	}
	if err := errors.ValidatePosition(o.Position); err != nil {
		return err
	}
	return errors.ValidateDimension("quality", o.Quality, 1, 100)
}

// Apply returns settings with the option overrides applied.
func (o *Options) Apply(s poster.Settings) poster.Settings {
	s.Summary.Wrap = o.Wrap
	s.Ambient.Vignette.Position = o.Position
	return s
}

// PosterKeyOpts returns cache key options for the request.
func (o *Options) PosterKeyOpts(badge string) cache.PosterKeyOpts {
	return cache.PosterKeyOpts{
		Background:  string(o.Background),
		Wrap:        string(o.Wrap),
		TargetWidth: o.TargetWidth,
		Position:    o.Position,
		Label:       o.Label,
		Badge:       badge,
		Quality:     o.Quality,
	}
}
