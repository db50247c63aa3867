package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/marquee/pkg/config"
	"github.com/matzehuels/marquee/pkg/errors"
	"github.com/matzehuels/marquee/pkg/pipeline"
	"github.com/matzehuels/marquee/pkg/poster"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string // output file path; derived from the title when empty
	logo    string // optional logo image
	meta    string // optional JSON metadata file
	noCache bool   // bypass the render cache

	// Metadata flags override values from the JSON file.
	title    string
	year     int
	genres   string // comma-separated
	rating   float64
	runtime  int // minutes
	overview string
	badge    string

	// Layout flags override the config file.
	mode        string
	wrap        string
	position    string
	targetWidth int
	label       string
	quality     int
}

// renderCommand creates the render command for composing a poster.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [artwork]",
		Short: "Compose a poster from artwork and metadata",
		Long: `Compose a JPEG title poster.

The artwork is placed on the configured panel (--mode framed) or faded into
a blurred wash of its own colours (--mode ambient). A logo replaces the text
title when given. Metadata can come from flags, a JSON file (--meta), or both;
flags win.`,
		Example: `  marquee render backdrop.jpg --title Interstellar --year 2014 \
    --genres "Adventure,Drama,Science Fiction" --runtime 169 --rating 8.7 \
    --logo logo.png --badge jellyfin`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, err := buildMetadata(cmd, &opts)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], meta, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default <title>_<year>.jpg in output.dir)")
	cmd.Flags().StringVar(&opts.logo, "logo", "", "logo image drawn instead of the title")
	cmd.Flags().StringVar(&opts.meta, "meta", "", "JSON metadata file")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")

	cmd.Flags().StringVar(&opts.title, "title", "", "title")
	cmd.Flags().IntVar(&opts.year, "year", 0, "release year")
	cmd.Flags().StringVar(&opts.genres, "genres", "", "genres (comma-separated, first three are shown)")
	cmd.Flags().Float64Var(&opts.rating, "rating", 0, "IMDb rating")
	cmd.Flags().IntVar(&opts.runtime, "runtime", 0, "runtime in minutes")
	cmd.Flags().StringVar(&opts.overview, "overview", "", "summary paragraph")
	cmd.Flags().StringVar(&opts.badge, "badge", "", "footer badge name from assets.badges")

	cmd.Flags().StringVar(&opts.mode, "mode", "", "background mode: ambient, framed (default from config)")
	cmd.Flags().StringVar(&opts.wrap, "wrap", "", "summary wrap mode: pixels, chars (default from config)")
	cmd.Flags().StringVar(&opts.position, "position", "", "vignette fade corner, e.g. bottom-left (default from config)")
	cmd.Flags().IntVar(&opts.targetWidth, "target-width", 0, "ambient artwork width in pixels (default from config)")
	cmd.Flags().StringVar(&opts.label, "label", "", "footer label (default from config)")
	cmd.Flags().IntVar(&opts.quality, "quality", 0, "JPEG quality 1-100 (default from config)")

	c.registerRenderCompletions(cmd)
	return cmd
}

// buildMetadata merges the --meta file with the metadata flags. Only flags
// set on the command line override the file.
func buildMetadata(cmd *cobra.Command, opts *renderOpts) (poster.Metadata, error) {
	var meta poster.Metadata
	if opts.meta != "" {
		data, err := os.ReadFile(opts.meta)
		if err != nil {
			return meta, errors.Wrap(errors.ErrCodeInvalidInput, err, "read metadata %s", opts.meta)
		}
		if err := json.Unmarshal(data, &meta); err != nil {
			return meta, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse metadata %s", opts.meta)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("title") {
		meta.Title = opts.title
	}
	if flags.Changed("year") {
		meta.Year = opts.year
	}
	if flags.Changed("genres") {
		meta.Genres = splitList(opts.genres)
	}
	if flags.Changed("rating") {
		rating := opts.rating
		meta.Rating = &rating
	}
	if flags.Changed("runtime") {
		meta.Runtime = poster.FormatRuntime(opts.runtime)
	}
	if flags.Changed("overview") {
		meta.Overview = opts.overview
	}
	if flags.Changed("badge") {
		meta.Badge = opts.badge
	}
	return meta, nil
}

// splitList splits a comma-separated flag value, trimming spaces and
// dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// outputPath returns the explicit output path, or <title>_<year>.jpg in dir.
func outputPath(output, dir string, meta poster.Metadata) string {
	if output != "" {
		return output
	}
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, meta.OutputName())
}

// pipelineOptions combines the config defaults with the render flags.
func pipelineOptions(cfg *config.Config, opts *renderOpts) pipeline.Options {
	po := pipeline.Options{
		Background:  cfg.Output.Background,
		Label:       cfg.Output.Label,
		Quality:     cfg.Output.Quality,
		TargetWidth: opts.targetWidth,
		Position:    opts.position,
		NoCache:     opts.noCache,
	}
	if opts.mode != "" {
		po.Background = poster.BackgroundMode(opts.mode)
	}
	if opts.wrap != "" {
		po.Wrap = poster.WrapMode(opts.wrap)
	}
	if opts.label != "" {
		po.Label = opts.label
	}
	if opts.quality != 0 {
		po.Quality = opts.quality
	}
	return po
}

// runRender reads the inputs, runs the pipeline and writes the poster.
func (c *CLI) runRender(ctx context.Context, artworkPath string, meta poster.Metadata, opts *renderOpts) error {
	logger := loggerFromContext(ctx).With("title", meta.Title)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	artwork, err := os.ReadFile(artworkPath)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "read artwork %s", artworkPath)
	}
	var logo []byte
	if opts.logo != "" {
		if logo, err = os.ReadFile(opts.logo); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "read logo %s", opts.logo)
		}
	}

	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, "Loading assets...")
	spinner.Start()

	runner, err := c.newRunner(ctx, cfg, opts.noCache)
	if err != nil {
		spinner.StopWithError("Could not open the render cache")
		return err
	}
	defer runner.Close()
	prog.step("assets loaded")

	path := outputPath(opts.output, cfg.Output.Dir, meta)
	logger.Debug("rendering", "artwork", artworkPath, "output", path)
	spinner.Update("Composing " + posterName(meta) + "...")

	result, err := runner.RenderToFile(ctx, pipeline.Request{
		Artwork:  artwork,
		Logo:     logo,
		Metadata: meta,
		Options:  pipelineOptions(cfg, opts),
	}, path)
	if err != nil {
		spinner.StopWithError("Render failed")
		if spinner.Cancelled() {
			return ctx.Err()
		}
		logger.Debug("render failed", "code", errors.GetCode(err), "err", err)
		return fmt.Errorf("render %s: %w", artworkPath, err)
	}
	spinner.Stop()
	prog.done("Rendered " + filepath.Base(path))

	printSuccess("Poster ready")
	printFile(path)
	printStats(result.Stats, result.CacheHit)
	return nil
}

func posterName(meta poster.Metadata) string {
	if meta.Title == "" {
		return "poster"
	}
	return meta.Title
}
