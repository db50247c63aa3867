package cli

import (
	"bytes"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/marquee/pkg/config"
	"github.com/matzehuels/marquee/pkg/errors"
	"github.com/matzehuels/marquee/pkg/poster"
)

func TestSplitList(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"single", "Drama", []string{"Drama"}},
		{"trims spaces", "Adventure, Drama ,Science Fiction", []string{"Adventure", "Drama", "Science Fiction"}},
		{"drops empty items", "Drama,,  ,Thriller,", []string{"Drama", "Thriller"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := splitList(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitList(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestBuildMetadataFlags(t *testing.T) {
	c := New(io.Discard, LogInfo)
	cmd := c.renderCommand()
	if err := cmd.ParseFlags([]string{
		"--title", "Interstellar", "--year", "2014", "--genres", "Adventure, Drama",
		"--rating", "8.7", "--runtime", "169", "--badge", "jellyfin",
	}); err != nil {
		t.Fatal(err)
	}

	var opts renderOpts
	mustFlag(t, cmd.Flags().GetString, "title", &opts.title)
	mustFlag(t, cmd.Flags().GetString, "genres", &opts.genres)
	mustFlag(t, cmd.Flags().GetString, "badge", &opts.badge)
	opts.year, _ = cmd.Flags().GetInt("year")
	opts.runtime, _ = cmd.Flags().GetInt("runtime")
	opts.rating, _ = cmd.Flags().GetFloat64("rating")

	meta, err := buildMetadata(cmd, &opts)
	if err != nil {
		t.Fatalf("buildMetadata() error: %v", err)
	}
	if meta.Title != "Interstellar" || meta.Year != 2014 || meta.Badge != "jellyfin" {
		t.Errorf("buildMetadata() = %+v", meta)
	}
	if !reflect.DeepEqual(meta.Genres, []string{"Adventure", "Drama"}) {
		t.Errorf("Genres = %q", meta.Genres)
	}
	if meta.Runtime != "2h 49min" {
		t.Errorf("Runtime = %q, want %q", meta.Runtime, "2h 49min")
	}
	if meta.Rating == nil || *meta.Rating != 8.7 {
		t.Errorf("Rating = %v, want 8.7", meta.Rating)
	}
}

func mustFlag(t *testing.T, get func(string) (string, error), name string, dst *string) {
	t.Helper()
	v, err := get(name)
	if err != nil {
		t.Fatal(err)
	}
	*dst = v
}

func TestBuildMetadataFileWithOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meta.json")
	writeFile(t, path, `{"title":"Arrival","year":2016,"genres":["Drama"],"overview":"Linguists."}`)

	c := New(io.Discard, LogInfo)
	cmd := c.renderCommand()
	if err := cmd.ParseFlags([]string{"--year", "2017"}); err != nil {
		t.Fatal(err)
	}

	opts := renderOpts{meta: path, year: 2017}
	meta, err := buildMetadata(cmd, &opts)
	if err != nil {
		t.Fatalf("buildMetadata() error: %v", err)
	}
	if meta.Title != "Arrival" || meta.Overview != "Linguists." {
		t.Errorf("file values lost: %+v", meta)
	}
	if meta.Year != 2017 {
		t.Errorf("Year = %d, want the flag value 2017", meta.Year)
	}
	if meta.Rating != nil {
		t.Errorf("Rating = %v, unset flags must not override the file", *meta.Rating)
	}
}

func TestBuildMetadataErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	writeFile(t, bad, `{"title":`)

	tests := []struct {
		name string
		meta string
	}{
		{"missing file", filepath.Join(dir, "missing.json")},
		{"invalid json", bad},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := New(io.Discard, LogInfo).renderCommand()
			_, err := buildMetadata(cmd, &renderOpts{meta: tt.meta})
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("buildMetadata() error = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	meta := poster.Metadata{Title: "Blade Runner 2049", Year: 2017}

	tests := []struct {
		name   string
		output string
		dir    string
		want   string
	}{
		{"explicit", "out/poster.jpg", "posters", "out/poster.jpg"},
		{"derived in dir", "", "posters", filepath.Join("posters", "Blade_Runner_2049_2017.jpg")},
		{"derived in cwd", "", "", "Blade_Runner_2049_2017.jpg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outputPath(tt.output, tt.dir, meta); got != tt.want {
				t.Errorf("outputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPipelineOptions(t *testing.T) {
	cfg := config.Default()
	cfg.Output.Label = "Now Streaming"
	cfg.Output.Quality = 85

	got := pipelineOptions(cfg, &renderOpts{})
	if got.Background != cfg.Output.Background || got.Label != "Now Streaming" || got.Quality != 85 {
		t.Errorf("config defaults not applied: %+v", got)
	}

	got = pipelineOptions(cfg, &renderOpts{
		mode: "framed", wrap: "chars", label: "Coming Soon", quality: 70,
		position: "top-right", targetWidth: 1200, noCache: true,
	})
	if got.Background != poster.BackgroundFramed || got.Wrap != poster.WrapModeChars {
		t.Errorf("mode flags not applied: %+v", got)
	}
	if got.Label != "Coming Soon" || got.Quality != 70 {
		t.Errorf("output flags not applied: %+v", got)
	}
	if got.Position != "top-right" || got.TargetWidth != 1200 || !got.NoCache {
		t.Errorf("layout flags not applied: %+v", got)
	}
}

// =============================================================================
// End to end
// =============================================================================

// writeTestConfig writes a config that renders small posters without a
// cache, and returns its path.
func writeTestConfig(t *testing.T, dir string) string {
	t.Helper()
	cfg := config.Default()
	cfg.Fonts.Title.Size = 40
	cfg.Fonts.Info.Size = 16
	cfg.Fonts.Summary.Size = 14
	cfg.Fonts.Footer.Size = 16
	cfg.Layout.OriginX = 40
	cfg.Layout.OriginY = 30
	cfg.Layout.Padding = 10
	cfg.Framed = poster.FramedSettings{ArtworkHeight: 200, ArtworkX: 300, FallbackWidth: 480, FallbackHeight: 270}
	cfg.Ambient.Width = 192
	cfg.Ambient.Height = 108
	cfg.Ambient.BlurRadius = 40
	cfg.Ambient.TargetWidth = 150
	cfg.Ambient.Vignette.Blur = 3
	cfg.Logo.MaxWidth = 200
	cfg.Logo.MaxHeight = 60
	cfg.Summary.MaxWidth = 300
	cfg.Cache.Backend = config.CacheNone
	cfg.Output.Dir = dir

	var buf bytes.Buffer
	if err := cfg.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "config.toml")
	writeFile(t, path, buf.String())
	return path
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTestConfig(t, dir)

	artwork := filepath.Join(dir, "backdrop.png")
	if err := imaging.Save(imaging.New(320, 180, color.NRGBA{200, 120, 40, 255}), artwork); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"explicit output", []string{"--mode", "framed", "-o", filepath.Join(dir, "framed.jpg")}, filepath.Join(dir, "framed.jpg")},
		{"derived output", []string{"--mode", "ambient", "--year", "2014"}, filepath.Join(dir, "Interstellar_2014.jpg")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := New(io.Discard, LogInfo).RootCommand()
			args := append([]string{"--config", cfgPath, "render", artwork, "--title", "Interstellar"}, tt.args...)
			root.SetArgs(args)
			root.SetOut(io.Discard)
			root.SetErr(io.Discard)

			if err := root.Execute(); err != nil {
				t.Fatalf("render failed: %v", err)
			}
			img, err := imaging.Open(tt.want)
			if err != nil {
				t.Fatalf("poster not written: %v", err)
			}
			if img.Bounds().Dx() == 0 {
				t.Error("poster is empty")
			}
		})
	}
}

func TestRenderCommandErrors(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTestConfig(t, dir)

	notAnImage := filepath.Join(dir, "notes.txt")
	writeFile(t, notAnImage, "not an image")

	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"missing artwork", []string{"render", filepath.Join(dir, "missing.png")}, errors.ErrCodeInvalidInput},
		{"undecodable artwork", []string{"render", notAnImage}, errors.ErrCodeDecode},
		{"bad output extension", []string{"render", notAnImage, "-o", filepath.Join(dir, "poster.png")}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := New(io.Discard, LogInfo).RootCommand()
			root.SetArgs(append([]string{"--config", cfgPath}, tt.args...))
			root.SetOut(io.Discard)
			root.SetErr(io.Discard)

			err := root.Execute()
			if !errors.Is(err, tt.code) {
				t.Errorf("Execute() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestConfigCommand(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTestConfig(t, dir)

	root := New(io.Discard, LogInfo).RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--config", cfgPath, "config"})
	if err := root.Execute(); err != nil {
		t.Fatalf("config failed: %v", err)
	}

	cfg, err := config.Parse(out.Bytes())
	if err != nil {
		t.Fatalf("config output does not parse: %v\n%s", err, out.String())
	}
	if cfg.Cache.Backend != config.CacheNone || cfg.Ambient.Width != 192 {
		t.Errorf("config output does not reflect the file: %+v", cfg.Cache)
	}
}

func TestCachePathCommand(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTestConfig(t, dir)

	root := New(io.Discard, LogInfo).RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--config", cfgPath, "cache", "path"})
	if err := root.Execute(); err != nil {
		t.Fatalf("cache path failed: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "none" {
		t.Errorf("cache path = %q, want %q", got, "none")
	}
}

func TestRenderFlagCompletion(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTestConfig(t, dir)

	c := New(io.Discard, LogInfo)
	c.configPath = cfgPath
	cmd := c.renderCommand()

	tests := []struct {
		flag string
		want string
	}{
		{"mode", "framed"},
		{"wrap", "pixels"},
		{"position", "bottom-left"},
	}
	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			fn, ok := cmd.GetFlagCompletionFunc(tt.flag)
			if !ok {
				t.Fatalf("no completion registered for --%s", tt.flag)
			}
			values, _ := fn(cmd, nil, "")
			found := false
			for _, v := range values {
				found = found || v == tt.want
			}
			if !found {
				t.Errorf("--%s completions %q should include %q", tt.flag, values, tt.want)
			}
		})
	}
}

func TestCacheClearDisabled(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTestConfig(t, dir)

	root := New(io.Discard, LogInfo).RootCommand()
	root.SetArgs([]string{"--config", cfgPath, "cache", "clear"})
	root.SetOut(io.Discard)
	if err := root.Execute(); err != nil {
		t.Errorf("cache clear with caching off should succeed: %v", err)
	}
}

func TestCacheClearFile(t *testing.T) {
	dir := t.TempDir()
	cacheDir := filepath.Join(dir, "cache")

	cfg := config.Default()
	cfg.Cache.Dir = cacheDir
	var buf bytes.Buffer
	if err := cfg.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(dir, "config.toml")
	writeFile(t, cfgPath, buf.String())

	if err := os.MkdirAll(filepath.Join(cacheDir, "ab"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(cacheDir, "ab", "entry"), "stale")

	root := New(io.Discard, LogInfo).RootCommand()
	root.SetArgs([]string{"--config", cfgPath, "cache", "clear"})
	root.SetOut(io.Discard)
	if err := root.Execute(); err != nil {
		t.Fatalf("cache clear failed: %v", err)
	}
	entries, _ := os.ReadDir(cacheDir)
	if len(entries) != 0 {
		t.Errorf("cache dir still has %d entries after clear", len(entries))
	}
}
