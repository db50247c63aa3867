package poster

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/matzehuels/marquee/pkg/errors"
)

// BackgroundMode selects how the canvas is built from the artwork.
type BackgroundMode string

const (
	// BackgroundFramed places scaled artwork on a fixed panel image.
	BackgroundFramed BackgroundMode = "framed"
	// BackgroundAmbient builds a blurred colour wash from the artwork and
	// fades the sharp artwork into it.
	BackgroundAmbient BackgroundMode = "ambient"
)

// DefaultBackground is the mode Compose uses when Input.Background is empty.
const DefaultBackground = BackgroundAmbient

// WrapMode selects how the summary paragraph is broken into lines.
type WrapMode string

const (
	// WrapModePixels packs words by rendered width and caps the line count.
	WrapModePixels WrapMode = "pixels"
	// WrapModeChars shortens and wraps by character count.
	WrapModeChars WrapMode = "chars"
)

// Ellipsis marks truncated text.
const Ellipsis = "..."

// Settings holds every tunable used while composing a poster.
type Settings struct {
	Layout  LayoutSettings  `toml:"layout"`
	Framed  FramedSettings  `toml:"framed"`
	Ambient AmbientSettings `toml:"ambient"`
	Logo    LogoSettings    `toml:"logo"`
	Summary SummarySettings `toml:"summary"`
}

// LayoutSettings controls text placement and colour.
type LayoutSettings struct {
	OriginX       int    `toml:"origin_x"`
	OriginY       int    `toml:"origin_y"`
	Padding       int    `toml:"padding"`
	ShadowOffset  int    `toml:"shadow_offset"`
	TitleOffsetX  int    `toml:"title_offset_x"`
	TitleMaxChars int    `toml:"title_max_chars"`
	TagSeparator  string `toml:"tag_separator"`
	FooterGap     int    `toml:"footer_gap"`
	LineSpacing   int    `toml:"line_spacing"`
	TextColor     string `toml:"text_color"`
	ShadowColor   string `toml:"shadow_color"`
	TagColor      string `toml:"tag_color"`
}

// FramedSettings controls framed-mode artwork placement. The fallback size
// is used when no panel image is available.
type FramedSettings struct {
	ArtworkHeight  int `toml:"artwork_height"`
	ArtworkX       int `toml:"artwork_x"`
	ArtworkY       int `toml:"artwork_y"`
	FallbackWidth  int `toml:"fallback_width"`
	FallbackHeight int `toml:"fallback_height"`
}

// AmbientSettings controls the ambient colour wash.
type AmbientSettings struct {
	Width       int              `toml:"width"`
	Height      int              `toml:"height"`
	BlurRadius  float64          `toml:"blur_radius"`
	Dither      int              `toml:"dither"`
	Darken      float64          `toml:"darken"`
	TargetWidth int              `toml:"target_width"`
	Vignette    VignetteSettings `toml:"vignette"`
}

// VignetteSettings controls the alpha fade applied to the sharp artwork.
type VignetteSettings struct {
	FadeRatio float64 `toml:"fade_ratio"`
	FadePower float64 `toml:"fade_power"`
	Position  string  `toml:"position"`
	Blur      float64 `toml:"blur"`
}

// LogoSettings bounds logo size and sets the contrast threshold.
type LogoSettings struct {
	MaxWidth           int     `toml:"max_width"`
	MaxHeight          int     `toml:"max_height"`
	LuminanceThreshold float64 `toml:"luminance_threshold"`
}

// SummarySettings controls summary truncation and wrapping.
type SummarySettings struct {
	Wrap      WrapMode `toml:"wrap"`
	MaxChars  int      `toml:"max_chars"`
	LineChars int      `toml:"line_chars"`
	MaxWidth  int      `toml:"max_width"`
	MaxLines  int      `toml:"max_lines"`
}

// DefaultSettings returns the settings for a 3840x2160 poster.
func DefaultSettings() Settings {
	return Settings{
		Layout: LayoutSettings{
			OriginX:       210,
			OriginY:       200,
			Padding:       25,
			ShadowOffset:  2,
			TitleOffsetX:  -10,
			TitleMaxChars: 30,
			TagSeparator:  "  •  ",
			FooterGap:     15,
			LineSpacing:   4,
			TextColor:     "#ffffff",
			ShadowColor:   "#000000",
			TagColor:      "#ffffff",
		},
		Framed: FramedSettings{
			ArtworkHeight:  1500,
			ArtworkX:       1175,
			ArtworkY:       0,
			FallbackWidth:  3840,
			FallbackHeight: 2160,
		},
		Ambient: AmbientSettings{
			Width:       3840,
			Height:      2160,
			BlurRadius:  800,
			Dither:      16,
			Darken:      0.4,
			TargetWidth: 3000,
			Vignette: VignetteSettings{
				FadeRatio: 0.3,
				FadePower: 2.5,
				Position:  "bottom-left",
				Blur:      50,
			},
		},
		Logo: LogoSettings{
			MaxWidth:           1300,
			MaxHeight:          400,
			LuminanceThreshold: 100,
		},
		Summary: SummarySettings{
			Wrap:      WrapModePixels,
			MaxChars:  175,
			LineChars: 95,
			MaxWidth:  1800,
			MaxLines:  3,
		},
	}
}

const maxDimension = 16384

// Validate checks settings for values that would make rendering impossible.
func (s Settings) Validate() error {
	checks := []error{
		errors.ValidateDimension("framed.artwork_height", s.Framed.ArtworkHeight, 1, maxDimension),
		errors.ValidateDimension("framed.fallback_width", s.Framed.FallbackWidth, 1, maxDimension),
		errors.ValidateDimension("framed.fallback_height", s.Framed.FallbackHeight, 1, maxDimension),
		errors.ValidateDimension("ambient.width", s.Ambient.Width, 1, maxDimension),
		errors.ValidateDimension("ambient.height", s.Ambient.Height, 1, maxDimension),
		errors.ValidateDimension("ambient.target_width", s.Ambient.TargetWidth, 1, maxDimension),
		errors.ValidateRatio("ambient.darken", s.Ambient.Darken),
		errors.ValidateRatio("ambient.vignette.fade_ratio", s.Ambient.Vignette.FadeRatio),
		errors.ValidatePosition(s.Ambient.Vignette.Position),
		errors.ValidateDimension("logo.max_width", s.Logo.MaxWidth, 1, maxDimension),
		errors.ValidateDimension("logo.max_height", s.Logo.MaxHeight, 1, maxDimension),
		errors.ValidateDimension("summary.max_lines", s.Summary.MaxLines, 1, 100),
		errors.ValidateDimension("summary.max_chars", s.Summary.MaxChars, 1, 100000),
		errors.ValidateDimension("summary.line_chars", s.Summary.LineChars, 1, 100000),
		errors.ValidateDimension("summary.max_width", s.Summary.MaxWidth, 1, maxDimension),
	}
	for _, err := range checks {
		if err != nil {
			return err
		}
	}

	if s.Ambient.BlurRadius < 0 || s.Ambient.Vignette.Blur < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "blur radius cannot be negative")
	}
	if s.Ambient.Dither < 0 || s.Ambient.Dither > 255 {
		return errors.New(errors.ErrCodeInvalidInput, "ambient.dither must be between 0 and 255, got %d", s.Ambient.Dither)
	}
	if s.Ambient.Vignette.FadePower <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "ambient.vignette.fade_power must be positive")
	}
	if s.Logo.LuminanceThreshold < 0 || s.Logo.LuminanceThreshold > 255 {
		return errors.New(errors.ErrCodeInvalidInput, "logo.luminance_threshold must be between 0 and 255")
	}
	if err := ValidateWrapMode(s.Summary.Wrap); err != nil {
		return err
	}
	for name, c := range map[string]string{
		"layout.text_color":   s.Layout.TextColor,
		"layout.shadow_color": s.Layout.ShadowColor,
		"layout.tag_color":    s.Layout.TagColor,
	} {
		if _, err := ParseHexColor(c); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "%s", name)
		}
	}
	return nil
}

// ValidateBackgroundMode checks that m names a known background mode.
func ValidateBackgroundMode(m BackgroundMode) error {
	switch m {
	case BackgroundFramed, BackgroundAmbient:
		return nil
	}
	return errors.New(errors.ErrCodeInvalidInput, "invalid background mode: %q (must be framed or ambient)", m)
}

// ValidateWrapMode checks that m names a known wrap mode.
func ValidateWrapMode(m WrapMode) error {
	switch m {
	case WrapModePixels, WrapModeChars:
		return nil
	}
	return errors.New(errors.ErrCodeInvalidInput, "invalid wrap mode: %q (must be pixels or chars)", m)
}

// ParseHexColor parses "#rgb", "#rrggbb" or "#rrggbbaa".
func ParseHexColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q", s)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

func mustColor(s string, fallback color.NRGBA) color.NRGBA {
	c, err := ParseHexColor(s)
	if err != nil {
		return fallback
	}
	return c
}
