package poster

import (
	"image"
	"image/color"
	"testing"

	"github.com/matzehuels/marquee/pkg/assets"
	"github.com/matzehuels/marquee/pkg/errors"
)

func TestVignetteMaskBottomLeft(t *testing.T) {
	v := VignetteSettings{FadeRatio: 0.3, FadePower: 2.5, Position: "bottom-left"}
	m := VignetteMask(100, 50, v)

	tests := []struct {
		name string
		x, y int
		want func(uint8) bool
	}{
		{"left edge transparent", 0, 10, func(a uint8) bool { return a == 0 }},
		{"top-right opaque", 99, 0, func(a uint8) bool { return a == 255 }},
		{"interior opaque", 60, 20, func(a uint8) bool { return a == 255 }},
		{"bottom edge faded", 60, 49, func(a uint8) bool { return a < 10 }},
		{"inside ramp partial", 15, 20, func(a uint8) bool { return a > 0 && a < 255 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if a := m.GrayAt(tt.x, tt.y).Y; !tt.want(a) {
				t.Errorf("alpha at (%d,%d) = %d", tt.x, tt.y, a)
			}
		})
	}
}

func TestVignetteMaskMonotonicRamp(t *testing.T) {
	v := VignetteSettings{FadeRatio: 0.5, FadePower: 2.5, Position: "left"}
	m := VignetteMask(80, 4, v)
	prev := uint8(0)
	for x := 0; x < 80; x++ {
		a := m.GrayAt(x, 2).Y
		if a < prev {
			t.Fatalf("alpha decreases at x=%d: %d < %d", x, a, prev)
		}
		prev = a
	}
}

func TestVignetteMaskBlurSoftensEdge(t *testing.T) {
	v := VignetteSettings{FadeRatio: 0.1, FadePower: 1, Position: "right"}
	hard := VignetteMask(200, 20, v)
	v.Blur = 6
	soft := VignetteMask(200, 20, v)

	if hard.Bounds() != soft.Bounds() {
		t.Fatalf("blurred bounds = %v, want %v", soft.Bounds(), hard.Bounds())
	}
	if soft.GrayAt(199, 10).Y <= hard.GrayAt(199, 10).Y {
		t.Error("blur should lift the fully faded edge")
	}
}

func TestEdgeAlign(t *testing.T) {
	tests := []struct {
		pos          string
		wantX, wantY int
	}{
		{"bottom-left", 100, 0},
		{"bottom-right", 0, 0},
		{"top-left", 100, 60},
		{"top-right", 0, 60},
		{"left", 100, 0},
		{"top", 100, 60},
	}
	for _, tt := range tests {
		t.Run(tt.pos, func(t *testing.T) {
			x, y := EdgeAlign(tt.pos, 400, 200, 300, 140)
			if x != tt.wantX || y != tt.wantY {
				t.Errorf("EdgeAlign(%s) = (%d, %d), want (%d, %d)", tt.pos, x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestCreateColorCanvasUniformArtwork(t *testing.T) {
	s := newTestSession(t)
	if err := s.CreateColorCanvas(solid(320, 180, color.NRGBA{R: 90, G: 60, B: 140, A: 255}), 0); err != nil {
		t.Fatalf("CreateColorCanvas: %v", err)
	}

	img := s.Image()
	if sz := img.Bounds().Size(); sz != image.Pt(192, 108) {
		t.Errorf("canvas size = %v, want 192x108", sz)
	}
	if sd := StdDev(img); sd <= 1 {
		t.Errorf("StdDev = %v, want > 1 for dithered, vignetted canvas", sd)
	}
	if s.Mode() != BackgroundAmbient {
		t.Errorf("Mode() = %q, want %q", s.Mode(), BackgroundAmbient)
	}
}

func TestAmbientWashDarkens(t *testing.T) {
	a := smallSettings().Ambient
	wash := AmbientWash(solid(64, 36, color.NRGBA{R: 200, G: 200, B: 200, A: 255}), a)

	lum, _ := Luminance(wash)
	// 200 * 0.4 = 80, dither adds at most 16 * 0.4.
	if lum < 70 || lum > 90 {
		t.Errorf("wash luminance = %v, want about 80", lum)
	}
	if wash.Pix[3] != 255 {
		t.Errorf("wash alpha = %d, want opaque", wash.Pix[3])
	}
}

func TestCreateCanvasFallback(t *testing.T) {
	s := newTestSession(t)
	if err := s.CreateCanvas(solid(160, 100, navy)); err != nil {
		t.Fatalf("CreateCanvas: %v", err)
	}
	if sz := s.Image().Bounds().Size(); sz != image.Pt(480, 270) {
		t.Errorf("canvas size = %v, want fallback 480x270", sz)
	}
	if s.Mode() != BackgroundFramed {
		t.Errorf("Mode() = %q, want %q", s.Mode(), BackgroundFramed)
	}
}

func TestCreateCanvasUsesPanel(t *testing.T) {
	panel := solid(500, 300, color.NRGBA{R: 30, G: 30, B: 30, A: 255})
	overlay := solid(10, 10, color.NRGBA{R: 250, A: 255})
	lib := assets.New(smallFonts(), panel, overlay, nil)
	s := NewSession(lib, smallSettings(), nil)

	if err := s.CreateCanvas(solid(320, 400, navy)); err != nil {
		t.Fatalf("CreateCanvas: %v", err)
	}
	img := s.Image()
	if sz := img.Bounds().Size(); sz != image.Pt(500, 300) {
		t.Errorf("canvas size = %v, want panel size 500x300", sz)
	}

	// Overlay sits at the artwork offset, artwork just beside it, panel left.
	checks := []struct {
		name string
		x, y int
		want color.NRGBA
	}{
		{"panel", 10, 10, color.NRGBA{30, 30, 30, 255}},
		{"overlay", 305, 5, color.NRGBA{250, 0, 0, 255}},
		{"artwork", 330, 100, navy},
	}
	for _, c := range checks {
		r, g, b, a := img.At(c.x, c.y).RGBA()
		got := color.NRGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}
		if got != c.want {
			t.Errorf("%s pixel = %v, want %v", c.name, got, c.want)
		}
	}

	r, _, _, _ := panel.At(0, 0).RGBA()
	if uint8(r>>8) != 30 {
		t.Error("panel image was modified")
	}
}

func TestCanvasResetsCursor(t *testing.T) {
	s := newTestSession(t)
	art := solid(160, 100, navy)
	origin := smallSettings().Layout.OriginY

	builders := []struct {
		name   string
		create func() error
	}{
		{"framed", func() error { return s.CreateCanvas(art) }},
		{"ambient", func() error { return s.CreateColorCanvas(art, 120) }},
		{"framed again", func() error { return s.CreateCanvas(art) }},
	}
	for _, b := range builders {
		if err := b.create(); err != nil {
			t.Fatalf("%s: %v", b.name, err)
		}
		if got := s.Cursor().Y; got != origin {
			t.Errorf("%s: cursor Y = %d, want %d", b.name, got, origin)
		}
		if len(s.Blocks()) != 0 {
			t.Errorf("%s: blocks not cleared", b.name)
		}

		if err := s.DrawLogoOrTitle(nil, "Interstellar"); err != nil {
			t.Fatal(err)
		}
		if err := s.DrawSummary(overview); err != nil {
			t.Fatal(err)
		}
		if s.Cursor().Y <= origin {
			t.Errorf("%s: cursor did not advance", b.name)
		}
	}
}

func TestDrawWithoutCanvas(t *testing.T) {
	s := newTestSession(t)
	err := s.DrawLogoOrTitle(nil, "Interstellar")
	if !errors.Is(err, errors.ErrCodeInternal) {
		t.Errorf("DrawLogoOrTitle before canvas = %v, want %v", err, errors.ErrCodeInternal)
	}
	if _, err := s.Bytes(0); err == nil {
		t.Error("Bytes before canvas should fail")
	}
}

func TestCreateCanvasNilArtwork(t *testing.T) {
	s := newTestSession(t)
	if err := s.CreateCanvas(nil); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("CreateCanvas(nil) = %v, want %v", err, errors.ErrCodeInvalidInput)
	}
	if err := s.CreateColorCanvas(nil, 100); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("CreateColorCanvas(nil) = %v, want %v", err, errors.ErrCodeInvalidInput)
	}
}
