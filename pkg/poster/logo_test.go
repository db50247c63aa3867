package poster

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/disintegration/imaging"
)

func TestEnsureHighContrastDark(t *testing.T) {
	logo := logoWithBorder(30, 10, 5, navy)
	// Partially transparent edge pixel.
	logo.SetNRGBA(4, 4, color.NRGBA{R: 5, G: 5, B: 5, A: 90})
	before := imaging.Clone(logo)

	got := imaging.Clone(EnsureHighContrast(logo, 100))

	for i := 0; i < len(got.Pix); i += 4 {
		if got.Pix[i+3] != before.Pix[i+3] {
			t.Fatalf("alpha at byte %d = %d, want %d", i+3, got.Pix[i+3], before.Pix[i+3])
		}
		if got.Pix[i+3] == 0 {
			continue
		}
		if got.Pix[i] != 255 || got.Pix[i+1] != 255 || got.Pix[i+2] != 255 {
			t.Fatalf("visible pixel at byte %d = %v, want white", i, got.Pix[i:i+3])
		}
	}

	for i := range logo.Pix {
		if logo.Pix[i] != before.Pix[i] {
			t.Fatal("input image was modified")
		}
	}
}

func TestEnsureHighContrastBright(t *testing.T) {
	logo := logoWithBorder(30, 10, 2, color.NRGBA{R: 240, G: 200, B: 30, A: 255})
	if got := EnsureHighContrast(logo, 100); got != image.Image(logo) {
		t.Error("bright logo should be returned unchanged")
	}
}

func TestEnsureHighContrastTransparent(t *testing.T) {
	logo := solid(10, 10, color.Transparent)
	if got := EnsureHighContrast(logo, 100); got != image.Image(logo) {
		t.Error("fully transparent logo should be returned unchanged")
	}
}

func TestLuminance(t *testing.T) {
	tests := []struct {
		name string
		c    color.NRGBA
		want float64
	}{
		{"white", color.NRGBA{255, 255, 255, 255}, 255},
		{"black", color.NRGBA{0, 0, 0, 255}, 0},
		{"red", color.NRGBA{255, 0, 0, 255}, 0.299 * 255},
		{"green ignores alpha weight", color.NRGBA{0, 255, 0, 10}, 0.587 * 255},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Luminance(solid(4, 4, tt.c))
			if !ok {
				t.Fatal("Luminance ok = false")
			}
			if math.Abs(got-tt.want) > 0.01 {
				t.Errorf("Luminance = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAutoCrop(t *testing.T) {
	logo := logoWithBorder(30, 10, 7, navy)
	got := AutoCrop(logo)
	if sz := got.Bounds().Size(); sz != image.Pt(30, 10) {
		t.Errorf("AutoCrop size = %v, want 30x10", sz)
	}

	empty := solid(8, 8, color.Transparent)
	if got := AutoCrop(empty); got != image.Image(empty) {
		t.Error("AutoCrop of transparent image should return it unchanged")
	}
}

func TestSmartResizeWideLogo(t *testing.T) {
	logo := logoWithBorder(300, 100, 20, navy)

	got := SmartResize(EnsureHighContrast(logo, 100), 1200, 450)
	w, h := got.Bounds().Dx(), got.Bounds().Dy()

	if w > 1200 {
		t.Errorf("width = %d, want <= 1200", w)
	}
	if h > 450 {
		t.Errorf("height = %d, want <= 450", h)
	}
	if ratio := float64(w) / float64(h); math.Abs(ratio-3) > 0.02 {
		t.Errorf("aspect = %v, want ~3", ratio)
	}
}

func TestSmartResizeAspectClasses(t *testing.T) {
	tests := []struct {
		name      string
		w, h      int
		wantMaxH  float64
		wantRatio float64
	}{
		{"tall", 100, 200, 450 * 0.6, 0.5},
		{"square", 100, 100, 450 * 0.75, 1},
		{"slightly wide", 110, 100, 450 * 0.75, 1.1},
		{"wide", 400, 100, 450, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SmartResize(solid(tt.w, tt.h, navy), 1200, 450)
			w, h := got.Bounds().Dx(), got.Bounds().Dy()
			if w > 1200 {
				t.Errorf("width = %d, want <= 1200", w)
			}
			if float64(h) > tt.wantMaxH {
				t.Errorf("height = %d, want <= %v", h, tt.wantMaxH)
			}
			// One pixel of rounding on either side.
			ratio := float64(w) / float64(h)
			tol := float64(w+1)/float64(h-1) - float64(w)/float64(h)
			if math.Abs(ratio-tt.wantRatio) > tol {
				t.Errorf("aspect = %v, want %v (tol %v)", ratio, tt.wantRatio, tol)
			}
		})
	}
}

func TestSmartResizeTinyLogo(t *testing.T) {
	got := SmartResize(solid(2000, 1, navy), 100, 100)
	if got.Bounds().Dy() < 1 || got.Bounds().Dx() > 100 {
		t.Errorf("size = %v, want at least 1px high and <= 100 wide", got.Bounds().Size())
	}
}
