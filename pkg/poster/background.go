package poster

import (
	"image"
	"image/color"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	xdraw "golang.org/x/image/draw"

	"github.com/matzehuels/marquee/pkg/errors"
)

// maxDirectSigma is the largest Gaussian sigma applied at full resolution.
// Larger blurs run on a proportionally downsampled image that is scaled
// back up afterwards.
const maxDirectSigma = 25

// uniformStdDev is the wash standard deviation below which the artwork is
// considered a flat colour.
const uniformStdDev = 15

var fallbackPanel = color.NRGBA{R: 20, G: 20, B: 20, A: 255}

// CreateCanvas builds a framed canvas: a copy of the panel image with the
// artwork scaled to the configured height and the overlay composited at the
// same offset. Without a panel a solid dark canvas of the fallback size is
// used. The layout cursor is reset to the origin.
func (s *Session) CreateCanvas(artwork image.Image) error {
	if artwork == nil {
		return errors.New(errors.ErrCodeInvalidInput, "artwork is required")
	}
	f := s.settings.Framed

	var dc *gg.Context
	if panel := s.lib.Panel(); panel != nil {
		b := panel.Bounds()
		dc = gg.NewContext(b.Dx(), b.Dy())
		dc.DrawImage(panel, -b.Min.X, -b.Min.Y)
	} else {
		s.logger.Warn("panel unavailable, using solid background")
		dc = gg.NewContext(f.FallbackWidth, f.FallbackHeight)
		dc.SetColor(fallbackPanel)
		dc.Clear()
	}

	art := imaging.Resize(artwork, 0, f.ArtworkHeight, imaging.Lanczos)
	dc.DrawImage(art, f.ArtworkX, f.ArtworkY)

	if overlay := s.lib.Overlay(); overlay != nil {
		dc.DrawImage(overlay, f.ArtworkX, f.ArtworkY)
	}

	s.begin(dc, BackgroundFramed)
	return nil
}

// CreateColorCanvas builds an ambient canvas: a blurred, dithered and
// darkened wash of the artwork with a vignette-faded copy of the artwork,
// targetWidth pixels wide, pasted against the edges opposite the fade.
// A non-positive targetWidth selects the configured default. The layout
// cursor is reset to the origin.
func (s *Session) CreateColorCanvas(artwork image.Image, targetWidth int) error {
	if artwork == nil {
		return errors.New(errors.ErrCodeInvalidInput, "artwork is required")
	}
	a := s.settings.Ambient
	if targetWidth <= 0 {
		targetWidth = a.TargetWidth
	}

	wash := AmbientWash(artwork, a)
	if sd := StdDev(wash); sd < uniformStdDev {
		s.logger.Debug("artwork is near uniform", "stddev", sd)
	}

	dc := gg.NewContext(a.Width, a.Height)
	dc.DrawImage(wash, 0, 0)

	art := imaging.Resize(artwork, targetWidth, 0, imaging.Lanczos)
	w, h := art.Bounds().Dx(), art.Bounds().Dy()
	mask := VignetteMask(w, h, a.Vignette)

	x, y := EdgeAlign(a.Vignette.Position, a.Width, a.Height, w, h)
	dst := dc.Image().(*image.RGBA)
	r := image.Rect(x, y, x+w, y+h)
	xdraw.DrawMask(dst, r, art, image.Point{}, mask, image.Point{}, xdraw.Over)

	s.begin(dc, BackgroundAmbient)
	return nil
}

// AmbientWash scales artwork to the working size, blurs it, adds dither
// noise and darkens it. The noise source is seeded per call.
func AmbientWash(artwork image.Image, a AmbientSettings) *image.NRGBA {
	wash := blurredResize(artwork, a.Width, a.Height, a.BlurRadius)
	ditherAndDarken(wash, a.Dither, a.Darken)
	return wash
}

// blurredResize resizes src to w x h and applies a Gaussian blur of the
// given sigma, measured in output pixels.
func blurredResize(src image.Image, w, h int, sigma float64) *image.NRGBA {
	k := 1
	if sigma > maxDirectSigma {
		k = int(math.Ceil(sigma / maxDirectSigma))
	}
	sw, sh := max(1, w/k), max(1, h/k)

	small := imaging.Resize(src, sw, sh, imaging.Box)
	if sigma > 0 {
		small = imaging.Blur(small, sigma/float64(k))
	}
	if sw == w && sh == h {
		return small
	}
	return imaging.Resize(small, w, h, imaging.Linear)
}

func ditherAndDarken(img *image.NRGBA, amplitude int, factor float64) {
	rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	span := 2*amplitude + 1
	for i := 0; i+3 < len(img.Pix); i += 4 {
		for c := 0; c < 3; c++ {
			v := int(img.Pix[i+c])
			if amplitude > 0 {
				v += rng.IntN(span) - amplitude
			}
			img.Pix[i+c] = uint8(float64(clamp(v, 0, 255)) * factor)
		}
		img.Pix[i+3] = 255
	}
}

// VignetteMask builds a w x h alpha mask that fades toward the edges named
// in v.Position. Along each faded axis the alpha ramps linearly from 0 at the
// edge to 1 at FadeRatio of the dimension; with two axes the smaller ramp
// wins. The ramp is raised to FadePower and the mask is then blurred by
// v.Blur.
func VignetteMask(w, h int, v VignetteSettings) *image.Gray {
	left, right, top, bottom := splitPosition(v.Position)
	rx := float64(w) * v.FadeRatio
	ry := float64(h) * v.FadeRatio
	twoAxis := (left || right) && (top || bottom)

	mask := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		dy := 1.0
		switch {
		case top:
			dy = ramp(float64(y), ry)
		case bottom:
			dy = ramp(float64(h-y), ry)
		}
		row := mask.Pix[y*mask.Stride:]
		for x := 0; x < w; x++ {
			dx := 1.0
			switch {
			case left:
				dx = ramp(float64(x), rx)
			case right:
				dx = ramp(float64(w-x), rx)
			}
			a := dx * dy
			if twoAxis {
				a = math.Min(dx, dy)
			}
			row[x] = uint8(math.Pow(a, v.FadePower) * 255)
		}
	}

	if v.Blur <= 0 {
		return mask
	}
	soft := blurredResize(mask, w, h, v.Blur)
	for i := range mask.Pix {
		mask.Pix[i] = soft.Pix[i*4]
	}
	return mask
}

func ramp(d, r float64) float64 {
	if r <= 0 {
		return 1
	}
	return math.Max(0, math.Min(1, d/r))
}

func splitPosition(pos string) (left, right, top, bottom bool) {
	for _, part := range strings.Split(pos, "-") {
		switch part {
		case "left":
			left = true
		case "right":
			right = true
		case "top":
			top = true
		case "bottom":
			bottom = true
		}
	}
	return
}

// EdgeAlign returns where to paste a w x h image on a canvas of cw x ch so
// that it sits against the edges opposite the faded ones. Axes without a
// fade align right and top.
func EdgeAlign(pos string, cw, ch, w, h int) (x, y int) {
	left, right, top, bottom := splitPosition(pos)
	x = cw - w
	if right && !left {
		x = 0
	}
	if top && !bottom {
		y = ch - h
	}
	return x, y
}

// StdDev returns the standard deviation of the RGB channel values in img.
func StdDev(img image.Image) float64 {
	src := imaging.Clone(img)
	var sum, sq float64
	var n int
	for i := 0; i+3 < len(src.Pix); i += 4 {
		for c := 0; c < 3; c++ {
			v := float64(src.Pix[i+c])
			sum += v
			sq += v * v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	mean := sum / float64(n)
	return math.Sqrt(math.Max(0, sq/float64(n)-mean*mean))
}
