package poster

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// Aspect classes for logo sizing. Tall logos get less height than wide ones
// so that stacked and square marks do not dominate the poster.
const (
	tallAspect      = 0.8
	squareAspect    = 1.2
	tallHeightScale = 0.6
	squareScale     = 0.75
)

// Luminance returns the mean perceived luminance (0..255) of the pixels in
// img with non-zero alpha, using ITU-R BT.601 weights. ok is false when the
// image has no visible pixels.
func Luminance(img image.Image) (lum float64, ok bool) {
	src := imaging.Clone(img)
	var sum float64
	var n int
	for i := 0; i+3 < len(src.Pix); i += 4 {
		if src.Pix[i+3] == 0 {
			continue
		}
		sum += 0.299*float64(src.Pix[i]) + 0.587*float64(src.Pix[i+1]) + 0.114*float64(src.Pix[i+2])
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// EnsureHighContrast recolours dark marks white so they stay legible on a
// dark background. If the mean luminance of the visible pixels is below
// threshold, a new image is returned with every visible pixel's RGB set to
// white and alpha untouched. Otherwise img itself is returned. The input is
// never modified.
func EnsureHighContrast(img image.Image, threshold float64) image.Image {
	lum, ok := Luminance(img)
	if !ok || lum >= threshold {
		return img
	}

	out := imaging.Clone(img)
	for i := 0; i+3 < len(out.Pix); i += 4 {
		if out.Pix[i+3] == 0 {
			continue
		}
		out.Pix[i], out.Pix[i+1], out.Pix[i+2] = 255, 255, 255
	}
	return out
}

// AlphaBounds returns the bounding box of pixels with non-zero alpha, in
// the coordinate space of img. It returns an empty rectangle when every
// pixel is transparent.
func AlphaBounds(img image.Image) image.Rectangle {
	src := imaging.Clone(img)
	b := src.Bounds()
	minX, minY, maxX, maxY := b.Dx(), b.Dy(), -1, -1
	for y := 0; y < b.Dy(); y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+b.Dx()*4]
		for x := 0; x < b.Dx(); x++ {
			if row[x*4+3] == 0 {
				continue
			}
			minX = min(minX, x)
			maxX = max(maxX, x)
			minY = min(minY, y)
			maxY = max(maxY, y)
		}
	}
	if maxX < 0 {
		return image.Rectangle{}
	}
	origin := img.Bounds().Min
	return image.Rect(minX, minY, maxX+1, maxY+1).Add(origin)
}

// AutoCrop trims transparent borders. Fully transparent images are
// returned unchanged.
func AutoCrop(img image.Image) image.Image {
	r := AlphaBounds(img)
	if r.Empty() || r == img.Bounds() {
		return img
	}
	return imaging.Crop(img, r)
}

// LogoBox returns the maximum height allowed for a logo with the given
// aspect ratio (width / height).
func LogoBox(aspect float64, maxH int) float64 {
	switch {
	case aspect < tallAspect:
		return float64(maxH) * tallHeightScale
	case aspect <= squareAspect:
		return float64(maxH) * squareScale
	default:
		return float64(maxH)
	}
}

// SmartResize crops transparent borders from img and scales it to fit
// within maxW by an aspect-dependent fraction of maxH, preserving aspect
// ratio. The result is at least 1x1 and never exceeds the bounds.
func SmartResize(img image.Image, maxW, maxH int) *image.NRGBA {
	cropped := AutoCrop(img)
	w, h := cropped.Bounds().Dx(), cropped.Bounds().Dy()
	if w == 0 || h == 0 {
		return imaging.New(1, 1, color.Transparent)
	}

	boxH := LogoBox(float64(w)/float64(h), maxH)
	scale := math.Min(float64(maxW)/float64(w), boxH/float64(h))

	nw := clamp(int(math.Round(float64(w)*scale)), 1, maxW)
	nh := clamp(int(math.Round(float64(h)*scale)), 1, max(1, int(boxH)))

	return imaging.Resize(cropped, nw, nh, imaging.Lanczos)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
