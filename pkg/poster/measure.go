package poster

import (
	"image"
	"image/color"
	"strings"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
)

// TextStyle describes how a run of text is drawn: a shadow pass offset by
// ShadowOffset pixels, then a fill pass. Multi-line text is separated by the
// face's ascent plus descent plus LineSpacing.
type TextStyle struct {
	Face         font.Face
	Fill         color.Color
	Shadow       color.Color
	ShadowOffset int
	LineSpacing  int
}

func (st TextStyle) ascent() int {
	return st.Face.Metrics().Ascent.Ceil()
}

func (st TextStyle) lineHeight() int {
	m := st.Face.Metrics()
	return m.Ascent.Ceil() + m.Descent.Ceil() + st.LineSpacing
}

// drawText draws text with its top-left at (x, y). The y coordinate is the
// top of the ascender, not the baseline.
func drawText(dc *gg.Context, text string, x, y float64, st TextStyle) {
	dc.SetFontFace(st.Face)
	lines := strings.Split(text, "\n")
	base := y + float64(st.ascent())
	lh := float64(st.lineHeight())
	off := float64(st.ShadowOffset)

	if st.Shadow != nil && st.ShadowOffset != 0 {
		dc.SetColor(st.Shadow)
		for i, line := range lines {
			dc.DrawString(line, x+off, base+float64(i)*lh+off)
		}
	}
	dc.SetColor(st.Fill)
	for i, line := range lines {
		dc.DrawString(line, x, base+float64(i)*lh)
	}
}

// advance returns the horizontal advance of s in whole pixels.
func advance(face font.Face, s string) float64 {
	return float64(font.MeasureString(face, s)) / 64
}

// MeasureInk renders text offscreen with the same shadow and fill passes
// used on the poster and returns the bounding box of the painted pixels,
// relative to the draw origin. Text that paints nothing yields an empty
// rectangle. Colours in st are ignored.
func MeasureInk(text string, st TextStyle) image.Rectangle {
	if strings.TrimSpace(text) == "" {
		return image.Rectangle{}
	}
	st.Fill = color.White
	st.Shadow = color.Black

	lines := strings.Split(text, "\n")
	var widest float64
	for _, line := range lines {
		widest = max(widest, advance(st.Face, line))
	}

	off := st.ShadowOffset
	if off < 0 {
		off = -off
	}
	margin := st.lineHeight() + off + 4
	w := int(widest) + 2*margin
	h := len(lines)*st.lineHeight() + 2*margin

	dc := gg.NewContext(w, h)
	drawText(dc, text, float64(margin), float64(margin), st)

	r := inkBounds(dc.Image().(*image.RGBA))
	if r.Empty() {
		return image.Rectangle{}
	}
	return r.Sub(image.Pt(margin, margin))
}

// inkBounds scans a premultiplied buffer for pixels with non-zero alpha.
func inkBounds(img *image.RGBA) image.Rectangle {
	b := img.Bounds()
	minX, minY, maxX, maxY := b.Max.X, b.Max.Y, b.Min.X-1, b.Min.Y-1
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[(y-b.Min.Y)*img.Stride:]
		for x := b.Min.X; x < b.Max.X; x++ {
			if row[(x-b.Min.X)*4+3] == 0 {
				continue
			}
			minX = min(minX, x)
			maxX = max(maxX, x)
			minY = min(minY, y)
			maxY = max(maxY, y)
		}
	}
	if maxX < minX {
		return image.Rectangle{}
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}

// CompactTags drops empty entries, keeping order.
func CompactTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if strings.TrimSpace(t) != "" {
			out = append(out, t)
		}
	}
	return out
}

// MeasureTagsWidth returns the ink width of the complete tag line, measured
// as one concatenated string so that shadow bleed and kerning at the joins
// are counted once.
func MeasureTagsWidth(tags []string, sep string, st TextStyle) int {
	return MeasureInk(strings.Join(CompactTags(tags), sep), st).Dx()
}
