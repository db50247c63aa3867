package poster

import (
	"image"
	"image/color"
	"strings"

	"github.com/fogleman/gg"

	"github.com/matzehuels/marquee/pkg/fonts"
)

// Block records where a layout element was placed on the canvas.
type Block struct {
	Kind string
	Rect image.Rectangle
}

// Blocks returns the elements drawn since the canvas was created.
func (s *Session) Blocks() []Block {
	return s.blocks
}

func (s *Session) place(kind string, r image.Rectangle) {
	s.blocks = append(s.blocks, Block{Kind: kind, Rect: r})
	s.logger.Debug("placed", "block", kind, "x", r.Min.X, "y", r.Min.Y, "w", r.Dx(), "h", r.Dy())
}

// DrawLogoOrTitle draws the logo at the cursor, or the title text if logo
// is nil. The logo is cropped, resized for its aspect class and recoloured
// white when too dark. The drawn width is remembered for the tag line.
func (s *Session) DrawLogoOrTitle(logo image.Image, title string) error {
	if err := s.requireCanvas("draw logo"); err != nil {
		return err
	}
	l := s.settings.Layout
	s.cursor.X = l.OriginX

	if logo != nil {
		lc := s.settings.Logo
		img := EnsureHighContrast(SmartResize(logo, lc.MaxWidth, lc.MaxHeight), lc.LuminanceThreshold)
		b := img.Bounds()
		s.dc.DrawImage(img, s.cursor.X, s.cursor.Y)
		s.place("logo", image.Rect(s.cursor.X, s.cursor.Y, s.cursor.X+b.Dx(), s.cursor.Y+b.Dy()))
		s.cursor.Advance(b.Dy() + l.Padding)
		s.cursor.LastWidth = b.Dx()
		return nil
	}

	text, _ := Shorten(title, l.TitleMaxChars)
	if text == "" {
		s.cursor.LastWidth = 0
		return nil
	}
	st := s.Style(fonts.RoleTitle)
	x := s.cursor.X + l.TitleOffsetX
	drawText(s.dc, text, float64(x), float64(s.cursor.Y), st)

	ink := MeasureInk(text, st)
	s.place("title", ink.Add(image.Pt(x, s.cursor.Y)))
	s.cursor.Advance(ink.Dy() + l.Padding)
	s.cursor.LastWidth = ink.Dx()
	return nil
}

// DrawTags draws the non-empty tags on one line separated by sep, in the
// font for role and the given colour (nil selects the configured tag
// colour). If the preceding logo or title was wider than the line, the line
// is centred under it.
func (s *Session) DrawTags(tags []string, role fonts.Role, sep string, fill color.Color) error {
	if err := s.requireCanvas("draw tags"); err != nil {
		return err
	}
	l := s.settings.Layout
	s.cursor.X = l.OriginX
	blockWidth := s.cursor.TakeLastWidth()

	tags = CompactTags(tags)
	if len(tags) == 0 {
		return nil
	}

	st := s.Style(role)
	st.Fill = s.tagColor
	if fill != nil {
		st.Fill = fill
	}

	total := MeasureTagsWidth(tags, sep, st)
	x := float64(s.cursor.X)
	if blockWidth > 0 && total < blockWidth {
		x += float64(blockWidth-total) / 2
	}

	rowHeight := drawTagLine(s.dc, tags, sep, x, float64(s.cursor.Y), st)
	s.place("tags", image.Rect(int(x), s.cursor.Y, int(x)+total, s.cursor.Y+rowHeight))
	s.cursor.Advance(rowHeight + l.Padding)
	return nil
}

// drawTagLine draws tags left to right with sep before every tag but the
// first and returns the tallest tag's ink height.
func drawTagLine(dc *gg.Context, tags []string, sep string, x, y float64, st TextStyle) int {
	rowHeight := 0
	for i, tag := range tags {
		if i > 0 {
			drawText(dc, sep, x, y, st)
			x += advance(st.Face, sep)
		}
		drawText(dc, tag, x, y, st)
		x += advance(st.Face, tag)
		rowHeight = max(rowHeight, MeasureInk(tag, st).Dy())
	}
	return rowHeight
}

// DrawSummary wraps and draws the overview paragraph using the configured
// wrap mode. It returns after drawing nothing if text is blank.
func (s *Session) DrawSummary(text string) error {
	if err := s.requireCanvas("draw summary"); err != nil {
		return err
	}
	l := s.settings.Layout
	s.cursor.X = l.OriginX
	if strings.TrimSpace(text) == "" {
		return nil
	}

	st := s.Style(fonts.RoleSummary)
	lines, truncated := s.wrapSummary(text, st)
	block := strings.Join(lines, "\n")
	drawText(s.dc, block, float64(s.cursor.X), float64(s.cursor.Y), st)

	ink := MeasureInk(block, st)
	s.place("summary", ink.Add(image.Pt(s.cursor.X, s.cursor.Y)))
	s.logger.Debug("summary wrapped", "mode", s.settings.Summary.Wrap, "lines", len(lines), "truncated", truncated)
	s.cursor.Advance(ink.Dy() + 2*l.Padding)
	return nil
}

func (s *Session) wrapSummary(text string, st TextStyle) ([]string, bool) {
	sum := s.settings.Summary
	if sum.Wrap == WrapModeChars {
		short, truncated := Shorten(text, sum.MaxChars)
		return WrapChars(short, sum.LineChars), truncated
	}
	return WrapPixels(text, st.Face, float64(sum.MaxWidth), sum.MaxLines)
}

// DrawFooter draws label and, if the named badge exists, the badge to its
// right. The badge is centred on the label font's ascent plus descent so
// that its placement does not depend on the badge's own proportions.
func (s *Session) DrawFooter(label, badge string) error {
	if err := s.requireCanvas("draw footer"); err != nil {
		return err
	}
	l := s.settings.Layout
	s.cursor.X = l.OriginX
	x, y := s.cursor.X, s.cursor.Y

	st := s.Style(fonts.RoleFooter)
	height := 0
	right := x
	if strings.TrimSpace(label) != "" {
		drawText(s.dc, label, float64(x), float64(y), st)
		ink := MeasureInk(label, st)
		s.place("label", ink.Add(image.Pt(x, y)))
		height = ink.Max.Y
		right = x + ink.Max.X
	}

	if badge != "" {
		img, ok := s.lib.Badge(badge)
		if !ok {
			s.logger.Debug("badge unavailable, drawing label only", "badge", badge)
		} else {
			img = EnsureHighContrast(img, s.settings.Logo.LuminanceThreshold)
			m := st.Face.Metrics()
			textHeight := m.Ascent.Ceil() + m.Descent.Ceil()
			b := img.Bounds()
			bx := right + l.FooterGap
			by := y + (textHeight-b.Dy())/2
			s.dc.DrawImage(img, bx-b.Min.X, by-b.Min.Y)
			s.place("badge", image.Rect(bx, by, bx+b.Dx(), by+b.Dy()))
			height = max(height, by+b.Dy()-y)
		}
	}

	s.cursor.Advance(height + l.Padding)
	return nil
}
