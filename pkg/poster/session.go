package poster

import (
	"image"
	"image/color"
	"io"

	"github.com/charmbracelet/log"
	"github.com/fogleman/gg"
	"github.com/google/uuid"
	"golang.org/x/image/font"

	"github.com/matzehuels/marquee/pkg/assets"
	"github.com/matzehuels/marquee/pkg/errors"
	"github.com/matzehuels/marquee/pkg/fonts"
)

// Session is the mutable state of a single render: the canvas, the layout
// cursor and the font faces used to draw on it. A session must not be used
// from more than one goroutine. Shared resources in the library are only
// read.
type Session struct {
	// ID identifies the render in logs.
	ID string

	lib      *assets.Library
	settings Settings
	logger   *log.Logger

	mode   BackgroundMode
	dc     *gg.Context
	cursor Cursor
	blocks []Block
	faces  map[fonts.Role]font.Face

	textColor   color.NRGBA
	shadowColor color.NRGBA
	tagColor    color.NRGBA
}

// NewSession prepares a render against lib. No canvas exists until
// CreateCanvas or CreateColorCanvas is called.
func NewSession(lib *assets.Library, settings Settings, logger *log.Logger) *Session {
	if lib == nil {
		lib = assets.New(nil, nil, nil, nil)
	}
	id := uuid.NewString()
	if logger == nil {
		logger = log.New(io.Discard)
	}
	l := settings.Layout
	return &Session{
		ID:          id,
		lib:         lib,
		settings:    settings,
		logger:      logger.With("render", id[:8]),
		cursor:      NewCursor(l.OriginX, l.OriginY),
		faces:       make(map[fonts.Role]font.Face, len(fonts.Roles)),
		textColor:   mustColor(l.TextColor, color.NRGBA{255, 255, 255, 255}),
		shadowColor: mustColor(l.ShadowColor, color.NRGBA{0, 0, 0, 255}),
		tagColor:    mustColor(l.TagColor, color.NRGBA{255, 255, 255, 255}),
	}
}

// Mode reports which background constructor built the canvas, or the empty
// string if none has run yet.
func (s *Session) Mode() BackgroundMode { return s.mode }

// Cursor returns a copy of the layout cursor.
func (s *Session) Cursor() Cursor { return s.cursor }

// Image returns the canvas, or nil before a canvas has been created.
func (s *Session) Image() image.Image {
	if s.dc == nil {
		return nil
	}
	return s.dc.Image()
}

// Style returns the text style for role using the poster's text colour.
func (s *Session) Style(role fonts.Role) TextStyle {
	return TextStyle{
		Face:         s.face(role),
		Fill:         s.textColor,
		Shadow:       s.shadowColor,
		ShadowOffset: s.settings.Layout.ShadowOffset,
		LineSpacing:  s.settings.Layout.LineSpacing,
	}
}

func (s *Session) face(role fonts.Role) font.Face {
	if f, ok := s.faces[role]; ok {
		return f
	}
	f := s.lib.Fonts().Face(role)
	s.faces[role] = f
	return f
}

// begin installs a freshly built canvas and resets the layout.
func (s *Session) begin(dc *gg.Context, mode BackgroundMode) {
	s.dc = dc
	s.mode = mode
	s.cursor.Reset()
	s.blocks = nil
	s.logger.Debug("canvas ready", "mode", mode, "width", dc.Width(), "height", dc.Height())
}

func (s *Session) requireCanvas(op string) error {
	if s.dc == nil {
		return errors.New(errors.ErrCodeInternal, "%s: no canvas, create one first", op)
	}
	return nil
}
