package poster

import (
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/marquee/pkg/assets"
	"github.com/matzehuels/marquee/pkg/fonts"
)

var navy = color.NRGBA{R: 10, G: 20, B: 70, A: 255}

// smallSettings scales the layout down so renders stay fast in tests.
func smallSettings() Settings {
	s := DefaultSettings()
	s.Layout.OriginX = 40
	s.Layout.OriginY = 30
	s.Layout.Padding = 10
	s.Framed = FramedSettings{
		ArtworkHeight:  200,
		ArtworkX:       300,
		FallbackWidth:  480,
		FallbackHeight: 270,
	}
	s.Ambient.Width = 192
	s.Ambient.Height = 108
	s.Ambient.BlurRadius = 40
	s.Ambient.TargetWidth = 150
	s.Ambient.Vignette.Blur = 3
	s.Logo.MaxWidth = 200
	s.Logo.MaxHeight = 60
	s.Summary.MaxWidth = 300
	return s
}

func smallFonts() *fonts.Set {
	return fonts.Load(map[fonts.Role]fonts.Spec{
		fonts.RoleTitle:   {Size: 40},
		fonts.RoleInfo:    {Size: 16},
		fonts.RoleSummary: {Size: 14},
		fonts.RoleFooter:  {Size: 16},
	}, nil)
}

func smallLibrary() *assets.Library {
	return assets.New(smallFonts(), nil, nil, map[string]image.Image{
		"jellyfin": imaging.New(40, 12, navy),
	})
}

func newTestSession(t *testing.T) *Session {
	t.Helper()
	return NewSession(smallLibrary(), smallSettings(), nil)
}

func solid(w, h int, c color.Color) *image.NRGBA {
	return imaging.New(w, h, c)
}

// logoWithBorder returns a w x h opaque rectangle of c inside a transparent
// border of the given width.
func logoWithBorder(w, h, border int, c color.NRGBA) *image.NRGBA {
	img := imaging.New(w+2*border, h+2*border, color.Transparent)
	for y := border; y < border+h; y++ {
		for x := border; x < border+w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func infoStyle() TextStyle {
	return TextStyle{
		Face:         smallFonts().Face(fonts.RoleInfo),
		Fill:         color.White,
		Shadow:       color.Black,
		ShadowOffset: 2,
		LineSpacing:  4,
	}
}
