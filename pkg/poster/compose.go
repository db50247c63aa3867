package poster

import (
	"image"

	"github.com/matzehuels/marquee/pkg/fonts"
)

// Input is everything needed to lay out one poster.
type Input struct {
	Artwork  image.Image
	Logo     image.Image
	Metadata Metadata

	Background  BackgroundMode
	TargetWidth int
	Label       string
}

// Compose runs the full layout: background, logo or title, tag line,
// summary and footer. The session can be encoded afterwards.
func (s *Session) Compose(in Input) error {
	mode := in.Background
	if mode == "" {
		mode = DefaultBackground
	}

	var err error
	switch mode {
	case BackgroundAmbient:
		err = s.CreateColorCanvas(in.Artwork, in.TargetWidth)
	case BackgroundFramed:
		err = s.CreateCanvas(in.Artwork)
	default:
		err = ValidateBackgroundMode(in.Background)
	}
	if err != nil {
		return err
	}

	if err := s.DrawLogoOrTitle(in.Logo, in.Metadata.Title); err != nil {
		return err
	}
	if err := s.DrawTags(in.Metadata.Tags(), fonts.RoleInfo, s.settings.Layout.TagSeparator, nil); err != nil {
		return err
	}
	if err := s.DrawSummary(in.Metadata.Overview); err != nil {
		return err
	}

	label := in.Label
	if label == "" {
		label = DefaultLabel
	}
	return s.DrawFooter(label, in.Metadata.Badge)
}
