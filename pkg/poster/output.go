package poster

import (
	"bytes"
	"image"
	"image/color"
	"io"
	"os"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/marquee/pkg/errors"
)

// DefaultQuality is the JPEG quality used when none is given.
const DefaultQuality = 95

// Flatten returns an opaque copy of the canvas composited over black.
func (s *Session) Flatten() (*image.NRGBA, error) {
	if err := s.requireCanvas("flatten"); err != nil {
		return nil, err
	}
	img := s.dc.Image()
	b := img.Bounds()
	bg := imaging.New(b.Dx(), b.Dy(), color.Black)
	return imaging.Overlay(bg, img, image.Point{}, 1.0), nil
}

// Encode writes the flattened canvas to w as a JPEG. A non-positive quality
// selects DefaultQuality.
func (s *Session) Encode(w io.Writer, quality int) error {
	img, err := s.Flatten()
	if err != nil {
		return err
	}
	if quality <= 0 {
		quality = DefaultQuality
	}
	if err := imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "encode poster")
	}
	return nil
}

// Bytes returns the encoded poster.
func (s *Session) Bytes(quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.Encode(&buf, quality); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save encodes the poster to path. The write is not atomic.
func (s *Session) Save(path string, quality int) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "create %s", path)
	}
	if err := s.Encode(f, quality); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "close %s", path)
	}
	return nil
}
