// Package assets loads the static resources a poster is composed from.
//
// A [Library] is built once at startup and shared read-only by every render:
// the fonts for each typographic role, the framed-mode background panel and
// overlay, and a set of named badge images for the footer. Loading never
// aborts. A resource that cannot be read is logged with a RESOURCE_LOAD
// error and left absent, and the renderer degrades accordingly.
package assets

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"image"
	"io"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"

	"github.com/matzehuels/marquee/pkg/errors"
	"github.com/matzehuels/marquee/pkg/fonts"
)

// Config names the files to load. Empty paths are skipped silently.
type Config struct {
	Fonts   map[fonts.Role]fonts.Spec
	Panel   string
	Overlay string
	Badges  map[string]string
}

// Library is the loaded, immutable set of static resources.
type Library struct {
	fonts    *fonts.Set
	panel    image.Image
	overlay  image.Image
	badges   map[string]image.Image
	problems []error

	fingerprint string
}

// Load reads every resource named in cfg.
func Load(cfg Config, logger *log.Logger) *Library {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	lib := &Library{
		fonts:  fonts.Load(cfg.Fonts, logger),
		badges: make(map[string]image.Image, len(cfg.Badges)),
	}
	lib.problems = append(lib.problems, lib.fonts.Problems()...)

	lib.panel = lib.loadImage(logger, "panel", cfg.Panel)
	lib.overlay = lib.loadImage(logger, "overlay", cfg.Overlay)

	names := make([]string, 0, len(cfg.Badges))
	for name := range cfg.Badges {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if img := lib.loadImage(logger, "badge "+name, cfg.Badges[name]); img != nil {
			lib.badges[name] = img
		}
	}

	lib.fingerprint = lib.computeFingerprint()

	logger.Debug("assets loaded",
		"panel", lib.panel != nil,
		"overlay", lib.overlay != nil,
		"badges", len(lib.badges),
		"problems", len(lib.problems))
	return lib
}

func (l *Library) loadImage(logger *log.Logger, what, path string) image.Image {
	if path == "" {
		return nil
	}
	img, err := imaging.Open(path)
	if err != nil {
		err = errors.Wrap(errors.ErrCodeResourceLoad, err, "load %s %s", what, path)
		logger.Warn("asset unavailable", "asset", what, "err", err)
		l.problems = append(l.problems, err)
		return nil
	}
	return img
}

// New assembles a library from already-decoded resources. A nil font set
// selects the fallback fonts.
func New(fs *fonts.Set, panel, overlay image.Image, badges map[string]image.Image) *Library {
	if fs == nil {
		fs = fonts.Default()
	}
	b := make(map[string]image.Image, len(badges))
	for k, v := range badges {
		b[k] = v
	}
	lib := &Library{fonts: fs, panel: panel, overlay: overlay, badges: b}
	lib.fingerprint = lib.computeFingerprint()
	return lib
}

// Fingerprint returns a hash of the fonts and the pixels of every image in
// the library. Posters rendered from libraries with different fingerprints
// may differ even when every other input is equal.
func (l *Library) Fingerprint() string { return l.fingerprint }

func (l *Library) computeFingerprint() string {
	h := sha256.New()
	fmt.Fprintf(h, "fonts:%s;", l.fonts.Fingerprint())
	hashImage(h, "panel", l.panel)
	hashImage(h, "overlay", l.overlay)
	for _, name := range l.BadgeNames() {
		hashImage(h, "badge:"+name, l.badges[name])
	}
	return hex.EncodeToString(h.Sum(nil))
}

// hashImage writes the label, bounds and NRGBA pixels of img to h. A nil
// image hashes as absent.
func hashImage(h hash.Hash, label string, img image.Image) {
	if img == nil {
		fmt.Fprintf(h, "%s:none;", label)
		return
	}
	px := imaging.Clone(img)
	fmt.Fprintf(h, "%s:%v:", label, px.Bounds().Size())
	h.Write(px.Pix)
	h.Write([]byte{';'})
}

// Fonts returns the loaded font set.
func (l *Library) Fonts() *fonts.Set { return l.fonts }

// Panel returns the framed-mode background panel, or nil if unavailable.
func (l *Library) Panel() image.Image { return l.panel }

// Overlay returns the framed-mode overlay, or nil if unavailable.
func (l *Library) Overlay() image.Image { return l.overlay }

// Badge looks up a footer badge by name.
func (l *Library) Badge(name string) (image.Image, bool) {
	img, ok := l.badges[name]
	return img, ok
}

// BadgeNames returns the available badge names in sorted order.
func (l *Library) BadgeNames() []string {
	names := make([]string, 0, len(l.badges))
	for name := range l.badges {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Problems returns every RESOURCE_LOAD error encountered by Load.
func (l *Library) Problems() []error { return l.problems }
