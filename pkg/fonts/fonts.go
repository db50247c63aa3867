// Package fonts loads the TrueType faces used to set poster text.
//
// A poster uses four typographic roles (title, info, summary and footer),
// each bound to a font file and a pixel size. Fonts are parsed once into an
// immutable [Set]; drawing code asks the set for a fresh [font.Face] per
// render because glyph caches inside a face are not safe for concurrent use.
//
// When a configured font file cannot be read or parsed, the role falls back
// to the embedded Go fonts (Go Bold for titles, Go Regular otherwise) so
// that rendering can continue. The load error is reported through the
// logger and recorded on the set.
package fonts

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/matzehuels/marquee/pkg/errors"
)

// Role identifies the purpose of a font on the poster.
type Role string

const (
	RoleTitle   Role = "title"
	RoleInfo    Role = "info"
	RoleSummary Role = "summary"
	RoleFooter  Role = "footer"
)

// Roles lists every role in drawing order.
var Roles = []Role{RoleTitle, RoleInfo, RoleSummary, RoleFooter}

// Default pixel sizes per role.
const (
	DefaultTitleSize   = 190
	DefaultInfoSize    = 55
	DefaultSummarySize = 50
	DefaultFooterSize  = 60
)

// Spec binds a role to a font file and size. An empty Path selects the
// embedded fallback font.
type Spec struct {
	Path string  `toml:"path"`
	Size float64 `toml:"size"`
}

// DefaultSpecs returns the default spec for every role.
func DefaultSpecs() map[Role]Spec {
	return map[Role]Spec{
		RoleTitle:   {Size: DefaultTitleSize},
		RoleInfo:    {Size: DefaultInfoSize},
		RoleSummary: {Size: DefaultSummarySize},
		RoleFooter:  {Size: DefaultFooterSize},
	}
}

var (
	regular = mustParse(goregular.TTF)
	bold    = mustParse(gobold.TTF)
)

// fallback returns the embedded font used for role when no file is
// configured or the file cannot be loaded. Titles are set in bold.
func fallback(role Role) *truetype.Font {
	if role == RoleTitle {
		return bold
	}
	return regular
}

func mustParse(data []byte) *truetype.Font {
	f, err := truetype.Parse(data)
	if err != nil {
		panic(err)
	}
	return f
}

// Set holds one parsed font per role. It is immutable after Load and safe
// to share between goroutines.
type Set struct {
	fonts    map[Role]*truetype.Font
	sizes    map[Role]float64
	degraded map[Role]bool
	problems []error

	// fingerprint identifies the faces and sizes, for cache keys.
	fingerprint string
}

// Load parses the font for every role in specs. Missing roles use their
// default size and the fallback font. Load never fails: unreadable fonts
// are replaced by the fallback and reported through logger and Problems.
func Load(specs map[Role]Spec, logger *log.Logger) *Set {
	s := &Set{
		fonts:    make(map[Role]*truetype.Font, len(Roles)),
		sizes:    make(map[Role]float64, len(Roles)),
		degraded: make(map[Role]bool),
	}
	defaults := DefaultSpecs()
	h := sha256.New()

	for _, role := range Roles {
		spec, ok := specs[role]
		if !ok {
			spec = defaults[role]
		}
		if spec.Size <= 0 {
			spec.Size = defaults[role].Size
		}
		s.sizes[role] = spec.Size

		if spec.Path == "" {
			s.fonts[role] = fallback(role)
			fmt.Fprintf(h, "%s:%g:fallback;", role, spec.Size)
			continue
		}

		f, sum, err := parseFile(spec.Path)
		if err != nil {
			err = errors.Wrap(errors.ErrCodeResourceLoad, err, "load %s font %s", role, spec.Path)
			if logger != nil {
				logger.Warn("using fallback font", "role", role, "path", spec.Path, "err", err)
			}
			s.problems = append(s.problems, err)
			s.fonts[role] = fallback(role)
			s.degraded[role] = true
			fmt.Fprintf(h, "%s:%g:fallback;", role, spec.Size)
			continue
		}
		s.fonts[role] = f
		fmt.Fprintf(h, "%s:%g:%x;", role, spec.Size, sum)
	}
	s.fingerprint = hex.EncodeToString(h.Sum(nil))
	return s
}

// Default returns a set that uses the embedded fallback font at the default
// sizes for every role.
func Default() *Set {
	return Load(nil, nil)
}

func parseFile(path string) (*truetype.Font, [sha256.Size]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, [sha256.Size]byte{}, err
	}
	f, err := truetype.Parse(data)
	return f, sha256.Sum256(data), err
}

// Face returns a new face for role at its configured size. Unknown roles
// resolve to the info role.
func (s *Set) Face(role Role) font.Face {
	f, ok := s.fonts[role]
	if !ok {
		role = RoleInfo
		f = s.fonts[role]
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    s.sizes[role],
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

// Size returns the pixel size configured for role.
func (s *Set) Size(role Role) float64 {
	return s.sizes[role]
}

// Degraded reports whether role is using the fallback font because its
// configured file could not be loaded.
func (s *Set) Degraded(role Role) bool {
	return s.degraded[role]
}

// Fingerprint returns a hash of every role's size and font file contents.
// Two sets with the same fingerprint render text identically.
func (s *Set) Fingerprint() string {
	return s.fingerprint
}

// Problems returns the load errors collected by Load.
func (s *Set) Problems() []error {
	return s.problems
}
