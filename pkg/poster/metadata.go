package poster

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// DefaultLabel is the footer text drawn before the badge.
const DefaultLabel = "Now Available on"

// maxGenres caps how many genres appear in the tag line.
const maxGenres = 3

// ticksPerMinute converts media-server runtime ticks (100ns) to minutes.
const ticksPerMinute = 600_000_000

// Metadata describes the title being advertised.
type Metadata struct {
	Title    string   `json:"title"`
	Year     int      `json:"year,omitempty"`
	Overview string   `json:"overview,omitempty"`
	Genres   []string `json:"genres,omitempty"`
	Rating   *float64 `json:"rating,omitempty"`
	Runtime  string   `json:"runtime,omitempty"`
	Badge    string   `json:"badge,omitempty"`
}

// Tags returns the tag line entries in display order: year, genres, runtime
// and rating. Absent values are returned as empty strings and are dropped
// when the line is drawn.
func (m Metadata) Tags() []string {
	var year, rating string
	if m.Year > 0 {
		year = strconv.Itoa(m.Year)
	}
	if m.Rating != nil && *m.Rating > 0 {
		rating = fmt.Sprintf("IMDb: %.1f", *m.Rating)
	}
	genres := m.Genres
	if len(genres) > maxGenres {
		genres = genres[:maxGenres]
	}
	return []string{year, strings.Join(CompactTags(genres), ", "), m.Runtime, rating}
}

// FormatRuntime renders a duration in minutes as "2h 49min" or "45min".
// Non-positive durations yield the empty string.
func FormatRuntime(minutes int) string {
	if minutes <= 0 {
		return ""
	}
	h, m := minutes/60, minutes%60
	if h > 0 {
		return fmt.Sprintf("%dh %dmin", h, m)
	}
	return fmt.Sprintf("%dmin", m)
}

// FormatRuntimeTicks is FormatRuntime for 100ns runtime ticks.
func FormatRuntimeTicks(ticks int64) string {
	return FormatRuntime(int(ticks / ticksPerMinute))
}

// CleanFilename folds s to ASCII and replaces every character other than
// letters, digits, '.', '_' and '-' with an underscore.
func CleanFilename(s string) string {
	var b strings.Builder
	for _, r := range norm.NFKD.String(s) {
		switch {
		case r > unicode.MaxASCII:
			continue
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '_' || r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// OutputName derives a poster file name from the title and year.
func (m Metadata) OutputName() string {
	name := CleanFilename(m.Title)
	if name == "" {
		name = "poster"
	}
	if m.Year > 0 {
		name += "_" + strconv.Itoa(m.Year)
	}
	return name + ".jpg"
}
