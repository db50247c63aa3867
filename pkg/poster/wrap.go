package poster

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/image/font"
)

// Shorten collapses runs of whitespace and, if the text is still longer
// than width runes, drops whole words from the end and appends Ellipsis so
// that the result fits in width. The boolean reports whether anything was
// dropped; callers must rely on it rather than on the suffix, since text
// that already ends in Ellipsis is returned unchanged with false.
func Shorten(text string, width int) (string, bool) {
	words := strings.Fields(text)
	joined := strings.Join(words, " ")
	if utf8.RuneCountInString(joined) <= width {
		return joined, false
	}

	budget := width - utf8.RuneCountInString(Ellipsis)
	var b strings.Builder
	n := 0
	for i, w := range words {
		need := utf8.RuneCountInString(w)
		if i > 0 {
			need++
		}
		if n+need > budget {
			break
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(w)
		n += need
	}
	return b.String() + Ellipsis, true
}

// WrapChars breaks text into lines of at most width runes at word
// boundaries. Words longer than width are split.
func WrapChars(text string, width int) []string {
	width = max(width, 1)
	var lines []string
	var cur strings.Builder
	curLen := 0
	flush := func() {
		if curLen > 0 {
			lines = append(lines, cur.String())
			cur.Reset()
			curLen = 0
		}
	}

	for _, w := range strings.Fields(text) {
		r := []rune(w)
		for len(r) > width {
			flush()
			lines = append(lines, string(r[:width]))
			r = r[width:]
		}
		if curLen > 0 && curLen+1+len(r) > width {
			flush()
		}
		if curLen > 0 {
			cur.WriteByte(' ')
			curLen++
		}
		cur.WriteString(string(r))
		curLen += len(r)
	}
	flush()
	return lines
}

// WrapPixels packs words greedily into lines no wider than maxWidth pixels
// when set in face, keeping at most maxLines lines. If words remain after
// the last line, that line is trimmed until it fits with Ellipsis appended
// and the boolean result is true. A single word wider than maxWidth is cut
// to fit with Ellipsis and also reports true.
func WrapPixels(text string, face font.Face, maxWidth float64, maxLines int) ([]string, bool) {
	maxLines = max(maxLines, 1)
	var lines []string
	cur := ""
	truncated := false
	overflow := false

	for _, w := range strings.Fields(text) {
		if advance(face, w) > maxWidth {
			w = fitWithEllipsis(w, face, maxWidth)
			truncated = true
		}
		candidate := w
		if cur != "" {
			candidate = cur + " " + w
		}
		if cur == "" || advance(face, candidate) <= maxWidth {
			cur = candidate
			continue
		}
		lines = append(lines, cur)
		cur = w
		if len(lines) == maxLines {
			overflow = true
			break
		}
	}
	if !overflow && cur != "" {
		lines = append(lines, cur)
	}

	if overflow {
		truncated = true
		last := len(lines) - 1
		lines[last] = fitWithEllipsis(lines[last], face, maxWidth)
	}
	return lines, truncated
}

func fitWithEllipsis(line string, face font.Face, maxWidth float64) string {
	r := []rune(strings.TrimSuffix(line, Ellipsis))
	for len(r) > 0 {
		candidate := strings.TrimRight(string(r), " ") + Ellipsis
		if advance(face, candidate) <= maxWidth {
			return candidate
		}
		r = r[:len(r)-1]
	}
	return Ellipsis
}
