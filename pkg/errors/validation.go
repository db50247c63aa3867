package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// ValidateOutputPath validates a destination path for a rendered poster.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 1024 characters
//   - No null bytes or control characters
//   - Extension must be .jpg or .jpeg (output is always JPEG)
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "output path cannot be empty")
	}

	const maxPathLength = 1024
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "output path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "output path contains invalid characters")
		}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return nil
	default:
		return New(ErrCodeInvalidInput, "output path must end in .jpg or .jpeg: %q", path)
	}
}

// ValidateDimension checks that a pixel dimension lies within [lo, hi].
func ValidateDimension(name string, v, lo, hi int) error {
	if v < lo || v > hi {
		return New(ErrCodeInvalidInput, "%s must be between %d and %d, got %d", name, lo, hi, v)
	}
	return nil
}

// ValidateRatio checks that a fraction lies in (0, 1].
func ValidateRatio(name string, v float64) error {
	if !(v > 0 && v <= 1) {
		return New(ErrCodeInvalidInput, "%s must be in (0, 1], got %g", name, v)
	}
	return nil
}

// ValidatePosition validates a vignette corner or edge name such as
// "bottom-left", "right" or "top".
func ValidatePosition(pos string) error {
	if pos == "" {
		return New(ErrCodeInvalidInput, "position cannot be empty")
	}
	parts := strings.Split(pos, "-")
	if len(parts) > 2 {
		return New(ErrCodeInvalidInput, "invalid position %q", pos)
	}
	var vertical, horizontal int
	for _, p := range parts {
		switch p {
		case "top", "bottom":
			vertical++
		case "left", "right":
			horizontal++
		default:
			return New(ErrCodeInvalidInput, "invalid position %q", pos)
		}
	}
	if vertical > 1 || horizontal > 1 {
		return New(ErrCodeInvalidInput, "invalid position %q", pos)
	}
	return nil
}
