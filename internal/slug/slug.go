// Package slug derives canonical login handles from staff and garage names.
package slug

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ErrEmptySegment is returned when normalization strips a name down to
// nothing; callers must reject the input rather than emit a degenerate handle.
var ErrEmptySegment = fmt.Errorf("name normalizes to an empty segment")

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Generate builds the handle "first.last@garage" from raw, untrusted names.
// Pure function: no I/O, no collision checking.
func Generate(firstName, lastName, garageName string) (string, error) {
	first, err := normalize(firstName)
	if err != nil {
		return "", fmt.Errorf("first name: %w", err)
	}
	last, err := normalize(lastName)
	if err != nil {
		return "", fmt.Errorf("last name: %w", err)
	}
	garage, err := normalize(garageName)
	if err != nil {
		return "", fmt.Errorf("garage name: %w", err)
	}
	return first + "." + last + "@" + garage, nil
}

// normalize decomposes the input, drops combining marks, lower-cases it and
// removes everything outside [a-z0-9].
func normalize(s string) (string, error) {
	stripped, _, err := transform.String(stripMarks, s)
	if err != nil {
		return "", fmt.Errorf("strip marks: %w", err)
	}

	var b strings.Builder
	for _, r := range strings.ToLower(stripped) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "", ErrEmptySegment
	}
	return b.String(), nil
}
