package utils

import (
	"strings"

	"github.com/solar-lang/solar-compiler/internal/symbols"
	"golang.org/x/text/unicode/norm"
)

// NormalizePath turns the segments of a dotted name into an IdPath.
// Segments are NFC-normalised so that identifiers typed with combining
// characters match their precomposed declarations, and a segment that still
// contains dots is split.
func NormalizePath(segments []string) symbols.IdPath {
	out := make(symbols.IdPath, 0, len(segments))
	for _, s := range segments {
		s = norm.NFC.String(strings.TrimSpace(s))
		for _, part := range strings.Split(s, ".") {
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// NormalizeName applies the identifier normalisation to a single name.
func NormalizeName(name string) string {
	return norm.NFC.String(name)
}
