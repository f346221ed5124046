// SPDX-License-Identifier: MIT

// Package normalize reduces channel names and logo filenames to canonical
// comparison keys.
package normalize

import (
	"regexp"
	"strings"

	unorm "golang.org/x/text/unicode/norm"
)

var (
	parenTag  = regexp.MustCompile(`\(directs\)`)
	qualifier = regexp.MustCompile(`\s*-?\s*(sd|hd|fhd|uhd|4k)\b`)
	country   = regexp.MustCompile(`\s+uk$`)
	nonAlnum  = regexp.MustCompile(`[^a-z0-9]`)
)

// Key converts a raw channel name or logo filename into its canonical
// comparison key. Lowercase, quality/region qualifiers stripped, everything
// outside [a-z0-9] removed. Key is idempotent and returns "" for input that
// carries no usable characters.
func Key(s string) string {
	// Punctuation removal can expose a fresh trailing qualifier ("m-tv h.d"
	// reduces to "mtvhd"), so strip until the key settles.
	for {
		next := keyOnce(s)
		if next == s {
			return next
		}
		s = next
	}
}

func keyOnce(s string) string {
	s = unorm.NFC.String(s)
	s = strings.ToLower(strings.TrimSpace(s))
	// lowercase can introduce new combining sequences
	s = unorm.NFC.String(s)

	if i := strings.LastIndex(s, "."); i > 0 {
		if ext := s[i+1:]; ext == "png" || ext == "jpg" || ext == "jpeg" || ext == "svg" {
			s = s[:i]
		}
	}

	s = parenTag.ReplaceAllString(s, "")

	// Strip qualifiers repeatedly so "BBC One HD UK" collapses fully.
	for {
		before := s
		s = qualifier.ReplaceAllString(s, "")
		s = country.ReplaceAllString(s, "")
		if s == before {
			break
		}
	}

	return nonAlnum.ReplaceAllString(s, "")
}
