package logwrap

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// pad returns indent spaces, or nothing when the leading indent is
// suppressed.
func pad(indent int, suppress bool) string {
	if suppress || indent <= 0 {
		return emptyString
	}
	return strings.Repeat(" ", indent)
}

// decodeBytes decodes raw bytes as UTF-8, never failing: every invalid byte
// is replaced with a \xNN escape.
func decodeBytes(src []byte) string {
	if utf8.Valid(src) {
		return string(src)
	}
	var sb strings.Builder
	sb.Grow(len(src))
	for len(src) > 0 {
		r, size := utf8.DecodeRune(src)
		if r == utf8.RuneError && size == 1 {
			fmt.Fprintf(&sb, `\x%02x`, src[0])
			src = src[1:]
			continue
		}
		sb.WriteRune(r)
		src = src[size:]
	}
	return sb.String()
}
