// Package htmlentity rewrites text into the entity-escaped form the book
// cover service expects in its query string.
package htmlentity

import (
	"strconv"
	"strings"
)

// Escape replaces every character outside 7-bit ASCII with its HTML 4 named
// entity (&eacute;) when one exists, otherwise with a decimal numeric
// reference (&#8364; style). ASCII characters are kept as they are.
func Escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x80 {
			b.WriteRune(r)
			continue
		}
		b.WriteByte('&')
		if name, ok := names[r]; ok {
			b.WriteString(name)
		} else {
			b.WriteByte('#')
			b.WriteString(strconv.Itoa(int(r)))
		}
		b.WriteByte(';')
	}
	return b.String()
}

// EncodeQueryValue escapes s and then turns every space into '+'.
func EncodeQueryValue(s string) string {
	return strings.ReplaceAll(Escape(s), " ", "+")
}

// Name returns the HTML 4 entity name for r, if it has one above ASCII.
func Name(r rune) (string, bool) {
	name, ok := names[r]
	return name, ok
}
