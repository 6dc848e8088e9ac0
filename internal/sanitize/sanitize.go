// Package sanitize strips characters that may not appear in an XML 1.0 document.
package sanitize

import (
	"fmt"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// String returns s without the characters that are not legal in XML 1.0.
// Illegal code points and invalid UTF-8 sequences are dropped, never replaced.
func String(s string) string {
	if isClean(s) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if keep(r, size) {
			b.WriteString(s[i : i+size])
		}
		i += size
	}
	return b.String()
}

func isClean(s string) bool {
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !keep(r, size) {
			return false
		}
		i += size
	}
	return true
}

func keep(r rune, size int) bool {
	if r == utf8.RuneError && size <= 1 {
		return false
	}
	switch utf16.RuneLen(r) {
	case -1:
		return false
	case 1:
		return IsXMLChar(r)
	case 2:
		hi, lo := utf16.EncodeRune(r)
		return IsXMLSurrogatePair(hi, lo)
	default:
		panic(fmt.Sprintf("sanitize: unexpected UTF-16 length for %U", r))
	}
}

// IsXMLChar reports whether the single UTF-16 code unit c is a legal XML 1.0 character.
func IsXMLChar(c rune) bool {
	switch {
	case c == 0x9, c == 0xA, c == 0xD:
		return true
	case c >= 0x20 && c <= 0xD7FF:
		return true
	case c >= 0xE000 && c <= 0xFFFD:
		return true
	}
	return false
}

// IsXMLSurrogatePair reports whether hi and lo form a well-formed surrogate pair.
// Every supplementary character is legal in XML 1.0.
func IsXMLSurrogatePair(hi, lo rune) bool {
	return hi >= 0xD800 && hi <= 0xDBFF && lo >= 0xDC00 && lo <= 0xDFFF
}
