package uritemplate

import (
	"strings"
	"unicode/utf8"
)

const upperhex = "0123456789ABCDEF"

func ishex(c byte) bool {
	switch {
	case '0' <= c && c <= '9':
		return true
	case 'a' <= c && c <= 'f':
		return true
	case 'A' <= c && c <= 'F':
		return true
	}

	return false
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10
	}

	return 0
}

// isPercentEncoded reports whether s starts with a "%XX" triplet.
func isPercentEncoded(s string) bool {
	return len(s) >= 3 && s[0] == '%' && ishex(s[1]) && ishex(s[2])
}

// https://www.rfc-editor.org/rfc/rfc6570#section-3.2.1
//
// percentEncode escapes every code point of s that is not in safe as the
// "%XX" triplets of its UTF-8 bytes. When keepEncoded is true, triplets
// already present in s are copied as is instead of having their "%" escaped.
func percentEncode(s string, keepEncoded bool, safe CharacterType) string {
	// Find the first code point needing an escape.
	var i int
	for i < len(s) {
		if keepEncoded && isPercentEncoded(s[i:]) {
			i += 3
			continue
		}

		r, size := utf8.DecodeRuneInString(s[i:])
		if !isSafe(r, size, safe) {
			break
		}
		i += size
	}
	// Nothing to escape, so return original string.
	if i >= len(s) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 2*(len(s)-i))
	b.WriteString(s[:i])

	for i < len(s) {
		if keepEncoded && isPercentEncoded(s[i:]) {
			b.WriteString(s[i : i+3])
			i += 3

			continue
		}

		r, size := utf8.DecodeRuneInString(s[i:])
		if isSafe(r, size, safe) {
			b.WriteString(s[i : i+size])
			i += size

			continue
		}

		// Invalid sequences are a single byte, escaped like any other.
		for j := i; j < i+size; j++ {
			b.WriteByte('%')
			b.WriteByte(upperhex[s[j]>>4])
			b.WriteByte(upperhex[s[j]&15])
		}
		i += size
	}

	return b.String()
}

func isSafe(r rune, size int, safe CharacterType) bool {
	if r == utf8.RuneError && size <= 1 {
		return false
	}

	return safe.Contains(r)
}

// https://www.rfc-editor.org/rfc/rfc6570#section-2.4.1
//
// truncateEncoded returns the first n characters of an already encoded
// string. Percent-encoded triplets are never split: a triplet counts as one
// character, and so do the triplets of a whole UTF-8 encoded code point.
func truncateEncoded(s string, n int) string {
	var i, taken int
	for ; i < len(s) && taken < n; taken++ {
		if !isPercentEncoded(s[i:]) {
			_, size := utf8.DecodeRuneInString(s[i:])
			i += size

			continue
		}

		lead := unhex(s[i+1])<<4 | unhex(s[i+2])
		i += 3

		for continuation := utf8SequenceLength(lead) - 1; continuation > 0; continuation-- {
			if !isPercentEncoded(s[i:]) {
				break
			}

			if c := unhex(s[i+1])<<4 | unhex(s[i+2]); c&0xC0 != 0x80 {
				break
			}
			i += 3
		}
	}

	return s[:i]
}

// utf8SequenceLength returns the length of the UTF-8 sequence started by the
// lead byte b, or 1 if b cannot start a multi-byte sequence.
func utf8SequenceLength(b byte) int {
	switch {
	case b&0xE0 == 0xC0:
		return 2
	case b&0xF0 == 0xE0:
		return 3
	case b&0xF8 == 0xF0:
		return 4
	}

	return 1
}
