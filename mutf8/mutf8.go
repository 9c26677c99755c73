// Package mutf8 implements the modified UTF-8 encoding used by the NBT
// wire format.
//
// Modified UTF-8 differs from standard UTF-8 in two ways:
//   - U+0000 is encoded as the two-byte sequence C0 80, so encoded
//     strings never contain a zero byte.
//   - Code points outside the Basic Multilingual Plane are encoded as a
//     UTF-16 surrogate pair, each half as a three-byte sequence (CESU-8),
//     never as a four-byte sequence.
//
// Substituting standard UTF-8 works for most real-world strings but
// breaks on embedded nulls and supplementary-plane characters.
package mutf8

import (
	"fmt"
	"unicode/utf16"
	"unicode/utf8"
)

// InvalidEncodingError is returned by Decode on a malformed byte sequence.
type InvalidEncodingError struct {
	Offset int // byte offset of the offending sequence
}

func (e *InvalidEncodingError) Error() string {
	return fmt.Sprintf("mutf8: invalid byte sequence at offset %d", e.Offset)
}

// Encode converts s to its modified UTF-8 representation.
// The result carries no length prefix; callers prepend one as needed.
func Encode(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		switch {
		case r == 0:
			out = append(out, 0xC0, 0x80)
		case r < 0x80:
			out = append(out, byte(r))
		case r < 0x800:
			out = append(out, 0xC0|byte(r>>6), 0x80|byte(r&0x3F))
		case r < 0x10000:
			out = append(out, 0xE0|byte(r>>12), 0x80|byte(r>>6&0x3F), 0x80|byte(r&0x3F))
		default:
			hi, lo := utf16.EncodeRune(r)
			out = appendBMP(out, hi)
			out = appendBMP(out, lo)
		}
	}
	return out
}

func appendBMP(out []byte, r rune) []byte {
	return append(out, 0xE0|byte(r>>12), 0x80|byte(r>>6&0x3F), 0x80|byte(r&0x3F))
}

// EncodedLen returns the number of bytes Encode would produce for s.
func EncodedLen(s string) int {
	n := 0
	for _, r := range s {
		switch {
		case r == 0:
			n += 2
		case r < 0x80:
			n++
		case r < 0x800:
			n += 2
		case r < 0x10000:
			n += 3
		default:
			n += 6
		}
	}
	return n
}

// Decode converts a modified UTF-8 byte sequence to a string.
//
// Decoding is lenient the same way the reference JVM decoder is: overlong
// two- and three-byte sequences are accepted. Truncated sequences, four-byte
// sequences, and unpaired surrogates are rejected.
func Decode(b []byte) (string, error) {
	var sb []byte
	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c < 0x80:
			sb = append(sb, c)
			i++
		case c&0xE0 == 0xC0:
			if i+1 >= len(b) || b[i+1]&0xC0 != 0x80 {
				return "", &InvalidEncodingError{Offset: i}
			}
			r := rune(c&0x1F)<<6 | rune(b[i+1]&0x3F)
			sb = utf8.AppendRune(sb, r)
			i += 2
		case c&0xF0 == 0xE0:
			r, err := decodeTriple(b, i)
			if err != nil {
				return "", err
			}
			if utf16.IsSurrogate(r) {
				// A high surrogate must be followed by a second
				// three-byte sequence holding the low half.
				r2, err := decodeTriple(b, i+3)
				if err != nil {
					return "", &InvalidEncodingError{Offset: i}
				}
				full := utf16.DecodeRune(r, r2)
				if full == utf8.RuneError {
					return "", &InvalidEncodingError{Offset: i}
				}
				sb = utf8.AppendRune(sb, full)
				i += 6
				continue
			}
			sb = utf8.AppendRune(sb, r)
			i += 3
		default:
			// 4-byte UTF-8 sequences do not occur in modified UTF-8.
			return "", &InvalidEncodingError{Offset: i}
		}
	}
	return string(sb), nil
}

func decodeTriple(b []byte, i int) (rune, error) {
	if i+2 >= len(b) || b[i]&0xF0 != 0xE0 || b[i+1]&0xC0 != 0x80 || b[i+2]&0xC0 != 0x80 {
		return 0, &InvalidEncodingError{Offset: i}
	}
	return rune(b[i]&0x0F)<<12 | rune(b[i+1]&0x3F)<<6 | rune(b[i+2]&0x3F), nil
}
