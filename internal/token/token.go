// Package token generates cryptographically secure random verification-code
// tokens. Tokens are short, human-enterable strings drawn from an unambiguous
// uppercase alphanumeric alphabet.
package token

import "crypto/rand"

const (
	// CodeLen is the length of a verification-code token.
	CodeLen = 8

	// maxByteValue is the maximum value of a byte (2^8 - 1).
	maxByteValue = 255

	// byteRange is the total number of possible byte values (2^8).
	byteRange = 256
)

// Chars is the 36-symbol alphabet verification-code tokens are drawn from.
var Chars = []byte("ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")

// NewCode returns a new random verification-code token of CodeLen characters.
func NewCode() string {
	return NewLenChars(CodeLen, Chars)
}

// NewLenChars returns a new random string of the provided length, consisting
// of the provided byte slice of allowed characters (maximum 256).
// Random bytes above the largest multiple of the charset size are rejected
// to avoid modulo bias.
func NewLenChars(length int, chars []byte) string {
	if length == 0 {
		return ""
	}

	clen := len(chars)
	if clen < 2 || clen > byteRange {
		panic("token: wrong charset length for NewLenChars")
	}

	maxRb := maxByteValue - (byteRange % clen)
	buf := make([]byte, length+length/2) // request some spare bytes for rejected values
	out := make([]byte, length)

	var i int
	for {
		if _, err := rand.Read(buf); err != nil {
			panic("token: error reading random bytes: " + err.Error())
		}

		for _, rb := range buf {
			c := int(rb)
			if c > maxRb {
				// Skip this number to avoid modulo bias.
				continue
			}

			out[i] = chars[c%clen]
			i++

			if i == length {
				return string(out)
			}
		}
	}
}
