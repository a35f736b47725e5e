package session

import (
	crypto_rand "crypto/rand"
	"strings"
)

const base62Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// newID generates a prefixed random base62 identifier, e.g. ses_Ab3xY9….
// Uses rejection sampling so every character is uniformly distributed.
func newID(prefix string, length int) string {
	var out strings.Builder
	out.WriteString(prefix)
	out.WriteByte('_')

	buf := make([]byte, length*2)
	for out.Len() < len(prefix)+1+length {
		if _, err := crypto_rand.Read(buf); err != nil {
			panic("failed to read random bytes: " + err.Error())
		}
		for _, b := range buf {
			v := b & 0x3f
			if v < 62 {
				out.WriteByte(base62Alphabet[v])
				if out.Len() == len(prefix)+1+length {
					break
				}
			}
		}
	}
	return out.String()
}
