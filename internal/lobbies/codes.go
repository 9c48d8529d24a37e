package lobbies

import (
	"math/rand/v2"
	"strings"
)

// Codes use uppercase letters plus digits; players type these by hand when
// joining a friend's lobby.
const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// DefaultCodeLength is used when the store config leaves the length unset.
const DefaultCodeLength = 5

func newCode(rng *rand.Rand, length int) string {
	var b strings.Builder
	b.Grow(length)
	for range length {
		b.WriteByte(codeAlphabet[rng.IntN(len(codeAlphabet))])
	}
	return b.String()
}

func randomLetter(rng *rand.Rand) string {
	return string(letters[rng.IntN(len(letters))])
}
