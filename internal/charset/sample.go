package charset

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// ErrEmptyAlphabet is returned when a non-empty string is requested from an
// alphabet with no characters.
var ErrEmptyAlphabet = errors.New("empty alphabet")

// Sample draws length characters from a, uniformly and with replacement.
//
// A length of zero always yields "" without consulting rng. A negative length
// is an error, as is a positive length with an empty alphabet.
func Sample(rng *rand.Rand, a Alphabet, length int) (string, error) {
	if length < 0 {
		return "", fmt.Errorf("invalid text length %d", length)
	}
	if length == 0 {
		return "", nil
	}
	if a.Empty() {
		return "", fmt.Errorf("cannot sample %d characters: %w", length, ErrEmptyAlphabet)
	}

	out := make([]rune, length)
	for i := range out {
		out[i] = a.runes[rng.IntN(len(a.runes))]
	}
	return string(out), nil
}
