// Package charset builds the character sets used for random text sampling.
//
// An Alphabet is assembled once from a set of toggles and never changes
// afterwards. Characters are appended in a fixed order, regardless of the
// order in which the toggles are given:
//
//  1. ASCII letters, lowercase then uppercase (a-z, A-Z)
//  2. Digits (0-9)
//  3. Hiragana (U+3041 to U+3096)
//  4. Katakana (U+30A1 to U+30F6)
//  5. Kanji / CJK Unified Ideographs (U+4E00 to U+9FA5)
//
// # Sampling
//
// Sample draws characters independently and uniformly, with replacement. The
// random source is passed in by the caller so that a fixed seed reproduces the
// same strings:
//
//	rng := rand.New(rand.NewPCG(1, 2))
//	a := charset.Build(charset.Options{Alphabet: true, Digits: true})
//	text, err := charset.Sample(rng, a, 8)
//
// An empty alphabet cannot produce a non-empty string; Sample reports
// ErrEmptyAlphabet instead of returning an empty or short result.
package charset
