package charset

import (
	"fmt"
	"sort"
	"strings"
)

// Unicode ranges for the Japanese character sets (inclusive bounds).
const (
	HiraganaFirst rune = 0x3041
	HiraganaLast  rune = 0x3096
	KatakanaFirst rune = 0x30A1
	KatakanaLast  rune = 0x30F6
	KanjiFirst    rune = 0x4E00
	KanjiLast     rune = 0x9FA5
)

const (
	asciiLetters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits       = "0123456789"
)

// Options selects which character sets are included in an Alphabet.
type Options struct {
	Alphabet bool `json:"alphabet"` // ASCII letters a-z, A-Z
	Digits   bool `json:"digits"`   // 0-9
	Hiragana bool `json:"hiragana"` // U+3041..U+3096
	Katakana bool `json:"katakana"` // U+30A1..U+30F6
	Kanji    bool `json:"kanji"`    // U+4E00..U+9FA5
}

// DefaultOptions returns the letters-only selection.
func DefaultOptions() Options {
	return Options{Alphabet: true}
}

// setNames maps the names accepted by ParseOptions to their toggles.
var setNames = map[string]func(*Options){
	"alphabet": func(o *Options) { o.Alphabet = true },
	"digits":   func(o *Options) { o.Digits = true },
	"hiragana": func(o *Options) { o.Hiragana = true },
	"katakana": func(o *Options) { o.Katakana = true },
	"kanji":    func(o *Options) { o.Kanji = true },
}

// ParseOptions parses a comma-separated list of character set names such as
// "alphabet,digits,kanji". Names are case-insensitive and surrounding spaces
// are ignored. An empty string selects nothing.
func ParseOptions(s string) (Options, error) {
	var opts Options
	for _, part := range strings.Split(s, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		set, ok := setNames[name]
		if !ok {
			return Options{}, fmt.Errorf("unknown character set %q (valid: %s)", name, strings.Join(SetNames(), ", "))
		}
		set(&opts)
	}
	return opts, nil
}

// SetNames returns the accepted character set names in sorted order.
func SetNames() []string {
	names := make([]string, 0, len(setNames))
	for name := range setNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Alphabet is an ordered, immutable sequence of characters eligible for
// sampling. Duplicates are allowed and are not removed.
type Alphabet struct {
	runes []rune
}

// Build assembles the Alphabet selected by opts. All toggles false yields an
// empty Alphabet; that is not an error here, but sampling from it is.
func Build(opts Options) Alphabet {
	var runes []rune

	if opts.Alphabet {
		runes = append(runes, []rune(asciiLetters)...)
	}
	if opts.Digits {
		runes = append(runes, []rune(digits)...)
	}
	if opts.Hiragana {
		runes = appendRange(runes, HiraganaFirst, HiraganaLast)
	}
	if opts.Katakana {
		runes = appendRange(runes, KatakanaFirst, KatakanaLast)
	}
	if opts.Kanji {
		runes = appendRange(runes, KanjiFirst, KanjiLast)
	}

	return Alphabet{runes: runes}
}

// FromString returns an Alphabet holding the runes of s in order.
func FromString(s string) Alphabet {
	return Alphabet{runes: []rune(s)}
}

func appendRange(runes []rune, first, last rune) []rune {
	for r := first; r <= last; r++ {
		runes = append(runes, r)
	}
	return runes
}

// Len returns the number of characters in the alphabet.
func (a Alphabet) Len() int { return len(a.runes) }

// Empty reports whether the alphabet has no characters.
func (a Alphabet) Empty() bool { return len(a.runes) == 0 }

// At returns the i-th character.
func (a Alphabet) At(i int) rune { return a.runes[i] }

// Runes returns a copy of the characters in order.
func (a Alphabet) Runes() []rune {
	out := make([]rune, len(a.runes))
	copy(out, a.runes)
	return out
}

// Contains reports whether r is part of the alphabet.
func (a Alphabet) Contains(r rune) bool {
	for _, c := range a.runes {
		if c == r {
			return true
		}
	}
	return false
}

// String returns the characters concatenated.
func (a Alphabet) String() string { return string(a.runes) }
