// Package fuzzy scores approximate string matches on a 0-100 scale.
//
// The scorer is tuned for short labels: hero names, phonetic keys and augment
// names read back from OCR, where a character or two is commonly dropped,
// doubled or misread.
package fuzzy

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
)

// Matcher picks the best candidate for a query.
type Matcher interface {
	// BestMatch returns the highest scoring candidate and its score in [0,100].
	// Ties keep the earliest candidate. An empty candidate list returns ("", 0).
	BestMatch(query string, candidates []string) (string, int)
}

// Levenshtein is the default Matcher. It is stateless and safe for concurrent use.
type Levenshtein struct{}

// BestMatch implements Matcher.
func (Levenshtein) BestMatch(query string, candidates []string) (string, int) {
	best, bestScore := "", 0
	for i, c := range candidates {
		s := Score(query, c)
		if i == 0 || s > bestScore {
			best, bestScore = c, s
		}
	}
	return best, bestScore
}

// Score is a weighted ratio: the plain edit ratio, a partial ratio when one
// string is much longer than the other, and a token-sorted ratio. The best of
// the three wins.
func Score(a, b string) int {
	a, b = process(a), process(b)
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 100
	}

	best := ratio(a, b)

	la, lb := len([]rune(a)), len([]rune(b))
	lenRatio := float64(max(la, lb)) / float64(min(la, lb))
	if lenRatio >= 1.5 {
		scale := 0.9
		if lenRatio > 8 {
			scale = 0.6
		}
		best = math.Max(best, partialRatio(a, b)*scale)
	}

	best = math.Max(best, ratio(sortTokens(a), sortTokens(b))*0.95)
	return int(math.Round(best))
}

// ratio is 100 * (1 - distance/longest).
func ratio(a, b string) float64 {
	longest := max(len([]rune(a)), len([]rune(b)))
	if longest == 0 {
		return 0
	}
	d := levenshtein.ComputeDistance(a, b)
	return 100 * (1 - float64(d)/float64(longest))
}

// partialRatio slides the shorter string over the longer one and keeps the
// best window ratio.
func partialRatio(a, b string) float64 {
	short, long := []rune(a), []rune(b)
	if len(short) > len(long) {
		short, long = long, short
	}
	s := string(short)
	best := 0.0
	for i := 0; i+len(short) <= len(long); i++ {
		r := ratio(s, string(long[i:i+len(short)]))
		if r > best {
			best = r
			if best == 100 {
				break
			}
		}
	}
	return best
}

func sortTokens(s string) string {
	fields := strings.Fields(s)
	sort.Strings(fields)
	return strings.Join(fields, " ")
}

// process lowercases and replaces anything that is not a letter or digit with
// a space, then collapses whitespace.
func process(s string) string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, s)
	return strings.Join(strings.Fields(mapped), " ")
}
