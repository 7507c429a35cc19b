package dataset

import (
	"sort"

	"github.com/ironsheep/hextech-overlay/internal/fuzzy"
)

// Score thresholds on the matcher's 0-100 scale. Matches must be strictly
// greater than the threshold.
const (
	SearchThreshold    = 60
	CanonicalThreshold = 80
)

// Index combines the hero index and alias index for hero selection.
type Index struct {
	heroes  HeroIndex
	aliases AliasIndex
	keys    []string
	matcher fuzzy.Matcher
}

// NewIndex builds a search index. aliases may be nil, which leaves search with
// approximate matching only. A nil matcher uses fuzzy.Levenshtein.
func NewIndex(heroes HeroIndex, aliases AliasIndex, matcher fuzzy.Matcher) *Index {
	if matcher == nil {
		matcher = fuzzy.Levenshtein{}
	}
	keys := make([]string, 0, len(heroes))
	for k := range heroes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return &Index{heroes: heroes, aliases: aliases, keys: keys, matcher: matcher}
}

// Heroes returns the hero index.
func (x *Index) Heroes() HeroIndex { return x.heroes }

// HeroKeys returns the sorted hero names. The slice must not be modified.
func (x *Index) HeroKeys() []string { return x.keys }

// Search resolves a player query to candidate heroes.
//
// An alias hit returns every hero registered under the key with exact=true,
// even when there are several; the caller disambiguates. Otherwise the best
// approximate match over hero names is returned with exact=false when it
// scores above SearchThreshold. No match returns (nil, false).
func (x *Index) Search(query string) ([]string, bool) {
	q := Normalize(query)
	if q == "" {
		return nil, false
	}

	if heroes, ok := x.aliases.Lookup(q); ok {
		out := make([]string, len(heroes))
		copy(out, heroes)
		return out, true
	}

	if len(x.keys) > 0 {
		best, score := x.matcher.BestMatch(q, x.keys)
		if score > SearchThreshold {
			return []string{best}, false
		}
	}
	return nil, false
}

// Canonical maps a selected name onto a hero key with augment data. A name that
// is already a key is returned unchanged; otherwise one approximate match above
// CanonicalThreshold is attempted, which recovers punctuation and spacing drift
// between the alias file and the dataset.
func (x *Index) Canonical(name string) (string, bool) {
	if x.heroes.Has(name) {
		return name, true
	}
	if len(x.keys) == 0 {
		return "", false
	}
	best, score := x.matcher.BestMatch(name, x.keys)
	if score > CanonicalThreshold && x.heroes.Has(best) {
		return best, true
	}
	return "", false
}
