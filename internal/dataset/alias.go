package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/width"
)

// AliasIndex maps a normalized lookup key to the heroes it names, in the order
// they were first seen. Read-only after LoadAliases returns.
type AliasIndex map[string][]string

// Lookup returns the heroes registered under the normalized form of key.
func (a AliasIndex) Lookup(key string) ([]string, bool) {
	heroes, ok := a[Normalize(key)]
	return heroes, ok && len(heroes) > 0
}

func (a AliasIndex) add(key, hero string) {
	key = Normalize(key)
	if key == "" {
		return
	}
	for _, h := range a[key] {
		if h == hero {
			return
		}
	}
	a[key] = append(a[key], hero)
}

// LoadAliases reads the alias dictionary ({hero: key}). Both the hero name and
// its key become lookup keys for the hero. Entries are registered in file
// order so multi-hero keys list heroes as the file does.
func LoadAliases(path string) (AliasIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: alias dictionary %s: %v", ErrDataLoad, path, err)
	}

	pairs, err := orderedPairs(bytes.TrimPrefix(data, utf8BOM))
	if err != nil {
		return nil, fmt.Errorf("%w: alias dictionary %s: %v", ErrDataLoad, path, err)
	}

	idx := make(AliasIndex, len(pairs)*2)
	for _, p := range pairs {
		hero := strings.TrimSpace(p[0])
		if hero == "" {
			continue
		}
		idx.add(p[1], hero)
		idx.add(hero, hero)
	}
	return idx, nil
}

// orderedPairs decodes a flat JSON object of strings keeping key order, which
// encoding/json maps would lose.
func orderedPairs(data []byte) ([][2]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected a JSON object")
	}

	var pairs [][2]string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := tok.(string)

		var val string
		if err := dec.Decode(&val); err != nil {
			return nil, fmt.Errorf("value for %q: %w", key, err)
		}
		pairs = append(pairs, [2]string{key, val})
	}
	tok, err = dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '}' {
		return nil, fmt.Errorf("unterminated JSON object")
	}
	return pairs, nil
}

// Normalize prepares a query or key for lookup: fullwidth forms folded to
// ASCII (IME input), lowercased, surrounding whitespace trimmed.
func Normalize(s string) string {
	s = width.Fold.String(s)
	s = cases.Lower(language.Und).String(s)
	return strings.TrimSpace(s)
}
