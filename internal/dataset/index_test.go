package dataset

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"
)

// stubMatcher returns a fixed answer and records what it was asked.
type stubMatcher struct {
	match string
	score int
	calls int
	query string
}

func (m *stubMatcher) BestMatch(query string, candidates []string) (string, int) {
	m.calls++
	m.query = query
	return m.match, m.score
}

func testHeroes() HeroIndex {
	aug := func(hero, name string, rank int) AugmentRecord {
		return AugmentRecord{Name: name, Hero: hero, GlobalRank: rank, TierRank: rank}
	}
	return HeroIndex{
		"赵信":   {"a": aug("赵信", "a", 1)},
		"泽丽":   {"a": aug("泽丽", "a", 1)},
		"扎克":   {"a": aug("扎克", "a", 1)},
		"Ashe": {"a": aug("Ashe", "a", 1)},
		"空白":   {},
	}
}

func TestLoadAliases(t *testing.T) {
	path := writeFile(t, "pinyin.json", []byte(`{"泽丽":"zl","赵信":"zx","扎克":"zk","祖安狂人":"zl","泽丽 ":"ZL"}`))

	aliases, err := LoadAliases(path)
	if err != nil {
		t.Fatalf("LoadAliases failed: %v", err)
	}

	got, ok := aliases.Lookup("zl")
	if !ok || !reflect.DeepEqual(got, []string{"泽丽", "祖安狂人"}) {
		t.Errorf("zl: got %v, want [泽丽 祖安狂人] in file order without duplicates", got)
	}
	if got, ok := aliases.Lookup("赵信"); !ok || !reflect.DeepEqual(got, []string{"赵信"}) {
		t.Errorf("literal name should map to itself, got %v", got)
	}
	if _, ok := aliases.Lookup("nope"); ok {
		t.Error("unexpected hit for unknown key")
	}
}

func TestLoadAliases_Errors(t *testing.T) {
	for name, body := range map[string]string{
		"array":      `["zl"]`,
		"non string": `{"泽丽": 3}`,
		"truncated":  `{"泽丽": "zl"`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := LoadAliases(writeFile(t, "a.json", []byte(body)))
			if !errors.Is(err, ErrDataLoad) {
				t.Errorf("got %v, want ErrDataLoad", err)
			}
		})
	}

	_, err := LoadAliases(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, ErrDataLoad) {
		t.Errorf("missing file: got %v, want ErrDataLoad", err)
	}
}

func TestIndex_Search_MultiAliasIsExact(t *testing.T) {
	aliases := AliasIndex{}
	aliases.add("zl", "泽丽")
	aliases.add("zl", "扎克")
	m := &stubMatcher{match: "Ashe", score: 99}

	idx := NewIndex(testHeroes(), aliases, m)
	got, exact := idx.Search("zl")

	if !exact || !reflect.DeepEqual(got, []string{"泽丽", "扎克"}) {
		t.Errorf("Search(zl) = %v, %v; want both heroes, exact", got, exact)
	}
	if m.calls != 0 {
		t.Error("alias hit must not fall through to the matcher")
	}
}

func TestIndex_Search_CaseAndWhitespace(t *testing.T) {
	aliases := AliasIndex{}
	aliases.add("AB", "Ashe")
	idx := NewIndex(testHeroes(), aliases, &stubMatcher{})

	a, ea := idx.Search("  AB ")
	b, eb := idx.Search("ab")
	c, ec := idx.Search("ＡＢ") // fullwidth
	if !reflect.DeepEqual(a, b) || ea != eb || !reflect.DeepEqual(a, c) || ea != ec {
		t.Errorf("normalization mismatch: %v/%v %v/%v %v/%v", a, ea, b, eb, c, ec)
	}
	if !ea || len(a) != 1 || a[0] != "Ashe" {
		t.Errorf("got %v, %v", a, ea)
	}
}

func TestIndex_Search_Approximate(t *testing.T) {
	tests := []struct {
		name      string
		score     int
		wantHeros []string
	}{
		{"above threshold", 65, []string{"赵信"}},
		{"at threshold", 60, nil},
		{"below threshold", 12, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &stubMatcher{match: "赵信", score: tt.score}
			idx := NewIndex(testHeroes(), nil, m)

			got, exact := idx.Search(" ZaoX ")
			if exact {
				t.Error("approximate result must not be exact")
			}
			if !reflect.DeepEqual(got, tt.wantHeros) {
				t.Errorf("got %v, want %v", got, tt.wantHeros)
			}
			if m.query != "zaox" {
				t.Errorf("matcher saw %q, want normalized query", m.query)
			}
		})
	}
}

func TestIndex_Search_Idempotent(t *testing.T) {
	aliases := AliasIndex{}
	aliases.add("zx", "赵信")
	idx := NewIndex(testHeroes(), aliases, nil)

	for _, q := range []string{"zx", "ashe", "", "zzzzzz"} {
		a, ea := idx.Search(q)
		b, eb := idx.Search(q)
		if !reflect.DeepEqual(a, b) || ea != eb {
			t.Errorf("Search(%q) not idempotent: %v/%v vs %v/%v", q, a, ea, b, eb)
		}
	}

	// mutating a returned slice must not leak into the index
	a, _ := idx.Search("zx")
	a[0] = "x"
	if b, _ := idx.Search("zx"); b[0] != "赵信" {
		t.Errorf("index mutated through result: %v", b)
	}
}

func TestIndex_Search_Empty(t *testing.T) {
	idx := NewIndex(testHeroes(), nil, nil)
	if got, exact := idx.Search("   "); got != nil || exact {
		t.Errorf("blank query: got %v, %v", got, exact)
	}
}

func TestIndex_Canonical(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		match  string
		score  int
		want   string
		wantOK bool
	}{
		{"already a key", "Ashe", "", 0, "Ashe", true},
		{"recovered drift", "Ashe.", "Ashe", 90, "Ashe", true},
		{"score too low", "Ashe..", "Ashe", 80, "", false},
		{"match without data", "空白?", "空白", 95, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := NewIndex(testHeroes(), nil, &stubMatcher{match: tt.match, score: tt.score})
			got, ok := idx.Canonical(tt.in)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Canonical(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestIndex_HeroKeysSorted(t *testing.T) {
	idx := NewIndex(testHeroes(), nil, nil)
	keys := idx.HeroKeys()
	if len(keys) != 5 {
		t.Fatalf("got %d keys", len(keys))
	}
	for i := 1; i < len(keys); i++ {
		if keys[i-1] > keys[i] {
			t.Errorf("keys not sorted: %v", keys)
		}
	}
}
