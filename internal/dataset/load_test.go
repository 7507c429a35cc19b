package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"golang.org/x/text/encoding/simplifiedchinese"
)

// writeFile writes body under a fresh temp dir and returns its path.
func writeFile(t *testing.T, name string, body []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

const sampleCSV = `hero,id,seq,augment
H,Hero,7,g3
H,Hero,2,g1
H,Hero,5,g2
H,Hero,1,s1
H,Hero,3,u1
H,Hero,4,p1
H,Hero,6,s2
`

func sampleTiers() map[string]Tier {
	return map[string]Tier{
		"g1": TierGold, "g2": TierGold, "g3": TierGold,
		"s1": TierSilver, "s2": TierSilver,
		"p1": TierPrismatic,
	}
}

func TestLoad_TierRanks(t *testing.T) {
	path := writeFile(t, "augments.csv", []byte(sampleCSV))

	idx, stats, err := Load(path, sampleTiers())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if stats.Heroes != 1 || stats.Augments != 7 || stats.Skipped != 0 {
		t.Errorf("unexpected stats: %+v", stats)
	}

	want := map[string]struct {
		tier   Tier
		global int
		tierNo int
	}{
		"s1": {TierSilver, 1, 1},
		"g1": {TierGold, 2, 1},
		"u1": {TierUnknown, 3, 1},
		"p1": {TierPrismatic, 4, 1},
		"g2": {TierGold, 5, 2},
		"s2": {TierSilver, 6, 2},
		"g3": {TierGold, 7, 3},
	}

	augs, ok := idx.Augments("H")
	if !ok {
		t.Fatal("hero H missing")
	}
	for name, w := range want {
		got, ok := augs[name]
		if !ok {
			t.Errorf("augment %s missing", name)
			continue
		}
		if got.Tier != w.tier || got.GlobalRank != w.global || got.TierRank != w.tierNo || got.Hero != "H" {
			t.Errorf("%s: got %+v, want tier=%v global=%d tier_rank=%d", name, got, w.tier, w.global, w.tierNo)
		}
	}
}

// Within one hero and tier, tier ranks start at 1 and follow global rank order
// without gaps.
func TestLoad_TierRankProperty(t *testing.T) {
	path := writeFile(t, "augments.csv", []byte(sampleCSV+`J,J,10,g1
J,J,3,g2
J,J,8,s1
J,J,1,g3
`))
	idx, _, err := Load(path, sampleTiers())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	for hero, augs := range idx {
		byTier := map[Tier][]AugmentRecord{}
		for _, a := range augs {
			byTier[a.Tier] = append(byTier[a.Tier], a)
		}
		for tier, list := range byTier {
			sort.Slice(list, func(i, j int) bool { return list[i].GlobalRank < list[j].GlobalRank })
			for i, a := range list {
				if a.TierRank != i+1 {
					t.Errorf("%s/%s: %s has tier rank %d, want %d", hero, tier, a.Name, a.TierRank, i+1)
				}
			}
		}
	}
}

func TestLoad_SkipsMalformedRows(t *testing.T) {
	path := writeFile(t, "augments.csv", []byte(`hero,id,seq,augment
H,Hero,1,a
H,Hero,x,b
H,Hero
,Hero,2,c
H,Hero,3,
H,Hero,4,d
`))
	idx, stats, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if stats.Skipped != 4 {
		t.Errorf("skipped: got %d, want 4", stats.Skipped)
	}
	augs, _ := idx.Augments("H")
	if len(augs) != 2 {
		t.Fatalf("augments: got %d, want 2", len(augs))
	}
	if augs["d"].TierRank != 2 || augs["d"].Tier != TierUnknown {
		t.Errorf("d: got %+v", augs["d"])
	}
}

func TestLoad_DuplicateKeepsBestRank(t *testing.T) {
	path := writeFile(t, "augments.csv", []byte("h,i,s,a\nH,Hero,9,a\nH,Hero,2,a\nH,Hero,5,b\n"))
	idx, stats, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if stats.Duplicates != 1 {
		t.Errorf("duplicates: got %d, want 1", stats.Duplicates)
	}
	if got := idx["H"]["a"]; got.GlobalRank != 2 || got.TierRank != 1 {
		t.Errorf("a: got %+v", got)
	}
	if got := idx["H"]["b"]; got.TierRank != 2 {
		t.Errorf("b: got %+v", got)
	}
}

func TestLoad_BOMAndGBK(t *testing.T) {
	body := "英雄,id,序号,海克斯\n赵信,XinZhao,1,火力全开\n"

	bom := writeFile(t, "bom.csv", append([]byte{0xEF, 0xBB, 0xBF}, body...))
	idx, stats, err := Load(bom, nil)
	if err != nil {
		t.Fatalf("Load(bom) failed: %v", err)
	}
	if stats.GBKFallback || !idx.Has("赵信") {
		t.Errorf("bom: stats=%+v heroes=%v", stats, idx)
	}

	gbk, err := simplifiedchinese.GBK.NewEncoder().String(body)
	if err != nil {
		t.Fatalf("encode gbk: %v", err)
	}
	idx, stats, err = Load(writeFile(t, "gbk.csv", []byte(gbk)), nil)
	if err != nil {
		t.Fatalf("Load(gbk) failed: %v", err)
	}
	if !stats.GBKFallback {
		t.Error("expected GBK fallback")
	}
	if _, ok := idx["赵信"]["火力全开"]; !ok {
		t.Errorf("gbk decode lost names: %v", idx)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{"missing", func(t *testing.T) string { return filepath.Join(t.TempDir(), "none.csv") }},
		{"header only", func(t *testing.T) string { return writeFile(t, "a.csv", []byte("h,i,s,a\n")) }},
		{"empty", func(t *testing.T) string { return writeFile(t, "a.csv", nil) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Load(tt.path(t), nil)
			if !errors.Is(err, ErrDataLoad) {
				t.Errorf("got %v, want ErrDataLoad", err)
			}
		})
	}
}

func TestLoadTiers(t *testing.T) {
	path := writeFile(t, "tiers.json", []byte(`{"silver":["s1"," "],"gold":["g1"],"prismatic":["p1"],"mythic":["m1"]}`))
	tiers, err := LoadTiers(path)
	if err != nil {
		t.Fatalf("LoadTiers failed: %v", err)
	}
	if len(tiers) != 3 || tiers["s1"] != TierSilver || tiers["g1"] != TierGold || tiers["p1"] != TierPrismatic {
		t.Errorf("unexpected tiers: %v", tiers)
	}
}

func TestLoadTiers_MissingDegrades(t *testing.T) {
	tiers, err := LoadTiers(filepath.Join(t.TempDir(), "tiers.json"))
	if err != nil {
		t.Fatalf("missing tier file should not fail: %v", err)
	}
	if len(tiers) != 0 {
		t.Errorf("expected empty map, got %v", tiers)
	}

	tiers, err = LoadTiers("")
	if err != nil || len(tiers) != 0 {
		t.Errorf("disabled tier file: %v %v", tiers, err)
	}
}

func TestLoadTiers_Unparsable(t *testing.T) {
	_, err := LoadTiers(writeFile(t, "tiers.json", []byte(`["gold"]`)))
	if !errors.Is(err, ErrDataLoad) {
		t.Errorf("got %v, want ErrDataLoad", err)
	}
}

func TestTier_String(t *testing.T) {
	if TierGold.String() != "Gold" || Tier(42).String() != "Unknown" {
		t.Errorf("unexpected names: %s %s", TierGold, Tier(42))
	}
	if tier, ok := ParseTier(" Prismatic "); !ok || tier != TierPrismatic {
		t.Errorf("ParseTier: got %v %v", tier, ok)
	}
}
