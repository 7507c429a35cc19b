package dataset

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDataLoad marks a dataset, tier or alias file that is missing or unparsable.
var ErrDataLoad = errors.New("data load failed")

// Tier is the rarity class of an augment.
type Tier int

const (
	TierUnknown Tier = iota
	TierSilver
	TierGold
	TierPrismatic
)

var tierNames = [...]string{"Unknown", "Silver", "Gold", "Prismatic"}

func (t Tier) String() string {
	if t < 0 || int(t) >= len(tierNames) {
		return tierNames[TierUnknown]
	}
	return tierNames[t]
}

// ParseTier accepts the tier dictionary keys ("silver", "gold", "prismatic"),
// case-insensitively.
func ParseTier(s string) (Tier, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "silver":
		return TierSilver, true
	case "gold":
		return TierGold, true
	case "prismatic":
		return TierPrismatic, true
	}
	return TierUnknown, false
}

// AugmentRecord is one ranked augment for one hero.
type AugmentRecord struct {
	Name       string `json:"name"`
	Hero       string `json:"hero"`
	Tier       Tier   `json:"tier"`
	GlobalRank int    `json:"global_rank"`
	TierRank   int    `json:"tier_rank"`
}

func (r AugmentRecord) String() string {
	return fmt.Sprintf("%s/%s (%s No.%d, overall No.%d)", r.Hero, r.Name, r.Tier, r.TierRank, r.GlobalRank)
}

// HeroIndex maps hero name to that hero's augments keyed by augment name.
// It is read-only after Load returns.
type HeroIndex map[string]map[string]AugmentRecord

// Augments returns the augment set for hero.
func (h HeroIndex) Augments(hero string) (map[string]AugmentRecord, bool) {
	augs, ok := h[hero]
	return augs, ok && len(augs) > 0
}

// Has reports whether hero has augment data.
func (h HeroIndex) Has(hero string) bool {
	_, ok := h.Augments(hero)
	return ok
}
