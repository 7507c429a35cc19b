package analyzer

import (
	"errors"
	"fmt"

	"github.com/ironsheep/hextech-overlay/internal/dataset"
)

// Per-region failures. They are recorded in Result.Err and never returned
// from Analyze.
var (
	ErrCapture      = errors.New("capture failed")
	ErrNoText       = errors.New("no text")
	ErrNoHeroData   = errors.New("no data for hero")
	ErrUnrecognized = errors.New("unrecognized")
	ErrPanic        = errors.New("error")
)

// Result is the outcome of one region in one analysis cycle.
type Result struct {
	RegionKey string
	// Text is the display text: the matched augment name, or the failure
	// message when IsError is set.
	Text string
	// Recognized is the cleaned OCR output, empty when recognition did not run.
	Recognized string
	Augment    *dataset.AugmentRecord
	Tier       dataset.Tier
	TierRank   int
	GlobalRank int
	IsBest     bool
	IsError    bool
	Err        error
}

// Label renders the overlay text for the result.
func (r Result) Label() string {
	if r.IsError || r.Augment == nil {
		return r.Text
	}
	return fmt.Sprintf("[%s]\n%s No.%d\nOverall No.%d", r.Augment.Name, r.Tier, r.TierRank, r.GlobalRank)
}

// Results maps region key to that region's result.
type Results map[string]Result

// Best returns the keys of results flagged best, in region order.
func (rs Results) Best(order []Region) []string {
	var keys []string
	for _, reg := range order {
		if r, ok := rs[reg.Key]; ok && r.IsBest {
			keys = append(keys, reg.Key)
		}
	}
	return keys
}

func failed(key string, sentinel, cause error) Result {
	err := sentinel
	if cause != nil {
		err = fmt.Errorf("%w: %v", sentinel, cause)
	}
	return Result{RegionKey: key, Text: sentinel.Error(), IsError: true, Err: err}
}

func matched(key, recognized string, rec dataset.AugmentRecord) Result {
	return Result{
		RegionKey:  key,
		Text:       rec.Name,
		Recognized: recognized,
		Augment:    &rec,
		Tier:       rec.Tier,
		TierRank:   rec.TierRank,
		GlobalRank: rec.GlobalRank,
	}
}

// markBest flags every non-error result holding the lowest global rank.
func markBest(rs Results) {
	lowest, found := 0, false
	for _, r := range rs {
		if r.IsError {
			continue
		}
		if !found || r.GlobalRank < lowest {
			lowest, found = r.GlobalRank, true
		}
	}
	if !found {
		return
	}
	for k, r := range rs {
		if !r.IsError && r.GlobalRank == lowest {
			r.IsBest = true
			rs[k] = r
		}
	}
}
