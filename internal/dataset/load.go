package dataset

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/simplifiedchinese"
)

// utf8BOM is stripped from dataset files exported by spreadsheet tools.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// LoadStats describes what Load kept and dropped.
type LoadStats struct {
	Heroes      int
	Augments    int
	Skipped     int
	Duplicates  int
	GBKFallback bool
}

// Load reads the ranking dataset at path and builds the hero index.
//
// Parameters:
//   - path: a CSV file whose first row is a header. Columns are hero, (unused),
//     global rank and augment name; extra columns are ignored.
//   - tiers: augment name to tier, may be nil. Names without an entry get
//     TierUnknown.
//
// Returns:
//   - HeroIndex: hero to augment name to record.
//   - LoadStats: row counts, including skipped rows and duplicates.
//   - error: wraps ErrDataLoad if the file cannot be read or decoded, or has
//     no usable row.
//
// # Encoding
//
// The file is read as UTF-8, with or without a byte order mark. Content that
// is not valid UTF-8 is decoded as GBK and LoadStats.GBKFallback is set.
//
// # Ranks
//
// Rows with fewer than four columns, a blank hero or name, or a non-integer
// rank are skipped. Each hero's rows are sorted by global rank; a repeated
// augment keeps its best ranked row. TierRank then counts from 1 within each
// tier in that order.
func Load(path string, tiers map[string]Tier) (HeroIndex, LoadStats, error) {
	var stats LoadStats

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, stats, fmt.Errorf("%w: ranking dataset %s: %v", ErrDataLoad, path, err)
	}

	data, stats.GBKFallback, err = decodeText(data)
	if err != nil {
		return nil, stats, fmt.Errorf("%w: ranking dataset %s: %v", ErrDataLoad, path, err)
	}

	type row struct {
		rank int
		name string
	}
	raw := make(map[string][]row)

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header := true
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				stats.Skipped++
				continue
			}
			return nil, stats, fmt.Errorf("%w: ranking dataset %s: %v", ErrDataLoad, path, err)
		}
		if header {
			header = false
			continue
		}
		if len(rec) < 4 {
			stats.Skipped++
			continue
		}
		hero := strings.TrimSpace(rec[0])
		name := strings.TrimSpace(rec[3])
		rank, err := strconv.Atoi(strings.TrimSpace(rec[2]))
		if hero == "" || name == "" || err != nil {
			stats.Skipped++
			continue
		}
		raw[hero] = append(raw[hero], row{rank: rank, name: name})
	}

	if len(raw) == 0 {
		return nil, stats, fmt.Errorf("%w: ranking dataset %s has no usable rows", ErrDataLoad, path)
	}

	idx := make(HeroIndex, len(raw))
	for hero, rows := range raw {
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].rank < rows[j].rank })

		counters := make(map[Tier]int, 4)
		augs := make(map[string]AugmentRecord, len(rows))
		for _, rw := range rows {
			// first (best ranked) occurrence wins
			if _, dup := augs[rw.name]; dup {
				stats.Duplicates++
				continue
			}
			tier := tiers[rw.name]
			counters[tier]++
			augs[rw.name] = AugmentRecord{
				Name:       rw.name,
				Hero:       hero,
				Tier:       tier,
				GlobalRank: rw.rank,
				TierRank:   counters[tier],
			}
		}
		idx[hero] = augs
		stats.Augments += len(augs)
	}
	stats.Heroes = len(idx)

	return idx, stats, nil
}

// LoadTiers reads the tier dictionary. A missing file is not an error: it
// returns an empty map so every augment falls back to TierUnknown. Unknown tier
// keys in the file are ignored.
func LoadTiers(path string) (map[string]Tier, error) {
	tiers := make(map[string]Tier)
	if path == "" {
		return tiers, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return tiers, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: tier dictionary %s: %v", ErrDataLoad, path, err)
	}

	var byTier map[string][]string
	if err := json.Unmarshal(bytes.TrimPrefix(data, utf8BOM), &byTier); err != nil {
		return nil, fmt.Errorf("%w: tier dictionary %s: %v", ErrDataLoad, path, err)
	}

	// fixed order so an augment listed under two tiers resolves deterministically
	for _, key := range []string{"silver", "gold", "prismatic"} {
		tier, _ := ParseTier(key)
		for _, name := range byTier[key] {
			if name = strings.TrimSpace(name); name != "" {
				tiers[name] = tier
			}
		}
	}
	return tiers, nil
}

// decodeText strips a UTF-8 BOM, or converts GBK input (common for files
// saved by Chinese-locale spreadsheet tools) to UTF-8.
func decodeText(data []byte) ([]byte, bool, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return data, false, nil
	}
	out, err := simplifiedchinese.GBK.NewDecoder().Bytes(data)
	if err != nil {
		return nil, false, fmt.Errorf("neither UTF-8 nor GBK: %w", err)
	}
	return out, true, nil
}
