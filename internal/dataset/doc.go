// Package dataset loads and indexes the augment ranking data.
//
// Three inputs feed the index:
//
//   - The ranking dataset, a CSV with a header row and the columns
//     hero name, hero id, sequence number, augment name. The sequence number is
//     the hero-specific global rank (1 = most desirable). Malformed rows are
//     skipped one by one; the load only fails when the file itself cannot be
//     read or yields no usable row.
//   - The optional tier dictionary, JSON of the form
//     {"silver": [...], "gold": [...], "prismatic": [...]}. Augments missing
//     from it get TierUnknown.
//   - The optional alias dictionary, JSON mapping hero name to a phonetic key
//     (typically pinyin initials). Several heroes may share one key.
//
// # Ranks
//
// For each hero the augments are sorted by global rank and a tier rank is
// assigned per tier, starting at 1, in that order. For a hero whose sorted
// Gold augments have global ranks [2, 5, 7] the tier ranks are [1, 2, 3].
//
// # Concurrency
//
// HeroIndex, AliasIndex and Index are immutable once built and are shared by
// reference between the session controller and the analyzer workers without
// locking.
//
// # Errors
//
// Every load failure wraps ErrDataLoad.
package dataset
