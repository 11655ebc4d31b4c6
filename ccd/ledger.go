/*
ledger.go - Append-only correspondence ledger

PURPOSE:
  The correspondence list is the durable history of every outbound
  communication for a case. Entries are appended, never edited or
  removed, and the list is kept strictly descending by SentOn so the
  most recent communication is always first.

CRITICAL INVARIANTS:
  1. APPEND-ONLY: No update, no delete. Ever.
  2. UNION, NOT DEDUP: repeated appends of the same entries double the
     ledger. At-most-once invocation per physical event is the caller's
     responsibility, not the ledger's.
  3. DETERMINISTIC ORDER: descending by SentOn; equal timestamps keep
     their relative input order (stable sort, existing before new).

SEE ALSO:
  - adjustments.go: the same rule applied to per-party buckets
  - commit.go: persisting the mutated ledger
*/
package ccd

import (
	"sort"
	"time"
)

// SentOnLayout is the fixed timestamp format carried by correspondence,
// e.g. "22 Jan 2021 11:00".
const SentOnLayout = "2 Jan 2006 15:04"

// AppendCorrespondence returns the union of existing and newEntries sorted
// most-recent-first. existing may be nil. Neither input is mutated.
//
// No deduplication is performed: calling this twice with the same newEntries
// appends them twice.
func AppendCorrespondence(existing, newEntries []Correspondence) []Correspondence {
	merged := make([]Correspondence, 0, len(existing)+len(newEntries))
	merged = append(merged, existing...)
	merged = append(merged, newEntries...)
	sort.SliceStable(merged, func(i, j int) bool {
		return moreRecent(merged[i], merged[j])
	})
	return merged
}

// moreRecent orders entries newest-first. Timestamps that fail to parse sort
// after parseable ones, compared reverse-lexically among themselves, so the
// order stays total and deterministic for malformed data.
func moreRecent(a, b Correspondence) bool {
	ta, aok := parseSentOn(a.SentOn)
	tb, bok := parseSentOn(b.SentOn)
	switch {
	case aok && bok:
		return ta.After(tb)
	case aok != bok:
		return aok
	default:
		return a.SentOn > b.SentOn
	}
}

func parseSentOn(s string) (time.Time, bool) {
	t, err := time.Parse(SentOnLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
