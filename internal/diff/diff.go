// Package diff decides whether a freshly fetched snapshot warrants a
// notification cycle, and filters snapshots down to same-day disclosures.
package diff

import (
	"time"

	"capitol-monitor/internal/types"
)

const dateLayout = "2006-01-02"

// HasChanged reports whether the new snapshot should trigger a cycle.
// An empty new snapshot is "no data this cycle", never a change; otherwise
// any field-level or length difference against the old snapshot counts,
// including a pure reorder. Enrichment fields are ignored.
func HasChanged(newSnap, oldSnap types.Snapshot) bool {
	if len(newSnap) == 0 {
		return false
	}
	return !newSnap.Equal(oldSnap)
}

// TodayOnly keeps records whose trade date equals now's calendar date.
// It is a pure filter, independent of HasChanged.
func TodayOnly(snap types.Snapshot, now time.Time) types.Snapshot {
	today := now.Format(dateLayout)
	out := make(types.Snapshot, 0, len(snap))
	for _, r := range snap {
		if r.TradeDate == today {
			out = append(out, r)
		}
	}
	return out
}
