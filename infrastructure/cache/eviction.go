package cache

import "sort"

// EntryInfo describes one persisted entry for eviction decisions
type EntryInfo struct {
	Key       string
	Timestamp int64
}

// EvictionPolicy chooses which entries to drop when the persistent tier
// runs out of space. Policies see every entry of the current schema
// version and return the keys to delete.
type EvictionPolicy interface {
	Victims(entries []EntryInfo) []string
}

// OldestHalfPolicy drops the oldest half of all entries, rounding up.
// Coarse compared to an LRU, but quota pressure is rare and a batch
// eviction avoids tracking access order on every read.
type OldestHalfPolicy struct{}

// Victims returns the keys of the oldest ceil(n/2) entries
func (OldestHalfPolicy) Victims(entries []EntryInfo) []string {
	sorted := make([]EntryInfo, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp < sorted[j].Timestamp
	})

	half := (len(sorted) + 1) / 2
	victims := make([]string, 0, half)
	for _, e := range sorted[:half] {
		victims = append(victims, e.Key)
	}
	return victims
}
