package services

import (
	"slices"

	"driver-dispatch-service/internal/domain"
)

// HasConflict reports whether load's effective span overlaps any other load
// in allLoads. A load with no derivable span never conflicts and never
// triggers conflicts against others. Cancelled loads are ignored.
func HasConflict(load *domain.Load, allLoads []*domain.Load) bool {
	span, ok := load.Span()
	if !ok {
		return false
	}
	for _, other := range allLoads {
		if other == load || other.ID == load.ID {
			continue
		}
		if other.Status == domain.LoadCancelled {
			continue
		}
		otherSpan, ok := other.Span()
		if !ok {
			continue
		}
		if span.Overlaps(otherSpan) {
			return true
		}
	}
	return false
}

// ConflictIDs returns the sorted IDs of every load participating in at
// least one pairwise overlap within the set.
func ConflictIDs(loads []*domain.Load) []int64 {
	seen := make(map[int64]struct{})
	for i := 0; i < len(loads); i++ {
		a := loads[i]
		if a.Status == domain.LoadCancelled {
			continue
		}
		aSpan, ok := a.Span()
		if !ok {
			continue
		}
		for j := i + 1; j < len(loads); j++ {
			b := loads[j]
			if b.ID == a.ID || b.Status == domain.LoadCancelled {
				continue
			}
			bSpan, ok := b.Span()
			if !ok {
				continue
			}
			if aSpan.Overlaps(bSpan) {
				seen[a.ID] = struct{}{}
				seen[b.ID] = struct{}{}
			}
		}
	}

	if len(seen) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
