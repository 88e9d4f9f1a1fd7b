package services

import (
	"slices"

	"driver-dispatch-service/internal/domain"
)

// SortLoadsForScheduling orders loads ascending by pickup date then pickup
// time, with loads lacking a pickup date sorted last. Classification and
// window computation both require this ordering. Ties break on load ID so
// the ordering is deterministic.
func SortLoadsForScheduling(loads []*domain.Load) {
	slices.SortStableFunc(loads, func(a, b *domain.Load) int {
		aAt, aOK := a.PickupAt()
		bAt, bOK := b.PickupAt()

		switch {
		case aOK && !bOK:
			return -1
		case !aOK && bOK:
			return 1
		case aOK && bOK:
			if c := aAt.Compare(bAt); c != 0 {
				return c
			}
		}

		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
}

// FilterSchedulable drops cancelled loads, which must never influence a
// driver's classification or availability.
func FilterSchedulable(loads []*domain.Load) []*domain.Load {
	out := make([]*domain.Load, 0, len(loads))
	for _, l := range loads {
		if l.Status == domain.LoadCancelled {
			continue
		}
		out = append(out, l)
	}
	return out
}
