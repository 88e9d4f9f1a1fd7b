package services

import (
	"testing"
	"time"

	"driver-dispatch-service/internal/domain"
)

func TestComputeWindowsNoLoads(t *testing.T) {
	now := time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)

	got := ComputeWindows(nil, nil, now, 7)

	if len(got) != 1 {
		t.Fatalf("expected exactly one window, got %d", len(got))
	}
	if !got[0].Start.Equal(now) {
		t.Errorf("window start = %v, want now", got[0].Start)
	}
	wantEnd := time.Date(2024, 1, 15, 23, 59, 59, 0, time.UTC)
	if !got[0].End.Equal(wantEnd) {
		t.Errorf("window end = %v, want %v", got[0].End, wantEnd)
	}
}

func TestComputeWindowsAroundOneLoad(t *testing.T) {
	now := time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)
	loads := []*domain.Load{{
		ID:           1,
		PickupDate:   datePtr(2024, 1, 10),
		PickupTime:   "08:00",
		DeliveryDate: datePtr(2024, 1, 10),
		DeliveryTime: "17:00",
		Status:       domain.LoadBooked,
	}}

	got := ComputeWindows(loads, nil, now, 7)

	if len(got) != 2 {
		t.Fatalf("expected 2 windows, got %d", len(got))
	}

	// Gap before the load ends at pickup minus the 2h buffer.
	wantFirstEnd := time.Date(2024, 1, 10, 6, 0, 0, 0, time.UTC)
	if !got[0].Start.Equal(now) || !got[0].End.Equal(wantFirstEnd) {
		t.Errorf("first window = [%v, %v), want [%v, %v)", got[0].Start, got[0].End, now, wantFirstEnd)
	}

	// Next gap opens after delivery plus the 10h rest.
	wantSecondStart := time.Date(2024, 1, 11, 3, 0, 0, 0, time.UTC)
	wantSecondEnd := time.Date(2024, 1, 15, 23, 59, 59, 0, time.UTC)
	if !got[1].Start.Equal(wantSecondStart) || !got[1].End.Equal(wantSecondEnd) {
		t.Errorf("second window = [%v, %v), want [%v, %v)", got[1].Start, got[1].End, wantSecondStart, wantSecondEnd)
	}
}

func TestComputeWindowsStartsAtEstimatedAvailable(t *testing.T) {
	now := time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)
	estAvail := time.Date(2024, 1, 9, 5, 0, 0, 0, time.UTC)

	got := ComputeWindows(nil, &estAvail, now, 7)

	if len(got) != 1 {
		t.Fatalf("expected one window, got %d", len(got))
	}
	if !got[0].Start.Equal(estAvail) {
		t.Errorf("window start = %v, want estimated available %v", got[0].Start, estAvail)
	}
}

func TestComputeWindowsMissingDeliveryUsesFlatAdvance(t *testing.T) {
	now := time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)
	loads := []*domain.Load{{
		ID:         1,
		PickupDate: datePtr(2024, 1, 9),
		PickupTime: "10:00",
		Status:     domain.LoadBooked,
	}}

	got := ComputeWindows(loads, nil, now, 7)

	if len(got) != 2 {
		t.Fatalf("expected 2 windows, got %d", len(got))
	}
	// Cursor advances pickup + 24h when no delivery date exists.
	wantSecondStart := time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC)
	if !got[1].Start.Equal(wantSecondStart) {
		t.Errorf("second window start = %v, want %v", got[1].Start, wantSecondStart)
	}
}

func TestComputeWindowsSkipsLoadsWithoutPickupDate(t *testing.T) {
	now := time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)
	loads := []*domain.Load{{ID: 1, Status: domain.LoadBooked}}

	got := ComputeWindows(loads, nil, now, 7)

	if len(got) != 1 {
		t.Fatalf("expected one full-horizon window, got %d", len(got))
	}
	if !got[0].Start.Equal(now) {
		t.Errorf("window start = %v, want now", got[0].Start)
	}
}

func TestComputeWindowsOrderedAndDisjoint(t *testing.T) {
	now := time.Date(2024, 1, 8, 6, 0, 0, 0, time.UTC)
	loads := []*domain.Load{
		{ID: 1, PickupDate: datePtr(2024, 1, 9), DeliveryDate: datePtr(2024, 1, 9), Status: domain.LoadBooked},
		{ID: 2, PickupDate: datePtr(2024, 1, 11), DeliveryDate: datePtr(2024, 1, 12), Status: domain.LoadBooked},
		{ID: 3, PickupDate: datePtr(2024, 1, 14), DeliveryDate: datePtr(2024, 1, 14), Status: domain.LoadBooked},
	}
	SortLoadsForScheduling(loads)

	got := ComputeWindows(loads, nil, now, 10)

	for i := 1; i < len(got); i++ {
		if got[i].Start.Before(got[i-1].Start) {
			t.Fatalf("windows not in non-decreasing start order at %d", i)
		}
		if got[i-1].End.After(got[i].Start) {
			t.Fatalf("windows %d and %d overlap", i-1, i)
		}
	}
}
