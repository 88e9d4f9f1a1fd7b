package services

import (
	"reflect"
	"testing"
	"time"

	"driver-dispatch-service/internal/domain"
)

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func singleLoad(status domain.LoadStatus) []*domain.Load {
	return []*domain.Load{{
		ID:               1,
		Customer:         "Acme Freight",
		PickupLocation:   "Columbus, OH",
		PickupDate:       datePtr(2024, 1, 10),
		PickupTime:       "08:00",
		DeliveryLocation: "Nashville, TN",
		DeliveryDate:     datePtr(2024, 1, 10),
		DeliveryTime:     "17:00",
		Status:           status,
	}}
}

func TestClassifyAssignedLoadMeansLoading(t *testing.T) {
	now := time.Date(2024, 1, 10, 7, 0, 0, 0, time.UTC)

	got := Classify(singleLoad(domain.LoadAssigned), now)

	if got.Status != domain.StatusLoading {
		t.Fatalf("status = %s, want %s", got.Status, domain.StatusLoading)
	}
	if got.Location != "Columbus, OH" {
		t.Fatalf("location = %q, want pickup location", got.Location)
	}
	if got.CurrentLoad == nil || got.CurrentLoad.ID != 1 {
		t.Fatal("expected the assigned load as current load")
	}
}

func TestClassifyInTransitLoadMeansOnRoad(t *testing.T) {
	now := time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC)

	got := Classify(singleLoad(domain.LoadInTransit), now)

	if got.Status != domain.StatusOnRoad {
		t.Fatalf("status = %s, want %s", got.Status, domain.StatusOnRoad)
	}
	if got.Location != "En route to Nashville, TN" {
		t.Fatalf("location = %q, want en-route string", got.Location)
	}
	wantAvail := time.Date(2024, 1, 10, 17, 0, 0, 0, time.UTC)
	if got.EstimatedAvailable == nil || !got.EstimatedAvailable.Equal(wantAvail) {
		t.Fatalf("estimatedAvailable = %v, want %v", got.EstimatedAvailable, wantAvail)
	}
}

func TestClassifyInTransitDefaultsDeliveryTimeToNoon(t *testing.T) {
	loads := singleLoad(domain.LoadInTransit)
	loads[0].DeliveryTime = ""
	now := time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC)

	got := Classify(loads, now)

	wantAvail := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	if got.EstimatedAvailable == nil || !got.EstimatedAvailable.Equal(wantAvail) {
		t.Fatalf("estimatedAvailable = %v, want noon default %v", got.EstimatedAvailable, wantAvail)
	}
}

func TestClassifyBookedLoadWithinLookAheadMeansPreparing(t *testing.T) {
	loads := singleLoad(domain.LoadBooked)
	now := time.Date(2024, 1, 10, 6, 30, 0, 0, time.UTC) // pickup in 90 minutes

	got := Classify(loads, now)

	if got.Status != domain.StatusPreparing {
		t.Fatalf("status = %s, want %s", got.Status, domain.StatusPreparing)
	}
	if got.NextLoad == nil || got.NextLoad.ID != 1 {
		t.Fatal("expected the booked load as next load")
	}
}

func TestClassifyBookedLoadBeyondLookAheadMeansAvailable(t *testing.T) {
	loads := singleLoad(domain.LoadBooked)
	now := time.Date(2024, 1, 9, 12, 0, 0, 0, time.UTC)

	got := Classify(loads, now)

	if got.Status != domain.StatusAvailable {
		t.Fatalf("status = %s, want %s", got.Status, domain.StatusAvailable)
	}
	if got.Location != HomeBase {
		t.Fatalf("location = %q, want %q", got.Location, HomeBase)
	}
	if got.NextLoad == nil || got.NextLoad.ID != 1 {
		t.Fatal("expected the booked load recorded as next load")
	}
}

func TestClassifyRecentDeliveryMeansReturning(t *testing.T) {
	loads := singleLoad(domain.LoadDelivered)
	now := time.Date(2024, 1, 11, 9, 0, 0, 0, time.UTC) // 16h after delivery

	got := Classify(loads, now)

	if got.Status != domain.StatusReturning {
		t.Fatalf("status = %s, want %s", got.Status, domain.StatusReturning)
	}
	if got.Location != "Nashville, TN" {
		t.Fatalf("location = %q, want delivery location", got.Location)
	}
	wantAvail := time.Date(2024, 1, 11, 5, 0, 0, 0, time.UTC) // delivery + 12h
	if got.EstimatedAvailable == nil || !got.EstimatedAvailable.Equal(wantAvail) {
		t.Fatalf("estimatedAvailable = %v, want %v", got.EstimatedAvailable, wantAvail)
	}
}

func TestClassifyOldDeliveryMeansAvailableAtHomeBase(t *testing.T) {
	loads := singleLoad(domain.LoadPaid)
	now := time.Date(2024, 1, 14, 9, 0, 0, 0, time.UTC)

	got := Classify(loads, now)

	if got.Status != domain.StatusAvailable {
		t.Fatalf("status = %s, want %s", got.Status, domain.StatusAvailable)
	}
	if got.Location != HomeBase {
		t.Fatalf("location = %q, want %q", got.Location, HomeBase)
	}
}

func TestClassifyNoLoads(t *testing.T) {
	got := Classify(nil, time.Date(2024, 1, 10, 7, 0, 0, 0, time.UTC))

	if got.Status != domain.StatusAvailable {
		t.Fatalf("status = %s, want %s", got.Status, domain.StatusAvailable)
	}
	if got.Location != HomeBase {
		t.Fatalf("location = %q, want %q", got.Location, HomeBase)
	}
	if got.EstimatedAvailable != nil {
		t.Fatal("expected no estimated available time")
	}
}

func TestClassifyMalformedLoadFallsThrough(t *testing.T) {
	loads := []*domain.Load{{
		ID:             2,
		PickupLocation: "Columbus, OH",
		PickupDate:     datePtr(2024, 1, 12),
		DeliveryDate:   datePtr(2024, 1, 10), // delivery before pickup
		Status:         domain.LoadAssigned,
	}}
	now := time.Date(2024, 1, 10, 7, 0, 0, 0, time.UTC)

	got := Classify(loads, now)

	if got.Status != domain.StatusAvailable {
		t.Fatalf("status = %s, want fall-through to %s", got.Status, domain.StatusAvailable)
	}
}

func TestClassifyIsPure(t *testing.T) {
	loads := singleLoad(domain.LoadInTransit)
	now := time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC)

	first := Classify(loads, now)
	second := Classify(loads, now)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("classify not pure: %+v != %+v", first, second)
	}
}
