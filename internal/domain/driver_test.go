package domain

import (
	"fmt"
	"testing"
	"time"
)

func testRecord() *DriverRecord {
	return NewDriverRecord(DriverProfile{ID: 7, Name: "J. Miller", TruckUnit: "T-12"})
}

func TestRecordStatusChangeHistoryBounded(t *testing.T) {
	rec := testRecord()
	now := time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)

	for i := 0; i < StatusHistoryCap+25; i++ {
		rec.RecordStatusChange(StatusOnRoad, fmt.Sprintf("stop %d", i), "", "dispatcher", now.Add(time.Duration(i)*time.Minute))
	}

	if len(rec.History) != StatusHistoryCap {
		t.Fatalf("history length = %d, want %d", len(rec.History), StatusHistoryCap)
	}

	// Newest first: entry 0 is the last change recorded.
	if got := rec.History[0].Location; got != fmt.Sprintf("stop %d", StatusHistoryCap+24) {
		t.Fatalf("newest entry location = %q, want latest change", got)
	}
	for i := 1; i < len(rec.History); i++ {
		if rec.History[i].Timestamp.After(rec.History[i-1].Timestamp) {
			t.Fatalf("history not newest-first at index %d", i)
		}
	}
}

func TestRecordStatusChangeMergePolicy(t *testing.T) {
	rec := testRecord()
	now := time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)

	rec.RecordStatusChange(StatusOnRoad, "Chicago, IL", "running late", "dispatcher", now)

	// Empty location and notes mean "no change".
	rec.RecordStatusChange(StatusBreak, "", "", "driver-app", now.Add(time.Hour))

	if rec.Status != StatusBreak {
		t.Errorf("status = %s, want %s", rec.Status, StatusBreak)
	}
	if rec.Location != "Chicago, IL" {
		t.Errorf("location = %q, want previous value preserved", rec.Location)
	}
	if rec.Notes != "running late" {
		t.Errorf("notes = %q, want previous value preserved", rec.Notes)
	}
	if rec.UpdatedBy != "driver-app" {
		t.Errorf("updatedBy = %q, want %q", rec.UpdatedBy, "driver-app")
	}
	if len(rec.History) != 2 {
		t.Errorf("history length = %d, want 2 (events always appended)", len(rec.History))
	}
}

func TestHasRoomHoursOfServiceCeilings(t *testing.T) {
	start := time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)
	end := start.Add(4 * time.Hour) // 4h + 2h buffer = 6h needed

	cases := []struct {
		name       string
		hoursToday float64
		hoursWeek  float64
		want       bool
	}{
		{"fresh driver", 0, 0, true},
		{"just under daily cap", 8, 0, true},
		{"over daily cap", 8.5, 0, false},
		{"over weekly cap", 0, 64.5, false},
		{"just under weekly cap", 0, 64, true},
	}

	for _, tc := range cases {
		rec := testRecord()
		rec.HoursWorkedToday = tc.hoursToday
		rec.HoursWorkedWeek = tc.hoursWeek
		if got := rec.HasRoom(start, end); got != tc.want {
			t.Errorf("%s: HasRoom = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestHasRoomBusyDriver(t *testing.T) {
	rec := testRecord()
	rec.Status = StatusOnRoad
	rec.CurrentLoad = &Load{ID: 3, Status: LoadInTransit}

	start := time.Date(2024, 1, 12, 8, 0, 0, 0, time.UTC)
	if rec.HasRoom(start, start.Add(2*time.Hour)) {
		t.Fatal("driver on road with a current load must have no room")
	}
}

func TestHasRoomWindowContainment(t *testing.T) {
	rec := testRecord()
	day := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	rec.Windows = []TimeSlot{
		{Start: day.Add(6 * time.Hour), End: day.Add(12 * time.Hour)},
		{Start: day.Add(20 * time.Hour), End: day.Add(30 * time.Hour)},
	}

	if !rec.HasRoom(day.Add(7*time.Hour), day.Add(10*time.Hour)) {
		t.Error("interval inside first window should have room")
	}
	if rec.HasRoom(day.Add(11*time.Hour), day.Add(14*time.Hour)) {
		t.Error("interval crossing a window boundary should be rejected")
	}
}

func TestHasRoomFailsOpenWithoutWindows(t *testing.T) {
	rec := testRecord()
	rec.Windows = nil

	start := time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)
	if !rec.HasRoom(start, start.Add(2*time.Hour)) {
		t.Fatal("no computed windows must default to has-room")
	}
}

func TestCloneIsDetached(t *testing.T) {
	rec := testRecord()
	now := time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)
	rec.RecordStatusChange(StatusOnRoad, "Denver, CO", "", "dispatcher", now)
	rec.Windows = []TimeSlot{{Start: now, End: now.Add(time.Hour)}}

	snap := rec.Clone()
	rec.RecordStatusChange(StatusBreak, "", "", "dispatcher", now.Add(time.Hour))
	rec.Windows[0].End = now.Add(2 * time.Hour)

	if snap.Status != StatusOnRoad {
		t.Errorf("snapshot status mutated: %s", snap.Status)
	}
	if len(snap.History) != 1 {
		t.Errorf("snapshot history length = %d, want 1", len(snap.History))
	}
	if !snap.Windows[0].End.Equal(now.Add(time.Hour)) {
		t.Error("snapshot window mutated through original")
	}
}
