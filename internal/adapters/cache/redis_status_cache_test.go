package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"driver-dispatch-service/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T) (*RedisStatusCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStatusCache(client, nil, time.Minute), mr
}

func sampleRecord() domain.DriverRecord {
	now := time.Date(2024, 1, 10, 7, 0, 0, 0, time.UTC)
	avail := now.Add(10 * time.Hour)
	return domain.DriverRecord{
		ID:                 7,
		Name:               "J. Miller",
		TruckUnit:          "T-12",
		Status:             domain.StatusOnRoad,
		Location:           "En route to Nashville, TN",
		EstimatedAvailable: &avail,
		CurrentLoad:        &domain.Load{ID: 10, Status: domain.LoadInTransit},
		Windows: []domain.TimeSlot{
			{Start: avail, End: avail.Add(48 * time.Hour)},
		},
		UpdatedAt: now,
	}
}

func TestPutStatuses(t *testing.T) {
	c, mr := newTestCache(t)

	recs := []domain.DriverRecord{sampleRecord()}
	if err := c.PutStatuses(context.Background(), recs); err != nil {
		t.Fatalf("PutStatuses: %v", err)
	}

	raw, err := mr.Get("dispatch:driver:7")
	if err != nil {
		t.Fatalf("driver key missing: %v", err)
	}

	var snap driverSnapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		t.Fatalf("unmarshal snapshot: %v", err)
	}
	if snap.DriverID != 7 || snap.Name != "J. Miller" {
		t.Errorf("snapshot identity = %d %q", snap.DriverID, snap.Name)
	}
	if snap.Status != string(domain.StatusOnRoad) {
		t.Errorf("status = %q, want %q", snap.Status, domain.StatusOnRoad)
	}
	if snap.StatusLabel != "On Road" || snap.StatusColor != "blue" {
		t.Errorf("presentation fields = %q/%q", snap.StatusLabel, snap.StatusColor)
	}
	if snap.CurrentLoadID == nil || *snap.CurrentLoadID != 10 {
		t.Error("current load id not carried into the snapshot")
	}
	if len(snap.Windows) != 1 {
		t.Errorf("windows = %d, want 1", len(snap.Windows))
	}

	members, err := mr.SMembers("dispatch:drivers")
	if err != nil || len(members) != 1 || members[0] != "7" {
		t.Errorf("index set = %v (%v), want [7]", members, err)
	}

	if ttl := mr.TTL("dispatch:driver:7"); ttl != time.Minute {
		t.Errorf("driver key TTL = %v, want 1m", ttl)
	}
	if ttl := mr.TTL("dispatch:drivers"); ttl != time.Minute {
		t.Errorf("index TTL = %v, want 1m", ttl)
	}
}

func TestPutStatusesReplacesIndex(t *testing.T) {
	c, mr := newTestCache(t)

	first := sampleRecord()
	if err := c.PutStatuses(context.Background(), []domain.DriverRecord{first}); err != nil {
		t.Fatalf("first put: %v", err)
	}

	second := sampleRecord()
	second.ID = 9
	if err := c.PutStatuses(context.Background(), []domain.DriverRecord{second}); err != nil {
		t.Fatalf("second put: %v", err)
	}

	members, err := mr.SMembers("dispatch:drivers")
	if err != nil {
		t.Fatalf("index read: %v", err)
	}
	if len(members) != 1 || members[0] != "9" {
		t.Fatalf("index = %v, want only the latest batch", members)
	}
}

func TestPutStatistics(t *testing.T) {
	c, mr := newTestCache(t)

	stats := domain.FleetStatistics{Total: 4, Available: 2, OnRoad: 1, OffDuty: 1, AvailabilityPercentage: 50}
	if err := c.PutStatistics(context.Background(), stats); err != nil {
		t.Fatalf("PutStatistics: %v", err)
	}

	raw, err := mr.Get("dispatch:stats")
	if err != nil {
		t.Fatalf("stats key missing: %v", err)
	}
	var got domain.FleetStatistics
	if err := json.Unmarshal([]byte(raw), &got); err != nil {
		t.Fatalf("unmarshal stats: %v", err)
	}
	if got != stats {
		t.Fatalf("stats = %+v, want %+v", got, stats)
	}
}

func TestPutStatusesNilClient(t *testing.T) {
	c := NewRedisStatusCache(nil, nil, 0)
	if err := c.PutStatuses(context.Background(), nil); err == nil {
		t.Fatal("expected an error with no client configured")
	}
	if err := c.PutStatistics(context.Background(), domain.FleetStatistics{}); err == nil {
		t.Fatal("expected an error with no client configured")
	}
}
