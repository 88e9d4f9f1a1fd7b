package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"driver-dispatch-service/internal/domain"
	"driver-dispatch-service/internal/platform/obs"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Redis-backed snapshot sink for computed driver statuses and fleet
// statistics. The presentation layer reads these keys; the engine only ever
// writes. Entries expire so a stalled scheduler never serves stale data as
// fresh.
type RedisStatusCache struct {
	Client *redis.Client
	Log    *zap.Logger
	TTL    time.Duration
}

const (
	driverKeyPrefix = "dispatch:driver:"
	driverIndexKey  = "dispatch:drivers"
	statsKey        = "dispatch:stats"

	defaultTTL = 5 * time.Minute
)

func NewRedisStatusCache(client *redis.Client, logger *zap.Logger, ttl time.Duration) *RedisStatusCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisStatusCache{Client: client, Log: logger, TTL: ttl}
}

// driverSnapshot is the wire form of one driver's status entry.
type driverSnapshot struct {
	DriverID           int64            `json:"driver_id"`
	Name               string           `json:"name"`
	TruckUnit          string           `json:"truck_unit"`
	TrailerUnit        string           `json:"trailer_unit"`
	Status             string           `json:"status"`
	StatusLabel        string           `json:"status_label"`
	StatusColor        string           `json:"status_color"`
	Location           string           `json:"location"`
	EstimatedAvailable *time.Time       `json:"estimated_available,omitempty"`
	CurrentLoadID      *int64           `json:"current_load_id,omitempty"`
	NextLoadID         *int64           `json:"next_load_id,omitempty"`
	Windows            []windowSnapshot `json:"windows"`
	ConflictLoadIDs    []int64          `json:"conflict_load_ids,omitempty"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

type windowSnapshot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// PutStatuses stores one JSON entry per driver plus an index set of driver
// ids, all with the configured TTL.
func (c *RedisStatusCache) PutStatuses(ctx context.Context, records []domain.DriverRecord) (err error) {
	defer obs.Time(c.Log, "cache.PutStatuses")(&err)

	if c.Client == nil {
		return errors.New("status cache: redis client is nil")
	}

	pipe := c.Client.TxPipeline()
	ids := make([]any, 0, len(records))

	for i := range records {
		rec := &records[i]
		snap := toSnapshot(rec)

		payload, err := json.Marshal(snap)
		if err != nil {
			return fmt.Errorf("put statuses: marshal driver %d: %w", rec.ID, err)
		}

		pipe.Set(ctx, fmt.Sprintf("%s%d", driverKeyPrefix, rec.ID), payload, c.TTL)
		ids = append(ids, rec.ID)
	}

	pipe.Del(ctx, driverIndexKey)
	if len(ids) > 0 {
		pipe.SAdd(ctx, driverIndexKey, ids...)
		pipe.Expire(ctx, driverIndexKey, c.TTL)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("put statuses: exec pipeline: %w", err)
	}
	return nil
}

// PutStatistics stores the fleet aggregate under a single key.
func (c *RedisStatusCache) PutStatistics(ctx context.Context, stats domain.FleetStatistics) (err error) {
	defer obs.Time(c.Log, "cache.PutStatistics")(&err)

	if c.Client == nil {
		return errors.New("status cache: redis client is nil")
	}

	payload, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("put statistics: marshal: %w", err)
	}

	if err := c.Client.Set(ctx, statsKey, payload, c.TTL).Err(); err != nil {
		return fmt.Errorf("put statistics: set: %w", err)
	}
	return nil
}

func toSnapshot(rec *domain.DriverRecord) driverSnapshot {
	snap := driverSnapshot{
		DriverID:           rec.ID,
		Name:               rec.Name,
		TruckUnit:          rec.TruckUnit,
		TrailerUnit:        rec.TrailerUnit,
		Status:             string(rec.Status),
		StatusLabel:        rec.Status.Label(),
		StatusColor:        rec.Status.Color(),
		Location:           rec.Location,
		EstimatedAvailable: rec.EstimatedAvailable,
		ConflictLoadIDs:    rec.ConflictLoadIDs,
		UpdatedAt:          rec.UpdatedAt,
		Windows:            make([]windowSnapshot, 0, len(rec.Windows)),
	}
	if rec.CurrentLoad != nil {
		id := rec.CurrentLoad.ID
		snap.CurrentLoadID = &id
	}
	if rec.NextLoad != nil {
		id := rec.NextLoad.ID
		snap.NextLoadID = &id
	}
	for _, w := range rec.Windows {
		snap.Windows = append(snap.Windows, windowSnapshot{Start: w.Start, End: w.End})
	}
	return snap
}
