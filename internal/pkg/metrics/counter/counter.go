package counter

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kurasimap/KurasiMap/internal/pkg/cache"
	"github.com/kurasimap/KurasiMap/internal/pkg/gateway"
)

const locationViewsKey = "location:counters:views"

// AddLocationView increments the pending view counter for a location in Redis
func AddLocationView(locationID uint) error {
	ctx := context.Background()
	field := strconv.FormatUint(uint64(locationID), 10)
	return cache.GetClient().HIncrBy(ctx, locationViewsKey, field, 1).Err()
}

// FlushLocationViews drains the Redis hash atomically and applies batched
// increments through the gateway. Uses RENAME to a temporary key so
// in-flight increments are not lost during the drain; counts that could not
// be applied are merged back onto the live hash for the next flush.
func FlushLocationViews(gw *gateway.Gateway) error {
	ctx := context.Background()
	rdb := cache.GetClient()

	tmpKey := fmt.Sprintf("%s:tmp:%d", locationViewsKey, time.Now().UnixNano())
	if err := rdb.Rename(ctx, locationViewsKey, tmpKey).Err(); err != nil {
		// RENAME fails with "no such key" when nothing was counted
		if strings.Contains(strings.ToLower(err.Error()), "no such key") {
			return nil
		}
		return err
	}

	data, err := rdb.HGetAll(ctx, tmpKey).Result()
	if err != nil {
		// The counts stay parked under tmpKey; without the field data there
		// is nothing safe to delete or re-merge.
		return err
	}

	remaining, applyErr := drainViews(data, gw.AddLocationViews)

	// Undrained counts go back onto the live hash before the temporary key
	// is dropped, so a mid-drain store failure loses nothing.
	for field, views := range remaining {
		if err := rdb.HIncrBy(ctx, locationViewsKey, field, views).Err(); err != nil {
			return err
		}
	}
	if err := rdb.Del(ctx, tmpKey).Err(); err != nil {
		return err
	}
	return applyErr
}

// drainViews applies each drained field through the sink, stopping at the
// first failure. It returns every count that was not applied, including the
// one that failed. Unparseable fields are dropped.
func drainViews(data map[string]string, apply func(id uint, views int64) error) (map[string]int64, error) {
	remaining := map[string]int64{}
	var applyErr error

	for field, value := range data {
		id, err := strconv.ParseUint(field, 10, 64)
		if err != nil {
			continue
		}
		views, err := strconv.ParseInt(value, 10, 64)
		if err != nil || views == 0 {
			continue
		}
		if applyErr != nil {
			remaining[field] = views
			continue
		}
		if err := apply(uint(id), views); err != nil {
			applyErr = err
			remaining[field] = views
		}
	}
	return remaining, applyErr
}
