package statscache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	dayLayout    = "2006-01-02"
	fetchTimeout = 15 * time.Second
	storeTimeout = 5 * time.Second
)

// snapshot is the cached form of a view. Day is the stats day the view was
// computed on; a snapshot from another day is never served.
type snapshot[T any] struct {
	Day        string    `json:"day"`
	ComputedAt time.Time `json:"computed_at"`
	View       T         `json:"view"`
}

type fetchFunc[T any] func(ctx context.Context) (T, error)

// statsDay is the calendar day of now in the stats location.
func (s *Service) statsDay(now time.Time) string {
	return now.In(s.loc).Format(dayLayout)
}

// expiryFor caps the ttl at the next local midnight, when windows such as
// monthly and yearly may move.
func (s *Service) expiryFor(now time.Time) time.Duration {
	local := now.In(s.loc)
	y, m, d := local.Date()
	untilMidnight := time.Date(y, m, d+1, 0, 0, 0, 0, s.loc).Sub(local)
	if untilMidnight < s.ttl {
		return untilMidnight
	}
	return s.ttl
}

// readThrough serves key from the cache when the snapshot belongs to the
// current stats day. Snapshots past half their ttl are recomputed in the
// background while the cached view is returned. Misses are coalesced per key
// and errors from fetch are never cached.
func readThrough[T any](ctx context.Context, s *Service, key string, now time.Time, fetch fetchFunc[T]) (T, error) {
	var zero T
	day := s.statsDay(now)

	var snap snapshot[T]
	err := s.cache.Get(ctx, key, &snap)
	switch {
	case err == nil && snap.Day == day:
		age := now.Sub(snap.ComputedAt)
		s.logger.Debug("cache hit", zap.String("key", key), zap.Duration("age", age))
		if age >= s.ttl/2 {
			refreshAhead(s, key, fetch)
		}
		return snap.View, nil

	case err == nil:
		s.logger.Debug("snapshot from another stats day",
			zap.String("key", key),
			zap.String("snapshot_day", snap.Day),
			zap.String("day", day))

	case errors.Is(err, redis.Nil):
		s.logger.Debug("cache miss", zap.String("key", key))

	default:
		s.logger.Warn("cache get error (treating as miss)", zap.String("key", key), zap.Error(err))
	}

	v, err, shared := s.sfGroup.Do(key, func() (any, error) {
		view, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		go s.store(key, snapshot[T]{Day: day, ComputedAt: now, View: view}, now)
		return view, nil
	})
	if err != nil {
		return zero, err
	}

	view, ok := v.(T)
	if !ok {
		s.logger.Error("singleflight type mismatch", zap.String("key", key))
		return zero, fmt.Errorf("type mismatch for key %q", key)
	}
	if shared {
		s.logger.Debug("singleflight shared result", zap.String("key", key))
	}
	return view, nil
}

// refreshAhead recomputes key off the request path. Concurrent refreshes of
// the same key collapse into one.
func refreshAhead[T any](s *Service, key string, fetch fetchFunc[T]) {
	go func() {
		_, _, _ = s.sfGroup.Do(key+":refresh", func() (any, error) {
			ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
			defer cancel()

			now := s.now()
			view, err := fetch(ctx)
			if err != nil {
				s.logger.Warn("background refresh failed", zap.String("key", key), zap.Error(err))
				return nil, err
			}
			s.store(key, snapshot[T]{Day: s.statsDay(now), ComputedAt: now, View: view}, now)
			return nil, nil
		})
	}()
}

func (s *Service) store(key string, snap any, now time.Time) {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	expiry := s.expiryFor(now)
	if err := s.cache.Set(ctx, key, snap, expiry); err != nil {
		s.logger.Warn("failed to store snapshot", zap.String("key", key), zap.Error(err))
		return
	}
	s.logger.Debug("snapshot stored", zap.String("key", key), zap.Duration("ttl", expiry))
}
