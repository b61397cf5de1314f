// Package statscache puts a read-through cache in front of the stats service.
package statscache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/godilite/survey-stats/internal/service"
	"github.com/godilite/survey-stats/pkg/cache"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const defaultCacheDuration = 10 * time.Minute

type CacheKeyType string

const (
	cacheKeyRatingStats    CacheKeyType = "stats:rating"
	cacheKeyUserStats      CacheKeyType = "stats:users"
	cacheKeyUserTableStats CacheKeyType = "stats:users_table"
)

// Stats is the set of views served through the cache.
type Stats interface {
	RatingStats(ctx context.Context, req service.StatsRequest) (service.RatingStats, error)
	GetRatio(ctx context.Context, teacherID string) (service.Ratio, error)
	GetRespondentTable(ctx context.Context, teacherID string) ([]service.RespondentRow, error)
}

type Service struct {
	next    Stats
	cache   cache.Cacher
	logger  *zap.Logger
	sfGroup singleflight.Group
	ttl     time.Duration
	loc     *time.Location
	now     func() time.Time
}

type Option func(*Service)

// WithLocation sets the zone that decides the stats day. It should match
// the zone the stats service resolves date windows in.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// New wraps next. A nil cacher disables storage but keeps request coalescing.
func New(next Stats, c cache.Cacher, logger *zap.Logger, ttl time.Duration, opts ...Option) *Service {
	if next == nil {
		panic("nil Stats provided to statscache.New")
	}
	if c == nil {
		c = cache.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = defaultCacheDuration
	}
	s := &Service{
		next:   next,
		cache:  c,
		logger: logger.Named("stats-cache"),
		ttl:    ttl,
		loc:    time.UTC,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ratingKey includes the stats day so preset windows roll over with the
// local calendar.
func ratingKey(req service.StatsRequest, day string) string {
	return normalizeKey(cacheKeyRatingStats,
		req.TeacherID, req.ChartType, req.DateFilter, req.StartDate, req.EndDate, day)
}

func normalizeKey(prefix CacheKeyType, parts ...string) string {
	cleaned := make([]string, len(parts))
	for i, p := range parts {
		cleaned[i] = strings.ReplaceAll(strings.TrimSpace(p), ":", "_")
	}
	return fmt.Sprintf("%s:%s", prefix, strings.Join(cleaned, ":"))
}

func (s *Service) RatingStats(ctx context.Context, req service.StatsRequest) (service.RatingStats, error) {
	now := s.now()
	key := ratingKey(req, s.statsDay(now))
	return readThrough(ctx, s, key, now, func(fetchCtx context.Context) (service.RatingStats, error) {
		return s.next.RatingStats(fetchCtx, req)
	})
}

func (s *Service) GetRatio(ctx context.Context, teacherID string) (service.Ratio, error) {
	key := normalizeKey(cacheKeyUserStats, teacherID)
	return readThrough(ctx, s, key, s.now(), func(fetchCtx context.Context) (service.Ratio, error) {
		return s.next.GetRatio(fetchCtx, teacherID)
	})
}

func (s *Service) GetRespondentTable(ctx context.Context, teacherID string) ([]service.RespondentRow, error) {
	key := normalizeKey(cacheKeyUserTableStats, teacherID)
	return readThrough(ctx, s, key, s.now(), func(fetchCtx context.Context) ([]service.RespondentRow, error) {
		return s.next.GetRespondentTable(fetchCtx, teacherID)
	})
}
