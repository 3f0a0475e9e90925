package report

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/simplelru"
	"go.uber.org/zap"

	"github.com/tidepool-org/tideline/basal"
	"github.com/tidepool-org/tideline/config"
	"github.com/tidepool-org/tideline/datetime"
	"github.com/tidepool-org/tideline/devicedata"
	"github.com/tidepool-org/tideline/pointer"
	"github.com/tidepool-org/tideline/settings"
)

//go:generate mockgen --build_flags=--mod=mod -source=./service.go -destination=./test/mock_service.go -package test MockService

type Service interface {
	Total(ctx context.Context, q Query) (basal.TotalResult, error)
	Actual(ctx context.Context, userId string, start, end time.Time) (basal.Result, error)
	SettingsIntervals(ctx context.Context, userId string, start, end time.Time) ([]settings.Interval, error)
	Report(ctx context.Context, q Query) (*Report, error)
}

// Options controls how engines are built and totals are computed
type Options struct {
	Logger             *zap.SugaredLogger
	ExclusionThreshold *int
}

func (o Options) totalOptions(q Query) basal.TotalOptions {
	return basal.TotalOptions{
		ExclusionThreshold: o.ExclusionThreshold,
		MidnightToMidnight: q.MidnightToMidnight,
		Excluded:           q.Excluded,
	}
}

type service struct {
	repository devicedata.Repository
	options    Options
	logger     *zap.SugaredLogger
	lru        *simplelru.LRU
	mu         *sync.Mutex
}

var _ Service = &service{}

func NewService(repository devicedata.Repository, cfg *config.Config, logger *zap.SugaredLogger) (Service, error) {
	var onEvict simplelru.EvictCallback
	lru, err := simplelru.NewLRU(cfg.CacheSize, onEvict)
	if err != nil {
		return nil, err
	}

	return &service{
		repository: repository,
		options: Options{
			Logger:             logger,
			ExclusionThreshold: pointer.FromAny(cfg.ExclusionThreshold),
		},
		logger: logger,
		lru:    lru,
		mu:     &sync.Mutex{},
	}, nil
}

func (s *service) Total(ctx context.Context, q Query) (basal.TotalResult, error) {
	if err := q.Validate(); err != nil {
		return basal.TotalResult{}, err
	}
	util, err := s.basalUtil(ctx, q.UserId, q.Start, q.End)
	if err != nil {
		return basal.TotalResult{}, err
	}
	return util.TotalBasal(q.Start, q.End, s.options.totalOptions(q)), nil
}

func (s *service) Actual(ctx context.Context, userId string, start, end time.Time) (basal.Result, error) {
	q := Query{UserId: userId, Start: start, End: end}
	if err := q.Validate(); err != nil {
		return basal.Result{}, err
	}
	util, err := s.basalUtil(ctx, userId, start, end)
	if err != nil {
		return basal.Result{}, err
	}
	return window(util.Result(), start, end), nil
}

func (s *service) SettingsIntervals(ctx context.Context, userId string, start, end time.Time) ([]settings.Interval, error) {
	if userId == "" || end.Before(start) {
		return nil, ErrInvalidRange
	}
	resolver, err := s.resolver(ctx, userId)
	if err != nil {
		return nil, err
	}
	return resolver.IntervalsIn(start, end), nil
}

func (s *service) Report(ctx context.Context, q Query) (*Report, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	util, err := s.basalUtil(ctx, q.UserId, q.Start, q.End)
	if err != nil {
		return nil, err
	}
	resolver, err := s.resolver(ctx, q.UserId)
	if err != nil {
		return nil, err
	}
	return newReport(q, util, resolver, s.options), nil
}

// basalUtil returns the reconciled basal data of the user around [start, end). Data is loaded for whole
// UTC days so midnight to midnight totals can be computed from the same engine.
func (s *service) basalUtil(ctx context.Context, userId string, start, end time.Time) (*basal.Util, error) {
	_, dataEnd, err := s.dataRange(ctx, userId)
	if err != nil {
		return nil, err
	}

	loadStart := datetime.Midnight(start)
	loadEnd := end
	if !datetime.IsMidnight(end) {
		loadEnd = datetime.NextMidnight(end)
	}
	key := fmt.Sprintf("basal|%s|%d|%d|%d", userId, loadStart.UnixMilli(), loadEnd.UnixMilli(), dataEnd.UnixMilli())
	if cached, ok := s.get(key); ok {
		return cached.(*basal.Util), nil
	}

	segments, err := s.repository.ListBasals(ctx, userId, loadStart, loadEnd)
	if err != nil {
		return nil, err
	}
	if len(segments) == 0 {
		return nil, ErrNoData
	}

	util := basal.NewUtil(segments, basal.WithLogger(s.logger.With("userId", userId)))
	s.add(key, util)
	return util, nil
}

// resolver returns the settings resolver over the whole diabetes data range of the user
func (s *service) resolver(ctx context.Context, userId string) (*settings.Resolver, error) {
	dataStart, dataEnd, err := s.dataRange(ctx, userId)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("settings|%s|%d|%d", userId, dataStart.UnixMilli(), dataEnd.UnixMilli())
	if cached, ok := s.get(key); ok {
		return cached.(*settings.Resolver), nil
	}

	snapshots, err := s.repository.ListSettings(ctx, userId, dataEnd)
	if err != nil {
		return nil, err
	}

	resolver := settings.NewResolver(snapshots, dataStart, dataEnd, settings.WithLogger(s.logger.With("userId", userId)))
	s.add(key, resolver)
	return resolver, nil
}

func (s *service) dataRange(ctx context.Context, userId string) (time.Time, time.Time, error) {
	dataStart, dataEnd, err := s.repository.DataRange(ctx, userId)
	if errors.Is(err, devicedata.ErrNotFound) {
		return time.Time{}, time.Time{}, ErrNoData
	} else if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("unable to get data range: %w", err)
	}
	return dataStart, dataEnd, nil
}

func (s *service) get(key string) (interface{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lru.Get(key)
}

func (s *service) add(key string, value interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_ = s.lru.Add(key, value)
}
