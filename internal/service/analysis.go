package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"

	"cryptoscope/internal/domain"
	"cryptoscope/internal/signal"
	"cryptoscope/internal/suggest"
	"cryptoscope/internal/ta"
)

const (
	snapshotCacheTTL = 90 * time.Second
	historyCacheTTL  = 10 * time.Minute
	marketsCacheTTL  = 90 * time.Second
	coinListCacheTTL = 24 * time.Hour
)

// MarketProvider is the data-provider side of the analysis pipeline.
type MarketProvider interface {
	FetchSnapshot(ctx context.Context, coinID string) (*domain.MarketSnapshot, error)
	FetchHistory(ctx context.Context, coinID string, days int) (domain.PriceSeries, error)
	FetchMarkets(ctx context.Context, limit int) ([]domain.MarketRow, error)
	FetchCoinList(ctx context.Context) ([]domain.CoinListEntry, error)
}

// RedisClient is the subset of the Redis API the service uses.
type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// AnalysisService orchestrates fetching, caching, indicator derivation and
// signal scoring for one asset at a time.
type AnalysisService struct {
	tracer       trace.Tracer
	provider     MarketProvider
	redis        RedisClient
	historyDays  int
	marketsLimit int

	mu      sync.Mutex
	matcher *suggest.Matcher
}

func NewAnalysisService(
	tracer trace.Tracer,
	provider MarketProvider,
	redisClient RedisClient,
	historyDays int,
	marketsLimit int,
) *AnalysisService {
	if historyDays <= 0 {
		historyDays = 120
	}
	if marketsLimit <= 0 {
		marketsLimit = 20
	}
	return &AnalysisService{
		tracer:       tracer,
		provider:     provider,
		redis:        redisClient,
		historyDays:  historyDays,
		marketsLimit: marketsLimit,
	}
}

// Analyze runs one full analysis pass: snapshot + history -> indicators ->
// signal. History failures degrade to a snapshot-only scoring pass instead
// of aborting; snapshot failures abort.
func (s *AnalysisService) Analyze(ctx context.Context, coinID string) (*domain.Analysis, error) {
	ctx, span := s.tracer.Start(ctx, "analysis.analyze")
	defer span.End()

	snap, err := s.snapshot(ctx, coinID)
	if err != nil {
		return nil, err
	}

	var indicators *domain.IndicatorSet
	series, err := s.history(ctx, coinID)
	if err != nil {
		log.Printf("history unavailable for %s, scoring snapshot only: %v", coinID, err)
	} else {
		set := ta.Compute(series)
		indicators = &set
	}

	return &domain.Analysis{
		Snapshot:   *snap,
		Indicators: indicators,
		Signal:     signal.Score(*snap, indicators),
	}, nil
}

// TopMarkets returns the leading assets by market capitalization.
func (s *AnalysisService) TopMarkets(ctx context.Context) ([]domain.MarketRow, error) {
	ctx, span := s.tracer.Start(ctx, "analysis.top-markets")
	defer span.End()

	key := fmt.Sprintf("cryptoscope:markets:%d", s.marketsLimit)
	var rows []domain.MarketRow
	if s.cacheGet(ctx, key, &rows) {
		return rows, nil
	}

	rows, err := s.provider.FetchMarkets(ctx, s.marketsLimit)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, rows, marketsCacheTTL)
	return rows, nil
}

// Suggest returns close matches for a coin identifier the provider did not
// recognize. The coin list backing the matcher is fetched once per process
// and kept in Redis across runs.
func (s *AnalysisService) Suggest(ctx context.Context, input string) ([]suggest.Suggestion, error) {
	ctx, span := s.tracer.Start(ctx, "analysis.suggest")
	defer span.End()

	matcher, err := s.coinMatcher(ctx)
	if err != nil {
		return nil, err
	}
	return matcher.Suggest(input), nil
}

func (s *AnalysisService) snapshot(ctx context.Context, coinID string) (*domain.MarketSnapshot, error) {
	key := "cryptoscope:snapshot:" + coinID
	var cached domain.MarketSnapshot
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	snap, err := s.provider.FetchSnapshot(ctx, coinID)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, snap, snapshotCacheTTL)
	return snap, nil
}

func (s *AnalysisService) history(ctx context.Context, coinID string) (domain.PriceSeries, error) {
	key := fmt.Sprintf("cryptoscope:history:%s:%d", coinID, s.historyDays)
	var cached domain.PriceSeries
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	series, err := s.provider.FetchHistory(ctx, coinID, s.historyDays)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, series, historyCacheTTL)
	return series, nil
}

func (s *AnalysisService) coinMatcher(ctx context.Context) (*suggest.Matcher, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.matcher != nil {
		return s.matcher, nil
	}

	const key = "cryptoscope:coinlist"
	var coins []domain.CoinListEntry
	if !s.cacheGet(ctx, key, &coins) {
		var err error
		coins, err = s.provider.FetchCoinList(ctx)
		if err != nil {
			return nil, err
		}
		s.cacheSet(ctx, key, coins, coinListCacheTTL)
	}

	s.matcher = suggest.NewMatcher(coins)
	return s.matcher, nil
}

// cacheGet reads and decodes a cached value. Cache errors are logged and
// treated as misses; analysis never fails because Redis is down.
func (s *AnalysisService) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	if s.redis == nil {
		return false
	}
	data, err := s.redis.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		log.Printf("redis cache read error: %v", err)
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		log.Printf("redis cache decode error for %s: %v", key, err)
		return false
	}
	return true
}

func (s *AnalysisService) cacheSet(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if s.redis == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, key, data, ttl).Err(); err != nil {
		log.Printf("redis cache write error for %s: %v", key, err)
	}
}
