package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"

	"cryptoscope/internal/domain"
)

type fakeProvider struct {
	snapshot *domain.MarketSnapshot
	series   domain.PriceSeries
	rows     []domain.MarketRow
	coins    []domain.CoinListEntry

	snapshotErr error
	historyErr  error
	marketsErr  error
	coinListErr error

	snapshotCalls int
	historyCalls  int
	marketsCalls  int
	coinListCalls int
}

func (f *fakeProvider) FetchSnapshot(ctx context.Context, coinID string) (*domain.MarketSnapshot, error) {
	f.snapshotCalls++
	if f.snapshotErr != nil {
		return nil, f.snapshotErr
	}
	snap := *f.snapshot
	return &snap, nil
}

func (f *fakeProvider) FetchHistory(ctx context.Context, coinID string, days int) (domain.PriceSeries, error) {
	f.historyCalls++
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	return f.series, nil
}

func (f *fakeProvider) FetchMarkets(ctx context.Context, limit int) ([]domain.MarketRow, error) {
	f.marketsCalls++
	if f.marketsErr != nil {
		return nil, f.marketsErr
	}
	return f.rows, nil
}

func (f *fakeProvider) FetchCoinList(ctx context.Context) ([]domain.CoinListEntry, error) {
	f.coinListCalls++
	if f.coinListErr != nil {
		return nil, f.coinListErr
	}
	return f.coins, nil
}

type fakeRedis struct {
	data map[string][]byte
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: make(map[string][]byte)}
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.data[key] = value.([]byte)
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if data, ok := f.data[key]; ok {
		return redis.NewStringResult(string(data), nil)
	}
	return redis.NewStringResult("", redis.Nil)
}

func testSnapshot() *domain.MarketSnapshot {
	return &domain.MarketSnapshot{
		ID:            "bitcoin",
		Name:          "Bitcoin",
		Symbol:        "btc",
		MarketCapRank: 1,
		PriceUSD:      50000,
		MarketCapUSD:  1e12,
		VolumeUSD:     5e10,
		Change24hPct:  1.5,
		HasMarketData: true,
	}
}

func testSeries(n int) domain.PriceSeries {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make(domain.PriceSeries, n)
	for i := range out {
		out[i] = domain.PricePoint{Time: start.Add(time.Duration(i) * 24 * time.Hour), Price: 100 + float64(i)}
	}
	return out
}

func newTestService(p *fakeProvider, r RedisClient) *AnalysisService {
	return NewAnalysisService(trace.NewNoopTracerProvider().Tracer("test"), p, r, 120, 20)
}

func TestAnalyzeWithIndicators(t *testing.T) {
	t.Parallel()

	p := &fakeProvider{snapshot: testSnapshot(), series: testSeries(120)}
	svc := newTestService(p, nil)

	a, err := svc.Analyze(context.Background(), "bitcoin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Indicators == nil {
		t.Fatal("expected indicators from a full history")
	}
	if !a.Signal.IndicatorsUsed {
		t.Fatal("signal should record the indicator path")
	}
	if a.Snapshot.ID != "bitcoin" {
		t.Fatalf("unexpected snapshot: %+v", a.Snapshot)
	}
}

func TestAnalyzeDegradesWithoutHistory(t *testing.T) {
	t.Parallel()

	p := &fakeProvider{snapshot: testSnapshot(), historyErr: errors.New("boom")}
	svc := newTestService(p, nil)

	a, err := svc.Analyze(context.Background(), "bitcoin")
	if err != nil {
		t.Fatalf("history failure must not abort the analysis: %v", err)
	}
	if a.Indicators != nil {
		t.Fatal("expected no indicators when history fails")
	}
	if a.Signal.IndicatorsUsed {
		t.Fatal("signal should record the snapshot-only path")
	}
	if a.Signal.Recommendation == "" || a.Signal.Recommendation.IsSentinel() {
		t.Fatalf("degraded analysis should still score: %+v", a.Signal)
	}
}

func TestAnalyzeSnapshotErrorAborts(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("coin not found")
	p := &fakeProvider{snapshotErr: wantErr}
	svc := newTestService(p, nil)

	if _, err := svc.Analyze(context.Background(), "nope"); !errors.Is(err, wantErr) {
		t.Fatalf("expected the provider error, got %v", err)
	}
	if p.historyCalls != 0 {
		t.Fatal("history must not be fetched when the snapshot fails")
	}
}

func TestAnalyzeUsesSnapshotCache(t *testing.T) {
	t.Parallel()

	p := &fakeProvider{snapshot: testSnapshot(), series: testSeries(120)}
	r := newFakeRedis()
	svc := newTestService(p, r)

	ctx := context.Background()
	if _, err := svc.Analyze(ctx, "bitcoin"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Analyze(ctx, "bitcoin"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.snapshotCalls != 1 {
		t.Fatalf("expected 1 snapshot fetch, got %d", p.snapshotCalls)
	}
	if p.historyCalls != 1 {
		t.Fatalf("expected 1 history fetch, got %d", p.historyCalls)
	}
	if _, ok := r.data["cryptoscope:snapshot:bitcoin"]; !ok {
		t.Fatal("expected the snapshot to be cached")
	}
	if _, ok := r.data["cryptoscope:history:bitcoin:120"]; !ok {
		t.Fatal("expected the history to be cached")
	}
}

func TestAnalyzeIgnoresCorruptCache(t *testing.T) {
	t.Parallel()

	p := &fakeProvider{snapshot: testSnapshot(), series: testSeries(120)}
	r := newFakeRedis()
	r.data["cryptoscope:snapshot:bitcoin"] = []byte("{not json")

	svc := newTestService(p, r)
	if _, err := svc.Analyze(context.Background(), "bitcoin"); err != nil {
		t.Fatalf("corrupt cache entry must fall through to the provider: %v", err)
	}
	if p.snapshotCalls != 1 {
		t.Fatalf("expected a provider fetch, got %d calls", p.snapshotCalls)
	}
}

func TestTopMarketsCaching(t *testing.T) {
	t.Parallel()

	p := &fakeProvider{rows: []domain.MarketRow{{ID: "bitcoin", Name: "Bitcoin"}}}
	r := newFakeRedis()
	svc := newTestService(p, r)

	ctx := context.Background()
	rows, err := svc.TopMarkets(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != "bitcoin" {
		t.Fatalf("unexpected rows: %+v", rows)
	}

	if _, err := svc.TopMarkets(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.marketsCalls != 1 {
		t.Fatalf("expected 1 markets fetch, got %d", p.marketsCalls)
	}
}

func TestTopMarketsErrorPropagates(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("rate limit exceeded")
	p := &fakeProvider{marketsErr: wantErr}
	svc := newTestService(p, nil)

	if _, err := svc.TopMarkets(context.Background()); !errors.Is(err, wantErr) {
		t.Fatalf("expected the provider error, got %v", err)
	}
}

func TestSuggestFetchesCoinListOnce(t *testing.T) {
	t.Parallel()

	p := &fakeProvider{coins: []domain.CoinListEntry{
		{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin"},
		{ID: "ethereum", Symbol: "eth", Name: "Ethereum"},
	}}
	svc := newTestService(p, nil)

	ctx := context.Background()
	got, err := svc.Suggest(ctx, "bitcon")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) == 0 || got[0].ID != "bitcoin" {
		t.Fatalf("expected bitcoin suggestion, got %+v", got)
	}

	if _, err := svc.Suggest(ctx, "etherem"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.coinListCalls != 1 {
		t.Fatalf("expected 1 coin list fetch, got %d", p.coinListCalls)
	}
}

func TestSuggestUsesCachedCoinList(t *testing.T) {
	t.Parallel()

	r := newFakeRedis()
	coins := []domain.CoinListEntry{{ID: "cardano", Symbol: "ada", Name: "Cardano"}}
	data, _ := json.Marshal(coins)
	r.data["cryptoscope:coinlist"] = data

	p := &fakeProvider{coinListErr: errors.New("must not be called")}
	svc := newTestService(p, r)

	got, err := svc.Suggest(context.Background(), "cardno")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "cardano" {
		t.Fatalf("expected cardano from the cached list, got %+v", got)
	}
	if p.coinListCalls != 0 {
		t.Fatal("coin list must come from the cache")
	}
}

func TestSuggestCoinListErrorPropagates(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("boom")
	p := &fakeProvider{coinListErr: wantErr}
	svc := newTestService(p, nil)

	if _, err := svc.Suggest(context.Background(), "bitcoin"); !errors.Is(err, wantErr) {
		t.Fatalf("expected the provider error, got %v", err)
	}
}
