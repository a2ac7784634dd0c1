package main

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/redis/go-redis/v9"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"cryptoscope/internal/config"
	"cryptoscope/internal/domain"
	"cryptoscope/internal/service"
)

func TestMainBootstrapInteractive(t *testing.T) {
	var ran bool
	restore := stubDeps(t, &ran)
	defer restore()

	done := make(chan struct{})
	go func() {
		main()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("main did not exit")
	}
	if !ran {
		t.Fatal("expected the interactive program to start")
	}
}

func TestMainBootstrapOneShot(t *testing.T) {
	var ran bool
	restore := stubDeps(t, &ran)
	defer restore()

	osArgs = []string{"cryptoscope", "bitcoin"}

	done := make(chan struct{})
	go func() {
		main()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("main did not exit")
	}
	if ran {
		t.Fatal("one-shot mode must not start the interactive program")
	}
}

func stubDeps(t *testing.T, programRan *bool) func() {
	t.Helper()

	origLoadEnv := loadEnvFunc
	origLoadConfig := loadConfigFunc
	origInitTracer := initTracerFunc
	origConnectRedis := connectRedis
	origNewProvider := newProviderFunc
	origRunProgram := runProgramFunc
	origOsArgs := osArgs

	osArgs = []string{"cryptoscope"}

	loadEnvFunc = func(...string) error { return nil }
	loadConfigFunc = func() *config.Config {
		return &config.Config{HistoryDays: 120, TopMarketsLimit: 20}
	}
	initTracerFunc = func(ctx context.Context) (*sdktrace.TracerProvider, trace.Tracer, error) {
		tp := sdktrace.NewTracerProvider()
		return tp, tp.Tracer("test"), nil
	}
	connectRedis = func(context.Context, string) *redis.Client { return nil }
	newProviderFunc = func(cfg *config.Config, tracer trace.Tracer) service.MarketProvider {
		return stubMarketProvider{}
	}
	runProgramFunc = func(m tea.Model) error {
		if programRan != nil {
			*programRan = true
		}
		return nil
	}

	return func() {
		loadEnvFunc = origLoadEnv
		loadConfigFunc = origLoadConfig
		initTracerFunc = origInitTracer
		connectRedis = origConnectRedis
		newProviderFunc = origNewProvider
		runProgramFunc = origRunProgram
		osArgs = origOsArgs
	}
}

type stubMarketProvider struct{}

func (stubMarketProvider) FetchSnapshot(ctx context.Context, coinID string) (*domain.MarketSnapshot, error) {
	return &domain.MarketSnapshot{
		ID:            coinID,
		Name:          "Bitcoin",
		Symbol:        "btc",
		MarketCapRank: 1,
		PriceUSD:      1,
		MarketCapUSD:  1,
		VolumeUSD:     1,
		HasMarketData: true,
	}, nil
}

func (stubMarketProvider) FetchHistory(ctx context.Context, coinID string, days int) (domain.PriceSeries, error) {
	return domain.PriceSeries{}, nil
}

func (stubMarketProvider) FetchMarkets(ctx context.Context, limit int) ([]domain.MarketRow, error) {
	return []domain.MarketRow{}, nil
}

func (stubMarketProvider) FetchCoinList(ctx context.Context) ([]domain.CoinListEntry, error) {
	return []domain.CoinListEntry{}, nil
}
