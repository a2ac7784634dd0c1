package main

import (
	"context"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel/trace"

	"cryptoscope/internal/cache"
	"cryptoscope/internal/config"
	"cryptoscope/internal/provider"
	"cryptoscope/internal/service"
	"cryptoscope/internal/tui"
	"cryptoscope/pkg/tracing"
)

var (
	loadEnvFunc    = godotenv.Load
	loadConfigFunc = config.Load
	initTracerFunc = tracing.InitTracer
	connectRedis   = cache.Connect
	newProviderFunc = func(cfg *config.Config, tracer trace.Tracer) service.MarketProvider {
		return provider.NewCoinGeckoClient(cfg.CoinGeckoBaseURL, cfg.APICallDelay, tracer)
	}
	runProgramFunc = func(m tea.Model) error {
		_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
		return err
	}
	osArgs = os.Args
)

func main() {
	loadEnvFunc()
	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tp, tracer, err := initTracerFunc(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	var redisClient service.RedisClient
	if c := connectRedis(ctx, cfg.RedisURL); c != nil {
		redisClient = c
	}

	cg := newProviderFunc(cfg, tracer)
	svc := service.NewAnalysisService(tracer, cg, redisClient, cfg.HistoryDays, cfg.TopMarketsLimit)

	// With positional args, run one-shot analyses for scripting; otherwise
	// start the interactive session.
	if args := osArgs[1:]; len(args) > 0 {
		for _, coinID := range args {
			content, _ := tui.Report(ctx, svc, coinID)
			fmt.Print(content)
		}
		return
	}

	if err := runProgramFunc(tui.New(svc)); err != nil {
		log.Fatalf("terminal session failed: %v", err)
	}
}
