package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel/trace"

	"cryptoscope/internal/bot"
	"cryptoscope/internal/cache"
	"cryptoscope/internal/config"
	"cryptoscope/internal/provider"
	"cryptoscope/internal/service"
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
	startBotFunc      = bot.StartTelegramBot
	setupSignalNotify = signal.Notify
	waitForSignalFunc = func(quit <-chan os.Signal) { <-quit }
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

	startBotFunc(cfg.TelegramBotToken, svc)

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down bot")
}
