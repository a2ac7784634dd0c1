package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	CoinGeckoBaseURL string
	APICallDelay     time.Duration
	HistoryDays      int
	TopMarketsLimit  int

	RedisURL         string
	TelegramBotToken string
}

func Load() *Config {
	cfg := &Config{
		CoinGeckoBaseURL: strings.TrimSpace(os.Getenv("COINGECKO_BASE_URL")),
		RedisURL:         strings.TrimSpace(os.Getenv("REDIS_URL")),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
	}

	if cfg.RedisURL == "" {
		log.Println("REDIS_URL not set, response caching disabled")
	}

	cfg.APICallDelay = 1500 * time.Millisecond
	if v := strings.TrimSpace(os.Getenv("API_CALL_DELAY_MS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.APICallDelay = time.Duration(n) * time.Millisecond
		}
	}

	cfg.HistoryDays = 120
	if v := strings.TrimSpace(os.Getenv("HISTORY_DAYS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.HistoryDays = n
		}
	}

	cfg.TopMarketsLimit = 20
	if v := strings.TrimSpace(os.Getenv("TOP_MARKETS_LIMIT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TopMarketsLimit = n
		}
	}

	return cfg
}
