// Package bot exposes the analyzer over Telegram as a second front-end.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	tele "gopkg.in/telebot.v3"

	"cryptoscope/internal/domain"
	"cryptoscope/internal/provider"
	"cryptoscope/internal/suggest"
)

// AnalysisService is the service surface the bot drives.
type AnalysisService interface {
	Analyze(ctx context.Context, coinID string) (*domain.Analysis, error)
	TopMarkets(ctx context.Context) ([]domain.MarketRow, error)
	Suggest(ctx context.Context, input string) ([]suggest.Suggestion, error)
}

// StartTelegramBot starts a long-polling Telegram bot. With an empty token
// it logs and returns, so the bot stays optional.
func StartTelegramBot(token string, svc AnalysisService) {
	if token == "" {
		log.Println("TELEGRAM_BOT_TOKEN not set, skipping Telegram bot startup")
		return
	}
	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		log.Fatalf("failed to create Telegram bot: %v", err)
	}

	b.Handle("/ping", func(c tele.Context) error {
		return c.Send("pong")
	})

	b.Handle("/analyze", func(c tele.Context) error {
		args := c.Args()
		if len(args) == 0 {
			return c.Send("Usage: /analyze bitcoin")
		}
		coinID := strings.ToLower(args[0])
		a, err := svc.Analyze(context.Background(), coinID)
		if err != nil {
			return c.Send(analyzeErrorText(coinID, err, svc))
		}
		return c.Send(analysisText(a))
	})

	b.Handle("/top", func(c tele.Context) error {
		rows, err := svc.TopMarkets(context.Background())
		if err != nil {
			return c.Send(fmt.Sprintf("Error fetching market data: %v", err))
		}
		return c.Send(marketsText(rows))
	})

	log.Println("Telegram bot started")
	go b.Start()
}

func analyzeErrorText(coinID string, err error, svc AnalysisService) string {
	if errors.Is(err, provider.ErrCoinNotFound) {
		msg := fmt.Sprintf("Coin %q not found.", coinID)
		if suggestions, serr := svc.Suggest(context.Background(), coinID); serr == nil && len(suggestions) > 0 {
			var ids []string
			for _, s := range suggestions {
				ids = append(ids, s.ID)
			}
			msg += " Did you mean: " + strings.Join(ids, ", ")
		}
		return msg
	}
	if errors.Is(err, provider.ErrRateLimited) {
		return "Rate limit exceeded, try again shortly."
	}
	return fmt.Sprintf("Error analyzing %s: %v", coinID, err)
}

func analysisText(a *domain.Analysis) string {
	sig := a.Signal
	if sig.Recommendation.IsSentinel() {
		return fmt.Sprintf("Analysis for %s could not be completed (%s).", a.Snapshot.Name, sig.Recommendation)
	}
	return fmt.Sprintf(
		"%s (%s)\nPrice: $%.4f\nRank: #%d\n24h: %+.2f%%\n7d: %+.2f%%\nVolume/MCap: %.2f%%\n\nSignal: %s\nConfidence: %d/100\n%s",
		a.Snapshot.Name, strings.ToUpper(a.Snapshot.Symbol),
		a.Snapshot.PriceUSD, a.Snapshot.MarketCapRank,
		sig.Change24hPct, sig.Change7dPct, sig.VolumeRatioPct,
		sig.Recommendation, sig.Confidence, sig.OutlookText(),
	)
}

func marketsText(rows []domain.MarketRow) string {
	var b strings.Builder
	b.WriteString("Top cryptocurrencies by market cap:\n")
	for i, row := range rows {
		b.WriteString(fmt.Sprintf("%d. %s (%s) $%.4f %+.2f%%\n",
			i+1, row.Name, strings.ToUpper(row.Symbol), row.PriceUSD, row.Change24hPct))
	}
	return b.String()
}
