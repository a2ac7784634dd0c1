package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"cryptoscope/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const DefaultBaseURL = "https://api.coingecko.com/api/v3"

// Typed fetch failures. Transport and decode errors are returned wrapped;
// callers distinguish these two with errors.Is.
var (
	ErrCoinNotFound = errors.New("coin not found")
	ErrRateLimited  = errors.New("rate limit exceeded")
)

// CoinGeckoClient fetches market data from the CoinGecko free API with
// built-in rate limiting.
type CoinGeckoClient struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
	limiter *RateLimiter
}

// NewCoinGeckoClient creates a client enforcing minDelay between
// consecutive API calls.
func NewCoinGeckoClient(baseURL string, minDelay time.Duration, tracer trace.Tracer) *CoinGeckoClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &CoinGeckoClient{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: baseURL,
		tracer:  tracer,
		limiter: NewMinDelayLimiter(minDelay),
	}
}

// coins/{id} response, reduced to the fields the analyzer consumes.
// Pointer fields distinguish absent from zero.
type coinDetailResponse struct {
	ID            string          `json:"id"`
	Symbol        string          `json:"symbol"`
	Name          string          `json:"name"`
	MarketCapRank *int            `json:"market_cap_rank"`
	MarketData    *coinMarketData `json:"market_data"`
}

type coinMarketData struct {
	CurrentPrice map[string]float64 `json:"current_price"`
	MarketCap    map[string]float64 `json:"market_cap"`
	TotalVolume  map[string]float64 `json:"total_volume"`
	Change24h    *float64           `json:"price_change_percentage_24h"`
	Change7d     *float64           `json:"price_change_percentage_7d"`
	Change30d    *float64           `json:"price_change_percentage_30d"`
}

// FetchSnapshot fetches the current market snapshot for one asset.
// Absent fields map to the documented defaults; a response without a
// market_data object still yields a snapshot, flagged HasMarketData=false.
func (c *CoinGeckoClient) FetchSnapshot(ctx context.Context, coinID string) (*domain.MarketSnapshot, error) {
	ctx, span := c.tracer.Start(ctx, "coingecko.fetch-snapshot")
	defer span.End()

	u := fmt.Sprintf("%s/coins/%s?localization=false&tickers=false&market_data=true&community_data=false&developer_data=false&sparkline=false",
		c.baseURL, url.PathEscape(coinID))

	body, err := c.doRequest(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("fetch snapshot for %s: %w", coinID, err)
	}

	var raw coinDetailResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse snapshot for %s: %w", coinID, err)
	}

	snap := &domain.MarketSnapshot{
		ID:            raw.ID,
		Name:          raw.Name,
		Symbol:        raw.Symbol,
		MarketCapRank: domain.RankUnknown,
	}
	if raw.MarketCapRank != nil {
		snap.MarketCapRank = *raw.MarketCapRank
	}
	if md := raw.MarketData; md != nil {
		snap.HasMarketData = true
		snap.PriceUSD = md.CurrentPrice["usd"]
		snap.MarketCapUSD = md.MarketCap["usd"]
		snap.VolumeUSD = md.TotalVolume["usd"]
		if md.Change24h != nil {
			snap.Change24hPct = *md.Change24h
		}
		if md.Change7d != nil {
			snap.Change7dPct = *md.Change7d
		}
		if md.Change30d != nil {
			snap.Change30dPct = *md.Change30d
		}
	}
	return snap, nil
}

// FetchHistory fetches the daily price series for an asset over the last
// days. The result is sorted ascending by timestamp; an empty payload
// yields an empty series, not an error.
func (c *CoinGeckoClient) FetchHistory(ctx context.Context, coinID string, days int) (domain.PriceSeries, error) {
	ctx, span := c.tracer.Start(ctx, "coingecko.fetch-history")
	defer span.End()

	u := fmt.Sprintf("%s/coins/%s/market_chart?vs_currency=usd&days=%d",
		c.baseURL, url.PathEscape(coinID), days)

	body, err := c.doRequest(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("fetch history for %s: %w", coinID, err)
	}

	var raw struct {
		Prices [][]float64 `json:"prices"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse history for %s: %w", coinID, err)
	}

	series := make(domain.PriceSeries, 0, len(raw.Prices))
	for _, pt := range raw.Prices {
		if len(pt) < 2 {
			continue
		}
		series = append(series, domain.PricePoint{
			Time:  time.UnixMilli(int64(pt[0])).UTC(),
			Price: pt[1],
		})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Time.Before(series[j].Time) })
	return series, nil
}

// FetchMarkets fetches the top assets by market capitalization.
func (c *CoinGeckoClient) FetchMarkets(ctx context.Context, limit int) ([]domain.MarketRow, error) {
	ctx, span := c.tracer.Start(ctx, "coingecko.fetch-markets")
	defer span.End()

	u := fmt.Sprintf("%s/coins/markets?vs_currency=usd&order=market_cap_desc&per_page=%d&page=1&sparkline=false&price_change_percentage=24h,7d",
		c.baseURL, limit)

	body, err := c.doRequest(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("fetch markets: %w", err)
	}

	var rows []domain.MarketRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("parse markets: %w", err)
	}
	return rows, nil
}

// FetchCoinList fetches the complete list of coin identifiers, used for
// "did you mean" suggestions. The list is large (~15k entries); callers
// are expected to cache it.
func (c *CoinGeckoClient) FetchCoinList(ctx context.Context) ([]domain.CoinListEntry, error) {
	ctx, span := c.tracer.Start(ctx, "coingecko.fetch-coin-list")
	defer span.End()

	body, err := c.doRequest(ctx, c.baseURL+"/coins/list")
	if err != nil {
		return nil, fmt.Errorf("fetch coin list: %w", err)
	}

	var entries []domain.CoinListEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("parse coin list: %w", err)
	}
	return entries, nil
}

func (c *CoinGeckoClient) doRequest(ctx context.Context, url string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return io.ReadAll(resp.Body)
	case http.StatusNotFound:
		return nil, ErrCoinNotFound
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("coingecko API error %d: %s", resp.StatusCode, string(body))
	}
}
