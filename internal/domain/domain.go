package domain

import "time"

// MarketSnapshot is the current market state of one asset at one instant,
// built from a single /coins/{id} response. Absent numeric fields default
// to zero; an absent market cap rank defaults to RankUnknown.
type MarketSnapshot struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Symbol        string  `json:"symbol"`
	MarketCapRank int     `json:"market_cap_rank"`
	PriceUSD      float64 `json:"price_usd"`
	MarketCapUSD  float64 `json:"market_cap_usd"`
	VolumeUSD     float64 `json:"volume_usd"`
	Change24hPct  float64 `json:"change_24h_pct"`
	Change7dPct   float64 `json:"change_7d_pct"`
	Change30dPct  float64 `json:"change_30d_pct"`

	// HasMarketData is false when the API response carried no market_data
	// object at all. Scoring such a snapshot yields the DATA INCOMPLETE
	// sentinel.
	HasMarketData bool `json:"has_market_data"`
}

// RankUnknown is the sentinel market cap rank for unranked assets.
const RankUnknown = 9999

// PricePoint is one (timestamp, price) sample of a historical series.
type PricePoint struct {
	Time  time.Time `json:"time"`
	Price float64   `json:"price"`
}

// PriceSeries is a chronological price history, ascending by time.
type PriceSeries []PricePoint

// Closes returns the raw price values in series order.
func (s PriceSeries) Closes() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Price
	}
	return out
}

// Indicator is an optionally-available indicator value. Valid is false
// when the series was too short to compute it.
type Indicator struct {
	Value float64 `json:"value"`
	Valid bool    `json:"valid"`
}

// IndicatorSet holds the technical indicators derived from one PriceSeries.
// The three MACD fields are always valid or invalid together.
type IndicatorSet struct {
	SMA7       Indicator `json:"sma7"`
	SMA25      Indicator `json:"sma25"`
	SMA99      Indicator `json:"sma99"`
	RSI14      Indicator `json:"rsi14"`
	MACD       Indicator `json:"macd"`
	MACDSignal Indicator `json:"macd_signal"`
	MACDHist   Indicator `json:"macd_hist"`
}

// Recommendation is the categorical output of the signal scorer.
type Recommendation string

const (
	RecStrongBuy Recommendation = "STRONG BUY"
	RecBuy       Recommendation = "BUY"
	RecHold      Recommendation = "HOLD"
	RecWait      Recommendation = "WAIT"
	RecAvoid     Recommendation = "AVOID"

	// Sentinel recommendations. A sentinel signal carries confidence 0 and
	// no percentages or outlook; callers must render an abort message
	// instead of a report.
	RecDataIncomplete Recommendation = "DATA INCOMPLETE"
	RecError          Recommendation = "ERROR"
)

// IsSentinel reports whether r is a terminal failure recommendation.
func (r Recommendation) IsSentinel() bool {
	return r == RecDataIncomplete || r == RecError
}

// OutlookTag identifies which scoring rule contributed an outlook note.
type OutlookTag string

const (
	OutlookOverbought      OutlookTag = "overbought"
	OutlookOversold        OutlookTag = "oversold"
	OutlookPositiveMoment  OutlookTag = "positive_momentum"
	OutlookWeakMomentum    OutlookTag = "weak_momentum"
	OutlookUptrend         OutlookTag = "uptrend"
	OutlookDowntrend       OutlookTag = "downtrend"
	OutlookLongTermBullish OutlookTag = "long_term_bullish"
	OutlookLongTermBearish OutlookTag = "long_term_bearish"
	OutlookMomentumUp      OutlookTag = "momentum_strengthening"
	OutlookMomentumDown    OutlookTag = "momentum_weakening"
)

// OutlookNote is one tagged outlook contribution. Notes are accumulated in
// rule order by the scorer and joined into text only at the presentation
// boundary.
type OutlookNote struct {
	Tag  OutlookTag `json:"tag"`
	Text string     `json:"text"`
}

// Signal is the scorer output for one analysis pass.
type Signal struct {
	Recommendation Recommendation `json:"recommendation"`
	Confidence     int            `json:"confidence"`
	Change24hPct   float64        `json:"change_24h_pct"`
	Change7dPct    float64        `json:"change_7d_pct"`
	VolumeRatioPct float64        `json:"volume_ratio_pct"`
	Outlook        []OutlookNote  `json:"outlook,omitempty"`
	IndicatorsUsed bool           `json:"indicators_used"`
}

// OutlookText renders the accumulated outlook notes as a sentence.
// An empty note list is the neutral outlook.
func (s Signal) OutlookText() string {
	if len(s.Outlook) == 0 {
		return "Neutral outlook."
	}
	text := s.Outlook[0].Text
	for _, note := range s.Outlook[1:] {
		text += "; " + note.Text
	}
	return text + "."
}

// Analysis bundles everything produced by one analysis pass.
type Analysis struct {
	Snapshot   MarketSnapshot `json:"snapshot"`
	Indicators *IndicatorSet  `json:"indicators,omitempty"`
	Signal     Signal         `json:"signal"`
}

// CoinListEntry is one row of the CoinGecko /coins/list response, used for
// "did you mean" suggestions.
type CoinListEntry struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// MarketRow is one row of the top-markets table.
type MarketRow struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Symbol       string  `json:"symbol"`
	PriceUSD     float64 `json:"current_price"`
	Change24hPct float64 `json:"price_change_percentage_24h"`
	Change7dPct  float64 `json:"price_change_percentage_7d_in_currency"`
	MarketCapUSD float64 `json:"market_cap"`
}

// QuickScanCoins are the assets covered by the quick scan menu option.
var QuickScanCoins = []string{"bitcoin", "ethereum", "cardano"}
