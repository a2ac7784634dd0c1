// Package signal turns a market snapshot plus optional technical
// indicators into a bounded confidence score and a recommendation.
package signal

import (
	"cryptoscope/internal/domain"
	"cryptoscope/internal/ta"
)

const baseScore = 50

// thresholdTable maps a clamped confidence score to a recommendation.
// Scores below the wait threshold map to AVOID.
type thresholdTable struct {
	strongBuy int
	buy       int
	hold      int
	wait      int
}

// Two tables exist because the achievable score ranges differ: the
// snapshot-only path is capped at 95 and can never reach full confidence.
var (
	indicatorThresholds = thresholdTable{strongBuy: 80, buy: 65, hold: 45, wait: 25}
	snapshotThresholds  = thresholdTable{strongBuy: 75, buy: 60, hold: 40, wait: 25}
)

// Confidence bounds. The ceiling depends on whether indicators were
// supplied; the floor does not.
const (
	minConfidence          = 10
	maxConfidenceIndicator = 100
	maxConfidenceSnapshot  = 95
)

// Score produces a Signal from a snapshot and an optional indicator set.
// It is a pure function of its inputs: no I/O, no clock, no randomness.
// A snapshot without market data yields the DATA INCOMPLETE sentinel and
// any non-finite numeric input yields the ERROR sentinel; both are
// terminal for the analysis pass.
func Score(snap domain.MarketSnapshot, ind *domain.IndicatorSet) domain.Signal {
	if !snap.HasMarketData {
		return sentinel(domain.RecDataIncomplete)
	}
	if !finiteInputs(snap, ind) {
		return sentinel(domain.RecError)
	}

	volumeRatio := 0.0
	if snap.MarketCapUSD > 0 {
		volumeRatio = snap.VolumeUSD / snap.MarketCapUSD * 100
	}

	score := baseScore
	score += change24hPoints(snap.Change24hPct)
	score += change7dPoints(snap.Change7dPct)
	score += change30dPoints(snap.Change30dPct)
	score += rankPoints(snap.MarketCapRank)
	score += liquidityPoints(volumeRatio)

	var outlook []domain.OutlookNote
	if ind != nil {
		score, outlook = applyIndicators(score, snap.PriceUSD, ind)
	}

	ceiling := maxConfidenceSnapshot
	table := snapshotThresholds
	if ind != nil {
		ceiling = maxConfidenceIndicator
		table = indicatorThresholds
	}
	score = clampInt(score, minConfidence, ceiling)

	return domain.Signal{
		Recommendation: table.recommend(score),
		Confidence:     score,
		Change24hPct:   snap.Change24hPct,
		Change7dPct:    snap.Change7dPct,
		VolumeRatioPct: volumeRatio,
		Outlook:        outlook,
		IndicatorsUsed: ind != nil,
	}
}

func (t thresholdTable) recommend(score int) domain.Recommendation {
	switch {
	case score >= t.strongBuy:
		return domain.RecStrongBuy
	case score >= t.buy:
		return domain.RecBuy
	case score >= t.hold:
		return domain.RecHold
	case score >= t.wait:
		return domain.RecWait
	default:
		return domain.RecAvoid
	}
}

func change24hPoints(pct float64) int {
	switch {
	case pct > 5:
		return 15
	case pct > 0:
		return 5
	case pct < -10:
		return -20
	case pct < -5:
		return -10
	default:
		return 0
	}
}

func change7dPoints(pct float64) int {
	switch {
	case pct > 10:
		return 10
	case pct > 0:
		return 3
	case pct < -15:
		return -15
	case pct < -5:
		return -8
	default:
		return 0
	}
}

func change30dPoints(pct float64) int {
	switch {
	case pct > 20:
		return 8
	case pct < -30:
		return -12
	default:
		return 0
	}
}

func rankPoints(rank int) int {
	switch {
	case rank <= 10:
		return 10
	case rank <= 50:
		return 5
	case rank > 200:
		return -5
	default:
		return 0
	}
}

func liquidityPoints(volumeRatioPct float64) int {
	switch {
	case volumeRatioPct > 15:
		return 8
	case volumeRatioPct < 2:
		return -10
	default:
		return 0
	}
}

// applyIndicators runs the indicator rules in fixed order, each
// independently additive. Outlook notes accumulate in rule order: RSI
// overbought/oversold notes always attach and are never superseded by the
// moving-average rules; the milder RSI momentum notes attach only while
// the outlook is still neutral (empty).
func applyIndicators(score int, price float64, ind *domain.IndicatorSet) (int, []domain.OutlookNote) {
	var outlook []domain.OutlookNote

	if ind.RSI14.Valid {
		rsi := ind.RSI14.Value
		switch {
		case rsi > 70:
			score -= 10
			outlook = append(outlook, domain.OutlookNote{Tag: domain.OutlookOverbought, Text: "potentially overbought"})
		case rsi < 30:
			score += 10
			outlook = append(outlook, domain.OutlookNote{Tag: domain.OutlookOversold, Text: "potentially oversold"})
		case rsi >= 50 && rsi <= 70:
			score += 5
			if len(outlook) == 0 {
				outlook = append(outlook, domain.OutlookNote{Tag: domain.OutlookPositiveMoment, Text: "positive momentum"})
			}
		case rsi > 30 && rsi < 50:
			score -= 5
			if len(outlook) == 0 {
				outlook = append(outlook, domain.OutlookNote{Tag: domain.OutlookWeakMomentum, Text: "weak momentum"})
			}
		}
	}

	if ind.SMA7.Valid && ind.SMA25.Valid {
		switch {
		case price > ind.SMA7.Value && ind.SMA7.Value > ind.SMA25.Value:
			score += 10
			outlook = append(outlook, domain.OutlookNote{Tag: domain.OutlookUptrend, Text: "short/mid-term trend pointing up"})
		case price < ind.SMA7.Value && ind.SMA7.Value < ind.SMA25.Value:
			score -= 10
			outlook = append(outlook, domain.OutlookNote{Tag: domain.OutlookDowntrend, Text: "short/mid-term trend pointing down"})
		}
	}

	if ind.SMA25.Valid && ind.SMA99.Valid {
		switch {
		case ind.SMA25.Value > ind.SMA99.Value:
			score += 5
			outlook = append(outlook, domain.OutlookNote{Tag: domain.OutlookLongTermBullish, Text: "long-term trend confirms bullish structure"})
		case ind.SMA25.Value < ind.SMA99.Value:
			score -= 5
			outlook = append(outlook, domain.OutlookNote{Tag: domain.OutlookLongTermBearish, Text: "long-term trend leans bearish"})
		}
	}

	if ind.MACD.Valid && ind.MACDSignal.Valid {
		switch {
		case ind.MACD.Value > ind.MACDSignal.Value && ind.MACDHist.Value > 0:
			score += 8
			outlook = append(outlook, domain.OutlookNote{Tag: domain.OutlookMomentumUp, Text: "momentum strengthening"})
		case ind.MACD.Value < ind.MACDSignal.Value && ind.MACDHist.Value < 0:
			score -= 8
			outlook = append(outlook, domain.OutlookNote{Tag: domain.OutlookMomentumDown, Text: "momentum weakening"})
		}
	}

	return score, outlook
}

// sentinel builds a terminal failure signal. Sentinels never carry
// percentages, ratios or outlook notes.
func sentinel(rec domain.Recommendation) domain.Signal {
	return domain.Signal{Recommendation: rec, Confidence: 0}
}

func finiteInputs(snap domain.MarketSnapshot, ind *domain.IndicatorSet) bool {
	for _, v := range []float64{
		snap.PriceUSD, snap.MarketCapUSD, snap.VolumeUSD,
		snap.Change24hPct, snap.Change7dPct, snap.Change30dPct,
	} {
		if !ta.IsFinite(v) {
			return false
		}
	}
	if ind == nil {
		return true
	}
	for _, i := range []domain.Indicator{
		ind.SMA7, ind.SMA25, ind.SMA99, ind.RSI14,
		ind.MACD, ind.MACDSignal, ind.MACDHist,
	} {
		if i.Valid && !ta.IsFinite(i.Value) {
			return false
		}
	}
	return true
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
