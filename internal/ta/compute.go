package ta

import "cryptoscope/internal/domain"

// Compute derives the full indicator set from a chronological price
// series. Indicators lacking history are individually marked invalid; an
// empty or nil series yields an all-invalid set, which is a normal state
// rather than a fault.
func Compute(series domain.PriceSeries) domain.IndicatorSet {
	var set domain.IndicatorSet
	if len(series) == 0 {
		return set
	}

	closes := series.Closes()

	if v, ok := SMA(closes, SMAShortWindow); ok {
		set.SMA7 = domain.Indicator{Value: v, Valid: true}
	}
	if v, ok := SMA(closes, SMAMidWindow); ok {
		set.SMA25 = domain.Indicator{Value: v, Valid: true}
	}
	if v, ok := SMA(closes, SMALongWindow); ok {
		set.SMA99 = domain.Indicator{Value: v, Valid: true}
	}

	if v, ok := RSI(closes, RSIPeriod); ok {
		set.RSI14 = domain.Indicator{Value: v, Valid: true}
	}

	// MACD line, signal and histogram share the same EMA state: all three
	// are present together or not at all.
	if line, sig, hist, ok := MACD(closes, MACDFastPeriod, MACDSlowPeriod, MACDSignalPeriod); ok {
		set.MACD = domain.Indicator{Value: line, Valid: true}
		set.MACDSignal = domain.Indicator{Value: sig, Valid: true}
		set.MACDHist = domain.Indicator{Value: hist, Valid: true}
	}

	return set
}
