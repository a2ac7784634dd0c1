package ta

import "math"

// Standard indicator parameters used by Compute.
const (
	SMAShortWindow = 7
	SMAMidWindow   = 25
	SMALongWindow  = 99

	RSIPeriod = 14

	MACDFastPeriod   = 12
	MACDSlowPeriod   = 26
	MACDSignalPeriod = 9
)

// SMA returns the arithmetic mean of the most recent window values.
// The second return is false when the series is shorter than the window.
func SMA(values []float64, window int) (float64, bool) {
	if window <= 0 || len(values) < window {
		return 0, false
	}
	var sum float64
	for _, v := range values[len(values)-window:] {
		sum += v
	}
	return sum / float64(window), true
}

// EMASeries computes an exponential moving average over the whole series,
// seeded with the first value.
func EMASeries(values []float64, period int) []float64 {
	if len(values) == 0 {
		return nil
	}
	if period <= 1 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	alpha := 2.0 / float64(period+1)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}

// RSI returns the Wilder relative strength index over the most recent
// period deltas. It needs period+1 values; the second return is false when
// the series is shorter than that.
func RSI(values []float64, period int) (float64, bool) {
	if period <= 0 || len(values) <= period {
		return 0, false
	}

	var gainSum, lossSum float64
	start := len(values) - period - 1
	for i := start + 1; i < len(values); i++ {
		delta := values[i] - values[i-1]
		if delta > 0 {
			gainSum += delta
		} else {
			lossSum -= delta
		}
	}
	avgGain := gainSum / float64(period)
	avgLoss := lossSum / float64(period)
	return rsiFromAvg(avgGain, avgLoss), true
}

func rsiFromAvg(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs))
}

// MACD computes the MACD line (fast EMA minus slow EMA), signal line
// (EMA of the MACD line) and histogram at the end of the series. The three
// values are only defined together; ok is false when the series is shorter
// than the slow period.
func MACD(values []float64, fast, slow, signal int) (line, sig, hist float64, ok bool) {
	if len(values) < slow {
		return 0, 0, 0, false
	}
	fastEMA := EMASeries(values, fast)
	slowEMA := EMASeries(values, slow)
	macdLine := make([]float64, len(values))
	for i := range values {
		macdLine[i] = fastEMA[i] - slowEMA[i]
	}
	signalLine := EMASeries(macdLine, signal)

	last := len(values) - 1
	line = macdLine[last]
	sig = signalLine[last]
	return line, sig, line - sig, true
}

// NaN-safe finite check shared by callers validating indicator input.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
