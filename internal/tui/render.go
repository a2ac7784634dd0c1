package tui

import (
	"fmt"
	"strings"

	"cryptoscope/internal/domain"
	"cryptoscope/internal/suggest"
)

const ruleWidth = 65

func rule() string {
	return styleRule.Render(strings.Repeat("─", ruleWidth))
}

// RenderAnalysis renders a full analysis report, or an abort message when
// the signal is a failure sentinel.
func RenderAnalysis(a *domain.Analysis) string {
	sig := a.Signal
	if sig.Recommendation.IsSentinel() {
		return renderAbort(a.Snapshot, sig)
	}

	var b strings.Builder
	snap := a.Snapshot

	b.WriteString(rule() + "\n")
	b.WriteString(styleTitle.Render(fmt.Sprintf("[+] Asset Analysis: %s (%s)", snap.Name, strings.ToUpper(snap.Symbol))) + "\n")
	b.WriteString(styleLabel.Render(fmt.Sprintf("[*] Current Price: %s", formatUSD(snap.PriceUSD, 4))) + "\n")
	b.WriteString(styleDim.Render(fmt.Sprintf("[*] Market Rank: %s", formatRank(snap.MarketCapRank))) + "\n")
	b.WriteString(styleInfo.Render(fmt.Sprintf("[*] 24h Change: %+.2f%%", sig.Change24hPct)) + "\n")
	b.WriteString(styleAccent.Render(fmt.Sprintf("[*] 7d Trend: %+.2f%%", sig.Change7dPct)) + "\n")
	b.WriteString(styleDim.Render(fmt.Sprintf("[*] Market Cap: %s", formatUSD(snap.MarketCapUSD, 0))) + "\n")
	b.WriteString(styleDim.Render(fmt.Sprintf("[*] 24h Volume: %s", formatUSD(snap.VolumeUSD, 0))) + "\n")
	b.WriteString(styleDim.Render(fmt.Sprintf("[*] Volume/MCap Ratio: %.2f%%", sig.VolumeRatioPct)) + "\n")

	if a.Indicators != nil {
		b.WriteString(renderIndicators(a.Indicators))
	}

	b.WriteString(rule() + "\n")
	recStyle := recommendationStyle(sig.Recommendation)
	b.WriteString(recStyle.Render(fmt.Sprintf("[+] Investment Signal: %s", sig.Recommendation)) + "\n")
	b.WriteString(styleGood.Render(fmt.Sprintf("[*] Confidence Score: %d/100", sig.Confidence)) + "\n")
	b.WriteString(styleInfo.Render("[?] "+sig.OutlookText()) + "\n")
	b.WriteString(recStyle.Render("[?] "+guidance(sig.Recommendation)) + "\n")
	return b.String()
}

func renderIndicators(ind *domain.IndicatorSet) string {
	var b strings.Builder
	b.WriteString(styleDim.Render("[*] Technical Indicators:") + "\n")
	b.WriteString(styleDim.Render(fmt.Sprintf("      SMA7 %s   SMA25 %s   SMA99 %s",
		formatIndicator(ind.SMA7, 2), formatIndicator(ind.SMA25, 2), formatIndicator(ind.SMA99, 2))) + "\n")
	b.WriteString(styleDim.Render(fmt.Sprintf("      RSI14 %s   MACD %s   Signal %s   Hist %s",
		formatIndicator(ind.RSI14, 1), formatIndicator(ind.MACD, 4),
		formatIndicator(ind.MACDSignal, 4), formatIndicator(ind.MACDHist, 4))) + "\n")
	return b.String()
}

func renderAbort(snap domain.MarketSnapshot, sig domain.Signal) string {
	name := snap.Name
	if name == "" {
		name = strings.ToUpper(snap.ID)
	}
	var b strings.Builder
	b.WriteString(rule() + "\n")
	b.WriteString(styleBad.Render(fmt.Sprintf("[-] Analysis for %s could not be completed (%s).", name, sig.Recommendation)) + "\n")
	if sig.Recommendation == domain.RecDataIncomplete {
		b.WriteString(styleDim.Render("[-] The data provider returned no market data for this asset.") + "\n")
	}
	return b.String()
}

// RenderMarkets renders the top-markets table.
func RenderMarkets(rows []domain.MarketRow) string {
	var b strings.Builder
	b.WriteString(styleTitle.Render(fmt.Sprintf("Top %d Cryptocurrencies by Market Capitalization", len(rows))) + "\n\n")
	b.WriteString(styleLabel.Bold(true).Render(
		fmt.Sprintf("%-4s %-18s %-16s %-11s %-11s %s", "#", "Coin", "Price (USD)", "24h % Chg", "7d % Chg", "Market Cap")) + "\n")
	b.WriteString(styleRule.Render(strings.Repeat("-", 75)) + "\n")

	for i, row := range rows {
		name := row.Name
		if len(name) > 17 {
			name = name[:17]
		}
		b.WriteString(fmt.Sprintf("%s %s %-16s %s %s %s\n",
			styleInfo.Render(fmt.Sprintf("%-4d", i+1)),
			styleLabel.Bold(true).Render(fmt.Sprintf("%-18s", name)),
			formatUSD(row.PriceUSD, 4),
			changeStyle(row.Change24hPct).Render(fmt.Sprintf("%+9.2f%%", row.Change24hPct)),
			changeStyle(row.Change7dPct).Render(fmt.Sprintf("%+9.2f%%", row.Change7dPct)),
			styleDim.Render(formatUSD(row.MarketCapUSD, 0)),
		))
	}
	return b.String()
}

// RenderNotFound renders the not-found error with fuzzy suggestions.
func RenderNotFound(coinID string, suggestions []suggest.Suggestion) string {
	var b strings.Builder
	b.WriteString(styleBad.Render(fmt.Sprintf("[-] Coin %q not found. Please check the identifier.", coinID)) + "\n")
	if len(suggestions) > 0 {
		b.WriteString(styleWarn.Render("[?] Did you mean:") + "\n")
		for _, s := range suggestions {
			b.WriteString(styleWarn.Render(fmt.Sprintf("    - %s (%s)", s.Name, s.ID)) + "\n")
		}
	}
	return b.String()
}

func guidance(rec domain.Recommendation) string {
	switch rec {
	case domain.RecStrongBuy:
		return "Strong bullish momentum and high liquidity detected."
	case domain.RecBuy:
		return "Positive market sentiment and upward trend indicated."
	case domain.RecHold:
		return "Neutral signals - monitor market trends closely."
	case domain.RecWait:
		return "Bearish indicators present. Consider waiting for clearer signals."
	default:
		return "High volatility, low liquidity, or significant bearish pressure detected."
	}
}

func formatUSD(v float64, decimals int) string {
	if v <= 0 {
		return "N/A"
	}
	return fmt.Sprintf("$%.*f", decimals, v)
}

func formatRank(rank int) string {
	if rank == domain.RankUnknown {
		return "N/A"
	}
	return fmt.Sprintf("#%d", rank)
}

func formatIndicator(ind domain.Indicator, decimals int) string {
	if !ind.Valid {
		return "n/a"
	}
	return fmt.Sprintf("%.*f", decimals, ind.Value)
}
