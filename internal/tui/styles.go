package tui

import (
	"github.com/charmbracelet/lipgloss"

	"cryptoscope/internal/domain"
)

var (
	styleBanner   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	styleTagline  = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	styleTitle    = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	styleLabel    = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	styleDim      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	styleInfo     = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	styleAccent   = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	styleGood     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	styleBad      = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	styleWarn     = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	styleSelected = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	styleRule     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	styleHelp     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// recommendationStyle mirrors the original color scheme: green buy tiers,
// yellow hold/wait, red for avoid and the failure sentinels.
func recommendationStyle(rec domain.Recommendation) lipgloss.Style {
	switch rec {
	case domain.RecStrongBuy:
		return styleGood.Bold(true)
	case domain.RecBuy:
		return styleGood
	case domain.RecHold:
		return styleWarn
	case domain.RecWait:
		return styleWarn.Faint(true)
	case domain.RecAvoid:
		return styleBad.Bold(true)
	default:
		return styleBad
	}
}

// changeStyle colors a percentage change green/red/neutral by sign.
func changeStyle(pct float64) lipgloss.Style {
	switch {
	case pct > 0:
		return styleGood
	case pct < 0:
		return styleBad
	default:
		return styleLabel
	}
}

const bannerArt = `
  ____                  _        ____
 / ___|_ __ _   _ _ __ | |_ ___ / ___|  ___ ___  _ __   ___
| |   | '__| | | | '_ \| __/ _ \\___ \ / __/ _ \| '_ \ / _ \
| |___| |  | |_| | |_) | || (_) |___) | (_| (_) | |_) |  __/
 \____|_|   \__, | .__/ \__\___/|____/ \___\___/| .__/ \___|
            |___/|_|                            |_|    v1.0.0`

// Banner renders the startup banner and disclaimer.
func Banner() string {
	return styleBanner.Render(bannerArt) + "\n" +
		styleTagline.Render("                  Advanced Crypto Tracker\n                 !!!NOT FINANCIAL ADVICE!!!") + "\n"
}
