// Package tui implements the interactive terminal front-end: menu, coin
// prompt, loading spinner and report views.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"cryptoscope/internal/domain"
	"cryptoscope/internal/provider"
	"cryptoscope/internal/suggest"
)

// Analyzer is the service surface the TUI drives.
type Analyzer interface {
	Analyze(ctx context.Context, coinID string) (*domain.Analysis, error)
	TopMarkets(ctx context.Context) ([]domain.MarketRow, error)
	Suggest(ctx context.Context, input string) ([]suggest.Suggestion, error)
}

type state int

const (
	stateMenu state = iota
	statePrompt
	stateLoading
	stateResult
)

var menuItems = []string{
	"Analyze specific cryptocurrency",
	"View top 20 market leaders",
	"Quick scan (BTC, ETH, ADA)",
	"Exit application",
}

// resultMsg carries the rendered output of a background fetch back into
// the update loop.
type resultMsg struct {
	content  string
	analyzed int
}

// Model is the bubbletea model for the interactive session.
type Model struct {
	svc Analyzer

	state       state
	cursor      int
	input       textinput.Model
	spin        spinner.Model
	content     string
	loadingNote string
	analyses    int
	quitting    bool
}

func New(svc Analyzer) Model {
	ti := textinput.New()
	ti.Placeholder = "bitcoin, ethereum, bitcoin-cash..."
	ti.CharLimit = 64
	ti.Width = 40

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styleInfo

	return Model{svc: svc, input: ti, spin: sp}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case spinner.TickMsg:
		if m.state != stateLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case resultMsg:
		m.state = stateResult
		m.content = msg.content
		m.analyses += msg.analyzed
		return m, nil
	}

	if m.state == statePrompt {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.state {
	case stateMenu:
		return m.handleMenuKey(msg)
	case statePrompt:
		switch msg.Type {
		case tea.KeyEnter:
			coinID := strings.ToLower(strings.TrimSpace(m.input.Value()))
			if coinID == "" {
				return m, nil
			}
			return m.startLoading(fmt.Sprintf("Fetching data for %s", strings.ToUpper(coinID)),
				analyzeCmd(m.svc, coinID))
		case tea.KeyEsc:
			m.state = stateMenu
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	case stateResult:
		switch msg.String() {
		case "q":
			m.quitting = true
			return m, tea.Quit
		default:
			m.state = stateMenu
			return m, nil
		}
	}
	return m, nil
}

func (m Model) handleMenuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(menuItems)-1 {
			m.cursor++
		}
	case "1", "2", "3", "4":
		m.cursor = int(msg.String()[0] - '1')
		return m.selectMenuItem()
	case "enter":
		return m.selectMenuItem()
	case "q", "esc":
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) selectMenuItem() (tea.Model, tea.Cmd) {
	switch m.cursor {
	case 0:
		m.state = statePrompt
		m.input.SetValue("")
		return m, m.input.Focus()
	case 1:
		return m.startLoading("Connecting to market data feed", topMarketsCmd(m.svc))
	case 2:
		return m.startLoading("Initiating quick market scan", quickScanCmd(m.svc))
	default:
		m.quitting = true
		return m, tea.Quit
	}
}

func (m Model) startLoading(note string, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	m.state = stateLoading
	m.loadingNote = note
	return m, tea.Batch(m.spin.Tick, cmd)
}

func (m Model) View() string {
	if m.quitting {
		return Banner() + "\n" +
			styleGood.Render(fmt.Sprintf("[+] Session completed - %d analyses performed.", m.analyses)) + "\n" +
			styleInfo.Render("[!] Thank you for using CryptoScope!") + "\n"
	}

	var b strings.Builder
	b.WriteString(Banner())
	b.WriteString("\n")

	switch m.state {
	case stateMenu:
		b.WriteString(styleTitle.Render("[?] CryptoScope Analysis Options:") + "\n")
		for i, item := range menuItems {
			line := fmt.Sprintf("[%d] %s", i+1, item)
			if i == m.cursor {
				b.WriteString(styleSelected.Render("> "+line) + "\n")
			} else {
				b.WriteString(styleLabel.Render("  "+line) + "\n")
			}
		}
		b.WriteString("\n" + styleHelp.Render("↑/↓ move · enter select · q quit") + "\n")
	case statePrompt:
		b.WriteString(styleTitle.Render("[>] Enter coin identifier:") + "\n")
		b.WriteString(m.input.View() + "\n")
		b.WriteString("\n" + styleHelp.Render("enter analyze · esc back") + "\n")
	case stateLoading:
		b.WriteString(m.spin.View() + styleDim.Render(" "+m.loadingNote+"...") + "\n")
	case stateResult:
		b.WriteString(m.content)
		b.WriteString("\n" + styleHelp.Render("any key back to menu · q quit") + "\n")
	}
	return b.String()
}

// Report runs one analysis and renders it. The second return reports
// whether a completed (non-sentinel) analysis was produced; not-found and
// sentinel outcomes render their own messages.
func Report(ctx context.Context, svc Analyzer, coinID string) (string, bool) {
	a, err := svc.Analyze(ctx, coinID)
	if err != nil {
		if errors.Is(err, provider.ErrCoinNotFound) {
			suggestions, serr := svc.Suggest(ctx, coinID)
			if serr != nil {
				suggestions = nil
			}
			return RenderNotFound(coinID, suggestions), false
		}
		if errors.Is(err, provider.ErrRateLimited) {
			return styleBad.Render("[-] Rate limit exceeded. Please wait a moment before trying again.") + "\n", false
		}
		return styleBad.Render(fmt.Sprintf("[-] Analysis aborted for %s due to data retrieval issues: %v", strings.ToUpper(coinID), err)) + "\n", false
	}
	return RenderAnalysis(a), !a.Signal.Recommendation.IsSentinel()
}

func analyzeCmd(svc Analyzer, coinID string) tea.Cmd {
	return func() tea.Msg {
		content, completed := Report(context.Background(), svc, coinID)
		analyzed := 0
		if completed {
			analyzed = 1
		}
		return resultMsg{content: content, analyzed: analyzed}
	}
}

func quickScanCmd(svc Analyzer) tea.Cmd {
	return func() tea.Msg {
		var parts []string
		analyzed := 0
		for _, coinID := range domain.QuickScanCoins {
			content, completed := Report(context.Background(), svc, coinID)
			parts = append(parts, content)
			if completed {
				analyzed++
			}
		}
		return resultMsg{content: strings.Join(parts, "\n"), analyzed: analyzed}
	}
}

func topMarketsCmd(svc Analyzer) tea.Cmd {
	return func() tea.Msg {
		rows, err := svc.TopMarkets(context.Background())
		if err != nil {
			return resultMsg{content: styleBad.Render(fmt.Sprintf("[-] Unable to fetch market data: %v", err)) + "\n"}
		}
		return resultMsg{content: RenderMarkets(rows)}
	}
}
