// Package suggest implements "did you mean" lookups over the CoinGecko
// coin list for mistyped identifiers.
package suggest

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"cryptoscope/internal/domain"
)

const (
	// DefaultThreshold is the minimum similarity (0-100) for a match.
	DefaultThreshold = 70
	// DefaultLimit caps the number of returned suggestions.
	DefaultLimit = 3
)

// Suggestion is one candidate coin with its similarity score.
type Suggestion struct {
	ID    string
	Name  string
	Score int
}

// Matcher scores user input against coin IDs and display names.
type Matcher struct {
	coins     []domain.CoinListEntry
	threshold int
	limit     int
}

func NewMatcher(coins []domain.CoinListEntry) *Matcher {
	return &Matcher{coins: coins, threshold: DefaultThreshold, limit: DefaultLimit}
}

// Suggest returns the closest coins to input, best match first. Both the
// coin ID and the display name are compared; a coin keeps the higher of
// the two scores. Matches below the threshold are dropped.
func (m *Matcher) Suggest(input string) []Suggestion {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" || len(m.coins) == 0 {
		return nil
	}

	best := make(map[string]Suggestion, m.limit)
	for _, coin := range m.coins {
		score := similarity(input, strings.ToLower(coin.ID))
		if s := similarity(input, strings.ToLower(coin.Name)); s > score {
			score = s
		}
		if score < m.threshold {
			continue
		}
		if prev, ok := best[coin.ID]; !ok || score > prev.Score {
			best[coin.ID] = Suggestion{ID: coin.ID, Name: coin.Name, Score: score}
		}
	}

	out := make([]Suggestion, 0, len(best))
	for _, s := range best {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > m.limit {
		out = out[:m.limit]
	}
	return out
}

// similarity maps Levenshtein distance to a 0-100 score relative to the
// longer string.
func similarity(a, b string) int {
	if a == b {
		return 100
	}
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return 0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return int(100 * (1 - float64(dist)/float64(longest)))
}
