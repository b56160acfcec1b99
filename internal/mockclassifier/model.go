package mockclassifier

import (
	"cmp"
	"math"
	"slices"
	"strings"
	"unicode"

	"github.com/nao1215/scamscan/internal/model"
)

const (
	// defaultBias is the logit of a message with no keywords (about 10%).
	defaultBias = -2.2

	// defaultTopK is the number of highlights returned.
	defaultTopK = 8

	// impactScale converts a logit contribution into an impact score.
	impactScale = 0.25
)

// Model is a linear keyword model.
type Model struct {
	// Bias is the logit of a message without keywords.
	Bias float64

	// TopK caps the number of highlights.
	TopK int
}

// DefaultModel returns the model served by the mock classifier.
func DefaultModel() Model {
	return Model{Bias: defaultBias, TopK: defaultTopK}
}

// Score returns the scam probability of message in [0,1] and the words that
// contributed to it, strongest first.
func (m Model) Score(message string) (float64, []model.Highlight) {
	counts := make(map[string]int)
	var order []string
	for _, tok := range tokenize(message) {
		if tokenWeight(tok) == 0 {
			continue
		}
		if counts[tok] == 0 {
			order = append(order, tok)
		}
		counts[tok]++
	}

	logit := m.Bias
	highlights := make([]model.Highlight, 0, len(order))
	for _, tok := range order {
		contribution := tokenWeight(tok) * float64(counts[tok])
		logit += contribution
		highlights = append(highlights, model.Highlight{
			Term:   tok,
			Impact: round3(contribution * impactScale),
			Reason: wordReason(tok),
		})
	}

	slices.SortStableFunc(highlights, func(a, b model.Highlight) int {
		return cmp.Compare(b.Impact, a.Impact)
	})
	if m.TopK > 0 && len(highlights) > m.TopK {
		highlights = highlights[:m.TopK]
	}

	return sigmoid(logit), highlights
}

// tokenWeight returns the weight of a lower-cased token, or 0.
func tokenWeight(tok string) float64 {
	if k, ok := keywords[tok]; ok {
		return k.weight
	}
	// Amounts like "1000" or "5000" make fake offers feel concrete.
	if len(tok) >= 3 && isDigits(tok) {
		return weightWeak
	}
	return 0
}

// tokenize splits message into lower-cased words.
func tokenize(message string) []string {
	return strings.FieldsFunc(strings.ToLower(message), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
