package sentiment

import (
	"context"
	"strings"

	"github.com/cleitonmarx/symbiont/depend"
	"github.com/grassmudhorses/vader-go/lexicon"
	"github.com/grassmudhorses/vader-go/sentitext"

	"github.com/vinoclub/wineclub-backend/internal/domain"
)

// VaderAnalyzer scores review text with the VADER lexicon. The compound
// polarity it returns is already normalized to [-1, 1], which is what the
// taste-vector builder expects.
type VaderAnalyzer struct{}

// NewVaderAnalyzer creates a new VaderAnalyzer.
func NewVaderAnalyzer() VaderAnalyzer {
	return VaderAnalyzer{}
}

// Score returns the compound polarity of the given text. Empty or
// whitespace-only text is neutral.
func (VaderAnalyzer) Score(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}

	parsed := sentitext.Parse(text, lexicon.DefaultLexicon)
	return sentitext.PolarityScore(parsed).Compound
}

// InitSentimentAnalyzer registers the VaderAnalyzer as the SentimentAnalyzer implementation
type InitSentimentAnalyzer struct{}

// Initialize registers the VaderAnalyzer
func (i InitSentimentAnalyzer) Initialize(ctx context.Context) (context.Context, error) {
	depend.Register[domain.SentimentAnalyzer](NewVaderAnalyzer())
	return ctx, nil
}
