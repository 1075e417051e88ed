package sentiment

import (
	"github.com/jonreiter/govader"

	"github.com/ahameddd/food-review-app-real/internal/domain"
)

// VaderClassifier derives a three-way sentiment label from VADER's compound
// polarity score. Safe for concurrent use: the analyzer is read-only after
// construction.
type VaderClassifier struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewVaderClassifier builds a classifier with the default VADER lexicon.
func NewVaderClassifier() *VaderClassifier {
	return &VaderClassifier{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Classify maps review text to a sentiment label. Compound score > 0 is
// Positive, < 0 is Negative, exactly 0 is Neutral.
func (c *VaderClassifier) Classify(text string) domain.Sentiment {
	compound := c.analyzer.PolarityScores(text).Compound
	switch {
	case compound > 0:
		return domain.SentimentPositive
	case compound < 0:
		return domain.SentimentNegative
	default:
		return domain.SentimentNeutral
	}
}
