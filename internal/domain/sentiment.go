package domain

// Sentiment is the three-way polarity label attached to a review.
type Sentiment string

const (
	SentimentPositive Sentiment = "Positive"
	SentimentNegative Sentiment = "Negative"
	SentimentNeutral  Sentiment = "Neutral"
)

// Classifier maps review text to a sentiment label. Implementations must be
// pure and deterministic: the same text always yields the same label.
type Classifier interface {
	Classify(text string) Sentiment
}
