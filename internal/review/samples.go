package review

import (
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/ahameddd/food-review-app-real/internal/domain"
)

// SampleReviews returns the demo records the reference deployment seeds at
// startup, timestamped with the given clock and labeled with the given
// classifier. Seeding is opt-in via config.
func SampleReviews(clock clockwork.Clock, classifier domain.Classifier) []domain.Review {
	now := clock.Now().UTC().Format(time.RFC3339)
	records := []domain.Review{
		{
			Username:   "Alice",
			Restaurant: "Trattoria Roma",
			Text:       "Great food and amazing ambiance!",
			Ratings:    domain.Ratings{Food: 5, Service: 4, Ambiance: 5, Value: 4},
			Timestamp:  now,
		},
		{
			Username:   "Bob",
			Restaurant: "Trattoria Roma",
			Text:       "Decent place, but service was slow.",
			Ratings:    domain.Ratings{Food: 3, Service: 2, Ambiance: 4, Value: 3},
			Timestamp:  now,
		},
	}
	for i := range records {
		records[i].Sentiment = classifier.Classify(records[i].Text)
	}
	return records
}
