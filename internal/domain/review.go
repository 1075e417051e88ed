package domain

// Ratings holds the four named sub-ratings a reviewer assigns. The reference
// clients use a 1-5 scale, but the protocol does not enforce a range.
type Ratings struct {
	Food     int `json:"food"`
	Service  int `json:"service"`
	Ambiance int `json:"ambiance"`
	Value    int `json:"value"`
}

// Review is a submitted restaurant review enriched with its sentiment label.
// Records are immutable after creation and live only for the process lifetime.
type Review struct {
	Username   string
	Restaurant string
	Text       string
	Ratings    Ratings
	Sentiment  Sentiment
	Timestamp  string
}
