package review

import "github.com/ahameddd/food-review-app-real/internal/domain"

// Log is an ordered sequence of review records. Insertion order equals arrival
// order; records are never mutated or deleted.
type Log struct {
	records []domain.Review
}

// NewLog returns an empty log.
func NewLog() *Log {
	return &Log{}
}

// Append adds a record to the end of the log.
func (l *Log) Append(rec domain.Review) {
	l.records = append(l.records, rec)
}

// Snapshot returns a copy of the current records, oldest first. Mutating the
// returned slice does not affect the log.
func (l *Log) Snapshot() []domain.Review {
	out := make([]domain.Review, len(l.records))
	copy(out, l.records)
	return out
}

// Len returns the number of records.
func (l *Log) Len() int {
	return len(l.records)
}
