// Package sentiment implements the review sentiment classifier.
//
// Classification is lexicon-based (VADER) and entirely in-process: no I/O, no mutable
// state. The scoring model is replaceable behind domain.Classifier; the three-way
// threshold at zero is the fixed contract (exact zero is Neutral, not Positive).
package sentiment
