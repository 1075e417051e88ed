// Package review holds the in-process, append-only review log.
//
// The log exists only for the lifetime of the process and records reviews in arrival
// order. It is not safe for concurrent use on its own: the broadcast hub confines it
// to its actor goroutine.
package review
