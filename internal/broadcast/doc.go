// Package broadcast implements the WebSocket hub using the actor pattern.
//
// A single goroutine owns the client registry and the review log; all access goes
// through a command channel (no mutexes). Per-connection write goroutines isolate slow
// or dead clients: a failed delivery evicts only that recipient and never aborts the
// fan-out to the rest.
package broadcast
