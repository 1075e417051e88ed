// Package server hosts the HTTP surface: the /ws WebSocket endpoint that runs the
// per-connection session loop, plus health, metrics, and version endpoints.
package server
