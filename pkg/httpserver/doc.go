// Package httpserver wraps net/http's Server with graceful shutdown,
// environment-driven configuration, and a composable health endpoint.
//
// Run blocks until either the parent context is cancelled, the process
// receives SIGINT/SIGTERM, or the listener fails; in all cases in-flight
// requests get the configured shutdown window to finish.
package httpserver
