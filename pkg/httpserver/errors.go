package httpserver

import "errors"

var (
	// ErrStart indicates the server failed to start or crashed while serving.
	ErrStart = errors.New("http server failed to start")

	// ErrShutdown indicates graceful shutdown did not complete in time.
	ErrShutdown = errors.New("http server failed to shut down cleanly")
)
