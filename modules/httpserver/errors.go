package httpserver

import (
	"errors"
)

// Error definitions for HTTP server operations.
var (
	// ErrServerNotStarted is returned when attempting to stop a server that hasn't been started.
	ErrServerNotStarted = errors.New("server not started")

	// ErrServerAlreadyStarted is returned when starting a running server.
	ErrServerAlreadyStarted = errors.New("server already started")

	// ErrNoHandler is returned when no HTTP handler is available for the server.
	ErrNoHandler = errors.New("no HTTP handler available")

	// ErrInvalidPort is returned for a port outside 0..65535.
	ErrInvalidPort = errors.New("invalid port number")

	// ErrInvalidTLSConfig is returned when TLS is enabled without files.
	ErrInvalidTLSConfig = errors.New("invalid TLS configuration")

	// ErrConfigType is returned when the config section holds another type.
	ErrConfigType = errors.New("config section has unexpected type")
)
