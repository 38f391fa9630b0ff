package httpserver

// Event type constants for httpserver module events.
// CloudEvents types use reverse domain notation.
const (
	// Server lifecycle events
	EventTypeServerStarted = "com.logicalview.httpserver.server.started"
	EventTypeServerStopped = "com.logicalview.httpserver.server.stopped"

	// TLS events
	EventTypeTLSConfigured = "com.logicalview.httpserver.tls.configured"

	// Configuration events
	EventTypeConfigLoaded = "com.logicalview.httpserver.config.loaded"
)
