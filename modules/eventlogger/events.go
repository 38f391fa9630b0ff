package eventlogger

// Event type constants for eventlogger module events.
// CloudEvents types use reverse domain notation.
const (
	// Logger lifecycle events
	EventTypeLoggerStarted = "com.logicalview.eventlogger.started"
	EventTypeLoggerStopped = "com.logicalview.eventlogger.stopped"
)
