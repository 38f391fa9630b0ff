package chimux

// Event type constants for chimux module events.
// CloudEvents types use reverse domain notation.
const (
	// Configuration events
	EventTypeConfigLoaded = "com.logicalview.chimux.config.loaded"

	// Router events
	EventTypeRouterCreated = "com.logicalview.chimux.router.created"
	EventTypeRouterStarted = "com.logicalview.chimux.router.started"
	EventTypeRouterStopped = "com.logicalview.chimux.router.stopped"

	// Route events
	EventTypeRouteRegistered = "com.logicalview.chimux.route.registered"

	// Middleware events
	EventTypeMiddlewareAdded = "com.logicalview.chimux.middleware.added"

	// Request processing events
	EventTypeRequestReceived  = "com.logicalview.chimux.request.received"
	EventTypeRequestProcessed = "com.logicalview.chimux.request.processed"
	EventTypeRequestFailed    = "com.logicalview.chimux.request.failed"
)
