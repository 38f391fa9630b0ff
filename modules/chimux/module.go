// Package chimux provides a Chi-based HTTP router module.
//
// The module owns the application's chi.Mux, installs the default
// middleware chain (request IDs, real IPs, panic recovery, request timeout,
// CORS and request monitoring) and publishes the router as a service for
// the modules that mount pages on it.
//
// # Service Registration
//
//   - "chimux.router": the ChiMuxModule, a BasicRouter
//   - "chi.router": the underlying chi.Router for Route/Group support
//
// # Usage
//
//	var router chimux.BasicRouter
//	if err := app.GetService(chimux.ServiceName, &router); err != nil {
//		return err
//	}
//	router.Get("/randoms", handler)
package chimux

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/GoCodeAlone/logicalview"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// ModuleName is the unique identifier for the chimux module.
const ModuleName = "chimux"

// ServiceName is the name of the primary service provided by this module.
const ServiceName = "chimux.router"

// ChiServiceName is the name of the raw chi.Router service.
const ChiServiceName = "chi.router"

const eventSource = "chimux-service"

// ChiMuxModule provides HTTP routing using the Chi router.
//
// The module implements logicalview.Module, Configurable, ServiceAware,
// Startable and Stoppable, and BasicRouter for the modules mounting
// handlers on it.
type ChiMuxModule struct {
	name    string
	config  *ChiMuxConfig
	router  *chi.Mux
	logger  logicalview.Logger
	subject logicalview.Subject
}

var (
	_ logicalview.Configurable = (*ChiMuxModule)(nil)
	_ logicalview.ServiceAware = (*ChiMuxModule)(nil)
	_ logicalview.Startable    = (*ChiMuxModule)(nil)
	_ logicalview.Stoppable    = (*ChiMuxModule)(nil)
	_ BasicRouter              = (*ChiMuxModule)(nil)
)

// NewChiMuxModule creates a new instance of the chimux module.
//
//	app.RegisterModule(chimux.NewChiMuxModule())
func NewChiMuxModule() *ChiMuxModule {
	return &ChiMuxModule{name: ModuleName}
}

// Name returns the unique identifier for this module.
func (m *ChiMuxModule) Name() string {
	return m.name
}

// RegisterConfig registers the module's configuration section. Defaults
// come from the struct tags and are applied when configuration loads. A
// section registered beforehand is kept.
func (m *ChiMuxModule) RegisterConfig(app logicalview.Application) error {
	if _, err := app.GetConfigSection(m.Name()); err == nil {
		return nil
	}
	app.RegisterConfigSection(m.Name(), logicalview.NewStdConfigProvider(&ChiMuxConfig{}))
	app.Logger().Debug("Registered config section", "module", m.Name())
	return nil
}

// Init reads the configuration and builds the router with its default
// middleware.
func (m *ChiMuxModule) Init(app logicalview.Application) error {
	m.logger = app.Logger()
	m.subject = app.Subject()
	m.logger.Info("Initializing chimux module")

	if err := m.initConfig(app); err != nil {
		return err
	}
	m.initRouter()

	m.emitEvent(context.Background(), EventTypeConfigLoaded, map[string]any{
		"allowed_origins":   m.config.AllowedOrigins,
		"allowed_methods":   m.config.AllowedMethods,
		"allow_credentials": m.config.AllowCredentials,
		"max_age":           m.config.MaxAge,
		"timeout":           m.config.Timeout.String(),
		"base_path":         m.config.BasePath,
	})

	m.logger.Info("Chimux module initialized")
	return nil
}

func (m *ChiMuxModule) initConfig(app logicalview.Application) error {
	cfg, err := app.GetConfigSection(m.name)
	if err != nil {
		return fmt.Errorf("failed to get config section '%s': %w", m.name, err)
	}

	config, ok := cfg.GetConfig().(*ChiMuxConfig)
	if !ok {
		return fmt.Errorf("%w: %T", ErrConfigType, cfg.GetConfig())
	}
	m.config = config
	return nil
}

func (m *ChiMuxModule) initRouter() {
	m.router = chi.NewRouter()
	m.logger.Debug("Created chi router instance", "module", m.Name())

	m.router.Use(middleware.RequestID)
	m.router.Use(middleware.RealIP)
	m.router.Use(middleware.Recoverer)
	if m.config.Timeout > 0 {
		m.router.Use(middleware.Timeout(m.config.Timeout))
	}
	m.router.Use(m.corsMiddleware())
	m.router.Use(m.requestMonitoringMiddleware())

	m.emitEvent(context.Background(), EventTypeRouterCreated, map[string]any{
		"base_path":    m.config.BasePath,
		"cors_enabled": len(m.config.AllowedOrigins) > 0,
	})

	m.logger.Debug("Applied CORS middleware with config",
		"allowedOrigins", m.config.AllowedOrigins,
		"allowedMethods", m.config.AllowedMethods,
		"allowedHeaders", m.config.AllowedHeaders,
		"allowCredentials", m.config.AllowCredentials,
		"maxAge", m.config.MaxAge)
}

// Start marks the router ready. Serving is left to the httpserver module.
func (m *ChiMuxModule) Start(ctx context.Context) error {
	m.logger.Info("Starting chimux module")
	m.emitEvent(ctx, EventTypeRouterStarted, map[string]any{
		"base_path":        m.config.BasePath,
		"routes_count":     len(m.router.Routes()),
		"middleware_count": len(m.router.Middlewares()),
	})
	return nil
}

// Stop implements logicalview.Stoppable.
func (m *ChiMuxModule) Stop(ctx context.Context) error {
	m.logger.Info("Stopping chimux module")
	m.emitEvent(ctx, EventTypeRouterStopped, map[string]any{
		"routes_count": len(m.router.Routes()),
	})
	return nil
}

// ProvidesServices declares the router services.
func (m *ChiMuxModule) ProvidesServices() []logicalview.ServiceProvider {
	return []logicalview.ServiceProvider{
		{Name: ServiceName, Instance: m},
		{Name: ChiServiceName, Instance: m.ChiRouter()},
	}
}

// ChiRouter returns the underlying chi.Router instance
func (m *ChiMuxModule) ChiRouter() chi.Router {
	return m.router
}

// Config returns the loaded configuration.
func (m *ChiMuxModule) Config() *ChiMuxConfig {
	return m.config
}

// Get registers a GET handler for the pattern
func (m *ChiMuxModule) Get(pattern string, handler http.HandlerFunc) {
	m.router.Get(pattern, handler)
	m.routeRegistered(http.MethodGet, pattern)
}

// Post registers a POST handler for the pattern
func (m *ChiMuxModule) Post(pattern string, handler http.HandlerFunc) {
	m.router.Post(pattern, handler)
	m.routeRegistered(http.MethodPost, pattern)
}

// Mount attaches another http.Handler at the given pattern
func (m *ChiMuxModule) Mount(pattern string, handler http.Handler) {
	m.router.Mount(pattern, handler)
	m.routeRegistered("*", pattern)
}

// Use appends middleware to the chain. Chi requires middleware to be added
// before the first route.
func (m *ChiMuxModule) Use(middlewares ...func(http.Handler) http.Handler) {
	m.router.Use(middlewares...)
	m.emitEvent(context.Background(), EventTypeMiddlewareAdded, map[string]any{
		"middleware_count": len(middlewares),
		"total_middleware": len(m.router.Middlewares()),
	})
}

// Routes returns the registered routes.
func (m *ChiMuxModule) Routes() []chi.Route {
	return m.router.Routes()
}

func (m *ChiMuxModule) routeRegistered(method, pattern string) {
	m.logger.Debug("Registered route", "method", method, "pattern", pattern)
	m.emitEvent(context.Background(), EventTypeRouteRegistered, map[string]any{
		"method":  method,
		"pattern": pattern,
	})
}

// ServeHTTP implements http.Handler, stripping the configured base path.
func (m *ChiMuxModule) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if m.config.BasePath == "" {
		m.router.ServeHTTP(w, r)
		return
	}

	rest, ok := strings.CutPrefix(r.URL.Path, m.config.BasePath)
	if !ok || (rest != "" && !strings.HasPrefix(rest, "/")) {
		http.NotFound(w, r)
		return
	}
	if rest == "" {
		rest = "/"
	}

	r2 := new(http.Request)
	*r2 = *r
	r2.URL = new(url.URL)
	*r2.URL = *r.URL
	r2.URL.Path = rest
	r2.URL.RawPath = ""
	m.router.ServeHTTP(w, r2)
}

// corsMiddleware sets CORS headers for allowed origins and answers
// preflight requests.
func (m *ChiMuxModule) corsMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && m.originAllowed(origin) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
				if len(m.config.AllowedMethods) > 0 {
					w.Header().Set("Access-Control-Allow-Methods", strings.Join(m.config.AllowedMethods, ", "))
				}
				if len(m.config.AllowedHeaders) > 0 {
					w.Header().Set("Access-Control-Allow-Headers", strings.Join(m.config.AllowedHeaders, ", "))
				}
				if m.config.AllowCredentials {
					w.Header().Set("Access-Control-Allow-Credentials", "true")
				}
				if m.config.MaxAge > 0 {
					w.Header().Set("Access-Control-Max-Age", strconv.Itoa(m.config.MaxAge))
				}
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (m *ChiMuxModule) originAllowed(origin string) bool {
	for _, allowed := range m.config.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

// requestMonitoringMiddleware logs every request and emits request events.
func (m *ChiMuxModule) requestMonitoringMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			start := time.Now()
			m.emitEvent(ctx, EventTypeRequestReceived, map[string]any{
				"method":      r.Method,
				"path":        r.URL.Path,
				"remote_addr": r.RemoteAddr,
				"request_id":  middleware.GetReqID(ctx),
			})

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			m.logger.Debug("Request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(ctx))

			data := map[string]any{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status_code": status,
				"duration_ms": float64(time.Since(start)) / float64(time.Millisecond),
			}
			if status >= http.StatusBadRequest {
				m.emitEvent(ctx, EventTypeRequestFailed, data)
				return
			}
			m.emitEvent(ctx, EventTypeRequestProcessed, data)
		})
	}
}

func (m *ChiMuxModule) emitEvent(ctx context.Context, eventType string, data map[string]any) {
	logicalview.Emit(ctx, m.subject, m.logger, eventType, eventSource, data)
}
