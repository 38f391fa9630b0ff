// Package httpserver provides an HTTP server module serving the router
// published by the chimux module.
//
// The httpserver module features:
//   - HTTP and HTTPS (certificate files) serving
//   - Configurable timeouts
//   - Graceful shutdown bounded by a shutdown timeout
//
// Usage:
//
//	app.RegisterModule(chimux.NewChiMuxModule())
//	app.RegisterModule(httpserver.NewHTTPServerModule())
//
// Configuration:
//
//	The module reads the "httpserver" configuration section: host, port,
//	timeouts and TLS files.
package httpserver

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/GoCodeAlone/logicalview"
	"github.com/GoCodeAlone/logicalview/modules/chimux"
)

// ModuleName is the name of this module for registration and dependency resolution.
const ModuleName = "httpserver"

// ServiceName is the name the module registers itself under.
const ServiceName = "httpserver"

const eventSource = "httpserver-service"

// HTTPServerModule serves the application's router over HTTP.
type HTTPServerModule struct {
	config  *HTTPServerConfig
	server  *http.Server
	logger  logicalview.Logger
	subject logicalview.Subject
	handler http.Handler

	mu       sync.Mutex
	listener net.Listener
	done     chan struct{}
}

var (
	_ logicalview.Configurable    = (*HTTPServerModule)(nil)
	_ logicalview.DependencyAware = (*HTTPServerModule)(nil)
	_ logicalview.ServiceAware    = (*HTTPServerModule)(nil)
	_ logicalview.Startable       = (*HTTPServerModule)(nil)
	_ logicalview.Stoppable       = (*HTTPServerModule)(nil)
)

// NewHTTPServerModule creates a new instance of the HTTP server module.
func NewHTTPServerModule() *HTTPServerModule {
	return &HTTPServerModule{}
}

// Name returns the name of the module.
func (m *HTTPServerModule) Name() string {
	return ModuleName
}

// RegisterConfig registers the module's configuration section unless one
// is already registered.
func (m *HTTPServerModule) RegisterConfig(app logicalview.Application) error {
	if _, err := app.GetConfigSection(m.Name()); err == nil {
		return nil
	}
	app.RegisterConfigSection(m.Name(), logicalview.NewStdConfigProvider(&HTTPServerConfig{}))
	return nil
}

// Dependencies implements logicalview.DependencyAware. The router must be
// initialized before the server resolves its handler.
func (m *HTTPServerModule) Dependencies() []string {
	return []string{chimux.ModuleName}
}

// Init loads the configuration and resolves the router service as the
// server's handler.
func (m *HTTPServerModule) Init(app logicalview.Application) error {
	m.logger = app.Logger()
	m.subject = app.Subject()
	m.logger.Info("Initializing HTTP server module")

	cfg, err := app.GetConfigSection(m.Name())
	if err != nil {
		return fmt.Errorf("failed to get config section '%s': %w", m.Name(), err)
	}
	config, ok := cfg.GetConfig().(*HTTPServerConfig)
	if !ok {
		return fmt.Errorf("%w: %T", ErrConfigType, cfg.GetConfig())
	}
	m.config = config

	var handler http.Handler
	if err := app.GetService(chimux.ServiceName, &handler); err != nil {
		return fmt.Errorf("%w: %w", ErrNoHandler, err)
	}
	m.handler = handler

	logicalview.Emit(context.Background(), m.subject, m.logger, EventTypeConfigLoaded, eventSource, map[string]any{
		"address":     m.config.Address(),
		"tls_enabled": m.config.TLS.Enabled,
	})
	return nil
}

// Start binds the listener and serves in the background. Bind errors are
// returned; the server is accepting connections when Start returns.
func (m *HTTPServerModule) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.handler == nil {
		return ErrNoHandler
	}
	if m.listener != nil {
		return ErrServerAlreadyStarted
	}

	m.server = &http.Server{
		Handler:      m.handler,
		ReadTimeout:  m.config.ReadTimeout,
		WriteTimeout: m.config.WriteTimeout,
		IdleTimeout:  m.config.IdleTimeout,
	}

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", m.config.Address())
	if err != nil {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	if m.config.TLS.Enabled {
		cert, err := tls.LoadX509KeyPair(m.config.TLS.CertFile, m.config.TLS.KeyFile)
		if err != nil {
			_ = listener.Close()
			return fmt.Errorf("loading TLS key pair: %w", err)
		}
		m.server.TLSConfig = &tls.Config{
			MinVersion:   tls.VersionTLS12,
			Certificates: []tls.Certificate{cert},
		}
		listener = tls.NewListener(listener, m.server.TLSConfig)
		m.logger.Info("Using TLS configuration", "cert", m.config.TLS.CertFile, "key", m.config.TLS.KeyFile)
		logicalview.Emit(ctx, m.subject, m.logger, EventTypeTLSConfigured, eventSource, map[string]any{
			"cert_file": m.config.TLS.CertFile,
		})
	}

	m.listener = listener
	m.done = make(chan struct{})

	go func(server *http.Server, done chan struct{}) {
		defer close(done)
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			m.logger.Error("HTTP server error", "error", err)
		}
	}(m.server, m.done)

	m.logger.Info("HTTP server started successfully", "address", listener.Addr().String())
	logicalview.Emit(ctx, m.subject, m.logger, EventTypeServerStarted, eventSource, map[string]any{
		"address": listener.Addr().String(),
		"tls":     m.config.TLS.Enabled,
	})
	return nil
}

// Stop shuts the server down gracefully within the shutdown timeout.
func (m *HTTPServerModule) Stop(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.server == nil || m.listener == nil {
		return ErrServerNotStarted
	}

	m.logger.Info("Stopping HTTP server", "timeout", m.config.ShutdownTimeout)

	shutdownCtx, cancel := context.WithTimeout(ctx, m.config.ShutdownTimeout)
	defer cancel()

	if err := m.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("error shutting down HTTP server: %w", err)
	}
	<-m.done

	m.listener = nil
	m.logger.Info("HTTP server stopped successfully")
	logicalview.Emit(ctx, m.subject, m.logger, EventTypeServerStopped, eventSource, nil)
	return nil
}

// Addr returns the address the server listens on, or "" when stopped.
func (m *HTTPServerModule) Addr() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listener == nil {
		return ""
	}
	return m.listener.Addr().String()
}

// ProvidesServices returns the services provided by this module
func (m *HTTPServerModule) ProvidesServices() []logicalview.ServiceProvider {
	return []logicalview.ServiceProvider{
		{Name: ServiceName, Instance: m},
	}
}
