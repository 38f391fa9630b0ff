// Package webapp wires the demo application: it owns the view-context
// registry, the template renderer and the composer, defines the
// controllers and mounts their routes on the chimux router.
//
// Routes:
//
//	GET /         randoms#index
//	GET /randoms  randoms#index
//
// Usage:
//
//	app.RegisterModule(chimux.NewChiMuxModule())
//	app.RegisterModule(webapp.NewModule())
package webapp

import (
	"context"
	"fmt"
	"sync"

	"github.com/GoCodeAlone/logicalview"
	"github.com/GoCodeAlone/logicalview/controller"
	"github.com/GoCodeAlone/logicalview/controller/randoms"
	"github.com/GoCodeAlone/logicalview/internal/people"
	"github.com/GoCodeAlone/logicalview/modules/chimux"
	"github.com/GoCodeAlone/logicalview/render"
	"github.com/GoCodeAlone/logicalview/viewcontext"
	"github.com/GoCodeAlone/logicalview/viewcontexts/layouts"
)

// ModuleName is the name of this module.
const ModuleName = "webapp"

// Service names provided by the module.
const (
	RendererServiceName = "webapp.renderer"
	ComposerServiceName = "webapp.composer"
)

// ApplicationPath is the path of the root controller every controller
// inherits from.
const ApplicationPath = "application"

// WebAppModule is the demo web application.
type WebAppModule struct {
	config *WebAppConfig
	logger logicalview.Logger

	registry *viewcontext.Registry
	renderer *render.Renderer
	composer *viewcontext.Composer
	source   people.Source
	random   randoms.Random

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

var (
	_ logicalview.Configurable    = (*WebAppModule)(nil)
	_ logicalview.DependencyAware = (*WebAppModule)(nil)
	_ logicalview.ServiceAware    = (*WebAppModule)(nil)
	_ logicalview.Startable       = (*WebAppModule)(nil)
	_ logicalview.Stoppable       = (*WebAppModule)(nil)
)

// Option configures the module.
type Option func(*WebAppModule)

// WithPeopleSource replaces the people generator and the random source of
// the randoms controller.
func WithPeopleSource(source people.Source, random randoms.Random) Option {
	return func(m *WebAppModule) {
		m.source = source
		m.random = random
	}
}

// NewModule creates the web application module.
func NewModule(opts ...Option) *WebAppModule {
	m := &WebAppModule{}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Name returns the module name.
func (m *WebAppModule) Name() string {
	return ModuleName
}

// RegisterConfig registers the module's configuration section unless one
// is already registered.
func (m *WebAppModule) RegisterConfig(app logicalview.Application) error {
	if _, err := app.GetConfigSection(ModuleName); err == nil {
		return nil
	}
	app.RegisterConfigSection(ModuleName, logicalview.NewStdConfigProvider(&WebAppConfig{}))
	return nil
}

// Dependencies implements logicalview.DependencyAware.
func (m *WebAppModule) Dependencies() []string {
	return []string{chimux.ModuleName}
}

// Init builds the registry, renderer and composer, defines the controllers
// and mounts their routes.
func (m *WebAppModule) Init(app logicalview.Application) error {
	m.logger = app.Logger()

	cfg, err := app.GetConfigSection(ModuleName)
	if err != nil {
		return fmt.Errorf("failed to get config section '%s': %w", ModuleName, err)
	}
	config, ok := cfg.GetConfig().(*WebAppConfig)
	if !ok {
		return fmt.Errorf("%w: %T", ErrConfigType, cfg.GetConfig())
	}
	m.config = config

	var router chimux.BasicRouter
	if err := app.GetService(chimux.ServiceName, &router); err != nil {
		return fmt.Errorf("%w: %w", ErrNoRouter, err)
	}

	if m.source == nil {
		generator := people.NewGenerator(config.People.Options())
		m.source = generator
		m.random = generator
	}

	m.registry = viewcontext.NewRegistry()
	if err := layouts.Register(m.registry); err != nil {
		return fmt.Errorf("registering layouts: %w", err)
	}

	appClass, err := controller.Define(m.registry, ApplicationPath, nil)
	if err != nil {
		return err
	}
	randomsCtrl, err := randoms.New(m.registry, appClass, m.source, m.random, config.Randoms)
	if err != nil {
		return fmt.Errorf("defining randoms controller: %w", err)
	}
	m.registry.Seal()

	base := viewcontext.BaseModule()
	helperNames := append(m.registry.HelperNames(), base.HelperNames()...)
	m.renderer, err = render.New(&config.Render, helperNames,
		render.WithLogger(m.logger),
		render.WithSubject(app.Subject()),
	)
	if err != nil {
		return fmt.Errorf("loading templates: %w", err)
	}

	m.composer = viewcontext.NewComposer(m.registry,
		viewcontext.WithBaseModule(base),
		viewcontext.WithLogger(m.logger),
		viewcontext.WithSubject(app.Subject()),
	)

	env := &controller.Env{
		Composer: m.composer,
		Renderer: m.renderer,
		Logger:   m.logger,
	}
	index := randomsCtrl.Handler(env)
	router.Get("/", index)
	router.Get("/"+randoms.Path, index)

	m.logger.Info("Web application initialized",
		"templates", len(m.renderer.VirtualPaths()),
		"modules", m.registry.ModuleNames())
	return nil
}

// ProvidesServices exposes the renderer and composer.
func (m *WebAppModule) ProvidesServices() []logicalview.ServiceProvider {
	return []logicalview.ServiceProvider{
		{Name: RendererServiceName, Instance: m.renderer},
		{Name: ComposerServiceName, Instance: m.composer},
	}
}

// Start runs the template watcher in the background when reload is
// enabled.
func (m *WebAppModule) Start(ctx context.Context) error {
	if !m.config.Render.Reload {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	watchCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	m.cancel = cancel
	m.done = make(chan struct{})
	go func() {
		defer close(m.done)
		if err := m.renderer.Watch(watchCtx); err != nil {
			m.logger.Error("Template watcher stopped", "error", err)
		}
	}()
	return nil
}

// Stop stops the template watcher.
func (m *WebAppModule) Stop(ctx context.Context) error {
	m.mu.Lock()
	cancel, done := m.cancel, m.done
	m.cancel, m.done = nil, nil
	m.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

// Renderer returns the template renderer.
func (m *WebAppModule) Renderer() *render.Renderer {
	return m.renderer
}

// Registry returns the sealed view-context registry.
func (m *WebAppModule) Registry() *viewcontext.Registry {
	return m.registry
}
