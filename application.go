package logicalview

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"reflect"
	"slices"
	"syscall"
	"time"
)

// DefaultShutdownTimeout bounds how long Stop waits for modules.
const DefaultShutdownTimeout = 30 * time.Second

// Application is the module host: it owns configuration sections, the
// service registry, the observer subject and the module lifecycle.
type Application interface {
	// ConfigProvider returns the main application configuration provider.
	ConfigProvider() ConfigProvider

	// RegisterModule adds a module. Registration order breaks ties between
	// modules with no dependency relation.
	RegisterModule(module Module)

	// RegisterConfigSection registers a named configuration section.
	RegisterConfigSection(section string, cp ConfigProvider)

	// GetConfigSection retrieves a configuration section.
	GetConfigSection(section string) (ConfigProvider, error)

	// RegisterService adds a named service to the registry.
	RegisterService(name string, service any) error

	// GetService assigns the named service to target, which must be a
	// pointer to a type the service is assignable to.
	GetService(name string, target any) error

	// Logger returns the application logger.
	Logger() Logger

	// Subject returns the subject modules emit their events through.
	Subject() Subject

	// Init registers config sections, loads configuration and initializes
	// every module in dependency order.
	Init() error

	// Start starts every Startable module in dependency order.
	Start() error

	// Stop stops every Stoppable module in reverse dependency order.
	Stop() error

	// Run runs Init and Start, waits for SIGINT/SIGTERM, then runs Stop.
	Run() error
}

// StdApplication is the standard Application implementation.
type StdApplication struct {
	cfgProvider    ConfigProvider
	cfgSections    map[string]ConfigProvider
	svcRegistry    map[string]any
	moduleRegistry map[string]Module
	moduleOrder    []string
	feeders        []Feeder
	logger         Logger
	subject        *StdSubject
	ctx            context.Context
	cancel         context.CancelFunc
}

// NewStdApplication creates a new application instance.
func NewStdApplication(cp ConfigProvider, logger Logger) *StdApplication {
	return &StdApplication{
		cfgProvider:    cp,
		cfgSections:    make(map[string]ConfigProvider),
		svcRegistry:    make(map[string]any),
		moduleRegistry: make(map[string]Module),
		logger:         logger,
		subject:        NewStdSubject(logger),
	}
}

// ConfigProvider retrieves the application config provider.
func (app *StdApplication) ConfigProvider() ConfigProvider {
	return app.cfgProvider
}

// SetConfigFeeders replaces the feeders used by Init to load configuration.
func (app *StdApplication) SetConfigFeeders(feeders ...Feeder) {
	app.feeders = feeders
}

// RegisterModule adds a module to the application.
func (app *StdApplication) RegisterModule(module Module) {
	if _, exists := app.moduleRegistry[module.Name()]; !exists {
		app.moduleOrder = append(app.moduleOrder, module.Name())
	}
	app.moduleRegistry[module.Name()] = module
}

// RegisterConfigSection registers a configuration section with the application.
func (app *StdApplication) RegisterConfigSection(section string, cp ConfigProvider) {
	app.cfgSections[section] = cp
}

// GetConfigSection retrieves a configuration section.
func (app *StdApplication) GetConfigSection(section string) (ConfigProvider, error) {
	cp, exists := app.cfgSections[section]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrConfigSectionNotFound, section)
	}
	return cp, nil
}

// RegisterService adds a service to the registry.
func (app *StdApplication) RegisterService(name string, service any) error {
	if _, exists := app.svcRegistry[name]; exists {
		return fmt.Errorf("%w: %s", ErrServiceAlreadyRegistered, name)
	}

	app.svcRegistry[name] = service
	app.logger.Debug("Registered service", "name", name, "type", reflect.TypeOf(service))
	return nil
}

// GetService retrieves a service with type assertion.
func (app *StdApplication) GetService(name string, target any) error {
	service, exists := app.svcRegistry[name]
	if !exists {
		return fmt.Errorf("%w: %s", ErrServiceNotFound, name)
	}

	targetValue := reflect.ValueOf(target)
	if targetValue.Kind() != reflect.Ptr || targetValue.IsNil() {
		return ErrTargetNotPointer
	}

	serviceValue := reflect.ValueOf(service)
	targetType := targetValue.Elem().Type()
	if !serviceValue.IsValid() || !serviceValue.Type().AssignableTo(targetType) {
		return fmt.Errorf("%w: %s is %T, want %s", ErrServiceIncompatible, name, service, targetType)
	}

	targetValue.Elem().Set(serviceValue)
	return nil
}

// Logger represents a logger.
func (app *StdApplication) Logger() Logger {
	return app.logger
}

// Subject returns the application's observer subject.
func (app *StdApplication) Subject() Subject {
	return app.subject
}

// Init initializes the application with the provided modules.
func (app *StdApplication) Init() error {
	for _, name := range app.moduleOrder {
		configurableModule, ok := app.moduleRegistry[name].(Configurable)
		if !ok {
			app.logger.Debug("Module does not implement Configurable, skipping", "module", name)
			continue
		}
		if err := configurableModule.RegisterConfig(app); err != nil {
			return fmt.Errorf("failed to register config for module %s: %w", name, err)
		}
		app.logger.Debug("Registered module config", "module", name)
	}

	if err := AppConfigLoader(app); err != nil {
		return fmt.Errorf("failed to load app config: %w", err)
	}
	Emit(context.Background(), app.subject, app.logger, EventTypeConfigLoaded, "application", map[string]any{
		"sections": len(app.cfgSections),
	})

	moduleOrder, err := app.resolveDependencies()
	if err != nil {
		return fmt.Errorf("failed to resolve dependencies: %w", err)
	}

	for _, name := range moduleOrder {
		module := app.moduleRegistry[name]
		if err := module.Init(app); err != nil {
			return fmt.Errorf("module '%s' failed to initialize: %w", name, err)
		}

		if svcAware, ok := module.(ServiceAware); ok {
			for _, svc := range svcAware.ProvidesServices() {
				if err := app.RegisterService(svc.Name, svc.Instance); err != nil {
					return fmt.Errorf("module '%s' failed to register service '%s': %w", name, svc.Name, err)
				}
			}
		}

		app.logger.Info("Initialized module", "module", name)
		Emit(context.Background(), app.subject, app.logger, EventTypeModuleInitialized, "application", map[string]any{
			"module": name,
		})
	}

	return nil
}

// Start starts the application.
func (app *StdApplication) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	app.ctx = ctx
	app.cancel = cancel

	modules, err := app.resolveDependencies()
	if err != nil {
		return err
	}

	for _, name := range modules {
		startableModule, ok := app.moduleRegistry[name].(Startable)
		if !ok {
			app.logger.Debug("Module does not implement Startable, skipping", "module", name)
			continue
		}
		app.logger.Info("Starting module", "module", name)
		if err := startableModule.Start(ctx); err != nil {
			return fmt.Errorf("failed to start module %s: %w", name, err)
		}
		Emit(ctx, app.subject, app.logger, EventTypeModuleStarted, "application", map[string]any{"module": name})
	}

	Emit(ctx, app.subject, app.logger, EventTypeApplicationStarted, "application", nil)
	return nil
}

// Stop stops the application.
func (app *StdApplication) Stop() error {
	modules, err := app.resolveDependencies()
	if err != nil {
		return err
	}
	slices.Reverse(modules)

	ctx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()

	var lastErr error
	for _, name := range modules {
		stoppableModule, ok := app.moduleRegistry[name].(Stoppable)
		if !ok {
			app.logger.Debug("Module does not implement Stoppable, skipping", "module", name)
			continue
		}
		app.logger.Info("Stopping module", "module", name)
		if err := stoppableModule.Stop(ctx); err != nil {
			app.logger.Error("Error stopping module", "module", name, "error", err)
			lastErr = err
			continue
		}
		Emit(ctx, app.subject, app.logger, EventTypeModuleStopped, "application", map[string]any{"module": name})
	}

	if app.cancel != nil {
		app.cancel()
	}

	Emit(ctx, app.subject, app.logger, EventTypeApplicationStopped, "application", nil)
	return lastErr
}

// Run starts the application and blocks until a termination signal arrives.
func (app *StdApplication) Run() error {
	return app.RunWithContext(context.Background())
}

// RunWithContext is Run with an additional cancellation source: the
// application stops on SIGINT, SIGTERM or when ctx is done.
func (app *StdApplication) RunWithContext(ctx context.Context) error {
	if err := app.Init(); err != nil {
		return err
	}

	if err := app.Start(); err != nil {
		return err
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case sig := <-sigChan:
		app.logger.Info("Received signal, shutting down", "signal", sig)
	case <-ctx.Done():
		app.logger.Info("Context done, shutting down")
	}

	return app.Stop()
}

// resolveDependencies returns module names in initialization order.
func (app *StdApplication) resolveDependencies() ([]string, error) {
	graph := make(map[string][]string, len(app.moduleRegistry))
	for name, module := range app.moduleRegistry {
		if depAware, ok := module.(DependencyAware); ok {
			graph[name] = depAware.Dependencies()
		}
	}

	var result []string
	visited := make(map[string]bool)
	temp := make(map[string]bool)

	var visit func(string) error
	visit = func(node string) error {
		if temp[node] {
			return fmt.Errorf("%w: %s", ErrCircularDependency, node)
		}
		if visited[node] {
			return nil
		}
		temp[node] = true

		for _, dep := range graph[node] {
			if _, exists := app.moduleRegistry[dep]; !exists {
				return fmt.Errorf("%w: %s depends on non-existent module %s",
					ErrModuleDependencyMissing, node, dep)
			}
			if err := visit(dep); err != nil {
				return err
			}
		}

		visited[node] = true
		temp[node] = false
		result = append(result, node)
		return nil
	}

	for _, node := range app.moduleOrder {
		if err := visit(node); err != nil {
			return nil, err
		}
	}

	app.logger.Debug("Module initialization order", "order", result)
	return result, nil
}
