// Package logicalview provides the application shell for the LogicalView demo:
// a small web application whose views are rendered through dynamically
// composed view contexts.
//
// The application is assembled from independent modules. Each module
// implements the Module interface and can optionally implement Configurable,
// DependencyAware, ServiceAware, Startable and Stoppable to take part in the
// configuration, dependency ordering and lifecycle phases.
//
// Basic usage:
//
//	app, err := logicalview.NewApplication(
//		logicalview.WithLogger(logger),
//		logicalview.WithConfigProvider(logicalview.NewStdConfigProvider(&AppConfig{})),
//		logicalview.WithModules(chimux.NewChiMuxModule(), webapp.NewModule()),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := app.Run(); err != nil {
//		log.Fatal(err)
//	}
package logicalview

import "context"

// Module represents a registrable component in the application.
//
// A module encapsulates one piece of functionality (routing, serving HTTP,
// rendering pages) and interacts with other modules through the
// application's service registry and configuration sections.
type Module interface {
	// Name returns the unique identifier for this module.
	// It is used for dependency resolution, service lookup and as the
	// configuration section name.
	//
	// Example: "chimux", "httpserver", "webapp"
	Name() string

	// Init initializes the module with the application context.
	// Init is called in dependency order after every configuration section
	// has been loaded, so modules can read their config and look up services
	// provided by the modules they depend on.
	Init(app Application) error
}

// Configurable is implemented by modules that own a configuration section.
//
// RegisterConfig is called before configuration is loaded. Implementations
// register a provider holding their defaults:
//
//	func (m *MyModule) RegisterConfig(app logicalview.Application) error {
//		app.RegisterConfigSection(m.Name(), logicalview.NewStdConfigProvider(&MyConfig{}))
//		return nil
//	}
type Configurable interface {
	RegisterConfig(app Application) error
}

// DependencyAware is implemented by modules that must be initialized after
// other modules. Dependencies are module names; a missing dependency or a
// cycle fails application initialization.
type DependencyAware interface {
	Dependencies() []string
}

// ServiceProvider describes a service a module publishes to the registry.
type ServiceProvider struct {
	// Name is the unique service name.
	Name string

	// Instance is the service implementation.
	Instance any
}

// ServiceAware is implemented by modules that publish services. Services
// are registered right after the module's Init returns, so dependants see
// them during their own Init.
type ServiceAware interface {
	ProvidesServices() []ServiceProvider
}

// Startable is implemented by modules with runtime work, such as listening
// on a socket. Start is called in dependency order once every module has
// been initialized.
type Startable interface {
	Start(ctx context.Context) error
}

// Stoppable is implemented by modules that need a graceful shutdown.
// Stop is called in reverse dependency order.
type Stoppable interface {
	Stop(ctx context.Context) error
}
