package logicalview

import (
	"context"
	"fmt"

	cloudevents "github.com/cloudevents/sdk-go/v2"
)

// Option represents a functional option for configuring applications.
type Option func(*ApplicationBuilder) error

// ObserverFunc is a functional observer registered on the application subject.
type ObserverFunc func(ctx context.Context, event cloudevents.Event) error

// ApplicationBuilder collects options before constructing an application.
type ApplicationBuilder struct {
	logger         Logger
	configProvider ConfigProvider
	feeders        []Feeder
	modules        []Module
	observers      []ObserverFunc
}

// NewApplication creates a new application with the provided options.
// A logger is mandatory; the config provider defaults to an empty struct.
func NewApplication(opts ...Option) (*StdApplication, error) {
	builder := &ApplicationBuilder{}
	for _, opt := range opts {
		if err := opt(builder); err != nil {
			return nil, err
		}
	}
	return builder.Build()
}

// Build constructs the application.
func (b *ApplicationBuilder) Build() (*StdApplication, error) {
	if b.logger == nil {
		return nil, ErrLoggerNotSet
	}
	if b.configProvider == nil {
		b.configProvider = NewStdConfigProvider(&struct{}{})
	}

	app := NewStdApplication(b.configProvider, b.logger)
	app.SetConfigFeeders(b.feeders...)

	for i, fn := range b.observers {
		observer := NewFunctionalObserver(observerID(i), fn)
		if err := app.subject.RegisterObserver(observer); err != nil {
			return nil, err
		}
	}

	for _, module := range b.modules {
		app.RegisterModule(module)
	}

	return app, nil
}

func observerID(i int) string {
	return fmt.Sprintf("builder-observer-%d", i)
}

// WithLogger sets the logger for the application.
func WithLogger(logger Logger) Option {
	return func(b *ApplicationBuilder) error {
		b.logger = logger
		return nil
	}
}

// WithConfigProvider sets the main configuration provider.
func WithConfigProvider(provider ConfigProvider) Option {
	return func(b *ApplicationBuilder) error {
		b.configProvider = provider
		return nil
	}
}

// WithConfigFeeders sets the feeders used to load configuration, applied
// in order so later feeders override earlier ones.
func WithConfigFeeders(feeders ...Feeder) Option {
	return func(b *ApplicationBuilder) error {
		b.feeders = append(b.feeders, feeders...)
		return nil
	}
}

// WithModules adds modules to the application.
func WithModules(modules ...Module) Option {
	return func(b *ApplicationBuilder) error {
		b.modules = append(b.modules, modules...)
		return nil
	}
}

// WithObserver registers functional observers for every event.
func WithObserver(observers ...ObserverFunc) Option {
	return func(b *ApplicationBuilder) error {
		b.observers = append(b.observers, observers...)
		return nil
	}
}
