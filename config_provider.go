package logicalview

import (
	"fmt"
)

// ConfigProvider defines the interface for providing configuration objects.
type ConfigProvider interface {
	// GetConfig returns the configuration object, always a pointer to a struct.
	GetConfig() any
}

// StdConfigProvider provides a standard implementation of ConfigProvider.
type StdConfigProvider struct {
	cfg any
}

// GetConfig returns the configuration object.
func (s *StdConfigProvider) GetConfig() any {
	return s.cfg
}

// NewStdConfigProvider creates a new standard configuration provider.
// cfg should be a pointer to a struct; feeders populate it in place.
func NewStdConfigProvider(cfg any) *StdConfigProvider {
	return &StdConfigProvider{cfg: cfg}
}

// Feeder populates a whole configuration struct from a source.
type Feeder interface {
	Feed(structure any) error
}

// ComplexFeeder can also populate a single named section, which is how
// module configuration sections are loaded.
type ComplexFeeder interface {
	Feeder
	FeedKey(key string, target any) error
}

// ConfigValidator is implemented by configuration structs with custom
// validation rules. Validate runs after defaults and required fields.
type ConfigValidator interface {
	Validate() error
}

// LoadAppConfigFunc loads configuration into an application.
type LoadAppConfigFunc func(*StdApplication) error

// AppConfigLoader is the default implementation that can be replaced in tests.
var AppConfigLoader LoadAppConfigFunc = loadAppConfig

// loadAppConfig feeds the main configuration and every registered section,
// then applies defaults and validation to each of them.
func loadAppConfig(app *StdApplication) error {
	if app == nil {
		return ErrApplicationNil
	}
	if app.cfgProvider == nil {
		return ErrConfigProviderNil
	}

	mainCfg := app.cfgProvider.GetConfig()
	for _, feeder := range app.feeders {
		if err := feeder.Feed(mainCfg); err != nil {
			return fmt.Errorf("%w: main config: %w", ErrConfigFeederError, err)
		}
	}
	if err := ValidateConfig(mainCfg); err != nil {
		return fmt.Errorf("main config: %w", err)
	}
	app.logger.Debug("Loaded main config", "type", fmt.Sprintf("%T", mainCfg))

	for section, provider := range app.cfgSections {
		cfg := provider.GetConfig()
		for _, feeder := range app.feeders {
			cf, ok := feeder.(ComplexFeeder)
			if !ok {
				continue
			}
			if err := cf.FeedKey(section, cfg); err != nil {
				return fmt.Errorf("%w: section %s: %w", ErrConfigFeederError, section, err)
			}
		}
		if err := ValidateConfig(cfg); err != nil {
			return fmt.Errorf("section %s: %w", section, err)
		}
		app.logger.Debug("Loaded config section", "section", section)
	}

	return nil
}
