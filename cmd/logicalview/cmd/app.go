package cmd

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/GoCodeAlone/logicalview"
	"github.com/GoCodeAlone/logicalview/feeders"
	"github.com/GoCodeAlone/logicalview/modules/chimux"
	"github.com/GoCodeAlone/logicalview/modules/eventlogger"
	"github.com/GoCodeAlone/logicalview/modules/httpserver"
	"github.com/GoCodeAlone/logicalview/modules/webapp"
)

// EnvPrefix prefixes every environment variable the application reads.
const EnvPrefix = "LOGICALVIEW"

// ErrUnsupportedConfigFile is returned for a config file that is neither
// YAML nor TOML.
var ErrUnsupportedConfigFile = errors.New("unsupported config file extension")

// AppConfig is the top-level configuration. Module settings live in their
// own sections next to it.
type AppConfig struct {
	Log logicalview.LogConfig `yaml:"log" toml:"log" env:"LOG" desc:"Logging"`
}

// FileConfig is the layout of a complete configuration file.
type FileConfig struct {
	AppConfig   `yaml:",inline"`
	ChiMux      chimux.ChiMuxConfig           `yaml:"chimux" toml:"chimux"`
	HTTPServer  httpserver.HTTPServerConfig   `yaml:"httpserver" toml:"httpserver"`
	EventLogger eventlogger.EventLoggerConfig `yaml:"eventlogger" toml:"eventlogger"`
	WebApp      webapp.WebAppConfig           `yaml:"webapp" toml:"webapp"`
}

// ConfigFeeders returns the feeders for configFile, which may be empty,
// followed by the environment feeder.
func ConfigFeeders(configFile string) ([]logicalview.Feeder, error) {
	var out []logicalview.Feeder
	if configFile != "" {
		switch strings.ToLower(filepath.Ext(configFile)) {
		case ".yaml", ".yml":
			out = append(out, feeders.NewYamlFeeder(configFile))
		case ".toml":
			out = append(out, feeders.NewTomlFeeder(configFile))
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedConfigFile, configFile)
		}
	}
	return append(out, feeders.NewEnvFeeder(EnvPrefix)), nil
}

// NewApp builds the application from configFile and the environment. Logs
// go to logOut.
func NewApp(configFile string, logOut io.Writer) (*logicalview.StdApplication, error) {
	configFeeders, err := ConfigFeeders(configFile)
	if err != nil {
		return nil, err
	}

	// The logger is needed before the application loads its configuration.
	cfg := &AppConfig{}
	for _, feeder := range configFeeders {
		if err := feeder.Feed(cfg); err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}
	if err := logicalview.ProcessConfigDefaults(cfg); err != nil {
		return nil, err
	}

	return logicalview.NewApplication(
		logicalview.WithLogger(logicalview.NewSlogLogger(logOut, cfg.Log)),
		logicalview.WithConfigProvider(logicalview.NewStdConfigProvider(cfg)),
		logicalview.WithConfigFeeders(configFeeders...),
		logicalview.WithModules(
			chimux.NewChiMuxModule(),
			httpserver.NewHTTPServerModule(),
			eventlogger.NewModule(),
			webapp.NewModule(),
		),
	)
}
