package feeders

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

type serverSection struct {
	Host    string        `yaml:"host" toml:"host" env:"HOST"`
	Port    int           `yaml:"port" toml:"port" env:"PORT"`
	Timeout time.Duration `yaml:"timeout" toml:"timeout" env:"TIMEOUT"`
}

type testConfig struct {
	AppName string   `yaml:"app_name" toml:"app_name" env:"APP_NAME"`
	Debug   bool     `yaml:"debug" toml:"debug" env:"DEBUG"`
	Origins []string `yaml:"origins" toml:"origins" env:"ORIGINS"`
	Log     struct {
		Level string `yaml:"level" toml:"level" env:"LEVEL"`
	} `yaml:"log" toml:"log" env:"LOG"`
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}
	return path
}

func TestYamlFeeder_Feed(t *testing.T) {
	path := writeTemp(t, "config.yaml", `
app_name: LogicalView
debug: true
origins: ["a", "b"]
log:
  level: debug
`)

	var config testConfig
	if err := NewYamlFeeder(path).Feed(&config); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if config.AppName != "LogicalView" {
		t.Errorf("Expected AppName to be 'LogicalView', got '%s'", config.AppName)
	}
	if !config.Debug {
		t.Errorf("Expected Debug to be true")
	}
	if len(config.Origins) != 2 {
		t.Errorf("Expected 2 origins, got %d", len(config.Origins))
	}
	if config.Log.Level != "debug" {
		t.Errorf("Expected Log.Level to be 'debug', got '%s'", config.Log.Level)
	}
}

func TestYamlFeeder_FeedKey(t *testing.T) {
	path := writeTemp(t, "config.yaml", `
httpserver:
  host: 0.0.0.0
  port: 9090
`)

	var section serverSection
	feeder := NewYamlFeeder(path)
	if err := feeder.FeedKey("httpserver", &section); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if section.Host != "0.0.0.0" || section.Port != 9090 {
		t.Errorf("Unexpected section: %+v", section)
	}

	var missing serverSection
	if err := feeder.FeedKey("chimux", &missing); err != nil {
		t.Fatalf("Expected no error for missing key, got %v", err)
	}
	if missing.Port != 0 {
		t.Errorf("Expected missing section to stay empty, got %+v", missing)
	}
}

func TestYamlFeeder_MissingFile(t *testing.T) {
	var config testConfig
	err := NewYamlFeeder(filepath.Join(t.TempDir(), "nope.yaml")).Feed(&config)
	if !errors.Is(err, ErrYamlReadFailed) {
		t.Fatalf("Expected ErrYamlReadFailed, got %v", err)
	}
}

func TestTomlFeeder_FeedAndFeedKey(t *testing.T) {
	path := writeTemp(t, "config.toml", `
app_name = "LogicalView"
debug = true

[httpserver]
host = "127.0.0.1"
port = 8081
`)

	var config testConfig
	feeder := NewTomlFeeder(path)
	if err := feeder.Feed(&config); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if config.AppName != "LogicalView" || !config.Debug {
		t.Errorf("Unexpected config: %+v", config)
	}

	var section serverSection
	if err := feeder.FeedKey("httpserver", &section); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if section.Host != "127.0.0.1" || section.Port != 8081 {
		t.Errorf("Unexpected section: %+v", section)
	}
}

func TestEnvFeeder_Feed(t *testing.T) {
	t.Setenv("LOGICALVIEW_APP_NAME", "FromEnv")
	t.Setenv("LOGICALVIEW_DEBUG", "true")
	t.Setenv("LOGICALVIEW_ORIGINS", "a.example, b.example")
	t.Setenv("LOGICALVIEW_LOG_LEVEL", "warn")

	var config testConfig
	if err := NewEnvFeeder("logicalview").Feed(&config); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if config.AppName != "FromEnv" {
		t.Errorf("Expected AppName to be 'FromEnv', got '%s'", config.AppName)
	}
	if !config.Debug {
		t.Errorf("Expected Debug to be true")
	}
	if len(config.Origins) != 2 || config.Origins[1] != "b.example" {
		t.Errorf("Unexpected origins: %v", config.Origins)
	}
	if config.Log.Level != "warn" {
		t.Errorf("Expected Log.Level to be 'warn', got '%s'", config.Log.Level)
	}
}

func TestEnvFeeder_FeedKey(t *testing.T) {
	t.Setenv("LOGICALVIEW_HTTPSERVER_PORT", "8443")
	t.Setenv("LOGICALVIEW_HTTPSERVER_TIMEOUT", "3s")

	var section serverSection
	if err := NewEnvFeeder("LOGICALVIEW").FeedKey("httpserver", &section); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if section.Port != 8443 {
		t.Errorf("Expected Port to be 8443, got %d", section.Port)
	}
	if section.Timeout != 3*time.Second {
		t.Errorf("Expected Timeout to be 3s, got %s", section.Timeout)
	}
}

func TestEnvFeeder_Errors(t *testing.T) {
	var config testConfig
	if err := NewEnvFeeder("").Feed(&config); !errors.Is(err, ErrEnvEmptyPrefix) {
		t.Errorf("Expected ErrEnvEmptyPrefix, got %v", err)
	}
	if err := NewEnvFeeder("APP").Feed(config); !errors.Is(err, ErrEnvInvalidStructure) {
		t.Errorf("Expected ErrEnvInvalidStructure, got %v", err)
	}

	t.Setenv("APP_DEBUG", "not-a-bool")
	if err := NewEnvFeeder("APP").Feed(&config); err == nil {
		t.Errorf("Expected conversion error")
	}
}
