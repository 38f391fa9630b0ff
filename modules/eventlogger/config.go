package eventlogger

import (
	"fmt"
	"time"
)

// Levels, lowest first.
var levelOrder = map[string]int{
	"DEBUG": 0,
	"INFO":  1,
	"WARN":  2,
	"ERROR": 3,
}

var validFormats = map[string]bool{
	"text": true, "json": true, "structured": true,
}

// EventLoggerConfig holds configuration for the event logger module.
type EventLoggerConfig struct {
	// Enabled determines if event logging is active
	Enabled bool `yaml:"enabled" toml:"enabled" default:"true" desc:"Enable event logging" env:"ENABLED"`

	// LogLevel determines which events to log (DEBUG, INFO, WARN, ERROR)
	LogLevel string `yaml:"log_level" toml:"log_level" default:"INFO" desc:"Minimum log level for events" env:"LOG_LEVEL"`

	// Output configures where events are written.
	Output OutputTargetConfig `yaml:"output" toml:"output" desc:"Output target for event logs" env:"OUTPUT"`

	// EventTypeFilters allows filtering which event types to log
	EventTypeFilters []string `yaml:"event_type_filters" toml:"event_type_filters" desc:"Event types to log (empty = all events)" env:"EVENT_TYPE_FILTERS"`

	// BufferSize sets the size of the event buffer for async processing
	BufferSize int `yaml:"buffer_size" toml:"buffer_size" default:"100" desc:"Buffer size for async event processing" env:"BUFFER_SIZE"`

	// FlushInterval sets how often to flush buffered events
	FlushInterval time.Duration `yaml:"flush_interval" toml:"flush_interval" default:"5s" desc:"Interval to flush buffered events" env:"FLUSH_INTERVAL"`

	// ShutdownDrainTimeout bounds how long Stop waits for queued events.
	// Zero or negative waits until the queue is empty.
	ShutdownDrainTimeout time.Duration `yaml:"shutdown_drain_timeout" toml:"shutdown_drain_timeout" default:"2s" desc:"Maximum time to wait for draining event queue on Stop." env:"SHUTDOWN_DRAIN_TIMEOUT"`
}

// OutputTargetConfig configures the output target for event logs.
type OutputTargetConfig struct {
	// Type specifies the output type (console, file)
	Type string `yaml:"type" toml:"type" default:"console" desc:"Output target type (console, file)" env:"TYPE"`

	// Format specifies the output format (text, json, structured)
	Format string `yaml:"format" toml:"format" default:"text" desc:"Log format (text, json, structured)" env:"FORMAT"`

	// Timestamps determines if timestamps should be included in text output
	Timestamps bool `yaml:"timestamps" toml:"timestamps" default:"true" desc:"Include timestamps in text output" env:"TIMESTAMPS"`

	// Path specifies the log file path for file output
	Path string `yaml:"path" toml:"path" desc:"Path to log file" env:"PATH"`
}

// Validate implements logicalview.ConfigValidator.
func (c *EventLoggerConfig) Validate() error {
	if _, ok := levelOrder[c.LogLevel]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.LogLevel)
	}
	if c.BufferSize < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidBufferSize, c.BufferSize)
	}
	if c.FlushInterval <= 0 {
		return ErrInvalidFlushInterval
	}
	return c.Output.Validate()
}

// Validate validates an OutputTargetConfig.
func (o *OutputTargetConfig) Validate() error {
	if !validFormats[o.Format] {
		return fmt.Errorf("%w: %q", ErrInvalidFormat, o.Format)
	}

	switch o.Type {
	case "console":
	case "file":
		if o.Path == "" {
			return ErrMissingFilePath
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidOutputType, o.Type)
	}
	return nil
}
