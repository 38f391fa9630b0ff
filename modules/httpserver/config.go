package httpserver

import (
	"fmt"
	"time"
)

// HTTPServerConfig defines the configuration for the HTTP server module.
type HTTPServerConfig struct {
	// Host is the hostname or IP address to bind to.
	Host string `yaml:"host" toml:"host" default:"0.0.0.0" desc:"Address to bind to." env:"HOST"`

	// Port is the port number to listen on.
	Port int `yaml:"port" toml:"port" default:"8080" desc:"Port to listen on." env:"PORT"`

	// ReadTimeout is the maximum duration for reading the entire request,
	// including the body.
	ReadTimeout time.Duration `yaml:"read_timeout" toml:"read_timeout" default:"15s" desc:"Maximum duration for reading a request." env:"READ_TIMEOUT"`

	// WriteTimeout is the maximum duration before timing out writes of the response.
	WriteTimeout time.Duration `yaml:"write_timeout" toml:"write_timeout" default:"15s" desc:"Maximum duration for writing a response." env:"WRITE_TIMEOUT"`

	// IdleTimeout is the maximum amount of time to wait for the next request.
	IdleTimeout time.Duration `yaml:"idle_timeout" toml:"idle_timeout" default:"60s" desc:"Keep-alive idle timeout." env:"IDLE_TIMEOUT"`

	// ShutdownTimeout is the maximum amount of time to wait during graceful shutdown.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" toml:"shutdown_timeout" default:"30s" desc:"Graceful shutdown timeout." env:"SHUTDOWN_TIMEOUT"`

	// TLS configuration if HTTPS is enabled
	TLS TLSConfig `yaml:"tls" toml:"tls" env:"TLS"`
}

// TLSConfig holds the TLS configuration for HTTPS support
type TLSConfig struct {
	// Enabled indicates if HTTPS should be used instead of HTTP
	Enabled bool `yaml:"enabled" toml:"enabled" default:"false" desc:"Serve HTTPS." env:"ENABLED"`

	// CertFile is the path to the certificate file
	CertFile string `yaml:"cert_file" toml:"cert_file" desc:"PEM certificate file." env:"CERT_FILE"`

	// KeyFile is the path to the private key file
	KeyFile string `yaml:"key_file" toml:"key_file" desc:"PEM private key file." env:"KEY_FILE"`
}

// Validate implements logicalview.ConfigValidator.
func (c *HTTPServerConfig) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("%w: %d", ErrInvalidPort, c.Port)
	}

	if c.TLS.Enabled {
		if c.TLS.CertFile == "" {
			return fmt.Errorf("%w: no certificate file specified", ErrInvalidTLSConfig)
		}
		if c.TLS.KeyFile == "" {
			return fmt.Errorf("%w: no key file specified", ErrInvalidTLSConfig)
		}
	}

	return nil
}

// Address returns host:port.
func (c *HTTPServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
