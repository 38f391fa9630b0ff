package chimux

import (
	"fmt"
	"strings"
	"time"
)

// ChiMuxConfig holds the configuration for the chimux module: CORS headers,
// the request timeout and an optional base path the application is mounted
// under.
//
// Example YAML configuration:
//
//	chimux:
//	  allowed_origins:
//	    - "https://example.com"
//	  allow_credentials: true
//	  max_age: 3600
//	  timeout: 30s
//	  basepath: "/demo"
//
// Example environment variables:
//
//	LOGICALVIEW_CHIMUX_ALLOWED_ORIGINS=https://example.com,https://app.example.com
//	LOGICALVIEW_CHIMUX_BASE_PATH=/demo
type ChiMuxConfig struct {
	// AllowedOrigins lists the origins allowed for CORS requests. "*" allows all.
	AllowedOrigins []string `yaml:"allowed_origins" toml:"allowed_origins" default:"[\"*\"]" desc:"List of allowed origins for CORS requests." env:"ALLOWED_ORIGINS"`

	// AllowedMethods lists the HTTP methods allowed for CORS requests.
	AllowedMethods []string `yaml:"allowed_methods" toml:"allowed_methods" default:"[\"GET\",\"HEAD\",\"OPTIONS\"]" desc:"List of allowed HTTP methods." env:"ALLOWED_METHODS"`

	// AllowedHeaders lists the request headers allowed for CORS requests.
	AllowedHeaders []string `yaml:"allowed_headers" toml:"allowed_headers" default:"[\"Origin\",\"Accept\",\"Content-Type\",\"X-Requested-With\"]" desc:"List of allowed request headers." env:"ALLOWED_HEADERS"`

	// AllowCredentials allows cookies and authorization headers in CORS requests.
	AllowCredentials bool `yaml:"allow_credentials" toml:"allow_credentials" default:"false" desc:"Allow credentials in CORS requests." env:"ALLOW_CREDENTIALS"`

	// MaxAge is how long browsers may cache preflight results, in seconds.
	MaxAge int `yaml:"max_age" toml:"max_age" default:"300" desc:"Maximum age for CORS preflight cache in seconds." env:"MAX_AGE"`

	// Timeout bounds the handling of a single request. Zero disables it.
	Timeout time.Duration `yaml:"timeout" toml:"timeout" default:"60s" desc:"Default request timeout." env:"TIMEOUT"`

	// BasePath is a prefix every route is served under, e.g. "/demo".
	BasePath string `yaml:"basepath" toml:"basepath" desc:"A base path prefix for all routes registered through this module." env:"BASE_PATH"`
}

// Validate implements logicalview.ConfigValidator.
func (c *ChiMuxConfig) Validate() error {
	if c.BasePath != "" && (!strings.HasPrefix(c.BasePath, "/") || strings.HasSuffix(c.BasePath, "/")) {
		return fmt.Errorf("%w: %q", ErrInvalidBasePath, c.BasePath)
	}
	if c.MaxAge < 0 {
		return fmt.Errorf("%w: max_age %d", ErrInvalidConfig, c.MaxAge)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%w: timeout %s", ErrInvalidConfig, c.Timeout)
	}
	return nil
}
