package render

// DefaultExtension is the template file extension.
const DefaultExtension = ".html"

// Config configures template loading.
//
// Example YAML configuration:
//
//	render:
//	  dir: ./templates
//	  reload: true
type Config struct {
	// Dir is the directory templates are read from. Empty uses the templates
	// embedded in the binary.
	Dir string `yaml:"dir" toml:"dir" env:"DIR" desc:"Template directory. Empty uses the embedded templates."`

	// Reload watches Dir and reloads templates when files change. It has no
	// effect for embedded templates.
	Reload bool `yaml:"reload" toml:"reload" env:"RELOAD" default:"false" desc:"Reload templates when files in dir change."`

	// Extension is the template file extension, including the dot.
	Extension string `yaml:"extension" toml:"extension" env:"EXTENSION" default:".html" desc:"Template file extension."`
}

// Validate implements logicalview.ConfigValidator.
func (c *Config) Validate() error {
	if c.Reload && c.Dir == "" {
		return ErrReloadWithoutDir
	}
	return nil
}
