package webapp

import (
	"fmt"

	"github.com/GoCodeAlone/logicalview/controller/randoms"
	"github.com/GoCodeAlone/logicalview/internal/people"
	"github.com/GoCodeAlone/logicalview/render"
)

// WebAppConfig configures the demo web application.
//
// Example YAML configuration:
//
//	webapp:
//	  render:
//	    dir: ./templates
//	    reload: true
//	  randoms:
//	    min_people: 20
//	    max_people: 35
//	  people:
//	    seed: 42
type WebAppConfig struct {
	Render  render.Config  `yaml:"render" toml:"render" env:"RENDER" desc:"Template loading"`
	Randoms randoms.Config `yaml:"randoms" toml:"randoms" env:"RANDOMS" desc:"People rendered by the randoms page"`
	People  PeopleConfig   `yaml:"people" toml:"people" env:"PEOPLE" desc:"Synthetic people generator"`
}

// PeopleConfig configures the people generator.
type PeopleConfig struct {
	// Seed seeds the generator. Zero seeds from the clock.
	Seed        int64   `yaml:"seed" toml:"seed" env:"SEED" desc:"Random seed. 0 seeds from the clock."`
	SpendMean   float64 `yaml:"spend_mean" toml:"spend_mean" env:"SPEND_MEAN" default:"100" desc:"Mean of the spend distribution."`
	SpendStdDev float64 `yaml:"spend_std_dev" toml:"spend_std_dev" env:"SPEND_STD_DEV" default:"15" desc:"Standard deviation of the spend distribution."`
	AvatarSize  string  `yaml:"avatar_size" toml:"avatar_size" env:"AVATAR_SIZE" default:"144x144" desc:"Avatar image size."`
}

// Options converts the configuration to generator options.
func (c PeopleConfig) Options() people.Options {
	return people.Options{
		Seed:        c.Seed,
		SpendMean:   c.SpendMean,
		SpendStdDev: c.SpendStdDev,
		AvatarSize:  c.AvatarSize,
	}
}

// Validate implements logicalview.ConfigValidator.
func (c *WebAppConfig) Validate() error {
	if err := c.Render.Validate(); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if err := c.Randoms.Validate(); err != nil {
		return fmt.Errorf("randoms: %w", err)
	}
	if c.People.SpendStdDev < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidSpendStdDev, c.People.SpendStdDev)
	}
	return nil
}
