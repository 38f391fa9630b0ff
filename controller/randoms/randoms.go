// Package randoms implements the randoms controller, which renders a random
// number of generated people and picks a winner among them.
package randoms

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/GoCodeAlone/logicalview/controller"
	"github.com/GoCodeAlone/logicalview/internal/people"
	"github.com/GoCodeAlone/logicalview/viewcontext"
	randomsvc "github.com/GoCodeAlone/logicalview/viewcontexts/randoms"
)

// Path is the controller path.
const Path = "randoms"

var (
	// ErrInvalidRange is returned for a people range that is empty or below one.
	ErrInvalidRange = errors.New("randoms: invalid people range")

	// ErrNilSource is returned when the controller is built without a people source.
	ErrNilSource = errors.New("randoms: people source is nil")

	// ErrNilRandom is returned when the controller is built without a random source.
	ErrNilRandom = errors.New("randoms: random source is nil")
)

// Config bounds the number of people rendered per request.
type Config struct {
	MinPeople int `yaml:"min_people" toml:"min_people" env:"MIN_PEOPLE" default:"20" desc:"Fewest people rendered per request."`
	MaxPeople int `yaml:"max_people" toml:"max_people" env:"MAX_PEOPLE" default:"35" desc:"Most people rendered per request."`
}

// Validate implements logicalview.ConfigValidator.
func (c *Config) Validate() error {
	if c.MinPeople < 1 || c.MaxPeople < c.MinPeople {
		return fmt.Errorf("%w: %d..%d", ErrInvalidRange, c.MinPeople, c.MaxPeople)
	}
	return nil
}

// Random picks numbers in [0, n).
type Random interface {
	Intn(n int) int
}

// Controller is the randoms controller.
type Controller struct {
	class  *controller.Class
	source people.Source
	random Random
	config Config
	now    func() time.Time
}

// New defines the randoms controller class under parent and declares its
// view context.
func New(registry *viewcontext.Registry, parent *controller.Class, source people.Source, random Random, cfg Config) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if source == nil {
		return nil, ErrNilSource
	}
	if random == nil {
		return nil, ErrNilRandom
	}

	class, err := controller.Define(registry, Path, parent)
	if err != nil {
		return nil, err
	}
	if err := class.ViewContext(randomsvc.Module()); err != nil {
		return nil, fmt.Errorf("declaring randoms view context: %w", err)
	}

	return &Controller{
		class:  class,
		source: source,
		random: random,
		config: cfg,
		now:    time.Now,
	}, nil
}

// Class returns the controller class.
func (c *Controller) Class() *controller.Class {
	return c.class
}

// Index renders between MinPeople and MaxPeople people with locals
// randoms, winner_id and elapsed_millis.
func (c *Controller) Index(inst *controller.Instance, w http.ResponseWriter, r *http.Request) error {
	start := c.now()
	limit := c.config.MinPeople + c.random.Intn(c.config.MaxPeople-c.config.MinPeople+1)
	list, err := c.source.All(limit)
	if err != nil {
		return fmt.Errorf("fetching people: %w", err)
	}
	elapsed := c.now().Sub(start)

	winnerID := ""
	if len(list) > 0 {
		winnerID = list[c.random.Intn(len(list))].ID
	}

	return inst.Render(r.Context(), w, map[string]any{
		"randoms":        list,
		"winner_id":      winnerID,
		"elapsed_millis": float64(elapsed) / float64(time.Millisecond),
	})
}

// Handler returns the index handler.
func (c *Controller) Handler(env *controller.Env) http.HandlerFunc {
	return c.class.Handler(env, "index", c.Index)
}
