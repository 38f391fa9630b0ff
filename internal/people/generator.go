package people

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
)

// ErrNegativeLimit is returned when asking for fewer than zero people.
var ErrNegativeLimit = errors.New("people: limit must not be negative")

const (
	// DefaultSpendMean is the mean of the normal spend distribution.
	DefaultSpendMean = 100.0

	// DefaultSpendStdDev is the standard deviation of the spend distribution.
	DefaultSpendStdDev = 15.0

	// DefaultAvatarSize is the avatar image size requested from the avatar service.
	DefaultAvatarSize = "144x144"

	avatarURL = "https://robohash.org/%s.png?size=%s&set=set1"
)

// Source provides people to controllers.
type Source interface {
	All(limit int) ([]Person, error)
}

// Options configures a Generator. Zero values select the defaults.
type Options struct {
	// Seed seeds the generator. Zero seeds from the current time.
	Seed int64

	SpendMean   float64
	SpendStdDev float64
	AvatarSize  string
}

// Generator creates random people. Names and emails come from a seeded
// gofakeit faker, spends from a seeded normal distribution. It is safe for
// concurrent use.
type Generator struct {
	mu    sync.Mutex
	faker *gofakeit.Faker
	rng   *rand.Rand
	opts  Options
}

// NewGenerator creates a Generator.
func NewGenerator(opts Options) *Generator {
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	if opts.SpendMean == 0 {
		opts.SpendMean = DefaultSpendMean
	}
	if opts.SpendStdDev == 0 {
		opts.SpendStdDev = DefaultSpendStdDev
	}
	if opts.AvatarSize == "" {
		opts.AvatarSize = DefaultAvatarSize
	}
	return &Generator{
		faker: gofakeit.New(uint64(opts.Seed)),
		rng:   rand.New(rand.NewSource(opts.Seed)),
		opts:  opts,
	}
}

// All returns limit freshly generated people.
func (g *Generator) All(limit int) ([]Person, error) {
	if limit < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeLimit, limit)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]Person, limit)
	for i := range out {
		out[i] = g.person()
	}
	return out, nil
}

// Intn returns a random number in [0, n) from the generator's source.
func (g *Generator) Intn(n int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rng.Intn(n)
}

func (g *Generator) person() Person {
	id := uuid.NewString()

	return Person{
		ID:     id,
		Name:   g.faker.Name(),
		Email:  g.faker.Email(),
		Avatar: fmt.Sprintf(avatarURL, id, g.opts.AvatarSize),
		Spend:  math.Round((g.rng.NormFloat64()*g.opts.SpendStdDev+g.opts.SpendMean)*100) / 100,
	}
}
