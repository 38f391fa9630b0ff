package logicalview

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapFeeder map[string]string

func (f mapFeeder) Feed(structure any) error {
	if cfg, ok := structure.(*testModuleConfig); ok {
		cfg.Greeting = f["greeting"]
	}
	return nil
}

func (f mapFeeder) FeedKey(key string, target any) error {
	if cfg, ok := target.(*testModuleConfig); ok {
		cfg.Greeting = f[key]
	}
	return nil
}

func TestNewApplicationRequiresLogger(t *testing.T) {
	_, err := NewApplication()
	assert.ErrorIs(t, err, ErrLoggerNotSet)
}

func TestNewApplication(t *testing.T) {
	var events atomic.Int32
	module := &testModule{name: "greeter", log: &callLog{}}
	app, err := NewApplication(
		WithLogger(testLogger()),
		WithConfigFeeders(mapFeeder{"greeter": "hi"}),
		WithModules(module),
		WithObserver(func(context.Context, cloudevents.Event) error {
			events.Add(1)
			return nil
		}),
	)
	require.NoError(t, err)
	assert.IsType(t, &struct{}{}, app.ConfigProvider().GetConfig())
	assert.Len(t, app.Subject().GetObservers(), 1)

	require.NoError(t, app.Init())
	assert.Equal(t, "hi", module.config.Greeting)
	assert.Eventually(t, func() bool { return events.Load() > 0 }, time.Second, 10*time.Millisecond)
}
