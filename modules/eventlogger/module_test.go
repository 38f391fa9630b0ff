package eventlogger

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/GoCodeAlone/logicalview"
	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *syncBuffer) lines() []string {
	s := strings.TrimSpace(b.String())
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func newTestModule(t *testing.T, cfg *EventLoggerConfig) (*logicalview.StdApplication, *EventLoggerModule, *syncBuffer) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	app := logicalview.NewStdApplication(logicalview.NewStdConfigProvider(&struct{}{}), logger)

	buf := &syncBuffer{}
	module := NewModule()
	if cfg != nil {
		app.RegisterConfigSection(ModuleName, logicalview.NewStdConfigProvider(cfg))
	}
	app.RegisterModule(module)
	require.NoError(t, app.Init())
	if module.config.Enabled {
		module.SetOutput(NewWriterTarget(module.config.Output, buf))
	}
	return app, module, buf
}

func TestDefaults(t *testing.T) {
	_, module, _ := newTestModule(t, nil)

	assert.True(t, module.config.Enabled)
	assert.Equal(t, "INFO", module.config.LogLevel)
	assert.Equal(t, "console", module.config.Output.Type)
	assert.Equal(t, "text", module.config.Output.Format)
	assert.Equal(t, 100, module.config.BufferSize)
	assert.Equal(t, 5*time.Second, module.config.FlushInterval)
	assert.Equal(t, 2*time.Second, module.config.ShutdownDrainTimeout)
}

func TestProvidesObserverService(t *testing.T) {
	app, module, _ := newTestModule(t, nil)

	var observer logicalview.Observer
	require.NoError(t, app.GetService(ServiceName, &observer))
	assert.Same(t, module, observer)

	ids := make([]string, 0)
	for _, info := range app.Subject().GetObservers() {
		ids = append(ids, info.ID)
	}
	assert.Contains(t, ids, ModuleName)
}

func TestLogsEventsAsJSON(t *testing.T) {
	_, module, buf := newTestModule(t, &EventLoggerConfig{
		Output: OutputTargetConfig{Format: "json"},
	})
	ctx := context.Background()
	require.NoError(t, module.Start(ctx))

	event := logicalview.NewCloudEvent(logicalview.EventTypeTemplateFailed, "render", map[string]any{"view": "randoms/index"}, nil)
	require.NoError(t, module.OnEvent(ctx, event))
	require.NoError(t, module.Stop(ctx))

	var found bool
	for _, line := range buf.lines() {
		var entry LogEntry
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		if entry.Type != logicalview.EventTypeTemplateFailed {
			continue
		}
		found = true
		assert.Equal(t, "ERROR", entry.Level)
		assert.Equal(t, "render", entry.Source)
		assert.Equal(t, event.ID(), entry.ID)
		assert.Equal(t, map[string]any{"view": "randoms/index"}, entry.Data)
	}
	assert.True(t, found, "template failure not logged: %s", buf.String())
}

func TestFiltersByLevelAndType(t *testing.T) {
	_, module, buf := newTestModule(t, &EventLoggerConfig{
		LogLevel:         "WARN",
		EventTypeFilters: []string{logicalview.EventTypeTemplateFailed, logicalview.EventTypeViewContextComposed},
	})
	ctx := context.Background()
	require.NoError(t, module.Start(ctx))

	for _, eventType := range []string{
		logicalview.EventTypeViewContextComposed,
		logicalview.EventTypeModuleStarted,
		logicalview.EventTypeTemplateFailed,
	} {
		require.NoError(t, module.OnEvent(ctx, logicalview.NewCloudEvent(eventType, "test", nil, nil)))
	}
	require.NoError(t, module.Stop(ctx))

	lines := buf.lines()
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "ERROR ["+logicalview.EventTypeTemplateFailed+"] test")
}

func TestQueuesEventsBeforeStart(t *testing.T) {
	_, module, buf := newTestModule(t, &EventLoggerConfig{
		Output: OutputTargetConfig{Format: "text"},
	})
	ctx := context.Background()

	require.NoError(t, module.OnEvent(ctx, logicalview.NewCloudEvent(logicalview.EventTypeModuleInitialized, "early", nil, nil)))
	assert.Empty(t, buf.String())

	require.NoError(t, module.Start(ctx))
	require.NoError(t, module.Stop(ctx))
	assert.Contains(t, buf.String(), "INFO ["+logicalview.EventTypeModuleInitialized+"] early")
}

func TestReceivesEmittedEvents(t *testing.T) {
	app, module, buf := newTestModule(t, nil)
	ctx := context.Background()
	require.NoError(t, module.Start(ctx))

	logicalview.Emit(ctx, app.Subject(), app.Logger(), logicalview.EventTypeTemplatesReloaded, "watcher", map[string]any{"file": "index.html.tmpl"})

	assert.Eventually(t, func() bool {
		return strings.Contains(buf.String(), logicalview.EventTypeTemplatesReloaded)
	}, time.Second, 10*time.Millisecond)
	require.NoError(t, module.Stop(ctx))
}

func TestDropsOldestWhenFull(t *testing.T) {
	module := NewModule()
	module.config = &EventLoggerConfig{Enabled: true, LogLevel: "DEBUG", BufferSize: 2}
	module.eventChan = make(chan cloudevents.Event, 2)
	module.started = true

	for _, source := range []string{"one", "two", "three"} {
		module.enqueue(logicalview.NewCloudEvent(logicalview.EventTypeModuleStarted, source, nil, nil))
	}

	assert.Equal(t, 1, module.dropped)
	first := <-module.eventChan
	second := <-module.eventChan
	assert.Equal(t, "two", first.Source())
	assert.Equal(t, "three", second.Source())
}

func TestDisabled(t *testing.T) {
	module := NewModule()
	module.config = &EventLoggerConfig{Enabled: false, LogLevel: "DEBUG", BufferSize: 1}
	ctx := context.Background()

	assert.NoError(t, module.Start(ctx))
	assert.NoError(t, module.OnEvent(ctx, logicalview.NewCloudEvent(logicalview.EventTypeModuleStarted, "test", nil, nil)))
	assert.Empty(t, module.pending)
	assert.NoError(t, module.Stop(ctx))
}

func TestStopBeforeStart(t *testing.T) {
	_, module, _ := newTestModule(t, nil)
	assert.ErrorIs(t, module.Stop(context.Background()), ErrLoggerNotStarted)
}

func TestFileTarget(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "events.log")
	target, err := NewFileTarget(OutputTargetConfig{Type: "file", Format: "structured", Path: path})
	require.NoError(t, err)

	entry := &LogEntry{
		Timestamp: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Level:     "INFO",
		Type:      logicalview.EventTypeApplicationStarted,
		Source:    "application",
		Metadata:  map[string]any{"b": 2, "a": 1},
	}
	require.NoError(t, target.WriteEvent(entry))
	require.NoError(t, target.Close())
	assert.ErrorIs(t, target.WriteEvent(entry), ErrFileNotOpen)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[2024-01-02 03:04:05] INFO "+logicalview.EventTypeApplicationStarted+"\n"+
		"  Source: application\n"+
		"  Metadata:\n"+
		"    a: 1\n"+
		"    b: 2\n", string(data))
}

func TestEventLevel(t *testing.T) {
	tests := map[string]string{
		logicalview.EventTypeTemplateFailed:         "ERROR",
		"com.logicalview.chimux.request.failed":     "WARN",
		logicalview.EventTypeConfigLoaded:           "DEBUG",
		logicalview.EventTypeViewContextComposed:    "DEBUG",
		"com.logicalview.chimux.route.registered":   "DEBUG",
		logicalview.EventTypeApplicationStarted:     "INFO",
		"com.logicalview.httpserver.server.started": "INFO",
	}
	for eventType, level := range tests {
		assert.Equal(t, level, eventLevel(eventType), eventType)
	}
}

func TestConfigValidate(t *testing.T) {
	valid := func() EventLoggerConfig {
		return EventLoggerConfig{
			LogLevel:      "INFO",
			BufferSize:    10,
			FlushInterval: time.Second,
			Output:        OutputTargetConfig{Type: "console", Format: "text"},
		}
	}

	tests := []struct {
		name   string
		mutate func(*EventLoggerConfig)
		err    error
	}{
		{"valid", func(*EventLoggerConfig) {}, nil},
		{"bad level", func(c *EventLoggerConfig) { c.LogLevel = "TRACE" }, ErrInvalidLogLevel},
		{"zero buffer", func(c *EventLoggerConfig) { c.BufferSize = 0 }, ErrInvalidBufferSize},
		{"zero flush", func(c *EventLoggerConfig) { c.FlushInterval = 0 }, ErrInvalidFlushInterval},
		{"bad format", func(c *EventLoggerConfig) { c.Output.Format = "xml" }, ErrInvalidFormat},
		{"bad type", func(c *EventLoggerConfig) { c.Output.Type = "syslog" }, ErrInvalidOutputType},
		{"file without path", func(c *EventLoggerConfig) { c.Output.Type = "file" }, ErrMissingFilePath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.err)
		})
	}
}
