// Package eventlogger provides structured logging of the application's
// CloudEvents.
//
// The module registers itself as an observer on the application subject
// and writes every event it receives to a console or file target. Events
// are buffered and written by a background goroutine so emitters never
// block on output.
//
// Features:
//   - text, json and structured output formats
//   - event type filtering
//   - minimum level filtering, with levels derived from event types
//   - bounded buffer that drops the oldest event when full
//   - draining of queued events on Stop
//
// Usage:
//
//	app.RegisterModule(eventlogger.NewModule())
package eventlogger

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/GoCodeAlone/logicalview"
	cloudevents "github.com/cloudevents/sdk-go/v2"
)

// ModuleName is the unique identifier for the eventlogger module.
const ModuleName = "eventlogger"

// ServiceName is the name of the service provided by this module.
const ServiceName = "eventlogger.observer"

const eventSource = "eventlogger-module"

// EventLoggerModule writes application events to an output target.
type EventLoggerModule struct {
	name    string
	config  *EventLoggerConfig
	logger  logicalview.Logger
	subject logicalview.Subject
	output  OutputTarget

	mu          sync.Mutex
	started     bool
	eventChan   chan cloudevents.Event
	pending     []cloudevents.Event
	stopChan    chan struct{}
	wg          sync.WaitGroup
	dropped     int
	typeFilters map[string]bool
}

var (
	_ logicalview.Configurable = (*EventLoggerModule)(nil)
	_ logicalview.ServiceAware = (*EventLoggerModule)(nil)
	_ logicalview.Startable    = (*EventLoggerModule)(nil)
	_ logicalview.Stoppable    = (*EventLoggerModule)(nil)
	_ logicalview.Observer     = (*EventLoggerModule)(nil)
)

// NewModule creates a new instance of the event logger module.
func NewModule() *EventLoggerModule {
	return &EventLoggerModule{name: ModuleName}
}

// Name returns the unique identifier for this module.
func (m *EventLoggerModule) Name() string {
	return m.name
}

// RegisterConfig registers the module's configuration section unless one
// is already registered.
func (m *EventLoggerModule) RegisterConfig(app logicalview.Application) error {
	if _, err := app.GetConfigSection(m.name); err == nil {
		return nil
	}
	app.RegisterConfigSection(m.name, logicalview.NewStdConfigProvider(&EventLoggerConfig{}))
	return nil
}

// Init loads the configuration, creates the output target and subscribes
// to the application subject.
func (m *EventLoggerModule) Init(app logicalview.Application) error {
	m.logger = app.Logger()
	m.subject = app.Subject()

	cfg, err := app.GetConfigSection(m.name)
	if err != nil {
		return fmt.Errorf("failed to get config section '%s': %w", m.name, err)
	}
	config, ok := cfg.GetConfig().(*EventLoggerConfig)
	if !ok {
		return fmt.Errorf("%w: %T", ErrConfigType, cfg.GetConfig())
	}
	m.config = config

	m.typeFilters = make(map[string]bool, len(config.EventTypeFilters))
	for _, t := range config.EventTypeFilters {
		m.typeFilters[t] = true
	}

	if !config.Enabled {
		m.logger.Info("Event logger disabled")
		return nil
	}

	if m.output == nil {
		output, err := NewOutputTarget(config.Output)
		if err != nil {
			return fmt.Errorf("failed to create output target: %w", err)
		}
		m.output = output
	}

	if m.subject != nil {
		if err := m.subject.RegisterObserver(m); err != nil {
			return fmt.Errorf("failed to register event observer: %w", err)
		}
	}

	m.logger.Info("Event logger initialized", "output", config.Output.Type, "format", config.Output.Format, "level", config.LogLevel)
	return nil
}

// SetOutput replaces the output target. It must be called before Init.
func (m *EventLoggerModule) SetOutput(target OutputTarget) {
	m.output = target
}

// ProvidesServices returns the module as an observer service.
func (m *EventLoggerModule) ProvidesServices() []logicalview.ServiceProvider {
	return []logicalview.ServiceProvider{
		{Name: ServiceName, Instance: m},
	}
}

// Start begins processing events. Events received before Start are
// replayed first.
func (m *EventLoggerModule) Start(ctx context.Context) error {
	if m.config == nil || !m.config.Enabled {
		return nil
	}

	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return ErrLoggerAlreadyStarted
	}
	m.eventChan = make(chan cloudevents.Event, m.config.BufferSize)
	m.stopChan = make(chan struct{})
	m.started = true
	pending := m.pending
	m.pending = nil
	m.mu.Unlock()

	m.wg.Add(1)
	go m.processEvents()

	for _, event := range pending {
		m.enqueue(event)
	}

	logicalview.Emit(ctx, m.subject, m.logger, EventTypeLoggerStarted, eventSource, map[string]any{
		"output":      m.config.Output.Type,
		"buffer_size": m.config.BufferSize,
	})
	return nil
}

// Stop stops accepting events and waits for queued events to be written,
// bounded by ShutdownDrainTimeout.
func (m *EventLoggerModule) Stop(ctx context.Context) error {
	if m.config == nil || !m.config.Enabled {
		return nil
	}

	m.mu.Lock()
	if !m.started {
		m.mu.Unlock()
		return ErrLoggerNotStarted
	}
	m.started = false
	close(m.stopChan)
	m.mu.Unlock()

	if m.subject != nil {
		_ = m.subject.UnregisterObserver(m)
	}

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	var timeout <-chan time.Time
	if m.config.ShutdownDrainTimeout > 0 {
		timer := time.NewTimer(m.config.ShutdownDrainTimeout)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case <-done:
	case <-timeout:
		m.logger.Warn("Event logger drain timed out", "timeout", m.config.ShutdownDrainTimeout)
	case <-ctx.Done():
		m.logger.Warn("Event logger stop cancelled", "error", ctx.Err())
	}

	if err := m.output.Close(); err != nil {
		m.logger.Error("Failed to close event output", "error", err)
	}

	m.mu.Lock()
	dropped := m.dropped
	m.mu.Unlock()
	m.logger.Info("Event logger stopped", "dropped", dropped)
	return nil
}

// ObserverID implements logicalview.Observer.
func (m *EventLoggerModule) ObserverID() string {
	return m.name
}

// OnEvent implements logicalview.Observer. It never blocks: before Start
// events are queued, afterwards they go to the buffer.
func (m *EventLoggerModule) OnEvent(_ context.Context, event cloudevents.Event) error {
	if !m.shouldLog(event) {
		return nil
	}

	m.mu.Lock()
	if !m.started {
		if m.stopChan == nil && len(m.pending) < m.config.BufferSize {
			m.pending = append(m.pending, event)
		}
		m.mu.Unlock()
		return nil
	}
	m.mu.Unlock()

	m.enqueue(event)
	return nil
}

// enqueue adds event to the buffer, dropping the oldest entry when full.
func (m *EventLoggerModule) enqueue(event cloudevents.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.started {
		return
	}

	for {
		select {
		case m.eventChan <- event:
			return
		default:
		}
		select {
		case <-m.eventChan:
			m.dropped++
		default:
		}
	}
}

func (m *EventLoggerModule) processEvents() {
	defer m.wg.Done()

	ticker := time.NewTicker(m.config.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case event := <-m.eventChan:
			m.write(event)
		case <-ticker.C:
			m.flush()
		case <-m.stopChan:
			for {
				select {
				case event := <-m.eventChan:
					m.write(event)
				default:
					m.flush()
					return
				}
			}
		}
	}
}

func (m *EventLoggerModule) write(event cloudevents.Event) {
	if err := m.output.WriteEvent(newLogEntry(event)); err != nil {
		m.logger.Error("Failed to write event", "eventType", event.Type(), "error", err)
	}
}

func (m *EventLoggerModule) flush() {
	if err := m.output.Flush(); err != nil {
		m.logger.Error("Failed to flush event output", "error", err)
	}
}

func (m *EventLoggerModule) shouldLog(event cloudevents.Event) bool {
	if m.config == nil || !m.config.Enabled {
		return false
	}
	if len(m.typeFilters) > 0 && !m.typeFilters[event.Type()] {
		return false
	}
	return shouldLogLevel(eventLevel(event.Type()), m.config.LogLevel)
}

// eventLevel derives a log level from an event type.
func eventLevel(eventType string) string {
	switch {
	case strings.HasSuffix(eventType, ".template.failed"), strings.Contains(eventType, ".error"):
		return "ERROR"
	case strings.HasSuffix(eventType, ".failed"):
		return "WARN"
	case strings.HasSuffix(eventType, ".config.loaded"),
		strings.HasSuffix(eventType, ".composed"),
		strings.HasSuffix(eventType, ".registered"),
		strings.HasSuffix(eventType, ".request.received"),
		strings.HasSuffix(eventType, ".request.processed"),
		strings.HasSuffix(eventType, ".template.rendered"):
		return "DEBUG"
	default:
		return "INFO"
	}
}

func newLogEntry(event cloudevents.Event) *LogEntry {
	entry := &LogEntry{
		Timestamp: event.Time(),
		Level:     eventLevel(event.Type()),
		Type:      event.Type(),
		Source:    event.Source(),
		ID:        event.ID(),
	}

	if len(event.Data()) > 0 {
		var data any
		if err := event.DataAs(&data); err == nil {
			entry.Data = data
		} else {
			entry.Data = string(event.Data())
		}
	}

	if ext := event.Extensions(); len(ext) > 0 {
		entry.Metadata = make(map[string]any, len(ext))
		for k, v := range ext {
			entry.Metadata[k] = v
		}
	}
	return entry
}
