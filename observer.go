package logicalview

import (
	"context"
	"sync"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
)

// Observer is notified of CloudEvents emitted by a Subject.
type Observer interface {
	// OnEvent is called for every event the observer subscribed to.
	// Observers should return quickly.
	OnEvent(ctx context.Context, event cloudevents.Event) error

	// ObserverID returns a unique identifier for this observer.
	ObserverID() string
}

// Subject maintains a set of observers and notifies them of events.
type Subject interface {
	// RegisterObserver adds an observer. With no eventTypes the observer
	// receives every event.
	RegisterObserver(observer Observer, eventTypes ...string) error

	// UnregisterObserver removes an observer. It is idempotent.
	UnregisterObserver(observer Observer) error

	// NotifyObservers delivers event to every interested observer without
	// blocking the caller.
	NotifyObservers(ctx context.Context, event cloudevents.Event) error

	// GetObservers returns information about registered observers.
	GetObservers() []ObserverInfo
}

// ObserverInfo describes a registered observer.
type ObserverInfo struct {
	ID           string    `json:"id"`
	EventTypes   []string  `json:"eventTypes"`
	RegisteredAt time.Time `json:"registeredAt"`
}

// Event types emitted by the application and its modules.
// Following CloudEvents conventions these use reverse domain notation.
const (
	EventTypeModuleInitialized = "com.logicalview.module.initialized"
	EventTypeModuleStarted     = "com.logicalview.module.started"
	EventTypeModuleStopped     = "com.logicalview.module.stopped"

	EventTypeConfigLoaded = "com.logicalview.config.loaded"

	EventTypeViewContextComposed = "com.logicalview.viewcontext.composed"
	EventTypeTemplateRendered    = "com.logicalview.template.rendered"
	EventTypeTemplateFailed      = "com.logicalview.template.failed"
	EventTypeTemplatesReloaded   = "com.logicalview.templates.reloaded"

	EventTypeApplicationStarted = "com.logicalview.application.started"
	EventTypeApplicationStopped = "com.logicalview.application.stopped"
)

// FunctionalObserver adapts a function to the Observer interface.
type FunctionalObserver struct {
	id      string
	handler func(ctx context.Context, event cloudevents.Event) error
}

// NewFunctionalObserver creates an observer backed by handler.
func NewFunctionalObserver(id string, handler func(ctx context.Context, event cloudevents.Event) error) Observer {
	return &FunctionalObserver{
		id:      id,
		handler: handler,
	}
}

// OnEvent implements Observer.
func (f *FunctionalObserver) OnEvent(ctx context.Context, event cloudevents.Event) error {
	return f.handler(ctx, event)
}

// ObserverID implements Observer.
func (f *FunctionalObserver) ObserverID() string {
	return f.id
}

type observerRegistration struct {
	observer     Observer
	eventTypes   map[string]bool
	registeredAt time.Time
}

// StdSubject is the default Subject. The application embeds one so every
// module can emit events through app.Subject().
type StdSubject struct {
	logger        Logger
	observers     map[string]*observerRegistration
	observerMutex sync.RWMutex
}

// NewStdSubject creates an empty subject logging delivery failures to logger.
func NewStdSubject(logger Logger) *StdSubject {
	return &StdSubject{
		logger:    logger,
		observers: make(map[string]*observerRegistration),
	}
}

// RegisterObserver implements Subject.
func (s *StdSubject) RegisterObserver(observer Observer, eventTypes ...string) error {
	if observer == nil {
		return ErrObserverNil
	}

	s.observerMutex.Lock()
	defer s.observerMutex.Unlock()

	eventTypeMap := make(map[string]bool, len(eventTypes))
	for _, eventType := range eventTypes {
		eventTypeMap[eventType] = true
	}

	s.observers[observer.ObserverID()] = &observerRegistration{
		observer:     observer,
		eventTypes:   eventTypeMap,
		registeredAt: time.Now(),
	}

	s.logger.Debug("Observer registered", "observerID", observer.ObserverID(), "eventTypes", eventTypes)
	return nil
}

// UnregisterObserver implements Subject.
func (s *StdSubject) UnregisterObserver(observer Observer) error {
	if observer == nil {
		return ErrObserverNil
	}

	s.observerMutex.Lock()
	defer s.observerMutex.Unlock()

	if _, exists := s.observers[observer.ObserverID()]; exists {
		delete(s.observers, observer.ObserverID())
		s.logger.Debug("Observer unregistered", "observerID", observer.ObserverID())
	}
	return nil
}

// NotifyObservers implements Subject. Each observer runs in its own
// goroutine; errors and panics are logged, never returned.
func (s *StdSubject) NotifyObservers(ctx context.Context, event cloudevents.Event) error {
	if event.Time().IsZero() {
		event.SetTime(time.Now())
	}

	if err := ValidateCloudEvent(event); err != nil {
		s.logger.Error("Invalid CloudEvent", "eventType", event.Type(), "error", err)
		return err
	}

	s.observerMutex.RLock()
	defer s.observerMutex.RUnlock()

	for _, registration := range s.observers {
		if len(registration.eventTypes) > 0 && !registration.eventTypes[event.Type()] {
			continue
		}

		go func() {
			defer func() {
				if r := recover(); r != nil {
					s.logger.Error("Observer panicked", "observerID", registration.observer.ObserverID(), "event", event.Type(), "panic", r)
				}
			}()

			if err := registration.observer.OnEvent(ctx, event); err != nil {
				s.logger.Error("Observer error", "observerID", registration.observer.ObserverID(), "event", event.Type(), "error", err)
			}
		}()
	}

	return nil
}

// GetObservers implements Subject.
func (s *StdSubject) GetObservers() []ObserverInfo {
	s.observerMutex.RLock()
	defer s.observerMutex.RUnlock()

	info := make([]ObserverInfo, 0, len(s.observers))
	for id, registration := range s.observers {
		eventTypes := make([]string, 0, len(registration.eventTypes))
		for eventType := range registration.eventTypes {
			eventTypes = append(eventTypes, eventType)
		}
		info = append(info, ObserverInfo{
			ID:           id,
			EventTypes:   eventTypes,
			RegisteredAt: registration.registeredAt,
		})
	}
	return info
}
