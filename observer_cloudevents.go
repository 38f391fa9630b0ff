package logicalview

import (
	"context"
	"fmt"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/google/uuid"
)

// CloudEvent is an alias for the CloudEvents Event type for convenience.
type CloudEvent = cloudevents.Event

// NewCloudEvent creates a CloudEvent with a time-ordered ID, the current
// time and JSON data. Metadata entries become event extensions.
func NewCloudEvent(eventType, source string, data any, metadata map[string]any) cloudevents.Event {
	event := cloudevents.NewEvent()

	event.SetID(generateEventID())
	event.SetSource(source)
	event.SetType(eventType)
	event.SetTime(time.Now())
	event.SetSpecVersion(cloudevents.VersionV1)

	if data != nil {
		_ = event.SetData(cloudevents.ApplicationJSON, data)
	}

	for key, value := range metadata {
		event.SetExtension(key, value)
	}

	return event
}

// generateEventID generates a unique identifier using UUIDv7.
func generateEventID() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return id.String()
}

// ValidateCloudEvent validates that a CloudEvent is a well-formed CloudEvent.
func ValidateCloudEvent(event cloudevents.Event) error {
	if err := event.Validate(); err != nil {
		return fmt.Errorf("CloudEvent validation failed: %w", err)
	}
	return nil
}

// Emit builds an event and hands it to subject. A nil subject is allowed
// so components work without an application around them; delivery errors
// are logged and swallowed.
func Emit(ctx context.Context, subject Subject, logger Logger, eventType, source string, data any) {
	if subject == nil {
		return
	}
	event := NewCloudEvent(eventType, source, data, nil)
	if err := subject.NotifyObservers(ctx, event); err != nil && logger != nil {
		logger.Debug("Failed to emit event", "eventType", eventType, "source", source, "error", err)
	}
}
