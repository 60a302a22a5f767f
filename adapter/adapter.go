// Package adapter defines the boundary for publishing device status changes
// to downstream systems.
//
// The watcher owns adapter lifecycle; users provide configuration only.
package adapter

import (
	"context"
	"fmt"
	"time"

	"github.com/pithecene-io/braket-devices/types"
)

// EventVersion is the version of the event payload shape.
const EventVersion = "1"

// EventTypeStatusChanged is the EventType of every StatusChangedEvent.
const EventTypeStatusChanged = "device_status_changed"

// StatusChangedEvent is published when a watched device changes status.
// PreviousStatus is empty for a device seen for the first time.
type StatusChangedEvent struct {
	EventVersion   string             `json:"event_version"`
	EventType      string             `json:"event_type"`
	DeviceArn      string             `json:"device_arn"`
	DeviceName     string             `json:"device_name"`
	ProviderName   string             `json:"provider_name"`
	DeviceType     types.DeviceType   `json:"device_type"`
	Region         string             `json:"region,omitempty"`
	PreviousStatus types.DeviceStatus `json:"previous_status,omitempty"`
	Status         types.DeviceStatus `json:"status"`
	ObservedAt     string             `json:"observed_at"` // RFC 3339
}

// NewStatusChangedEvent builds the event for one transition of d.
func NewStatusChangedEvent(d types.DeviceSummary, previous types.DeviceStatus, region string, at time.Time) *StatusChangedEvent {
	return &StatusChangedEvent{
		EventVersion:   EventVersion,
		EventType:      EventTypeStatusChanged,
		DeviceArn:      d.DeviceArn,
		DeviceName:     d.DeviceName,
		ProviderName:   d.ProviderName,
		DeviceType:     d.DeviceType,
		Region:         region,
		PreviousStatus: previous,
		Status:         d.DeviceStatus,
		ObservedAt:     at.UTC().Format(time.RFC3339),
	}
}

// Adapter publishes status-change events to a downstream system.
type Adapter interface {
	// Publish sends one event. Must respect context cancellation and
	// deadlines.
	Publish(ctx context.Context, event *StatusChangedEvent) error

	// Close releases adapter resources.
	Close() error
}

// BaseBackoff is the delay before the first retry; it doubles per retry.
const BaseBackoff = 500 * time.Millisecond

// Backoff returns the delay before retry attempt i (1-based).
func Backoff(i int) time.Duration {
	if i < 1 {
		return 0
	}
	return time.Duration(1<<uint(i-1)) * BaseBackoff
}

// Retry calls attempt up to 1+retries times with exponential backoff
// between calls. It stops early when attempt succeeds, when permanent
// reports the error as non-retriable, or when ctx is done. name prefixes
// returned errors.
func Retry(ctx context.Context, name string, retries int, permanent func(error) bool, attempt func(context.Context) error) error {
	var lastErr error
	attempts := 1 + retries

	for i := range attempts {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%s: context canceled: %w", name, err)
		}

		if i > 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("%s: context canceled during backoff: %w", name, ctx.Err())
			case <-time.After(Backoff(i)):
			}
		}

		lastErr = attempt(ctx)
		if lastErr == nil {
			return nil
		}
		if permanent != nil && permanent(lastErr) {
			return fmt.Errorf("%s: non-retriable error: %w", name, lastErr)
		}
	}

	return fmt.Errorf("%s: failed after %d attempts: %w", name, attempts, lastErr)
}
