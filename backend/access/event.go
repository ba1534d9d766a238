// Package access describes served requests and fans them out to whoever
// wants to know about them (the live feed, the Postgres log).
package access

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event is one served request.
type Event struct {
	ID       uuid.UUID     `json:"id"`
	Time     time.Time     `json:"time"`
	Method   string        `json:"method"`
	Path     string        `json:"path"`
	Status   int           `json:"status"`
	Bytes    int64         `json:"bytes"`
	Duration time.Duration `json:"duration_ns"`
	Remote   string        `json:"remote,omitempty"`
}

// StatusClass returns "2xx", "4xx" and so on.
func (e Event) StatusClass() string {
	return StatusClass(e.Status)
}

func StatusClass(status int) string {
	return fmt.Sprintf("%dxx", status/100)
}

// ValidClass reports whether s is one of the status classes a listener can
// filter on.
func ValidClass(s string) bool {
	switch s {
	case "1xx", "2xx", "3xx", "4xx", "5xx":
		return true
	}
	return false
}

// Recorder consumes events. Implementations must be safe for concurrent use.
type Recorder interface {
	Record(ctx context.Context, ev Event)
}

type RecorderFunc func(ctx context.Context, ev Event)

func (f RecorderFunc) Record(ctx context.Context, ev Event) { f(ctx, ev) }

// Multi hands each event to every recorder in order.
type Multi []Recorder

func (m Multi) Record(ctx context.Context, ev Event) {
	for _, r := range m {
		r.Record(ctx, ev)
	}
}
