package types

import (
	"time"

	"github.com/google/uuid"
)

type EventKind string

const (
	EventKindEarnings EventKind = "earnings"
	EventKindSplit    EventKind = "split"
	EventKindDividend EventKind = "dividend"
)

// CorporateEvent is a raw event as reported by the events collaborator,
// before it is snapped onto a trading-day timestamp.
type CorporateEvent struct {
	Date  time.Time `json:"date"`
	Label string    `json:"label"`
	Kind  EventKind `json:"kind"`
}

// EventAnnotation marks a point on a PriceSeries' timeline. It is purely
// presentational and never affects indicator math.
type EventAnnotation struct {
	ID    string    `json:"id"`
	Time  time.Time `json:"time"`
	Label string    `json:"label"`
	Kind  EventKind `json:"kind"`
}

// NewEventAnnotation creates an annotation with a fresh id.
func NewEventAnnotation(t time.Time, label string, kind EventKind) EventAnnotation {
	return EventAnnotation{
		ID:    uuid.New().String(),
		Time:  t,
		Label: label,
		Kind:  kind,
	}
}
