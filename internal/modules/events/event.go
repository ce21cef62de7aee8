package events

import (
	"context"
	"time"
)

const (
	TypeFeedbackSubmitted = "feedback.submitted"
	TypeFeedbackModerated = "feedback.moderated"
	TypeContactReceived   = "contact.received"
)

type Event struct {
	Type string    `json:"type"`
	Data any       `json:"data"`
	At   time.Time `json:"at"`
}

func New(eventType string, data any) Event {
	return Event{Type: eventType, Data: data, At: time.Now().UTC()}
}

// Notifier fans an event out to whoever is listening.
type Notifier interface {
	Publish(ctx context.Context, ev Event) error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
