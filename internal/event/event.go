package event

import "time"

// Event is one notification. Payload is topic specific.
type Event struct {
	// Topic is the hierarchical event type.
	Topic Topic

	// Source identifies what the event is about, such as an instance id.
	Source string

	// Time is when the event happened, on the publisher's clock.
	Time time.Time

	// Payload carries the event data.
	Payload any
}

// Handler receives events.
type Handler func(Event)
