package outbox

import "context"

// Event is any domain event carrying a name identifier.
type Event interface {
	EventName() string
}

// Handler processes one published event.
type Handler func(ctx context.Context, e Event) error

// Publisher delivers events to interested subscribers.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Subscriber registers handlers by event name.
type Subscriber interface {
	Subscribe(eventName string, h Handler)
}

// Bus is both ends of the pipe, as implemented by the in-memory bus.
type Bus interface {
	Publisher
	Subscriber
}
