package workflow

// Event is a sealed interface representing a streaming event.
// Transport and protocol errors come from Next()'s error return, not from
// events. The unexported marker method prevents external implementations.
type Event interface {
	event()
}

// EventTextDelta represents a chunk of reply text.
type EventTextDelta struct {
	Delta string
}

func (EventTextDelta) event() {}

// Interface compliance check.
var _ Event = EventTextDelta{}
