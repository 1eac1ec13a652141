package inmemory

import (
	"sync"

	"github.com/vulpemventures/coinselector/internal/core/domain"
)

const (
	DefaultBufferSize = 100
)

type EventHandler func(event domain.Event)

// EventPublisher dispatches every published event to the handlers registered
// for its type, each one in its own goroutine, and to a buffered channel for
// external subscribers. Events are dropped when the channel is full, so that
// publishing never blocks.
type EventPublisher struct {
	handlers *handlerMap
	chEvents chan domain.Event
	closed   bool
	lock     *sync.RWMutex
}

func NewEventPublisher(bufferSize int) *EventPublisher {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &EventPublisher{
		handlers: newHandlerMap(),
		chEvents: make(chan domain.Event, bufferSize),
		lock:     &sync.RWMutex{},
	}
}

func (p *EventPublisher) RegisterHandler(
	eventType domain.EventType, handler EventHandler,
) {
	p.handlers.set(eventType, handler)
}

// Events returns the channel external subscribers can listen on. It's closed
// by Close.
func (p *EventPublisher) Events() <-chan domain.Event {
	return p.chEvents
}

func (p *EventPublisher) Publish(event domain.Event) {
	p.lock.RLock()
	defer p.lock.RUnlock()

	if p.closed {
		return
	}

	for _, handler := range p.handlers.get(event.Type()) {
		go handler(event)
	}

	// send over channel without blocking in case nobody is listening.
	select {
	case p.chEvents <- event:
	default:
	}
}

// Close makes any further Publish a no-op.
func (p *EventPublisher) Close() {
	p.lock.Lock()
	defer p.lock.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	close(p.chEvents)
}

// handlerMap is a util type to prevent race conditions when registering
// or retrieving handlers for events.
type handlerMap struct {
	handlersByEventType map[domain.EventType][]EventHandler
	lock                *sync.RWMutex
}

func newHandlerMap() *handlerMap {
	return &handlerMap{
		handlersByEventType: make(map[domain.EventType][]EventHandler),
		lock:                &sync.RWMutex{},
	}
}

func (m *handlerMap) set(key domain.EventType, val EventHandler) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.handlersByEventType[key] = append(m.handlersByEventType[key], val)
}

func (m *handlerMap) get(key domain.EventType) []EventHandler {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.handlersByEventType[key]
}
