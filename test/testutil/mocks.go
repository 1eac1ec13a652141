package testutil

import (
	"sync"

	"github.com/stretchr/testify/mock"
	"github.com/vulpemventures/coinselector/internal/core/domain"
)

// MockEventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event domain.Event) {
	m.Called(event)
}

// RecordingPublisher keeps track of every published event.
type RecordingPublisher struct {
	events []domain.Event
	lock   *sync.Mutex
}

func NewRecordingPublisher() *RecordingPublisher {
	return &RecordingPublisher{lock: &sync.Mutex{}}
}

func (p *RecordingPublisher) Publish(event domain.Event) {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.events = append(p.events, event)
}

func (p *RecordingPublisher) Events() []domain.Event {
	p.lock.Lock()
	defer p.lock.Unlock()

	events := make([]domain.Event, len(p.events))
	copy(events, p.events)
	return events
}

// EventsOfType returns the recorded events of the given type, in order.
func (p *RecordingPublisher) EventsOfType(eventType domain.EventType) []domain.Event {
	list := make([]domain.Event, 0)
	for _, e := range p.Events() {
		if e.Type() == eventType {
			list = append(list, e)
		}
	}
	return list
}
