package application

import (
	"github.com/vulpemventures/coinselector/internal/core/domain"
	"github.com/vulpemventures/coinselector/internal/core/ports"
)

type eventPublishers []ports.EventPublisher

// NewEventPublishers returns a publisher that forwards every event to all the
// given ones, in order. Nil publishers are skipped. With no publishers at all,
// events are simply dropped.
func NewEventPublishers(
	publishers ...ports.EventPublisher,
) ports.EventPublisher {
	list := make(eventPublishers, 0, len(publishers))
	for _, p := range publishers {
		if p != nil {
			list = append(list, p)
		}
	}
	return list
}

func (p eventPublishers) Publish(event domain.Event) {
	for _, publisher := range p {
		publisher.Publish(event)
	}
}
