package ports

import "github.com/vulpemventures/coinselector/internal/core/domain"

// EventPublisher is the abstraction for any kind of sink the engine notifies
// its events to. Publishing is fire-and-forget: implementations must neither
// block the caller nor report delivery failures.
type EventPublisher interface {
	Publish(event domain.Event)
}
