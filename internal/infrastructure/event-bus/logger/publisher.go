package logger

import (
	log "github.com/sirupsen/logrus"
	"github.com/vulpemventures/coinselector/internal/core/domain"
	"github.com/vulpemventures/coinselector/internal/core/ports"
)

type eventLogger struct {
	logger log.FieldLogger
}

// NewEventPublisher returns a sink that logs every event at debug level with
// structured fields. A nil logger means the standard logrus one.
func NewEventPublisher(logger log.FieldLogger) ports.EventPublisher {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &eventLogger{logger}
}

func (l *eventLogger) Publish(event domain.Event) {
	l.logger.WithFields(eventFields(event)).Debug("event published")
}

func eventFields(event domain.Event) log.Fields {
	fields := log.Fields{"type": event.Type().String()}
	switch e := event.(type) {
	case domain.SelectedEvent:
		outpoints := make([]string, 0, len(e.Utxos))
		for _, u := range e.Utxos {
			outpoints = append(outpoints, u.Key().String())
		}
		fields["strategy"] = e.Strategy.String()
		fields["utxos"] = outpoints
		fields["target"] = e.TargetAmount
		fields["fee"] = e.FeeAmount
		fields["change"] = e.ChangeAmount
	case domain.SelectionFailedEvent:
		fields["strategy"] = e.Strategy.String()
		fields["reason"] = string(e.Reason)
		fields["available"] = e.Available
		fields["required"] = e.Required
	case domain.FrozenEvent:
		fields["outpoint"] = e.Outpoint.String()
	case domain.UnfrozenEvent:
		fields["outpoint"] = e.Outpoint.String()
	case domain.StatusChangedEvent:
		fields["outpoint"] = e.Outpoint.String()
		fields["status"] = string(e.Status)
	}
	return fields
}
