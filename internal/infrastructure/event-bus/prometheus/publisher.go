package prompublisher

import (
	"bufio"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/vulpemventures/coinselector/internal/core/domain"
)

const (
	namespace = "coinselector"

	outcomeSelected = "selected"
)

var (
	amountBuckets = prometheus.ExponentialBuckets(100, 4, 10)
	inputBuckets  = []float64{1, 2, 3, 4, 5, 6, 8, 10, 20, 50}
)

// EventPublisher is a sink turning the domain events into prometheus metrics.
type EventPublisher struct {
	selections *prometheus.CounterVec
	fees       *prometheus.HistogramVec
	changes    *prometheus.HistogramVec
	inputs     *prometheus.HistogramVec
	utxoEvents *prometheus.CounterVec
}

// NewEventPublisher creates the metrics and registers them on the given
// registerer.
func NewEventPublisher(reg prometheus.Registerer) (*EventPublisher, error) {
	p := &EventPublisher{
		selections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "selections_total",
			Help:      "Number of coin selections by strategy and outcome.",
		}, []string{"strategy", "outcome"}),
		fees: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "selection_fee_sats",
			Help:      "Fee amount of successful selections.",
			Buckets:   amountBuckets,
		}, []string{"strategy"}),
		changes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "selection_change_sats",
			Help:      "Change amount of successful selections.",
			Buckets:   amountBuckets,
		}, []string{"strategy"}),
		inputs: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "selection_inputs",
			Help:      "Number of utxos spent by successful selections.",
			Buckets:   inputBuckets,
		}, []string{"strategy"}),
		utxoEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "utxo_events_total",
			Help:      "Number of utxo set changes by kind.",
		}, []string{"event"}),
	}

	for _, c := range []prometheus.Collector{
		p.selections, p.fees, p.changes, p.inputs, p.utxoEvents,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *EventPublisher) Publish(event domain.Event) {
	switch e := event.(type) {
	case domain.SelectedEvent:
		strategy := e.Strategy.String()
		p.selections.WithLabelValues(strategy, outcomeSelected).Inc()
		p.fees.WithLabelValues(strategy).Observe(float64(e.FeeAmount))
		p.changes.WithLabelValues(strategy).Observe(float64(e.ChangeAmount))
		p.inputs.WithLabelValues(strategy).Observe(float64(len(e.Utxos)))
	case domain.SelectionFailedEvent:
		p.selections.WithLabelValues(
			e.Strategy.String(), string(e.Reason),
		).Inc()
	case domain.FrozenEvent:
		p.utxoEvents.WithLabelValues("frozen").Inc()
	case domain.UnfrozenEvent:
		p.utxoEvents.WithLabelValues("unfrozen").Inc()
	case domain.StatusChangedEvent:
		p.utxoEvents.WithLabelValues(string(e.Status)).Inc()
	}
}

// DumpStats writes the metrics collected by the given gatherer to a new file
// named after the current time within the given directory, and returns its
// path.
func DumpStats(dir string, gatherer prometheus.Gatherer) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, time.Now().Format(time.RFC3339Nano))
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return "", err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	defer writer.Flush()

	metricFamily, err := gatherer.Gather()
	if err != nil {
		return "", err
	}
	for _, v := range metricFamily {
		if _, err := writer.WriteString(v.String() + "\n"); err != nil {
			return "", err
		}
	}

	return path, nil
}
