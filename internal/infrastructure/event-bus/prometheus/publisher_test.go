package prompublisher_test

import (
	"os"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"github.com/vulpemventures/coinselector/internal/core/domain"
	prompublisher "github.com/vulpemventures/coinselector/internal/infrastructure/event-bus/prometheus"
	"github.com/vulpemventures/coinselector/test/testutil"
)

func TestEventPublisher(t *testing.T) {
	registry := prometheus.NewRegistry()
	publisher, err := prompublisher.NewEventPublisher(registry)
	require.NoError(t, err)

	utxos := testutil.NewUtxos(1000, 2000)
	publisher.Publish(domain.SelectedEvent{
		Utxos:        []domain.Utxo{*utxos[0], *utxos[1]},
		Strategy:     domain.StrategyConsolidate,
		TargetAmount: 2000,
		FeeAmount:    208,
		ChangeAmount: 792,
	})
	publisher.Publish(domain.SelectionFailedEvent{
		Reason:   domain.FailureInsufficientFunds,
		Strategy: domain.StrategyConsolidate,
	})
	publisher.Publish(domain.FrozenEvent{Outpoint: utxos[0].Key()})
	publisher.Publish(domain.StatusChangedEvent{
		Outpoint: utxos[0].Key(), Status: domain.UtxoStatusAdded,
	})
	publisher.Publish(domain.StatusChangedEvent{
		Outpoint: utxos[1].Key(), Status: domain.UtxoStatusAdded,
	})

	families, err := registry.Gather()
	require.NoError(t, err)

	counters := make(map[string]float64)
	for _, f := range families {
		for _, m := range f.GetMetric() {
			if m.GetCounter() == nil {
				continue
			}
			name := f.GetName()
			for _, l := range m.GetLabel() {
				name += "," + l.GetValue()
			}
			counters[name] = m.GetCounter().GetValue()
		}
	}
	require.Equal(t, map[string]float64{
		"coinselector_selections_total,selected,consolidate":           1,
		"coinselector_selections_total,insufficient_funds,consolidate": 1,
		"coinselector_utxo_events_total,frozen":                        1,
		"coinselector_utxo_events_total,added":                         2,
	}, counters)

	t.Run("register twice", func(t *testing.T) {
		_, err := prompublisher.NewEventPublisher(registry)
		require.Error(t, err)
	})

	t.Run("dump stats", func(t *testing.T) {
		path, err := prompublisher.DumpStats(t.TempDir(), registry)
		require.NoError(t, err)

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		require.Contains(t, string(content), "coinselector_selection_fee_sats")
	})
}
