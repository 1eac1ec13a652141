package application_test

import (
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vulpemventures/coinselector/internal/core/application"
	"github.com/vulpemventures/coinselector/internal/core/domain"
	"github.com/vulpemventures/coinselector/test/testutil"
)

const (
	feeRate       = 1.0
	dustThreshold = 546
)

var selectorOpts = application.SelectorOptions{DustThreshold: dustThreshold}

func TestSelector(t *testing.T) {
	t.Run("consolidate small utxos", func(t *testing.T) {
		publisher := testutil.NewRecordingPublisher()
		selector := application.NewSelector(selectorOpts, publisher)
		utxos := testutil.NewUtxos(40000, 50000)

		res, err := selector.Select(utxos, 70000, domain.StrategyConsolidate, feeRate)
		require.NoError(t, err)

		success := testutil.RequireValidSelection(t, res, utxos, 70000, dustThreshold)
		require.Len(t, success.Selected, 2)

		events := publisher.EventsOfType(domain.UtxosSelected)
		require.Len(t, events, 1)
		event := events[0].(domain.SelectedEvent)
		require.Equal(t, domain.StrategyConsolidate, event.Strategy)
		require.Equal(t, uint64(70000), event.TargetAmount)
		require.Equal(t, success.FeeAmount, event.FeeAmount)
		require.Equal(t, success.ChangeAmount, event.ChangeAmount)
		require.Len(t, event.Utxos, 2)
	})

	t.Run("minimize change with a single utxo", func(t *testing.T) {
		selector := application.NewSelector(selectorOpts, nil)
		utxos := testutil.NewUtxos(100000)

		res, err := selector.Select(utxos, 50000, domain.StrategyMinimizeChange, feeRate)
		require.NoError(t, err)

		success := testutil.RequireValidSelection(t, res, utxos, 50000, dustThreshold)
		require.Len(t, success.Selected, 1)
		require.Equal(t, 100000-50000-success.FeeAmount, success.ChangeAmount)
	})

	t.Run("maximize privacy", func(t *testing.T) {
		selector := application.NewSelector(selectorOpts, nil)
		utxos := testutil.NewUtxos(60000, 55000)
		utxos[0].Address = "addrA"
		utxos[1].Address = "addrA"

		res, err := selector.Select(utxos, 50000, domain.StrategyMaximizePrivacy, feeRate)
		require.NoError(t, err)

		success := testutil.RequireValidSelection(t, res, utxos, 50000, dustThreshold)
		require.Len(t, success.Selected, 1)
	})

	t.Run("fast fail with frozen utxos", func(t *testing.T) {
		utxos := testutil.NewUtxos(40000, 50000)
		for _, u := range utxos {
			u.Freeze()
		}
		expected := &domain.InsufficientFunds{Available: 0, Required: 10000}

		for _, strategy := range domain.SelectionStrategies() {
			if strategy == domain.StrategyCoinControl {
				continue
			}
			publisher := &testutil.MockEventPublisher{}
			publisher.On("Publish", domain.SelectionFailedEvent{
				Reason:    domain.FailureInsufficientFunds,
				Strategy:  strategy,
				Available: 0,
				Required:  10000,
			}).Return()
			selector := application.NewSelector(selectorOpts, publisher)

			res, err := selector.Select(utxos, 10000, strategy, feeRate)
			require.NoError(t, err)
			require.Equal(t, expected, res)
			publisher.AssertExpectations(t)
		}
	})

	t.Run("frozen utxos are never selected", func(t *testing.T) {
		selector := application.NewSelector(selectorOpts, nil)
		utxos := testutil.NewUtxos(100000, 60000, 30000)
		utxos[0].Freeze()

		res, err := selector.Select(utxos, 50000, domain.StrategyMinimizeFee, feeRate)
		require.NoError(t, err)

		success := testutil.RequireValidSelection(t, res, utxos, 50000, dustThreshold)
		for _, u := range success.Selected {
			require.False(t, u.IsFrozen())
		}
	})

	t.Run("coin control requires outpoints", func(t *testing.T) {
		publisher := &testutil.MockEventPublisher{}
		publisher.On("Publish", mock.MatchedBy(func(e domain.SelectionFailedEvent) bool {
			return e.Reason == domain.FailureMissingOutpoints &&
				e.Strategy == domain.StrategyCoinControl
		})).Return()
		selector := application.NewSelector(selectorOpts, publisher)
		utxos := testutil.NewUtxos(100000)

		res, err := selector.Select(utxos, 50000, domain.StrategyCoinControl, feeRate)
		require.NoError(t, err)
		require.Equal(t, &domain.InsufficientFunds{Available: 0, Required: 50000}, res)
		publisher.AssertExpectations(t)
	})

	t.Run("coin control", func(t *testing.T) {
		selector := application.NewSelector(selectorOpts, nil)
		utxos := testutil.NewUtxos(40000)

		res, err := selector.SelectCoinControl(utxos, 50000, feeRate)
		require.NoError(t, err)
		require.Equal(t, &domain.InsufficientFunds{Available: 40000, Required: 50000}, res)

		utxos[0].Freeze()
		res, err = selector.SelectCoinControl(utxos, 30000, feeRate)
		require.NoError(t, err)
		testutil.RequireValidSelection(t, res, utxos, 30000, dustThreshold)
	})

	t.Run("invalid arguments", func(t *testing.T) {
		publisher := &testutil.MockEventPublisher{}
		selector := application.NewSelector(selectorOpts, publisher)
		utxos := testutil.NewUtxos(100000)

		res, err := selector.Select(utxos, 50000, domain.SelectionStrategy(42), feeRate)
		require.ErrorIs(t, err, domain.ErrUnknownStrategy)
		require.Nil(t, res)

		for _, rate := range []float64{0, -1} {
			res, err = selector.Select(utxos, 50000, domain.StrategyMinimizeFee, rate)
			require.ErrorIs(t, err, application.ErrInvalidFeeRate)
			require.Nil(t, res)
		}

		publisher.AssertNotCalled(t, "Publish", mock.Anything)
	})
}

func TestSelectorInvariants(t *testing.T) {
	utxos := testutil.RandomUtxos(60, 1000, 200000)
	for i, u := range utxos {
		if i%7 == 0 {
			u.Freeze()
		}
	}
	selectable := make([]*domain.Utxo, 0, len(utxos))
	for _, u := range utxos {
		if !u.IsFrozen() {
			selectable = append(selectable, u)
		}
	}
	targetAmount := domain.TotalValue(selectable) / 4

	for _, strategy := range domain.SelectionStrategies() {
		if strategy == domain.StrategyCoinControl {
			continue
		}
		strategy := strategy
		t.Run(strategy.String(), func(t *testing.T) {
			publisher := testutil.NewRecordingPublisher()
			selector := application.NewSelector(selectorOpts, publisher)

			res, err := selector.Select(utxos, targetAmount, strategy, 3.5)
			require.NoError(t, err)

			// Change can't always be avoided.
			if _, ok := res.(*domain.InsufficientFunds); ok {
				require.Equal(t, domain.StrategyAvoidChange, strategy)
				require.Len(t, publisher.EventsOfType(domain.SelectionFailed), 1)
				return
			}

			success := testutil.RequireValidSelection(
				t, res, selectable, targetAmount, dustThreshold,
			)
			for _, u := range success.Selected {
				require.False(t, u.IsFrozen())
			}
			require.Len(t, publisher.EventsOfType(domain.UtxosSelected), 1)
		})
	}
}
