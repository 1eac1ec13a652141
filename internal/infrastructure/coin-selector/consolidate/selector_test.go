package consolidate_selector_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vulpemventures/coinselector/internal/core/domain"
	consolidate_selector "github.com/vulpemventures/coinselector/internal/infrastructure/coin-selector/consolidate"
	"github.com/vulpemventures/coinselector/test/testutil"
)

const (
	feeRate       = 1.0
	dustThreshold = 546
)

func TestSelectUtxos(t *testing.T) {
	t.Run("sweep small utxos", func(t *testing.T) {
		utxos := testutil.NewUtxos(40000, 50000)
		coinSelector := consolidate_selector.NewConsolidateCoinSelector(0)

		res := coinSelector.SelectUtxos(utxos, 70000, feeRate, dustThreshold)

		success := testutil.RequireValidSelection(
			t, res, utxos, 70000, dustThreshold,
		)
		require.Len(t, success.Selected, 2)
		require.Greater(t, success.FeeAmount, uint64(0))
	})

	t.Run("smallest first", func(t *testing.T) {
		utxos := testutil.NewUtxos(20000, 5000, 10000, 30000, 100000)
		coinSelector := consolidate_selector.NewConsolidateCoinSelector(0)

		res := coinSelector.SelectUtxos(utxos, 40000, feeRate, dustThreshold)

		success := testutil.RequireValidSelection(
			t, res, utxos, 40000, dustThreshold,
		)
		require.Equal(t, []domain.UtxoKey{
			utxos[1].Key(), utxos[2].Key(), utxos[0].Key(), utxos[3].Key(),
		}, success.Keys())
	})

	t.Run("switch to descending order", func(t *testing.T) {
		utxos := testutil.NewUtxos(3000, 2000, 1000, 60000, 80000)
		coinSelector := consolidate_selector.NewConsolidateCoinSelector(2)

		res := coinSelector.SelectUtxos(utxos, 50000, feeRate, dustThreshold)

		success := testutil.RequireValidSelection(
			t, res, utxos, 50000, dustThreshold,
		)
		require.Equal(t, []domain.UtxoKey{
			utxos[2].Key(), utxos[1].Key(), utxos[4].Key(),
		}, success.Keys())
	})

	t.Run("insufficient funds", func(t *testing.T) {
		utxos := testutil.NewUtxos(10000, 20000)
		coinSelector := consolidate_selector.NewConsolidateCoinSelector(0)

		res := coinSelector.SelectUtxos(utxos, 50000, feeRate, dustThreshold)

		require.Equal(t, &domain.InsufficientFunds{
			Available: 30000,
			Required:  50177,
		}, res)
	})
}
