package coincontrol_selector_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vulpemventures/coinselector/internal/core/domain"
	coincontrol_selector "github.com/vulpemventures/coinselector/internal/infrastructure/coin-selector/coin-control"
	"github.com/vulpemventures/coinselector/test/testutil"
)

const (
	feeRate       = 1.0
	dustThreshold = 546
)

func TestSelectUtxos(t *testing.T) {
	coinSelector := coincontrol_selector.NewCoinControlCoinSelector()

	t.Run("spend exactly the given utxos", func(t *testing.T) {
		utxos := testutil.NewUtxos(30000, 100, 40000)
		utxos[2].Freeze()

		res := coinSelector.SelectUtxos(utxos, 50000, feeRate, dustThreshold)

		success := testutil.RequireValidSelection(
			t, res, utxos, 50000, dustThreshold,
		)
		require.Equal(t, []domain.UtxoKey{
			utxos[0].Key(), utxos[1].Key(), utxos[2].Key(),
		}, success.Keys())
		require.Equal(t, uint64(276), success.FeeAmount)
		require.Equal(t, uint64(19824), success.ChangeAmount)
	})

	t.Run("target not covered", func(t *testing.T) {
		utxos := testutil.NewUtxos(40000)

		res := coinSelector.SelectUtxos(utxos, 50000, feeRate, dustThreshold)

		require.Equal(t, &domain.InsufficientFunds{
			Available: 40000,
			Required:  50000,
		}, res)
	})

	t.Run("fees not covered", func(t *testing.T) {
		utxos := testutil.NewUtxos(50050)

		res := coinSelector.SelectUtxos(utxos, 50000, feeRate, dustThreshold)

		require.Equal(t, &domain.InsufficientFunds{
			Available: 50050,
			Required:  50109,
		}, res)
	})

	t.Run("no utxos", func(t *testing.T) {
		res := coinSelector.SelectUtxos(nil, 50000, feeRate, dustThreshold)

		require.Equal(t, &domain.InsufficientFunds{
			Available: 0,
			Required:  50000,
		}, res)
	})
}
