package privacy_selector_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vulpemventures/coinselector/internal/core/domain"
	privacy_selector "github.com/vulpemventures/coinselector/internal/infrastructure/coin-selector/privacy"
	"github.com/vulpemventures/coinselector/internal/infrastructure/coin-selector/selectorutil"
	"github.com/vulpemventures/coinselector/test/testutil"
)

const (
	feeRate       = 1.0
	dustThreshold = 546
)

func TestMaximizePrivacy(t *testing.T) {
	t.Run("utxos sharing one address", func(t *testing.T) {
		utxos := withAddresses(
			testutil.NewUtxos(60000, 55000), "addrA", "addrA",
		)
		coinSelector := privacy_selector.NewMaximizePrivacyCoinSelector()

		res := coinSelector.SelectUtxos(utxos, 50000, feeRate, dustThreshold)

		success := testutil.RequireValidSelection(
			t, res, utxos, 50000, dustThreshold,
		)
		require.Len(t, success.Selected, 1)
		require.Equal(t, "addrA", success.Selected[0].Address)
	})

	t.Run("single address covering the target", func(t *testing.T) {
		utxos := withAddresses(
			testutil.NewUtxos(60000, 55000, 40000, 30000),
			"addrA", "addrA", "addrB", "addrC",
		)
		coinSelector := privacy_selector.NewMaximizePrivacyCoinSelector()

		res := coinSelector.SelectUtxos(utxos, 50000, feeRate, dustThreshold)

		success := testutil.RequireValidSelection(
			t, res, utxos, 50000, dustThreshold,
		)
		require.Equal(t, []domain.UtxoKey{utxos[0].Key()}, success.Keys())
		require.Equal(t, 1, selectorutil.CountAddresses(success.Selected))
	})

	t.Run("fill remainder from already linked addresses", func(t *testing.T) {
		utxos := withAddresses(
			testutil.NewUtxos(30000, 12000, 9500, 9000),
			"addrA", "addrA", "addrB", "addrA",
		)
		coinSelector := privacy_selector.NewMaximizePrivacyCoinSelector()

		res := coinSelector.SelectUtxos(utxos, 50000, feeRate, dustThreshold)

		success := testutil.RequireValidSelection(
			t, res, utxos, 50000, dustThreshold,
		)
		require.Equal(t, []domain.UtxoKey{
			utxos[0].Key(), utxos[1].Key(), utxos[3].Key(),
		}, success.Keys())
		require.Equal(t, uint64(724), success.ChangeAmount)
		require.Equal(t, 1, selectorutil.CountAddresses(success.Selected))
	})

	t.Run("insufficient funds", func(t *testing.T) {
		utxos := testutil.NewUtxos(10000)
		coinSelector := privacy_selector.NewMaximizePrivacyCoinSelector()

		res := coinSelector.SelectUtxos(utxos, 50000, feeRate, dustThreshold)

		require.Equal(t, &domain.InsufficientFunds{
			Available: 10000,
			Required:  50109,
		}, res)
	})
}

func TestPrivacyFocused(t *testing.T) {
	t.Run("prefer received outputs", func(t *testing.T) {
		utxos := testutil.NewUtxos(55000, 60000, 25000)
		utxos[1].IsChange = true
		utxos[2].IsChange = true

		focused := privacy_selector.NewPrivacyFocusedCoinSelector()
		res := focused.SelectUtxos(utxos, 50000, feeRate, dustThreshold)
		success := testutil.RequireValidSelection(
			t, res, utxos, 50000, dustThreshold,
		)
		require.Equal(t, []domain.UtxoKey{utxos[0].Key()}, success.Keys())

		maximize := privacy_selector.NewMaximizePrivacyCoinSelector()
		res = maximize.SelectUtxos(utxos, 50000, feeRate, dustThreshold)
		success = testutil.RequireValidSelection(
			t, res, utxos, 50000, dustThreshold,
		)
		require.Equal(t, []domain.UtxoKey{utxos[1].Key()}, success.Keys())
	})

	t.Run("change-only pool", func(t *testing.T) {
		utxos := testutil.NewUtxos(30000, 60000)
		utxos[1].IsChange = true

		focused := privacy_selector.NewPrivacyFocusedCoinSelector()
		res := focused.SelectUtxos(utxos, 50000, feeRate, dustThreshold)

		success := testutil.RequireValidSelection(
			t, res, utxos, 50000, dustThreshold,
		)
		require.Equal(t, []domain.UtxoKey{utxos[1].Key()}, success.Keys())
	})

	t.Run("mix pools as last resort", func(t *testing.T) {
		utxos := testutil.NewUtxos(30000, 25000)
		utxos[1].IsChange = true

		focused := privacy_selector.NewPrivacyFocusedCoinSelector()
		res := focused.SelectUtxos(utxos, 50000, feeRate, dustThreshold)

		success := testutil.RequireValidSelection(
			t, res, utxos, 50000, dustThreshold,
		)
		require.Len(t, success.Selected, 2)
		require.Equal(t, uint64(4792), success.ChangeAmount)
	})
}

func withAddresses(utxos []*domain.Utxo, addresses ...string) []*domain.Utxo {
	for i, addr := range addresses {
		utxos[i].Address = addr
	}
	return utxos
}
