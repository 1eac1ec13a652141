package oldestfirst_selector

import (
	"github.com/vulpemventures/coinselector/internal/core/domain"
	"github.com/vulpemventures/coinselector/internal/core/ports"
	"github.com/vulpemventures/coinselector/internal/infrastructure/coin-selector/selectorutil"
)

type selector struct{}

// NewOldestFirstCoinSelector returns a selector that spends the most confirmed
// utxos first. Utxos with the same number of confirmations keep their input
// order.
func NewOldestFirstCoinSelector() ports.CoinSelector {
	return &selector{}
}

func (s *selector) SelectUtxos(
	utxos []*domain.Utxo, targetAmount uint64,
	feeRate float64, dustThreshold uint64,
) domain.SelectionResult {
	candidates := selectorutil.SortByConfirmationsDesc(
		selectorutil.Spendable(utxos, feeRate),
	)
	if res, ok := selectorutil.Accumulate(
		nil, candidates, targetAmount, feeRate, dustThreshold,
	); ok {
		return res
	}
	return selectorutil.Insufficient(candidates, targetAmount, feeRate)
}
