package minimizefee_selector

import (
	"github.com/vulpemventures/coinselector/internal/core/domain"
	"github.com/vulpemventures/coinselector/internal/core/ports"
	"github.com/vulpemventures/coinselector/internal/infrastructure/coin-selector/selectorutil"
	"github.com/vulpemventures/coinselector/pkg/fees"
)

type selector struct{}

func NewMinimizeFeeCoinSelector() ports.CoinSelector {
	return &selector{}
}

// SelectUtxos greedily accumulates the utxos with the highest effective value
// first.
// A candidate that would cover the target leaving a dust change is skipped
// in favor of the next ones, because the leftover would be burnt in fees.
// The first of such selections is kept aside and returned only if no other
// combination covers the target.
func (s *selector) SelectUtxos(
	utxos []*domain.Utxo, targetAmount uint64,
	feeRate float64, dustThreshold uint64,
) domain.SelectionResult {
	candidates := selectorutil.SortByEffectiveValueDesc(
		selectorutil.Spendable(utxos, feeRate), feeRate,
	)

	selected := make([]*domain.Utxo, 0, len(candidates))
	var fallback *domain.SelectionSuccess
	for _, utxo := range candidates {
		next := append(selected[:len(selected):len(selected)], utxo)
		res, ok := selectorutil.NewSelection(
			next, targetAmount, feeRate, dustThreshold,
		)
		if !ok {
			selected = next
			continue
		}
		if !leavesDust(res, feeRate) {
			return res
		}
		if fallback == nil {
			fallback = res
		}
	}

	if fallback != nil {
		return fallback
	}
	return selectorutil.Insufficient(candidates, targetAmount, feeRate)
}

// leavesDust returns whether some dust change has been folded into the fee of
// the given selection.
func leavesDust(res *domain.SelectionSuccess, feeRate float64) bool {
	if res.HasChange() {
		return false
	}
	fee := fees.EstimateFees(
		len(res.Selected), selectorutil.PaymentOnly, feeRate,
	)
	return res.FeeAmount > fee
}
