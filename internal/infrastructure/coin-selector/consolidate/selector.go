package consolidate_selector

import (
	"github.com/vulpemventures/coinselector/internal/core/domain"
	"github.com/vulpemventures/coinselector/internal/core/ports"
	"github.com/vulpemventures/coinselector/internal/infrastructure/coin-selector/selectorutil"
)

const (
	DefaultMaxSmallInputs = 50
)

type selector struct {
	maxSmallInputs int
}

// NewConsolidateCoinSelector returns a selector that takes the chance of a
// payment to sweep small utxos. At most maxSmallInputs utxos are absorbed in
// the first phase. A non-positive value defaults to DefaultMaxSmallInputs.
func NewConsolidateCoinSelector(maxSmallInputs int) ports.CoinSelector {
	if maxSmallInputs <= 0 {
		maxSmallInputs = DefaultMaxSmallInputs
	}
	return &selector{maxSmallInputs}
}

// SelectUtxos accumulates the utxos worth less than the target amount by
// ascending value first. If the target is still not covered, it switches to
// descending value among the remaining ones to finish the selection without
// sweeping every small utxo.
func (s *selector) SelectUtxos(
	utxos []*domain.Utxo, targetAmount uint64,
	feeRate float64, dustThreshold uint64,
) domain.SelectionResult {
	candidates := selectorutil.Spendable(utxos, feeRate)

	small := make([]*domain.Utxo, 0, len(candidates))
	for _, u := range selectorutil.SortByValueAsc(candidates) {
		if u.Value >= targetAmount || len(small) >= s.maxSmallInputs {
			break
		}
		small = append(small, u)
	}

	selected := make([]*domain.Utxo, 0, len(small))
	for _, u := range small {
		selected = append(selected, u)
		if res, ok := selectorutil.NewSelection(
			selected, targetAmount, feeRate, dustThreshold,
		); ok {
			return res
		}
	}

	rest := selectorutil.SortByValueDesc(
		selectorutil.Exclude(candidates, selected),
	)
	if res, ok := selectorutil.Accumulate(
		selected, rest, targetAmount, feeRate, dustThreshold,
	); ok {
		return res
	}
	return selectorutil.Insufficient(candidates, targetAmount, feeRate)
}
