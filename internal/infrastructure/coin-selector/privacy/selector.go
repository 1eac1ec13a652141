package privacy_selector

import (
	"github.com/vulpemventures/coinselector/internal/core/domain"
	"github.com/vulpemventures/coinselector/internal/core/ports"
	"github.com/vulpemventures/coinselector/internal/infrastructure/coin-selector/selectorutil"
)

const (
	// significantShareDivisor makes a utxo worth at least 1/5 (20%) of the
	// target amount preferred as representative of its address.
	significantShareDivisor = 5
)

type maximizePrivacySelector struct{}

// NewMaximizePrivacyCoinSelector returns a selector that minimizes the number
// of distinct addresses linked together by the inputs of a transaction.
func NewMaximizePrivacyCoinSelector() ports.CoinSelector {
	return &maximizePrivacySelector{}
}

func (s *maximizePrivacySelector) SelectUtxos(
	utxos []*domain.Utxo, targetAmount uint64,
	feeRate float64, dustThreshold uint64,
) domain.SelectionResult {
	candidates := selectorutil.Spendable(utxos, feeRate)
	if res, ok := selectMaximizePrivacy(
		candidates, targetAmount, feeRate, dustThreshold,
	); ok {
		return res
	}
	return selectorutil.Insufficient(candidates, targetAmount, feeRate)
}

type privacyFocusedSelector struct{}

// NewPrivacyFocusedCoinSelector returns a stricter variant of the maximize
// privacy selector that, before anything else, tries not to mix received
// outputs with the wallet's change ones.
func NewPrivacyFocusedCoinSelector() ports.CoinSelector {
	return &privacyFocusedSelector{}
}

func (s *privacyFocusedSelector) SelectUtxos(
	utxos []*domain.Utxo, targetAmount uint64,
	feeRate float64, dustThreshold uint64,
) domain.SelectionResult {
	candidates := selectorutil.Spendable(utxos, feeRate)

	received, change := splitByChange(candidates)
	for _, pool := range [][]*domain.Utxo{received, change, candidates} {
		if len(pool) == 0 {
			continue
		}
		if res, ok := selectMaximizePrivacy(
			pool, targetAmount, feeRate, dustThreshold,
		); ok {
			return res
		}
	}
	return selectorutil.Insufficient(candidates, targetAmount, feeRate)
}

// selectMaximizePrivacy selects the utxos in two passes.
// The first one takes at most one utxo per address, the one with the highest
// effective value, among those worth at least 20% of the target amount.
// If the target is not yet covered, the second one fills the remainder with
// the leftover utxos, preferring those locked by addresses already linked to
// the selection, each group sorted by descending effective value.
func selectMaximizePrivacy(
	candidates []*domain.Utxo, targetAmount uint64,
	feeRate float64, dustThreshold uint64,
) (*domain.SelectionSuccess, bool) {
	groups := selectorutil.GroupByAddress(candidates)
	minValue := targetAmount / significantShareDivisor

	representatives := make([]*domain.Utxo, 0, len(groups))
	for _, g := range groups {
		rep := selectorutil.SortByEffectiveValueDesc(g.Utxos, feeRate)[0]
		if rep.Value >= minValue {
			representatives = append(representatives, rep)
		}
	}
	representatives = selectorutil.SortByEffectiveValueDesc(
		representatives, feeRate,
	)

	if res, ok := selectorutil.Accumulate(
		nil, representatives, targetAmount, feeRate, dustThreshold,
	); ok {
		return res, true
	}

	leftovers := selectorutil.SortByEffectiveValueDesc(
		selectorutil.Exclude(candidates, representatives), feeRate,
	)
	linked := make(map[string]struct{})
	for _, u := range representatives {
		linked[u.Address] = struct{}{}
	}
	sameAddress := make([]*domain.Utxo, 0, len(leftovers))
	otherAddress := make([]*domain.Utxo, 0, len(leftovers))
	for _, u := range leftovers {
		if _, ok := linked[u.Address]; ok && u.Address != "" {
			sameAddress = append(sameAddress, u)
			continue
		}
		otherAddress = append(otherAddress, u)
	}

	return selectorutil.Accumulate(
		representatives, append(sameAddress, otherAddress...),
		targetAmount, feeRate, dustThreshold,
	)
}

func splitByChange(utxos []*domain.Utxo) (received, change []*domain.Utxo) {
	received = make([]*domain.Utxo, 0, len(utxos))
	change = make([]*domain.Utxo, 0, len(utxos))
	for _, u := range utxos {
		if u.IsChange {
			change = append(change, u)
			continue
		}
		received = append(received, u)
	}
	return
}
