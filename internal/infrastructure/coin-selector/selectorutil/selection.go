// Package selectorutil contains the helpers shared by every coin selection
// strategy: valuation of the utxos, ordering and grouping, and the builder of
// the selection results that enforces the balance and dust rules.
package selectorutil

import (
	"math"

	"github.com/vulpemventures/coinselector/internal/core/domain"
	"github.com/vulpemventures/coinselector/pkg/fees"
)

const (
	// PaymentOnly is the number of outputs of a transaction without change.
	PaymentOnly = 1
	// PaymentWithChange is the number of outputs of a transaction with change.
	PaymentWithChange = 2
)

// EffectiveValue returns the value of the utxo net of the fee required to
// spend it. The result is negative for utxos that cost more than they are
// worth at the given fee rate.
func EffectiveValue(utxo *domain.Utxo, feeRate float64) int64 {
	return int64(utxo.Value) - int64(fees.InputFee(feeRate))
}

// WasteRatio returns the ratio between the fee required to spend the utxo and
// its value. Zero-value utxos have an infinite ratio.
func WasteRatio(utxo *domain.Utxo, feeRate float64) float64 {
	if utxo.Value == 0 {
		return math.Inf(1)
	}
	return float64(fees.InputFee(feeRate)) / float64(utxo.Value)
}

// IsChangeNeeded returns whether the given change is worth a dedicated output.
func IsChangeNeeded(change, dustThreshold uint64) bool {
	return change != 0 && change > dustThreshold
}

// NewSelection returns the selection made of the given utxos if they cover
// the target amount plus fees.
// The fee is estimated for a transaction with a change output first. If the
// resulting change would be dust, the change output is dropped, the fee is
// re-estimated with one output only and the leftover is added to it.
// In any case, the sum of the utxos equals target + fee + change.
func NewSelection(
	utxos []*domain.Utxo, targetAmount uint64,
	feeRate float64, dustThreshold uint64,
) (*domain.SelectionSuccess, bool) {
	if len(utxos) == 0 {
		return nil, false
	}

	total := domain.TotalValue(utxos)
	numInputs := len(utxos)
	selected := make([]*domain.Utxo, len(utxos))
	copy(selected, utxos)

	feeWithChange := fees.EstimateFees(numInputs, PaymentWithChange, feeRate)
	change, ok := domain.SubAmount(total, targetAmount+feeWithChange)
	if ok && IsChangeNeeded(change, dustThreshold) {
		return &domain.SelectionSuccess{
			Selected:     selected,
			FeeAmount:    feeWithChange,
			ChangeAmount: change,
		}, true
	}

	fee := fees.EstimateFees(numInputs, PaymentOnly, feeRate)
	excess, ok := domain.SubAmount(total, targetAmount+fee)
	if !ok {
		return nil, false
	}
	return &domain.SelectionSuccess{
		Selected:     selected,
		FeeAmount:    fee + excess,
		ChangeAmount: 0,
	}, true
}

// Covers returns whether the given amount and number of inputs are enough to
// pay for target plus the fee of a transaction without change.
func Covers(
	amount uint64, numInputs int, targetAmount uint64, feeRate float64,
) bool {
	fee := fees.EstimateFees(numInputs, PaymentOnly, feeRate)
	_, ok := domain.SubAmount(amount, targetAmount+fee)
	return ok
}

// Accumulate adds the candidates, in the given order, to the initial
// selection until target plus fees are covered.
func Accumulate(
	initial, candidates []*domain.Utxo, targetAmount uint64,
	feeRate float64, dustThreshold uint64,
) (*domain.SelectionSuccess, bool) {
	selected := make([]*domain.Utxo, 0, len(initial)+len(candidates))
	selected = append(selected, initial...)
	if res, ok := NewSelection(
		selected, targetAmount, feeRate, dustThreshold,
	); ok {
		return res, true
	}

	for _, u := range candidates {
		selected = append(selected, u)
		if res, ok := NewSelection(
			selected, targetAmount, feeRate, dustThreshold,
		); ok {
			return res, true
		}
	}
	return nil, false
}

// Insufficient returns the InsufficientFunds result for the given candidates.
// The required amount includes the fee for spending all of them when there is
// at least one.
func Insufficient(
	candidates []*domain.Utxo, targetAmount uint64, feeRate float64,
) *domain.InsufficientFunds {
	required := targetAmount
	if len(candidates) > 0 {
		required += fees.EstimateFees(len(candidates), PaymentOnly, feeRate)
	}
	return &domain.InsufficientFunds{
		Available: domain.TotalValue(candidates),
		Required:  required,
	}
}
