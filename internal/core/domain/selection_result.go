package domain

import (
	"fmt"
)

var (
	ErrInsufficientFunds = fmt.Errorf("insufficient funds")
)

// SelectionResult is the outcome of a coin selection. It is either a
// *SelectionSuccess or an *InsufficientFunds.
type SelectionResult interface {
	isSelectionResult()
}

// SelectionSuccess holds the selected utxos, in selection order, together
// with the fee and change amounts. The sum of the selected utxos' values is
// always equal to target + FeeAmount + ChangeAmount.
type SelectionSuccess struct {
	Selected     []*Utxo
	FeeAmount    uint64
	ChangeAmount uint64
}

func (*SelectionSuccess) isSelectionResult() {}

// TotalValue returns the sum of the selected utxos' values.
func (r *SelectionSuccess) TotalValue() uint64 {
	return TotalValue(r.Selected)
}

// TargetAmount returns the amount covered by the selection, net of fee and
// change.
func (r *SelectionSuccess) TargetAmount() uint64 {
	return r.TotalValue() - r.FeeAmount - r.ChangeAmount
}

// HasChange returns whether the selection requires a change output.
func (r *SelectionSuccess) HasChange() bool {
	return r.ChangeAmount > 0
}

// Keys returns the keys of the selected utxos.
func (r *SelectionSuccess) Keys() []UtxoKey {
	keys := make([]UtxoKey, 0, len(r.Selected))
	for _, u := range r.Selected {
		keys = append(keys, u.Key())
	}
	return keys
}

// InsufficientFunds is returned whenever the candidate utxos can't cover the
// required amount. It is a regular result, but it also satisfies the error
// interface so that outer layers can bubble it up.
type InsufficientFunds struct {
	Available uint64
	Required  uint64
}

func (*InsufficientFunds) isSelectionResult() {}

func (r *InsufficientFunds) Error() string {
	return fmt.Sprintf(
		"%s: available %d sats, required %d sats",
		ErrInsufficientFunds, r.Available, r.Required,
	)
}

func (r *InsufficientFunds) Is(target error) bool {
	return target == ErrInsufficientFunds
}
