package coincontrol_selector

import (
	"github.com/vulpemventures/coinselector/internal/core/domain"
	"github.com/vulpemventures/coinselector/internal/core/ports"
	"github.com/vulpemventures/coinselector/internal/infrastructure/coin-selector/selectorutil"
	"github.com/vulpemventures/coinselector/pkg/fees"
)

type selector struct{}

// NewCoinControlCoinSelector returns a selector that spends exactly the given
// utxos, frozen ones included. No utxo is filtered or reordered.
func NewCoinControlCoinSelector() ports.CoinSelector {
	return &selector{}
}

func (s *selector) SelectUtxos(
	utxos []*domain.Utxo, targetAmount uint64,
	feeRate float64, dustThreshold uint64,
) domain.SelectionResult {
	total := domain.TotalValue(utxos)
	if len(utxos) == 0 || total < targetAmount {
		return &domain.InsufficientFunds{
			Available: total,
			Required:  targetAmount,
		}
	}

	res, ok := selectorutil.NewSelection(
		utxos, targetAmount, feeRate, dustThreshold,
	)
	if !ok {
		return &domain.InsufficientFunds{
			Available: total,
			Required: targetAmount + fees.EstimateFees(
				len(utxos), selectorutil.PaymentOnly, feeRate,
			),
		}
	}
	return res
}
