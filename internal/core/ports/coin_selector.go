package ports

import "github.com/vulpemventures/coinselector/internal/core/domain"

// CoinSelector is the abstraction for any kind of service intended to return a
// subset of the given utxos covering the target amount plus the network fees,
// based on a specific strategy.
type CoinSelector interface {
	// SelectUtxos implements a certain coin selection strategy. The fee rate
	// is expressed in sats/vbyte; change amounts below or equal to the dust
	// threshold are never returned and are added to the fee instead.
	SelectUtxos(
		utxos []*domain.Utxo, targetAmount uint64,
		feeRate float64, dustThreshold uint64,
	) domain.SelectionResult
}
