package application

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/vulpemventures/coinselector/internal/core/domain"
)

const (
	DefaultDustThreshold        = uint64(546)
	DefaultBnBTimeout           = time.Second
	DefaultConsolidateMaxInputs = 50
	DefaultAvoidChangeMaxInputs = 6
)

var (
	ErrInvalidFeeRate = fmt.Errorf(
		"fee rate must be a positive finite number of sats/vbyte",
	)
)

// SelectorOptions holds the tunables of the coin selection strategies.
// Zero values are replaced by defaults.
type SelectorOptions struct {
	DustThreshold        uint64
	BnBTimeout           time.Duration
	ConsolidateMaxInputs int
	AvoidChangeMaxInputs int
}

func (o SelectorOptions) withDefaults() SelectorOptions {
	if o.DustThreshold == 0 {
		o.DustThreshold = DefaultDustThreshold
	}
	if o.BnBTimeout <= 0 {
		o.BnBTimeout = DefaultBnBTimeout
	}
	if o.ConsolidateMaxInputs <= 0 {
		o.ConsolidateMaxInputs = DefaultConsolidateMaxInputs
	}
	if o.AvoidChangeMaxInputs <= 0 {
		o.AvoidChangeMaxInputs = DefaultAvoidChangeMaxInputs
	}
	return o
}

type Utxos []*domain.Utxo

func (u Utxos) Keys() []domain.UtxoKey {
	keys := make([]domain.UtxoKey, 0, len(u))
	for _, utxo := range u {
		keys = append(keys, utxo.Key())
	}
	return keys
}

// Clone returns a deep copy of the list.
func (u Utxos) Clone() Utxos {
	list := make(Utxos, 0, len(u))
	for _, utxo := range u {
		list = append(list, utxo.Clone())
	}
	return list
}

// Selectable returns the utxos that are not frozen.
func (u Utxos) Selectable() Utxos {
	list := make(Utxos, 0, len(u))
	for _, utxo := range u {
		if !utxo.IsFrozen() {
			list = append(list, utxo)
		}
	}
	return list
}

type UtxoKeys []domain.UtxoKey

func (u UtxoKeys) String() string {
	str := make([]string, 0, len(u))
	for _, key := range u {
		str = append(str, key.String())
	}
	return strings.Join(str, ", ")
}

// unique returns the keys without duplicates, preserving their order.
func (u UtxoKeys) unique() UtxoKeys {
	seen := make(map[domain.UtxoKey]struct{}, len(u))
	keys := make(UtxoKeys, 0, len(u))
	for _, key := range u {
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	return keys
}

func validateFeeRate(feeRate float64) error {
	if math.IsNaN(feeRate) || math.IsInf(feeRate, 0) || feeRate <= 0 {
		return ErrInvalidFeeRate
	}
	return nil
}
