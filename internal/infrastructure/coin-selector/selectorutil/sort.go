package selectorutil

import (
	"sort"

	"github.com/vulpemventures/coinselector/internal/core/domain"
)

// Spendable returns the utxos whose effective value is positive at the given
// fee rate, preserving their order.
func Spendable(utxos []*domain.Utxo, feeRate float64) []*domain.Utxo {
	list := make([]*domain.Utxo, 0, len(utxos))
	for _, u := range utxos {
		if EffectiveValue(u, feeRate) > 0 {
			list = append(list, u)
		}
	}
	return list
}

// SortByEffectiveValueDesc returns a copy of the utxos sorted by descending
// effective value, and by ascending waste ratio for equal effective values.
func SortByEffectiveValueDesc(
	utxos []*domain.Utxo, feeRate float64,
) []*domain.Utxo {
	return sortStable(utxos, func(a, b *domain.Utxo) bool {
		ea, eb := EffectiveValue(a, feeRate), EffectiveValue(b, feeRate)
		if ea != eb {
			return ea > eb
		}
		return WasteRatio(a, feeRate) < WasteRatio(b, feeRate)
	})
}

// SortByValueAsc returns a copy of the utxos sorted by ascending value.
func SortByValueAsc(utxos []*domain.Utxo) []*domain.Utxo {
	return sortStable(utxos, func(a, b *domain.Utxo) bool {
		return a.Value < b.Value
	})
}

// SortByValueDesc returns a copy of the utxos sorted by descending value.
func SortByValueDesc(utxos []*domain.Utxo) []*domain.Utxo {
	return sortStable(utxos, func(a, b *domain.Utxo) bool {
		return a.Value > b.Value
	})
}

// SortByConfirmationsDesc returns a copy of the utxos sorted by descending
// number of confirmations. Ties keep the input order.
func SortByConfirmationsDesc(utxos []*domain.Utxo) []*domain.Utxo {
	return sortStable(utxos, func(a, b *domain.Utxo) bool {
		return a.Confirmations > b.Confirmations
	})
}

// SortByDistance returns a copy of the utxos sorted by ascending distance
// between their value and the target amount.
func SortByDistance(utxos []*domain.Utxo, targetAmount uint64) []*domain.Utxo {
	return sortStable(utxos, func(a, b *domain.Utxo) bool {
		return distance(a.Value, targetAmount) < distance(b.Value, targetAmount)
	})
}

func distance(a, b uint64) uint64 {
	if a > b {
		return a - b
	}
	return b - a
}

func sortStable(
	utxos []*domain.Utxo, less func(a, b *domain.Utxo) bool,
) []*domain.Utxo {
	sorted := make([]*domain.Utxo, len(utxos))
	copy(sorted, utxos)
	sort.SliceStable(sorted, func(i, j int) bool {
		return less(sorted[i], sorted[j])
	})
	return sorted
}

// Exclude returns the utxos not contained in the given list, preserving their
// order.
func Exclude(utxos, excluded []*domain.Utxo) []*domain.Utxo {
	skip := make(map[domain.UtxoKey]struct{}, len(excluded))
	for _, u := range excluded {
		skip[u.Key()] = struct{}{}
	}
	list := make([]*domain.Utxo, 0, len(utxos))
	for _, u := range utxos {
		if _, ok := skip[u.Key()]; ok {
			continue
		}
		list = append(list, u)
	}
	return list
}
