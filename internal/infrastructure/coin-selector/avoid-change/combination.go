package avoidchange_selector

import (
	"time"

	"github.com/vulpemventures/coinselector/internal/core/domain"
	"github.com/vulpemventures/coinselector/internal/infrastructure/coin-selector/selectorutil"
	"github.com/vulpemventures/coinselector/pkg/fees"
)

// combinationFinder looks for the smallest combination of items whose total
// lands in the window [target + fee, target + fee + dust]. Items must be
// sorted by descending value.
type combinationFinder struct {
	items         []uint64
	prefixSums    []uint64
	targetAmount  uint64
	feeRate       float64
	dustThreshold uint64
	deadline      time.Time

	// window of the combinations of the size currently explored.
	minAmount uint64
	maxAmount uint64

	combination []int
	timedOut    bool
}

func newCombinationFinder(
	utxos []*domain.Utxo, targetAmount uint64,
	feeRate float64, dustThreshold uint64, deadline time.Time,
) *combinationFinder {
	items := make([]uint64, 0, len(utxos))
	prefixSums := make([]uint64, 1, len(utxos)+1)
	for _, u := range utxos {
		items = append(items, u.Value)
		prefixSums = append(prefixSums, prefixSums[len(prefixSums)-1]+u.Value)
	}
	return &combinationFinder{
		items:         items,
		prefixSums:    prefixSums,
		targetAmount:  targetAmount,
		feeRate:       feeRate,
		dustThreshold: dustThreshold,
		deadline:      deadline,
	}
}

// getBestCombination returns the indexes of the items to select. The strategy
// here is to try finding exactly 1 item in the window or, otherwise,
// progressively increase the number of items up to maxSize.
// It returns nil if no combination is found before the deadline.
func (f *combinationFinder) getBestCombination(maxSize int) []int {
	for size := 1; size <= maxSize && size <= len(f.items); size++ {
		f.minAmount = f.targetAmount + fees.EstimateFees(
			size, selectorutil.PaymentOnly, f.feeRate,
		)
		f.maxAmount = f.minAmount + f.dustThreshold
		f.combination = f.combination[:0]

		if combo := f.getCombination(size, 0, 0); combo != nil {
			return combo
		}
		if f.timedOut {
			return nil
		}
	}
	return nil
}

// getCombination returns the first combination of size items, picked from
// offset onwards, that added to partialAmount lands in the current window.
func (f *combinationFinder) getCombination(
	size, offset int, partialAmount uint64,
) []int {
	if size == 0 {
		if partialAmount < f.minAmount || partialAmount > f.maxAmount {
			return nil
		}
		combo := make([]int, len(f.combination))
		copy(combo, f.combination)
		return combo
	}

	for i := offset; i <= len(f.items)-size; i++ {
		if f.expired() {
			return nil
		}
		amount := partialAmount + f.items[i]
		if amount > f.maxAmount {
			continue
		}
		// The next size-1 items are the biggest ones available after i.
		if amount+f.sum(i+1, i+size) < f.minAmount {
			break
		}

		f.combination = append(f.combination, i)
		combo := f.getCombination(size-1, i+1, amount)
		f.combination = f.combination[:len(f.combination)-1]
		if combo != nil {
			return combo
		}
	}
	return nil
}

// sum returns the total value of items[from:to].
func (f *combinationFinder) sum(from, to int) uint64 {
	return f.prefixSums[to] - f.prefixSums[from]
}

func (f *combinationFinder) expired() bool {
	if !f.timedOut && !time.Now().Before(f.deadline) {
		f.timedOut = true
	}
	return f.timedOut
}
