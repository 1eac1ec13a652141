package bnb_selector

import (
	"time"

	"github.com/vulpemventures/coinselector/internal/core/domain"
	"github.com/vulpemventures/coinselector/internal/infrastructure/coin-selector/selectorutil"
	"github.com/vulpemventures/coinselector/pkg/fees"
)

// search is the state of a depth-first exploration of the subsets of
// candidates. Subsets are made of increasing indexes, so every one of them is
// visited at most once.
type search struct {
	candidates    []*domain.Utxo
	targetAmount  uint64
	feeRate       float64
	dustThreshold uint64
	maxDepth      int
	deadline      time.Time

	// suffixSums[i] is the total value of candidates[i:].
	suffixSums []uint64
	selected   []int

	match      []int
	best       []int
	bestExcess uint64
	timedOut   bool
}

func newSearch(
	candidates []*domain.Utxo, targetAmount uint64,
	feeRate float64, dustThreshold uint64, deadline time.Time,
) *search {
	suffixSums := make([]uint64, len(candidates)+1)
	for i := len(candidates) - 1; i >= 0; i-- {
		suffixSums[i] = suffixSums[i+1] + candidates[i].Value
	}
	return &search{
		candidates:    candidates,
		targetAmount:  targetAmount,
		feeRate:       feeRate,
		dustThreshold: dustThreshold,
		maxDepth:      maxDepth(len(candidates)),
		deadline:      deadline,
		suffixSums:    suffixSums,
		selected:      make([]int, 0, maxDepth(len(candidates))),
	}
}

// maxDepth returns the max number of inputs of the explored subsets. The
// bigger the pool, the shallower the search.
func maxDepth(numCandidates int) int {
	switch {
	case numCandidates <= 10:
		return numCandidates
	case numCandidates <= 50:
		return 8
	case numCandidates <= 200:
		return 6
	default:
		return 5
	}
}

func (s *search) run() {
	s.step(0, 0)
}

// step explores every subset extending the current selection with candidates
// from the given index onwards. It returns true when the search must stop,
// either because a change-free match is found or because the deadline
// expired.
func (s *search) step(start int, selectedAmount uint64) bool {
	if s.expired() {
		return true
	}

	numInputs := len(s.selected) + 1
	required := s.targetAmount + fees.EstimateFees(
		numInputs, selectorutil.PaymentOnly, s.feeRate,
	)
	for i := start; i < len(s.candidates); i++ {
		if s.expired() {
			return true
		}
		// Adding inputs only increases the fee, therefore if all remaining
		// candidates can't cover the current requirement no deeper subset can.
		if selectedAmount+s.suffixSums[i] < required {
			return false
		}

		amount := selectedAmount + s.candidates[i].Value
		if excess, ok := domain.SubAmount(amount, required); ok {
			if excess <= s.dustThreshold {
				s.match = s.with(i)
				return true
			}
			if s.best == nil || excess < s.bestExcess {
				s.best = s.with(i)
				s.bestExcess = excess
			}
			// Candidates have positive effective value, extending a covering
			// subset only increases its excess.
			continue
		}

		if numInputs >= s.maxDepth {
			continue
		}
		s.selected = append(s.selected, i)
		stop := s.step(i+1, amount)
		s.selected = s.selected[:len(s.selected)-1]
		if stop {
			return true
		}
	}
	return false
}

func (s *search) expired() bool {
	if !s.timedOut && !time.Now().Before(s.deadline) {
		s.timedOut = true
	}
	return s.timedOut
}

func (s *search) with(index int) []int {
	indexes := make([]int, 0, len(s.selected)+1)
	indexes = append(indexes, s.selected...)
	return append(indexes, index)
}

func (s *search) utxos(indexes []int) []*domain.Utxo {
	utxos := make([]*domain.Utxo, 0, len(indexes))
	for _, i := range indexes {
		utxos = append(utxos, s.candidates[i])
	}
	return utxos
}
