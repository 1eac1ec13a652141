package bnb_selector

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/vulpemventures/coinselector/internal/core/domain"
	"github.com/vulpemventures/coinselector/internal/core/ports"
	"github.com/vulpemventures/coinselector/internal/infrastructure/coin-selector/selectorutil"
	"github.com/vulpemventures/coinselector/pkg/fees"
)

const (
	DefaultTimeout = time.Second
)

type selector struct {
	timeout time.Duration

	log func(format string, a ...interface{})
}

// NewBranchAndBoundCoinSelector returns a selector looking for the subset of
// utxos that pays for the target amount without change. The search is bounded
// by the given timeout, after which the selector falls back to a greedy
// strategy. A non-positive timeout defaults to DefaultTimeout.
func NewBranchAndBoundCoinSelector(timeout time.Duration) ports.CoinSelector {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	logFn := func(format string, a ...interface{}) {
		format = fmt.Sprintf("bnb selector: %s", format)
		log.Debugf(format, a...)
	}
	return &selector{timeout, logFn}
}

func (s *selector) SelectUtxos(
	utxos []*domain.Utxo, targetAmount uint64,
	feeRate float64, dustThreshold uint64,
) domain.SelectionResult {
	candidates := selectorutil.SortByDistance(
		selectorutil.Spendable(utxos, feeRate), targetAmount,
	)
	if len(candidates) == 0 {
		return selectorutil.Insufficient(candidates, targetAmount, feeRate)
	}

	deadline := time.Now().Add(s.timeout)
	search := newSearch(
		candidates, targetAmount, feeRate, dustThreshold, deadline,
	)
	search.run()

	switch {
	case search.match != nil:
		res, _ := selectorutil.NewSelection(
			search.utxos(search.match), targetAmount, feeRate, dustThreshold,
		)
		return res
	case search.timedOut:
		s.log(
			"search timed out after %s with %d candidates, falling back to "+
				"greedy selection", s.timeout, len(candidates),
		)
	case search.best != nil:
		res, _ := selectorutil.NewSelection(
			search.utxos(search.best), targetAmount, feeRate, dustThreshold,
		)
		return res
	default:
		s.log("no covering subset found, falling back to greedy selection")
	}

	return greedySelection(candidates, targetAmount, feeRate, dustThreshold)
}

// greedySelection returns the smallest utxo that alone covers the target
// amount plus fees. If there's none, utxos are accumulated by descending
// value.
func greedySelection(
	candidates []*domain.Utxo, targetAmount uint64,
	feeRate float64, dustThreshold uint64,
) domain.SelectionResult {
	required := targetAmount + fees.EstimateFees(
		1, selectorutil.PaymentOnly, feeRate,
	)
	var bestFit *domain.Utxo
	for _, u := range candidates {
		if u.Value < required {
			continue
		}
		if bestFit == nil || u.Value < bestFit.Value {
			bestFit = u
		}
	}
	if bestFit != nil {
		if res, ok := selectorutil.NewSelection(
			[]*domain.Utxo{bestFit}, targetAmount, feeRate, dustThreshold,
		); ok {
			return res
		}
	}

	if res, ok := selectorutil.Accumulate(
		nil, selectorutil.SortByValueDesc(candidates),
		targetAmount, feeRate, dustThreshold,
	); ok {
		return res
	}
	return selectorutil.Insufficient(candidates, targetAmount, feeRate)
}
