package avoidchange_selector

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
	DefaultMaxInputs = 6
	DefaultTimeout   = time.Second
)

type selector struct {
	maxInputs int
	timeout   time.Duration

	log func(format string, a ...interface{})
}

// NewAvoidChangeCoinSelector returns a selector looking for a combination of
// at most maxInputs utxos that pays for the target amount without change,
// meaning that what's left over target and fees is not above the dust
// threshold. The search gives up when the timeout expires.
// Non-positive arguments are replaced by their defaults.
func NewAvoidChangeCoinSelector(
	maxInputs int, timeout time.Duration,
) ports.CoinSelector {
	if maxInputs <= 0 {
		maxInputs = DefaultMaxInputs
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	logFn := func(format string, a ...interface{}) {
		format = fmt.Sprintf("avoid change selector: %s", format)
		log.Debugf(format, a...)
	}
	return &selector{maxInputs, timeout, logFn}
}

func (s *selector) SelectUtxos(
	utxos []*domain.Utxo, targetAmount uint64,
	feeRate float64, dustThreshold uint64,
) domain.SelectionResult {
	spendable := selectorutil.Spendable(utxos, feeRate)

	// Any combination including a utxo worth more than this would leave a
	// non-dust change.
	maxValue := targetAmount + dustThreshold + fees.EstimateFees(
		1, selectorutil.PaymentOnly, feeRate,
	)
	candidates := make([]*domain.Utxo, 0, len(spendable))
	for _, u := range selectorutil.SortByValueDesc(spendable) {
		if u.Value <= maxValue {
			candidates = append(candidates, u)
		}
	}

	finder := newCombinationFinder(
		candidates, targetAmount, feeRate, dustThreshold,
		time.Now().Add(s.timeout),
	)
	indexes := finder.getBestCombination(s.maxInputs)
	if indexes == nil {
		if finder.timedOut {
			s.log("search timed out after %s", s.timeout)
		}
		s.log(
			"no combination of up to %d out of %d utxos avoids change",
			s.maxInputs, len(candidates),
		)
		return selectorutil.Insufficient(spendable, targetAmount, feeRate)
	}

	selected := make([]*domain.Utxo, 0, len(indexes))
	for _, i := range indexes {
		selected = append(selected, candidates[i])
	}
	res, _ := selectorutil.NewSelection(
		selected, targetAmount, feeRate, dustThreshold,
	)
	return res
}
