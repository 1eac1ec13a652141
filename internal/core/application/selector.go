package application

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/vulpemventures/coinselector/internal/core/domain"
	"github.com/vulpemventures/coinselector/internal/core/ports"
	avoidchange_selector "github.com/vulpemventures/coinselector/internal/infrastructure/coin-selector/avoid-change"
	bnb_selector "github.com/vulpemventures/coinselector/internal/infrastructure/coin-selector/branch-and-bound"
	coincontrol_selector "github.com/vulpemventures/coinselector/internal/infrastructure/coin-selector/coin-control"
	consolidate_selector "github.com/vulpemventures/coinselector/internal/infrastructure/coin-selector/consolidate"
	minimizefee_selector "github.com/vulpemventures/coinselector/internal/infrastructure/coin-selector/minimize-fee"
	oldestfirst_selector "github.com/vulpemventures/coinselector/internal/infrastructure/coin-selector/oldest-first"
	privacy_selector "github.com/vulpemventures/coinselector/internal/infrastructure/coin-selector/privacy"
)

// Selector is the entry point of every coin selection:
//   - It filters out frozen utxos, unless coin control is requested through
//     SelectCoinControl.
//   - It fails fast if the remaining utxos can't cover the target amount,
//     without running any strategy.
//   - It dispatches to the strategy-specific coin selector.
//   - It publishes a domain.SelectedEvent or a domain.SelectionFailedEvent
//     with the outcome.
//
// Selector holds no state besides its options, it's safe for concurrent use.
type Selector struct {
	opts      SelectorOptions
	publisher ports.EventPublisher

	log func(format string, a ...interface{})
}

func NewSelector(
	opts SelectorOptions, publisher ports.EventPublisher,
) *Selector {
	logFn := func(format string, a ...interface{}) {
		format = fmt.Sprintf("selector: %s", format)
		log.Debugf(format, a...)
	}
	if publisher == nil {
		publisher = NewEventPublishers()
	}
	return &Selector{opts.withDefaults(), publisher, logFn}
}

// DustThreshold returns the amount under which change is added to the fee.
func (s *Selector) DustThreshold() uint64 {
	return s.opts.DustThreshold
}

// Select runs the given strategy over the non-frozen utxos. Coin control
// can't be served by this method since there is no explicit list of
// outpoints to spend, therefore it always results in insufficient funds.
// An error is returned only for unknown strategies or invalid fee rates.
func (s *Selector) Select(
	utxos []*domain.Utxo, targetAmount uint64,
	strategy domain.SelectionStrategy, feeRate float64,
) (domain.SelectionResult, error) {
	if !strategy.IsValid() {
		return nil, fmt.Errorf("%w: %d", domain.ErrUnknownStrategy, strategy)
	}
	if err := validateFeeRate(feeRate); err != nil {
		return nil, err
	}

	if strategy == domain.StrategyCoinControl {
		res := &domain.InsufficientFunds{Available: 0, Required: targetAmount}
		s.publishFailure(domain.FailureMissingOutpoints, strategy, res)
		return res, nil
	}

	selectable := Utxos(utxos).Selectable()
	available := domain.TotalValue(selectable)
	if available < targetAmount {
		s.log(
			"%s: available %d sats below target %d sats, skipping search",
			strategy, available, targetAmount,
		)
		res := &domain.InsufficientFunds{
			Available: available, Required: targetAmount,
		}
		s.publishFailure(domain.FailureInsufficientFunds, strategy, res)
		return res, nil
	}

	res := s.coinSelector(strategy).SelectUtxos(
		selectable, targetAmount, feeRate, s.opts.DustThreshold,
	)
	s.publishResult(strategy, targetAmount, res)
	return res, nil
}

// SelectCoinControl spends exactly the given utxos, frozen ones included.
func (s *Selector) SelectCoinControl(
	utxos []*domain.Utxo, targetAmount uint64, feeRate float64,
) (domain.SelectionResult, error) {
	if err := validateFeeRate(feeRate); err != nil {
		return nil, err
	}

	strategy := domain.StrategyCoinControl
	res := s.coinSelector(strategy).SelectUtxos(
		utxos, targetAmount, feeRate, s.opts.DustThreshold,
	)
	s.publishResult(strategy, targetAmount, res)
	return res, nil
}

func (s *Selector) coinSelector(
	strategy domain.SelectionStrategy,
) ports.CoinSelector {
	switch strategy {
	case domain.StrategyMinimizeFee:
		return minimizefee_selector.NewMinimizeFeeCoinSelector()
	case domain.StrategyMinimizeChange:
		return bnb_selector.NewBranchAndBoundCoinSelector(s.opts.BnBTimeout)
	case domain.StrategyMaximizePrivacy:
		return privacy_selector.NewMaximizePrivacyCoinSelector()
	case domain.StrategyPrivacyFocused:
		return privacy_selector.NewPrivacyFocusedCoinSelector()
	case domain.StrategyConsolidate:
		return consolidate_selector.NewConsolidateCoinSelector(
			s.opts.ConsolidateMaxInputs,
		)
	case domain.StrategyOldestFirst:
		return oldestfirst_selector.NewOldestFirstCoinSelector()
	case domain.StrategyAvoidChange:
		return avoidchange_selector.NewAvoidChangeCoinSelector(
			s.opts.AvoidChangeMaxInputs, s.opts.BnBTimeout,
		)
	case domain.StrategyCoinControl:
		return coincontrol_selector.NewCoinControlCoinSelector()
	default:
		panic(fmt.Sprintf("coin selector not implemented for strategy %d", strategy))
	}
}

func (s *Selector) publishResult(
	strategy domain.SelectionStrategy, targetAmount uint64,
	res domain.SelectionResult,
) {
	switch r := res.(type) {
	case *domain.SelectionSuccess:
		s.log(
			"%s: selected %d utxos (fee %d, change %d)",
			strategy, len(r.Selected), r.FeeAmount, r.ChangeAmount,
		)
		utxos := make([]domain.Utxo, 0, len(r.Selected))
		for _, u := range r.Selected {
			utxos = append(utxos, *u)
		}
		s.publisher.Publish(domain.SelectedEvent{
			Utxos:        utxos,
			Strategy:     strategy,
			TargetAmount: targetAmount,
			FeeAmount:    r.FeeAmount,
			ChangeAmount: r.ChangeAmount,
		})
	case *domain.InsufficientFunds:
		s.publishFailure(domain.FailureInsufficientFunds, strategy, r)
	}
}

func (s *Selector) publishFailure(
	reason domain.FailureReason, strategy domain.SelectionStrategy,
	res *domain.InsufficientFunds,
) {
	s.log("%s: %s", strategy, res)
	s.publisher.Publish(domain.SelectionFailedEvent{
		Reason:    reason,
		Strategy:  strategy,
		Available: res.Available,
		Required:  res.Required,
	})
}
