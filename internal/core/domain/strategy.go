package domain

import (
	"fmt"
	"strings"
)

const (
	StrategyMinimizeFee SelectionStrategy = iota
	StrategyMinimizeChange
	StrategyMaximizePrivacy
	StrategyPrivacyFocused
	StrategyConsolidate
	StrategyOldestFirst
	StrategyAvoidChange
	StrategyCoinControl
)

var (
	ErrUnknownStrategy = fmt.Errorf("unknown coin selection strategy")

	strategyString = map[SelectionStrategy]string{
		StrategyMinimizeFee:     "minimize-fee",
		StrategyMinimizeChange:  "minimize-change",
		StrategyMaximizePrivacy: "maximize-privacy",
		StrategyPrivacyFocused:  "privacy-focused",
		StrategyConsolidate:     "consolidate",
		StrategyOldestFirst:     "oldest-first",
		StrategyAvoidChange:     "avoid-change",
		StrategyCoinControl:     "coin-control",
	}
)

// SelectionStrategy is the policy tag used to pick the coin selection
// algorithm.
type SelectionStrategy int

func (s SelectionStrategy) String() string {
	if str, ok := strategyString[s]; ok {
		return str
	}
	return fmt.Sprintf("unknown(%d)", int(s))
}

// IsValid returns whether the strategy is one of the known ones.
func (s SelectionStrategy) IsValid() bool {
	_, ok := strategyString[s]
	return ok
}

// ParseSelectionStrategy returns the strategy matching the given name, as
// returned by SelectionStrategy.String.
func ParseSelectionStrategy(name string) (SelectionStrategy, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, "_", "-")
	for s, str := range strategyString {
		if str == name {
			return s, nil
		}
	}
	return -1, fmt.Errorf("%w %q, must be one of: %s", ErrUnknownStrategy, name, strings.Join(SelectionStrategyNames(), " | "))
}

// SelectionStrategies returns all the strategies, in declaration order.
func SelectionStrategies() []SelectionStrategy {
	list := make([]SelectionStrategy, 0, len(strategyString))
	for s := StrategyMinimizeFee; s <= StrategyCoinControl; s++ {
		list = append(list, s)
	}
	return list
}

// SelectionStrategyNames returns the names of all the strategies.
func SelectionStrategyNames() []string {
	names := make([]string, 0, len(strategyString))
	for _, s := range SelectionStrategies() {
		names = append(names, s.String())
	}
	return names
}
