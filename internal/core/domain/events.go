package domain

const (
	UtxosSelected EventType = iota
	SelectionFailed
	UtxoFrozen
	UtxoUnfrozen
	UtxoStatusChanged
)

const (
	UtxoStatusAdded   UtxoStatus = "added"
	UtxoStatusRemoved UtxoStatus = "removed"
)

const (
	// FailureInsufficientFunds means the candidate utxos can't cover target
	// and fees.
	FailureInsufficientFunds FailureReason = "insufficient_funds"
	// FailureMissingOutpoints means coin control has been requested without
	// an explicit list of outpoints.
	FailureMissingOutpoints FailureReason = "coin_control_requires_outpoints"
)

var (
	eventTypeString = map[EventType]string{
		UtxosSelected:     "UtxosSelected",
		SelectionFailed:   "SelectionFailed",
		UtxoFrozen:        "UtxoFrozen",
		UtxoUnfrozen:      "UtxoUnfrozen",
		UtxoStatusChanged: "UtxoStatusChanged",
	}
)

type EventType int

func (t EventType) String() string {
	return eventTypeString[t]
}

type UtxoStatus string

type FailureReason string

// Event is any notification produced by the selection engine.
type Event interface {
	Type() EventType
}

// SelectedEvent is published whenever a selection succeeds.
type SelectedEvent struct {
	Utxos        []Utxo
	Strategy     SelectionStrategy
	TargetAmount uint64
	FeeAmount    uint64
	ChangeAmount uint64
}

func (SelectedEvent) Type() EventType { return UtxosSelected }

// SelectionFailedEvent is published whenever a selection results in
// insufficient funds.
type SelectionFailedEvent struct {
	Reason    FailureReason
	Strategy  SelectionStrategy
	Available uint64
	Required  uint64
}

func (SelectionFailedEvent) Type() EventType { return SelectionFailed }

type FrozenEvent struct {
	Outpoint UtxoKey
}

func (FrozenEvent) Type() EventType { return UtxoFrozen }

type UnfrozenEvent struct {
	Outpoint UtxoKey
}

func (UnfrozenEvent) Type() EventType { return UtxoUnfrozen }

// StatusChangedEvent is published when a utxo enters or leaves the set.
type StatusChangedEvent struct {
	Outpoint UtxoKey
	Status   UtxoStatus
}

func (StatusChangedEvent) Type() EventType { return UtxoStatusChanged }
