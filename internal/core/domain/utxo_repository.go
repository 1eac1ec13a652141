package domain

import (
	"context"
)

// UtxoRepository is the abstraction for any kind of database intended to
// persist the wallet's Utxos. Implementations must return utxos in insertion
// order.
type UtxoRepository interface {
	// AddUtxos adds the provided utxos to the repository by preventing
	// duplicates. Returns the number of utxos actually added.
	AddUtxos(ctx context.Context, utxos []*Utxo) (int, error)
	// GetUtxosByKey returns the utxos identified by the given keys. Unknown
	// keys are skipped.
	GetUtxosByKey(ctx context.Context, utxoKeys []UtxoKey) ([]*Utxo, error)
	// GetAllUtxos returns the entire UTXO set, included frozen ones.
	GetAllUtxos(ctx context.Context) ([]*Utxo, error)
	// GetSelectableUtxos returns all the utxos that are not frozen.
	GetSelectableUtxos(ctx context.Context) ([]*Utxo, error)
	// FreezeUtxos marks the given utxos as frozen and returns how many
	// of them changed status.
	FreezeUtxos(ctx context.Context, utxoKeys []UtxoKey) (int, error)
	// UnfreezeUtxos marks the given utxos as unfrozen and returns how many
	// of them changed status.
	UnfreezeUtxos(ctx context.Context, utxoKeys []UtxoKey) (int, error)
	// DeleteUtxos removes the given utxos from the repository.
	DeleteUtxos(ctx context.Context, utxoKeys []UtxoKey) (int, error)
	// Close releases the resources held by the repository.
	Close()
}
