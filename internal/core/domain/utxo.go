package domain

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

var (
	ErrInvalidUtxoKey  = fmt.Errorf("invalid utxo key, must be in the form txid:vout")
	ErrMissingTxid     = fmt.Errorf("utxo key is missing txid")
	ErrUtxoNotFound    = fmt.Errorf("utxo not found")
	ErrNetworkMismatch = fmt.Errorf("utxo belongs to a different network")
)

// UtxoKey represents the key of an Utxo, composed by its txid and vout.
type UtxoKey struct {
	TxID string
	VOut uint32
}

// ParseUtxoKey parses an outpoint in the canonical txid:vout form.
func ParseUtxoKey(str string) (UtxoKey, error) {
	txid, vout, ok := strings.Cut(strings.TrimSpace(str), ":")
	if !ok {
		return UtxoKey{}, ErrInvalidUtxoKey
	}
	index, err := strconv.ParseUint(vout, 10, 32)
	if err != nil {
		return UtxoKey{}, fmt.Errorf("%w: %s", ErrInvalidUtxoKey, err)
	}
	key := UtxoKey{TxID: txid, VOut: uint32(index)}
	if err := key.Validate(); err != nil {
		return UtxoKey{}, err
	}
	return key, nil
}

// Validate makes sure the txid is a well formed transaction hash.
func (k UtxoKey) Validate() error {
	if k.TxID == "" {
		return ErrMissingTxid
	}
	if len(k.TxID) != chainhash.MaxHashStringSize {
		return fmt.Errorf("invalid txid length: must be %d hex chars", chainhash.MaxHashStringSize)
	}
	if _, err := chainhash.NewHashFromStr(k.TxID); err != nil {
		return fmt.Errorf("invalid txid: %w", err)
	}
	return nil
}

// Hash returns a fixed-size identifier of the key, used as storage key.
func (k UtxoKey) Hash() string {
	buf, _ := hex.DecodeString(k.TxID)
	buf = binary.LittleEndian.AppendUint32(buf, k.VOut)
	return hex.EncodeToString(btcutil.Hash160(buf))
}

func (k UtxoKey) String() string {
	return fmt.Sprintf("%s:%d", k.TxID, k.VOut)
}

// Utxo is the data structure representing a spendable Bitcoin output owned by
// the wallet, with the extra info used by the coin selection strategies.
// Label and DerivationPath are informational only.
type Utxo struct {
	UtxoKey
	Value          uint64
	Confirmations  uint32
	IsChange       bool
	Frozen         bool
	Address        string
	Label          string
	DerivationPath string
	Network        string
}

// Key returns the UtxoKey of the current utxo.
func (u *Utxo) Key() UtxoKey {
	return u.UtxoKey
}

// IsFrozen returns whether the utxo is excluded from automatic selection.
func (u *Utxo) IsFrozen() bool {
	return u.Frozen
}

// IsConfirmed returns whether the utxo has at least one confirmation.
func (u *Utxo) IsConfirmed() bool {
	return u.Confirmations > 0
}

// Freeze marks the utxo as frozen. It returns false if it already was.
func (u *Utxo) Freeze() bool {
	if u.Frozen {
		return false
	}
	u.Frozen = true
	return true
}

// Unfreeze marks the utxo as unfrozen. It returns false if it was not frozen.
func (u *Utxo) Unfreeze() bool {
	if !u.Frozen {
		return false
	}
	u.Frozen = false
	return true
}

// Clone returns a copy of the utxo that can be modified independently.
func (u *Utxo) Clone() *Utxo {
	c := *u
	return &c
}

// Balance summarizes the value held by a set of utxos. Frozen utxos count
// only as Frozen, whatever their confirmations. Unconfirmed is the value of
// the utxos not frozen but below the required number of confirmations.
type Balance struct {
	Selectable  uint64
	Frozen      uint64
	Unconfirmed uint64
}

func (b Balance) Total() uint64 {
	return b.Selectable + b.Frozen + b.Unconfirmed
}

// TotalValue returns the sum of the values of the given utxos.
func TotalValue(utxos []*Utxo) uint64 {
	var total uint64
	for _, u := range utxos {
		total += u.Value
	}
	return total
}

// SubAmount returns a - b, or false if the operation would underflow.
func SubAmount(a, b uint64) (uint64, bool) {
	if b > a {
		return 0, false
	}
	return a - b, true
}
