package domain_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vulpemventures/coinselector/internal/core/domain"
)

var (
	txid = strings.Repeat("ab", 32)
)

func TestFreezeUnfreezeUtxo(t *testing.T) {
	t.Parallel()

	u := domain.Utxo{}
	require.False(t, u.IsFrozen())

	require.True(t, u.Freeze())
	require.True(t, u.IsFrozen())
	require.False(t, u.Freeze())

	require.True(t, u.Unfreeze())
	require.False(t, u.IsFrozen())
	require.False(t, u.Unfreeze())
}

func TestConfirmedUtxo(t *testing.T) {
	t.Parallel()

	u := domain.Utxo{}
	require.False(t, u.IsConfirmed())

	u.Confirmations = 1
	require.True(t, u.IsConfirmed())
}

func TestCloneUtxo(t *testing.T) {
	t.Parallel()

	u := &domain.Utxo{UtxoKey: domain.UtxoKey{TxID: txid}, Value: 1000}
	c := u.Clone()
	c.Freeze()
	c.Value = 1

	require.False(t, u.IsFrozen())
	require.Equal(t, uint64(1000), u.Value)
}

func TestUtxoKeyHash(t *testing.T) {
	t.Parallel()

	k1 := domain.UtxoKey{TxID: txid, VOut: 1}
	k2 := domain.UtxoKey{TxID: txid, VOut: 257}
	k3 := domain.UtxoKey{TxID: txid, VOut: 1}

	require.NotEqual(t, k1.Hash(), k2.Hash())
	require.Equal(t, k1.Hash(), k3.Hash())
	require.Len(t, k1.Hash(), 40)
}

func TestParseUtxoKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		str         string
		expected    domain.UtxoKey
		expectedErr bool
	}{
		{
			name:     "valid",
			str:      txid + ":3",
			expected: domain.UtxoKey{TxID: txid, VOut: 3},
		},
		{
			name:     "valid with spaces",
			str:      " " + txid + ":0 ",
			expected: domain.UtxoKey{TxID: txid, VOut: 0},
		},
		{
			name:        "missing separator",
			str:         txid,
			expectedErr: true,
		},
		{
			name:        "invalid vout",
			str:         txid + ":x",
			expectedErr: true,
		},
		{
			name:        "short txid",
			str:         "abcd:1",
			expectedErr: true,
		},
		{
			name:        "non hex txid",
			str:         strings.Repeat("zz", 32) + ":1",
			expectedErr: true,
		},
		{
			name:        "missing txid",
			str:         ":1",
			expectedErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			key, err := domain.ParseUtxoKey(tt.str)
			if tt.expectedErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.expected, key)
			require.Equal(t, strings.TrimSpace(tt.str), key.String())
		})
	}
}

func TestSubAmount(t *testing.T) {
	t.Parallel()

	diff, ok := domain.SubAmount(10, 3)
	require.True(t, ok)
	require.Equal(t, uint64(7), diff)

	diff, ok = domain.SubAmount(3, 3)
	require.True(t, ok)
	require.Zero(t, diff)

	_, ok = domain.SubAmount(3, 10)
	require.False(t, ok)
}

func TestInsufficientFunds(t *testing.T) {
	t.Parallel()

	var res domain.SelectionResult = &domain.InsufficientFunds{
		Available: 40000, Required: 50000,
	}
	err, ok := res.(error)
	require.True(t, ok)
	require.True(t, errors.Is(err, domain.ErrInsufficientFunds))
	require.Contains(t, err.Error(), "available 40000 sats")
}

func TestSelectionSuccess(t *testing.T) {
	t.Parallel()

	res := &domain.SelectionSuccess{
		Selected: []*domain.Utxo{
			{UtxoKey: domain.UtxoKey{TxID: txid, VOut: 0}, Value: 40000},
			{UtxoKey: domain.UtxoKey{TxID: txid, VOut: 1}, Value: 50000},
		},
		FeeAmount:    500,
		ChangeAmount: 19500,
	}
	require.Equal(t, uint64(90000), res.TotalValue())
	require.Equal(t, uint64(70000), res.TargetAmount())
	require.True(t, res.HasChange())
	require.Len(t, res.Keys(), 2)
}
