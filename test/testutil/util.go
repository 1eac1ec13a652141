package testutil

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vulpemventures/coinselector/internal/core/domain"
)

// NewUtxos returns one confirmed utxo per given value, each one with a random
// key and a distinct address.
func NewUtxos(values ...uint64) []*domain.Utxo {
	utxos := make([]*domain.Utxo, 0, len(values))
	for i, v := range values {
		utxos = append(utxos, &domain.Utxo{
			UtxoKey:       RandomKey(),
			Value:         v,
			Confirmations: 6,
			Address:       fmt.Sprintf("bcrt1qaddress%d", i),
			Network:       "regtest",
		})
	}
	return utxos
}

// RandomUtxos returns num confirmed utxos with random values in the range
// [minValue, maxValue) and random confirmations.
func RandomUtxos(num int, minValue, maxValue uint64) []*domain.Utxo {
	utxos := make([]*domain.Utxo, 0, num)
	for i := 0; i < num; i++ {
		utxos = append(utxos, &domain.Utxo{
			UtxoKey:       RandomKey(),
			Value:         uint64(RandomIntInRange(int(minValue), int(maxValue))),
			Confirmations: uint32(RandomIntInRange(1, 1000)),
			IsChange:      i%3 == 0,
			Address:       fmt.Sprintf("bcrt1qaddress%d", RandomIntInRange(0, num/2+1)),
			Network:       "regtest",
		})
	}
	return utxos
}

// RequireValidSelection makes sure the given result is a success honoring the
// balance and dust rules, and that it selects only utxos of the given pool.
// It returns the success for further checks.
func RequireValidSelection(
	t *testing.T, res domain.SelectionResult,
	pool []*domain.Utxo, targetAmount, dustThreshold uint64,
) *domain.SelectionSuccess {
	t.Helper()

	require.IsType(t, &domain.SelectionSuccess{}, res)
	success := res.(*domain.SelectionSuccess)
	require.NotEmpty(t, success.Selected)

	require.Equal(
		t, targetAmount+success.FeeAmount+success.ChangeAmount,
		success.TotalValue(),
	)
	require.Greater(t, success.FeeAmount, uint64(0))
	if success.ChangeAmount != 0 {
		require.Greater(t, success.ChangeAmount, dustThreshold)
	}

	inPool := make(map[domain.UtxoKey]struct{}, len(pool))
	for _, u := range pool {
		inPool[u.Key()] = struct{}{}
	}
	seen := make(map[domain.UtxoKey]struct{}, len(success.Selected))
	for _, u := range success.Selected {
		_, ok := inPool[u.Key()]
		require.True(t, ok, "selected utxo %s not in pool", u.Key())
		_, dup := seen[u.Key()]
		require.False(t, dup, "utxo %s selected twice", u.Key())
		seen[u.Key()] = struct{}{}
	}
	return success
}

func RandomKey() domain.UtxoKey {
	return domain.UtxoKey{
		TxID: RandomHex(32),
		VOut: RandomVout(),
	}
}

func RandomHex(len int) string {
	return hex.EncodeToString(RandomBytes(len))
}

func RandomVout() uint32 {
	return uint32(RandomIntInRange(0, 15))
}

func RandomBytes(len int) []byte {
	b := make([]byte, len)
	rand.Read(b)
	return b
}

// RandomIntInRange returns a random int in [min, max).
func RandomIntInRange(min, max int) int {
	if max <= min {
		return min
	}
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(max-min)))
	return int(n.Int64()) + min
}
