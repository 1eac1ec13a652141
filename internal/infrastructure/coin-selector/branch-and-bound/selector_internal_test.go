package bnb_selector

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vulpemventures/coinselector/internal/core/domain"
	"github.com/vulpemventures/coinselector/test/testutil"
)

func TestMaxDepth(t *testing.T) {
	tests := []struct {
		numCandidates int
		expected      int
	}{
		{1, 1},
		{10, 10},
		{11, 8},
		{50, 8},
		{51, 6},
		{200, 6},
		{201, 5},
		{10000, 5},
	}

	for _, tt := range tests {
		require.Equal(t, tt.expected, maxDepth(tt.numCandidates))
	}
}

func TestSearch(t *testing.T) {
	t.Run("stops at first change-free match", func(t *testing.T) {
		utxos := testutil.NewUtxos(30000, 20200, 20150)
		s := newSearch(utxos, 50000, 1, 546, time.Now().Add(time.Second))
		s.run()

		require.False(t, s.timedOut)
		require.Equal(t, []int{0, 1}, s.match)
	})

	t.Run("keeps track of the closest subset", func(t *testing.T) {
		utxos := testutil.NewUtxos(45000, 30000, 80000)
		s := newSearch(utxos, 50000, 1, 546, time.Now().Add(time.Second))
		s.run()

		require.Nil(t, s.match)
		// 45000+30000 leaves 24823 sats over target+fee, 80000 alone 29891.
		require.Equal(t, []int{0, 1}, s.best)
		require.Equal(t, uint64(24823), s.bestExcess)
	})

	t.Run("expired deadline", func(t *testing.T) {
		utxos := testutil.NewUtxos(30000, 20200)
		s := newSearch(utxos, 50000, 1, 546, time.Now().Add(-time.Second))
		s.run()

		require.True(t, s.timedOut)
		require.Nil(t, s.match)
		require.Nil(t, s.best)
	})
}

func TestGreedySelection(t *testing.T) {
	t.Run("smallest utxo covering the target alone", func(t *testing.T) {
		utxos := testutil.NewUtxos(30000, 60000, 55000)
		res := greedySelection(utxos, 50000, 1, 546)

		success := testutil.RequireValidSelection(t, res, utxos, 50000, 546)
		require.Equal(t, []domain.UtxoKey{utxos[2].Key()}, success.Keys())
	})

	t.Run("accumulate by descending value", func(t *testing.T) {
		utxos := testutil.NewUtxos(25000, 30000)
		res := greedySelection(utxos, 50000, 1, 546)

		success := testutil.RequireValidSelection(t, res, utxos, 50000, 546)
		require.Equal(
			t, []domain.UtxoKey{utxos[1].Key(), utxos[0].Key()}, success.Keys(),
		)
		require.Equal(t, uint64(4792), success.ChangeAmount)
	})
}
