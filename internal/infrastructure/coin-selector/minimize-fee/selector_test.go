package minimizefee_selector_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vulpemventures/coinselector/internal/core/domain"
	minimizefee_selector "github.com/vulpemventures/coinselector/internal/infrastructure/coin-selector/minimize-fee"
	"github.com/vulpemventures/coinselector/test/testutil"
)

const (
	feeRate       = 1.0
	dustThreshold = 546
)

func TestSelectUtxos(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		values         []uint64
		targetAmount   uint64
		expectedValues []uint64
		expectedFee    uint64
		expectedChange uint64
	}{
		{
			name:           "single utxo with change",
			values:         []uint64{10000, 60000, 30000},
			targetAmount:   50000,
			expectedValues: []uint64{60000},
			expectedFee:    141,
			expectedChange: 9859,
		},
		{
			name:           "skip candidate leaving dust change",
			values:         []uint64{50200, 30000, 25000},
			targetAmount:   50000,
			expectedValues: []uint64{30000, 25000},
			expectedFee:    208,
			expectedChange: 4792,
		},
		{
			name:           "dust folded into fee as last resort",
			values:         []uint64{50200},
			targetAmount:   50000,
			expectedValues: []uint64{50200},
			expectedFee:    200,
			expectedChange: 0,
		},
		{
			name:           "exact match",
			values:         []uint64{50109},
			targetAmount:   50000,
			expectedValues: []uint64{50109},
			expectedFee:    109,
			expectedChange: 0,
		},
		{
			name:           "uneconomical utxos are ignored",
			values:         []uint64{50, 60000},
			targetAmount:   50000,
			expectedValues: []uint64{60000},
			expectedFee:    141,
			expectedChange: 9859,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			utxos := testutil.NewUtxos(tt.values...)
			coinSelector := minimizefee_selector.NewMinimizeFeeCoinSelector()
			res := coinSelector.SelectUtxos(
				utxos, tt.targetAmount, feeRate, dustThreshold,
			)

			success := testutil.RequireValidSelection(
				t, res, utxos, tt.targetAmount, dustThreshold,
			)
			values := make([]uint64, 0, len(success.Selected))
			for _, u := range success.Selected {
				values = append(values, u.Value)
			}
			require.Equal(t, tt.expectedValues, values)
			require.Equal(t, tt.expectedFee, success.FeeAmount)
			require.Equal(t, tt.expectedChange, success.ChangeAmount)
		})
	}
}

func TestFailingSelectUtxos(t *testing.T) {
	t.Parallel()

	utxos := testutil.NewUtxos(20000, 20000)
	coinSelector := minimizefee_selector.NewMinimizeFeeCoinSelector()
	res := coinSelector.SelectUtxos(utxos, 50000, feeRate, dustThreshold)

	require.Equal(t, &domain.InsufficientFunds{
		Available: 40000,
		Required:  50177,
	}, res)
}
