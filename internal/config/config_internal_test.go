package config

import (
	"testing"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	require.NoError(t, validate())
	require.Equal(t, chaincfg.MainNetParams.Name, GetNetwork().Name)
	require.Equal(t, uint64(546), GetUint64(DustThresholdKey))
	require.Equal(t, 2.0, GetFloat64(FeeRateKey))

	tests := []struct {
		key string
		val interface{}
	}{
		{NetworkKey, "liquid"},
		{DatabaseTypeKey, "postgres"},
		{FeeRateKey, 0},
		{FeeRateKey, -1.5},
		{BnBTimeoutKey, 0},
		{ConsolidateMaxInputsKey, -1},
		{AvoidChangeMaxInputsKey, 0},
		{MinConfirmationsKey, -1},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			prev := vip.Get(tt.key)
			Set(tt.key, tt.val)
			defer Set(tt.key, prev)

			require.Error(t, validate())
		})
	}
}

func TestSupportedTypeString(t *testing.T) {
	require.Equal(t, "badger | inmemory", SupportedDbs.String())
}
