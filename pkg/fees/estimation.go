package fees

import (
	"math"

	"github.com/btcsuite/btcd/wire"
	"github.com/btcsuite/btcwallet/wallet/txsizes"
	"github.com/shopspring/decimal"
)

const (
	// TxOverheadVSize is the size of version, locktime, in/out counters,
	// segwit marker and flag, rounded up.
	TxOverheadVSize = 10
	// InputVSize is the virtual size of a P2WPKH input.
	InputVSize = 68
	// OutputVSize is the virtual size of a P2WPKH output.
	OutputVSize = 31
)

// EstimateTxVSize makes an estimation of the virtual size of a transaction
// spending the given number of native segwit (P2WPKH) inputs and paying to the
// given number of P2WPKH outputs.
func EstimateTxVSize(numInputs, numOutputs int) uint64 {
	if numInputs < 0 {
		numInputs = 0
	}
	if numOutputs < 0 {
		numOutputs = 0
	}
	return uint64(
		TxOverheadVSize + numInputs*InputVSize + numOutputs*OutputVSize,
	)
}

// EstimateFees returns the fee amount for a transaction of the given number
// of inputs and outputs at the given sats/vbyte ratio.
func EstimateFees(numInputs, numOutputs int, satsPerVByte float64) uint64 {
	return FeeForVSize(EstimateTxVSize(numInputs, numOutputs), satsPerVByte)
}

// InputFee returns the marginal fee amount required to spend one more
// P2WPKH input at the given sats/vbyte ratio.
func InputFee(satsPerVByte float64) uint64 {
	return FeeForVSize(InputVSize, satsPerVByte)
}

// FeeForVSize returns ceil(vsize * satsPerVByte). The multiplication is done
// in decimal arithmetic so that ratios like 1.1 sats/vbyte don't round up to
// an extra sat because of their binary representation.
// Non positive, NaN or infinite ratios result in a zero fee.
func FeeForVSize(vsize uint64, satsPerVByte float64) uint64 {
	if !(satsPerVByte > 0) || math.IsInf(satsPerVByte, 0) {
		return 0
	}
	fee := decimal.NewFromFloat(satsPerVByte).
		Mul(decimal.NewFromInt(int64(vsize))).
		Ceil()
	return uint64(fee.IntPart())
}

// EstimateTxVSizeByScriptType makes an estimation of the virtual size of a
// transaction for which is required to specify the type of every input and
// output, among those supported by the wallet (P2PKH, P2SH(P2WPKH), P2WPKH,
// P2TR).
func EstimateTxVSizeByScriptType(inputs, outputs []ScriptType) uint64 {
	var numP2PKH, numP2TR, numP2WPKH, numNested int
	for _, in := range inputs {
		switch in {
		case P2PKH:
			numP2PKH++
		case P2SH_P2WPKH:
			numNested++
		case P2TR:
			numP2TR++
		default:
			numP2WPKH++
		}
	}

	txOuts := make([]*wire.TxOut, 0, len(outputs))
	for _, out := range outputs {
		txOuts = append(txOuts, &wire.TxOut{
			PkScript: make([]byte, out.PkScriptSize()),
		})
	}

	vsize := txsizes.EstimateVirtualSize(
		numP2PKH, numP2TR, numP2WPKH, numNested, txOuts, 0,
	)
	return uint64(vsize)
}

// EstimateFeesByScriptType returns the fee amount for a transaction with the
// given input and output types at the given sats/vbyte ratio.
func EstimateFeesByScriptType(
	inputs, outputs []ScriptType, satsPerVByte float64,
) uint64 {
	return FeeForVSize(
		EstimateTxVSizeByScriptType(inputs, outputs), satsPerVByte,
	)
}
