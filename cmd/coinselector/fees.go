package main

import (
	"github.com/btcsuite/btcd/btcutil"
	"github.com/spf13/cobra"
	"github.com/vulpemventures/coinselector/pkg/fees"
)

var (
	inputTypes  []string
	outputTypes []string

	estimateFeeCmd = &cobra.Command{
		Use:   "estimate-fee",
		Short: "estimate the fee of a transaction",
		Long: "this command estimates size and fee of a transaction given the " +
			"script type of each one of its inputs and outputs " +
			"(p2pkh, p2sh-p2wpkh, p2wpkh, p2tr)",
		RunE: estimateFee,
	}
)

func init() {
	estimateFeeCmd.Flags().StringSliceVar(
		&inputTypes, "inputs", nil, "script type of every input",
	)
	estimateFeeCmd.Flags().StringSliceVar(
		&outputTypes, "outputs", nil, "script type of every output",
	)
	estimateFeeCmd.Flags().Float64Var(
		&feeRate, "fee-rate", 0,
		"fee rate in sats/vbyte, defaults to the configured one",
	)
	estimateFeeCmd.MarkFlagRequired("inputs")
	estimateFeeCmd.MarkFlagRequired("outputs")
}

func estimateFee(_ *cobra.Command, _ []string) error {
	ins, err := fees.ParseScriptTypes(inputTypes)
	if err != nil {
		return err
	}
	outs, err := fees.ParseScriptTypes(outputTypes)
	if err != nil {
		return err
	}

	rate := getFeeRate()
	vsize := fees.EstimateTxVSizeByScriptType(ins, outs)
	fee := fees.FeeForVSize(vsize, rate)
	return printJSON(map[string]interface{}{
		"vsize":    vsize,
		"fee_rate": rate,
		"fee":      fee,
		"fee_btc":  btcutil.Amount(fee).String(),
	})
}
