package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vulpemventures/coinselector/internal/config"
	"github.com/vulpemventures/coinselector/internal/core/domain"
)

var (
	strategyName string
	targetAmount uint64
	feeRate      float64

	selectCmd = &cobra.Command{
		Use:   "select",
		Short: "select the utxos to spend",
		Long: "this command selects the utxos covering the target amount plus " +
			"fees with the given strategy, among those not frozen and with " +
			"enough confirmations",
		RunE: selectUtxos,
	}
	coinControlCmd = &cobra.Command{
		Use:   "coin-control",
		Short: "spend exactly the given utxos",
		Long: "this command computes fee and change for spending exactly the " +
			"given utxos, frozen ones included",
		RunE: selectCoinControl,
	}
)

func init() {
	selectCmd.Flags().StringVarP(
		&strategyName, "strategy", "s", domain.StrategyMinimizeFee.String(),
		fmt.Sprintf(
			"coin selection strategy, one of: %s",
			strings.Join(domain.SelectionStrategyNames(), " | "),
		),
	)
	coinControlCmd.Flags().StringSliceVar(
		&outpoints, "outpoint", nil, "list of utxo outpoints (txid:vout)",
	)

	for _, cmd := range []*cobra.Command{selectCmd, coinControlCmd} {
		cmd.Flags().Uint64VarP(
			&targetAmount, "target", "t", 0, "amount to send in sats",
		)
		cmd.Flags().Float64Var(
			&feeRate, "fee-rate", 0,
			"fee rate in sats/vbyte, defaults to the configured one",
		)
		cmd.MarkFlagRequired("target")
	}
}

func selectUtxos(_ *cobra.Command, _ []string) error {
	strategy, err := domain.ParseSelectionStrategy(strategyName)
	if err != nil {
		return err
	}

	res, err := appCfg.UtxoManager().SelectUtxos(
		context.Background(), targetAmount, strategy, getFeeRate(),
	)
	if err != nil {
		return err
	}
	return printJSON(selectionInfoFromDomain(res, targetAmount))
}

func selectCoinControl(_ *cobra.Command, _ []string) error {
	keys, err := parseOutpoints(outpoints)
	if err != nil {
		return err
	}

	res, err := appCfg.UtxoManager().SelectCoinControl(
		context.Background(), keys, targetAmount, getFeeRate(),
	)
	if err != nil {
		return err
	}
	return printJSON(selectionInfoFromDomain(res, targetAmount))
}

func getFeeRate() float64 {
	if feeRate > 0 {
		return feeRate
	}
	return config.GetFloat64(config.FeeRateKey)
}
