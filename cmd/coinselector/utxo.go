package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/vulpemventures/coinselector/internal/core/domain"
)

var (
	utxoOutpoint       string
	utxoValue          uint64
	utxoConfirmations  uint32
	utxoIsChange       bool
	utxoAddress        string
	utxoLabel          string
	utxoDerivationPath string
	utxoFile           string
	outpoints          []string

	utxoAddCmd = &cobra.Command{
		Use:   "add",
		Short: "add utxos to the set",
		Long: "this command lets you add a single utxo described by flags, or " +
			"a list of them from a JSON file",
		RunE: utxoAdd,
	}
	utxoListCmd = &cobra.Command{
		Use:   "list",
		Short: "list utxos",
		Long:  "this command returns the list of all utxos of the set",
		RunE:  utxoList,
	}
	utxoRemoveCmd = &cobra.Command{
		Use:   "remove",
		Short: "remove spent utxos",
		Long:  "this command lets you remove the given utxos from the set",
		RunE:  utxoRemove,
	}
	utxoFreezeCmd = &cobra.Command{
		Use:   "freeze",
		Short: "freeze utxos",
		Long: "this command lets you exclude the given utxos from automatic " +
			"coin selection",
		RunE: utxoFreeze,
	}
	utxoUnfreezeCmd = &cobra.Command{
		Use:   "unfreeze",
		Short: "unfreeze utxos",
		Long: "this command makes the given frozen utxos selectable again by " +
			"automatic coin selection",
		RunE: utxoUnfreeze,
	}
	utxoBalanceCmd = &cobra.Command{
		Use:   "balance",
		Short: "get balance",
		Long: "this command returns info about the balance of the utxo set " +
			"(selectable, frozen and unconfirmed)",
		RunE: utxoBalance,
	}
	utxoCmd = &cobra.Command{
		Use:   "utxo",
		Short: "manage the utxo set",
		Long: "this command lets you add, remove, freeze, unfreeze or list the " +
			"utxos of the set, and get its balance",
	}
)

func init() {
	utxoAddCmd.Flags().StringVar(
		&utxoOutpoint, "outpoint", "", "utxo outpoint in the form txid:vout",
	)
	utxoAddCmd.Flags().Uint64Var(&utxoValue, "value", 0, "utxo value in sats")
	utxoAddCmd.Flags().Uint32Var(
		&utxoConfirmations, "confirmations", 0, "number of confirmations",
	)
	utxoAddCmd.Flags().BoolVar(
		&utxoIsChange, "change", false, "whether the utxo is a change output",
	)
	utxoAddCmd.Flags().StringVar(&utxoAddress, "address", "", "owning address")
	utxoAddCmd.Flags().StringVar(&utxoLabel, "label", "", "user defined label")
	utxoAddCmd.Flags().StringVar(
		&utxoDerivationPath, "derivation-path", "", "key derivation path",
	)
	utxoAddCmd.Flags().StringVarP(
		&utxoFile, "file", "f", "",
		"path of a JSON file containing the list of utxos to add",
	)

	for _, cmd := range []*cobra.Command{
		utxoRemoveCmd, utxoFreezeCmd, utxoUnfreezeCmd,
	} {
		cmd.Flags().StringSliceVar(
			&outpoints, "outpoint", nil, "list of utxo outpoints (txid:vout)",
		)
		cmd.MarkFlagRequired("outpoint")
	}

	utxoCmd.AddCommand(
		utxoAddCmd, utxoListCmd, utxoRemoveCmd, utxoFreezeCmd, utxoUnfreezeCmd,
		utxoBalanceCmd,
	)
}

func utxoAdd(_ *cobra.Command, _ []string) error {
	utxos, err := utxosToAdd()
	if err != nil {
		return err
	}

	count, err := appCfg.UtxoManager().AddUtxos(context.Background(), utxos)
	if err != nil {
		return err
	}
	return printJSON(map[string]int{"added": count})
}

func utxosToAdd() ([]*domain.Utxo, error) {
	if utxoFile != "" {
		buf, err := os.ReadFile(utxoFile)
		if err != nil {
			return nil, fmt.Errorf("reading utxo file: %w", err)
		}
		list := make([]utxoInfo, 0)
		if err := json.Unmarshal(buf, &list); err != nil {
			return nil, fmt.Errorf("invalid utxo file: %w", err)
		}
		utxos := make([]*domain.Utxo, 0, len(list))
		for _, u := range list {
			utxo, err := u.toDomain()
			if err != nil {
				return nil, err
			}
			utxos = append(utxos, utxo)
		}
		return utxos, nil
	}

	if utxoOutpoint == "" {
		return nil, fmt.Errorf("either --outpoint or --file must be set")
	}
	utxo, err := utxoInfo{
		Outpoint:       utxoOutpoint,
		Value:          utxoValue,
		Confirmations:  utxoConfirmations,
		IsChange:       utxoIsChange,
		Address:        utxoAddress,
		Label:          utxoLabel,
		DerivationPath: utxoDerivationPath,
	}.toDomain()
	if err != nil {
		return nil, err
	}
	return []*domain.Utxo{utxo}, nil
}

func utxoList(_ *cobra.Command, _ []string) error {
	utxos, err := appCfg.UtxoManager().ListUtxos(context.Background())
	if err != nil {
		return err
	}
	return printJSON(utxoInfoListFromDomain(utxos))
}

func utxoRemove(_ *cobra.Command, _ []string) error {
	keys, err := parseOutpoints(outpoints)
	if err != nil {
		return err
	}

	count, err := appCfg.UtxoManager().RemoveUtxos(context.Background(), keys)
	if err != nil {
		return err
	}
	return printJSON(map[string]int{"removed": count})
}

func utxoFreeze(_ *cobra.Command, _ []string) error {
	keys, err := parseOutpoints(outpoints)
	if err != nil {
		return err
	}

	manager := appCfg.UtxoManager()
	for _, key := range keys {
		if err := manager.FreezeUtxo(context.Background(), key); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	return printJSON(map[string]int{"frozen": len(keys)})
}

func utxoUnfreeze(_ *cobra.Command, _ []string) error {
	keys, err := parseOutpoints(outpoints)
	if err != nil {
		return err
	}

	manager := appCfg.UtxoManager()
	for _, key := range keys {
		if err := manager.UnfreezeUtxo(context.Background(), key); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	return printJSON(map[string]int{"unfrozen": len(keys)})
}

func utxoBalance(_ *cobra.Command, _ []string) error {
	balance, err := appCfg.UtxoManager().GetBalance(context.Background())
	if err != nil {
		return err
	}
	return printJSON(balanceInfoFromDomain(*balance))
}
