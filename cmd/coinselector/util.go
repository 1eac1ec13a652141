package main

import (
	"encoding/json"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/vulpemventures/coinselector/internal/core/domain"
)

type utxoInfo struct {
	Outpoint       string `json:"outpoint"`
	Value          uint64 `json:"value"`
	ValueBTC       string `json:"value_btc,omitempty"`
	Confirmations  uint32 `json:"confirmations"`
	IsChange       bool   `json:"is_change"`
	Frozen         bool   `json:"frozen"`
	Address        string `json:"address,omitempty"`
	Label          string `json:"label,omitempty"`
	DerivationPath string `json:"derivation_path,omitempty"`
	Network        string `json:"network,omitempty"`
}

func (u utxoInfo) toDomain() (*domain.Utxo, error) {
	key, err := domain.ParseUtxoKey(u.Outpoint)
	if err != nil {
		return nil, err
	}
	return &domain.Utxo{
		UtxoKey:        key,
		Value:          u.Value,
		Confirmations:  u.Confirmations,
		IsChange:       u.IsChange,
		Frozen:         u.Frozen,
		Address:        u.Address,
		Label:          u.Label,
		DerivationPath: u.DerivationPath,
		Network:        u.Network,
	}, nil
}

func utxoInfoFromDomain(u *domain.Utxo) utxoInfo {
	return utxoInfo{
		Outpoint:       u.Key().String(),
		Value:          u.Value,
		ValueBTC:       btcutil.Amount(u.Value).String(),
		Confirmations:  u.Confirmations,
		IsChange:       u.IsChange,
		Frozen:         u.Frozen,
		Address:        u.Address,
		Label:          u.Label,
		DerivationPath: u.DerivationPath,
		Network:        u.Network,
	}
}

func utxoInfoListFromDomain(utxos []*domain.Utxo) []utxoInfo {
	list := make([]utxoInfo, 0, len(utxos))
	for _, u := range utxos {
		list = append(list, utxoInfoFromDomain(u))
	}
	return list
}

type balanceInfo struct {
	Selectable  uint64 `json:"selectable"`
	Frozen      uint64 `json:"frozen"`
	Unconfirmed uint64 `json:"unconfirmed"`
	Total       uint64 `json:"total"`
	TotalBTC    string `json:"total_btc"`
}

func balanceInfoFromDomain(b domain.Balance) balanceInfo {
	return balanceInfo{
		Selectable:  b.Selectable,
		Frozen:      b.Frozen,
		Unconfirmed: b.Unconfirmed,
		Total:       b.Total(),
		TotalBTC:    btcutil.Amount(b.Total()).String(),
	}
}

type selectionInfo struct {
	Status    string     `json:"status"`
	Selected  []utxoInfo `json:"selected,omitempty"`
	Target    uint64     `json:"target"`
	Fee       uint64     `json:"fee,omitempty"`
	Change    uint64     `json:"change,omitempty"`
	Total     uint64     `json:"total,omitempty"`
	Available uint64     `json:"available,omitempty"`
	Required  uint64     `json:"required,omitempty"`
}

func selectionInfoFromDomain(
	res domain.SelectionResult, target uint64,
) selectionInfo {
	switch r := res.(type) {
	case *domain.SelectionSuccess:
		return selectionInfo{
			Status:   "success",
			Selected: utxoInfoListFromDomain(r.Selected),
			Target:   target,
			Fee:      r.FeeAmount,
			Change:   r.ChangeAmount,
			Total:    r.TotalValue(),
		}
	case *domain.InsufficientFunds:
		return selectionInfo{
			Status:    "insufficient_funds",
			Target:    target,
			Available: r.Available,
			Required:  r.Required,
		}
	default:
		return selectionInfo{Status: "unknown", Target: target}
	}
}

type eventInfo struct {
	Type  string       `json:"type"`
	Event domain.Event `json:"event"`
}

func eventInfoFromDomain(event domain.Event) eventInfo {
	return eventInfo{Type: event.Type().String(), Event: event}
}

func parseOutpoints(list []string) ([]domain.UtxoKey, error) {
	keys := make([]domain.UtxoKey, 0, len(list))
	for _, str := range list {
		key, err := domain.ParseUtxoKey(str)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", str, err)
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func printJSON(v interface{}) error {
	buf, err := json.MarshalIndent(v, "", "   ")
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}
	fmt.Println(string(buf))
	return nil
}
