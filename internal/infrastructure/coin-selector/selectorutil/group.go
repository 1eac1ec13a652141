package selectorutil

import (
	"github.com/vulpemventures/coinselector/internal/core/domain"
)

// AddressGroup is the list of utxos locked by the same address.
type AddressGroup struct {
	Address string
	Utxos   []*domain.Utxo
}

// Value returns the total value of the group.
func (g AddressGroup) Value() uint64 {
	return domain.TotalValue(g.Utxos)
}

// GroupByAddress groups the utxos by owning address. Groups are returned in
// order of first appearance. Utxos without address can't be linked to any
// other, therefore each one of them forms a group on its own.
func GroupByAddress(utxos []*domain.Utxo) []AddressGroup {
	groups := make([]AddressGroup, 0)
	indexByAddress := make(map[string]int)
	for _, u := range utxos {
		if u.Address == "" {
			groups = append(groups, AddressGroup{Utxos: []*domain.Utxo{u}})
			continue
		}
		i, ok := indexByAddress[u.Address]
		if !ok {
			indexByAddress[u.Address] = len(groups)
			groups = append(groups, AddressGroup{
				Address: u.Address, Utxos: []*domain.Utxo{u},
			})
			continue
		}
		groups[i].Utxos = append(groups[i].Utxos, u)
	}
	return groups
}

// CountAddresses returns the number of distinct addresses linked by the given
// utxos. Utxos without address count as one address each.
func CountAddresses(utxos []*domain.Utxo) int {
	return len(GroupByAddress(utxos))
}
