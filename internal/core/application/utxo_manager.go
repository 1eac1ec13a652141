package application

import (
	"context"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
	"github.com/vulpemventures/coinselector/internal/core/domain"
	"github.com/vulpemventures/coinselector/internal/core/ports"
)

// UtxoManager is the sole owner of the wallet's UTXO set:
//   - Add utxos discovered by the wallet, publishing a domain.StatusChangedEvent
//     for each new one.
//   - Remove spent utxos, publishing a domain.StatusChangedEvent for each
//     removed one.
//   - Freeze or unfreeze a utxo, publishing a domain.FrozenEvent or a
//     domain.UnfrozenEvent when its status actually changes.
//   - Select utxos with an automatic strategy, over the utxos with at least
//     the configured number of confirmations.
//   - Select exactly the given outpoints (coin control).
//   - Report the balance of the set.
//
// Unlike a bare utxo set, the manager serializes mutations and selections
// with a lock, so it can be shared by multiple goroutines.
type UtxoManager struct {
	repo             domain.UtxoRepository
	selector         *Selector
	publisher        ports.EventPublisher
	network          string
	minConfirmations uint32

	lock *sync.RWMutex
	log  func(format string, a ...interface{})
}

func NewUtxoManager(
	repo domain.UtxoRepository, selector *Selector,
	publisher ports.EventPublisher, network string, minConfirmations uint32,
) *UtxoManager {
	logFn := func(format string, a ...interface{}) {
		format = fmt.Sprintf("utxo manager: %s", format)
		log.Debugf(format, a...)
	}
	if publisher == nil {
		publisher = NewEventPublishers()
	}
	if selector == nil {
		selector = NewSelector(SelectorOptions{}, publisher)
	}
	return &UtxoManager{
		repo, selector, publisher, network, minConfirmations,
		&sync.RWMutex{}, logFn,
	}
}

func (m *UtxoManager) Network() string {
	return m.network
}

func (m *UtxoManager) AddUtxo(ctx context.Context, utxo *domain.Utxo) error {
	_, err := m.AddUtxos(ctx, []*domain.Utxo{utxo})
	return err
}

// AddUtxos adds the given utxos to the set and returns how many of them were
// actually new. Utxos without network are assigned the manager's one.
func (m *UtxoManager) AddUtxos(
	ctx context.Context, utxos []*domain.Utxo,
) (int, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	keys := make(UtxoKeys, 0, len(utxos))
	list := make([]*domain.Utxo, 0, len(utxos))
	for _, u := range utxos {
		if err := u.Validate(); err != nil {
			return -1, fmt.Errorf("utxo %s: %w", u.Key(), err)
		}
		utxo := u.Clone()
		if utxo.Network == "" {
			utxo.Network = m.network
		}
		if utxo.Network != m.network {
			return -1, fmt.Errorf(
				"%w: utxo %s is on %s, expected %s",
				domain.ErrNetworkMismatch, utxo.Key(), utxo.Network, m.network,
			)
		}
		keys = append(keys, utxo.Key())
		list = append(list, utxo)
	}

	existing, err := m.repo.GetUtxosByKey(ctx, keys)
	if err != nil {
		return -1, err
	}
	skip := make(map[domain.UtxoKey]struct{}, len(existing))
	for _, u := range existing {
		skip[u.Key()] = struct{}{}
	}
	newUtxos := make([]*domain.Utxo, 0, len(list))
	for _, u := range list {
		if _, ok := skip[u.Key()]; ok {
			continue
		}
		skip[u.Key()] = struct{}{}
		newUtxos = append(newUtxos, u)
	}
	if len(newUtxos) == 0 {
		return 0, nil
	}

	count, err := m.repo.AddUtxos(ctx, newUtxos)
	if err != nil {
		return -1, err
	}
	for _, u := range newUtxos {
		m.publisher.Publish(domain.StatusChangedEvent{
			Outpoint: u.Key(), Status: domain.UtxoStatusAdded,
		})
	}
	m.log("added %d utxos", count)
	return count, nil
}

// RemoveUtxos removes the given utxos, typically once spent, and returns how
// many of them were actually part of the set.
func (m *UtxoManager) RemoveUtxos(
	ctx context.Context, keys []domain.UtxoKey,
) (int, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	keys = UtxoKeys(keys).unique()
	existing, err := m.repo.GetUtxosByKey(ctx, keys)
	if err != nil {
		return -1, err
	}
	if len(existing) == 0 {
		return 0, nil
	}

	count, err := m.repo.DeleteUtxos(ctx, Utxos(existing).Keys())
	if err != nil {
		return -1, err
	}
	for _, u := range existing {
		m.publisher.Publish(domain.StatusChangedEvent{
			Outpoint: u.Key(), Status: domain.UtxoStatusRemoved,
		})
	}
	m.log("removed %d utxos", count)
	return count, nil
}

// FreezeUtxo excludes the given utxo from automatic selection. It returns
// domain.ErrUtxoNotFound if the utxo is not part of the set. Freezing an
// already frozen utxo is a no-op.
func (m *UtxoManager) FreezeUtxo(ctx context.Context, key domain.UtxoKey) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	if err := m.requireUtxo(ctx, key); err != nil {
		return err
	}
	count, err := m.repo.FreezeUtxos(ctx, []domain.UtxoKey{key})
	if err != nil {
		return err
	}
	if count > 0 {
		m.publisher.Publish(domain.FrozenEvent{Outpoint: key})
		m.log("frozen utxo %s", key)
	}
	return nil
}

// UnfreezeUtxo makes the given utxo available again for automatic selection.
// It returns domain.ErrUtxoNotFound if the utxo is not part of the set.
// Unfreezing a utxo that is not frozen is a no-op.
func (m *UtxoManager) UnfreezeUtxo(
	ctx context.Context, key domain.UtxoKey,
) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	if err := m.requireUtxo(ctx, key); err != nil {
		return err
	}
	count, err := m.repo.UnfreezeUtxos(ctx, []domain.UtxoKey{key})
	if err != nil {
		return err
	}
	if count > 0 {
		m.publisher.Publish(domain.UnfrozenEvent{Outpoint: key})
		m.log("unfrozen utxo %s", key)
	}
	return nil
}

// ListUtxos returns the entire set, in insertion order.
func (m *UtxoManager) ListUtxos(ctx context.Context) ([]*domain.Utxo, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	return m.repo.GetAllUtxos(ctx)
}

func (m *UtxoManager) GetBalance(ctx context.Context) (*domain.Balance, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	utxos, err := m.repo.GetAllUtxos(ctx)
	if err != nil {
		return nil, err
	}

	balance := &domain.Balance{}
	for _, u := range utxos {
		switch {
		case u.IsFrozen():
			balance.Frozen += u.Value
		case u.Confirmations < m.minConfirmations:
			balance.Unconfirmed += u.Value
		default:
			balance.Selectable += u.Value
		}
	}
	return balance, nil
}

// SelectUtxos runs the given automatic strategy over the utxos of the set
// with enough confirmations. The returned utxos are copies, the set is left
// untouched.
func (m *UtxoManager) SelectUtxos(
	ctx context.Context, targetAmount uint64,
	strategy domain.SelectionStrategy, feeRate float64,
) (domain.SelectionResult, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	utxos, err := m.repo.GetAllUtxos(ctx)
	if err != nil {
		return nil, err
	}

	candidates := make(Utxos, 0, len(utxos))
	for _, u := range utxos {
		if u.Confirmations >= m.minConfirmations {
			candidates = append(candidates, u)
		}
	}
	if skipped := len(utxos) - len(candidates); skipped > 0 {
		m.log(
			"skipped %d utxos with less than %d confirmations",
			skipped, m.minConfirmations,
		)
	}

	return m.selector.Select(candidates.Clone(), targetAmount, strategy, feeRate)
}

// SelectCoinControl spends exactly the utxos identified by the given keys,
// frozen and unconfirmed ones included. Keys not found in the set are
// excluded, which may result in insufficient funds. Without keys, the result
// is always insufficient funds.
func (m *UtxoManager) SelectCoinControl(
	ctx context.Context, keys []domain.UtxoKey,
	targetAmount uint64, feeRate float64,
) (domain.SelectionResult, error) {
	if len(keys) == 0 {
		return m.selector.Select(
			nil, targetAmount, domain.StrategyCoinControl, feeRate,
		)
	}

	m.lock.RLock()
	defer m.lock.RUnlock()

	keys = UtxoKeys(keys).unique()
	utxos, err := m.repo.GetUtxosByKey(ctx, keys)
	if err != nil {
		return nil, err
	}
	if missing := len(keys) - len(utxos); missing > 0 {
		m.log("coin control: %d outpoints not found in utxo set", missing)
	}

	return m.selector.SelectCoinControl(
		Utxos(utxos).Clone(), targetAmount, feeRate,
	)
}

func (m *UtxoManager) requireUtxo(
	ctx context.Context, key domain.UtxoKey,
) error {
	utxos, err := m.repo.GetUtxosByKey(ctx, []domain.UtxoKey{key})
	if err != nil {
		return err
	}
	if len(utxos) == 0 {
		return fmt.Errorf("%w: %s", domain.ErrUtxoNotFound, key)
	}
	return nil
}

func (m *UtxoManager) Close() {
	m.repo.Close()
}
