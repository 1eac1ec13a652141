package inmemory

import (
	"context"
	"sync"

	"github.com/vulpemventures/coinselector/internal/core/domain"
)

type utxoInmemoryStore struct {
	utxos map[string]*domain.Utxo
	keys  []domain.UtxoKey
	lock  *sync.RWMutex
}

type utxoRepository struct {
	store *utxoInmemoryStore
}

// NewUtxoRepository returns a volatile utxo repository. Utxos are copied in
// and out, callers can't mutate the stored ones.
func NewUtxoRepository() domain.UtxoRepository {
	return newUtxoRepository()
}

func newUtxoRepository() *utxoRepository {
	return &utxoRepository{
		store: &utxoInmemoryStore{
			utxos: make(map[string]*domain.Utxo),
			keys:  make([]domain.UtxoKey, 0),
			lock:  &sync.RWMutex{},
		},
	}
}

func (r *utxoRepository) AddUtxos(
	_ context.Context, utxos []*domain.Utxo,
) (int, error) {
	r.store.lock.Lock()
	defer r.store.lock.Unlock()

	count := 0
	for _, u := range utxos {
		key := u.Key()
		if _, ok := r.store.utxos[key.Hash()]; ok {
			continue
		}
		r.store.utxos[key.Hash()] = u.Clone()
		r.store.keys = append(r.store.keys, key)
		count++
	}
	return count, nil
}

func (r *utxoRepository) GetUtxosByKey(
	_ context.Context, utxoKeys []domain.UtxoKey,
) ([]*domain.Utxo, error) {
	r.store.lock.RLock()
	defer r.store.lock.RUnlock()

	utxos := make([]*domain.Utxo, 0, len(utxoKeys))
	for _, key := range utxoKeys {
		u, ok := r.store.utxos[key.Hash()]
		if !ok {
			continue
		}
		utxos = append(utxos, u.Clone())
	}
	return utxos, nil
}

func (r *utxoRepository) GetAllUtxos(
	_ context.Context,
) ([]*domain.Utxo, error) {
	r.store.lock.RLock()
	defer r.store.lock.RUnlock()

	return r.getUtxos(false), nil
}

func (r *utxoRepository) GetSelectableUtxos(
	_ context.Context,
) ([]*domain.Utxo, error) {
	r.store.lock.RLock()
	defer r.store.lock.RUnlock()

	return r.getUtxos(true), nil
}

func (r *utxoRepository) FreezeUtxos(
	_ context.Context, utxoKeys []domain.UtxoKey,
) (int, error) {
	r.store.lock.Lock()
	defer r.store.lock.Unlock()

	count := 0
	for _, key := range utxoKeys {
		if u, ok := r.store.utxos[key.Hash()]; ok && u.Freeze() {
			count++
		}
	}
	return count, nil
}

func (r *utxoRepository) UnfreezeUtxos(
	_ context.Context, utxoKeys []domain.UtxoKey,
) (int, error) {
	r.store.lock.Lock()
	defer r.store.lock.Unlock()

	count := 0
	for _, key := range utxoKeys {
		if u, ok := r.store.utxos[key.Hash()]; ok && u.Unfreeze() {
			count++
		}
	}
	return count, nil
}

func (r *utxoRepository) DeleteUtxos(
	_ context.Context, utxoKeys []domain.UtxoKey,
) (int, error) {
	r.store.lock.Lock()
	defer r.store.lock.Unlock()

	deleted := make(map[domain.UtxoKey]struct{})
	for _, key := range utxoKeys {
		if _, ok := r.store.utxos[key.Hash()]; !ok {
			continue
		}
		delete(r.store.utxos, key.Hash())
		deleted[key] = struct{}{}
	}
	if len(deleted) == 0 {
		return 0, nil
	}

	keys := make([]domain.UtxoKey, 0, len(r.store.keys)-len(deleted))
	for _, key := range r.store.keys {
		if _, ok := deleted[key]; !ok {
			keys = append(keys, key)
		}
	}
	r.store.keys = keys
	return len(deleted), nil
}

func (r *utxoRepository) Close() {}

func (r *utxoRepository) getUtxos(selectableOnly bool) []*domain.Utxo {
	utxos := make([]*domain.Utxo, 0, len(r.store.keys))
	for _, key := range r.store.keys {
		u := r.store.utxos[key.Hash()]
		if selectableOnly && u.IsFrozen() {
			continue
		}
		utxos = append(utxos, u.Clone())
	}
	return utxos
}
