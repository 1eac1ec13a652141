package dbbadger

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/dgraph-io/badger/v4"
	log "github.com/sirupsen/logrus"
	"github.com/timshannon/badgerhold/v4"
	"github.com/vulpemventures/coinselector/internal/core/domain"
)

// utxoRow is the stored form of a domain.Utxo. Seq keeps track of the
// insertion order since rows are keyed by the hash of their outpoint.
type utxoRow struct {
	TxID           string
	VOut           uint32
	Value          uint64
	Confirmations  uint32
	IsChange       bool
	Frozen         bool
	Address        string
	Label          string
	DerivationPath string
	Network        string
	Seq            uint64
}

func newUtxoRow(u *domain.Utxo, seq uint64) utxoRow {
	return utxoRow{
		TxID:           u.TxID,
		VOut:           u.VOut,
		Value:          u.Value,
		Confirmations:  u.Confirmations,
		IsChange:       u.IsChange,
		Frozen:         u.Frozen,
		Address:        u.Address,
		Label:          u.Label,
		DerivationPath: u.DerivationPath,
		Network:        u.Network,
		Seq:            seq,
	}
}

func (r utxoRow) toDomain() *domain.Utxo {
	return &domain.Utxo{
		UtxoKey:        domain.UtxoKey{TxID: r.TxID, VOut: r.VOut},
		Value:          r.Value,
		Confirmations:  r.Confirmations,
		IsChange:       r.IsChange,
		Frozen:         r.Frozen,
		Address:        r.Address,
		Label:          r.Label,
		DerivationPath: r.DerivationPath,
		Network:        r.Network,
	}
}

type utxoRepository struct {
	store   *badgerhold.Store
	lastSeq uint64
	lock    *sync.Mutex

	log func(format string, a ...interface{})
}

// NewUtxoRepository opens the utxo store at the given directory. An empty
// directory makes the store in-memory.
func NewUtxoRepository(
	dbDir string, logger badger.Logger,
) (domain.UtxoRepository, error) {
	store, err := createDb(dbDir, logger)
	if err != nil {
		return nil, fmt.Errorf("opening utxo db: %w", err)
	}
	repo, err := newUtxoRepository(store)
	if err != nil {
		store.Close()
		return nil, err
	}
	return repo, nil
}

func newUtxoRepository(store *badgerhold.Store) (*utxoRepository, error) {
	logFn := func(format string, a ...interface{}) {
		format = fmt.Sprintf("utxo repository: %s", format)
		log.Debugf(format, a...)
	}
	repo := &utxoRepository{store, 0, &sync.Mutex{}, logFn}

	rows, err := repo.findRows(nil)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if row.Seq > repo.lastSeq {
			repo.lastSeq = row.Seq
		}
	}
	return repo, nil
}

func (r *utxoRepository) AddUtxos(
	_ context.Context, utxos []*domain.Utxo,
) (int, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	count := 0
	for _, u := range utxos {
		done, err := r.insertUtxo(u)
		if err != nil {
			return -1, err
		}
		if done {
			count++
		}
	}
	if count > 0 {
		r.log("added %d utxos", count)
	}
	return count, nil
}

func (r *utxoRepository) GetUtxosByKey(
	_ context.Context, utxoKeys []domain.UtxoKey,
) ([]*domain.Utxo, error) {
	utxos := make([]*domain.Utxo, 0, len(utxoKeys))
	for _, key := range utxoKeys {
		row, err := r.getRow(key)
		if err != nil {
			return nil, err
		}
		if row == nil {
			continue
		}
		utxos = append(utxos, row.toDomain())
	}
	return utxos, nil
}

func (r *utxoRepository) GetAllUtxos(
	_ context.Context,
) ([]*domain.Utxo, error) {
	return r.findUtxos(nil)
}

func (r *utxoRepository) GetSelectableUtxos(
	_ context.Context,
) ([]*domain.Utxo, error) {
	query := badgerhold.Where("Frozen").Eq(false)
	return r.findUtxos(query)
}

func (r *utxoRepository) FreezeUtxos(
	_ context.Context, utxoKeys []domain.UtxoKey,
) (int, error) {
	return r.updateUtxos(utxoKeys, func(u *domain.Utxo) bool {
		return u.Freeze()
	})
}

func (r *utxoRepository) UnfreezeUtxos(
	_ context.Context, utxoKeys []domain.UtxoKey,
) (int, error) {
	return r.updateUtxos(utxoKeys, func(u *domain.Utxo) bool {
		return u.Unfreeze()
	})
}

func (r *utxoRepository) DeleteUtxos(
	_ context.Context, utxoKeys []domain.UtxoKey,
) (int, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	count := 0
	for _, key := range utxoKeys {
		if err := r.store.Delete(key.Hash(), utxoRow{}); err != nil {
			if err == badgerhold.ErrNotFound {
				continue
			}
			return -1, err
		}
		count++
	}
	if count > 0 {
		r.log("deleted %d utxos", count)
	}
	return count, nil
}

func (r *utxoRepository) Close() {
	if err := r.store.Close(); err != nil {
		log.WithError(err).Warn("utxo repository: failed to close store")
	}
}

func (r *utxoRepository) insertUtxo(utxo *domain.Utxo) (bool, error) {
	row := newUtxoRow(utxo, r.lastSeq+1)
	if err := r.store.Insert(utxo.Key().Hash(), row); err != nil {
		if err == badgerhold.ErrKeyExists {
			return false, nil
		}
		return false, err
	}
	r.lastSeq++
	return true, nil
}

func (r *utxoRepository) updateUtxos(
	utxoKeys []domain.UtxoKey, update func(u *domain.Utxo) bool,
) (int, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	count := 0
	for _, key := range utxoKeys {
		row, err := r.getRow(key)
		if err != nil {
			return -1, err
		}
		if row == nil {
			continue
		}
		utxo := row.toDomain()
		if !update(utxo) {
			continue
		}
		if err := r.store.Update(
			key.Hash(), newUtxoRow(utxo, row.Seq),
		); err != nil {
			return -1, err
		}
		count++
	}
	return count, nil
}

func (r *utxoRepository) getRow(key domain.UtxoKey) (*utxoRow, error) {
	var row utxoRow
	if err := r.store.Get(key.Hash(), &row); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *utxoRepository) findUtxos(
	query *badgerhold.Query,
) ([]*domain.Utxo, error) {
	rows, err := r.findRows(query)
	if err != nil {
		return nil, err
	}
	utxos := make([]*domain.Utxo, 0, len(rows))
	for _, row := range rows {
		utxos = append(utxos, row.toDomain())
	}
	return utxos, nil
}

// findRows returns the rows matching the query sorted by insertion order.
func (r *utxoRepository) findRows(query *badgerhold.Query) ([]utxoRow, error) {
	var rows []utxoRow
	if err := r.store.Find(&rows, query); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Seq < rows[j].Seq
	})
	return rows, nil
}
