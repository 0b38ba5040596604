package repository

import (
	"context"
	"maps"
	"sync"
)

// MemoryStore in-memory хранилище ключ-значение; используется в тестах и в режиме STORE_DRIVER=memory
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string][]byte)}
}

// Ensure interfaces
var _ Store = (*MemoryStore)(nil)

// transaction-aware locking helpers
type txKey struct{}

// memoryTx буфер записей открытой транзакции
type memoryTx struct {
	writes  map[string][]byte
	deleted map[string]bool
}

func txFrom(ctx context.Context) *memoryTx {
	tx, _ := ctx.Value(txKey{}).(*memoryTx)
	return tx
}

func (m *MemoryStore) rlock(ctx context.Context) {
	if txFrom(ctx) == nil {
		m.mu.RLock()
	}
}
func (m *MemoryStore) runlock(ctx context.Context) {
	if txFrom(ctx) == nil {
		m.mu.RUnlock()
	}
}
func (m *MemoryStore) wlock(ctx context.Context) {
	if txFrom(ctx) == nil {
		m.mu.Lock()
	}
}
func (m *MemoryStore) wunlock(ctx context.Context) {
	if txFrom(ctx) == nil {
		m.mu.Unlock()
	}
}

func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)
	if tx := txFrom(ctx); tx != nil {
		if tx.deleted[key] {
			return nil, false, nil
		}
		if v, ok := tx.writes[key]; ok {
			return clone(v), true, nil
		}
	}
	v, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}
	// return copy
	return clone(v), true, nil
}

func (m *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)
	if tx := txFrom(ctx); tx != nil {
		tx.writes[key] = clone(value)
		delete(tx.deleted, key)
		return nil
	}
	m.values[key] = clone(value)
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)
	if tx := txFrom(ctx); tx != nil {
		tx.deleted[key] = true
		delete(tx.writes, key)
		return nil
	}
	delete(m.values, key)
	return nil
}

// WithTransaction держит блокировку записи на всё время fn и применяет буфер только при успехе
func (m *MemoryStore) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFrom(ctx) != nil {
		return fn(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	tx := &memoryTx{writes: make(map[string][]byte), deleted: make(map[string]bool)}
	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}
	for k := range tx.deleted {
		delete(m.values, k)
	}
	maps.Copy(m.values, tx.writes)
	return nil
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
