package store

import (
	"context"
	"maps"
	"sync"

	"github.com/rushteam/mindprep/core"
)

// MemoryStore 是内存实现的 Store，用于测试/开发，进程退出后数据丢失。
// 普通 key 与 Hash 共用一个命名空间：Set 会覆盖同名 Hash，HSet 会覆盖同名普通 key。
type MemoryStore struct {
	mu     sync.RWMutex
	data   map[string][]byte
	hashes map[string]map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data:   make(map[string][]byte),
		hashes: make(map[string]map[string][]byte),
	}
}

func (m *MemoryStore) Name() string { return "memory" }

func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[key]
	if !ok {
		return nil, core.ErrStoreNotFound
	}
	return v, nil
}

func (m *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.hashes, key)
	m.data[key] = value
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)
	delete(m.hashes, key)
	return nil
}

func (m *MemoryStore) HSet(ctx context.Context, key string, fields map[string][]byte) error {
	if len(fields) == 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)
	h := m.hashes[key]
	if h == nil {
		h = make(map[string][]byte, len(fields))
		m.hashes[key] = h
	}
	maps.Copy(h, fields)
	return nil
}

func (m *MemoryStore) HGetAll(ctx context.Context, key string) (map[string][]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	h := m.hashes[key]
	out := make(map[string][]byte, len(h))
	maps.Copy(out, h)
	return out, nil
}

func (m *MemoryStore) Close() error {
	return nil
}

var _ core.Store = (*MemoryStore)(nil)
