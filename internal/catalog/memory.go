package catalog

import (
	"context"
	"sort"
	"sync"

	"cardwise/internal/core"
)

// MemoryStore is a Store backed by a map, for tests and seed tooling.
type MemoryStore struct {
	mu    sync.RWMutex
	cards map[string]core.CreditCard
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{cards: make(map[string]core.CreditCard)}
}

func (m *MemoryStore) ActiveCards(_ context.Context) ([]core.CreditCard, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []core.CreditCard
	for _, c := range m.cards {
		if c.Active {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryStore) GetCard(_ context.Context, id string) (core.CreditCard, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.cards[id]
	if !ok {
		return core.CreditCard{}, ErrCardNotFound
	}
	return c, nil
}

func (m *MemoryStore) UpsertCard(_ context.Context, card core.CreditCard) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cards[card.ID] = card
	return nil
}
