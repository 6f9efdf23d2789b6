package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/annel0/shopcraft/internal/world"
)

// MemoryStore реализует LayoutStore в памяти.
// Используется, когда каталог BadgerDB не задан, и в тестах.
// ВНИМАНИЕ: Данные теряются при перезапуске!
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]world.Layout
}

// NewMemoryStore создает пустое хранилище в памяти
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]world.Layout)}
}

// Save сохраняет копию снимка
func (s *MemoryStore) Save(ctx context.Context, name string, l world.Layout) error {
	if err := validateName(name); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	l.Entries = append([]world.LayoutEntry(nil), l.Entries...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[name] = l
	return nil
}

// Load возвращает копию снимка или ErrNotFound
func (s *MemoryStore) Load(ctx context.Context, name string) (world.Layout, error) {
	if err := ctx.Err(); err != nil {
		return world.Layout{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.data[name]
	if !ok {
		return world.Layout{}, ErrNotFound
	}
	l.Entries = append([]world.LayoutEntry(nil), l.Entries...)
	return l, nil
}

// List возвращает имена по возрастанию
func (s *MemoryStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.data))
	for name := range s.data {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Delete удаляет снимок
func (s *MemoryStore) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, name)
	return nil
}

// Close ничего не делает
func (s *MemoryStore) Close() error { return nil }
