package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/patrickmn/go-cache"

	"pgm_storefront/internal/storage"
)

// shared is the state behind every handle opened on the same store.
type shared struct {
	mu      sync.Mutex
	cache   *cache.Cache
	handles map[int]*storage.Watchers
	nextTab int
}

// Storage is an in-process store. Handles created with Tab share the data
// and see each other's writes through Watch, like browser tabs do.
type Storage struct {
	s   *shared
	tab int
}

func New() *Storage {
	s := &shared{
		cache:   cache.New(cache.NoExpiration, 0),
		handles: make(map[int]*storage.Watchers),
	}
	return s.open()
}

func (s *shared) open() *Storage {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextTab
	s.nextTab++
	s.handles[id] = storage.NewWatchers()

	return &Storage{s: s, tab: id}
}

// Tab opens another handle on the same data.
func (m *Storage) Tab() *Storage {
	return m.s.open()
}

func (m *Storage) Get(ctx context.Context, key string) (string, error) {
	const op = "storage.memory.Get"

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	v, ok := m.s.cache.Get(key)
	if !ok {
		return "", storage.ErrorNoSuchKey
	}

	return v.(string), nil
}

func (m *Storage) Set(ctx context.Context, values map[string]string) error {
	const op = "storage.memory.Set"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	changes := make([]storage.Change, 0, len(values))
	for k, v := range values {
		if k == "" {
			return fmt.Errorf("%s: %w", op, storage.ErrEmptyKey)
		}
		changes = append(changes, storage.Change{Key: k, Value: v})
	}
	sortChanges(changes)

	m.s.mu.Lock()
	for _, c := range changes {
		m.s.cache.Set(c.Key, c.Value, cache.NoExpiration)
	}
	m.s.mu.Unlock()

	m.broadcast(changes)

	return nil
}

func (m *Storage) Delete(ctx context.Context, keys ...string) error {
	const op = "storage.memory.Delete"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	var changes []storage.Change

	m.s.mu.Lock()
	for _, k := range keys {
		if _, ok := m.s.cache.Get(k); !ok {
			continue
		}
		m.s.cache.Delete(k)
		changes = append(changes, storage.Change{Key: k, Deleted: true})
	}
	m.s.mu.Unlock()

	m.broadcast(changes)

	return nil
}

func (m *Storage) Watch(ctx context.Context) (<-chan storage.Change, error) {
	m.s.mu.Lock()
	w := m.s.handles[m.tab]
	m.s.mu.Unlock()

	return w.Subscribe(ctx), nil
}

func (m *Storage) broadcast(changes []storage.Change) {
	if len(changes) == 0 {
		return
	}

	m.s.mu.Lock()
	targets := make([]*storage.Watchers, 0, len(m.s.handles))
	for id, w := range m.s.handles {
		if id != m.tab {
			targets = append(targets, w)
		}
	}
	m.s.mu.Unlock()

	for _, w := range targets {
		w.Notify(changes...)
	}
}

func sortChanges(changes []storage.Change) {
	sort.Slice(changes, func(i, j int) bool { return changes[i].Key < changes[j].Key })
}
