package session

import "sync"

// MemoryStore keeps session state in process memory
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.values[key]
	return value, ok, nil
}

func (m *MemoryStore) Set(key, value string) error {
	if err := checkKey(key); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = value
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	clear(m.values)
	return nil
}

// MemoryBackend keeps one map of values per scope. A scope only takes memory
// once something is written to it, and Clear releases it.
type MemoryBackend struct {
	mu     sync.Mutex
	scopes map[string]map[string]string
}

// NewMemoryBackend creates an empty in-memory backend
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{scopes: make(map[string]map[string]string)}
}

func (b *MemoryBackend) Scope(scopeID string) Store {
	return &memoryScope{backend: b, id: scopeID}
}

// Len returns how many scopes currently hold values
func (b *MemoryBackend) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.scopes)
}

func (b *MemoryBackend) Close() error {
	return nil
}

type memoryScope struct {
	backend *MemoryBackend
	id      string
}

func (s *memoryScope) Get(key string) (string, bool, error) {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()

	value, ok := s.backend.scopes[s.id][key]
	return value, ok, nil
}

func (s *memoryScope) Set(key, value string) error {
	if err := checkKey(key); err != nil {
		return err
	}

	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()

	values, ok := s.backend.scopes[s.id]
	if !ok {
		values = make(map[string]string, len(Keys))
		s.backend.scopes[s.id] = values
	}
	values[key] = value
	return nil
}

func (s *memoryScope) Clear() error {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()

	delete(s.backend.scopes, s.id)
	return nil
}
