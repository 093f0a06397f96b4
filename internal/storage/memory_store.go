package storage

import "sync"

// MemoryStore keeps slots in memory. It never touches disk and is meant for
// tests and dry runs.
type MemoryStore struct {
	mu     sync.Mutex
	slots  map[string][]byte
	loaded bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: make(map[string][]byte)}
}

func (s *MemoryStore) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = true
	return nil
}

func (s *MemoryStore) Load() error {
	return s.Init()
}

func (s *MemoryStore) Close() error {
	return nil
}

func (s *MemoryStore) ReadSlot(name string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return nil, ErrNotLoaded
	}
	data, ok := s.slots[name]
	if !ok {
		return nil, ErrSlotNotFound
	}
	return append([]byte(nil), data...), nil
}

func (s *MemoryStore) WriteSlot(name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return ErrNotLoaded
	}
	s.slots[name] = append([]byte(nil), data...)
	return nil
}

func (s *MemoryStore) DeleteSlot(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return ErrNotLoaded
	}
	delete(s.slots, name)
	return nil
}

func (s *MemoryStore) GetConfigPath() string {
	return ":memory:"
}
