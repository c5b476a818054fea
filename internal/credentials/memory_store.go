package credentials

import "sync"

// MemoryStore is a process-local Store without persistence.
type MemoryStore struct {
	mu   sync.RWMutex
	pair *Pair
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Get implements Store.
func (s *MemoryStore) Get() (Pair, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.pair == nil {
		return Pair{}, false
	}
	return *s.pair, true
}

// Set implements Store.
func (s *MemoryStore) Set(p Pair) error {
	if !p.Complete() {
		return ErrIncompletePair
	}
	s.mu.Lock()
	s.pair = &p
	s.mu.Unlock()
	return nil
}

// Clear implements Store.
func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	s.pair = nil
	s.mu.Unlock()
	return nil
}

var _ Store = (*MemoryStore)(nil)
