package txtt

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStorage is an in-memory implementation of ContentStateStorage.
// It is primarily intended for testing and development.
// All data is lost when the process terminates.
type MemoryStorage struct {
	mu     sync.RWMutex
	states map[string]*StoredContentState
	closed bool
}

// MemoryStorageDriver is the driver for creating MemoryStorage instances.
type MemoryStorageDriver struct{}

func init() {
	RegisterStorageDriver(StorageDriverNameMemory, &MemoryStorageDriver{})
}

// Open creates a new MemoryStorage instance.
// The connection string is ignored for memory storage.
func (d *MemoryStorageDriver) Open(connectionString string) (ContentStateStorage, error) {
	return NewMemoryStorage(), nil
}

// NewMemoryStorage creates a new in-memory content state storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		states: make(map[string]*StoredContentState),
	}
}

// Get retrieves a content state by name.
func (s *MemoryStorage) Get(ctx context.Context, name string) (*StoredContentState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}

	stored, ok := s.states[name]
	if !ok {
		return nil, NewStateNotFoundError(name)
	}
	return copyStored(stored), nil
}

// Save stores a content state, replacing any state with the same name.
func (s *MemoryStorage) Save(ctx context.Context, stored *StoredContentState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateStored(stored); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageClosedError()
	}

	now := time.Now()
	stored.UpdatedAt = now
	if existing, ok := s.states[stored.Name]; ok {
		stored.CreatedAt = existing.CreatedAt
	} else {
		stored.CreatedAt = now
	}
	s.states[stored.Name] = copyStored(stored)
	return nil
}

// Delete removes a content state by name.
func (s *MemoryStorage) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageClosedError()
	}
	if _, ok := s.states[name]; !ok {
		return NewStateNotFoundError(name)
	}
	delete(s.states, name)
	return nil
}

// List returns the names of all stored content states.
func (s *MemoryStorage) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}

	names := make([]string, 0, len(s.states))
	for name := range s.states {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Close releases the stored states.
func (s *MemoryStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.states = nil
	return nil
}
