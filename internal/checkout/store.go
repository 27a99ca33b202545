package checkout

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// Store is the persistence port for the draft checkout session. The draft
// lives under a single fixed slot; Load returns (nil, nil) when the slot is
// empty. Last write wins.
type Store interface {
	Load() (*Draft, error)
	Save(draft *Draft) error
	Clear() error
}

// MemoryStore keeps the draft in memory. Useful for tests and as the
// default when no durable location is configured.
type MemoryStore struct {
	draft *Draft
	mu    sync.Mutex
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns the stored draft, or nil if the slot is empty.
func (s *MemoryStore) Load() (*Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return nil, nil
	}
	d := *s.draft
	return &d, nil
}

// Save stores a copy of the draft.
func (s *MemoryStore) Save(draft *Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := *draft
	s.draft = &d
	return nil
}

// Clear empties the slot.
func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = nil
	return nil
}

// FileStore persists the draft as JSON in a single file, so an in-progress
// checkout survives a full client restart.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a FileStore writing to path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads and decodes the stored draft, or returns nil if absent.
func (s *FileStore) Load() (*Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read draft file: %w", err)
	}

	var draft Draft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, fmt.Errorf("failed to decode draft file: %w", err)
	}
	return &draft, nil
}

// Save encodes the draft and writes it to the file.
func (s *FileStore) Save(draft *Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write draft file: %w", err)
	}
	return nil
}

// Clear removes the draft file.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove draft file: %w", err)
	}
	return nil
}
