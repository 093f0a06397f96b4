package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

type fileContents struct {
	Version int                        `json:"version"`
	Slots   map[string]json.RawMessage `json:"slots"`
}

// JSONStore keeps every slot in a single JSON file.
//
// Concurrency note:
//   - JSONStore is safe for use by multiple goroutines in one process.
//   - Every slot operation re-reads the file, so processes sharing it under
//     the lock from the lock package see each other's writes.
type JSONStore struct {
	path  string
	mu    sync.Mutex
	store *fileContents
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{
		path: configPath,
	}
}

func (s *JSONStore) Init() error {
	// Create config directory if it doesn't exist
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Check if file already exists
	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("%w at %s", ErrAlreadyInitialized, s.path)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.store = &fileContents{
		Version: 1,
		Slots:   make(map[string]json.RawMessage),
	}

	return s.save()
}

func (s *JSONStore) Load() error {
	contents, err := s.readFile()
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.store = contents
	s.mu.Unlock()
	return nil
}

func (s *JSONStore) readFile() (*fileContents, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("storage not initialized, run 'silentstreak init' first")
		}
		return nil, fmt.Errorf("failed to read storage: %w", err)
	}

	contents := &fileContents{}
	if err := json.Unmarshal(data, contents); err != nil {
		return nil, fmt.Errorf("failed to parse storage: %w", err)
	}
	if contents.Slots == nil {
		contents.Slots = make(map[string]json.RawMessage)
	}
	return contents, nil
}

// refresh replaces the cached contents with the file on disk so writes made
// by other processes are visible. Callers hold s.mu.
func (s *JSONStore) refresh() error {
	if s.store == nil {
		return ErrNotLoaded
	}
	contents, err := s.readFile()
	if err != nil {
		return err
	}
	s.store = contents
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.store, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}

	return nil
}

func (s *JSONStore) ReadSlot(name string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.refresh(); err != nil {
		return nil, err
	}

	raw, ok := s.store.Slots[name]
	if !ok {
		return nil, ErrSlotNotFound
	}
	// The file is indented; hand back the compact form that was written.
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return nil, fmt.Errorf("slot %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// WriteSlot stores data inline, so it must be valid JSON.
func (s *JSONStore) WriteSlot(name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.refresh(); err != nil {
		return err
	}

	if !json.Valid(data) {
		return fmt.Errorf("slot %s: data is not valid JSON", name)
	}
	s.store.Slots[name] = json.RawMessage(append([]byte(nil), data...))
	return s.save()
}

func (s *JSONStore) DeleteSlot(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.refresh(); err != nil {
		return err
	}

	delete(s.store.Slots, name)
	return s.save()
}

// GetConfigPath returns the path to the underlying storage file.
func (s *JSONStore) GetConfigPath() string {
	return s.path
}
