package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"rollcall/pkg/logging"
)

// DefaultStorageKey is the fixed record name the pair is persisted under.
const DefaultStorageKey = "tokens"

// DefaultStorageDir is the default directory, relative to the home directory.
const DefaultStorageDir = ".config/rollcall/credentials"

// FileStore persists the credential pair as one JSON file.
//
// SECURITY: the file is created with 0600 permissions and its directory with
// 0700. Credential values are never logged.
type FileStore struct {
	mu     sync.RWMutex
	path   string
	cached *Pair
	loaded bool
}

// FileStoreConfig configures a FileStore.
type FileStoreConfig struct {
	// StorageDir is the directory holding the record.
	// Defaults to ~/.config/rollcall/credentials
	StorageDir string

	// Key is the record name. Defaults to "tokens".
	Key string
}

// NewFileStore creates the storage directory if needed and returns a store
// backed by <StorageDir>/<Key>.json.
func NewFileStore(cfg FileStoreConfig) (*FileStore, error) {
	dir := cfg.StorageDir
	if dir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(homeDir, DefaultStorageDir)
	}

	key := cfg.Key
	if key == "" {
		key = DefaultStorageKey
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create credential storage directory: %w", err)
	}

	return &FileStore{path: filepath.Join(dir, key+".json")}, nil
}

// Path returns the file backing the store.
func (s *FileStore) Path() string {
	return s.path
}

// Get implements Store. Malformed content is removed and reported as absent.
func (s *FileStore) Get() (Pair, bool) {
	s.mu.RLock()
	if s.loaded {
		defer s.mu.RUnlock()
		if s.cached == nil {
			return Pair{}, false
		}
		return *s.cached, true
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another goroutine may have loaded it meanwhile.
	if !s.loaded {
		s.cached = s.readLocked()
		s.loaded = true
	}
	if s.cached == nil {
		return Pair{}, false
	}
	return *s.cached, true
}

// readLocked loads the record from disk. REQUIRES: s.mu held for writing.
func (s *FileStore) readLocked() *Pair {
	// #nosec G304 -- path is built from configuration, not request input
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logging.Warn("CredentialStore", "Failed to read credential file %s: %v", s.path, err)
		}
		return nil
	}

	var pair Pair
	if err := json.Unmarshal(data, &pair); err != nil || !pair.Complete() {
		logging.Audit("CredentialStore", "credentials_corrupt", "discarding malformed credential record",
			slog.String("path", s.path),
		)
		if rmErr := os.Remove(s.path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			logging.Warn("CredentialStore", "Failed to remove malformed credential file %s: %v", s.path, rmErr)
		}
		return nil
	}
	return &pair
}

// Set implements Store.
func (s *FileStore) Set(p Pair) error {
	if !p.Complete() {
		return ErrIncompletePair
	}

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writeFileAtomic(s.path, data); err != nil {
		logging.Audit("CredentialStore", "credentials_store_failed", "credential storage failed",
			slog.String("path", s.path),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to persist credentials: %w", err)
	}

	s.cached = &p
	s.loaded = true
	logging.Audit("CredentialStore", "credentials_stored", "credentials stored",
		slog.String("path", s.path),
	)
	return nil
}

// Clear implements Store.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cached = nil
	s.loaded = true

	err := os.Remove(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to remove credential file: %w", err)
	}
	logging.Audit("CredentialStore", "credentials_cleared", "credentials cleared",
		slog.String("path", s.path),
	)
	return nil
}

// Invalidate drops the in-memory copy so the next Get re-reads the file.
func (s *FileStore) Invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.loaded = false
	s.mu.Unlock()
}

// writeFileAtomic writes through a temp file and rename so a concurrent reader
// never observes a truncated record.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tokens-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

var _ Store = (*FileStore)(nil)
