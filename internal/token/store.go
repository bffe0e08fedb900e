package token

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// Store is the single persisted credential slot.
type Store interface {
	// Load returns the stored credential, or "" when none is stored.
	Load() (string, error)
	// Save replaces the stored credential wholesale.
	Save(credential string) error
	// Clear removes the stored credential. Clearing an empty store is not an error.
	Clear() error
}

type fileStore struct {
	path   string
	logger *zap.Logger
}

// NewFileStore keeps the credential in a single file readable only by the owner.
func NewFileStore(path string, logger *zap.Logger) Store {
	return &fileStore{path: path, logger: logger}
}

// DefaultPath is <user config dir>/moviedesk/token.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "moviedesk", "token"), nil
}

func (f *fileStore) Load() (string, error) {
	b, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		f.logger.Error("failed to read token file", zap.String("path", f.path), zap.Error(err))
		return "", err
	}
	return Normalize(string(b)), nil
}

func (f *fileStore) Save(credential string) error {
	clean := Normalize(credential)
	if clean == "" {
		return f.Clear()
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		f.logger.Error("failed to create token dir", zap.String("path", f.path), zap.Error(err))
		return err
	}

	// write aside and rename so a reader never sees half a token
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".token-*")
	if err != nil {
		return err
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if _, err := tmp.WriteString(clean); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		f.logger.Error("failed to replace token file", zap.String("path", f.path), zap.Error(err))
		return err
	}

	f.logger.Debug("credential stored", zap.String("path", f.path))
	return nil
}

func (f *fileStore) Clear() error {
	err := os.Remove(f.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		f.logger.Error("failed to remove token file", zap.String("path", f.path), zap.Error(err))
		return err
	}
	f.logger.Debug("credential cleared", zap.String("path", f.path))
	return nil
}

// MemoryStore keeps the credential for the life of the process.
type MemoryStore struct {
	mu    sync.Mutex
	value string
}

func NewMemoryStore(initial string) *MemoryStore {
	return &MemoryStore{value: Normalize(initial)}
}

func (m *MemoryStore) Load() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.value, nil
}

func (m *MemoryStore) Save(credential string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value = Normalize(credential)
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value = ""
	return nil
}
