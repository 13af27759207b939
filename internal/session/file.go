package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	configDirName   = "portald"
	sessionFileName = "session.yaml"
)

// fileState is the on-disk layout of a FileStore
type fileState struct {
	Token           string `yaml:"token,omitempty"`
	UserDisplayName string `yaml:"userDisplayName,omitempty"`
}

// FileStore persists the session in a YAML file, by default
// ~/.config/portald/session.yaml
type FileStore struct {
	mu   sync.Mutex
	path string
}

// DefaultFilePath returns the path of the per-user session file
func DefaultFilePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", configDirName, sessionFileName), nil
}

// NewFileStore creates a store backed by the file at path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path
func (f *FileStore) Path() string {
	return f.path
}

func (f *FileStore) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	state, err := f.read()
	if err != nil {
		return "", false, err
	}

	var value string
	switch key {
	case TokenKey:
		value = state.Token
	case DisplayNameKey:
		value = state.UserDisplayName
	}
	return value, value != "", nil
}

func (f *FileStore) Set(key, value string) error {
	if err := checkKey(key); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	state, err := f.read()
	if err != nil {
		return err
	}

	switch key {
	case TokenKey:
		state.Token = value
	case DisplayNameKey:
		state.UserDisplayName = value
	}

	return f.write(state)
}

// Clear removes the session file. A missing file is not an error.
func (f *FileStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

func (f *FileStore) read() (*fileState, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &fileState{}, nil
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var state fileState
	if err := yaml.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}
	return &state, nil
}

func (f *FileStore) write(state *fileState) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	data, err := yaml.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	// The file holds a bearer token, keep it private to the user.
	if err := os.WriteFile(f.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}
