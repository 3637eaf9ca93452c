// Package store persists the stacks file on disk.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"

	gserrors "gitstack.dev/gitstack/internal/errors"
	"gitstack.dev/gitstack/internal/stack"
	"gitstack.dev/gitstack/internal/utils"
)

const (
	// FileName is the name of the stacks file inside the gitstack home
	FileName = "stacks.json"

	lockSuffix = ".lock"
)

// Logger receives read-path problems that are repaired rather than returned
type Logger interface {
	Warn(format string, args ...interface{})
	Debug(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Debug(string, ...interface{}) {}

// FileStore keeps every repository's stacks in a single JSON file.
// Writes hold an exclusive lock on a sibling lock file for the whole
// load-mutate-save cycle and replace the file by rename.
type FileStore struct {
	path   string
	mu     sync.Mutex
	lock   *flock.Flock
	logger Logger
}

// HomeDir returns the gitstack home directory: $GITSTACK_HOME, or
// ~/.gitstack.
func HomeDir() (string, error) {
	if home := os.Getenv("GITSTACK_HOME"); home != "" {
		return home, nil
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(userHome, ".gitstack"), nil
}

// DefaultPath returns the stacks file location under HomeDir
func DefaultPath() (string, error) {
	home, err := HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, FileName), nil
}

// NewFileStore creates a store backed by path. A nil logger discards
// read-path warnings.
func NewFileStore(path string, logger Logger) *FileStore {
	if logger == nil {
		logger = nopLogger{}
	}
	return &FileStore{
		path:   path,
		lock:   flock.New(path + lockSuffix),
		logger: logger,
	}
}

// Path returns the stacks file path
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the stacks file. A missing file is an empty state; a corrupt
// one is logged and also treated as empty so the next write repairs it.
func (s *FileStore) Load() (stack.File, error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		s.logger.Warn("Could not create %s: %v", filepath.Dir(s.path), err)
	}
	return s.read(), nil
}

func (s *FileStore) read() stack.File {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("Could not read %s, treating it as empty: %v", s.path, err)
		}
		return stack.File{}
	}

	var file stack.File
	if err := json.Unmarshal(data, &file); err != nil {
		s.logger.Warn("Stacks file %s is corrupt, treating it as empty: %v", s.path, err)
		return stack.File{}
	}
	if file == nil {
		file = stack.File{}
	}
	for id, stacks := range file {
		if stacks == nil {
			delete(file, id)
			continue
		}
		for name, rec := range stacks {
			if rec == nil {
				delete(stacks, name)
				continue
			}
			if rec.Branches == nil {
				rec.Branches = []string{}
			}
		}
	}
	return file
}

// Update runs fn against the current state and saves the result. The file is
// left untouched when fn returns an error.
func (s *FileStore) Update(fn func(stack.File) error) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return gserrors.NewPersistenceError(s.path, err)
	}

	// flock is per file handle, so goroutines sharing this store queue here
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.lock.Lock(); err != nil {
		return gserrors.NewPersistenceError(s.path, fmt.Errorf("failed to lock: %w", err))
	}
	defer func() {
		if err := s.lock.Unlock(); err != nil {
			s.logger.Debug("Failed to release stacks lock: %v", err)
		}
	}()

	file := s.read()
	if err := fn(file); err != nil {
		return err
	}
	return s.save(file)
}

func (s *FileStore) save(file stack.File) error {
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return gserrors.NewPersistenceError(s.path, err)
	}
	data = append(data, '\n')
	if err := utils.AtomicWriteFile(s.path, data, 0644); err != nil {
		return gserrors.NewPersistenceError(s.path, err)
	}
	return nil
}
