package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gitstack.dev/gitstack/internal/utils"
)

const (
	cascadeStateFile = ".gitstack_cascade"

	// CascadeStateVersion is the schema version written by this build
	CascadeStateVersion = 1
)

// CascadeState is the progress of a restack that may be interrupted by a
// conflict. CurrentBranch is the branch the cascade started from; Processed
// lists downstream branches already rebased, in order. PausedOnConflict is
// false when the pause came from a failure that left no rebase to finish.
type CascadeState struct {
	Version            int       `json:"version"`
	StackName          string    `json:"stackName"`
	CurrentBranch      string    `json:"currentBranch"`
	DownstreamBranches []string  `json:"downstreamBranches"`
	Processed          []string  `json:"processed"`
	PausedBranch       string    `json:"pausedBranch,omitempty"`
	PausedOnConflict   bool      `json:"pausedOnConflict,omitempty"`
	StartedAt          time.Time `json:"startedAt"`
}

// CascadeStateFile stores a single cascade state under the repository's git
// directory.
type CascadeStateFile struct {
	path string
}

// NewCascadeStateFile returns the state slot for the repository at repoRoot
func NewCascadeStateFile(repoRoot string) *CascadeStateFile {
	return &CascadeStateFile{path: filepath.Join(repoRoot, ".git", cascadeStateFile)}
}

// Path returns the state file location
func (f *CascadeStateFile) Path() string {
	return f.path
}

// Get reads the persisted state, returning nil when no cascade is in progress
func (f *CascadeStateFile) Get() (*CascadeState, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cascade state: %w", err)
	}

	var state CascadeState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse cascade state: %w", err)
	}
	if state.Version > CascadeStateVersion {
		return nil, fmt.Errorf("cascade state version %d is newer than supported version %d", state.Version, CascadeStateVersion)
	}
	return &state, nil
}

// Set writes the state, replacing any previous one
func (f *CascadeStateFile) Set(state *CascadeState) error {
	if state.Version == 0 {
		state.Version = CascadeStateVersion
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cascade state: %w", err)
	}
	if err := utils.AtomicWriteFile(f.path, append(data, '\n'), 0600); err != nil {
		return fmt.Errorf("failed to write cascade state: %w", err)
	}
	return nil
}

// Clear removes the state file
func (f *CascadeStateFile) Clear() error {
	err := os.Remove(f.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to clear cascade state: %w", err)
	}
	return nil
}
