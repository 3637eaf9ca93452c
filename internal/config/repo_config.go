package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"

	"gitstack.dev/gitstack/internal/utils"
)

const (
	repoConfigFile = ".gitstack_config"

	// DefaultTrunk is used when no trunk has been configured
	DefaultTrunk = "main"
	// DefaultRemote is used when no remote has been configured
	DefaultRemote = "origin"
)

// RepoConfig represents the repository configuration
type RepoConfig struct {
	Trunk                 *string  `json:"trunk,omitempty"`
	Trunks                []string `json:"trunks,omitempty"`
	Remote                *string  `json:"remote,omitempty"`
	MergeCheckConcurrency *int     `json:"mergeCheckConcurrency,omitempty"`
	MergeReference        *string  `json:"mergeReference,omitempty"`
}

func repoConfigPath(repoRoot string) string {
	return filepath.Join(repoRoot, ".git", repoConfigFile)
}

// GetRepoConfig reads the repository configuration
func GetRepoConfig(repoRoot string) (*RepoConfig, error) {
	data, err := os.ReadFile(repoConfigPath(repoRoot))
	if err != nil {
		// Config doesn't exist - return default
		return &RepoConfig{}, nil
	}

	var config RepoConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse repo config: %w", err)
	}

	return &config, nil
}

func writeRepoConfig(repoRoot string, config *RepoConfig) error {
	configJSON, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return utils.AtomicWriteFile(repoConfigPath(repoRoot), append(configJSON, '\n'), 0600)
}

// TrunkName returns the primary trunk branch name, or "main" as default
func (c *RepoConfig) TrunkName() string {
	if c.Trunk != nil && *c.Trunk != "" {
		return *c.Trunk
	}
	return DefaultTrunk
}

// AllTrunks returns the primary trunk, any additional trunks, and the
// conventional main/master names, without duplicates
func (c *RepoConfig) AllTrunks() []string {
	trunks := []string{c.TrunkName()}
	for _, t := range append(slices.Clone(c.Trunks), "main", "master") {
		if t != "" && !slices.Contains(trunks, t) {
			trunks = append(trunks, t)
		}
	}
	return trunks
}

// IsTrunk checks if a branch is one of the trunk names
func (c *RepoConfig) IsTrunk(branchName string) bool {
	return slices.Contains(c.AllTrunks(), branchName)
}

// RemoteName returns the configured remote, or "origin"
func (c *RepoConfig) RemoteName() string {
	if c.Remote != nil && *c.Remote != "" {
		return *c.Remote
	}
	return DefaultRemote
}

// Concurrency returns the merge check worker count, defaulting to the CPU count
func (c *RepoConfig) Concurrency() int {
	if c.MergeCheckConcurrency != nil && *c.MergeCheckConcurrency > 0 {
		return *c.MergeCheckConcurrency
	}
	return runtime.NumCPU()
}

// Reference returns the branch merge detection compares against,
// defaulting to the trunk
func (c *RepoConfig) Reference() string {
	if c.MergeReference != nil && *c.MergeReference != "" {
		return *c.MergeReference
	}
	return c.TrunkName()
}

// GetTrunk returns the primary trunk branch name, or "main" as default
func GetTrunk(repoRoot string) (string, error) {
	config, err := GetRepoConfig(repoRoot)
	if err != nil {
		return "", err
	}
	return config.TrunkName(), nil
}

// IsInitialized checks if gitstack has been initialized
func IsInitialized(repoRoot string) bool {
	config, err := GetRepoConfig(repoRoot)
	if err != nil {
		return false
	}
	return config.Trunk != nil && *config.Trunk != ""
}

// SetTrunk updates the trunk branch in the config
func SetTrunk(repoRoot string, trunkName string) error {
	config, err := GetRepoConfig(repoRoot)
	if err != nil {
		config = &RepoConfig{}
	}
	config.Trunk = &trunkName
	return writeRepoConfig(repoRoot, config)
}

// AddTrunk adds an additional trunk branch to the config
func AddTrunk(repoRoot string, trunkName string) error {
	config, err := GetRepoConfig(repoRoot)
	if err != nil {
		config = &RepoConfig{}
	}

	// Check if already a trunk
	if config.Trunk != nil && *config.Trunk == trunkName {
		return fmt.Errorf("'%s' is already the primary trunk", trunkName)
	}
	if slices.Contains(config.Trunks, trunkName) {
		return fmt.Errorf("'%s' is already configured as a trunk", trunkName)
	}

	config.Trunks = append(config.Trunks, trunkName)
	return writeRepoConfig(repoRoot, config)
}

// SetRemote updates the remote used for identity, push and fetch
func SetRemote(repoRoot string, remote string) error {
	config, err := GetRepoConfig(repoRoot)
	if err != nil {
		config = &RepoConfig{}
	}
	config.Remote = &remote
	return writeRepoConfig(repoRoot, config)
}
