package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func newRepoRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0755))
	return root
}

func TestRepoConfig_Defaults(t *testing.T) {
	t.Parallel()
	root := newRepoRoot(t)

	config, err := GetRepoConfig(root)
	require.NoError(t, err)
	require.Equal(t, "main", config.TrunkName())
	require.Equal(t, []string{"main", "master"}, config.AllTrunks())
	require.Equal(t, "origin", config.RemoteName())
	require.Equal(t, runtime.NumCPU(), config.Concurrency())
	require.Equal(t, "main", config.Reference())
	require.False(t, IsInitialized(root))
}

func TestRepoConfig_ReadsValues(t *testing.T) {
	t.Parallel()
	root := newRepoRoot(t)
	require.NoError(t, os.WriteFile(repoConfigPath(root), []byte(`{
		"trunk": "develop",
		"trunks": ["release"],
		"remote": "upstream",
		"mergeCheckConcurrency": 3,
		"mergeReference": "upstream/develop"
	}`), 0600))

	config, err := GetRepoConfig(root)
	require.NoError(t, err)
	require.Equal(t, "develop", config.TrunkName())
	require.Equal(t, []string{"develop", "release", "main", "master"}, config.AllTrunks())
	require.True(t, config.IsTrunk("release"))
	require.False(t, config.IsTrunk("feature"))
	require.Equal(t, "upstream", config.RemoteName())
	require.Equal(t, 3, config.Concurrency())
	require.Equal(t, "upstream/develop", config.Reference())
	require.True(t, IsInitialized(root))
}

func TestRepoConfig_InvalidJSON(t *testing.T) {
	t.Parallel()
	root := newRepoRoot(t)
	require.NoError(t, os.WriteFile(repoConfigPath(root), []byte("{"), 0600))

	_, err := GetRepoConfig(root)
	require.Error(t, err)
	_, err = GetTrunk(root)
	require.Error(t, err)
}

func TestRepoConfig_Setters(t *testing.T) {
	t.Parallel()
	root := newRepoRoot(t)

	require.NoError(t, SetTrunk(root, "develop"))
	require.NoError(t, AddTrunk(root, "release"))
	require.NoError(t, SetRemote(root, "upstream"))

	require.Error(t, AddTrunk(root, "develop"))
	require.Error(t, AddTrunk(root, "release"))

	trunk, err := GetTrunk(root)
	require.NoError(t, err)
	require.Equal(t, "develop", trunk)

	config, err := GetRepoConfig(root)
	require.NoError(t, err)
	require.Equal(t, []string{"release"}, config.Trunks)
	require.Equal(t, "upstream", config.RemoteName())
}
