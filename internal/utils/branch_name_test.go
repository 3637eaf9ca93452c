package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitizeBranchName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple name passes through", "feature", "feature"},
		{"spaces replaced with hyphens", "my feature branch", "my-feature-branch"},
		{"slashes preserved", "feature/my-branch", "feature/my-branch"},
		{"trailing dots removed", "feature...", "feature"},
		{"multiple consecutive hyphens collapsed", "my---feature", "my-feature"},
		{"mixed invalid characters", "feat: add new feature!", "feat-add-new-feature"},
		{"only special chars returns empty", "!@#$%", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.expected, SanitizeBranchName(tt.input))
		})
	}
}

func TestSanitizeBranchName_MaxLength(t *testing.T) {
	t.Parallel()

	longName := strings.Repeat("a", MaxBranchNameByteLength-1) + "-" + strings.Repeat("b", 50)
	result := SanitizeBranchName(longName)

	require.LessOrEqual(t, len(result), MaxBranchNameByteLength)
	require.False(t, strings.HasSuffix(result, "-"))
}

func TestValidateBranchName(t *testing.T) {
	t.Parallel()

	for _, valid := range []string{"feature", "user/feature-1", "fix_2.0"} {
		require.NoError(t, ValidateBranchName(valid), valid)
	}
	for _, invalid := range []string{"", "-x", "a..b", "a b", "ends/", "x.lock", "what?", "a@{1}"} {
		require.Error(t, ValidateBranchName(invalid), invalid)
	}
}
