package utils

import (
	"fmt"
	"regexp"
	"strings"
)

// MaxBranchNameByteLength is the maximum length accepted for branch and stack names
const MaxBranchNameByteLength = 234

var (
	// branchNameReplaceRegex matches characters that are not valid in branch names
	branchNameReplaceRegex = regexp.MustCompile(`[^-_/.a-zA-Z0-9]+`)

	// branchNameIgnoreRegex matches trailing slashes and dots that should be removed
	branchNameIgnoreRegex = regexp.MustCompile(`[/.]*$`)

	hyphenRunRegex = regexp.MustCompile(`-+`)
)

// SanitizeBranchName turns free text into a usable branch name
func SanitizeBranchName(name string) string {
	name = branchNameIgnoreRegex.ReplaceAllString(name, "")
	name = branchNameReplaceRegex.ReplaceAllString(name, "-")
	name = hyphenRunRegex.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-")

	if len(name) > MaxBranchNameByteLength {
		name = strings.TrimSuffix(name[:MaxBranchNameByteLength], "-")
	}
	return name
}

// ValidateBranchName rejects names git would refuse as a branch ref
func ValidateBranchName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("branch name cannot be empty")
	case len(name) > MaxBranchNameByteLength:
		return fmt.Errorf("branch name %q is longer than %d bytes", name, MaxBranchNameByteLength)
	case strings.HasPrefix(name, "-"):
		return fmt.Errorf("branch name %q cannot start with '-'", name)
	case strings.Contains(name, ".."), strings.Contains(name, "@{"), strings.Contains(name, "//"):
		return fmt.Errorf("branch name %q contains an invalid sequence", name)
	case strings.HasSuffix(name, "/"), strings.HasSuffix(name, "."), strings.HasSuffix(name, ".lock"):
		return fmt.Errorf("branch name %q has an invalid suffix", name)
	case strings.ContainsAny(name, " ~^:?*[\\\t\n"):
		return fmt.Errorf("branch name %q contains an invalid character", name)
	}
	return nil
}
