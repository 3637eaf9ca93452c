package tui

import (
	"os"
	"path/filepath"
)

// GetLogFilePath returns the path to the log file.
// If GITSTACK_LOG_FILE is set, uses that path.
// Otherwise, uses ~/.gitstack/logs/gitstack.log
func GetLogFilePath() string {
	if customPath := os.Getenv("GITSTACK_LOG_FILE"); customPath != "" {
		return customPath
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "gitstack.log"
	}

	return filepath.Join(homeDir, ".gitstack", "logs", "gitstack.log")
}
