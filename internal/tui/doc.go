// Package tui provides the terminal user interface for gitstack.
//
// It handles:
//   - Structured logging and status reporting (Splog)
//   - Terminal styling and colors (using lipgloss and termenv)
//   - Stack tree rendering
//   - Confirmation and input prompts (using survey)
//   - A spinner for long-running git queries (using bubbletea)
package tui
