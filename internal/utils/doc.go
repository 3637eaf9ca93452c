// Package utils provides shared utility functions.
//
// These utilities are used across multiple packages and include:
//   - Branch name validation and sanitization
//   - Atomic file writes
//   - Interactive terminal detection
package utils
