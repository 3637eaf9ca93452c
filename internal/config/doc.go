// Package config manages gitstack configuration and state persistence.
//
// It handles:
//   - Repository-specific configuration (.git/.gitstack_config)
//   - The durable cascade state that lets an interrupted restack resume
package config
