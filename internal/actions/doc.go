// Package actions provides high-level business logic for CLI commands.
//
// Each action corresponds to a gitstack command (create, restack, sync, etc.)
// and orchestrates operations across the stack graph, the cascade, and the
// git and github packages.
//
// Key patterns:
//   - Actions accept runtime.Context which provides Git, Stacks, Cascade, Splog, and other dependencies
//   - Actions are stateless; stacks live in the stacks file and cascade progress in the git dir
//   - Actions handle user interaction through the tui package
package actions
