// Package runtime provides the execution context for gitstack commands.
//
// It encapsulates shared dependencies needed by actions, such as the git
// runner, the stack graph, the cascade and the logger.
package runtime
