package main

import (
	"os"

	"gitstack.dev/gitstack/internal/cli"
	"gitstack.dev/gitstack/internal/tui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	tui.InitColorProfile()

	rootCmd := cli.NewRootCmd(version, commit, date)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
