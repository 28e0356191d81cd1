// Package main is the entry point for the sprintlens CLI.
package main

import (
	"fmt"
	"os"

	"github.com/danielolaszy/sprintlens/cmd"
	"github.com/danielolaszy/sprintlens/internal/logging"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// main is the entry point of the application.
// It executes the root command and handles any errors that occur.
func main() {
	logging.Debug("starting sprintlens", "version", version)

	if err := cmd.Execute(); err != nil {
		logging.Error("command execution failed", "error", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
