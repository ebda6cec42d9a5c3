// Package main is the entry point for the taskflow CLI.
package main

import (
	"fmt"
	"os"

	"github.com/runoshun/taskflow/internal/app"
	"github.com/runoshun/taskflow/internal/cli"
)

// version is set at build time using -ldflags.
var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	container, err := app.New(cwd)
	if err != nil {
		// Help and version still work when the store cannot be opened.
		if canRunWithoutContainer(args) {
			rootCmd := cli.NewRootCommand(nil, version)
			rootCmd.SetArgs(args)
			return rootCmd.Execute()
		}
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer func() { _ = container.Close() }()

	rootCmd := cli.NewRootCommand(container, version)
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

// canRunWithoutContainer reports whether args only ask for help or the version.
func canRunWithoutContainer(args []string) bool {
	if len(args) == 0 {
		return false
	}
	if args[0] == "help" || args[0] == "completion" {
		return true
	}
	for _, arg := range args {
		switch arg {
		case "--version", "-v", "--help", "-h":
			return true
		}
	}
	return false
}
