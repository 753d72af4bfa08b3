// Package main is the entry point for the skillbeads CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/runoshun/skillbeads/internal/app"
	"github.com/runoshun/skillbeads/internal/cli"
	"github.com/runoshun/skillbeads/internal/domain"
)

// version is set at build time using -ldflags.
var version = "dev"

func main() {
	err := run(os.Args[1:])
	if err == nil {
		return
	}
	code, silent := exitCode(err)
	if !silent {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(code)
}

func run(args []string) error {
	// Get current working directory
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	// Create dependency injection container
	container, err := app.New(cwd)
	if err != nil {
		// A broken config file must not hide help and version output
		if errors.Is(err, domain.ErrInvalidConfigValue) && canRunWithoutContainer(args) {
			rootCmd := cli.NewRootCommand(nil, version)
			rootCmd.SetArgs(args)
			return rootCmd.Execute()
		}
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer func() { _ = container.Close() }()

	// Create and execute root command
	rootCmd := cli.NewRootCommand(container, version)
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

// exitCode maps an error returned by run to a process exit code.
// silent reports that the command already said everything it needed to.
func exitCode(err error) (code int, silent bool) {
	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code, true
	}
	return 1, false
}

func canRunWithoutContainer(args []string) bool {
	if len(args) == 0 {
		return true
	}
	if args[0] == "help" {
		return true
	}
	for _, arg := range args {
		if arg == "--version" || arg == "-v" || arg == "--help" || arg == "-h" {
			return true
		}
	}
	return false
}
