package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hpungsan/tracemap/internal/config"
	"github.com/hpungsan/tracemap/internal/mcp"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands lists the subcommands that select CLI mode.
var cliCommands = map[string]bool{
	"create": true, "validate": true,
	"help": true,
}

// isCLIMode picks between the CLI and the MCP server based on the first
// argument. Anything unrecognized falls through to server mode.
func isCLIMode() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	if cliCommands[arg] {
		return true
	}
	if arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" {
		return true
	}
	return false
}

// isTerminal reports whether stdin is a terminal rather than a pipe.
func isTerminal() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// printBanner greets an interactive invocation with no arguments.
func printBanner() {
	fmt.Println(`
   _
  | |_ _ __ __ _  ___ ___ _ __ ___   __ _ _ __
  | __| '__/ _` + "`" + ` |/ __/ _ \ '_ ` + "`" + ` _ \ / _` + "`" + ` | '_ \
  | |_| | | (_| | (_|  __/ | | | | | (_| | |_) |
   \__|_|  \__,_|\___\___|_| |_| |_|\__,_| .__/
                                         |_|
  Source-code provenance trace records

  Usage: tracemap <command> [options]
         tracemap --help

  MCP server mode requires piped input.`)
}

func main() {
	// Bare interactive invocation: banner, not a silent MCP server.
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	if isCLIMode() {
		app := newCLIApp()
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// An unknown argument on a terminal is a typo, not a server request.
	if len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'tracemap --help' for usage.\n")
		os.Exit(1)
	}

	// MCP server mode.
	homeDir, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: could not determine home directory: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(filepath.Join(homeDir, ".tracemap"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := mcp.Run(cfg, Version); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
