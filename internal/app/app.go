// Package app wires the aitracker CLI: subcommand dispatch, env
// loading, config, and process exit codes.
package app

import (
	"fmt"
	"os"
	"strings"
)

func Run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 2
	}

	switch strings.ToLower(strings.TrimSpace(args[0])) {
	case "help", "--help", "-h":
		printUsage()
		return 0
	case "health":
		return runHealth(args[1:])
	case "check":
		return runCheck(args[1:])
	case "similarity":
		return runSimilarity(args[1:])
	case "stats":
		return runStats(args[1:])
	case "serve":
		return runServe(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		printUsage()
		return 2
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "aitracker CLI")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  aitracker <command> [flags]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  health      Verify database connectivity")
	fmt.Fprintln(os.Stderr, "  check       Run candidate articles through duplicate detection")
	fmt.Fprintln(os.Stderr, "  similarity  Score two titles with the full signal breakdown")
	fmt.Fprintln(os.Stderr, "  stats       Show stored-article counts for the dedup window")
	fmt.Fprintln(os.Stderr, "  serve       Start the Echo diagnostics server")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Use \"aitracker <command> -h\" for command-specific flags.")
}
