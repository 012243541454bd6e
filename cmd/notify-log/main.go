// Command notify-log is a tool for viewing and analyzing channel event
// log files.
//
// Log files are created by notify-tail with the -log flag, or by any
// application wiring a file logger into its notification client.
//
// Usage:
//
//	notify-log <command> [flags] <file.nlog>
//
// Commands:
//
//	view     View log file in human-readable format
//	export   Export log file to JSONL or CSV format
//	filter   Filter log file and write to new file
//	stats    Show statistics about the log file
//
// Examples:
//
//	# View all events
//	notify-log view channel.nlog
//
//	# View only inbound messages
//	notify-log view -direction in -kind message channel.nlog
//
//	# Export to JSONL
//	notify-log export -format jsonl channel.nlog
//
//	# Filter by connection epoch and save to new file
//	notify-log filter -conn-id abc12345 -o filtered.nlog channel.nlog
//
//	# Show statistics
//	notify-log stats channel.nlog
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ticketflow/notify-go/cmd/notify-log/commands"
)

const usage = `notify-log - Channel Event Log Analyzer

Usage:
  notify-log <command> [flags] <file.nlog>

Commands:
  view     View log file in human-readable format
  export   Export log file to JSONL or CSV format
  filter   Filter log file and write to new file
  stats    Show statistics about the log file

Use "notify-log <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "export":
		runExport(args)
	case "filter":
		runFilter(args)
	case "stats":
		runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func runView(args []string) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	connID := fs.String("conn-id", "", "Filter by connection epoch ID")
	direction := fs.String("direction", "", "Filter by direction (in, out, local)")
	kind := fs.String("kind", "", "Filter by kind (state, message, error)")

	path := parseArgs(fs, args)

	filter, err := commands.BuildFilter(*connID, *direction, *kind, "", "")
	if err != nil {
		fatal(err)
	}
	if err := commands.RunView(path, filter, os.Stdout); err != nil {
		fatal(err)
	}
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.String("o", "", "Output file (default: stdout)")

	path := parseArgs(fs, args)

	if err := commands.RunExport(path, *format, *output); err != nil {
		fatal(err)
	}
}

func runFilter(args []string) {
	fs := flag.NewFlagSet("filter", flag.ExitOnError)
	output := fs.String("o", "", "Output file (required)")
	connID := fs.String("conn-id", "", "Filter by connection epoch ID")
	direction := fs.String("direction", "", "Filter by direction (in, out, local)")
	kind := fs.String("kind", "", "Filter by kind (state, message, error)")
	timeStart := fs.String("time-start", "", "Filter by start time (RFC3339)")
	timeEnd := fs.String("time-end", "", "Filter by end time (RFC3339)")

	path := parseArgs(fs, args)

	if *output == "" {
		fatal(fmt.Errorf("output file (-o) required"))
	}

	filter, err := commands.BuildFilter(*connID, *direction, *kind, *timeStart, *timeEnd)
	if err != nil {
		fatal(err)
	}
	if err := commands.RunFilter(path, filter, *output, os.Stdout); err != nil {
		fatal(err)
	}
}

func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	path := parseArgs(fs, args)

	if err := commands.RunStats(path, os.Stdout); err != nil {
		fatal(err)
	}
}

func parseArgs(fs *flag.FlagSet, args []string) string {
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}
	return fs.Arg(0)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
