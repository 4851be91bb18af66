// Package cli implements the pulse command line.
package cli

import (
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Analyze *AnalyzeCommand
	Open    *OpenCommand
	History *HistoryCommand
	Search  *SearchCommand
	Status  *StatusCommand
	Prune   *PruneCommand
	Purge   *PurgeCommand
	Serve   *ServeCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "pulse"
	parser.LongDescription = "Caption, timeline and health analytics for social media posts."

	cmds := &commands{
		Analyze: &AnalyzeCommand{globals: &globals, version: version},
		Open:    &OpenCommand{globals: &globals, version: version},
		History: &HistoryCommand{globals: &globals, version: version},
		Search:  &SearchCommand{globals: &globals, version: version},
		Status:  &StatusCommand{globals: &globals, version: version},
		Prune:   &PruneCommand{globals: &globals, version: version},
		Purge:   &PurgeCommand{globals: &globals, version: version},
		Serve:   &ServeCommand{globals: &globals, version: version},
	}

	parser.AddCommand("analyze", "Analyze a posts document", "Analyze a JSON posts document and print a health report.", cmds.Analyze)
	parser.AddCommand("open", "Print a stored report", "Print a stored report as Markdown or JSON.", cmds.Open)
	parser.AddCommand("history", "List stored reports", "List stored reports, newest first, with optional filters.", cmds.History)
	parser.AddCommand("search", "Search stored captions", "Full-text search over the captions of stored reports.", cmds.Search)
	parser.AddCommand("status", "Show database statistics", "Show database statistics, schema version and configuration summary.", cmds.Status)
	parser.AddCommand("prune", "Apply retention pruning", "Delete stored reports older than the retention period.", cmds.Prune)
	parser.AddCommand("purge", "Delete ALL stored reports", "Delete ALL stored reports. Destructive operation with safety prompt.", cmds.Purge)
	parser.AddCommand("serve", "Run the HTTP API", "Serve report analysis and stored reports over HTTP.", cmds.Serve)

	return parser, &globals, cmds
}

// Run is the main entry point for the pulse CLI using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the matched subcommand.
func RunWithArgs(version string, args []string) error {
	// --version is valid without a subcommand, which go-flags would reject.
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Printf("pulse %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(version)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok {
			if flagsErr.Type == goflags.ErrHelp {
				return nil
			}
		}
		return err
	}

	return nil
}
