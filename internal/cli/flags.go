package cli

import (
	"io"
	"time"
)

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to config file" default:""`
	JSON    bool   `long:"json" description:"Output in JSON format"`
	Verbose bool   `long:"verbose" description:"Enable verbose output"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// AnalyzeCommand builds a report from a posts document.
type AnalyzeCommand struct {
	Input    string `short:"i" long:"input" description:"Posts JSON file, or - for stdin" default:"-"`
	Handle   string `long:"handle" description:"Account handle (required)"`
	Platform string `long:"platform" description:"Platform label (default from config)"`
	Format   string `long:"format" description:"Output format: json | md (default from config)"`
	Save     bool   `long:"save" description:"Store the report in the local database"`
	Now      string `long:"now" description:"Reference date for ages, YYYY-MM-DD (default today)"`
	Output   string `short:"o" long:"output" description:"Write the report to a file instead of stdout"`

	globals *GlobalFlags
	version string
	stdin   io.Reader        // injectable for testing; nil means os.Stdin
	clock   func() time.Time // injectable for testing; nil means time.Now
}

// OpenCommand prints a stored report.
type OpenCommand struct {
	ID     string `long:"id" description:"Report ID (required)"`
	Format string `long:"format" description:"Output format: json | md" default:"md"`

	globals *GlobalFlags
	version string
}

// HistoryCommand lists stored reports, newest first.
type HistoryCommand struct {
	Handle   string `long:"handle" description:"Only reports for this handle"`
	Platform string `long:"platform" description:"Only reports for this platform"`
	Since    string `long:"since" description:"Only reports newer than duration (e.g., 7d, 24h, 2w)"`
	Limit    int    `long:"limit" description:"Maximum results" default:"20"`
	Offset   int    `long:"offset" description:"Skip first N results" default:"0"`

	globals *GlobalFlags
	version string
}

// SearchCommand runs a full-text search over stored captions.
type SearchCommand struct {
	Limit int `long:"limit" description:"Maximum results" default:"10"`

	globals *GlobalFlags
	version string
}

// StatusCommand shows database statistics and a configuration summary.
type StatusCommand struct {
	globals *GlobalFlags
	version string
	probe   func(addr string) bool // injectable for testing; nil means checkServer
}

// PruneCommand deletes reports older than the retention period.
type PruneCommand struct {
	OlderThan string `long:"older-than" description:"Override retention period (e.g., 30d)"`
	DryRun    bool   `long:"dry-run" description:"Show what would be pruned without deleting"`

	globals *GlobalFlags
	version string
	clock   func() time.Time
}

// PurgeCommand deletes ALL stored reports after a safety confirmation.
type PurgeCommand struct {
	All   bool `long:"all" description:"Required flag to confirm purge intent"`
	Force bool `long:"force" description:"Skip safety confirmation prompt"`

	globals *GlobalFlags
	version string
	stdin   io.Reader
}

// ServeCommand runs the HTTP API.
type ServeCommand struct {
	Host    string `long:"host" description:"Override listen host"`
	Port    int    `long:"port" description:"Override listen port"`
	NoStore bool   `long:"no-store" description:"Run without the report database"`

	globals *GlobalFlags
	version string
}
