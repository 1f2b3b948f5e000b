// Package cli holds the flag parsing, console prompts and plain-text
// output shared by the ynamazon commands.
package cli

import (
	"flag"

	"github.com/ynamazon/ynamazon-go/internal/application/sync"
)

// SyncFlags are the flags for the sync command
type SyncFlags struct {
	ConfigFile  string
	DryRun      bool
	Days        int
	Interactive bool
	Verbose     bool
}

// ParseSyncFlags parses sync flags from the given arguments
func ParseSyncFlags(args []string) (SyncFlags, error) {
	var flags SyncFlags
	fs := flag.NewFlagSet("sync", flag.ContinueOnError)
	fs.StringVar(&flags.ConfigFile, "config", "", "Configuration file path")
	fs.BoolVar(&flags.DryRun, "dry-run", false, "Preview memos without applying them")
	fs.IntVar(&flags.Days, "days", 0, "Purchase lookback window in days (0 = config value)")
	fs.BoolVar(&flags.Interactive, "interactive", true, "Prompt on ambiguous matches and date mismatches")
	fs.BoolVar(&flags.Verbose, "verbose", false, "Enable verbose logging")
	if err := fs.Parse(args); err != nil {
		return flags, err
	}
	return flags, nil
}

// ToSyncOptions converts SyncFlags to sync.Options
func (f SyncFlags) ToSyncOptions() sync.Options {
	return sync.Options{
		DryRun:  f.DryRun,
		Verbose: f.Verbose,
	}
}
