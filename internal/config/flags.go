package config

import "github.com/spf13/pflag"

// Flag names understood by Load.
const (
	FlagConfig    = "config"
	FlagLogLevel  = "log-level"
	FlagLogFile   = "log-file"
	FlagExtension = "ext"
	FlagWorkers   = "workers"
	FlagKeepGoing = "keep-going"
	FlagDryRun    = "dry-run"
)

// flagKeys maps flag names to config keys.
var flagKeys = map[string]string{
	FlagLogLevel:  "logging.level",
	FlagLogFile:   "logging.log_file",
	FlagExtension: "rotate.extension",
	FlagWorkers:   "rotate.workers",
	FlagKeepGoing: "rotate.keep_going",
	FlagDryRun:    "rotate.dry_run",
}

// BindGlobalFlags registers flags shared by every command.
func BindGlobalFlags(fs *pflag.FlagSet) {
	fs.String(FlagConfig, "", "Path to config file")
	fs.String(FlagLogLevel, "", "Log level (debug|info|warn|error)")
	fs.String(FlagLogFile, "", "Also write logs to this file")
}

// BindRotateFlags registers the rotate-tiles flags.
func BindRotateFlags(fs *pflag.FlagSet) {
	fs.String(FlagExtension, "", "Map file extension when scanning directories (default .yml)")
	fs.IntP(FlagWorkers, "j", 0, "Number of files to process concurrently (default 1)")
	fs.Bool(FlagKeepGoing, false, "Log failing files and continue instead of aborting")
	fs.Bool(FlagDryRun, false, "Report what would change without writing files")
}
