// Package cmd wires the FLT-to-VHS orchestrator up to a cobra CLI.
package cmd

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	Verbose  bool
	JSONLogs bool
)

var rootCmd = &cobra.Command{
	Use:   "flt2vhs",
	Short: "Convert FLT flight recordings to indexed VHS files",
	Long: `flt2vhs reads one or more sequential FLT recordings, merges the ones
that form a single contiguous flight, and writes each resulting flight as an
indexed, random-access VHS file.`,
}

// Execute runs the root command; its subcommands are registered by this
// package's init functions. Called once from main.main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&Verbose, "verbose", "v", false, "enable trace-level logging")
	rootCmd.PersistentFlags().BoolVar(&JSONLogs, "json", false, "log in JSON instead of console format")

	rootCmd.Flags().BoolP("version", "V", false, "print version information")
	rootCmd.SetVersionTemplate("flt2vhs v{{.Version}}\n")
	rootCmd.Version = "0.1.0"
}

// configureLogger builds the zerolog.Logger backing every conversion's
// xlog.Logger, honoring the persistent --verbose/--json flags.
func configureLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if Verbose {
		level = zerolog.TraceLevel
	}

	var logger zerolog.Logger
	if JSONLogs {
		logger = zerolog.New(os.Stderr)
	} else {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	return logger.Level(level).With().Timestamp().Logger()
}
