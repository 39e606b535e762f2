package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrkline/flt2vhs/orchestrator"
	"github.com/mrkline/flt2vhs/xlog"
)

var outDir string

func init() {
	convertCmd := &cobra.Command{
		Use:   "convert <input-dir>",
		Short: "Convert every *.flt file in a directory to VHS",
		Long: `Convert reads every *.flt file directly under input-dir, in lexical
order, merges consecutive files that form one contiguous flight, and writes
one VHS file per resulting flight.`,
		Example: `  # Convert recordings in ./recordings, writing output alongside them
  flt2vhs convert ./recordings

  # Write outputs to a separate directory
  flt2vhs convert ./recordings -o ./converted`,
		Args: cobra.ExactArgs(1),
		RunE: runConvert,
	}

	convertCmd.Flags().StringVarP(&outDir, "output", "o", "", "directory for VHS output (default: alongside each input)")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	inputDir := args[0]

	zl := configureLogger()
	log := xlog.NewZerologAdapter(zl)

	in := orchestrator.DirInputSupplier{Dir: inputDir}

	var out orchestrator.OutputSink
	if outDir != "" {
		if err := os.MkdirAll(outDir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
		out = orchestrator.DirOutputSink{Dir: outDir}
	} else {
		out = orchestrator.SiblingOutputSink{}
	}

	switch status := orchestrator.Run(in, out, log); status {
	case orchestrator.Clean:
		return nil
	case orchestrator.CompletedWithCorruption:
		zl.Warn().Msg("conversion completed, but at least one input was corrupted")
		return nil
	default:
		return fmt.Errorf("conversion failed, see log output above")
	}
}
