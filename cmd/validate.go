// =============================================================================
// CSV to IIF Converter - Validate Command
// =============================================================================
//
// This file defines the 'validate' command. It loads every configuration
// file and runs each input file through parsing, transformation, validation
// and rendering without writing or archiving anything. Findings go to the
// console and to the error log, exactly as a real run would report them.
//
// COMMAND USAGE:
//   converter validate [--file PATH] [--department CODE]
//
// =============================================================================

package cmd

import (
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check configuration and input files without writing output",
	RunE: func(cmd *cobra.Command, args []string) error {
		mainConfig, log, err := setup(cmd)
		if err != nil {
			return err
		}
		defer log.Sync()

		return runProcess(cmd.Context(), cmd.OutOrStdout(), mainConfig, log, runOptions{
			dryRun:     true,
			file:       filePath,
			department: department,
		})
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&filePath, "file", "",
		"Path to a single file to check")
	validateCmd.Flags().StringVar(&department, "department", "",
		"Check only files for this department code")
}
