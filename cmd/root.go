// =============================================================================
// CSV to IIF Converter - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. All other commands
// are attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (converter)
//   ├── processCmd (converter process)
//   ├── validateCmd (converter validate)
//   └── versionCmd (converter version)
//
// CONFIGURATION:
//   Commands that touch files call setup(), which
//   1. Loads the optional .env file (--env-file)
//   2. Loads the main configuration (--config) with IIF_* overrides
//   3. Builds the zap logger (--verbose forces debug level)
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/ginjaninja78/CSV-to-IIF-conversion/internal/config"
	"github.com/ginjaninja78/CSV-to-IIF-conversion/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
var cfgFile string

// envFile holds the path to the .env file.
var envFile string

// verbose enables debug logging.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

var rootCmd = &cobra.Command{
	Use:   "converter",
	Short: "CSV to IIF Converter - Turn journal exports into accounting import files",
	Long: `CSV to IIF Converter turns CSV and XLSX journal exports into IIF files
that the desktop accounting product imports as balanced transactions.

Key Features:
  - Department-specific column mapping and transformation rules
  - Rows grouped into multi-line transactions by a key column
  - Validation of amounts, dates, document numbers and balance before export
  - Concurrent processing of input files
  - Automatic archival of converted files

Example Usage:
  converter process                      # Convert every file in the input directory
  converter process --file ./in/gl.csv   # Convert a single file
  converter validate                     # Check files without writing output`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the root command. It is called once by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml",
		"Path to the main configuration file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env",
		"Path to a .env file with IIF_* overrides")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose output for debugging")
}

// =============================================================================
// SHARED SETUP
// =============================================================================

// setup loads the environment and main configuration and builds the
// logger. The default config path may be absent, in which case built-in
// defaults are used; an explicitly named one must exist.
func setup(cmd *cobra.Command) (*config.MainConfig, *zap.SugaredLogger, error) {
	flags := cmd.Flags()

	if err := config.LoadEnv(envFile, flags.Changed("env-file")); err != nil {
		return nil, nil, err
	}

	mainConfig, err := config.LoadMainConfig(cfgFile, !flags.Changed("config"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load main config: %w", err)
	}

	level := mainConfig.LogLevel
	if verbose {
		level = "debug"
	}
	log, err := logger.New(level, mainConfig.LogFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return mainConfig, log.Sugar(), nil
}
