package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables that override main configuration values.
const (
	EnvInputDir        = "IIF_INPUT_DIR"
	EnvOutputDir       = "IIF_OUTPUT_DIR"
	EnvConfigsDir      = "IIF_CONFIGS_DIR"
	EnvLogLevel        = "IIF_LOG_LEVEL"
	EnvLogFile         = "IIF_LOG_FILE"
	EnvMaxConcurrency  = "IIF_MAX_CONCURRENCY"
	EnvContinueOnError = "IIF_CONTINUE_ON_ERROR"
)

// LoadEnv loads a .env file into the process environment without replacing
// variables that are already set. A missing file is ignored unless it was
// named explicitly.
func LoadEnv(path string, explicit bool) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) && !explicit {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// applyEnvOverrides copies IIF_* variables over file values.
func applyEnvOverrides(config *MainConfig) error {
	stringVars := map[string]*string{
		EnvInputDir:   &config.InputDir,
		EnvOutputDir:  &config.OutputDir,
		EnvConfigsDir: &config.ConfigsDir,
		EnvLogLevel:   &config.LogLevel,
		EnvLogFile:    &config.LogFile,
	}
	for name, dst := range stringVars {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			*dst = v
		}
	}

	if v, ok := os.LookupEnv(EnvMaxConcurrency); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMaxConcurrency, err)
		}
		config.MaxConcurrency = n
	}

	if v, ok := os.LookupEnv(EnvContinueOnError); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvContinueOnError, err)
		}
		config.ContinueOnError = b
	}

	return nil
}
