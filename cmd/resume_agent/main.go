// Package main provides the resume_agent CLI for scoring and tailoring
// resumes against job descriptions, and for serving the HTTP API.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-ats/internal/config"
	"github.com/jonathan/resume-ats/internal/logging"
	"github.com/jonathan/resume-ats/internal/schemas"
	bundled "github.com/jonathan/resume-ats/schemas"
)

var (
	configPath string
	verbose    bool

	// fileConfig holds --config values; command flags override them
	fileConfig config.Config
	logger     = zerolog.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "resume_agent",
	Short: "ATS resume scoring and tailoring",
	Long: `resume_agent scores resumes the way applicant tracking systems do, plans how
much content fits on the page, and iteratively tailors a resume to a job
description until it reaches a target score.

Configuration can be loaded from a JSON file using --config. Command-line
flags override config file values.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print detailed debug information")
}

// setup loads the config file and configures logging before any command runs
func setup(cmd *cobra.Command, _ []string) error {
	fileConfig = config.Config{}
	if configPath != "" {
		if err := schemas.ValidateFile(bundled.GenerationConfig, configPath); err != nil {
			return fmt.Errorf("invalid config file: %w", err)
		}
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		fileConfig = *loaded
	}

	logger = logging.Setup(logging.Options{
		Level:   os.Getenv("LOG_LEVEL"),
		Verbose: verbose || fileConfig.Verbose,
		Console: true,
		Out:     cmd.ErrOrStderr(),
	})
	return nil
}

// verboseMode reports whether --verbose or the config file asked for detail
func verboseMode() bool {
	return verbose || fileConfig.Verbose
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
