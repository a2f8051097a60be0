package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-ats/internal/config"
	"github.com/jonathan/resume-ats/internal/consolidation"
	"github.com/jonathan/resume-ats/internal/db"
	"github.com/jonathan/resume-ats/internal/fetch"
	"github.com/jonathan/resume-ats/internal/llm"
	"github.com/jonathan/resume-ats/internal/observability"
	"github.com/jonathan/resume-ats/internal/parsing"
	"github.com/jonathan/resume-ats/internal/regeneration"
	"github.com/jonathan/resume-ats/internal/scoring"
	"github.com/jonathan/resume-ats/internal/types"
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Tailor a resume to a job until it reaches the target ATS score",
	Long: `Runs the regeneration loop: score, then consolidate or improve depending on
page fill, repeating until the target score or the attempt limit is reached.
The best-scoring version is written to --out.

The job is given as a profile JSON (--profile), a posting text file (--job)
or a URL (--job-url). Text and URLs are analyzed into a profile first.

Configuration can be loaded from a JSON file using --config. Command-line
arguments override config file values.`,
	RunE: runApply,
}

var (
	applyResume      string
	applyProfile     string
	applyJob         string
	applyJobURL      string
	applyOut         string
	applyHistory     string
	applyTarget      int
	applyMaxAttempts int
	applyPages       int
	applyHybrid      bool
	applyUseBrowser  bool
	applyDatabaseURL string
)

func init() {
	applyCmd.Flags().StringVarP(&applyResume, "resume", "r", "", "Path to resume JSON")
	applyCmd.Flags().StringVarP(&applyProfile, "profile", "p", "", "Path to job profile JSON (mutually exclusive with --job and --job-url)")
	applyCmd.Flags().StringVarP(&applyJob, "job", "j", "", "Path to job posting text file")
	applyCmd.Flags().StringVar(&applyJobURL, "job-url", "", "URL to fetch the job posting from")
	applyCmd.Flags().StringVarP(&applyOut, "out", "o", "", "Path to write the tailored resume")
	applyCmd.Flags().StringVar(&applyHistory, "history", "", "Path to write the score history JSON")
	applyCmd.Flags().IntVar(&applyTarget, "target", 0, "Target ATS score (default 92)")
	applyCmd.Flags().IntVar(&applyMaxAttempts, "max-attempts", 0, "Maximum scoring attempts (default 10)")
	applyCmd.Flags().IntVar(&applyPages, "pages", 0, "Target page count, 1 or 2")
	applyCmd.Flags().BoolVar(&applyHybrid, "hybrid", false, "Blend LLM and rule scores")
	applyCmd.Flags().BoolVar(&applyUseBrowser, "use-browser", false, "Use headless browser for SPA sites (requires Chrome)")
	applyCmd.Flags().StringVar(&applyDatabaseURL, "db-url", "", "PostgreSQL URL to record the run (optional, defaults to DATABASE_URL env var)")

	applyCmd.MarkFlagsMutuallyExclusive("profile", "job", "job-url")

	rootCmd.AddCommand(applyCmd)
}

// applyConfig merges the apply flags over the config file
func applyConfig() (config.Config, error) {
	flags := config.Config{
		Resume:        applyResume,
		Profile:       applyProfile,
		Job:           applyJob,
		JobURL:        applyJobURL,
		Out:           applyOut,
		TargetScore:   applyTarget,
		MaxAttempts:   applyMaxAttempts,
		TargetPages:   applyPages,
		HybridScoring: applyHybrid || fileConfig.HybridScoring,
		UseBrowser:    applyUseBrowser || fileConfig.UseBrowser,
		DatabaseURL:   applyDatabaseURL,
	}
	defaults := fileConfig
	// a source flag replaces the config file's source rather than joining it
	if flags.Profile != "" || flags.Job != "" || flags.JobURL != "" {
		defaults.Profile, defaults.Job, defaults.JobURL = "", "", ""
	}
	merged := flags.MergeWithDefaults(defaults)
	return merged, merged.Validate()
}

func runApply(cmd *cobra.Command, _ []string) error {
	cfg, err := applyConfig()
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.Out == "" {
		return fmt.Errorf("--out is required")
	}
	if cfg.Profile == "" && cfg.Job == "" && cfg.JobURL == "" {
		return fmt.Errorf("one of --profile, --job or --job-url is required")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	// Ctrl-C stops the loop; the best version so far is still written
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	resume, err := readResume(cfg.Resume)
	if err != nil {
		return err
	}

	var client llm.Client
	if chain, err := newLLMClient(ctx, cfg); err != nil {
		logger.Warn().Err(err).Msg("LLM unavailable: rule scoring only, no content improvement")
	} else {
		defer chain.Close() //nolint:errcheck
		client = chain
	}

	profile, err := resolveProfile(ctx, cfg, client)
	if err != nil {
		return err
	}
	if verboseMode() {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintJobProfile(profile)
	}

	controller := newController(client, progressPrinter(cmd))
	result, runErr := controller.Run(ctx, resume, profile, types.GenerationConfig{
		TargetScore:   cfg.TargetScore,
		MaxAttempts:   cfg.MaxAttempts,
		HybridScoring: cfg.HybridScoring,
		TargetPages:   cfg.TargetPages,
	})
	if result == nil {
		return fmt.Errorf("tailoring failed: %w", runErr)
	}

	if err := writeJSON(cmd.OutOrStdout(), cfg.Out, result.Resume); err != nil {
		return err
	}
	if applyHistory != "" {
		if err := writeJSON(cmd.OutOrStdout(), applyHistory, result.History); err != nil {
			return err
		}
	}
	if cfg.DatabaseURL != "" {
		recordRun(cfg, profile, result)
	}

	observability.NewPrinter(cmd.ErrOrStderr()).PrintResult(result)
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Best score %d/100 after %d attempts; wrote %s\n", result.Score.Overall, result.Attempts, cfg.Out)

	if runErr != nil {
		if errors.Is(runErr, context.Canceled) {
			return fmt.Errorf("interrupted after %d attempts, best version saved", result.Attempts)
		}
		return runErr
	}
	return nil
}

// resolveProfile loads the profile file, or analyzes a posting read from a
// file or fetched from a URL
func resolveProfile(ctx context.Context, cfg config.Config, client llm.Client) (*types.JobProfile, error) {
	if cfg.Profile != "" {
		return readProfile(cfg.Profile)
	}

	var text string
	if cfg.Job != "" {
		data, err := os.ReadFile(cfg.Job)
		if err != nil {
			return nil, fmt.Errorf("failed to read job posting: %w", err)
		}
		text = string(data)
	} else {
		opts := fetch.DefaultOptions()
		if !cfg.UseBrowser {
			opts.Render = nil
		}
		fetched, err := fetch.NewCachedFetcher(nil, &fetch.CachedFetcherConfig{Options: opts}, logger).Fetch(ctx, cfg.JobURL)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch job posting: %w", err)
		}
		text = fetched.Text
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("job posting is empty")
	}

	profile, err := parsing.NewAnalyzer(client, logger).Analyze(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze job posting: %w", err)
	}
	return profile, nil
}

// llmTools are the loop collaborators. Without a client scoring falls back
// to rules, consolidation skips the polish and there is no improver.
type llmTools struct {
	hybrid       *scoring.HybridScorer
	consolidator *consolidation.Engine
	improver     regeneration.Improver
}

func newLLMTools(client llm.Client) llmTools {
	var ai scoring.AIScorer
	var rewriter consolidation.Rewriter
	var tools llmTools
	if client != nil {
		ai = scoring.NewLLMScorer(client)
		rewriter = consolidation.NewLLMRewriter(client)
		tools.improver = regeneration.NewLLMImprover(client, logger)
	}
	tools.hybrid = scoring.NewHybridScorer(ai, logger)
	tools.consolidator = consolidation.NewEngine(rewriter, consolidation.Options{}, logger)
	return tools
}

// newController wires the regeneration loop around client, which may be nil
func newController(client llm.Client, progress regeneration.ProgressFunc) *regeneration.Controller {
	tools := newLLMTools(client)
	return regeneration.NewController(regeneration.Options{
		Hybrid:       tools.hybrid,
		Improver:     tools.improver,
		Consolidator: tools.consolidator,
		Progress:     progress,
	}, logger)
}

func progressPrinter(cmd *cobra.Command) regeneration.ProgressFunc {
	printer := observability.NewPrinter(cmd.ErrOrStderr())
	return func(e regeneration.Event) {
		if verboseMode() {
			printer.PrintEvent(e)
			return
		}
		logger.Info().Str("stage", string(e.Stage)).Int("attempt", e.Attempt).Msg(e.Message)
	}
}

// recordRun saves the run to Postgres. Failures are logged, not returned.
func recordRun(cfg config.Config, profile *types.JobProfile, result *regeneration.Result) {
	ctx := context.Background()
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to connect to database, run not recorded")
		return
	}
	defer database.Close()

	if err := database.Migrate(ctx); err != nil {
		logger.Warn().Err(err).Msg("failed to migrate database, run not recorded")
		return
	}

	status := db.RunStatusBelowTarget
	if result.Reached {
		status = db.RunStatusCompleted
	}
	gen := types.GenerationConfig{TargetScore: cfg.TargetScore}.WithDefaults()
	id, err := database.SaveRun(ctx, db.RunInput{
		Company:     profile.Company,
		RoleTitle:   profile.RoleTitle,
		JobURL:      cfg.JobURL,
		Status:      status,
		TargetScore: gen.TargetScore,
		BestScore:   result.Score.Overall,
	}, result.History, result.Score)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to record run")
		return
	}
	logger.Info().Str("run_id", id.String()).Msg("recorded run")
}
