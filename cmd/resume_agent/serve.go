package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-ats/internal/config"
	"github.com/jonathan/resume-ats/internal/db"
	"github.com/jonathan/resume-ats/internal/fetch"
	"github.com/jonathan/resume-ats/internal/jobs"
	"github.com/jonathan/resume-ats/internal/llm"
	"github.com/jonathan/resume-ats/internal/logging"
	"github.com/jonathan/resume-ats/internal/parsing"
	"github.com/jonathan/resume-ats/internal/regeneration"
	"github.com/jonathan/resume-ats/internal/server"
	"github.com/jonathan/resume-ats/internal/server/ratelimit"
)

// jobTTL is how long finished jobs stay readable in Redis
const jobTTL = 24 * time.Hour

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes scoring, planning and tailoring endpoints.

Jobs are kept in memory unless REDIS_ADDR is set. Runs are recorded in
Postgres when DATABASE_URL is set. Mutating routes require a bearer token
when JWT_SECRET is set.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	serverCfg, err := config.ServerFromEnv()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") || os.Getenv("PORT") == "" {
		serverCfg.Port = servePort
	}
	if serverCfg.RedisAddr == "" {
		serverCfg.RedisAddr = fileConfig.RedisAddr
	}
	if serverCfg.DatabaseURL == "" {
		serverCfg.DatabaseURL = fileConfig.DatabaseURL
	}

	logger = logging.Setup(logging.Options{
		Level:   os.Getenv("LOG_LEVEL"),
		Verbose: verboseMode(),
		Console: serverCfg.Development(),
		Out:     cmd.ErrOrStderr(),
	})

	jwtCfg, err := config.OptionalJWTConfig()
	if err != nil {
		return err
	}

	deps := server.Dependencies{JobBackend: "memory"}
	var store jobs.Store = jobs.NewMemoryStore()
	var cache fetch.Cache

	if serverCfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: serverCfg.RedisAddr, Password: serverCfg.RedisPassword})
		defer rdb.Close() //nolint:errcheck
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to connect to redis at %s: %w", serverCfg.RedisAddr, err)
		}
		store = jobs.NewRedisStore(rdb, jobTTL)
		cache = fetch.NewRedisCache(rdb, "resume-ats:fetch:")
		deps.JobBackend = "redis"
	}
	deps.Jobs = store

	var recorder jobs.Recorder
	if serverCfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, serverCfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close()
		if err := database.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		recorder = database
		deps.Runs = database
	}

	var client llm.Client
	if chain, err := newLLMClient(ctx, fileConfig); err != nil {
		logger.Warn().Err(err).Msg("LLM unavailable: rule scoring only, no content improvement")
	} else {
		defer chain.Close() //nolint:errcheck
		client = chain
	}
	tools := newLLMTools(client)
	deps.Hybrid = tools.hybrid
	deps.Consolidator = tools.consolidator

	fetchOpts := fetch.DefaultOptions()
	if !fileConfig.UseBrowser {
		fetchOpts.Render = nil
	}

	runner := jobs.NewRunner(jobs.RunnerConfig{
		Store:    store,
		Analyzer: parsing.NewAnalyzer(client, logger),
		Fetcher:  fetch.NewCachedFetcher(cache, &fetch.CachedFetcherConfig{Options: fetchOpts}, logger),
		Controller: func(progress regeneration.ProgressFunc) *regeneration.Controller {
			return newController(client, progress)
		},
		Recorder: recorder,
		Timeout:  serverCfg.JobTimeout,
	}, logger)
	defer runner.Close()
	deps.Runner = runner

	srv, err := server.New(server.Config{
		Port:            serverCfg.Port,
		AllowedOrigins:  serverCfg.AllowedOrigins,
		JWT:             jwtCfg,
		RateLimit:       ratelimit.LoadConfig(),
		ShutdownTimeout: serverCfg.ShutdownTimeout,
	}, deps, logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
