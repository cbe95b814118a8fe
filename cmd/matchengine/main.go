package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/banner"

	"github.com/ternarybob/matchengine/internal/config"
	"github.com/ternarybob/matchengine/internal/llm"
	"github.com/ternarybob/matchengine/internal/logging"
	"github.com/ternarybob/matchengine/internal/store/badger"
	"github.com/ternarybob/matchengine/internal/workflow"
)

// configPaths is a custom flag type that allows multiple -config flags.
type configPaths []string

func (c *configPaths) String() string { return fmt.Sprintf("%v", *c) }
func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	configFiles configPaths
	maxWorkers  = flag.Int("workers", 0, "Override execution.max_workers")
	batchSize   = flag.Int("batch-size", 0, "Override execution.batch_size")
	maxJobs     = flag.Int("max-jobs", 0, "Override dedupe.max_jobs")
	showVersion = flag.Bool("version", false, "Print version information")
)

const version = "0.1.0"

func init() {
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times, later files override earlier ones)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")
}

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("matchengine version %s\n", version)
		os.Exit(0)
	}

	// Startup sequence (required order): load config -> apply CLI overrides
	// -> init logger -> print banner -> run.
	cfg, err := config.LoadFromFiles(configFiles...)
	if err != nil {
		tempLogger := arbor.NewLogger()
		tempLogger.Fatal().Err(err).Msg("failed to load configuration")
		os.Exit(1)
	}
	applyFlagOverrides(cfg)

	logger := logging.Setup(&cfg.Logging, "matchengine.log")
	defer logging.Stop()

	printBanner(cfg, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	documentStore, err := badger.New(logger, cfg.Store.DataDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open document store")
	}

	llmClient, err := llm.New(ctx, cfg.LLM, cfg.Validation, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize LLM client")
	}

	engine, err := workflow.NewEngine(cfg, workflow.Services{
		Store:  documentStore,
		LLM:    llmClient,
		Clock:  time.Now,
		Logger: logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize workflow engine")
	}
	defer func() {
		if err := engine.Close(); err != nil {
			logger.Error().Err(err).Msg("error closing workflow engine")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info().Msg("interrupt signal received, requesting cooperative shutdown")
		cancel()
	}()

	logger.Info().Msg("starting resume-job matching run")
	summary, err := engine.Run(ctx)
	if err != nil && ctx.Err() == nil {
		logger.Fatal().Err(err).Msg("workflow run failed")
	}

	logger.Info().
		Str("workflow_run", summary.WorkflowRun).
		Int("jobs_considered", summary.JobsConsidered).
		Int("matched", summary.Metrics.Matched).
		Int("no_valid_match", summary.Metrics.NoValidMatch).
		Int("no_resumes_found", summary.Metrics.NoResumesFound).
		Int("errors", summary.Metrics.Errors).
		Dur("duration", summary.Duration()).
		Msg("matching run complete")

	for _, rec := range summary.GetPerformanceRecommendations() {
		logger.Warn().Msg(rec)
	}
}

func applyFlagOverrides(cfg *config.Config) {
	if *maxWorkers > 0 {
		cfg.Execution.MaxWorkers = *maxWorkers
	}
	if *batchSize > 0 {
		cfg.Execution.BatchSize = *batchSize
	}
	if *maxJobs > 0 {
		cfg.Dedupe.MaxJobs = *maxJobs
	}
}

func printBanner(cfg *config.Config, logger arbor.ILogger) {
	b := banner.New().
		SetStyle(banner.StyleDouble).
		SetBorderColor(banner.ColorGreen).
		SetTextColor(banner.ColorWhite).
		SetBold(true).
		SetWidth(80)

	fmt.Printf("\n")
	b.PrintTopLine()
	b.PrintCenteredText("MATCHENGINE")
	b.PrintCenteredText("Resume-Job Matching Engine")
	b.PrintSeparatorLine()
	b.PrintKeyValue("Version", version, 15)
	b.PrintKeyValue("LLM Provider", cfg.LLM.Provider, 15)
	b.PrintKeyValue("Data Dir", cfg.Store.DataDir, 15)
	b.PrintBottomLine()
	fmt.Printf("\n")

	logger.Info().
		Str("version", version).
		Str("llm_provider", cfg.LLM.Provider).
		Str("data_dir", cfg.Store.DataDir).
		Msg("matchengine started")
}
