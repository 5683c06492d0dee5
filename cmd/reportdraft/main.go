// Command reportdraft drafts and reviews municipal staff reports.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/custodia-labs/reportdraft/internal/adapters/driven/ai"
	"github.com/custodia-labs/reportdraft/internal/adapters/driven/config/env"
	"github.com/custodia-labs/reportdraft/internal/adapters/driven/config/file"
	"github.com/custodia-labs/reportdraft/internal/adapters/driven/export"
	"github.com/custodia-labs/reportdraft/internal/adapters/driven/records"
	"github.com/custodia-labs/reportdraft/internal/adapters/driving/cli"
	"github.com/custodia-labs/reportdraft/internal/bus"
	"github.com/custodia-labs/reportdraft/internal/core/domain"
	"github.com/custodia-labs/reportdraft/internal/core/ports/driven"
	"github.com/custodia-labs/reportdraft/internal/core/services"
	"github.com/custodia-labs/reportdraft/internal/logger"
	"github.com/custodia-labs/reportdraft/internal/normalisers/response"
	"github.com/custodia-labs/reportdraft/internal/postprocessors"
	"github.com/custodia-labs/reportdraft/internal/tracing"
)

// version is set via -ldflags at build time.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	defer func() { _ = logger.Sync() }()

	if err := env.Load(); err != nil {
		logger.Warn("Ignoring .env: %v", err)
	}

	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	if err := logger.SetLogFile(env.LogFile(configStore.GetString("log.file"))); err != nil {
		logger.Warn("Logging to stderr only: %v", err)
	}

	shutdown := tracing.Init(ctx, tracing.ConfigFromEnv(version))
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Warn("Flush traces: %v", err)
		}
	}()

	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	env.ApplyLLM(&settings.LLM)

	completion, err := ai.CreateCompletionService(&settings.LLM)
	if err != nil {
		logger.Warn("Completion service unavailable: %v", err)
	}
	if completion != nil {
		defer func() { _ = completion.Close() }()
	}

	prompts, err := file.NewPromptStore("")
	if err != nil {
		return fmt.Errorf("open prompts: %w", err)
	}

	store, err := recordStore(settings.Records)
	if err != nil {
		return err
	}
	lookup := records.NewCachedLookup(store, settings.Records.CacheTTL)

	b := bus.New()
	defer b.Close()

	drafts := services.NewDraftController(
		b,
		completion,
		services.NewRequestBuilder(services.NewContextAssembler(lookup)),
		response.New(),
		postprocessors.ReviewPipeline(settingsService.GetPipelineConfig()),
		prompts,
		settings.Draft,
	)
	editor := services.NewReportEditor(b, export.NewURLBuilder())
	if err := editor.Attach(); err != nil {
		return err
	}
	defer editor.Detach()
	if err := drafts.Attach(); err != nil {
		return err
	}
	defer drafts.Detach()

	cli.SetServices(cli.Services{
		Draft:    drafts,
		Report:   editor,
		Settings: settingsService,
		Records:  services.NewRecordService(store, lookup),
		WatchPrompts: func() (io.Closer, error) {
			// Load once so the prompt directory exists before it is watched.
			if _, err := prompts.Load(driven.PromptDraftInstructions); err != nil {
				return nil, err
			}
			return file.NewPromptWatcher(prompts, prompts.Dir(), nil)
		},
	})
	cli.SetVersion(version)

	return cli.Execute(ctx)
}

func recordStore(cfg domain.RecordSettings) (*records.FileLookup, error) {
	dir := cfg.Dir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		dir = filepath.Join(home, ".reportdraft", "records")
	}
	return records.NewFileLookup(dir), nil
}
