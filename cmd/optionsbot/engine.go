package main

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/loam"
	"github.com/spf13/cobra"

	"github.com/aretw0/optionsbot"
	"github.com/aretw0/optionsbot/internal/compiler"
	"github.com/aretw0/optionsbot/internal/config"
	loamadapter "github.com/aretw0/optionsbot/pkg/adapters/loam"
	"github.com/aretw0/optionsbot/pkg/adapters/memory"
	redisadapter "github.com/aretw0/optionsbot/pkg/adapters/redis"
	"github.com/aretw0/optionsbot/pkg/domain"
	"github.com/aretw0/optionsbot/pkg/observability"
	"github.com/aretw0/optionsbot/pkg/persistence/middleware"
	"github.com/aretw0/optionsbot/pkg/ports"
	"github.com/aretw0/optionsbot/pkg/runner"
)

const (
	// envRedisPassword is read when --redis is set.
	envRedisPassword = "OPTIONSBOT_REDIS_PASSWORD"
	// envReportKeys holds comma separated base64 AES-256 keys. The first one
	// seals new reports; the others only open old ones.
	envReportKeys = "OPTIONSBOT_REPORT_KEYS"
)

// engineSetup collects what the commands add on top of the global flags.
type engineSetup struct {
	profile *config.Profile
	hooks   []domain.BatchHooks
}

// openLibrary opens the --library directory, or returns nil when unset.
func openLibrary(cmd *cobra.Command, readOnly bool) (*loamadapter.Library, error) {
	dir, _ := cmd.Flags().GetString("library")
	if dir == "" {
		return nil, nil
	}
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve library path: %w", err)
	}
	repo, err := loam.Init(absPath,
		loam.WithVersioning(false),
		loam.WithReadOnly(readOnly),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open library %s: %w", dir, err)
	}
	return loamadapter.New(loam.NewTypedRepository[loamadapter.ScenarioMetadata](repo)), nil
}

// buildEngine wires an Engine from the global flags. The returned func
// releases any connection it opened.
func buildEngine(cmd *cobra.Command, setup engineSetup) (*optionsbot.Engine, func(), error) {
	logger := loggerFrom(cmd)
	opts := []optionsbot.Option{optionsbot.WithLogger(logger)}
	cleanup := func() {}

	if lenient, _ := cmd.Flags().GetBool("lenient-else"); lenient {
		opts = append(opts, optionsbot.WithCompilerOptions(compiler.WithLenientElse()))
	}

	runnerOpts := []runner.Option{runner.WithHooks(observability.LoggingHooks(logger))}
	for _, h := range setup.hooks {
		runnerOpts = append(runnerOpts, runner.WithHooks(h))
	}
	runnerOpts = append(runnerOpts, setup.profile.RunnerOptions()...)
	opts = append(opts, optionsbot.WithRunnerOptions(runnerOpts...))

	constraints, err := setup.profile.Schema()
	if err != nil {
		return nil, cleanup, err
	}
	if constraints != nil {
		opts = append(opts, optionsbot.WithConstraints(constraints))
	}

	if addr, _ := cmd.Flags().GetString("redis"); addr != "" {
		store := redisadapter.New(addr, os.Getenv(envRedisPassword), 0)
		if err := store.Ping(cmd.Context()); err != nil {
			_ = store.Close()
			return nil, cleanup, fmt.Errorf("redis %s: %w", addr, err)
		}
		reports, err := sealReports(store, os.Getenv(envReportKeys))
		if err != nil {
			_ = store.Close()
			return nil, cleanup, err
		}
		opts = append(opts,
			optionsbot.WithReportStore(reports),
			optionsbot.WithLocker(redisadapter.NewLocker(store.Client(), "optionsbot:")),
		)
		cleanup = func() { _ = store.Close() }
	} else {
		opts = append(opts, optionsbot.WithReportStore(memory.NewStore()))
	}

	lib, err := openLibrary(cmd, true)
	if err != nil {
		cleanup()
		return nil, func() {}, err
	}
	if lib != nil {
		opts = append(opts, optionsbot.WithLibrary(lib))
	}

	return optionsbot.New(opts...), cleanup, nil
}

// loadProfile reads --profile when the command has it set.
func loadProfile(cmd *cobra.Command) (*config.Profile, error) {
	path, _ := cmd.Flags().GetString("profile")
	if path == "" {
		return nil, nil
	}
	return config.Load(path)
}

// sealReports wraps store with encryption when keys is set.
func sealReports(store ports.ReportStore, keys string) (ports.ReportStore, error) {
	if keys == "" {
		return store, nil
	}
	var cfg middleware.EncryptionConfig
	for i, k := range strings.Split(keys, ",") {
		key, err := base64.StdEncoding.DecodeString(strings.TrimSpace(k))
		if err != nil {
			return nil, fmt.Errorf("%s: key %d: %w", envReportKeys, i, err)
		}
		if i == 0 {
			cfg.ActiveKey = key
		} else {
			cfg.FallbackKeys = append(cfg.FallbackKeys, key)
		}
	}
	seal, err := middleware.NewEncryptionMiddleware(cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", envReportKeys, err)
	}
	return middleware.Chain(store, seal), nil
}
