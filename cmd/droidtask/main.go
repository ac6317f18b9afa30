// Package main provides the entry point for the droidtask CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/taskpilot/droidtask/internal/ai"
	"github.com/taskpilot/droidtask/internal/apps/system"
	"github.com/taskpilot/droidtask/internal/apps/wechat"
	"github.com/taskpilot/droidtask/internal/assets"
	"github.com/taskpilot/droidtask/internal/classifier"
	"github.com/taskpilot/droidtask/internal/clock"
	"github.com/taskpilot/droidtask/internal/cli"
	"github.com/taskpilot/droidtask/internal/config"
	"github.com/taskpilot/droidtask/internal/constants"
	"github.com/taskpilot/droidtask/internal/contracts"
	"github.com/taskpilot/droidtask/internal/device"
	"github.com/taskpilot/droidtask/internal/errors"
	"github.com/taskpilot/droidtask/internal/executor"
	"github.com/taskpilot/droidtask/internal/locator"
	"github.com/taskpilot/droidtask/internal/registry"
	"github.com/taskpilot/droidtask/internal/runner"
	"github.com/taskpilot/droidtask/internal/signal"
	"github.com/taskpilot/droidtask/internal/workflow"
)

// Version information, set at build time via ldflags.
//
//nolint:gochecknoglobals // populated by -ldflags at build time
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

// run wires dependencies, executes the command, and returns the process
// exit code. Kept separate from main so every cleanup (signal handler
// teardown, device lock release) runs via defer before exit, which
// os.Exit itself would skip.
func run() int {
	sigHandler := signal.NewHandler(context.Background())
	defer sigHandler.Stop()
	ctx := sigHandler.Context()

	info := cli.BuildInfo{Version: version, Commit: commit, Date: date}

	deps, unlock, err := wire(ctx)
	defer unlock()
	if err != nil {
		fmt.Fprintf(os.Stderr, "droidtask: %v\n", err)
		return cli.ExitCodeForError(err)
	}

	if err := cli.Execute(ctx, info, deps); err != nil {
		return cli.ExitCodeForError(err)
	}
	return cli.ExitSuccess
}

// wire constructs every component named in the dependency chain: config,
// device, locators/planners, per-handler executors, the registry, the
// classifier, and finally the task runner the CLI dispatches through. The
// returned func releases the device lock acquired below and must be
// deferred by the caller even when wire itself returns an error.
func wire(ctx context.Context) (cli.Dependencies, func(), error) {
	noop := func() {}

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	ctx = logger.WithContext(ctx)

	cfg, err := config.Load(ctx)
	if err != nil {
		return cli.Dependencies{}, noop, fmt.Errorf("load config: %w", err)
	}

	lock, err := acquireDeviceLock(ctx, cfg)
	if err != nil {
		return cli.Dependencies{}, noop, err
	}
	unlock := func() {
		if unlockErr := lock.Release(); unlockErr != nil {
			logger.Warn().Err(unlockErr).Msg("release device lock")
		}
	}

	dev := device.New(cfg, logger)

	primaryModel := ai.NewHTTPRunner(&cfg.LLM, errors.ErrPlannerFailed, logger)

	var secondaryModel ai.Runner
	if cfg.Classifier.Secondary.Provider != "" {
		secondaryModel = ai.NewHTTPRunner(&cfg.Classifier.Secondary, errors.ErrClassificationFailed, logger)
	}

	var smallModel ai.Runner
	if cfg.Locator.SmallModel.Provider != "" {
		smallModel = ai.NewHTTPRunner(&cfg.Locator.SmallModel, errors.ErrLocateFailed, logger)
	}

	loc := locator.New(&cfg.Locator, smallModel, primaryModel, logger)

	appsRoot := constants.AppsDir
	if override := os.Getenv("DROIDTASK_APPS_ROOT"); override != "" {
		appsRoot = override
	}

	reg, err := registry.Load(appsRoot, logger)
	if err != nil {
		return cli.Dependencies{}, unlock, fmt.Errorf("load registry: %w", err)
	}

	cls := classifier.New(&cfg.Classifier, primaryModel, secondaryModel, logger)

	clk := clock.RealClock{}

	handlers := make(runner.StaticHandlers)
	for _, dirName := range []string{constants.DefaultHandlerName, "wechat"} {
		handler, err := buildHandler(ctx, dirName, reg, dev, loc, cfg, primaryModel, cls, clk, logger)
		if err != nil {
			if dirName == constants.DefaultHandlerName {
				return cli.Dependencies{}, unlock, fmt.Errorf("build required handler %s: %w", dirName, err)
			}
			logger.Warn().Str("handler", dirName).Err(err).Msg("handler not discovered, skipping")
			continue
		}
		handlers[dirName] = handler
	}

	r := runner.New(reg, cls, handlers, clk, logger)

	return cli.Dependencies{
		Runner:  r,
		Modules: reg,
		Device:  dev,
		Config:  cfg,
	}, unlock, nil
}

// acquireDeviceLock binds this process to cfg's device serial for its
// entire lifetime, so a second droidtask process targeting the same
// serial cannot dispatch concurrently (§5). The mock device is
// process-local and never contended, so debug mode skips locking
// entirely.
func acquireDeviceLock(ctx context.Context, cfg *config.Config) (*device.Lock, error) {
	if cfg.Debug.Mode {
		return nil, nil
	}
	return device.AcquireLock(ctx, cfg.Device.Default)
}

// buildHandler constructs one handler's Asset Store, Workflow Model, and
// Workflow Executor, then its C9 Reference Handler instance.
func buildHandler(
	_ context.Context,
	dirName string,
	reg *registry.Registry,
	dev contracts.Device,
	loc *locator.Locator,
	cfg *config.Config,
	planner ai.Runner,
	cls *classifier.Classifier,
	clk clock.Clock,
	logger zerolog.Logger,
) (contracts.Handler, error) {
	dir, ok := reg.Dir(dirName)
	if !ok {
		return nil, fmt.Errorf("%w: %s", errors.ErrHandlerNotFound, dirName)
	}
	info, _ := reg.Info(dirName)

	resolver, err := assets.NewResolver(
		filepath.Join(dir, constants.ImagesDir),
		filepath.Join(dir, constants.AliasesFileName),
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("load assets for %s: %w", dirName, err)
	}

	table, err := workflow.Load(filepath.Join(dir, constants.WorkflowsFileName))
	if err != nil {
		return nil, fmt.Errorf("load workflows for %s: %w", dirName, err)
	}

	exec := executor.New(
		dev, loc, resolver, table,
		info.PackageID, dirName,
		cfg.Workflow, cfg.Screenshot.WaitFor(dirName),
		planner, clk, logger,
	)

	switch dirName {
	case "wechat":
		return wechat.New(dirName, info, table, exec, cls, planner, logger), nil
	default:
		return system.New(dirName, info, table, exec, logger), nil
	}
}
