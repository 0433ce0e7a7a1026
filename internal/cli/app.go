package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/aretw0/motionplan/pkg/adapters/file"
	"github.com/aretw0/motionplan/pkg/adapters/lattice"
	loamAdapter "github.com/aretw0/motionplan/pkg/adapters/loam"
	"github.com/aretw0/motionplan/pkg/adapters/memory"
	"github.com/aretw0/motionplan/pkg/adapters/process"
	redisAdapter "github.com/aretw0/motionplan/pkg/adapters/redis"
	"github.com/aretw0/motionplan/pkg/adapters/sqlite"
	"github.com/aretw0/motionplan/pkg/artifacts"
	"github.com/aretw0/motionplan/pkg/batch"
	"github.com/aretw0/motionplan/pkg/config"
	"github.com/aretw0/motionplan/pkg/observability"
	"github.com/aretw0/motionplan/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// App holds the collaborators built from command-line Options.
type App struct {
	Options   Options
	Logger    *slog.Logger
	Batch     *config.Batch        // nil without --config
	Loader    ports.ScenarioLoader // nil without --config
	Reports   ports.ReportStore
	Solutions ports.SolutionWriter
	Metrics   *observability.Metrics
	Registry  *prometheus.Registry

	debug   bool
	locker  ports.DistributedLocker
	closers []io.Closer
}

// NewApp wires stores, loader and metrics. The caller must Close the App.
func NewApp(opts Options) (*App, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	logger, level, err := createLogger(opts.LogLevel)
	if err != nil {
		return nil, err
	}

	app := &App{
		Options:  opts,
		Logger:   logger,
		Registry: prometheus.NewRegistry(),
		debug:    level <= slog.LevelDebug,
	}

	if opts.ConfigPath != "" {
		if err := app.loadBatch(); err != nil {
			return nil, err
		}
	}
	if err := app.openStores(); err != nil {
		_ = app.Close()
		return nil, err
	}
	if err := app.registerMetrics(); err != nil {
		_ = app.Close()
		return nil, err
	}
	return app, nil
}

func (a *App) loadBatch() error {
	b, err := config.Load(a.Options.ConfigPath)
	if err != nil {
		return err
	}
	if b.InputPath == "" {
		return fmt.Errorf("%s: %s is required", a.Options.ConfigPath, config.KeyInputPath)
	}

	var automata ports.AutomatonProvider = lattice.Default()
	if a.Options.PrimitivesDir != "" {
		lib, err := lattice.LoadDir(a.Options.PrimitivesDir)
		if err != nil {
			return fmt.Errorf("failed to load primitives: %w", err)
		}
		automata = lib
	}

	loader, err := loamAdapter.Open(b.InputPath, automata)
	if err != nil {
		return err
	}
	a.Batch = b
	a.Loader = loader
	a.Logger.Debug("Batch config loaded",
		"config", a.Options.ConfigPath,
		"input_path", b.InputPath,
		"output_path", b.OutputPath,
	)
	return nil
}

func (a *App) openStores() error {
	switch a.Options.Store {
	case StoreRedis:
		store := redisAdapter.New(a.Options.RedisAddr, a.Options.RedisPassword, a.Options.RedisDB,
			redisAdapter.WithTTL(a.Options.ReportTTL),
		)
		a.closers = append(a.closers, store)
		a.Reports = store
		a.Solutions = store
		a.locker = redisAdapter.NewLocker(store.Client(), "motionplan:")
	case StoreSQLite:
		store, err := sqlite.New(a.Options.SQLiteDSN)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, store)
		a.Reports = store
		a.Solutions = store
	case StoreMemory:
		a.Reports = memory.NewStore()
		a.Solutions = a.localSolutions()
	default:
		a.Reports = file.NewReports(a.Options.ReportsDir)
		a.Solutions = a.localSolutions()
	}
	a.Logger.Debug("Stores ready", "store", a.Options.Store)
	return nil
}

// localSolutions writes artifacts to output_path, or keeps them in memory
// when the batch has none.
func (a *App) localSolutions() ports.SolutionWriter {
	if a.Batch != nil && a.Batch.OutputPath != "" {
		return file.NewSolutions(a.Batch.OutputPath)
	}
	return memory.NewSolutions()
}

func (a *App) registerMetrics() error {
	if err := a.Registry.Register(collectors.NewGoCollector()); err != nil {
		return fmt.Errorf("failed to register go collector: %w", err)
	}
	m, err := observability.NewMetrics(a.Registry)
	if err != nil {
		return err
	}
	a.Metrics = m
	return nil
}

// Orchestrator builds a batch orchestrator over the App's collaborators.
// extra options are applied last.
func (a *App) Orchestrator(extra ...batch.Option) (*batch.Orchestrator, error) {
	if a.Loader == nil {
		return nil, errors.New("a batch config is required (--config)")
	}

	guardOpts := []artifacts.Option{artifacts.WithLogger(a.Logger)}
	if a.locker != nil {
		guardOpts = append(guardOpts, artifacts.WithLocker(a.locker))
	}

	opts := []batch.Option{
		batch.WithLogger(a.Logger),
		batch.WithGuard(artifacts.NewManager(a.Solutions, guardOpts...)),
		batch.WithStore(a.Reports),
		batch.WithHooks(a.Metrics.Hooks()),
	}
	switch {
	case a.Options.Sequential:
		opts = append(opts, batch.WithWorkers(1))
	case a.Options.Workers > 0:
		opts = append(opts, batch.WithWorkers(a.Options.Workers))
	}
	if a.Options.Checker != "" {
		v, err := a.checker()
		if err != nil {
			return nil, err
		}
		opts = append(opts, batch.WithValidator(batch.Chain{batch.ConsistencyValidator{}, v}))
	}
	if a.debug {
		opts = append(opts, batch.WithHooks(createDebugHooks(a.Logger)))
	}
	opts = append(opts, extra...)
	return batch.New(a.Loader, opts...), nil
}

// checker resolves --checker against the checkers file. The checker runs
// from the directory holding the batch config.
func (a *App) checker() (*process.Validator, error) {
	checkers, err := process.LoadCheckers(a.Options.CheckersPath)
	if err != nil {
		return nil, err
	}
	cfg, ok := checkers[a.Options.Checker]
	if !ok {
		return nil, fmt.Errorf("unknown solution checker %q (not in %s)", a.Options.Checker, a.Options.CheckersPath)
	}
	a.Logger.Debug("Solution checker enabled", "checker", cfg.Name, "command", cfg.Command)
	return process.NewValidator(cfg,
		process.WithBaseDir(filepath.Dir(a.Options.ConfigPath)),
		process.WithLogger(a.Logger),
	), nil
}

// Close releases store connections.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
