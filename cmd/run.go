package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/abhisek/scorecard/internal/assessment"
	"github.com/abhisek/scorecard/internal/config"
	"github.com/abhisek/scorecard/internal/dashboard"
	"github.com/abhisek/scorecard/internal/llm"
	"github.com/abhisek/scorecard/internal/logging"
	"github.com/abhisek/scorecard/internal/plan"
	"github.com/abhisek/scorecard/internal/store"
)

// deps holds everything a command needs to generate plans.
type deps struct {
	cfg      config.Config
	store    *store.Store
	logger   *zap.Logger
	provider llm.Provider
	planner  *plan.Service
}

// Close releases the provider client and the database.
func (d *deps) Close() {
	if d.provider != nil {
		if err := llm.Close(d.provider); err != nil {
			d.logger.Warn("close provider", zap.Error(err))
		}
	}
	if err := d.store.Close(); err != nil {
		d.logger.Warn("close store", zap.Error(err))
	}
	_ = d.logger.Sync()
}

// loadConfig reads configuration using the --config flag.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the configured path, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

// openStore loads config and opens the event store.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

// buildDeps wires config, store, logger, provider and plan service. When
// logOut is nil the logger follows the configured environment; otherwise
// JSON lines go to logOut. A provider that cannot be built is logged and
// every plan falls back.
func buildDeps(cmd *cobra.Command, logOut io.Writer) (*deps, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	var logger *zap.Logger
	if logOut == nil {
		if logger, err = logging.New(cfg.LogEnv); err != nil {
			return nil, err
		}
	} else {
		logger = logging.NewWriter(logOut, zapcore.InfoLevel)
	}

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	eventRepo := st.EventRepo()
	d := &deps{cfg: cfg, store: st, logger: logger}

	provider, err := llm.NewProvider(cmd.Context(), cfg.LLM, eventRepo, logger)
	if err != nil {
		logger.Warn("LLM provider not configured, plans will use the fallback",
			zap.String("provider", cfg.LLM.Provider), zap.Error(err))
	} else {
		d.provider = provider
	}
	d.planner = plan.NewService(d.provider, cfg.Plan, logger, eventRepo)
	return d, nil
}

// loadSnapshot reads --snapshot, or returns the demo student.
func loadSnapshot(cmd *cobra.Command) (assessment.Snapshot, error) {
	path, _ := cmd.Flags().GetString("snapshot")
	if path == "" {
		return assessment.Demo(), nil
	}
	snap, err := assessment.LoadFile(path)
	if err != nil {
		return assessment.Snapshot{}, fmt.Errorf("load snapshot: %w", err)
	}
	return snap, nil
}

// runDashboard launches the terminal dashboard.
func runDashboard(cmd *cobra.Command) error {
	snap, err := loadSnapshot(cmd)
	if err != nil {
		return err
	}

	var logOut io.Writer = io.Discard
	if p, _ := cmd.Flags().GetString("log-file"); p != "" {
		f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}

	d, err := buildDeps(cmd, logOut)
	if err != nil {
		return err
	}
	defer d.Close()

	return dashboard.Run(cmd.Context(), d.planner, snap)
}
