package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/finquest/finquest/internal/app"
	"github.com/finquest/finquest/internal/badges"
	"github.com/finquest/finquest/internal/catalog"
	"github.com/finquest/finquest/internal/config"
	"github.com/finquest/finquest/internal/engine"
	"github.com/finquest/finquest/internal/logger"
	"github.com/finquest/finquest/internal/store"
	"github.com/finquest/finquest/internal/task"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start the game (default command)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// session bundles everything a command needs to drive the engine.
type session struct {
	cfg      config.Config
	log      *logger.Logger
	store    *store.Store
	engine   *engine.Engine
	restored bool
}

func (s *session) Close() {
	s.engine.CancelAll()
	s.log.Sync()
	s.store.Close()
}

// save persists the engine snapshot when progress persistence is on.
func (s *session) save(ctx context.Context) error {
	if !s.cfg.PersistProgress {
		return nil
	}
	return s.engine.Save(ctx, s.store.SnapshotRepo())
}

// openSession loads config, opens the store and logger, and restores the
// engine from the latest snapshot.
func openSession(cmd *cobra.Command) (*session, error) {
	ctx := cmd.Context()
	cfg := config.Load()

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}

	// The terminal belongs to the UI, so logs go to a file.
	logPath := cfg.LogFile
	if logPath == "" {
		logPath = filepath.Join(filepath.Dir(dbPath), "finquest.log")
	}
	log, err := logger.New(cfg.LogMode, logPath)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	for _, w := range cfg.Warnings {
		log.Warn("config", "warning", w)
	}

	cat, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		log.Sync()
		return nil, err
	}

	st, err := store.Open(dbPath)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("open store: %w", err)
	}

	retry := task.DefaultRetryConfig()
	retry.MaxAttempts = cfg.RetryAttempts
	deps := engine.Deps{
		Catalog: cat,
		Remote: task.WithRetry(task.NewSimulator(task.SimConfig{
			Latency:     cfg.LedgerLatency,
			FailureRate: cfg.LedgerFailRate,
		}), retry),
		Events: st.EventRepo(),
		KV:     st.KV(),
		Log:    log,
	}

	var (
		eng      *engine.Engine
		restored bool
	)
	if cfg.PersistProgress {
		eng, restored, err = engine.Load(ctx, deps, st.SnapshotRepo())
		if err != nil {
			st.Close()
			log.Sync()
			return nil, fmt.Errorf("restore progress: %w", err)
		}
	} else {
		eng = engine.New(deps)
	}

	if _, _, err := eng.LoadBudget(ctx); err != nil {
		log.Warn("budget not loaded", "error", err)
	}

	log.Info("session opened", "db", dbPath, "catalog", cat.Version(), "restored", restored)
	return &session{cfg: cfg, log: log, store: st, engine: eng, restored: restored}, nil
}

// loadCatalog returns the embedded catalog, or the file at path when set.
// Unit badge references are checked against the default badge catalog.
func loadCatalog(path string) (*catalog.Catalog, error) {
	var (
		cat *catalog.Catalog
		err error
	)
	if path == "" {
		cat, err = catalog.Default()
	} else {
		cat, err = catalog.LoadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	if err := cat.CheckBadgeRefs(badges.Default().Known); err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return cat, nil
}

// runApp opens a session and launches the TUI.
func runApp(cmd *cobra.Command) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	runErr := app.Run(app.Options{
		Engine:       s.engine,
		Events:       s.store.EventRepo(),
		DefaultQuota: s.cfg.DefaultQuota,
		Log:          s.log,
	})

	// Save even when the UI failed so finished work is not lost.
	if err := s.save(context.Background()); err != nil {
		s.log.Error("save progress", "error", err)
		if runErr == nil {
			runErr = fmt.Errorf("save progress: %w", err)
		}
	}
	return runErr
}
