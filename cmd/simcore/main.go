package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/l1jgo/simcore/internal/config"
	"github.com/l1jgo/simcore/internal/core/clock"
	"github.com/l1jgo/simcore/internal/core/ecs"
	"github.com/l1jgo/simcore/internal/data"
	"github.com/l1jgo/simcore/internal/persist"
	"github.com/l1jgo/simcore/internal/scripting"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(name string) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Printf("\033[36;1m  │\033[0m %-41s \033[36;1m│\033[0m\n", name+"  v0.1.0")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
}

func printSection(title string) {
	lineLen := max(46-len(title)-1, 3)
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := max(42-len(label)-len(numStr), 3)
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main simulation logic ─────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/simcore.toml"
	if p := os.Getenv("SIMCORE_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Simulation.Name)

	// 3. Optional snapshot store
	var snapshots *persist.SnapshotRepo
	if cfg.Database.Enabled {
		printSection("Database")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		db, err := persist.NewDB(ctx, cfg.Database, log)
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		printOK("PostgreSQL connected, schema migrated")
		fmt.Println()
		snapshots = persist.NewSnapshotRepo(db)
	}

	// 4. Data and scripts
	printSection("Data")
	prefabs, err := data.LoadPrefabTable(cfg.Data.PrefabFile)
	if err != nil {
		return fmt.Errorf("load prefab table: %w", err)
	}
	printStat("prefabs", prefabs.Count())

	scripts, err := scripting.NewEngine(cfg.Data.ScriptsDir, log)
	if err != nil {
		return fmt.Errorf("scripting: %w", err)
	}
	defer scripts.Close()
	printOK("lua engine ready")
	fmt.Println()

	// 5. World, systems and scene
	w, err := buildWorld(cfg, log)
	if err != nil {
		return err
	}
	defer w.Close()

	var loader snapshotLoader
	if snapshots != nil && cfg.Database.RestoreOnStart {
		loader = snapshots
	}
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 30*time.Second)
	spawned, err := populate(loadCtx, w, loader, cfg.Database.SnapshotName, prefabs, scripts, cfg.Scene, log)
	cancelLoad()
	if err != nil {
		return err
	}

	printSection("World")
	printStat("systems", len(w.Systems()))
	printStat("entities", spawned)
	fmt.Println()

	// 6. Start simulation loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Simulation.TickRate)
	defer ticker.Stop()

	clk := clock.New(cfg.Simulation.MaxDelta)
	clk.SetTimeScale(cfg.Simulation.TimeScale)

	printSection("Ready")
	printReady(fmt.Sprintf("simulation loop started (tick: %s)", cfg.Simulation.TickRate))
	fmt.Println()

	for {
		select {
		case now := <-ticker.C:
			w.Update(clk.Tick(now))
			w.Render()
			if cfg.Simulation.MaxTicks > 0 && clk.Frames() >= uint64(cfg.Simulation.MaxTicks) {
				log.Info("tick limit reached", zap.Uint64("frames", clk.Frames()))
				return shutdown(w, snapshots, cfg.Database.SnapshotName, clk, log)
			}
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			return shutdown(w, snapshots, cfg.Database.SnapshotName, clk, log)
		}
	}
}

// shutdown saves the final snapshot when a store is configured. System
// destroy hooks run from the deferred World.Close.
func shutdown(w *ecs.World, repo *persist.SnapshotRepo, name string, clk *clock.Clock, log *zap.Logger) error {
	if repo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := repo.Save(ctx, name, persist.Capture(w)); err != nil {
			log.Error("snapshot save failed", zap.String("name", name), zap.Error(err))
		}
	}
	log.Info("simulation stopped",
		zap.Uint64("frames", clk.Frames()),
		zap.Duration("elapsed", clk.Elapsed()),
		zap.Int("entities", w.Len()))
	return nil
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
