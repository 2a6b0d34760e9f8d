package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"RegimePilot/internal/collector"
	"RegimePilot/internal/config"
	"RegimePilot/internal/ledger"
	"RegimePilot/internal/regime"
	"RegimePilot/internal/scheduler"
	sigcat "RegimePilot/internal/signal"
	"RegimePilot/internal/store"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] RegimePilot starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init fetcher and collector
	fetcher := collector.NewFMPFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	log.Printf("[INFO] data source: %s", fetcher.Name())
	col := collector.NewCollector(fetcher, cfg.DataSource.DaysBack)

	// Init regime classifier
	classifier, err := regime.NewClassifier(cfg.Regime.FingerprintsPath)
	if err != nil {
		log.Fatalf("[FATAL] init classifier: %v", err)
	}
	log.Printf("[INFO] loaded %d regime fingerprints", len(classifier.Labels()))

	// Init signal engine
	if err := sigcat.ValidateCatalog(sigcat.Catalog); err != nil {
		log.Fatalf("[FATAL] signal catalog: %v", err)
	}
	engine := sigcat.NewEngine(sigcat.Catalog, cfg.Trading.MomentumThreshold, cfg.Trading.MomentumLookback)

	// Init store
	var st store.Store
	if cfg.Database.SQLitePath != "" {
		ss, err := store.NewSQLiteStore(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite store failed, using in-memory: %v", err)
			st = store.NewMemoryStore()
		} else {
			st = ss
			defer ss.Close()
		}
	} else {
		st = store.NewMemoryStore()
	}

	// Init ledger
	led := ledger.New(st, cfg.Trading.SlippageRate, cfg.Trading.HoldCalendarDays)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, col, classifier, engine, led, cfg.Trading.InitialCapital)
	if err := sched.RegisterAll(cfg.Schedule.DailyCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing daily task now")
		go sched.RunDailyNow()
	}

	log.Println("[INFO] RegimePilot is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] RegimePilot stopped")
}
