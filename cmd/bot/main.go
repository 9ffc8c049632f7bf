package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"CookiePilot/internal/config"
	"CookiePilot/internal/notifier"
	"CookiePilot/internal/recorder"
	"CookiePilot/internal/scheduler"
	"CookiePilot/internal/stats"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] CookiePilot starting...")

	durationFlag := flag.Duration("duration", 0, "run duration (overrides config when > 0)")
	headlessFlag := flag.Bool("headless", false, "run the browser headless")
	dryRun := flag.Bool("dry-run", false, "run against a simulated game session")
	flag.Parse()

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if *durationFlag > 0 {
		cfg.Run.DurationSeconds = int(durationFlag.Seconds())
	}
	if *headlessFlag {
		cfg.Browser.Headless = true
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Init lifetime stats
	sm, err := stats.NewManager(cfg.Stats.StateFile)
	if err != nil {
		log.Fatalf("[FATAL] init lifetime stats: %v", err)
	}

	// Init Telegram notifier (disabled unless configured)
	tn := notifier.NewNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.NewScheduler(ctx, cfg, sm, rec, tn, *dryRun)

	// One-shot mode: run once and exit.
	if cfg.Run.Cron == "" {
		go func() {
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			<-sigCh
			log.Println("[INFO] shutdown signal received, stopping run...")
			cancel()
		}()

		if _, err := sched.RunNow(); err != nil {
			log.Fatalf("[FATAL] run: %v", err)
		}
		log.Println("[INFO] CookiePilot finished")
		return
	}

	// Scheduled mode: recurring runs driven by cron.
	if err := sched.Register(cfg.Run.Cron); err != nil {
		log.Fatalf("[FATAL] register cron task: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	go tn.StartPolling(ctx, sched.HandleCommand)
	if tn.Enabled() {
		log.Println("[INFO] Telegram polling started")
	}

	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing a run now")
		go func() {
			if _, err := sched.RunNow(); err != nil {
				log.Printf("[ERROR] run: %v", err)
			}
		}()
	}

	log.Println("[INFO] CookiePilot is running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] CookiePilot stopped")
}
