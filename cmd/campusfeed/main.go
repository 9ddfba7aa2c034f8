package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/campusline/campusfeed/internal/cache"
	"github.com/campusline/campusfeed/internal/config"
	"github.com/campusline/campusfeed/internal/domain"
	"github.com/campusline/campusfeed/internal/logger"
	"github.com/campusline/campusfeed/internal/scheduler"
	"github.com/campusline/campusfeed/internal/store"
	"github.com/campusline/campusfeed/pkg/feeds"
	"github.com/campusline/campusfeed/pkg/publishers"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to config file (default ./config.yaml)")
	flag.Parse()

	// Missing .env is fine; deployments may set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}

	sources, err := cfg.Sources()
	if err != nil {
		return err
	}

	articleCache, err := cache.Open(cfg.CachePath, log)
	if err != nil {
		return err
	}
	defer articleCache.Close()

	ctx := context.Background()

	var pubs []publishers.Publisher
	if cfg.PublishersFile != "" {
		reg, err := publishers.LoadRegistry(cfg.PublishersFile)
		if err != nil {
			return err
		}
		pubs, err = publishers.BuildAll(ctx, publishers.DefaultRegistry(), reg.Enabled(), log)
		if err != nil {
			return err
		}
	}

	manager, err := store.NewManager(store.ManagerConfig{
		Sources: sources,
		Cache:   articleCache,
		Fetcher: feeds.NewHTTPFetcher(feeds.DefaultHTTPClient(), log),
		Logger:  log,
		OnUpdate: func(category domain.Category, articles []domain.Article) {
			publishers.PublishAll(ctx, pubs, publishers.Event{
				Category:    category.String(),
				Count:       len(articles),
				RefreshedAt: time.Now(),
			}, log)
		},
	})
	if err != nil {
		return err
	}

	var sched *scheduler.Scheduler
	if cfg.RefreshCron != "" {
		sched, err = scheduler.New(cfg.RefreshCron, manager.RefreshAll, log)
		if err != nil {
			return err
		}
		sched.Start()
	}

	log.InfoObj("campusfeed started", "startup", map[string]any{
		"categories": len(sources),
		"publishers": len(pubs),
		"cache_path": cfg.CachePath,
	})

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	if sched != nil {
		sched.Stop()
	}
	log.InfoObj("campusfeed stopped", "shutdown", nil)
	return nil
}
