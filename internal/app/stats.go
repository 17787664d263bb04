package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"aitracker/internal/cli"
	"aitracker/internal/config"
	"aitracker/internal/db"
	"aitracker/internal/globaltime"
	"aitracker/internal/logging"
)

func runStats(args []string) int {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 10*time.Second, "Query timeout")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if envLoader != nil {
		if _, err := envLoader.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Error().Err(err).Msg("stats failed to connect to database")
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		return 1
	}
	defer pool.Close()

	dedupCfg := cfg.DedupConfig()
	cutoff := globaltime.WindowCutoff(dedupCfg.WindowDays)

	stats, err := pool.DedupStatsFor(ctx, cutoff)
	if err != nil {
		logger.Error().Err(err).Msg("dedup stats query failed")
		fmt.Fprintf(os.Stderr, "Stats query failed: %v\n", err)
		return 1
	}

	fmt.Printf("window_days:     %d\n", dedupCfg.WindowDays)
	fmt.Printf("cutoff:          %s\n", cutoff.Format(time.RFC3339))
	fmt.Printf("total_updates:   %d\n", stats.TotalUpdates)
	fmt.Printf("window_updates:  %d\n", stats.WindowUpdates)
	fmt.Printf("deleted_count:   %d\n", stats.DeletedCount)
	if stats.LastScrapedAt != nil {
		fmt.Printf("last_scraped_at: %s\n", stats.LastScrapedAt.Format(time.RFC3339))
	}
	return 0
}
