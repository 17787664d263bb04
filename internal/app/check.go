package app

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"aitracker/internal/cli"
	"aitracker/internal/config"
	"aitracker/internal/db"
	"aitracker/internal/dedup"
	"aitracker/internal/langdetect"
	"aitracker/internal/logging"
	candidateschema "aitracker/schema"
)

type checkSummary struct {
	Scanned    int
	Accepted   int
	Duplicates int
}

// runCheck reads a JSON array of candidate articles and runs each one
// through the full duplicate cascade, printing one line per decision.
// With --offline the durable store is skipped and candidates are only
// deduplicated against one another.
func runCheck(args []string) int {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	input := fs.String("input", "-", "Candidate JSON array file, or - for stdin")
	timeout := fs.Duration("timeout", 60*time.Second, "Overall run timeout")
	offline := fs.Bool("offline", false, "Skip the database; dedup within the batch only")
	asJSON := fs.Bool("json", false, "Emit decisions as a JSON array instead of text lines")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if envLoader != nil {
		if _, err := envLoader.Load(); err != nil && !*offline {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	raw, err := readInput(strings.TrimSpace(*input))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read input: %v\n", err)
		return 1
	}

	candidates, err := candidateschema.ValidateCandidateBatch(raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid candidate batch: %v\n", err)
		return 1
	}
	if len(candidates) == 0 {
		fmt.Fprintln(os.Stderr, "Candidate batch is empty")
		return 1
	}

	dedupCfg := dedup.DefaultConfig()
	var history dedup.HistoryReader

	environment := "local"
	logLevel := "info"
	if *offline {
		if cfg, cfgErr := config.Load(); cfgErr == nil {
			environment = cfg.Environment
			logLevel = cfg.LogLevel
			dedupCfg = cfg.DedupConfig()
		}
	} else {
		cfg, cfgErr := config.Load()
		if cfgErr != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", cfgErr)
			return 1
		}
		environment = cfg.Environment
		logLevel = cfg.LogLevel
		dedupCfg = cfg.DedupConfig()

		dbCtx, dbCancel := context.WithTimeout(context.Background(), 10*time.Second)
		pool, poolErr := db.NewPool(dbCtx, cfg)
		dbCancel()
		if poolErr != nil {
			fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", poolErr)
			return 1
		}
		defer pool.Close()
		history = pool
	}

	logger, err := logging.New(environment, logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	detector := dedup.NewDeduplicator(history, dedupCfg, logger)

	summary := checkSummary{}
	type resultLine struct {
		URL      string         `json:"url"`
		Title    string         `json:"title"`
		Language string         `json:"language,omitempty"`
		Decision dedup.Decision `json:"decision"`
	}
	results := make([]resultLine, 0, len(candidates))

	for _, candidate := range candidates {
		article := dedup.CandidateArticle{
			URL:   strings.TrimSpace(candidate.URL),
			Title: strings.TrimSpace(candidate.Title),
		}
		if candidate.Content != nil {
			article.Content = strings.TrimSpace(*candidate.Content)
		}
		if candidate.PublishedAt != nil {
			if ts, parseErr := time.Parse(time.RFC3339, strings.TrimSpace(*candidate.PublishedAt)); parseErr == nil {
				utc := ts.UTC()
				article.PublishedAt = &utc
			}
		}

		decision := detector.Check(ctx, article)
		summary.Scanned++
		if decision.IsDuplicate {
			summary.Duplicates++
		} else {
			summary.Accepted++
		}

		results = append(results, resultLine{
			URL:      article.URL,
			Title:    article.Title,
			Language: langdetect.DetectISO6391(article.Title),
			Decision: decision,
		})
	}

	if *asJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if encodeErr := encoder.Encode(results); encodeErr != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode results: %v\n", encodeErr)
			return 1
		}
	} else {
		for _, line := range results {
			if line.Decision.IsDuplicate {
				fmt.Printf(
					"DUPLICATE stage=%s score=%.1f matched=%s url=%s\n",
					line.Decision.Stage,
					line.Decision.Score,
					line.Decision.MatchedURL,
					line.URL,
				)
				continue
			}
			fmt.Printf("ACCEPTED url=%s\n", line.URL)
		}
	}

	fmt.Fprintf(
		os.Stderr,
		"check scanned=%d accepted=%d duplicates=%d offline=%t\n",
		summary.Scanned,
		summary.Accepted,
		summary.Duplicates,
		*offline,
	)
	return 0
}

func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return raw, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return raw, nil
}
