// Package dedup decides whether a scraped news article reports a story
// the tracker has already recorded, either earlier in the same run or
// in a previous run within the rolling window. It merges "same event,
// different source" while keeping "same entities, different event"
// (follow-ups, later funding rounds) apart, working from nothing but
// title, URL, and optional body text.
package dedup

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"aitracker/internal/globaltime"
)

// Match stages, cheapest first.
const (
	StageExactURL      = "exact_url"
	StageNormalizedURL = "normalized_url"
	StageCrossCycle    = "cross_cycle"
	StageInCycle       = "in_cycle"
	StageAccepted      = "accepted"
)

// CandidateArticle is one scraped article awaiting a verdict. URL and
// Title are required; Content is only an extraction hint.
type CandidateArticle struct {
	URL         string     `json:"url"`
	Title       string     `json:"title"`
	Content     string     `json:"content,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// Decision is the coordinator's verdict. IsDuplicate is the contract
// the ingestion pipeline consumes; the rest is diagnostic.
type Decision struct {
	IsDuplicate bool    `json:"is_duplicate"`
	Stage       string  `json:"stage"`
	Score       float64 `json:"score,omitempty"`
	Reason      string  `json:"reason,omitempty"`
	MatchedURL  string  `json:"matched_url,omitempty"`
}

// Deduplicator coordinates one run's duplicate checks. Construct one
// per run and discard it; the cycle scope must not outlive the batch.
type Deduplicator struct {
	cfg    Config
	scorer *Scorer
	window *WindowStore
	logger zerolog.Logger
}

func NewDeduplicator(history HistoryReader, cfg Config, logger zerolog.Logger) *Deduplicator {
	cfg = cfg.withDefaults()
	return &Deduplicator{
		cfg:    cfg,
		scorer: NewScorer(cfg),
		window: NewWindowStore(history, cfg, logger),
		logger: logger,
	}
}

// Check runs the cascade for one candidate: exact URL, normalized URL,
// pairwise similarity against the history window, then against this
// cycle's accepted articles. The first positive match rejects; a clean
// pass records the article into the cycle scope and accepts.
func (d *Deduplicator) Check(ctx context.Context, candidate CandidateArticle) Decision {
	history := d.window.ScanHistory(ctx)

	if d.window.LookupExact(candidate.URL) {
		return d.reject(candidate, Decision{
			IsDuplicate: true,
			Stage:       StageExactURL,
			Score:       100,
			Reason:      "exact URL already seen",
		})
	}

	normalizedURL := NormalizeURL(candidate.URL)
	if d.window.LookupNormalized(normalizedURL) {
		return d.reject(candidate, Decision{
			IsDuplicate: true,
			Stage:       StageNormalizedURL,
			Score:       100,
			Reason:      "normalized URL already seen",
		})
	}

	entities := ExtractEntities(candidate.Title, candidate.Content)

	if decision, matched := d.scanScope(candidate, entities, history, StageCrossCycle); matched {
		return decision
	}
	if decision, matched := d.scanScope(candidate, entities, d.window.ScanCycle(), StageInCycle); matched {
		return decision
	}

	publishedAt := globaltime.UTC()
	if candidate.PublishedAt != nil && !candidate.PublishedAt.IsZero() {
		publishedAt = candidate.PublishedAt.UTC()
	}
	d.window.Record(StoredArticle{
		Title:    candidate.Title,
		URL:      candidate.URL,
		Date:     publishedAt,
		Entities: entities,
	}, normalizedURL)

	d.logger.Debug().
		Str("url", candidate.URL).
		Str("title", candidate.Title).
		Msg("article accepted as unique")

	return Decision{Stage: StageAccepted}
}

// CheckBatch runs Check over an ordered batch; earlier candidates win
// ties against later ones.
func (d *Deduplicator) CheckBatch(ctx context.Context, candidates []CandidateArticle) []Decision {
	decisions := make([]Decision, len(candidates))
	for i, candidate := range candidates {
		decisions[i] = d.Check(ctx, candidate)
	}
	return decisions
}

func (d *Deduplicator) Stats() WindowStoreStats {
	return d.window.Stats()
}

func (d *Deduplicator) scanScope(candidate CandidateArticle, entities EntitySet, scope []StoredArticle, stage string) (Decision, bool) {
	for _, stored := range scope {
		verdict := d.scorer.Compare(candidate.Title, stored.Title, entities, stored.Entities)
		if !verdict.IsDuplicate {
			continue
		}
		return d.reject(candidate, Decision{
			IsDuplicate: true,
			Stage:       stage,
			Score:       verdict.Score,
			Reason:      verdict.Reason,
			MatchedURL:  stored.URL,
		}), true
	}
	return Decision{}, false
}

func (d *Deduplicator) reject(candidate CandidateArticle, decision Decision) Decision {
	event := d.logger.Info().
		Str("stage", decision.Stage).
		Str("url", candidate.URL).
		Str("title", candidate.Title).
		Str("reason", decision.Reason)
	if decision.MatchedURL != "" {
		event = event.Str("matched_url", decision.MatchedURL)
	}
	if decision.Stage == StageCrossCycle || decision.Stage == StageInCycle {
		event = event.Float64("score", decision.Score)
	}
	event.Msg("duplicate article rejected")
	return decision
}
