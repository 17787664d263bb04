package dedup

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"aitracker/internal/globaltime"
)

// HistoryRecord is one row from the durable store's rolling window.
type HistoryRecord struct {
	Title    string
	URL      string
	StoredAt time.Time
}

// HistoryReader is the narrow read contract on the durable store: all
// non-deleted records stored at or after the cutoff. The engine never
// learns which storage technology sits behind it.
type HistoryReader interface {
	RecentUpdates(ctx context.Context, cutoff time.Time) ([]HistoryRecord, error)
}

// StoredArticle is a comparison candidate held by either scope.
type StoredArticle struct {
	Title    string
	URL      string
	Date     time.Time
	Entities EntitySet
}

// WindowStoreStats summarises both scopes for diagnostics.
type WindowStoreStats struct {
	URLsSeen      int  `json:"urls_seen"`
	CycleTitles   int  `json:"cycle_titles"`
	HistoryTitles int  `json:"history_titles"`
	HistoryLoaded bool `json:"history_loaded"`
}

// WindowStore indexes everything a candidate can collide with: the
// articles accepted so far this run (cycle scope) and a time-windowed
// snapshot of the durable store (history scope). One instance lives for
// exactly one run. A mutex guards the cycle scope so callers may fan
// out checks, but acceptance order is then theirs to define.
type WindowStore struct {
	cfg     Config
	logger  zerolog.Logger
	history HistoryReader

	mu             sync.Mutex
	seenURLs       map[string]struct{}
	seenNormalized map[string]struct{}
	cycle          []StoredArticle

	historyLoaded   bool
	historyArticles []StoredArticle
}

func NewWindowStore(history HistoryReader, cfg Config, logger zerolog.Logger) *WindowStore {
	return &WindowStore{
		cfg:            cfg.withDefaults(),
		logger:         logger,
		history:        history,
		seenURLs:       make(map[string]struct{}),
		seenNormalized: make(map[string]struct{}),
	}
}

func (w *WindowStore) LookupExact(url string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.seenURLs[url]
	return ok
}

func (w *WindowStore) LookupNormalized(normalizedURL string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.seenNormalized[normalizedURL]
	return ok
}

// ScanHistory returns the history scope, loading it from the durable
// store on first use. A failed load degrades to an empty history for
// the rest of the run: under-merging beats corrupting stored data, so
// the error is logged once and never retried.
func (w *WindowStore) ScanHistory(ctx context.Context) []StoredArticle {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.historyLoaded {
		w.loadHistoryLocked(ctx)
	}
	return w.historyArticles
}

func (w *WindowStore) loadHistoryLocked(ctx context.Context) {
	w.historyLoaded = true
	if w.history == nil {
		return
	}

	cutoff := globaltime.WindowCutoff(w.cfg.WindowDays)
	records, err := w.history.RecentUpdates(ctx, cutoff)
	if err != nil {
		w.logger.Warn().
			Err(err).
			Time("cutoff", cutoff).
			Msg("history load failed; deduplicating against current cycle only")
		return
	}

	w.historyArticles = make([]StoredArticle, 0, len(records))
	for _, record := range records {
		w.historyArticles = append(w.historyArticles, StoredArticle{
			Title:    record.Title,
			URL:      record.URL,
			Date:     record.StoredAt,
			Entities: ExtractEntities(record.Title, ""),
		})
		w.seenURLs[record.URL] = struct{}{}
		w.seenNormalized[NormalizeURL(record.URL)] = struct{}{}
	}

	w.logger.Info().
		Int("titles", len(w.historyArticles)).
		Int("window_days", w.cfg.WindowDays).
		Time("cutoff", cutoff).
		Msg("loaded dedup history window")
}

func (w *WindowStore) ScanCycle() []StoredArticle {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cycle
}

// Record admits an accepted article into the cycle scope and both URL
// sets. Call only after the candidate cleared every duplicate check.
func (w *WindowStore) Record(article StoredArticle, normalizedURL string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.seenURLs[article.URL] = struct{}{}
	w.seenNormalized[normalizedURL] = struct{}{}
	w.cycle = append(w.cycle, article)
}

func (w *WindowStore) Stats() WindowStoreStats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return WindowStoreStats{
		URLsSeen:      len(w.seenURLs),
		CycleTitles:   len(w.cycle),
		HistoryTitles: len(w.historyArticles),
		HistoryLoaded: w.historyLoaded,
	}
}
