package dedup

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestDeduplicator(history HistoryReader) *Deduplicator {
	return NewDeduplicator(history, DefaultConfig(), zerolog.Nop())
}

func TestCheckExactURLDuplicate(t *testing.T) {
	t.Parallel()

	d := newTestDeduplicator(nil)
	ctx := context.Background()

	candidate := CandidateArticle{
		URL:   "https://example.com/news/ai-city",
		Title: "Telangana plans AI city near Hyderabad",
	}

	first := d.Check(ctx, candidate)
	if first.IsDuplicate {
		t.Fatalf("first sighting rejected: %+v", first)
	}
	if first.Stage != StageAccepted {
		t.Fatalf("stage = %q, want %q", first.Stage, StageAccepted)
	}

	second := d.Check(ctx, candidate)
	if !second.IsDuplicate {
		t.Fatalf("resubmitted URL accepted: %+v", second)
	}
	if second.Stage != StageExactURL || second.Score != 100 {
		t.Fatalf("unexpected decision: %+v", second)
	}
}

func TestCheckNormalizedURLDuplicate(t *testing.T) {
	t.Parallel()

	d := newTestDeduplicator(nil)
	ctx := context.Background()

	first := d.Check(ctx, CandidateArticle{
		URL:   "https://www.example.com/news/ai-city/?utm_source=feed",
		Title: "Telangana plans AI city near Hyderabad",
	})
	if first.IsDuplicate {
		t.Fatalf("first sighting rejected: %+v", first)
	}

	second := d.Check(ctx, CandidateArticle{
		URL:   "https://example.com/news/ai-city",
		Title: "Completely different headline about something else",
	})
	if !second.IsDuplicate || second.Stage != StageNormalizedURL {
		t.Fatalf("tracking-param variant not caught: %+v", second)
	}
}

func TestCheckCrossCycleDuplicate(t *testing.T) {
	t.Parallel()

	history := &fakeHistory{records: []HistoryRecord{{
		Title:    "Telangana government plans AI city near Hyderabad with Rs 5,000 crore investment",
		URL:      "https://stored.example.com/telangana-ai-city",
		StoredAt: time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC),
	}}}
	d := newTestDeduplicator(history)

	decision := d.Check(context.Background(), CandidateArticle{
		URL:   "https://other-site.example.com/telangana-story",
		Title: "Telangana govt plans AI city near Hyderabad with Rs 5,000 crore investment",
	})
	if !decision.IsDuplicate {
		t.Fatalf("reworded stored story accepted: %+v", decision)
	}
	if decision.Stage != StageCrossCycle {
		t.Fatalf("stage = %q, want %q", decision.Stage, StageCrossCycle)
	}
	if decision.MatchedURL != "https://stored.example.com/telangana-ai-city" {
		t.Fatalf("matched URL = %q", decision.MatchedURL)
	}
}

func TestCheckInCycleDuplicate(t *testing.T) {
	t.Parallel()

	d := newTestDeduplicator(nil)
	ctx := context.Background()

	first := d.Check(ctx, CandidateArticle{
		URL:   "https://site-a.example.com/story",
		Title: "Telangana government plans AI city near Hyderabad with Rs 5,000 crore investment",
	})
	if first.IsDuplicate {
		t.Fatalf("first source rejected: %+v", first)
	}

	second := d.Check(ctx, CandidateArticle{
		URL:   "https://site-b.example.com/story",
		Title: "Telangana govt plans AI city near Hyderabad with Rs 5,000 crore investment",
	})
	if !second.IsDuplicate || second.Stage != StageInCycle {
		t.Fatalf("second source not merged: %+v", second)
	}
	if second.Score <= 0 {
		t.Fatalf("similarity rejection should carry a score: %+v", second)
	}
}

// Later funding rounds from the same company look textually identical
// but report distinct events. Both must survive the cascade.
func TestCheckDifferentRoundsBothAccepted(t *testing.T) {
	t.Parallel()

	d := newTestDeduplicator(nil)
	ctx := context.Background()

	decisions := d.CheckBatch(ctx, []CandidateArticle{
		{URL: "https://example.com/series-a", Title: "Finbot raises $10 million Series A funding"},
		{URL: "https://example.com/series-b", Title: "Finbot raises $50 million Series B funding"},
	})
	for i, decision := range decisions {
		if decision.IsDuplicate {
			t.Fatalf("decision[%d] rejected a distinct event: %+v", i, decision)
		}
	}

	stats := d.Stats()
	if stats.CycleTitles != 2 {
		t.Fatalf("cycle scope has %d titles, want 2", stats.CycleTitles)
	}
}

func TestCheckHistoryErrorDegradesToCycleOnly(t *testing.T) {
	t.Parallel()

	history := &fakeHistory{err: context.DeadlineExceeded}
	d := newTestDeduplicator(history)
	ctx := context.Background()

	decision := d.Check(ctx, CandidateArticle{
		URL:   "https://example.com/story",
		Title: "Some headline that exists nowhere",
	})
	if decision.IsDuplicate {
		t.Fatalf("candidate rejected despite empty degraded history: %+v", decision)
	}

	// In-cycle detection still works.
	repeat := d.Check(ctx, CandidateArticle{
		URL:   "https://example.com/story",
		Title: "Some headline that exists nowhere",
	})
	if !repeat.IsDuplicate || repeat.Stage != StageExactURL {
		t.Fatalf("in-cycle checks broken after history failure: %+v", repeat)
	}
}

func TestCheckRecordsPublishedDate(t *testing.T) {
	t.Parallel()

	d := newTestDeduplicator(nil)
	published := time.Date(2026, time.February, 1, 9, 30, 0, 0, time.FixedZone("IST", 5*3600+1800))

	decision := d.Check(context.Background(), CandidateArticle{
		URL:         "https://example.com/dated",
		Title:       "Wipro opens engineering hub in Coimbatore",
		PublishedAt: &published,
	})
	if decision.IsDuplicate {
		t.Fatalf("unexpected reject: %+v", decision)
	}

	cycle := d.window.ScanCycle()
	if len(cycle) != 1 {
		t.Fatalf("cycle scope has %d articles, want 1", len(cycle))
	}
	if !cycle[0].Date.Equal(published.UTC()) {
		t.Fatalf("stored date = %v, want %v", cycle[0].Date, published.UTC())
	}
}
