package db

import (
	"context"
	"fmt"
	"time"

	"aitracker/internal/dedup"
)

// DedupStats summarises the durable store around the rolling window.
type DedupStats struct {
	TotalUpdates  int64      `json:"total_updates"`
	WindowUpdates int64      `json:"window_updates"`
	DeletedCount  int64      `json:"deleted_count"`
	LastScrapedAt *time.Time `json:"last_scraped_at,omitempty"`
}

// RecentUpdates implements dedup.HistoryReader: every non-deleted
// record stored at or after the cutoff, newest first. The cutoff bound
// is inclusive; date_scraped carries an index so the window query stays
// cheap as the table grows.
func (p *Pool) RecentUpdates(ctx context.Context, cutoff time.Time) ([]dedup.HistoryRecord, error) {
	const q = `
SELECT
	u.title,
	u.url,
	u.date_scraped
FROM updates u
WHERE u.date_scraped >= $1
  AND NOT u.is_deleted
ORDER BY u.date_scraped DESC
`

	rows, err := p.Query(ctx, q, cutoff.UTC())
	if err != nil {
		return nil, fmt.Errorf("query recent updates: %w", err)
	}
	defer rows.Close()

	records := make([]dedup.HistoryRecord, 0, 64)
	for rows.Next() {
		var record dedup.HistoryRecord
		if err := rows.Scan(&record.Title, &record.URL, &record.StoredAt); err != nil {
			return nil, fmt.Errorf("scan update row: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate update rows: %w", err)
	}

	return records, nil
}

// DedupStatsFor reports store-level counts for the given window cutoff.
func (p *Pool) DedupStatsFor(ctx context.Context, cutoff time.Time) (DedupStats, error) {
	const q = `
SELECT
	COUNT(*)::BIGINT AS total_updates,
	COUNT(*) FILTER (WHERE u.date_scraped >= $1 AND NOT u.is_deleted)::BIGINT AS window_updates,
	COUNT(*) FILTER (WHERE u.is_deleted)::BIGINT AS deleted_count,
	MAX(u.date_scraped) AS last_scraped_at
FROM updates u
`

	var stats DedupStats
	err := p.QueryRow(ctx, q, cutoff.UTC()).Scan(
		&stats.TotalUpdates,
		&stats.WindowUpdates,
		&stats.DeletedCount,
		&stats.LastScrapedAt,
	)
	if err != nil {
		return DedupStats{}, fmt.Errorf("query dedup stats: %w", err)
	}
	return stats, nil
}
