// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vanlocweb/vanloc-go/internal/model"
)

// IncrementVisit atomically bumps the total visit counter and the bucket
// for the given day, creating either row as needed. The upserts happen
// inside one transaction and never read a prior value back into Go, so
// concurrent callers cannot lose updates.
func (q *Queries) IncrementVisit(ctx context.Context, day string) error {
	tx, err := q.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO site_stats (id, total_visits) VALUES (1, 1)
		ON CONFLICT (id) DO UPDATE SET total_visits = total_visits + 1
	`); err != nil {
		return fmt.Errorf("incrementing total visits: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO daily_visits (day, visits) VALUES (?, 1)
		ON CONFLICT (day) DO UPDATE SET visits = visits + 1
	`, day); err != nil {
		return fmt.Errorf("incrementing daily bucket %s: %w", day, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing visit increment: %w", err)
	}
	return nil
}

// EnsureSiteStats creates the singleton statistics row with the given
// initial total if it does not exist yet. Safe to call concurrently;
// the single-row constraint makes duplicates unrepresentable.
func (q *Queries) EnsureSiteStats(ctx context.Context, initialTotal int64) error {
	if _, err := q.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO site_stats (id, total_visits) VALUES (1, ?)
	`, initialTotal); err != nil {
		return fmt.Errorf("ensuring site stats row: %w", err)
	}
	return nil
}

// GetSiteStats returns a snapshot of the statistics singleton: the total
// plus every daily bucket. Returns ErrNotFound if the row was never
// created.
func (q *Queries) GetSiteStats(ctx context.Context) (model.SiteStats, error) {
	stats := model.SiteStats{DailyVisits: make(map[string]int64)}

	var total int64
	err := q.db.QueryRowContext(ctx, "SELECT total_visits FROM site_stats WHERE id = 1").Scan(&total)
	if errors.Is(err, sql.ErrNoRows) {
		return model.SiteStats{}, ErrNotFound
	}
	if err != nil {
		return model.SiteStats{}, fmt.Errorf("reading site stats: %w", err)
	}
	stats.TotalVisits = total

	rows, err := q.db.QueryContext(ctx, "SELECT day, visits FROM daily_visits")
	if err != nil {
		return model.SiteStats{}, fmt.Errorf("reading daily visits: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var day string
		var visits int64
		if err := rows.Scan(&day, &visits); err != nil {
			return model.SiteStats{}, fmt.Errorf("scanning daily bucket: %w", err)
		}
		stats.DailyVisits[day] = visits
	}
	return stats, rows.Err()
}

// PruneDailyVisits deletes buckets for days strictly before the cutoff
// day string. The running total is untouched. Returns the number of
// buckets removed.
func (q *Queries) PruneDailyVisits(ctx context.Context, before string) (int64, error) {
	res, err := q.db.ExecContext(ctx, "DELETE FROM daily_visits WHERE day < ?", before)
	if err != nil {
		return 0, fmt.Errorf("pruning daily visits: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
