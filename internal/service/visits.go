// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/vanlocweb/vanloc-go/internal/model"
	"github.com/vanlocweb/vanloc-go/internal/store"
)

// VisitService maintains the singleton site-statistics record. Visit
// recording is best-effort: it must never block or abort the
// surrounding request.
type VisitService struct {
	queries       *store.Queries
	retentionDays int
	cron          *cron.Cron
	now           func() time.Time
}

// NewVisitService creates a VisitService. retentionDays bounds how long
// daily buckets are kept; the running total is never pruned.
func NewVisitService(db *sql.DB, retentionDays int) *VisitService {
	return &VisitService{
		queries:       store.New(db),
		retentionDays: retentionDays,
		now:           time.Now,
	}
}

// RecordVisit increments the total visit counter and today's UTC daily
// bucket. Both increments are atomic at the storage layer, so
// concurrent callers never lose updates. Failures are logged and
// swallowed.
func (s *VisitService) RecordVisit(ctx context.Context) {
	day := model.Today(s.now())
	if err := s.queries.IncrementVisit(ctx, day); err != nil {
		slog.Error("could not record visit", "day", day, "error", err)
	}
}

// GetStats returns the current statistics snapshot, creating a zeroed
// singleton row if none exists yet.
func (s *VisitService) GetStats(ctx context.Context) model.SiteStats {
	stats, err := s.queries.GetSiteStats(ctx)
	if errors.Is(err, store.ErrNotFound) {
		if err := s.queries.EnsureSiteStats(ctx, 0); err != nil {
			slog.Error("could not create site stats row", "error", err)
			return model.SiteStats{DailyVisits: map[string]int64{}}
		}
		stats, err = s.queries.GetSiteStats(ctx)
	}
	if err != nil {
		slog.Error("could not read site stats", "error", err)
		return model.SiteStats{DailyVisits: map[string]int64{}}
	}
	return stats
}

// StartRetention launches the nightly job that prunes daily buckets
// older than the retention window.
func (s *VisitService) StartRetention() {
	s.cron = cron.New()
	_, _ = s.cron.AddFunc("30 3 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		s.pruneOldBuckets(ctx)
	})
	s.cron.Start()
	slog.Debug("visit retention job started", "retention_days", s.retentionDays)
}

// StopRetention stops the retention job.
func (s *VisitService) StopRetention() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *VisitService) pruneOldBuckets(ctx context.Context) {
	cutoff := model.Today(s.now().AddDate(0, 0, -s.retentionDays))
	n, err := s.queries.PruneDailyVisits(ctx, cutoff)
	if err != nil {
		slog.Error("daily visit pruning failed", "error", err)
		return
	}
	if n > 0 {
		slog.Info("pruned old daily visit buckets", "deleted", n, "older_than", cutoff)
	}
}
