// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/vanlocweb/vanloc-go/internal/store"
	"github.com/vanlocweb/vanloc-go/internal/testutil"
)

func TestIncrementVisitConcurrent(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	queries := store.New(db)
	ctx := context.Background()

	const n = 50
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- queries.IncrementVisit(ctx, "2026-08-28")
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("IncrementVisit: %v", err)
		}
	}

	stats, err := queries.GetSiteStats(ctx)
	if err != nil {
		t.Fatalf("GetSiteStats: %v", err)
	}
	if stats.TotalVisits != n {
		t.Errorf("total visits = %d, want %d", stats.TotalVisits, n)
	}
	if stats.DailyVisits["2026-08-28"] != n {
		t.Errorf("daily bucket = %d, want %d", stats.DailyVisits["2026-08-28"], n)
	}
}

func TestIncrementVisitSpansDays(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	queries := store.New(db)
	ctx := context.Background()

	for _, day := range []string{"2026-08-27", "2026-08-27", "2026-08-28"} {
		if err := queries.IncrementVisit(ctx, day); err != nil {
			t.Fatalf("IncrementVisit(%s): %v", day, err)
		}
	}

	stats, err := queries.GetSiteStats(ctx)
	if err != nil {
		t.Fatalf("GetSiteStats: %v", err)
	}
	if stats.TotalVisits != 3 {
		t.Errorf("total visits = %d, want 3", stats.TotalVisits)
	}
	if stats.DailyVisits["2026-08-27"] != 2 || stats.DailyVisits["2026-08-28"] != 1 {
		t.Errorf("unexpected buckets: %v", stats.DailyVisits)
	}
}

func TestEnsureSiteStatsIdempotent(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	queries := store.New(db)
	ctx := context.Background()

	if err := queries.EnsureSiteStats(ctx, 1000); err != nil {
		t.Fatalf("EnsureSiteStats: %v", err)
	}
	// A second call with a different initial value must not overwrite.
	if err := queries.EnsureSiteStats(ctx, 9999); err != nil {
		t.Fatalf("EnsureSiteStats second: %v", err)
	}

	stats, err := queries.GetSiteStats(ctx)
	if err != nil {
		t.Fatalf("GetSiteStats: %v", err)
	}
	if stats.TotalVisits != 1000 {
		t.Errorf("total visits = %d, want 1000", stats.TotalVisits)
	}
}

func TestGetSiteStatsNotFound(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	queries := store.New(db)

	_, err := queries.GetSiteStats(context.Background())
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestPruneDailyVisits(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	queries := store.New(db)
	ctx := context.Background()

	for _, day := range []string{"2024-01-01", "2024-06-15", "2026-08-28"} {
		if err := queries.IncrementVisit(ctx, day); err != nil {
			t.Fatalf("IncrementVisit(%s): %v", day, err)
		}
	}

	removed, err := queries.PruneDailyVisits(ctx, "2025-01-01")
	if err != nil {
		t.Fatalf("PruneDailyVisits: %v", err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}

	stats, err := queries.GetSiteStats(ctx)
	if err != nil {
		t.Fatalf("GetSiteStats: %v", err)
	}
	if stats.TotalVisits != 3 {
		t.Errorf("pruning must not touch the running total, got %d", stats.TotalVisits)
	}
	if len(stats.DailyVisits) != 1 {
		t.Errorf("expected 1 remaining bucket, got %v", stats.DailyVisits)
	}
}
