// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store_test

import (
	"context"
	"testing"

	"github.com/vanlocweb/vanloc-go/internal/auth"
	"github.com/vanlocweb/vanloc-go/internal/model"
	"github.com/vanlocweb/vanloc-go/internal/store"
	"github.com/vanlocweb/vanloc-go/internal/testutil"
)

func TestSeedIsIdempotent(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	ctx := context.Background()
	queries := store.New(db)

	if err := store.Seed(ctx, db); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if err := store.Seed(ctx, db); err != nil {
		t.Fatalf("Seed second: %v", err)
	}

	count, err := queries.CountAdmins(ctx)
	if err != nil {
		t.Fatalf("CountAdmins: %v", err)
	}
	if count != 1 {
		t.Errorf("admin count = %d, want 1", count)
	}

	admin, err := queries.GetAdminByUsername(ctx, store.DefaultAdminUsername)
	if err != nil {
		t.Fatalf("GetAdminByUsername: %v", err)
	}
	if admin.Role != model.RoleSuperAdmin {
		t.Errorf("role = %q, want superadmin", admin.Role)
	}
	if admin.FullName != store.DefaultAdminFullName {
		t.Errorf("full name = %q", admin.FullName)
	}

	ok, err := auth.CheckPassword(store.DefaultAdminPassword, admin.PasswordHash)
	if err != nil || !ok {
		t.Errorf("default password should verify, ok=%v err=%v", ok, err)
	}
}

func TestSeedPreservesVisitTotal(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	ctx := context.Background()
	queries := store.New(db)

	if err := store.Seed(ctx, db); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if err := queries.IncrementVisit(ctx, "2026-08-28"); err != nil {
		t.Fatalf("IncrementVisit: %v", err)
	}
	// Reseeding must not reset the counter.
	if err := store.Seed(ctx, db); err != nil {
		t.Fatalf("Seed second: %v", err)
	}

	stats, err := queries.GetSiteStats(ctx)
	if err != nil {
		t.Fatalf("GetSiteStats: %v", err)
	}
	if want := int64(store.SeedInitialVisits + 1); stats.TotalVisits != want {
		t.Errorf("total visits = %d, want %d", stats.TotalVisits, want)
	}
}
