// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/vanlocweb/vanloc-go/internal/auth"
	"github.com/vanlocweb/vanloc-go/internal/model"
)

// Default admin credentials
const (
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "admin123"
	DefaultAdminFullName = "Hội Trưởng (Admin)"
)

// SeedInitialVisits is the total-visit count the statistics singleton
// starts from on a fresh database.
const SeedInitialVisits = 1245

// Seed creates initial data in the database: one superadmin identity and
// the statistics singleton, each only when its table is empty. Safe to
// call on every process start.
func Seed(ctx context.Context, db *sql.DB) error {
	queries := New(db)

	count, err := queries.CountAdmins(ctx)
	if err != nil {
		return fmt.Errorf("checking for admin users: %w", err)
	}
	if count == 0 {
		passwordHash, err := auth.HashPassword(DefaultAdminPassword)
		if err != nil {
			return fmt.Errorf("hashing password: %w", err)
		}

		user, err := queries.CreateAdmin(ctx, model.AdminUser{
			Username:     DefaultAdminUsername,
			PasswordHash: passwordHash,
			FullName:     DefaultAdminFullName,
			Role:         model.RoleSuperAdmin,
		})
		if err != nil {
			return fmt.Errorf("creating admin user: %w", err)
		}

		slog.Info("created default admin user",
			"id", user.ID,
			"username", user.Username,
		)
	} else {
		slog.Info("admin user already exists, skipping seed")
	}

	if err := queries.EnsureSiteStats(ctx, SeedInitialVisits); err != nil {
		return fmt.Errorf("seeding site stats: %w", err)
	}

	return nil
}
