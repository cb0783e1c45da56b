// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service implements the application services over the store:
// the persistence façade for record collections and the visit
// statistics aggregator.
package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"

	"github.com/vanlocweb/vanloc-go/internal/auth"
	"github.com/vanlocweb/vanloc-go/internal/model"
	"github.com/vanlocweb/vanloc-go/internal/store"
)

// DataService is the persistence façade. Reads are lenient: any storage
// failure degrades to an empty result so public pages still render
// during storage hiccups. Writes are strict: failures always surface to
// the caller.
type DataService struct {
	db      *sql.DB
	queries *store.Queries
}

// NewDataService creates a DataService over the given database handle.
func NewDataService(db *sql.DB) *DataService {
	return &DataService{
		db:      db,
		queries: store.New(db),
	}
}

// Bootstrap applies pending migrations, then seeds the default admin
// identity and the statistics singleton when their tables are empty.
// Idempotent; called on every process start.
func (s *DataService) Bootstrap(ctx context.Context, doSeed bool) error {
	if err := store.Migrate(s.db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	if !doSeed {
		slog.Info("seeding disabled, skipping")
		return nil
	}
	if err := store.Seed(ctx, s.db); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}
	return nil
}

// NextID returns the identifier for a record created in the given
// collection: max(existing ids) + 1, or 1 when the collection is empty.
func NextID[T any](items []T, id func(T) int64) int64 {
	var maxID int64
	for _, item := range items {
		if v := id(item); v > maxID {
			maxID = v
		}
	}
	return maxID + 1
}

// readAll wraps a collection read with the lenient read-path policy.
func readAll[T any](ctx context.Context, what string, list func(context.Context) ([]T, error)) []T {
	items, err := list(ctx)
	if err != nil {
		slog.Error("collection read failed, degrading to empty", "collection", what, "error", err)
		return []T{}
	}
	if items == nil {
		return []T{}
	}
	return items
}

// GetAllNews returns every news item, or an empty slice on failure.
func (s *DataService) GetAllNews(ctx context.Context) []model.NewsItem {
	return readAll(ctx, "news", s.queries.ListNews)
}

// SaveNews atomically replaces the news collection.
func (s *DataService) SaveNews(ctx context.Context, items []model.NewsItem) error {
	return s.queries.ReplaceNews(ctx, items)
}

// GetAllEvents returns every event, or an empty slice on failure.
func (s *DataService) GetAllEvents(ctx context.Context) []model.EventItem {
	return readAll(ctx, "events", s.queries.ListEvents)
}

// SaveEvents atomically replaces the events collection.
func (s *DataService) SaveEvents(ctx context.Context, items []model.EventItem) error {
	return s.queries.ReplaceEvents(ctx, items)
}

// GetAllFinance returns every finance transaction, or an empty slice on failure.
func (s *DataService) GetAllFinance(ctx context.Context) []model.FinanceTransaction {
	return readAll(ctx, "finance", s.queries.ListFinance)
}

// SaveFinance atomically replaces the finance collection.
func (s *DataService) SaveFinance(ctx context.Context, items []model.FinanceTransaction) error {
	return s.queries.ReplaceFinance(ctx, items)
}

// GetAllMembers returns every member, or an empty slice on failure.
func (s *DataService) GetAllMembers(ctx context.Context) []model.Member {
	return readAll(ctx, "members", s.queries.ListMembers)
}

// SaveMembers atomically replaces the members collection.
func (s *DataService) SaveMembers(ctx context.Context, items []model.Member) error {
	return s.queries.ReplaceMembers(ctx, items)
}

// AddMember inserts a single member directly. Unlike the replace-all
// paths this is called from the public self-registration flow, so the
// error propagates loudly instead of being swallowed.
func (s *DataService) AddMember(ctx context.Context, m model.Member) (model.Member, error) {
	added, err := s.queries.InsertMember(ctx, m)
	if err != nil {
		return model.Member{}, fmt.Errorf("adding member: %w", err)
	}
	return added, nil
}

// GetAllRegistrations returns every event registration, or an empty slice on failure.
func (s *DataService) GetAllRegistrations(ctx context.Context) []model.EventRegistration {
	return readAll(ctx, "registrations", s.queries.ListRegistrations)
}

// SaveRegistrations atomically replaces the registrations collection.
func (s *DataService) SaveRegistrations(ctx context.Context, items []model.EventRegistration) error {
	return s.queries.ReplaceRegistrations(ctx, items)
}

// GetAllMedia returns every media item, or an empty slice on failure.
func (s *DataService) GetAllMedia(ctx context.Context) []model.MediaItem {
	return readAll(ctx, "media", s.queries.ListMedia)
}

// SaveMedia atomically replaces the media collection.
func (s *DataService) SaveMedia(ctx context.Context, items []model.MediaItem) error {
	return s.queries.ReplaceMedia(ctx, items)
}

// GetAllMessages returns every contact message, or an empty slice on failure.
func (s *DataService) GetAllMessages(ctx context.Context) []model.ContactMessage {
	return readAll(ctx, "messages", s.queries.ListMessages)
}

// SaveMessages atomically replaces the messages collection.
func (s *DataService) SaveMessages(ctx context.Context, items []model.ContactMessage) error {
	return s.queries.ReplaceMessages(ctx, items)
}

// AddContactMessage inserts a single contact message directly; errors
// propagate so the submitter gets an honest receipt.
func (s *DataService) AddContactMessage(ctx context.Context, m model.ContactMessage) (model.ContactMessage, error) {
	added, err := s.queries.InsertMessage(ctx, m)
	if err != nil {
		return model.ContactMessage{}, fmt.Errorf("adding contact message: %w", err)
	}
	return added, nil
}

// GetAllAdmins returns every admin user, or an empty slice on failure.
func (s *DataService) GetAllAdmins(ctx context.Context) []model.AdminUser {
	return readAll(ctx, "admins", s.queries.ListAdmins)
}

// SaveAdmins atomically replaces the admin collection.
func (s *DataService) SaveAdmins(ctx context.Context, items []model.AdminUser) error {
	return s.queries.ReplaceAdmins(ctx, items)
}

// GetAdminByID returns a single admin user. Returns store.ErrNotFound
// when the identifier is absent.
func (s *DataService) GetAdminByID(ctx context.Context, id int64) (model.AdminUser, error) {
	return s.queries.GetAdminByID(ctx, id)
}

// ValidateCredentials verifies a username/password pair against the
// stored argon2id hash. Returns nil on any lookup or verification
// failure; it never reports why.
func (s *DataService) ValidateCredentials(ctx context.Context, username, password string) *model.AdminUser {
	user, err := s.queries.GetAdminByUsername(ctx, username)
	if err != nil {
		return nil
	}
	ok, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return nil
	}
	return &user
}

// Dashboard aggregates the admin landing-page numbers.
type Dashboard struct {
	TotalMembers       int                        `json:"total_members"`
	PendingMembers     int                        `json:"pending_members"`
	TotalFunds         int64                      `json:"total_funds"`
	TotalVisits        int64                      `json:"total_visits"`
	RecentNews         []model.NewsItem           `json:"recent_news"`
	RecentTransactions []model.FinanceTransaction `json:"recent_transactions"`
}

// GetDashboard collects member, finance, visit and recency aggregates
// for the admin dashboard. All reads are lenient.
func (s *DataService) GetDashboard(ctx context.Context, stats model.SiteStats) Dashboard {
	members := s.GetAllMembers(ctx)
	finance := s.GetAllFinance(ctx)
	news := s.GetAllNews(ctx)

	pending := 0
	for _, m := range members {
		if m.Status == model.MemberPending {
			pending++
		}
	}

	sort.Slice(news, func(i, j int) bool { return news[i].PublishDate.After(news[j].PublishDate) })
	sortedTxs := make([]model.FinanceTransaction, len(finance))
	copy(sortedTxs, finance)
	sort.Slice(sortedTxs, func(i, j int) bool { return sortedTxs[i].Date.After(sortedTxs[j].Date) })

	return Dashboard{
		TotalMembers:       len(members),
		PendingMembers:     pending,
		TotalFunds:         model.NetBalance(finance),
		TotalVisits:        stats.TotalVisits,
		RecentNews:         firstN(news, 5),
		RecentTransactions: firstN(sortedTxs, 5),
	}
}

func firstN[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
