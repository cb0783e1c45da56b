// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/vanlocweb/vanloc-go/internal/model"
)

// ErrNotFound indicates a record identifier absent from its collection.
// Callers must treat it distinctly from a generic storage failure.
var ErrNotFound = errors.New("record not found")

// Queries provides access to all record collections.
type Queries struct {
	db *sql.DB
}

// New creates a Queries instance over the given database handle.
func New(db *sql.DB) *Queries {
	return &Queries{db: db}
}

// replaceAll clears a table and installs new content inside a single
// transaction. The store is left either fully in the old state or fully
// in the new state, never partially truncated.
func (q *Queries) replaceAll(ctx context.Context, table string, insert func(tx *sql.Tx) error) error {
	tx, err := q.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return fmt.Errorf("clearing %s: %w", table, err)
	}
	if err := insert(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing %s replace: %w", table, err)
	}
	return nil
}

func encodeImages(images []string) (string, error) {
	if images == nil {
		images = []string{}
	}
	b, err := json.Marshal(images)
	if err != nil {
		return "", fmt.Errorf("encoding image list: %w", err)
	}
	return string(b), nil
}

func decodeImages(raw string) []string {
	var images []string
	if err := json.Unmarshal([]byte(raw), &images); err != nil {
		return []string{}
	}
	return model.CleanImages(images)
}

// ListNews returns every news item.
func (q *Queries) ListNews(ctx context.Context) ([]model.NewsItem, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, title, summary, content, category, images, publish_date, visibility
		FROM news_items
	`)
	if err != nil {
		return nil, fmt.Errorf("listing news: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []model.NewsItem
	for rows.Next() {
		var n model.NewsItem
		var images string
		if err := rows.Scan(&n.ID, &n.Title, &n.Summary, &n.Content, &n.Category,
			&images, &n.PublishDate, &n.Visibility); err != nil {
			return nil, fmt.Errorf("scanning news item: %w", err)
		}
		n.Images = decodeImages(images)
		items = append(items, n)
	}
	return items, rows.Err()
}

// ReplaceNews atomically replaces the news collection.
func (q *Queries) ReplaceNews(ctx context.Context, items []model.NewsItem) error {
	return q.replaceAll(ctx, "news_items", func(tx *sql.Tx) error {
		for _, n := range items {
			images, err := encodeImages(n.Images)
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO news_items (id, title, summary, content, category, images, publish_date, visibility)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			`, n.ID, n.Title, n.Summary, n.Content, n.Category, images, n.PublishDate, n.Visibility); err != nil {
				return fmt.Errorf("inserting news item %d: %w", n.ID, err)
			}
		}
		return nil
	})
}

// ListEvents returns every event.
func (q *Queries) ListEvents(ctx context.Context) ([]model.EventItem, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, title, description, start_date, end_date, location, images, visibility
		FROM event_items
	`)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []model.EventItem
	for rows.Next() {
		var e model.EventItem
		var images string
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.StartDate, &e.EndDate,
			&e.Location, &images, &e.Visibility); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		e.Images = decodeImages(images)
		items = append(items, e)
	}
	return items, rows.Err()
}

// ReplaceEvents atomically replaces the events collection.
func (q *Queries) ReplaceEvents(ctx context.Context, items []model.EventItem) error {
	return q.replaceAll(ctx, "event_items", func(tx *sql.Tx) error {
		for _, e := range items {
			images, err := encodeImages(e.Images)
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO event_items (id, title, description, start_date, end_date, location, images, visibility)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			`, e.ID, e.Title, e.Description, e.StartDate, e.EndDate, e.Location, images, e.Visibility); err != nil {
				return fmt.Errorf("inserting event %d: %w", e.ID, err)
			}
		}
		return nil
	})
}

// ListFinance returns every finance transaction.
func (q *Queries) ListFinance(ctx context.Context) ([]model.FinanceTransaction, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, description, amount, date, kind, voucher_url, visibility
		FROM finance_transactions
	`)
	if err != nil {
		return nil, fmt.Errorf("listing finance transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []model.FinanceTransaction
	for rows.Next() {
		var t model.FinanceTransaction
		if err := rows.Scan(&t.ID, &t.Description, &t.Amount, &t.Date, &t.Kind,
			&t.VoucherURL, &t.Visibility); err != nil {
			return nil, fmt.Errorf("scanning finance transaction: %w", err)
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

// ReplaceFinance atomically replaces the finance collection.
func (q *Queries) ReplaceFinance(ctx context.Context, items []model.FinanceTransaction) error {
	return q.replaceAll(ctx, "finance_transactions", func(tx *sql.Tx) error {
		for _, t := range items {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO finance_transactions (id, description, amount, date, kind, voucher_url, visibility)
				VALUES (?, ?, ?, ?, ?, ?, ?)
			`, t.ID, t.Description, t.Amount, t.Date, t.Kind, t.VoucherURL, t.Visibility); err != nil {
				return fmt.Errorf("inserting finance transaction %d: %w", t.ID, err)
			}
		}
		return nil
	})
}

// ListMembers returns every member.
func (q *Queries) ListMembers(ctx context.Context) ([]model.Member, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, full_name, village, grp, occupation, phone, join_date, is_active, status
		FROM members
	`)
	if err != nil {
		return nil, fmt.Errorf("listing members: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []model.Member
	for rows.Next() {
		var m model.Member
		if err := rows.Scan(&m.ID, &m.FullName, &m.Village, &m.Group, &m.Occupation,
			&m.Phone, &m.JoinDate, &m.IsActive, &m.Status); err != nil {
			return nil, fmt.Errorf("scanning member: %w", err)
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

// ReplaceMembers atomically replaces the members collection.
func (q *Queries) ReplaceMembers(ctx context.Context, items []model.Member) error {
	return q.replaceAll(ctx, "members", func(tx *sql.Tx) error {
		for _, m := range items {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO members (id, full_name, village, grp, occupation, phone, join_date, is_active, status)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			`, m.ID, m.FullName, m.Village, m.Group, m.Occupation, m.Phone, m.JoinDate, m.IsActive, m.Status); err != nil {
				return fmt.Errorf("inserting member %d: %w", m.ID, err)
			}
		}
		return nil
	})
}

// InsertMember inserts a single member, assigning the next identifier
// inside the same transaction so concurrent inserts cannot collide.
func (q *Queries) InsertMember(ctx context.Context, m model.Member) (model.Member, error) {
	tx, err := q.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Member{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(id), 0) + 1 FROM members").Scan(&m.ID); err != nil {
		return model.Member{}, fmt.Errorf("assigning member id: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO members (id, full_name, village, grp, occupation, phone, join_date, is_active, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, m.ID, m.FullName, m.Village, m.Group, m.Occupation, m.Phone, m.JoinDate, m.IsActive, m.Status); err != nil {
		return model.Member{}, fmt.Errorf("inserting member: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return model.Member{}, fmt.Errorf("committing member insert: %w", err)
	}
	return m, nil
}

// ListRegistrations returns every event registration.
func (q *Queries) ListRegistrations(ctx context.Context) ([]model.EventRegistration, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, event_id, full_name, phone, number_of_attendees, note, registration_date
		FROM event_registrations
	`)
	if err != nil {
		return nil, fmt.Errorf("listing registrations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []model.EventRegistration
	for rows.Next() {
		var r model.EventRegistration
		if err := rows.Scan(&r.ID, &r.EventID, &r.FullName, &r.Phone,
			&r.NumberOfAttendees, &r.Note, &r.RegistrationDate); err != nil {
			return nil, fmt.Errorf("scanning registration: %w", err)
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

// ReplaceRegistrations atomically replaces the registrations collection.
func (q *Queries) ReplaceRegistrations(ctx context.Context, items []model.EventRegistration) error {
	return q.replaceAll(ctx, "event_registrations", func(tx *sql.Tx) error {
		for _, r := range items {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO event_registrations (id, event_id, full_name, phone, number_of_attendees, note, registration_date)
				VALUES (?, ?, ?, ?, ?, ?, ?)
			`, r.ID, r.EventID, r.FullName, r.Phone, r.NumberOfAttendees, r.Note, r.RegistrationDate); err != nil {
				return fmt.Errorf("inserting registration %d: %w", r.ID, err)
			}
		}
		return nil
	})
}

// ListMedia returns every media item.
func (q *Queries) ListMedia(ctx context.Context) ([]model.MediaItem, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, title, url, kind, year, topic, visibility
		FROM media_items
	`)
	if err != nil {
		return nil, fmt.Errorf("listing media: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []model.MediaItem
	for rows.Next() {
		var m model.MediaItem
		if err := rows.Scan(&m.ID, &m.Title, &m.URL, &m.Kind, &m.Year, &m.Topic, &m.Visibility); err != nil {
			return nil, fmt.Errorf("scanning media item: %w", err)
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

// ReplaceMedia atomically replaces the media collection.
func (q *Queries) ReplaceMedia(ctx context.Context, items []model.MediaItem) error {
	return q.replaceAll(ctx, "media_items", func(tx *sql.Tx) error {
		for _, m := range items {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO media_items (id, title, url, kind, year, topic, visibility)
				VALUES (?, ?, ?, ?, ?, ?, ?)
			`, m.ID, m.Title, m.URL, m.Kind, m.Year, m.Topic, m.Visibility); err != nil {
				return fmt.Errorf("inserting media item %d: %w", m.ID, err)
			}
		}
		return nil
	})
}

// ListMessages returns every contact message.
func (q *Queries) ListMessages(ctx context.Context) ([]model.ContactMessage, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, full_name, phone, email, subject, content, sent_date, is_read
		FROM contact_messages
	`)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []model.ContactMessage
	for rows.Next() {
		var m model.ContactMessage
		if err := rows.Scan(&m.ID, &m.FullName, &m.Phone, &m.Email, &m.Subject,
			&m.Content, &m.SentDate, &m.IsRead); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

// ReplaceMessages atomically replaces the messages collection.
func (q *Queries) ReplaceMessages(ctx context.Context, items []model.ContactMessage) error {
	return q.replaceAll(ctx, "contact_messages", func(tx *sql.Tx) error {
		for _, m := range items {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO contact_messages (id, full_name, phone, email, subject, content, sent_date, is_read)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			`, m.ID, m.FullName, m.Phone, m.Email, m.Subject, m.Content, m.SentDate, m.IsRead); err != nil {
				return fmt.Errorf("inserting message %d: %w", m.ID, err)
			}
		}
		return nil
	})
}

// InsertMessage inserts a single contact message, assigning the next
// identifier inside the transaction.
func (q *Queries) InsertMessage(ctx context.Context, m model.ContactMessage) (model.ContactMessage, error) {
	tx, err := q.db.BeginTx(ctx, nil)
	if err != nil {
		return model.ContactMessage{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(id), 0) + 1 FROM contact_messages").Scan(&m.ID); err != nil {
		return model.ContactMessage{}, fmt.Errorf("assigning message id: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO contact_messages (id, full_name, phone, email, subject, content, sent_date, is_read)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, m.ID, m.FullName, m.Phone, m.Email, m.Subject, m.Content, m.SentDate, m.IsRead); err != nil {
		return model.ContactMessage{}, fmt.Errorf("inserting message: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return model.ContactMessage{}, fmt.Errorf("committing message insert: %w", err)
	}
	return m, nil
}

// ListAdmins returns every admin user.
func (q *Queries) ListAdmins(ctx context.Context) ([]model.AdminUser, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, username, password_hash, full_name, role
		FROM admin_users
	`)
	if err != nil {
		return nil, fmt.Errorf("listing admins: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []model.AdminUser
	for rows.Next() {
		var u model.AdminUser
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.FullName, &u.Role); err != nil {
			return nil, fmt.Errorf("scanning admin: %w", err)
		}
		items = append(items, u)
	}
	return items, rows.Err()
}

// ReplaceAdmins atomically replaces the admin collection.
func (q *Queries) ReplaceAdmins(ctx context.Context, items []model.AdminUser) error {
	return q.replaceAll(ctx, "admin_users", func(tx *sql.Tx) error {
		for _, u := range items {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO admin_users (id, username, password_hash, full_name, role)
				VALUES (?, ?, ?, ?, ?)
			`, u.ID, u.Username, u.PasswordHash, u.FullName, u.Role); err != nil {
				return fmt.Errorf("inserting admin %d: %w", u.ID, err)
			}
		}
		return nil
	})
}

// GetAdminByUsername looks up an admin user by username.
// Returns ErrNotFound when no such user exists.
func (q *Queries) GetAdminByUsername(ctx context.Context, username string) (model.AdminUser, error) {
	var u model.AdminUser
	err := q.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, full_name, role
		FROM admin_users
		WHERE username = ?
	`, username).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.FullName, &u.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return model.AdminUser{}, ErrNotFound
	}
	if err != nil {
		return model.AdminUser{}, fmt.Errorf("getting admin %q: %w", username, err)
	}
	return u, nil
}

// GetAdminByID looks up an admin user by identifier.
// Returns ErrNotFound when no such user exists.
func (q *Queries) GetAdminByID(ctx context.Context, id int64) (model.AdminUser, error) {
	var u model.AdminUser
	err := q.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, full_name, role
		FROM admin_users
		WHERE id = ?
	`, id).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.FullName, &u.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return model.AdminUser{}, ErrNotFound
	}
	if err != nil {
		return model.AdminUser{}, fmt.Errorf("getting admin %d: %w", id, err)
	}
	return u, nil
}

// CountAdmins returns the number of admin users.
func (q *Queries) CountAdmins(ctx context.Context) (int64, error) {
	var n int64
	if err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM admin_users").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting admins: %w", err)
	}
	return n, nil
}

// CreateAdmin inserts a single admin user, assigning the next identifier.
func (q *Queries) CreateAdmin(ctx context.Context, u model.AdminUser) (model.AdminUser, error) {
	tx, err := q.db.BeginTx(ctx, nil)
	if err != nil {
		return model.AdminUser{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(id), 0) + 1 FROM admin_users").Scan(&u.ID); err != nil {
		return model.AdminUser{}, fmt.Errorf("assigning admin id: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO admin_users (id, username, password_hash, full_name, role)
		VALUES (?, ?, ?, ?, ?)
	`, u.ID, u.Username, u.PasswordHash, u.FullName, u.Role); err != nil {
		return model.AdminUser{}, fmt.Errorf("inserting admin: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return model.AdminUser{}, fmt.Errorf("committing admin insert: %w", err)
	}
	return u, nil
}

// InsertSiteEvent records an audit log entry. Used by the logging
// handler; failures are the caller's concern.
func (q *Queries) InsertSiteEvent(ctx context.Context, level, message, metadata string, createdAt time.Time) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO site_events (level, message, metadata, created_at)
		VALUES (?, ?, ?, ?)
	`, level, message, metadata, createdAt)
	if err != nil {
		return fmt.Errorf("inserting site event: %w", err)
	}
	return nil
}
