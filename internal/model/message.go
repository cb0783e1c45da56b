// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// ContactMessage represents a message submitted through the public
// contact form.
type ContactMessage struct {
	ID       int64     `json:"id"`
	FullName string    `json:"full_name"`
	Phone    string    `json:"phone"`
	Email    string    `json:"email"`
	Subject  string    `json:"subject"`
	Content  string    `json:"content"`
	SentDate time.Time `json:"sent_date"`
	IsRead   bool      `json:"is_read"`
}
