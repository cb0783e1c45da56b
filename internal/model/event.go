// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// EventItem represents an association event.
type EventItem struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"` // Markdown source
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Location    string    `json:"location"`
	Images      []string  `json:"images"`
	Visibility  string    `json:"visibility"`
}

// CoverImage returns the first image reference, or "" when the event has
// no images.
func (e *EventItem) CoverImage() string {
	return coverImage(e.Images)
}

// IsPublic returns true if the event is publicly visible.
func (e *EventItem) IsPublic() bool {
	return e.Visibility == VisibilityPublic
}

// EventRegistration represents an attendee registration for an event.
// The event reference is not integrity-checked against the events
// collection.
type EventRegistration struct {
	ID                int64     `json:"id"`
	EventID           int64     `json:"event_id"`
	FullName          string    `json:"full_name"`
	Phone             string    `json:"phone"`
	NumberOfAttendees int       `json:"number_of_attendees"`
	Note              string    `json:"note"`
	RegistrationDate  time.Time `json:"registration_date"`
}
