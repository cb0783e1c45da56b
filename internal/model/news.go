// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Record visibility.
const (
	VisibilityPublic   = "public"
	VisibilityInternal = "internal"
)

// NewsItem represents a news article. Content holds Markdown source;
// rendering happens at the presentation layer.
type NewsItem struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	Content     string    `json:"content"`
	Category    string    `json:"category"`
	Images      []string  `json:"images"`
	PublishDate time.Time `json:"publish_date"`
	Visibility  string    `json:"visibility"`
}

// CoverImage returns the first image reference, or "" when the item has
// no images.
func (n *NewsItem) CoverImage() string {
	return coverImage(n.Images)
}

// IsPublic returns true if the item is publicly visible.
func (n *NewsItem) IsPublic() bool {
	return n.Visibility == VisibilityPublic
}

// CleanImages drops empty references and returns a non-nil slice, so
// decoded image lists always marshal to a JSON array.
func CleanImages(images []string) []string {
	cleaned := make([]string, 0, len(images))
	for _, img := range images {
		if img != "" {
			cleaned = append(cleaned, img)
		}
	}
	return cleaned
}

func coverImage(images []string) string {
	if len(images) == 0 {
		return ""
	}
	return images[0]
}
