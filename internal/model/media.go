// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Media kinds.
const (
	MediaImage = "image"
	MediaVideo = "video"
)

// MediaItem represents a gallery entry. The URL is an opaque reference
// string produced by the blob-store collaborator.
type MediaItem struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	URL        string `json:"url"`
	Kind       string `json:"kind"`
	Year       string `json:"year"`
	Topic      string `json:"topic"`
	Visibility string `json:"visibility"`
}
