// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/vanlocweb/vanloc-go/internal/upload"
)

// UploadImage handles POST /api/admin/uploads. Multipart form with one
// "file" part; the response carries the relative URL to store on the
// owning record.
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(upload.MaxUploadSize); err != nil {
		WriteBadRequest(w, "Invalid multipart form", nil)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteBadRequest(w, "Missing file", nil)
		return
	}
	defer func() { _ = file.Close() }()

	result, err := h.uploads.SaveImage(file, header.Filename)
	if err != nil {
		slog.Warn("image upload rejected", "filename", header.Filename, "error", err)
		WriteValidationError(w, map[string]string{"file": err.Error()})
		return
	}

	WriteCreated(w, result)
}

// DeleteUpload handles DELETE /api/admin/uploads. The url query
// parameter names the stored file.
func (h *Handler) DeleteUpload(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		WriteBadRequest(w, "Missing url parameter", nil)
		return
	}

	if err := h.uploads.Remove(url); err != nil {
		WriteBadRequest(w, err.Error(), nil)
		return
	}

	WriteSuccess(w, map[string]string{"removed": url}, nil)
}
