// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package upload stores image files attached to news, events and media
// records. Files are kept on disk under the configured uploads
// directory; records reference them by relative URL.
package upload

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// MaxUploadSize bounds a single uploaded file.
const MaxUploadSize = 10 << 20 // 10 MB

// ThumbWidth and ThumbHeight bound the generated thumbnail.
const (
	ThumbWidth  = 400
	ThumbHeight = 400
)

const jpegQuality = 90

// Result describes one stored upload.
type Result struct {
	// URL is the relative reference stored on the owning record,
	// e.g. "/uploads/3f2a....jpg".
	URL string

	// ThumbURL references the generated thumbnail, empty when
	// thumbnailing failed.
	ThumbURL string

	Width  int
	Height int
	Size   int64
}

// Store writes uploaded images to a directory on disk.
type Store struct {
	dir string
}

// NewStore creates a Store rooted at dir, creating it if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(filepath.Join(dir, "thumbs"), 0o755); err != nil {
		return nil, fmt.Errorf("creating uploads directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// SaveImage reads one image upload, re-encodes it (stripping any
// metadata) and writes the original plus a thumbnail. The stored
// filename is a fresh UUID so uploads never collide or leak the
// submitter's filename.
func (s *Store) SaveImage(r io.Reader, originalName string) (*Result, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if len(data) > MaxUploadSize {
		return nil, fmt.Errorf("upload exceeds %d bytes", MaxUploadSize)
	}

	format := detectFormat(data)
	if format == "" {
		return nil, fmt.Errorf("unsupported image type")
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	encoded, err := encodeImage(img, format)
	if err != nil {
		return nil, fmt.Errorf("encoding image: %w", err)
	}

	name := uuid.New().String() + extensionFor(format)
	if err := os.WriteFile(filepath.Join(s.dir, name), encoded, 0o644); err != nil {
		return nil, fmt.Errorf("writing upload: %w", err)
	}

	bounds := img.Bounds()
	res := &Result{
		URL:    "/uploads/" + name,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Size:   int64(len(encoded)),
	}

	// Thumbnail failure is not fatal; the original is already stored.
	thumb := imaging.Fit(img, ThumbWidth, ThumbHeight, imaging.Lanczos)
	if thumbData, err := encodeImage(thumb, format); err == nil {
		thumbPath := filepath.Join(s.dir, "thumbs", name)
		if err := os.WriteFile(thumbPath, thumbData, 0o644); err == nil {
			res.ThumbURL = "/uploads/thumbs/" + name
		}
	}

	return res, nil
}

// Remove deletes a stored upload and its thumbnail given the relative
// URL recorded on the owning record. Unknown or traversing paths are
// rejected.
func (s *Store) Remove(url string) error {
	name := strings.TrimPrefix(url, "/uploads/")
	name = filepath.Base(name)
	if name == "." || name == ".." || name == "" {
		return fmt.Errorf("invalid upload reference %q", url)
	}

	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing upload: %w", err)
	}
	_ = os.Remove(filepath.Join(s.dir, "thumbs", name))
	return nil
}

// Dir returns the directory uploads are stored in, for static serving.
func (s *Store) Dir() string {
	return s.dir
}

// detectFormat sniffs the image format from raw bytes. TIFF is
// rejected explicitly (CVE-2023-36308 in disintegration/imaging).
func detectFormat(data []byte) string {
	contentType := http.DetectContentType(data)
	if strings.Contains(contentType, "tiff") {
		return ""
	}
	switch {
	case strings.Contains(contentType, "jpeg"):
		return "jpeg"
	case strings.Contains(contentType, "png"):
		return "png"
	case strings.Contains(contentType, "gif"), strings.Contains(contentType, "webp"):
		// Re-encoded as JPEG; pure Go cannot encode these formats well.
		return "jpeg"
	default:
		return ""
	}
}

func encodeImage(img image.Image, format string) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case "png":
		if err := png.Encode(&buf, img); err != nil {
			return nil, err
		}
	default:
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func extensionFor(format string) string {
	if format == "png" {
		return ".png"
	}
	return ".jpg"
}
