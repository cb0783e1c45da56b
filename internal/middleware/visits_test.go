// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

const browserUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0 Safari/537.36"

func TestQualifiesAsVisit(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		ua     string
		want   bool
	}{
		{"page view", http.MethodGet, "/tin-tuc", browserUA, true},
		{"root", http.MethodGet, "/", browserUA, true},
		{"post", http.MethodPost, "/tin-tuc", browserUA, false},
		{"head", http.MethodHead, "/", browserUA, false},
		{"api path", http.MethodGet, "/api/public/news", browserUA, false},
		{"admin path", http.MethodGet, "/admin", browserUA, false},
		{"upload", http.MethodGet, "/uploads/x", browserUA, false},
		{"health", http.MethodGet, "/health", browserUA, false},
		{"asset with extension", http.MethodGet, "/favicon.ico", browserUA, false},
		{"crawler", http.MethodGet, "/", "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(tt.method, tt.path, nil)
			r.Header.Set("User-Agent", tt.ua)
			if got := qualifiesAsVisit(r); got != tt.want {
				t.Errorf("qualifiesAsVisit(%s %s) = %v, want %v", tt.method, tt.path, got, tt.want)
			}
		})
	}
}

func TestStatusWriter(t *testing.T) {
	t.Run("explicit status", func(t *testing.T) {
		rec := httptest.NewRecorder()
		sw := &statusWriter{ResponseWriter: rec}
		sw.WriteHeader(http.StatusNotFound)
		if sw.status() != http.StatusNotFound {
			t.Errorf("status = %d, want 404", sw.status())
		}
	})

	t.Run("implicit 200 on write", func(t *testing.T) {
		rec := httptest.NewRecorder()
		sw := &statusWriter{ResponseWriter: rec}
		_, _ = sw.Write([]byte("ok"))
		if sw.status() != http.StatusOK {
			t.Errorf("status = %d, want 200", sw.status())
		}
	})

	t.Run("no write defaults to 200", func(t *testing.T) {
		sw := &statusWriter{ResponseWriter: httptest.NewRecorder()}
		if sw.status() != http.StatusOK {
			t.Errorf("status = %d, want 200", sw.status())
		}
	})
}
