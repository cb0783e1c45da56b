// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/mileusna/useragent"

	"github.com/vanlocweb/vanloc-go/internal/service"
)

// skipPrefixes are path prefixes that never count as page visits.
var skipPrefixes = []string{
	"/api/",
	"/admin",
	"/uploads/",
	"/static/",
	"/health",
}

// VisitTracker counts successful page views. Recording happens after
// the response is written, in a goroutine with its own deadline, so a
// slow database never delays the visitor.
func VisitTracker(visits *service.VisitService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !qualifiesAsVisit(r) {
				next.ServeHTTP(w, r)
				return
			}

			sw := &statusWriter{ResponseWriter: w}
			next.ServeHTTP(sw, r)

			if sw.status() < 400 {
				go func() {
					ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					visits.RecordVisit(ctx)
				}()
			}
		})
	}
}

// qualifiesAsVisit reports whether a request counts as a page view:
// GET to a page path (no file extension), outside the API and admin
// surfaces, from something that doesn't identify itself as a crawler.
func qualifiesAsVisit(r *http.Request) bool {
	if r.Method != http.MethodGet {
		return false
	}

	path := r.URL.Path
	if strings.Contains(path, ".") {
		return false
	}
	for _, prefix := range skipPrefixes {
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}

	ua := useragent.Parse(r.UserAgent())
	return !ua.Bot
}

// statusWriter records the response status code.
type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	if w.code == 0 {
		w.code = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.code == 0 {
		w.code = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

func (w *statusWriter) status() int {
	if w.code == 0 {
		return http.StatusOK
	}
	return w.code
}
