// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vanlocweb/vanloc-go/internal/cache"
	"github.com/vanlocweb/vanloc-go/internal/handler"
	"github.com/vanlocweb/vanloc-go/internal/middleware"
	"github.com/vanlocweb/vanloc-go/internal/model"
	"github.com/vanlocweb/vanloc-go/internal/report"
	"github.com/vanlocweb/vanloc-go/internal/service"
	"github.com/vanlocweb/vanloc-go/internal/session"
	"github.com/vanlocweb/vanloc-go/internal/testutil"
	"github.com/vanlocweb/vanloc-go/internal/upload"
)

// testEnv wires a full handler stack over a temporary database. The
// server runs the same route layout as production, minus CSRF.
type testEnv struct {
	data   *service.DataService
	server *httptest.Server
	client *http.Client
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)

	data := service.NewDataService(db)
	if err := data.Bootstrap(context.Background(), true); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}

	visits := service.NewVisitService(db, 730)
	memCache := cache.NewMemoryCache(time.Minute)
	t.Cleanup(func() { _ = memCache.Close() })

	uploads, err := upload.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	sessions := session.New(db, true)
	shield := middleware.NewLoginProtection(middleware.LoginProtectionConfig{
		IPRateLimit: 1000, // Effectively off for tests
		IPBurst:     1000,
	})

	h := handler.New(data, visits, memCache, report.NewRenderer(""), sessions, uploads, shield)

	r := chi.NewRouter()
	r.Use(sessions.LoadAndSave)

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/news", h.PublicNews)
		r.Get("/news/{id}", h.PublicNewsItem)
		r.Get("/events", h.PublicEvents)
		r.Get("/media", h.PublicMedia)
		r.Get("/members", h.PublicMembers)
		r.Get("/finance", h.PublicFinance)
		r.Get("/stats", h.PublicStats)
		r.Post("/contact", h.PublicContact)
		r.Post("/members/register", h.PublicMemberRegister)
		r.Post("/events/{id}/register", h.PublicEventRegister)
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Post("/login", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(sessions))
			r.Use(middleware.LoadUser(sessions, db))

			r.Post("/logout", h.Logout)
			r.Get("/me", h.Me)
			r.Get("/dashboard", h.Dashboard)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(model.RoleContentManager))
				r.Get("/news", h.AdminListNews)
				r.Post("/news", h.AdminCreateNews)
				r.Put("/news/{id}", h.AdminUpdateNews)
				r.Delete("/news/{id}", h.AdminDeleteNews)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(model.RoleMemberManager))
				r.Post("/members/{id}/approve", h.AdminApproveMember)
				r.Get("/reports/events/{id}/roster", h.EventRoster)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(model.RoleFinanceManager))
				r.Get("/reports/finance", h.FinanceReport)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole())
				r.Get("/users", h.AdminListUsers)
			})
		})
	})

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	client := server.Client()
	client.Jar = jar

	return &testEnv{data: data, server: server, client: client}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshaling body: %v", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, e.server.URL+path, reader)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := e.client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

// login authenticates the seeded default admin on the shared client.
func (e *testEnv) login(t *testing.T) {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/api/admin/login", map[string]string{
		"username": "admin",
		"password": "admin123",
	})
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d", resp.StatusCode)
	}
}

func decodeBody(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
}
