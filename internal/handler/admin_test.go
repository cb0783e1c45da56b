// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/vanlocweb/vanloc-go/internal/auth"
	"github.com/vanlocweb/vanloc-go/internal/model"
)

func TestAdminNewsCRUD(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	// Create
	resp := env.do(t, http.MethodPost, "/api/admin/news", map[string]any{
		"title":        "Tin mới",
		"summary":      "tóm tắt",
		"content":      "nội dung",
		"category":     "thong-bao",
		"images":       []string{},
		"publish_date": time.Now().UTC().Format(time.RFC3339),
		"visibility":   "public",
	})
	var created struct {
		Data model.NewsItem `json:"data"`
	}
	decodeBody(t, resp, &created)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create = %d", resp.StatusCode)
	}
	if created.Data.ID != 1 {
		t.Errorf("assigned ID = %d, want 1", created.Data.ID)
	}

	// Update
	resp = env.do(t, http.MethodPut, "/api/admin/news/1", map[string]any{
		"title":        "Tin sửa",
		"publish_date": time.Now().UTC().Format(time.RFC3339),
		"visibility":   "internal",
	})
	var updated struct {
		Data model.NewsItem `json:"data"`
	}
	decodeBody(t, resp, &updated)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update = %d", resp.StatusCode)
	}
	if updated.Data.Title != "Tin sửa" || updated.Data.Visibility != "internal" {
		t.Errorf("update result = %+v", updated.Data)
	}

	// List shows internal records to admins.
	resp = env.do(t, http.MethodGet, "/api/admin/news", nil)
	var list struct {
		Data []model.NewsItem `json:"data"`
		Meta struct {
			Total int `json:"total"`
		} `json:"meta"`
	}
	decodeBody(t, resp, &list)
	if list.Meta.Total != 1 || len(list.Data) != 1 {
		t.Fatalf("list = %+v", list)
	}

	// Delete
	resp = env.do(t, http.MethodDelete, "/api/admin/news/1", nil)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete = %d", resp.StatusCode)
	}

	resp = env.do(t, http.MethodDelete, "/api/admin/news/1", nil)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("second delete = %d, want 404", resp.StatusCode)
	}
}

func TestAdminWriteInvalidatesPublicCache(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	// Prime the public cache with the empty collection.
	resp := env.do(t, http.MethodGet, "/api/public/news", nil)
	_ = resp.Body.Close()

	resp = env.do(t, http.MethodPost, "/api/admin/news", map[string]any{
		"title":        "Vừa đăng",
		"publish_date": time.Now().UTC().Format(time.RFC3339),
		"visibility":   "public",
	})
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create = %d", resp.StatusCode)
	}

	resp = env.do(t, http.MethodGet, "/api/public/news", nil)
	var body struct {
		Data []model.NewsItem `json:"data"`
	}
	decodeBody(t, resp, &body)
	if len(body.Data) != 1 {
		t.Errorf("public list should see the new item, got %d", len(body.Data))
	}
}

func TestAdminApproveMember(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	err := env.data.SaveMembers(context.Background(), []model.Member{
		{ID: 7, FullName: "Chờ duyệt", JoinDate: time.Now().UTC(), Status: model.MemberPending},
	})
	if err != nil {
		t.Fatalf("SaveMembers: %v", err)
	}

	resp := env.do(t, http.MethodPost, "/api/admin/members/7/approve", nil)
	var body struct {
		Data model.Member `json:"data"`
	}
	decodeBody(t, resp, &body)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("approve = %d", resp.StatusCode)
	}
	if body.Data.Status != model.MemberActive || !body.Data.IsActive {
		t.Errorf("approved member = %+v", body.Data)
	}

	resp = env.do(t, http.MethodPost, "/api/admin/members/99/approve", nil)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("approving unknown member = %d, want 404", resp.StatusCode)
	}
}

func TestRoleEnforcement(t *testing.T) {
	env := newTestEnv(t)

	hash, err := auth.HashPassword("content-pass")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	admins := env.data.GetAllAdmins(context.Background())
	admins = append(admins, model.AdminUser{
		ID: 2, Username: "editor", PasswordHash: hash,
		FullName: "Biên tập", Role: model.RoleContentManager,
	})
	if err := env.data.SaveAdmins(context.Background(), admins); err != nil {
		t.Fatalf("SaveAdmins: %v", err)
	}

	resp := env.do(t, http.MethodPost, "/api/admin/login", map[string]string{
		"username": "editor", "password": "content-pass",
	})
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("editor login = %d", resp.StatusCode)
	}

	// Content manager can manage news.
	resp = env.do(t, http.MethodGet, "/api/admin/news", nil)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("news list as editor = %d, want 200", resp.StatusCode)
	}

	// But the user admin surface is superadmin only.
	resp = env.do(t, http.MethodGet, "/api/admin/users", nil)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("users list as editor = %d, want 403", resp.StatusCode)
	}
}

func TestDashboard(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	now := time.Now().UTC()
	_ = env.data.SaveMembers(context.Background(), []model.Member{
		{ID: 1, FullName: "A", JoinDate: now, IsActive: true, Status: model.MemberActive},
		{ID: 2, FullName: "B", JoinDate: now, Status: model.MemberPending},
	})
	_ = env.data.SaveFinance(context.Background(), []model.FinanceTransaction{
		{ID: 1, Description: "thu", Amount: 900000, Date: now, Kind: model.FinanceIncome, Visibility: model.VisibilityPublic},
	})

	resp := env.do(t, http.MethodGet, "/api/admin/dashboard", nil)
	var body struct {
		Data struct {
			TotalMembers   int   `json:"total_members"`
			PendingMembers int   `json:"pending_members"`
			TotalFunds     int64 `json:"total_funds"`
			TotalVisits    int64 `json:"total_visits"`
		} `json:"data"`
	}
	decodeBody(t, resp, &body)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("dashboard = %d", resp.StatusCode)
	}
	if body.Data.TotalMembers != 2 || body.Data.PendingMembers != 1 {
		t.Errorf("member counts = %+v", body.Data)
	}
	if body.Data.TotalFunds != 900000 {
		t.Errorf("total funds = %d", body.Data.TotalFunds)
	}
	if body.Data.TotalVisits != 1245 {
		t.Errorf("total visits = %d, want seeded counter", body.Data.TotalVisits)
	}
}
