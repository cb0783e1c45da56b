// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler_test

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/vanlocweb/vanloc-go/internal/model"
)

func TestPublicNewsFiltersInternal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	now := time.Now().UTC()
	err := env.data.SaveNews(ctx, []model.NewsItem{
		{ID: 1, Title: "Công khai", Content: "nội dung **đậm**", PublishDate: now, Visibility: model.VisibilityPublic},
		{ID: 2, Title: "Nội bộ", PublishDate: now, Visibility: model.VisibilityInternal},
	})
	if err != nil {
		t.Fatalf("SaveNews: %v", err)
	}

	resp := env.do(t, http.MethodGet, "/api/public/news", nil)
	var body struct {
		Data []struct {
			ID          int64  `json:"id"`
			Title       string `json:"title"`
			ContentHTML string `json:"content_html"`
		} `json:"data"`
	}
	decodeBody(t, resp, &body)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if len(body.Data) != 1 {
		t.Fatalf("expected 1 public item, got %d", len(body.Data))
	}
	if body.Data[0].ID != 1 {
		t.Errorf("wrong item: %+v", body.Data[0])
	}
	if !strings.Contains(body.Data[0].ContentHTML, "<strong>") {
		t.Errorf("markdown not rendered: %q", body.Data[0].ContentHTML)
	}
}

func TestPublicNewsItemNotFoundForInternal(t *testing.T) {
	env := newTestEnv(t)

	err := env.data.SaveNews(context.Background(), []model.NewsItem{
		{ID: 1, Title: "Nội bộ", PublishDate: time.Now().UTC(), Visibility: model.VisibilityInternal},
	})
	if err != nil {
		t.Fatalf("SaveNews: %v", err)
	}

	resp := env.do(t, http.MethodGet, "/api/public/news/1", nil)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("internal item should 404, got %d", resp.StatusCode)
	}
}

func TestPublicNewsIsCached(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if err := env.data.SaveNews(ctx, []model.NewsItem{
		{ID: 1, Title: "Ban đầu", PublishDate: time.Now().UTC(), Visibility: model.VisibilityPublic},
	}); err != nil {
		t.Fatalf("SaveNews: %v", err)
	}

	resp := env.do(t, http.MethodGet, "/api/public/news", nil)
	_ = resp.Body.Close()

	// A direct storage write bypasses cache invalidation, so the next
	// read still serves the cached list.
	if err := env.data.SaveNews(ctx, nil); err != nil {
		t.Fatalf("SaveNews: %v", err)
	}

	resp = env.do(t, http.MethodGet, "/api/public/news", nil)
	var body struct {
		Data []model.NewsItem `json:"data"`
	}
	decodeBody(t, resp, &body)
	if len(body.Data) != 1 {
		t.Errorf("expected cached list with 1 item, got %d", len(body.Data))
	}
}

func TestPublicMembersHidesPhoneAndPending(t *testing.T) {
	env := newTestEnv(t)

	now := time.Now().UTC()
	err := env.data.SaveMembers(context.Background(), []model.Member{
		{ID: 1, FullName: "Hội viên A", Phone: "0901234567", JoinDate: now, IsActive: true, Status: model.MemberActive},
		{ID: 2, FullName: "Chờ duyệt", JoinDate: now, Status: model.MemberPending},
	})
	if err != nil {
		t.Fatalf("SaveMembers: %v", err)
	}

	resp := env.do(t, http.MethodGet, "/api/public/members", nil)
	var body struct {
		Data []map[string]any `json:"data"`
	}
	decodeBody(t, resp, &body)

	if len(body.Data) != 1 {
		t.Fatalf("expected only the active member, got %d", len(body.Data))
	}
	if _, ok := body.Data[0]["phone"]; ok {
		t.Error("phone number must not appear in the public directory")
	}
}

func TestPublicFinanceBalanceCoversHiddenRows(t *testing.T) {
	env := newTestEnv(t)

	now := time.Now().UTC()
	err := env.data.SaveFinance(context.Background(), []model.FinanceTransaction{
		{ID: 1, Description: "thu công khai", Amount: 1000000, Date: now, Kind: model.FinanceIncome, Visibility: model.VisibilityPublic},
		{ID: 2, Description: "chi nội bộ", Amount: 400000, Date: now, Kind: model.FinanceExpense, Visibility: model.VisibilityInternal},
	})
	if err != nil {
		t.Fatalf("SaveFinance: %v", err)
	}

	resp := env.do(t, http.MethodGet, "/api/public/finance", nil)
	var body struct {
		Data struct {
			Transactions []model.FinanceTransaction `json:"transactions"`
			TotalIncome  int64                      `json:"total_income"`
			TotalExpense int64                      `json:"total_expense"`
			Balance      int64                      `json:"balance"`
		} `json:"data"`
	}
	decodeBody(t, resp, &body)

	if len(body.Data.Transactions) != 1 {
		t.Errorf("internal transaction leaked: %+v", body.Data.Transactions)
	}
	if body.Data.Balance != 600000 {
		t.Errorf("balance = %d, want 600000 (over all rows)", body.Data.Balance)
	}
	if body.Data.TotalExpense != 400000 {
		t.Errorf("total expense = %d, want 400000", body.Data.TotalExpense)
	}
}

func TestPublicContactValidation(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/public/contact", map[string]string{
		"full_name": "  ",
		"content":   "",
	})
	var body struct {
		Error struct {
			Code    string            `json:"code"`
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	decodeBody(t, resp, &body)

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}
	if body.Error.Code != "validation_error" {
		t.Errorf("code = %q", body.Error.Code)
	}
	if _, ok := body.Error.Details["full_name"]; !ok {
		t.Error("missing full_name field error")
	}
	if _, ok := body.Error.Details["content"]; !ok {
		t.Error("missing content field error")
	}
}

func TestPublicContactCreatesMessage(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/public/contact", map[string]string{
		"full_name": "Người Gửi",
		"phone":     "0909",
		"content":   "xin chào ban liên lạc",
	})
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	messages := env.data.GetAllMessages(context.Background())
	if len(messages) != 1 {
		t.Fatalf("expected 1 stored message, got %d", len(messages))
	}
	if messages[0].IsRead {
		t.Error("new message should be unread")
	}
}

func TestPublicMemberRegisterStartsPending(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/public/members/register", map[string]string{
		"full_name": "Nguyễn Văn Mới",
		"village":   "Vạn Lộc",
		"phone":     "0905",
	})
	var body struct {
		Data model.Member `json:"data"`
	}
	decodeBody(t, resp, &body)

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	if body.Data.Status != model.MemberPending || body.Data.IsActive {
		t.Errorf("self-registration must start pending, got %+v", body.Data)
	}
}

func TestPublicEventRegister(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	now := time.Now().UTC()
	err := env.data.SaveEvents(ctx, []model.EventItem{
		{ID: 3, Title: "Hội xuân", StartDate: now, EndDate: now, Visibility: model.VisibilityPublic},
		{ID: 4, Title: "Họp kín", StartDate: now, EndDate: now, Visibility: model.VisibilityInternal},
	})
	if err != nil {
		t.Fatalf("SaveEvents: %v", err)
	}

	t.Run("unknown event", func(t *testing.T) {
		resp := env.do(t, http.MethodPost, "/api/public/events/99/register", map[string]any{
			"full_name": "A", "number_of_attendees": 1,
		})
		_ = resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("status = %d, want 404", resp.StatusCode)
		}
	})

	t.Run("internal event", func(t *testing.T) {
		resp := env.do(t, http.MethodPost, "/api/public/events/4/register", map[string]any{
			"full_name": "A", "number_of_attendees": 1,
		})
		_ = resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("internal events must not accept registrations, got %d", resp.StatusCode)
		}
	})

	t.Run("zero attendees", func(t *testing.T) {
		resp := env.do(t, http.MethodPost, "/api/public/events/3/register", map[string]any{
			"full_name": "A", "number_of_attendees": 0,
		})
		_ = resp.Body.Close()
		if resp.StatusCode != http.StatusUnprocessableEntity {
			t.Errorf("status = %d, want 422", resp.StatusCode)
		}
	})

	t.Run("valid registration", func(t *testing.T) {
		resp := env.do(t, http.MethodPost, "/api/public/events/3/register", map[string]any{
			"full_name": "Trần Thị B", "phone": "0907", "number_of_attendees": 4, "note": "cả nhà",
		})
		var body struct {
			Data model.EventRegistration `json:"data"`
		}
		decodeBody(t, resp, &body)

		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("status = %d, want 201", resp.StatusCode)
		}
		if body.Data.ID != 1 || body.Data.EventID != 3 {
			t.Errorf("registration = %+v", body.Data)
		}

		regs := env.data.GetAllRegistrations(ctx)
		if len(regs) != 1 {
			t.Errorf("expected 1 stored registration, got %d", len(regs))
		}
	})
}

func TestPublicStats(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/api/public/stats", nil)
	var body struct {
		Data struct {
			TotalVisits int64 `json:"total_visits"`
		} `json:"data"`
	}
	decodeBody(t, resp, &body)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	// Bootstrap seeds the counter.
	if body.Data.TotalVisits != 1245 {
		t.Errorf("total visits = %d, want seeded 1245", body.Data.TotalVisits)
	}
}
