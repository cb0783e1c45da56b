// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"encoding/json"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/vanlocweb/vanloc-go/internal/content"
	"github.com/vanlocweb/vanloc-go/internal/model"
	"github.com/vanlocweb/vanloc-go/internal/service"
)

// Cache keys for the public list endpoints. Admin writes invalidate
// everything under cachePrefixPublic.
const (
	cachePrefixPublic = "public:"
	cacheKeyNews      = cachePrefixPublic + "news"
	cacheKeyEvents    = cachePrefixPublic + "events"
	cacheKeyMedia     = cachePrefixPublic + "media"
	cacheKeyMembers   = cachePrefixPublic + "members"
	cacheKeyFinance   = cachePrefixPublic + "finance"
)

// newsView is a news item prepared for the public site: the Markdown
// body is rendered and sanitized.
type newsView struct {
	model.NewsItem
	ContentHTML template.HTML `json:"content_html"`
	CoverImage  string        `json:"cover_image"`
}

// PublicNews handles GET /api/public/news. Internal items are filtered
// out; results are cached.
func (h *Handler) PublicNews(w http.ResponseWriter, r *http.Request) {
	h.cachedList(w, r, cacheKeyNews, func(ctx context.Context) any {
		items := h.data.GetAllNews(ctx)
		views := make([]newsView, 0, len(items))
		for _, item := range items {
			if !item.IsPublic() {
				continue
			}
			views = append(views, newsView{
				NewsItem:    item,
				ContentHTML: content.RenderMarkdown(item.Content),
				CoverImage:  item.CoverImage(),
			})
		}
		return views
	})
}

// PublicNewsItem handles GET /api/public/news/{id}.
func (h *Handler) PublicNewsItem(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid news ID", nil)
		return
	}

	for _, item := range h.data.GetAllNews(r.Context()) {
		if item.ID == id && item.IsPublic() {
			WriteSuccess(w, newsView{
				NewsItem:    item,
				ContentHTML: content.RenderMarkdown(item.Content),
				CoverImage:  item.CoverImage(),
			}, nil)
			return
		}
	}
	WriteNotFound(w, "News item not found")
}

// eventView is an event prepared for the public site.
type eventView struct {
	model.EventItem
	DescriptionHTML template.HTML `json:"description_html"`
	CoverImage      string        `json:"cover_image"`
}

// PublicEvents handles GET /api/public/events.
func (h *Handler) PublicEvents(w http.ResponseWriter, r *http.Request) {
	h.cachedList(w, r, cacheKeyEvents, func(ctx context.Context) any {
		items := h.data.GetAllEvents(ctx)
		views := make([]eventView, 0, len(items))
		for _, item := range items {
			if !item.IsPublic() {
				continue
			}
			views = append(views, eventView{
				EventItem:       item,
				DescriptionHTML: content.RenderMarkdown(item.Description),
				CoverImage:      item.CoverImage(),
			})
		}
		return views
	})
}

// PublicMedia handles GET /api/public/media.
func (h *Handler) PublicMedia(w http.ResponseWriter, r *http.Request) {
	h.cachedList(w, r, cacheKeyMedia, func(ctx context.Context) any {
		items := h.data.GetAllMedia(ctx)
		public := make([]model.MediaItem, 0, len(items))
		for _, item := range items {
			if item.Visibility == model.VisibilityPublic {
				public = append(public, item)
			}
		}
		return public
	})
}

// memberView hides the phone number from the public directory.
type memberView struct {
	ID         int64     `json:"id"`
	FullName   string    `json:"full_name"`
	Village    string    `json:"village"`
	Group      string    `json:"group"`
	Occupation string    `json:"occupation"`
	JoinDate   time.Time `json:"join_date"`
}

// PublicMembers handles GET /api/public/members: the active member
// directory.
func (h *Handler) PublicMembers(w http.ResponseWriter, r *http.Request) {
	h.cachedList(w, r, cacheKeyMembers, func(ctx context.Context) any {
		members := h.data.GetAllMembers(ctx)
		views := make([]memberView, 0, len(members))
		for _, m := range members {
			if !m.IsActive || m.Status != model.MemberActive {
				continue
			}
			views = append(views, memberView{
				ID:         m.ID,
				FullName:   m.FullName,
				Village:    m.Village,
				Group:      m.Group,
				Occupation: m.Occupation,
				JoinDate:   m.JoinDate,
			})
		}
		return views
	})
}

// financeView is the public finance report: public transactions plus
// the balance computed over ALL transactions, so hiding a voucher never
// skews the published balance.
type financeView struct {
	Transactions []model.FinanceTransaction `json:"transactions"`
	TotalIncome  int64                      `json:"total_income"`
	TotalExpense int64                      `json:"total_expense"`
	Balance      int64                      `json:"balance"`
}

// PublicFinance handles GET /api/public/finance.
func (h *Handler) PublicFinance(w http.ResponseWriter, r *http.Request) {
	h.cachedList(w, r, cacheKeyFinance, func(ctx context.Context) any {
		all := h.data.GetAllFinance(ctx)
		public := make([]model.FinanceTransaction, 0, len(all))
		for _, t := range all {
			if t.Visibility == model.VisibilityPublic {
				public = append(public, t)
			}
		}
		return financeView{
			Transactions: public,
			TotalIncome:  model.SumIncome(all),
			TotalExpense: model.SumExpense(all),
			Balance:      model.NetBalance(all),
		}
	})
}

// PublicStats handles GET /api/public/stats.
func (h *Handler) PublicStats(w http.ResponseWriter, r *http.Request) {
	stats := h.visits.GetStats(r.Context())
	WriteSuccess(w, map[string]any{
		"total_visits": stats.TotalVisits,
	}, nil)
}

// contactRequest is the public contact form payload.
type contactRequest struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Subject  string `json:"subject"`
	Content  string `json:"content"`
}

// PublicContact handles POST /api/public/contact.
func (h *Handler) PublicContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	fieldErrors := map[string]string{}
	if strings.TrimSpace(req.FullName) == "" {
		fieldErrors["full_name"] = "Full name is required"
	}
	if strings.TrimSpace(req.Content) == "" {
		fieldErrors["content"] = "Message content is required"
	}
	if len(fieldErrors) > 0 {
		WriteValidationError(w, fieldErrors)
		return
	}

	msg, err := h.data.AddContactMessage(r.Context(), model.ContactMessage{
		FullName: strings.TrimSpace(req.FullName),
		Phone:    strings.TrimSpace(req.Phone),
		Email:    strings.TrimSpace(req.Email),
		Subject:  strings.TrimSpace(req.Subject),
		Content:  req.Content,
		SentDate: time.Now().UTC(),
	})
	if err != nil {
		WriteInternalError(w, "Failed to save message")
		return
	}

	WriteCreated(w, msg)
}

// memberRegisterRequest is the public self-registration payload.
type memberRegisterRequest struct {
	FullName   string `json:"full_name"`
	Village    string `json:"village"`
	Group      string `json:"group"`
	Occupation string `json:"occupation"`
	Phone      string `json:"phone"`
}

// PublicMemberRegister handles POST /api/public/members/register. The
// new member always starts pending; an admin approves it later.
func (h *Handler) PublicMemberRegister(w http.ResponseWriter, r *http.Request) {
	var req memberRegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	if strings.TrimSpace(req.FullName) == "" {
		WriteValidationError(w, map[string]string{"full_name": "Full name is required"})
		return
	}

	member := model.NewPendingMember(
		strings.TrimSpace(req.FullName),
		strings.TrimSpace(req.Village),
		strings.TrimSpace(req.Group),
		strings.TrimSpace(req.Occupation),
		strings.TrimSpace(req.Phone),
		time.Now().UTC(),
	)

	added, err := h.data.AddMember(r.Context(), member)
	if err != nil {
		WriteInternalError(w, "Failed to register member")
		return
	}

	h.invalidatePublicCache(r.Context())
	WriteCreated(w, added)
}

// eventRegisterRequest is the public event registration payload.
type eventRegisterRequest struct {
	FullName          string `json:"full_name"`
	Phone             string `json:"phone"`
	NumberOfAttendees int    `json:"number_of_attendees"`
	Note              string `json:"note"`
}

// PublicEventRegister handles POST /api/public/events/{id}/register.
func (h *Handler) PublicEventRegister(w http.ResponseWriter, r *http.Request) {
	eventID, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid event ID", nil)
		return
	}

	var req eventRegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	fieldErrors := map[string]string{}
	if strings.TrimSpace(req.FullName) == "" {
		fieldErrors["full_name"] = "Full name is required"
	}
	if req.NumberOfAttendees < 1 {
		fieldErrors["number_of_attendees"] = "At least one attendee is required"
	}
	if len(fieldErrors) > 0 {
		WriteValidationError(w, fieldErrors)
		return
	}

	exists := false
	for _, e := range h.data.GetAllEvents(r.Context()) {
		if e.ID == eventID && e.IsPublic() {
			exists = true
			break
		}
	}
	if !exists {
		WriteNotFound(w, "Event not found")
		return
	}

	regs := h.data.GetAllRegistrations(r.Context())
	reg := model.EventRegistration{
		ID:                service.NextID(regs, func(r model.EventRegistration) int64 { return r.ID }),
		EventID:           eventID,
		FullName:          strings.TrimSpace(req.FullName),
		Phone:             strings.TrimSpace(req.Phone),
		NumberOfAttendees: req.NumberOfAttendees,
		Note:              strings.TrimSpace(req.Note),
		RegistrationDate:  time.Now().UTC(),
	}
	regs = append(regs, reg)

	if err := h.data.SaveRegistrations(r.Context(), regs); err != nil {
		WriteInternalError(w, "Failed to save registration")
		return
	}

	WriteCreated(w, reg)
}

// cachedList serves a public list endpoint through the response cache.
// Cache failures fall through to a fresh build; the cache is an
// optimization, never a dependency.
func (h *Handler) cachedList(w http.ResponseWriter, r *http.Request, key string, build func(context.Context) any) {
	if cached, err := h.cache.Get(r.Context(), key); err == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(cached)
		return
	}

	data := build(r.Context())
	body, err := json.Marshal(Response{Data: data})
	if err != nil {
		WriteInternalError(w, "Failed to encode response")
		return
	}

	_ = h.cache.Set(r.Context(), key, body, 0)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// invalidatePublicCache drops every cached public list.
func (h *Handler) invalidatePublicCache(ctx context.Context) {
	_ = h.cache.DeleteByPrefix(ctx, cachePrefixPublic)
}
