// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/vanlocweb/vanloc-go/internal/auth"
	"github.com/vanlocweb/vanloc-go/internal/model"
	"github.com/vanlocweb/vanloc-go/internal/service"
)

// Dashboard handles GET /api/admin/dashboard.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats := h.visits.GetStats(r.Context())
	WriteSuccess(w, h.data.GetDashboard(r.Context(), stats), nil)
}

// collection binds one record type to its façade accessors so every
// admin CRUD route shares the same read-mutate-replace cycle.
type collection[T any] struct {
	name  string
	list  func(context.Context) []T
	save  func(context.Context, []T) error
	id    func(T) int64
	setID func(*T, int64)
}

// listAll writes the full collection, internal records included.
func listAll[T any](h *Handler, c collection[T], w http.ResponseWriter, r *http.Request) {
	items := c.list(r.Context())
	WriteSuccess(w, items, &Meta{Total: len(items)})
}

// createItem assigns the next identifier, appends and replaces.
func createItem[T any](h *Handler, c collection[T], w http.ResponseWriter, r *http.Request) {
	var item T
	if err := decodeJSON(r, &item); err != nil {
		WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	items := c.list(r.Context())
	c.setID(&item, service.NextID(items, c.id))
	items = append(items, item)

	if err := c.save(r.Context(), items); err != nil {
		WriteInternalError(w, "Failed to save "+c.name)
		return
	}

	h.invalidatePublicCache(r.Context())
	WriteCreated(w, item)
}

// updateItem replaces the record with the matching identifier.
func updateItem[T any](h *Handler, c collection[T], w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid "+c.name+" ID", nil)
		return
	}

	var item T
	if err := decodeJSON(r, &item); err != nil {
		WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	c.setID(&item, id)

	items := c.list(r.Context())
	found := false
	for i := range items {
		if c.id(items[i]) == id {
			items[i] = item
			found = true
			break
		}
	}
	if !found {
		WriteNotFound(w, "Record not found")
		return
	}

	if err := c.save(r.Context(), items); err != nil {
		WriteInternalError(w, "Failed to save "+c.name)
		return
	}

	h.invalidatePublicCache(r.Context())
	WriteSuccess(w, item, nil)
}

// deleteItem removes the record with the matching identifier.
func deleteItem[T any](h *Handler, c collection[T], w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid "+c.name+" ID", nil)
		return
	}

	items := c.list(r.Context())
	kept := make([]T, 0, len(items))
	found := false
	for _, item := range items {
		if c.id(item) == id {
			found = true
			continue
		}
		kept = append(kept, item)
	}
	if !found {
		WriteNotFound(w, "Record not found")
		return
	}

	if err := c.save(r.Context(), kept); err != nil {
		WriteInternalError(w, "Failed to save "+c.name)
		return
	}

	h.invalidatePublicCache(r.Context())
	WriteSuccess(w, map[string]any{"deleted": id}, nil)
}

func (h *Handler) newsCollection() collection[model.NewsItem] {
	return collection[model.NewsItem]{
		name:  "news",
		list:  h.data.GetAllNews,
		save:  h.data.SaveNews,
		id:    func(n model.NewsItem) int64 { return n.ID },
		setID: func(n *model.NewsItem, id int64) { n.ID = id },
	}
}

func (h *Handler) eventsCollection() collection[model.EventItem] {
	return collection[model.EventItem]{
		name:  "events",
		list:  h.data.GetAllEvents,
		save:  h.data.SaveEvents,
		id:    func(e model.EventItem) int64 { return e.ID },
		setID: func(e *model.EventItem, id int64) { e.ID = id },
	}
}

func (h *Handler) financeCollection() collection[model.FinanceTransaction] {
	return collection[model.FinanceTransaction]{
		name:  "finance",
		list:  h.data.GetAllFinance,
		save:  h.data.SaveFinance,
		id:    func(t model.FinanceTransaction) int64 { return t.ID },
		setID: func(t *model.FinanceTransaction, id int64) { t.ID = id },
	}
}

func (h *Handler) membersCollection() collection[model.Member] {
	return collection[model.Member]{
		name:  "members",
		list:  h.data.GetAllMembers,
		save:  h.data.SaveMembers,
		id:    func(m model.Member) int64 { return m.ID },
		setID: func(m *model.Member, id int64) { m.ID = id },
	}
}

func (h *Handler) registrationsCollection() collection[model.EventRegistration] {
	return collection[model.EventRegistration]{
		name:  "registrations",
		list:  h.data.GetAllRegistrations,
		save:  h.data.SaveRegistrations,
		id:    func(r model.EventRegistration) int64 { return r.ID },
		setID: func(r *model.EventRegistration, id int64) { r.ID = id },
	}
}

func (h *Handler) mediaCollection() collection[model.MediaItem] {
	return collection[model.MediaItem]{
		name:  "media",
		list:  h.data.GetAllMedia,
		save:  h.data.SaveMedia,
		id:    func(m model.MediaItem) int64 { return m.ID },
		setID: func(m *model.MediaItem, id int64) { m.ID = id },
	}
}

func (h *Handler) messagesCollection() collection[model.ContactMessage] {
	return collection[model.ContactMessage]{
		name:  "messages",
		list:  h.data.GetAllMessages,
		save:  h.data.SaveMessages,
		id:    func(m model.ContactMessage) int64 { return m.ID },
		setID: func(m *model.ContactMessage, id int64) { m.ID = id },
	}
}

// News CRUD

func (h *Handler) AdminListNews(w http.ResponseWriter, r *http.Request) {
	listAll(h, h.newsCollection(), w, r)
}
func (h *Handler) AdminCreateNews(w http.ResponseWriter, r *http.Request) {
	createItem(h, h.newsCollection(), w, r)
}
func (h *Handler) AdminUpdateNews(w http.ResponseWriter, r *http.Request) {
	updateItem(h, h.newsCollection(), w, r)
}
func (h *Handler) AdminDeleteNews(w http.ResponseWriter, r *http.Request) {
	deleteItem(h, h.newsCollection(), w, r)
}

// Events CRUD

func (h *Handler) AdminListEvents(w http.ResponseWriter, r *http.Request) {
	listAll(h, h.eventsCollection(), w, r)
}
func (h *Handler) AdminCreateEvent(w http.ResponseWriter, r *http.Request) {
	createItem(h, h.eventsCollection(), w, r)
}
func (h *Handler) AdminUpdateEvent(w http.ResponseWriter, r *http.Request) {
	updateItem(h, h.eventsCollection(), w, r)
}
func (h *Handler) AdminDeleteEvent(w http.ResponseWriter, r *http.Request) {
	deleteItem(h, h.eventsCollection(), w, r)
}

// Finance CRUD

func (h *Handler) AdminListFinance(w http.ResponseWriter, r *http.Request) {
	listAll(h, h.financeCollection(), w, r)
}
func (h *Handler) AdminCreateFinance(w http.ResponseWriter, r *http.Request) {
	createItem(h, h.financeCollection(), w, r)
}
func (h *Handler) AdminUpdateFinance(w http.ResponseWriter, r *http.Request) {
	updateItem(h, h.financeCollection(), w, r)
}
func (h *Handler) AdminDeleteFinance(w http.ResponseWriter, r *http.Request) {
	deleteItem(h, h.financeCollection(), w, r)
}

// Members CRUD

func (h *Handler) AdminListMembers(w http.ResponseWriter, r *http.Request) {
	listAll(h, h.membersCollection(), w, r)
}
func (h *Handler) AdminCreateMember(w http.ResponseWriter, r *http.Request) {
	createItem(h, h.membersCollection(), w, r)
}
func (h *Handler) AdminUpdateMember(w http.ResponseWriter, r *http.Request) {
	updateItem(h, h.membersCollection(), w, r)
}
func (h *Handler) AdminDeleteMember(w http.ResponseWriter, r *http.Request) {
	deleteItem(h, h.membersCollection(), w, r)
}

// AdminApproveMember handles POST /api/admin/members/{id}/approve:
// a pending self-registration becomes an active member.
func (h *Handler) AdminApproveMember(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid member ID", nil)
		return
	}

	members := h.data.GetAllMembers(r.Context())
	var approved *model.Member
	for i := range members {
		if members[i].ID == id {
			members[i].Status = model.MemberActive
			members[i].IsActive = true
			approved = &members[i]
			break
		}
	}
	if approved == nil {
		WriteNotFound(w, "Member not found")
		return
	}

	if err := h.data.SaveMembers(r.Context(), members); err != nil {
		WriteInternalError(w, "Failed to save members")
		return
	}

	h.invalidatePublicCache(r.Context())
	WriteSuccess(w, approved, nil)
}

// Registrations

func (h *Handler) AdminListRegistrations(w http.ResponseWriter, r *http.Request) {
	listAll(h, h.registrationsCollection(), w, r)
}
func (h *Handler) AdminDeleteRegistration(w http.ResponseWriter, r *http.Request) {
	deleteItem(h, h.registrationsCollection(), w, r)
}

// Media CRUD

func (h *Handler) AdminListMedia(w http.ResponseWriter, r *http.Request) {
	listAll(h, h.mediaCollection(), w, r)
}
func (h *Handler) AdminCreateMedia(w http.ResponseWriter, r *http.Request) {
	createItem(h, h.mediaCollection(), w, r)
}
func (h *Handler) AdminUpdateMedia(w http.ResponseWriter, r *http.Request) {
	updateItem(h, h.mediaCollection(), w, r)
}
func (h *Handler) AdminDeleteMedia(w http.ResponseWriter, r *http.Request) {
	deleteItem(h, h.mediaCollection(), w, r)
}

// Messages

func (h *Handler) AdminListMessages(w http.ResponseWriter, r *http.Request) {
	listAll(h, h.messagesCollection(), w, r)
}
func (h *Handler) AdminDeleteMessage(w http.ResponseWriter, r *http.Request) {
	deleteItem(h, h.messagesCollection(), w, r)
}

// AdminMarkMessageRead handles POST /api/admin/messages/{id}/read.
func (h *Handler) AdminMarkMessageRead(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid message ID", nil)
		return
	}

	messages := h.data.GetAllMessages(r.Context())
	var marked *model.ContactMessage
	for i := range messages {
		if messages[i].ID == id {
			messages[i].IsRead = true
			marked = &messages[i]
			break
		}
	}
	if marked == nil {
		WriteNotFound(w, "Message not found")
		return
	}

	if err := h.data.SaveMessages(r.Context(), messages); err != nil {
		WriteInternalError(w, "Failed to save messages")
		return
	}

	WriteSuccess(w, marked, nil)
}

// Admin user management (superadmin only)

type adminUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

func validRole(role string) bool {
	switch role {
	case model.RoleSuperAdmin, model.RoleContentManager, model.RoleMemberManager, model.RoleFinanceManager:
		return true
	}
	return false
}

// AdminListUsers handles GET /api/admin/users.
func (h *Handler) AdminListUsers(w http.ResponseWriter, r *http.Request) {
	users := h.data.GetAllAdmins(r.Context())
	WriteSuccess(w, users, &Meta{Total: len(users)})
}

// AdminCreateUser handles POST /api/admin/users.
func (h *Handler) AdminCreateUser(w http.ResponseWriter, r *http.Request) {
	var req adminUserRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	fieldErrors := map[string]string{}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		fieldErrors["username"] = "Username is required"
	}
	if len(req.Password) < 8 {
		fieldErrors["password"] = "Password must be at least 8 characters"
	}
	if !validRole(req.Role) {
		fieldErrors["role"] = "Unknown role"
	}
	if len(fieldErrors) > 0 {
		WriteValidationError(w, fieldErrors)
		return
	}

	users := h.data.GetAllAdmins(r.Context())
	for _, u := range users {
		if u.Username == req.Username {
			WriteValidationError(w, map[string]string{"username": "Username already exists"})
			return
		}
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		WriteInternalError(w, "Failed to hash password")
		return
	}

	user := model.AdminUser{
		ID:           service.NextID(users, func(u model.AdminUser) int64 { return u.ID }),
		Username:     req.Username,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(req.FullName),
		Role:         req.Role,
	}
	users = append(users, user)

	if err := h.data.SaveAdmins(r.Context(), users); err != nil {
		WriteInternalError(w, "Failed to save users")
		return
	}

	WriteCreated(w, user)
}

// AdminUpdateUser handles PUT /api/admin/users/{id}. An empty password
// keeps the stored hash.
func (h *Handler) AdminUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid user ID", nil)
		return
	}

	var req adminUserRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	if !validRole(req.Role) {
		WriteValidationError(w, map[string]string{"role": "Unknown role"})
		return
	}

	users := h.data.GetAllAdmins(r.Context())
	var updated *model.AdminUser
	for i := range users {
		if users[i].ID != id {
			continue
		}
		if req.Username != "" {
			users[i].Username = strings.TrimSpace(req.Username)
		}
		users[i].FullName = strings.TrimSpace(req.FullName)
		users[i].Role = req.Role
		if req.Password != "" {
			if len(req.Password) < 8 {
				WriteValidationError(w, map[string]string{"password": "Password must be at least 8 characters"})
				return
			}
			hash, err := auth.HashPassword(req.Password)
			if err != nil {
				WriteInternalError(w, "Failed to hash password")
				return
			}
			users[i].PasswordHash = hash
		}
		updated = &users[i]
		break
	}
	if updated == nil {
		WriteNotFound(w, "User not found")
		return
	}

	if err := h.data.SaveAdmins(r.Context(), users); err != nil {
		WriteInternalError(w, "Failed to save users")
		return
	}

	WriteSuccess(w, updated, nil)
}

// AdminDeleteUser handles DELETE /api/admin/users/{id}. The last
// superadmin cannot be removed.
func (h *Handler) AdminDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid user ID", nil)
		return
	}

	users := h.data.GetAllAdmins(r.Context())
	kept := make([]model.AdminUser, 0, len(users))
	found := false
	superadmins := 0
	for _, u := range users {
		if u.ID == id {
			found = true
			continue
		}
		if u.IsSuperAdmin() {
			superadmins++
		}
		kept = append(kept, u)
	}
	if !found {
		WriteNotFound(w, "User not found")
		return
	}
	if superadmins == 0 {
		WriteValidationError(w, map[string]string{"id": "Cannot delete the last superadmin"})
		return
	}

	if err := h.data.SaveAdmins(r.Context(), kept); err != nil {
		WriteInternalError(w, "Failed to save users")
		return
	}

	WriteSuccess(w, map[string]any{"deleted": id}, nil)
}
