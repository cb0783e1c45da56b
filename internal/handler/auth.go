// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/vanlocweb/vanloc-go/internal/middleware"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /api/admin/login. Invalid credentials always get
// the same response regardless of whether the username exists.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		WriteUnauthorized(w, "Invalid username or password")
		return
	}

	if locked, remaining := h.loginShield.IsAccountLocked(username); locked {
		WriteError(w, http.StatusTooManyRequests, "account_locked",
			fmt.Sprintf("Account locked, try again in %s", remaining.Round(1e9)), nil)
		return
	}

	user := h.data.ValidateCredentials(r.Context(), username, req.Password)
	if user == nil {
		if locked, duration := h.loginShield.RecordFailedAttempt(username); locked {
			slog.Warn("login failed, account locked", "username", username, "duration", duration)
		} else {
			slog.Warn("login failed", "username", username, "remote_addr", r.RemoteAddr)
		}
		WriteUnauthorized(w, "Invalid username or password")
		return
	}

	h.loginShield.RecordSuccessfulLogin(username)

	// Renew the token on privilege change to prevent session fixation
	if err := h.sessions.RenewToken(r.Context()); err != nil {
		WriteInternalError(w, "Failed to create session")
		return
	}
	h.sessions.Put(r.Context(), middleware.SessionKeyUserID, user.ID)

	slog.Info("admin logged in", "user_id", user.ID, "username", user.Username)
	WriteSuccess(w, user, nil)
}

// Logout handles POST /api/admin/logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Destroy(r.Context()); err != nil {
		WriteInternalError(w, "Failed to destroy session")
		return
	}
	WriteSuccess(w, map[string]string{"status": "logged_out"}, nil)
}

// Me handles GET /api/admin/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteUnauthorized(w, "Not authenticated")
		return
	}
	WriteSuccess(w, user, nil)
}
