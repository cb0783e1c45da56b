// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/vanlocweb/vanloc-go/internal/model"
	"github.com/vanlocweb/vanloc-go/internal/util"
)

const defaultLedgerTitle = "Báo cáo tổng hợp thu chi"

// FinanceReport handles GET /api/admin/reports/finance. The response
// is the rendered ledger PDF over every transaction, oldest first.
func (h *Handler) FinanceReport(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")
	if title == "" {
		title = defaultLedgerTitle
	}

	transactions := h.data.GetAllFinance(r.Context())
	sort.Slice(transactions, func(i, j int) bool {
		return transactions[i].Date.Before(transactions[j].Date)
	})

	pdf, err := h.reports.RenderFinanceLedger(transactions, title)
	if err != nil {
		WriteInternalError(w, "Failed to render report")
		return
	}

	writePDF(w, pdf, fmt.Sprintf("bao-cao-tai-chinh-%s.pdf", time.Now().Format("2006-01-02")))
}

// EventRoster handles GET /api/admin/reports/events/{id}/roster:
// the registration list PDF for one event.
func (h *Handler) EventRoster(w http.ResponseWriter, r *http.Request) {
	eventID, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid event ID", nil)
		return
	}

	var event *model.EventItem
	for _, e := range h.data.GetAllEvents(r.Context()) {
		if e.ID == eventID {
			event = &e
			break
		}
	}
	if event == nil {
		WriteNotFound(w, "Event not found")
		return
	}

	var regs []model.EventRegistration
	for _, reg := range h.data.GetAllRegistrations(r.Context()) {
		if reg.EventID == eventID {
			regs = append(regs, reg)
		}
	}
	sort.Slice(regs, func(i, j int) bool {
		return regs[i].RegistrationDate.Before(regs[j].RegistrationDate)
	})

	pdf, err := h.reports.RenderParticipantRoster(regs, event.Title)
	if err != nil {
		WriteInternalError(w, "Failed to render roster")
		return
	}

	name := util.Slugify(event.Title)
	if name == "" {
		name = fmt.Sprintf("event-%d", eventID)
	}
	writePDF(w, pdf, fmt.Sprintf("danh-sach-%s.pdf", name))
}

func writePDF(w http.ResponseWriter, pdf []byte, filename string) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(pdf)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}
