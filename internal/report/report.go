// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package report renders printable PDF documents from domain records:
// the finance ledger and the event participant roster. Rendering is
// pure and reentrant; any number of concurrent calls may run in
// parallel.
package report

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/vanlocweb/vanloc-go/internal/model"
)

const (
	headerOrgName  = "HỘI ĐỒNG HƯƠNG VẠN LỘC"
	headerOrgUnit  = "Ban Chấp hành - Ban Tài chính"
	ledgerDocTitle = "BÁO CÁO TÀI CHÍNH"
	rosterDocTitle = "DANH SÁCH ĐĂNG KÝ THAM GIA"

	fallbackFont = "Helvetica"
	reportFont   = "report"

	pageBreakY = 265.0 // column header is re-drawn past this point
)

// Renderer produces PDF documents. The zero value renders with the
// built-in core font; use NewRenderer to register a Unicode font file.
type Renderer struct {
	fontPath string
	now      func() time.Time
}

// NewRenderer creates a Renderer. fontPath names a TTF file with
// Vietnamese glyph coverage; when the file is missing or empty the
// renderer falls back to the built-in core font rather than failing.
func NewRenderer(fontPath string) *Renderer {
	r := &Renderer{now: time.Now}
	if fontPath != "" {
		if _, err := os.Stat(fontPath); err == nil {
			r.fontPath = fontPath
		}
	}
	return r
}

// newDoc creates a page-configured document and returns it with the
// registered font family name.
func (r *Renderer) newDoc(marginMM float64) (*fpdf.Fpdf, string) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginMM, marginMM, marginMM)
	pdf.SetAutoPageBreak(true, marginMM)

	family := fallbackFont
	if r.fontPath != "" {
		pdf.AddUTF8Font(reportFont, "", r.fontPath)
		pdf.AddUTF8Font(reportFont, "B", r.fontPath)
		pdf.AddUTF8Font(reportFont, "I", r.fontPath)
		if pdf.Err() {
			// Font registration failed; keep generating with the core font.
			pdf.ClearError()
		} else {
			family = reportFont
		}
	}
	return pdf, family
}

// RenderFinanceLedger renders the finance report: one numbered row per
// transaction in the order supplied (the renderer does not sort), and a
// totals footer summed over the full input regardless of pagination.
func (r *Renderer) RenderFinanceLedger(transactions []model.FinanceTransaction, title string) ([]byte, error) {
	pdf, family := r.newDoc(10)
	pdf.AliasNbPages("")

	pdf.SetHeaderFunc(func() {
		pdf.SetFont(family, "B", 16)
		pdf.SetTextColor(0, 90, 170)
		pdf.CellFormat(120, 7, headerOrgName, "", 0, "L", false, 0, "")
		pdf.SetFont(family, "", 10)
		pdf.SetTextColor(0, 0, 0)
		pdf.CellFormat(70, 7, r.now().Format("02/01/2006 15:04"), "", 1, "R", false, 0, "")
		pdf.SetFont(family, "I", 10)
		pdf.CellFormat(120, 6, headerOrgUnit, "", 0, "L", false, 0, "")
		pdf.SetFont(family, "B", 14)
		pdf.CellFormat(70, 6, ledgerDocTitle, "", 1, "R", false, 0, "")
		pdf.Ln(4)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont(family, "", 9)
		pdf.CellFormat(0, 8, fmt.Sprintf("Trang %d / {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()

	pdf.SetFont(family, "B", 14)
	pdf.CellFormat(0, 8, title, "", 1, "C", false, 0, "")
	pdf.Ln(3)

	drawHeader := func() {
		pdf.SetFont(family, "B", 11)
		pdf.CellFormat(12, 8, "STT", "B", 0, "L", false, 0, "")
		pdf.CellFormat(25, 8, "Ngày", "B", 0, "L", false, 0, "")
		pdf.CellFormat(95, 8, "Nội dung", "B", 0, "L", false, 0, "")
		pdf.CellFormat(18, 8, "Loại", "B", 0, "L", false, 0, "")
		pdf.CellFormat(40, 8, "Số tiền", "B", 1, "R", false, 0, "")
	}
	drawHeader()

	pdf.SetFont(family, "", 11)
	for i, t := range transactions {
		if pdf.GetY() > pageBreakY {
			pdf.AddPage()
			drawHeader()
			pdf.SetFont(family, "", 11)
		}
		pdf.CellFormat(12, 7, fmt.Sprintf("%d", i+1), "B", 0, "L", false, 0, "")
		pdf.CellFormat(25, 7, t.Date.Format("02/01/2006"), "B", 0, "L", false, 0, "")
		pdf.CellFormat(95, 7, t.Description, "B", 0, "L", false, 0, "")
		pdf.CellFormat(18, 7, KindLabel(t.Kind), "B", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, FormatAmount(t.Amount), "B", 1, "R", false, 0, "")
	}

	// Totals are computed over the entire input list, not the last page.
	income := model.SumIncome(transactions)
	expense := model.SumExpense(transactions)

	pdf.Ln(8)
	pdf.SetFont(family, "B", 11)
	pdf.SetTextColor(0, 130, 60)
	pdf.CellFormat(0, 6, "Tổng thu: "+FormatAmount(income), "", 1, "R", false, 0, "")
	pdf.SetTextColor(190, 30, 30)
	pdf.CellFormat(0, 6, "Tổng chi: "+FormatAmount(expense), "", 1, "R", false, 0, "")
	pdf.SetFont(family, "B", 12)
	pdf.SetTextColor(0, 90, 170)
	pdf.CellFormat(0, 7, "Số dư: "+FormatAmount(income-expense), "", 1, "R", false, 0, "")

	return output(pdf)
}

// RenderParticipantRoster renders the registration list for one event.
// The note column is always a string, empty when absent.
func (r *Renderer) RenderParticipantRoster(registrations []model.EventRegistration, eventTitle string) ([]byte, error) {
	pdf, family := r.newDoc(20)

	pdf.SetHeaderFunc(func() {
		pdf.SetFont(family, "B", 20)
		pdf.SetTextColor(0, 90, 170)
		pdf.CellFormat(0, 10, rosterDocTitle, "", 1, "L", false, 0, "")
		pdf.SetFont(family, "", 14)
		pdf.SetTextColor(0, 0, 0)
		pdf.CellFormat(0, 8, eventTitle, "", 1, "L", false, 0, "")
		pdf.Ln(6)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(family, "", 9)
		pdf.CellFormat(0, 8, fmt.Sprintf("Trang %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()

	drawHeader := func() {
		pdf.SetFont(family, "B", 11)
		pdf.CellFormat(12, 8, "#", "B", 0, "L", false, 0, "")
		pdf.CellFormat(55, 8, "Họ và tên", "B", 0, "L", false, 0, "")
		pdf.CellFormat(40, 8, "Số điện thoại", "B", 0, "L", false, 0, "")
		pdf.CellFormat(25, 8, "Số người", "B", 0, "L", false, 0, "")
		pdf.CellFormat(38, 8, "Ghi chú", "B", 1, "L", false, 0, "")
	}
	drawHeader()

	pdf.SetFont(family, "", 11)
	for _, reg := range registrations {
		if pdf.GetY() > pageBreakY-15 {
			pdf.AddPage()
			drawHeader()
			pdf.SetFont(family, "", 11)
		}
		pdf.CellFormat(12, 7, fmt.Sprintf("%d", reg.ID), "B", 0, "L", false, 0, "")
		pdf.CellFormat(55, 7, reg.FullName, "B", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, reg.Phone, "B", 0, "L", false, 0, "")
		pdf.CellFormat(25, 7, fmt.Sprintf("%d", reg.NumberOfAttendees), "B", 0, "L", false, 0, "")
		pdf.CellFormat(38, 7, reg.Note, "B", 1, "L", false, 0, "")
	}

	return output(pdf)
}

func output(pdf *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("generating pdf: %w", err)
	}
	return buf.Bytes(), nil
}
