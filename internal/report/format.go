// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package report

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/vanlocweb/vanloc-go/internal/model"
)

var amountPrinter = message.NewPrinter(language.Vietnamese)

// FormatAmount renders a whole-VND amount with Vietnamese thousands
// grouping and the currency suffix, e.g. 1234567 -> "1.234.567đ".
// No decimal places.
func FormatAmount(amount int64) string {
	return amountPrinter.Sprintf("%d", amount) + "đ"
}

// KindLabel maps a transaction kind to its printed label.
func KindLabel(kind string) string {
	if kind == model.FinanceIncome {
		return "Thu"
	}
	return "Chi"
}
