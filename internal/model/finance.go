// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Finance transaction kinds. Amounts are always stored positive; the
// kind tag carries the sign.
const (
	FinanceIncome  = "income"
	FinanceExpense = "expense"
)

// FinanceTransaction represents a single ledger entry.
type FinanceTransaction struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	Amount      int64     `json:"amount"` // VND, whole units, always >= 0
	Date        time.Time `json:"date"`
	Kind        string    `json:"kind"`
	VoucherURL  string    `json:"voucher_url,omitempty"` // Optional receipt reference
	Visibility  string    `json:"visibility"`
}

// IsIncome returns true for income entries.
func (t *FinanceTransaction) IsIncome() bool {
	return t.Kind == FinanceIncome
}

// SumIncome returns the sum of income amounts over the list.
func SumIncome(txs []FinanceTransaction) int64 {
	var sum int64
	for _, t := range txs {
		if t.Kind == FinanceIncome {
			sum += t.Amount
		}
	}
	return sum
}

// SumExpense returns the sum of expense amounts over the list.
func SumExpense(txs []FinanceTransaction) int64 {
	var sum int64
	for _, t := range txs {
		if t.Kind == FinanceExpense {
			sum += t.Amount
		}
	}
	return sum
}

// NetBalance returns income minus expense over the list.
func NetBalance(txs []FinanceTransaction) int64 {
	return SumIncome(txs) - SumExpense(txs)
}
