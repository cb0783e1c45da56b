// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "testing"

func TestFinanceSums(t *testing.T) {
	txs := []FinanceTransaction{
		{ID: 1, Amount: 1000000, Kind: FinanceIncome},
		{ID: 2, Amount: 300000, Kind: FinanceExpense},
		{ID: 3, Amount: 500000, Kind: FinanceIncome},
		{ID: 4, Amount: 200000, Kind: FinanceExpense},
	}

	if got := SumIncome(txs); got != 1500000 {
		t.Errorf("SumIncome = %d, want 1500000", got)
	}
	if got := SumExpense(txs); got != 500000 {
		t.Errorf("SumExpense = %d, want 500000", got)
	}
	if got := NetBalance(txs); got != 1000000 {
		t.Errorf("NetBalance = %d, want 1000000", got)
	}
}

func TestFinanceSumsEmpty(t *testing.T) {
	if got := NetBalance(nil); got != 0 {
		t.Errorf("NetBalance(nil) = %d, want 0", got)
	}
}

func TestNetBalanceCanGoNegative(t *testing.T) {
	txs := []FinanceTransaction{
		{ID: 1, Amount: 100, Kind: FinanceIncome},
		{ID: 2, Amount: 500, Kind: FinanceExpense},
	}
	if got := NetBalance(txs); got != -400 {
		t.Errorf("NetBalance = %d, want -400", got)
	}
}
