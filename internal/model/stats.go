// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// DayFormat is the bucket key layout for daily visit counts: a UTC
// calendar date.
const DayFormat = "2006-01-02"

// SiteStats is the singleton site statistics record: a running total of
// visits plus a day-keyed histogram. Exactly one live instance exists.
type SiteStats struct {
	TotalVisits int64            `json:"total_visits"`
	DailyVisits map[string]int64 `json:"daily_visits"`
}

// Today returns the current UTC calendar day in bucket-key form.
func Today(now time.Time) string {
	return now.UTC().Format(DayFormat)
}
