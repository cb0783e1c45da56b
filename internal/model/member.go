// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Member statuses.
const (
	MemberActive   = "active"
	MemberPending  = "pending"
	MemberInactive = "inactive"
)

// Member represents an association member.
type Member struct {
	ID         int64     `json:"id"`
	FullName   string    `json:"full_name"`
	Village    string    `json:"village"`
	Group      string    `json:"group"`
	Occupation string    `json:"occupation"`
	Phone      string    `json:"phone"`
	JoinDate   time.Time `json:"join_date"`
	IsActive   bool      `json:"is_active"`
	Status     string    `json:"status"`
}

// NewPendingMember builds a self-registration record. Self-registered
// members always start pending and inactive until an admin approves them.
func NewPendingMember(fullName, village, group, occupation, phone string, joinDate time.Time) Member {
	return Member{
		FullName:   fullName,
		Village:    village,
		Group:      group,
		Occupation: occupation,
		Phone:      phone,
		JoinDate:   joinDate,
		IsActive:   false,
		Status:     MemberPending,
	}
}
