// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain records and types used throughout the
// application: admin identities, news, events, members, finance
// transactions and site statistics.
package model

// Admin roles.
const (
	RoleSuperAdmin     = "superadmin"
	RoleContentManager = "content"
	RoleMemberManager  = "member"
	RoleFinanceManager = "finance"
)

// AdminUser represents an administrator identity. The role is declared
// on the record but authorization is enforced by an external collaborator.
type AdminUser struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"` // Never expose in JSON
	FullName     string `json:"full_name"`
	Role         string `json:"role"`
}

// IsSuperAdmin returns true if the user has the superadmin role.
func (u *AdminUser) IsSuperAdmin() bool {
	return u.Role == RoleSuperAdmin
}
