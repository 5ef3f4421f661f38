// Package authroles maps identity-provider groups onto application roles.
package authroles

import (
	"slices"
	"strings"

	domainauth "github.com/medexjob/medexjob-api/internal/domain/auth"
)

// StaticRoleMapper grants admin, then employer, by group membership.
// Group names compare case-insensitively; an empty group name never matches.
type StaticRoleMapper struct {
	AdminGroup    string
	EmployerGroup string
}

func (m StaticRoleMapper) Map(groups []string) domainauth.Role {
	switch {
	case memberOf(groups, m.AdminGroup):
		return domainauth.RoleAdmin
	case memberOf(groups, m.EmployerGroup):
		return domainauth.RoleEmployer
	default:
		return domainauth.RoleCandidate
	}
}

func memberOf(groups []string, group string) bool {
	if group == "" {
		return false
	}
	return slices.ContainsFunc(groups, func(g string) bool {
		return strings.EqualFold(strings.TrimSpace(g), group)
	})
}
