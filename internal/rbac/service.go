package rbac

import (
	"sort"
	"strings"
)

// Service answers permission questions for backend roles.
type Service struct {
	grants map[string][]string
}

// NewService constructs a Service using the built-in role table.
func NewService() *Service {
	return &Service{grants: rolePermissions}
}

// EffectivePermissions lists the permissions of role, sorted.
func (s *Service) EffectivePermissions(role string) []string {
	perms := append([]string(nil), s.grants[NormalizeRole(role)]...)
	sort.Strings(perms)
	return perms
}

// Can reports whether role holds perm.
func (s *Service) Can(role, perm string) bool {
	return hasAnyPermission(s.EffectivePermissions(role), normalizePermissions([]string{perm}))
}

func normalizePermissions(perms []string) []string {
	unique := make(map[string]struct{}, len(perms))
	for _, p := range perms {
		p = strings.TrimSpace(strings.ToLower(p))
		if p == "" {
			continue
		}
		unique[p] = struct{}{}
	}
	normalized := make([]string, 0, len(unique))
	for p := range unique {
		normalized = append(normalized, p)
	}
	return normalized
}

func hasAnyPermission(granted []string, required []string) bool {
	if len(required) == 0 {
		return true
	}
	set := make(map[string]struct{}, len(granted))
	for _, p := range granted {
		set[strings.ToLower(p)] = struct{}{}
	}
	for _, r := range required {
		if _, ok := set[r]; ok {
			return true
		}
	}
	return false
}
