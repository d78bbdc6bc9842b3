package services

import (
	"context"
	"strings"

	"github.com/medilink-plus/coordination-api/internal/domain/entities"
)

// RoleStrategy inspects a profile and optionally yields a role. Strategies
// run in order; the first hit wins.
type RoleStrategy func(profile *entities.Profile) (entities.Role, bool)

// RoleResolver resolves an actor's role server-side from their profile.
// The fallback order is fixed: explicit profile role, then the identity
// provider's metadata claim, then the admin email allowlist, then the
// default patient role.
type RoleResolver struct {
	strategies []RoleStrategy
}

// NewRoleResolver creates a resolver with the standard strategy chain
func NewRoleResolver(adminEmails []string) *RoleResolver {
	allowlist := make(map[string]struct{}, len(adminEmails))
	for _, email := range adminEmails {
		allowlist[strings.ToLower(email)] = struct{}{}
	}

	return &RoleResolver{
		strategies: []RoleStrategy{
			profileRole,
			metadataRole,
			adminAllowlistRole(allowlist),
		},
	}
}

// Resolve returns the profile's effective role. A profile that matches no
// strategy is a patient.
func (r *RoleResolver) Resolve(_ context.Context, profile *entities.Profile) entities.Role {
	for _, strategy := range r.strategies {
		if role, ok := strategy(profile); ok {
			return role
		}
	}
	return entities.RoleUser
}

func profileRole(profile *entities.Profile) (entities.Role, bool) {
	if profile.Role.IsValid() {
		return profile.Role, true
	}
	return "", false
}

func metadataRole(profile *entities.Profile) (entities.Role, bool) {
	if profile.MetadataRole.IsValid() {
		return profile.MetadataRole, true
	}
	return "", false
}

func adminAllowlistRole(allowlist map[string]struct{}) RoleStrategy {
	return func(profile *entities.Profile) (entities.Role, bool) {
		if _, ok := allowlist[strings.ToLower(profile.Email)]; ok {
			return entities.RoleAdmin, true
		}
		return "", false
	}
}
