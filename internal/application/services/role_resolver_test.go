package services

import (
	"context"
	"testing"

	"github.com/medilink-plus/coordination-api/internal/domain/entities"
)

func TestRoleResolver_Resolve(t *testing.T) {
	resolver := NewRoleResolver([]string{"boss@medilink.example.com"})

	tests := []struct {
		name    string
		profile *entities.Profile
		want    entities.Role
	}{
		{
			name:    "explicit profile role wins",
			profile: &entities.Profile{Email: "a@example.com", Role: entities.RoleInterpreter},
			want:    entities.RoleInterpreter,
		},
		{
			name: "profile role beats metadata role",
			profile: &entities.Profile{
				Email: "a@example.com", Role: entities.RoleAdmin, MetadataRole: entities.RoleUser,
			},
			want: entities.RoleAdmin,
		},
		{
			name:    "metadata role used when profile role missing",
			profile: &entities.Profile{Email: "a@example.com", MetadataRole: entities.RoleInterpreter},
			want:    entities.RoleInterpreter,
		},
		{
			name:    "allowlisted email resolves to admin",
			profile: &entities.Profile{Email: "boss@medilink.example.com"},
			want:    entities.RoleAdmin,
		},
		{
			name:    "allowlist match is case-insensitive",
			profile: &entities.Profile{Email: "Boss@MediLink.example.com"},
			want:    entities.RoleAdmin,
		},
		{
			name:    "profile role beats allowlist",
			profile: &entities.Profile{Email: "boss@medilink.example.com", Role: entities.RoleUser},
			want:    entities.RoleUser,
		},
		{
			name:    "no signal defaults to patient",
			profile: &entities.Profile{Email: "nobody@example.com"},
			want:    entities.RoleUser,
		},
		{
			name:    "garbage roles are ignored",
			profile: &entities.Profile{Email: "a@example.com", Role: "superuser", MetadataRole: "root"},
			want:    entities.RoleUser,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolver.Resolve(context.Background(), tt.profile); got != tt.want {
				t.Errorf("Resolve() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRoleResolver_EmptyAllowlist(t *testing.T) {
	resolver := NewRoleResolver(nil)

	got := resolver.Resolve(context.Background(), &entities.Profile{Email: "anyone@example.com"})
	if got != entities.RoleUser {
		t.Errorf("Resolve() = %q, want %q", got, entities.RoleUser)
	}
}
