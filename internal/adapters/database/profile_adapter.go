package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/medilink-plus/coordination-api/internal/domain/entities"
	"github.com/medilink-plus/coordination-api/internal/domain/repositories"
	"github.com/medilink-plus/coordination-api/internal/infrastructure/clients/postgres"
	apperrors "github.com/medilink-plus/coordination-api/pkg/errors"
)

var profileColumns = []interface{}{
	"id", "email", "full_name", "phone", "role", "metadata_role",
	"password_hash", "created_at", "updated_at",
}

// ProfileAdapter implements the ProfileRepository interface
type ProfileAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewProfileAdapter creates a new profile adapter
func NewProfileAdapter(client *postgres.Client) repositories.ProfileRepository {
	return &ProfileAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new profile
func (a *ProfileAdapter) Create(ctx context.Context, profile *entities.Profile) error {
	query, args, err := a.db.Insert("profiles").Rows(goqu.Record{
		"id":            profile.ID,
		"email":         profile.Email,
		"full_name":     profile.FullName,
		"phone":         profile.Phone,
		"role":          profile.Role,
		"metadata_role": profile.MetadataRole,
		"password_hash": profile.PasswordHash,
		"created_at":    profile.CreatedAt,
		"updated_at":    profile.UpdatedAt,
	}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create profile", err)
	}

	return nil
}

// GetByID retrieves a profile by ID
func (a *ProfileAdapter) GetByID(ctx context.Context, id string) (*entities.Profile, error) {
	return a.getOne(ctx, goqu.Ex{"id": id}, fmt.Sprintf("profile with id %s not found", id))
}

// GetByEmail retrieves a profile by email
func (a *ProfileAdapter) GetByEmail(ctx context.Context, email string) (*entities.Profile, error) {
	return a.getOne(ctx, goqu.Ex{"email": email}, fmt.Sprintf("profile with email %s not found", email))
}

// UpdateRole sets the profile role
func (a *ProfileAdapter) UpdateRole(ctx context.Context, id string, role entities.Role) error {
	query, args, err := a.db.Update("profiles").
		Set(goqu.Record{"role": role, "updated_at": time.Now()}).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update profile role", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("profile with id %s not found", id))
	}

	return nil
}

func (a *ProfileAdapter) getOne(ctx context.Context, where goqu.Ex, notFoundMsg string) (*entities.Profile, error) {
	query, args, err := a.db.Select(profileColumns...).
		From("profiles").
		Where(where).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	profile := &entities.Profile{}
	var fullName, phone, role, metadataRole, passwordHash sql.NullString

	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&profile.ID,
		&profile.Email,
		&fullName,
		&phone,
		&role,
		&metadataRole,
		&passwordHash,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(notFoundMsg)
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get profile", err)
	}

	profile.FullName = fullName.String
	profile.Phone = phone.String
	profile.Role = entities.Role(role.String)
	profile.MetadataRole = entities.Role(metadataRole.String)
	profile.PasswordHash = passwordHash.String

	return profile, nil
}
