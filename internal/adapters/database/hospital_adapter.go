package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/lib/pq"
	"github.com/medilink-plus/coordination-api/internal/domain/entities"
	"github.com/medilink-plus/coordination-api/internal/domain/repositories"
	"github.com/medilink-plus/coordination-api/internal/infrastructure/clients/postgres"
	apperrors "github.com/medilink-plus/coordination-api/pkg/errors"
)

var hospitalColumns = []interface{}{
	"id", "name", "city", "country", "address", "phone_number", "email",
	"specialties", "description", "image_url", "is_active",
	"created_at", "updated_at",
}

// HospitalAdapter implements the HospitalRepository interface
type HospitalAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewHospitalAdapter creates a new hospital adapter
func NewHospitalAdapter(client *postgres.Client) repositories.HospitalRepository {
	return &HospitalAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new hospital
func (a *HospitalAdapter) Create(ctx context.Context, hospital *entities.Hospital) error {
	query, args, err := a.db.Insert("hospitals").Rows(goqu.Record{
		"id":           hospital.ID,
		"name":         hospital.Name,
		"city":         hospital.City,
		"country":      hospital.Country,
		"address":      hospital.Address,
		"phone_number": hospital.PhoneNumber,
		"email":        hospital.Email,
		"specialties":  pq.Array(hospital.Specialties),
		"description":  hospital.Description,
		"image_url":    hospital.ImageURL,
		"is_active":    hospital.IsActive,
		"created_at":   hospital.CreatedAt,
		"updated_at":   hospital.UpdatedAt,
	}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create hospital", err)
	}

	return nil
}

// GetByID retrieves a hospital by ID
func (a *HospitalAdapter) GetByID(ctx context.Context, id string) (*entities.Hospital, error) {
	query, args, err := a.db.Select(hospitalColumns...).
		From("hospitals").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	row := a.client.DB().QueryRowContext(ctx, query, args...)
	hospital, err := scanHospital(row.Scan)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("hospital with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get hospital", err)
	}

	return hospital, nil
}

// Update updates a hospital
func (a *HospitalAdapter) Update(ctx context.Context, hospital *entities.Hospital) error {
	hospital.UpdatedAt = time.Now()

	query, args, err := a.db.Update("hospitals").Set(goqu.Record{
		"name":         hospital.Name,
		"city":         hospital.City,
		"country":      hospital.Country,
		"address":      hospital.Address,
		"phone_number": hospital.PhoneNumber,
		"email":        hospital.Email,
		"specialties":  pq.Array(hospital.Specialties),
		"description":  hospital.Description,
		"image_url":    hospital.ImageURL,
		"is_active":    hospital.IsActive,
		"updated_at":   hospital.UpdatedAt,
	}).Where(goqu.Ex{"id": hospital.ID}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update hospital", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("hospital with id %s not found", hospital.ID))
	}

	return nil
}

// Delete deactivates a hospital. Catalog rows are never hard-deleted so
// historical reservations keep resolving.
func (a *HospitalAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Update("hospitals").
		Set(goqu.Record{"is_active": false, "updated_at": time.Now()}).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete hospital", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("hospital with id %s not found", id))
	}

	return nil
}

// List returns hospitals matching the filter plus the exact total count
func (a *HospitalAdapter) List(ctx context.Context, filter repositories.HospitalFilter) ([]*entities.Hospital, int, error) {
	ds := a.db.From("hospitals")

	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		ds = ds.Where(goqu.Or(
			goqu.C("name").ILike(pattern),
			goqu.C("city").ILike(pattern),
		))
	}
	if filter.Country != "" {
		ds = ds.Where(goqu.Ex{"country": filter.Country})
	}
	if filter.Specialty != "" {
		ds = ds.Where(goqu.L("? = ANY(specialties)", filter.Specialty))
	}
	if filter.OnlyActive {
		ds = ds.Where(goqu.Ex{"is_active": true})
	}

	countQuery, countArgs, err := ds.Select(goqu.COUNT("*")).ToSQL()
	if err != nil {
		return nil, 0, apperrors.NewInternalError("failed to build count query", err)
	}

	var total int
	if err := a.client.DB().QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, apperrors.NewInternalError("failed to count hospitals", err)
	}

	pageDS := ds.Select(hospitalColumns...).Order(goqu.I("name").Asc())
	if filter.Limit > 0 {
		pageDS = pageDS.Limit(uint(filter.Limit))
	}
	if filter.Offset > 0 {
		pageDS = pageDS.Offset(uint(filter.Offset))
	}

	query, args, err := pageDS.ToSQL()
	if err != nil {
		return nil, 0, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, apperrors.NewInternalError("failed to list hospitals", err)
	}
	defer rows.Close()

	var hospitals []*entities.Hospital
	for rows.Next() {
		hospital, err := scanHospital(rows.Scan)
		if err != nil {
			return nil, 0, apperrors.NewInternalError("failed to scan hospital", err)
		}
		hospitals = append(hospitals, hospital)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperrors.NewInternalError("failed to iterate hospitals", err)
	}

	return hospitals, total, nil
}

func scanHospital(scan func(dest ...interface{}) error) (*entities.Hospital, error) {
	hospital := &entities.Hospital{}
	var address, phone, email, description, imageURL sql.NullString

	err := scan(
		&hospital.ID,
		&hospital.Name,
		&hospital.City,
		&hospital.Country,
		&address,
		&phone,
		&email,
		pq.Array(&hospital.Specialties),
		&description,
		&imageURL,
		&hospital.IsActive,
		&hospital.CreatedAt,
		&hospital.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	hospital.Address = address.String
	hospital.PhoneNumber = phone.String
	hospital.Email = email.String
	hospital.Description = description.String
	hospital.ImageURL = imageURL.String

	return hospital, nil
}
