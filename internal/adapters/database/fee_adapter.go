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

var feeColumns = []interface{}{
	"id", "hospital_id", "treatment", "min_price", "max_price",
	"currency", "duration_minutes", "created_at", "updated_at",
}

// FeeAdapter implements the FeeRepository interface
type FeeAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewFeeAdapter creates a new fee adapter
func NewFeeAdapter(client *postgres.Client) repositories.FeeRepository {
	return &FeeAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new fee record
func (a *FeeAdapter) Create(ctx context.Context, fee *entities.Fee) error {
	query, args, err := a.db.Insert("fees").Rows(goqu.Record{
		"id":               fee.ID,
		"hospital_id":      fee.HospitalID,
		"treatment":        fee.Treatment,
		"min_price":        fee.MinPrice,
		"max_price":        fee.MaxPrice,
		"currency":         fee.Currency,
		"duration_minutes": fee.DurationMinutes,
		"created_at":       fee.CreatedAt,
		"updated_at":       fee.UpdatedAt,
	}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create fee", err)
	}

	return nil
}

// GetByID retrieves a fee by ID
func (a *FeeAdapter) GetByID(ctx context.Context, id string) (*entities.Fee, error) {
	query, args, err := a.db.Select(feeColumns...).
		From("fees").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	fee := &entities.Fee{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&fee.ID,
		&fee.HospitalID,
		&fee.Treatment,
		&fee.MinPrice,
		&fee.MaxPrice,
		&fee.Currency,
		&fee.DurationMinutes,
		&fee.CreatedAt,
		&fee.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("fee with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get fee", err)
	}

	return fee, nil
}

// Update updates a fee record
func (a *FeeAdapter) Update(ctx context.Context, fee *entities.Fee) error {
	fee.UpdatedAt = time.Now()

	query, args, err := a.db.Update("fees").Set(goqu.Record{
		"hospital_id":      fee.HospitalID,
		"treatment":        fee.Treatment,
		"min_price":        fee.MinPrice,
		"max_price":        fee.MaxPrice,
		"currency":         fee.Currency,
		"duration_minutes": fee.DurationMinutes,
		"updated_at":       fee.UpdatedAt,
	}).Where(goqu.Ex{"id": fee.ID}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update fee", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("fee with id %s not found", fee.ID))
	}

	return nil
}

// Delete removes a fee record
func (a *FeeAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Delete("fees").Where(goqu.Ex{"id": id}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete fee", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("fee with id %s not found", id))
	}

	return nil
}

// List returns fees filtered by hospital and/or treatment
func (a *FeeAdapter) List(ctx context.Context, filter repositories.FeeFilter) ([]*entities.Fee, int, error) {
	ds := a.db.From("fees")

	if filter.HospitalID != "" {
		ds = ds.Where(goqu.Ex{"hospital_id": filter.HospitalID})
	}
	if filter.Treatment != "" {
		ds = ds.Where(goqu.C("treatment").ILike("%" + filter.Treatment + "%"))
	}

	countQuery, countArgs, err := ds.Select(goqu.COUNT("*")).ToSQL()
	if err != nil {
		return nil, 0, apperrors.NewInternalError("failed to build count query", err)
	}

	var total int
	if err := a.client.DB().QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, apperrors.NewInternalError("failed to count fees", err)
	}

	pageDS := ds.Select(feeColumns...).Order(goqu.I("min_price").Asc())
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
		return nil, 0, apperrors.NewInternalError("failed to list fees", err)
	}
	defer rows.Close()

	var fees []*entities.Fee
	for rows.Next() {
		fee := &entities.Fee{}
		err := rows.Scan(
			&fee.ID,
			&fee.HospitalID,
			&fee.Treatment,
			&fee.MinPrice,
			&fee.MaxPrice,
			&fee.Currency,
			&fee.DurationMinutes,
			&fee.CreatedAt,
			&fee.UpdatedAt,
		)
		if err != nil {
			return nil, 0, apperrors.NewInternalError("failed to scan fee", err)
		}
		fees = append(fees, fee)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperrors.NewInternalError("failed to iterate fees", err)
	}

	return fees, total, nil
}
