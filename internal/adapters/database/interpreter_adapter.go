package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
	"github.com/medilink-plus/coordination-api/internal/domain/entities"
	"github.com/medilink-plus/coordination-api/internal/domain/repositories"
	"github.com/medilink-plus/coordination-api/internal/infrastructure/clients/postgres"
	apperrors "github.com/medilink-plus/coordination-api/pkg/errors"
)

var interpreterColumns = []interface{}{
	"id", "full_name", "email", "phone", "languages", "rating",
	"hourly_rate", "is_active", "created_at", "updated_at",
}

// InterpreterAdapter implements the InterpreterRepository interface
type InterpreterAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewInterpreterAdapter creates a new interpreter adapter
func NewInterpreterAdapter(client *postgres.Client) repositories.InterpreterRepository {
	return &InterpreterAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new interpreter
func (a *InterpreterAdapter) Create(ctx context.Context, interpreter *entities.Interpreter) error {
	query, args, err := a.db.Insert("interpreters").Rows(goqu.Record{
		"id":          interpreter.ID,
		"full_name":   interpreter.FullName,
		"email":       interpreter.Email,
		"phone":       interpreter.Phone,
		"languages":   pq.Array(interpreter.Languages),
		"rating":      interpreter.Rating,
		"hourly_rate": interpreter.HourlyRate,
		"is_active":   interpreter.IsActive,
		"created_at":  interpreter.CreatedAt,
		"updated_at":  interpreter.UpdatedAt,
	}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create interpreter", err)
	}

	return nil
}

// GetByID retrieves an interpreter by ID
func (a *InterpreterAdapter) GetByID(ctx context.Context, id string) (*entities.Interpreter, error) {
	query, args, err := a.db.Select(interpreterColumns...).
		From("interpreters").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	row := a.client.DB().QueryRowContext(ctx, query, args...)
	interpreter, err := scanInterpreter(row.Scan)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("interpreter with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get interpreter", err)
	}

	return interpreter, nil
}

// Update updates an interpreter
func (a *InterpreterAdapter) Update(ctx context.Context, interpreter *entities.Interpreter) error {
	interpreter.UpdatedAt = time.Now()

	query, args, err := a.db.Update("interpreters").Set(goqu.Record{
		"full_name":   interpreter.FullName,
		"email":       interpreter.Email,
		"phone":       interpreter.Phone,
		"languages":   pq.Array(interpreter.Languages),
		"rating":      interpreter.Rating,
		"hourly_rate": interpreter.HourlyRate,
		"is_active":   interpreter.IsActive,
		"updated_at":  interpreter.UpdatedAt,
	}).Where(goqu.Ex{"id": interpreter.ID}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update interpreter", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("interpreter with id %s not found", interpreter.ID))
	}

	return nil
}

// Delete deactivates an interpreter
func (a *InterpreterAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Update("interpreters").
		Set(goqu.Record{"is_active": false, "updated_at": time.Now()}).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete interpreter", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("interpreter with id %s not found", id))
	}

	return nil
}

// List returns interpreters plus the exact total count
func (a *InterpreterAdapter) List(ctx context.Context, onlyActive bool, limit, offset int) ([]*entities.Interpreter, int, error) {
	ds := a.db.From("interpreters")
	if onlyActive {
		ds = ds.Where(goqu.Ex{"is_active": true})
	}

	countQuery, countArgs, err := ds.Select(goqu.COUNT("*")).ToSQL()
	if err != nil {
		return nil, 0, apperrors.NewInternalError("failed to build count query", err)
	}

	var total int
	if err := a.client.DB().QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, apperrors.NewInternalError("failed to count interpreters", err)
	}

	pageDS := ds.Select(interpreterColumns...).Order(goqu.I("rating").Desc())
	if limit > 0 {
		pageDS = pageDS.Limit(uint(limit))
	}
	if offset > 0 {
		pageDS = pageDS.Offset(uint(offset))
	}

	query, args, err := pageDS.ToSQL()
	if err != nil {
		return nil, 0, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, apperrors.NewInternalError("failed to list interpreters", err)
	}
	defer rows.Close()

	var interpreters []*entities.Interpreter
	for rows.Next() {
		interpreter, err := scanInterpreter(rows.Scan)
		if err != nil {
			return nil, 0, apperrors.NewInternalError("failed to scan interpreter", err)
		}
		interpreters = append(interpreters, interpreter)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperrors.NewInternalError("failed to iterate interpreters", err)
	}

	return interpreters, total, nil
}

func scanInterpreter(scan func(dest ...interface{}) error) (*entities.Interpreter, error) {
	interpreter := &entities.Interpreter{}
	var phone sql.NullString
	var rating, hourlyRate sql.NullFloat64

	err := scan(
		&interpreter.ID,
		&interpreter.FullName,
		&interpreter.Email,
		&phone,
		pq.Array(&interpreter.Languages),
		&rating,
		&hourlyRate,
		&interpreter.IsActive,
		&interpreter.CreatedAt,
		&interpreter.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	interpreter.Phone = phone.String
	interpreter.Rating = rating.Float64
	interpreter.HourlyRate = hourlyRate.Float64

	return interpreter, nil
}
