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

var promotionColumns = []interface{}{
	"id", "hospital_id", "title", "description", "discount_percent",
	"valid_from", "valid_until", "is_active", "created_at", "updated_at",
}

// PromotionAdapter implements the PromotionRepository interface
type PromotionAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewPromotionAdapter creates a new promotion adapter
func NewPromotionAdapter(client *postgres.Client) repositories.PromotionRepository {
	return &PromotionAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new promotion
func (a *PromotionAdapter) Create(ctx context.Context, promotion *entities.Promotion) error {
	query, args, err := a.db.Insert("promotions").Rows(goqu.Record{
		"id":               promotion.ID,
		"hospital_id":      promotion.HospitalID,
		"title":            promotion.Title,
		"description":      promotion.Description,
		"discount_percent": promotion.DiscountPercent,
		"valid_from":       promotion.ValidFrom,
		"valid_until":      promotion.ValidUntil,
		"is_active":        promotion.IsActive,
		"created_at":       promotion.CreatedAt,
		"updated_at":       promotion.UpdatedAt,
	}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create promotion", err)
	}

	return nil
}

// GetByID retrieves a promotion by ID
func (a *PromotionAdapter) GetByID(ctx context.Context, id string) (*entities.Promotion, error) {
	query, args, err := a.db.Select(promotionColumns...).
		From("promotions").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	promotion, err := scanPromotion(a.client.DB().QueryRowContext(ctx, query, args...).Scan)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("promotion with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get promotion", err)
	}

	return promotion, nil
}

// Update updates a promotion
func (a *PromotionAdapter) Update(ctx context.Context, promotion *entities.Promotion) error {
	promotion.UpdatedAt = time.Now()

	query, args, err := a.db.Update("promotions").Set(goqu.Record{
		"hospital_id":      promotion.HospitalID,
		"title":            promotion.Title,
		"description":      promotion.Description,
		"discount_percent": promotion.DiscountPercent,
		"valid_from":       promotion.ValidFrom,
		"valid_until":      promotion.ValidUntil,
		"is_active":        promotion.IsActive,
		"updated_at":       promotion.UpdatedAt,
	}).Where(goqu.Ex{"id": promotion.ID}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update promotion", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("promotion with id %s not found", promotion.ID))
	}

	return nil
}

// Delete removes a promotion
func (a *PromotionAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Delete("promotions").Where(goqu.Ex{"id": id}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete promotion", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("promotion with id %s not found", id))
	}

	return nil
}

// List returns promotions, optionally restricted to currently valid ones
func (a *PromotionAdapter) List(ctx context.Context, hospitalID string, currentOnly bool, limit, offset int) ([]*entities.Promotion, int, error) {
	ds := a.db.From("promotions")

	if hospitalID != "" {
		ds = ds.Where(goqu.Ex{"hospital_id": hospitalID})
	}
	if currentOnly {
		now := time.Now()
		ds = ds.Where(
			goqu.Ex{"is_active": true},
			goqu.C("valid_from").Lte(now),
			goqu.C("valid_until").Gte(now),
		)
	}

	countQuery, countArgs, err := ds.Select(goqu.COUNT("*")).ToSQL()
	if err != nil {
		return nil, 0, apperrors.NewInternalError("failed to build count query", err)
	}

	var total int
	if err := a.client.DB().QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, apperrors.NewInternalError("failed to count promotions", err)
	}

	pageDS := ds.Select(promotionColumns...).Order(goqu.I("valid_until").Asc())
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
		return nil, 0, apperrors.NewInternalError("failed to list promotions", err)
	}
	defer rows.Close()

	var promotions []*entities.Promotion
	for rows.Next() {
		promotion, err := scanPromotion(rows.Scan)
		if err != nil {
			return nil, 0, apperrors.NewInternalError("failed to scan promotion", err)
		}
		promotions = append(promotions, promotion)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperrors.NewInternalError("failed to iterate promotions", err)
	}

	return promotions, total, nil
}

func scanPromotion(scan func(dest ...interface{}) error) (*entities.Promotion, error) {
	promotion := &entities.Promotion{}
	var description sql.NullString

	err := scan(
		&promotion.ID,
		&promotion.HospitalID,
		&promotion.Title,
		&description,
		&promotion.DiscountPercent,
		&promotion.ValidFrom,
		&promotion.ValidUntil,
		&promotion.IsActive,
		&promotion.CreatedAt,
		&promotion.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	promotion.Description = description.String
	return promotion, nil
}
