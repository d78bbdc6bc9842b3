package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/medilink-plus/coordination-api/internal/domain/entities"
	"github.com/medilink-plus/coordination-api/internal/domain/repositories"
	apperrors "github.com/medilink-plus/coordination-api/pkg/errors"
)

// PromotionService handles hospital promotions. Public listing only shows
// promotions valid right now; admins see everything.
type PromotionService struct {
	repo repositories.PromotionRepository
}

// NewPromotionService creates a new promotion service
func NewPromotionService(repo repositories.PromotionRepository) *PromotionService {
	return &PromotionService{repo: repo}
}

// List returns promotions for display
func (s *PromotionService) List(ctx context.Context, hospitalID string, actor entities.Actor, limit, offset int) ([]*entities.Promotion, int, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	currentOnly := actor.Role != entities.RoleAdmin
	return s.repo.List(ctx, hospitalID, currentOnly, limit, offset)
}

// Create adds a promotion (admin only)
func (s *PromotionService) Create(ctx context.Context, promotion *entities.Promotion, actor entities.Actor) (*entities.Promotion, error) {
	if actor.Role != entities.RoleAdmin {
		return nil, apperrors.NewForbiddenError("only an admin may manage promotions")
	}
	if err := validatePromotion(promotion); err != nil {
		return nil, err
	}

	promotion.ID = uuid.New().String()
	promotion.IsActive = true
	promotion.CreatedAt = time.Now()
	promotion.UpdatedAt = promotion.CreatedAt

	if err := s.repo.Create(ctx, promotion); err != nil {
		return nil, err
	}
	return promotion, nil
}

// Update modifies a promotion (admin only)
func (s *PromotionService) Update(ctx context.Context, promotion *entities.Promotion, actor entities.Actor) error {
	if actor.Role != entities.RoleAdmin {
		return apperrors.NewForbiddenError("only an admin may manage promotions")
	}
	if promotion.ID == "" {
		return apperrors.NewValidationError("id is required")
	}
	if err := validatePromotion(promotion); err != nil {
		return err
	}
	return s.repo.Update(ctx, promotion)
}

// Delete removes a promotion (admin only)
func (s *PromotionService) Delete(ctx context.Context, id string, actor entities.Actor) error {
	if actor.Role != entities.RoleAdmin {
		return apperrors.NewForbiddenError("only an admin may manage promotions")
	}
	return s.repo.Delete(ctx, id)
}

func validatePromotion(promotion *entities.Promotion) error {
	if promotion.HospitalID == "" {
		return apperrors.NewValidationError("hospital_id is required")
	}
	if promotion.Title == "" {
		return apperrors.NewValidationError("title is required")
	}
	if promotion.DiscountPercent <= 0 || promotion.DiscountPercent > 100 {
		return apperrors.NewValidationError("discount_percent must be between 0 and 100")
	}
	if !promotion.ValidUntil.After(promotion.ValidFrom) {
		return apperrors.NewValidationError("valid_until must be after valid_from")
	}
	return nil
}
