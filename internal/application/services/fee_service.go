package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/medilink-plus/coordination-api/internal/domain/entities"
	"github.com/medilink-plus/coordination-api/internal/domain/repositories"
	apperrors "github.com/medilink-plus/coordination-api/pkg/errors"
)

// FeeService handles fee/price comparison records. Reads are public;
// writes are admin back-office operations.
type FeeService struct {
	repo         repositories.FeeRepository
	hospitalRepo repositories.HospitalRepository
}

// NewFeeService creates a new fee service
func NewFeeService(repo repositories.FeeRepository, hospitalRepo repositories.HospitalRepository) *FeeService {
	return &FeeService{repo: repo, hospitalRepo: hospitalRepo}
}

// List returns fees for comparison tables
func (s *FeeService) List(ctx context.Context, filter repositories.FeeFilter) ([]*entities.Fee, int, error) {
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 50
	}
	return s.repo.List(ctx, filter)
}

// Create adds a fee record (admin only)
func (s *FeeService) Create(ctx context.Context, fee *entities.Fee, actor entities.Actor) (*entities.Fee, error) {
	if actor.Role != entities.RoleAdmin {
		return nil, apperrors.NewForbiddenError("only an admin may manage fees")
	}
	if err := validateFee(fee); err != nil {
		return nil, err
	}
	if _, err := s.hospitalRepo.GetByID(ctx, fee.HospitalID); err != nil {
		return nil, err
	}

	fee.ID = uuid.New().String()
	fee.CreatedAt = time.Now()
	fee.UpdatedAt = fee.CreatedAt

	if err := s.repo.Create(ctx, fee); err != nil {
		return nil, err
	}
	return fee, nil
}

// Update modifies a fee record (admin only)
func (s *FeeService) Update(ctx context.Context, fee *entities.Fee, actor entities.Actor) error {
	if actor.Role != entities.RoleAdmin {
		return apperrors.NewForbiddenError("only an admin may manage fees")
	}
	if fee.ID == "" {
		return apperrors.NewValidationError("id is required")
	}
	if err := validateFee(fee); err != nil {
		return err
	}
	return s.repo.Update(ctx, fee)
}

// Delete removes a fee record (admin only)
func (s *FeeService) Delete(ctx context.Context, id string, actor entities.Actor) error {
	if actor.Role != entities.RoleAdmin {
		return apperrors.NewForbiddenError("only an admin may manage fees")
	}
	return s.repo.Delete(ctx, id)
}

func validateFee(fee *entities.Fee) error {
	if fee.HospitalID == "" {
		return apperrors.NewValidationError("hospital_id is required")
	}
	if fee.Treatment == "" {
		return apperrors.NewValidationError("treatment is required")
	}
	if fee.MinPrice < 0 || fee.MaxPrice < fee.MinPrice {
		return apperrors.NewValidationError("price range is invalid")
	}
	if fee.Currency == "" {
		return apperrors.NewValidationError("currency is required")
	}
	return nil
}
