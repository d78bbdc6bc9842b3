package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/medilink-plus/coordination-api/internal/domain/entities"
	"github.com/medilink-plus/coordination-api/internal/domain/repositories"
	apperrors "github.com/medilink-plus/coordination-api/pkg/errors"
)

// HospitalService handles the hospital catalog. Reads are public; writes
// are admin back-office operations.
type HospitalService struct {
	repo repositories.HospitalRepository
}

// NewHospitalService creates a new hospital service
func NewHospitalService(repo repositories.HospitalRepository) *HospitalService {
	return &HospitalService{repo: repo}
}

// Get retrieves one hospital
func (s *HospitalService) Get(ctx context.Context, id string) (*entities.Hospital, error) {
	return s.repo.GetByID(ctx, id)
}

// Search lists hospitals matching the filter. Non-admin callers only see
// active hospitals.
func (s *HospitalService) Search(ctx context.Context, filter repositories.HospitalFilter, actor entities.Actor) ([]*entities.Hospital, int, error) {
	if actor.Role != entities.RoleAdmin {
		filter.OnlyActive = true
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}
	return s.repo.List(ctx, filter)
}

// Create adds a hospital to the catalog (admin only)
func (s *HospitalService) Create(ctx context.Context, hospital *entities.Hospital, actor entities.Actor) (*entities.Hospital, error) {
	if actor.Role != entities.RoleAdmin {
		return nil, apperrors.NewForbiddenError("only an admin may manage hospitals")
	}
	if hospital.Name == "" || hospital.City == "" || hospital.Country == "" {
		return nil, apperrors.NewValidationError("name, city and country are required")
	}

	hospital.ID = uuid.New().String()
	hospital.IsActive = true
	hospital.CreatedAt = time.Now()
	hospital.UpdatedAt = hospital.CreatedAt

	if err := s.repo.Create(ctx, hospital); err != nil {
		return nil, err
	}
	return hospital, nil
}

// Update modifies a hospital (admin only)
func (s *HospitalService) Update(ctx context.Context, hospital *entities.Hospital, actor entities.Actor) error {
	if actor.Role != entities.RoleAdmin {
		return apperrors.NewForbiddenError("only an admin may manage hospitals")
	}
	if hospital.ID == "" {
		return apperrors.NewValidationError("id is required")
	}
	return s.repo.Update(ctx, hospital)
}

// Delete deactivates a hospital (admin only)
func (s *HospitalService) Delete(ctx context.Context, id string, actor entities.Actor) error {
	if actor.Role != entities.RoleAdmin {
		return apperrors.NewForbiddenError("only an admin may manage hospitals")
	}
	return s.repo.Delete(ctx, id)
}
