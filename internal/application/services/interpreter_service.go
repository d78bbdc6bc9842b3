package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/medilink-plus/coordination-api/internal/domain/entities"
	"github.com/medilink-plus/coordination-api/internal/domain/repositories"
	apperrors "github.com/medilink-plus/coordination-api/pkg/errors"
)

// InterpreterService handles the interpreter catalog
type InterpreterService struct {
	repo repositories.InterpreterRepository
}

// NewInterpreterService creates a new interpreter service
func NewInterpreterService(repo repositories.InterpreterRepository) *InterpreterService {
	return &InterpreterService{repo: repo}
}

// Get retrieves one interpreter
func (s *InterpreterService) Get(ctx context.Context, id string) (*entities.Interpreter, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns interpreters; non-admins only see active ones
func (s *InterpreterService) List(ctx context.Context, actor entities.Actor, limit, offset int) ([]*entities.Interpreter, int, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	onlyActive := actor.Role != entities.RoleAdmin
	return s.repo.List(ctx, onlyActive, limit, offset)
}

// Create adds an interpreter (admin only)
func (s *InterpreterService) Create(ctx context.Context, interpreter *entities.Interpreter, actor entities.Actor) (*entities.Interpreter, error) {
	if actor.Role != entities.RoleAdmin {
		return nil, apperrors.NewForbiddenError("only an admin may manage interpreters")
	}
	if interpreter.FullName == "" || interpreter.Email == "" {
		return nil, apperrors.NewValidationError("full_name and email are required")
	}
	if len(interpreter.Languages) == 0 {
		return nil, apperrors.NewValidationError("at least one language is required")
	}

	interpreter.ID = uuid.New().String()
	interpreter.IsActive = true
	interpreter.CreatedAt = time.Now()
	interpreter.UpdatedAt = interpreter.CreatedAt

	if err := s.repo.Create(ctx, interpreter); err != nil {
		return nil, err
	}
	return interpreter, nil
}

// Update modifies an interpreter (admin only)
func (s *InterpreterService) Update(ctx context.Context, interpreter *entities.Interpreter, actor entities.Actor) error {
	if actor.Role != entities.RoleAdmin {
		return apperrors.NewForbiddenError("only an admin may manage interpreters")
	}
	if interpreter.ID == "" {
		return apperrors.NewValidationError("id is required")
	}
	return s.repo.Update(ctx, interpreter)
}

// Delete deactivates an interpreter (admin only)
func (s *InterpreterService) Delete(ctx context.Context, id string, actor entities.Actor) error {
	if actor.Role != entities.RoleAdmin {
		return apperrors.NewForbiddenError("only an admin may manage interpreters")
	}
	return s.repo.Delete(ctx, id)
}
