package repositories

import (
	"context"

	"github.com/medilink-plus/coordination-api/internal/domain/entities"
)

// HospitalRepository defines the interface for hospital catalog operations
type HospitalRepository interface {
	Create(ctx context.Context, hospital *entities.Hospital) error
	GetByID(ctx context.Context, id string) (*entities.Hospital, error)
	Update(ctx context.Context, hospital *entities.Hospital) error
	Delete(ctx context.Context, id string) error

	// List returns hospitals matching the filter plus the exact total count
	List(ctx context.Context, filter HospitalFilter) ([]*entities.Hospital, int, error)
}

// HospitalFilter defines filters for listing/searching hospitals
type HospitalFilter struct {
	Query      string // matches name or city, case-insensitive
	Country    string
	Specialty  string
	OnlyActive bool
	Limit      int
	Offset     int
}

// InterpreterRepository defines the interface for the interpreter catalog
type InterpreterRepository interface {
	Create(ctx context.Context, interpreter *entities.Interpreter) error
	GetByID(ctx context.Context, id string) (*entities.Interpreter, error)
	Update(ctx context.Context, interpreter *entities.Interpreter) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, onlyActive bool, limit, offset int) ([]*entities.Interpreter, int, error)
}
