package repositories

import (
	"context"

	"github.com/medilink-plus/coordination-api/internal/domain/entities"
)

// FeeRepository defines the interface for fee/price record operations
type FeeRepository interface {
	Create(ctx context.Context, fee *entities.Fee) error
	GetByID(ctx context.Context, id string) (*entities.Fee, error)
	Update(ctx context.Context, fee *entities.Fee) error
	Delete(ctx context.Context, id string) error

	// List returns fees filtered by hospital and/or treatment
	List(ctx context.Context, filter FeeFilter) ([]*entities.Fee, int, error)
}

// FeeFilter defines filters for listing fees
type FeeFilter struct {
	HospitalID string
	Treatment  string
	Limit      int
	Offset     int
}

// PromotionRepository defines the interface for promotion operations
type PromotionRepository interface {
	Create(ctx context.Context, promotion *entities.Promotion) error
	GetByID(ctx context.Context, id string) (*entities.Promotion, error)
	Update(ctx context.Context, promotion *entities.Promotion) error
	Delete(ctx context.Context, id string) error

	// List returns promotions; when currentOnly is set, only active ones
	// valid at the given instant
	List(ctx context.Context, hospitalID string, currentOnly bool, limit, offset int) ([]*entities.Promotion, int, error)
}
