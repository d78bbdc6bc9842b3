package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/medilink-plus/coordination-api/internal/domain/entities"
	"github.com/medilink-plus/coordination-api/internal/domain/providers"
	"github.com/medilink-plus/coordination-api/internal/domain/repositories"
)

// CachedHospitalAdapter wraps HospitalAdapter with read-through caching.
// Mutations invalidate the single-record key and simply let list keys
// expire on TTL.
type CachedHospitalAdapter struct {
	adapter repositories.HospitalRepository
	cache   providers.CacheProvider
}

// NewCachedHospitalAdapter creates a new cached hospital adapter
func NewCachedHospitalAdapter(adapter repositories.HospitalRepository, cache providers.CacheProvider) repositories.HospitalRepository {
	return &CachedHospitalAdapter{
		adapter: adapter,
		cache:   cache,
	}
}

// Cache TTLs (in seconds)
const (
	hospitalByIDTTL = 300
	hospitalListTTL = 180
)

func hospitalCacheKey(id string) string {
	return fmt.Sprintf("hospital:%s", id)
}

func hospitalListCacheKey(filter repositories.HospitalFilter) string {
	return fmt.Sprintf("hospitals:list:%s:%s:%s:%t:%d:%d",
		filter.Query, filter.Country, filter.Specialty, filter.OnlyActive,
		filter.Limit, filter.Offset)
}

type cachedHospitalList struct {
	Hospitals []*entities.Hospital `json:"hospitals"`
	Total     int                  `json:"total"`
}

// GetByID retrieves a hospital by ID with caching
func (a *CachedHospitalAdapter) GetByID(ctx context.Context, id string) (*entities.Hospital, error) {
	cacheKey := hospitalCacheKey(id)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var hospital entities.Hospital
		if err := json.Unmarshal(cached, &hospital); err == nil {
			return &hospital, nil
		}
		log.Printf("Failed to unmarshal cached hospital %s", id)
	}

	hospital, err := a.adapter.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Populate the cache off the request path.
	go func() {
		bgCtx := context.Background()
		if data, err := json.Marshal(hospital); err == nil {
			if err := a.cache.Set(bgCtx, cacheKey, data, hospitalByIDTTL); err != nil {
				log.Printf("Failed to cache hospital %s: %v", id, err)
			}
		}
	}()

	return hospital, nil
}

// List returns hospitals with caching
func (a *CachedHospitalAdapter) List(ctx context.Context, filter repositories.HospitalFilter) ([]*entities.Hospital, int, error) {
	cacheKey := hospitalListCacheKey(filter)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var result cachedHospitalList
		if err := json.Unmarshal(cached, &result); err == nil {
			return result.Hospitals, result.Total, nil
		}
	}

	hospitals, total, err := a.adapter.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	go func() {
		bgCtx := context.Background()
		if data, err := json.Marshal(cachedHospitalList{Hospitals: hospitals, Total: total}); err == nil {
			if err := a.cache.Set(bgCtx, cacheKey, data, hospitalListTTL); err != nil {
				log.Printf("Failed to cache hospital list: %v", err)
			}
		}
	}()

	return hospitals, total, nil
}

// Create creates a hospital and passes through to the base adapter
func (a *CachedHospitalAdapter) Create(ctx context.Context, hospital *entities.Hospital) error {
	return a.adapter.Create(ctx, hospital)
}

// Update updates a hospital and invalidates its cache entry
func (a *CachedHospitalAdapter) Update(ctx context.Context, hospital *entities.Hospital) error {
	if err := a.adapter.Update(ctx, hospital); err != nil {
		return err
	}
	if err := a.cache.Delete(ctx, hospitalCacheKey(hospital.ID)); err != nil {
		log.Printf("Failed to invalidate hospital cache %s: %v", hospital.ID, err)
	}
	return nil
}

// Delete deactivates a hospital and invalidates its cache entry
func (a *CachedHospitalAdapter) Delete(ctx context.Context, id string) error {
	if err := a.adapter.Delete(ctx, id); err != nil {
		return err
	}
	if err := a.cache.Delete(ctx, hospitalCacheKey(id)); err != nil {
		log.Printf("Failed to invalidate hospital cache %s: %v", id, err)
	}
	return nil
}
