package domain

import (
	"context"
	"time"
)

// GenericFoodRepository is the read surface over the generic-foods table
type GenericFoodRepository interface {
	// GetByID fetches one entry by its source-local key.
	// Returns ErrFoodNotFound when no row matches.
	GetByID(ctx context.Context, sourceID string) (*FoodEntry, error)

	// SearchByName returns up to limit entries whose lowercase name
	// contains the given substring
	SearchByName(ctx context.Context, nameSubstring string, limit int) ([]FoodEntry, error)
}

// BrandedFoodRepository is the read surface over the branded-products table
type BrandedFoodRepository interface {
	GetByBarcode(ctx context.Context, barcode string) (*BrandedFoodEntry, error)
	SearchByName(ctx context.Context, nameSubstring string, limit int) ([]BrandedFoodEntry, error)
}

// AliasRepository is the read surface over the alias table
type AliasRepository interface {
	SearchByAlias(ctx context.Context, aliasSubstring string, limit int) ([]Alias, error)
}

// LabelMapRepository is the read surface over the precomputed label map
type LabelMapRepository interface {
	// GetByLabel is an exact lookup; ErrFoodNotFound when the label is
	// unmapped
	GetByLabel(ctx context.Context, label string) (*LabelMapping, error)
}

// CacheRepository caches resolved canonical foods
type CacheRepository interface {
	Get(ctx context.Context, key string) (*CanonicalFood, error)
	Set(ctx context.Context, key string, food *CanonicalFood, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
