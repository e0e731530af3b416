package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/nutrilens/backend/internal/domain"
)

// In-memory fakes for the source adapter interfaces

type fakeGenericRepo struct {
	entries []domain.FoodEntry
	err     error
}

func (f *fakeGenericRepo) GetByID(_ context.Context, sourceID string) (*domain.FoodEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.entries {
		if f.entries[i].SourceID == sourceID {
			entry := f.entries[i]
			return &entry, nil
		}
	}
	return nil, domain.ErrFoodNotFound
}

func (f *fakeGenericRepo) SearchByName(_ context.Context, sub string, limit int) ([]domain.FoodEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.FoodEntry
	for _, e := range f.entries {
		if strings.Contains(e.NameLower, sub) {
			out = append(out, e)
			if len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

type fakeBrandedRepo struct {
	entries []domain.BrandedFoodEntry
	err     error
}

func (f *fakeBrandedRepo) GetByBarcode(_ context.Context, barcode string) (*domain.BrandedFoodEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.entries {
		if f.entries[i].Barcode == barcode {
			entry := f.entries[i]
			return &entry, nil
		}
	}
	return nil, domain.ErrFoodNotFound
}

func (f *fakeBrandedRepo) SearchByName(_ context.Context, sub string, limit int) ([]domain.BrandedFoodEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.BrandedFoodEntry
	for _, e := range f.entries {
		if strings.Contains(e.NameLower, sub) {
			out = append(out, e)
			if len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

type fakeAliasRepo struct {
	aliases []domain.Alias
	err     error
}

func (f *fakeAliasRepo) SearchByAlias(_ context.Context, sub string, limit int) ([]domain.Alias, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.Alias
	for _, a := range f.aliases {
		if strings.Contains(a.AliasLower, sub) {
			out = append(out, a)
			if len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

type fakeLabelMapRepo struct {
	mappings map[string]domain.LabelMapping
	err      error
}

func (f *fakeLabelMapRepo) GetByLabel(_ context.Context, label string) (*domain.LabelMapping, error) {
	if f.err != nil {
		return nil, f.err
	}
	if m, ok := f.mappings[label]; ok {
		return &m, nil
	}
	return nil, domain.ErrFoodNotFound
}

type fakeCache struct {
	data map[string]*domain.CanonicalFood
	sets int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string]*domain.CanonicalFood)}
}

func (f *fakeCache) Get(_ context.Context, key string) (*domain.CanonicalFood, error) {
	if food, ok := f.data[key]; ok {
		return food, nil
	}
	return nil, domain.ErrCacheMiss
}

func (f *fakeCache) Set(_ context.Context, key string, food *domain.CanonicalFood, _ time.Duration) error {
	f.data[key] = food
	f.sets++
	return nil
}

func (f *fakeCache) Delete(_ context.Context, key string) error {
	delete(f.data, key)
	return nil
}

func (f *fakeCache) Exists(_ context.Context, key string) (bool, error) {
	_, ok := f.data[key]
	return ok, nil
}

func fptr(v float64) *float64 { return &v }

func iptr(v int) *int { return &v }
