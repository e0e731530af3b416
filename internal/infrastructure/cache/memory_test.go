package cache

import (
	"context"
	"testing"
	"time"

	"github.com/nutrilens/backend/internal/domain"
)

func testFood(name string) *domain.CanonicalFood {
	energy := 145.0
	return &domain.CanonicalFood{
		CanonicalName: name,
		Source:        domain.SourceGeneric,
		SourceID:      "COFID-1",
		Per100g:       domain.NutrientVector{EnergyKcal: &energy},
		Servings:      []domain.ServingSize{{Name: "100 g", Grams: 100}},
	}
}

func TestMemoryCache_SetAndGet(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	food := testFood("Chicken curry")
	if err := cache.Set(ctx, "resolve:chicken curry:", food, 1*time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := cache.Get(ctx, "resolve:chicken curry:")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.CanonicalName != "Chicken curry" {
		t.Errorf("Get() name = %q, want %q", got.CanonicalName, "Chicken curry")
	}
	if got.Source != domain.SourceGeneric || got.SourceID != "COFID-1" {
		t.Errorf("Get() identity = %s, want generic:COFID-1", got.ID())
	}
}

func TestMemoryCache_GetReturnsCopy(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	if err := cache.Set(ctx, "k", testFood("Chicken curry"), 1*time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	first, err := cache.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	first.CanonicalName = "mutated"

	second, err := cache.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if second.CanonicalName != "Chicken curry" {
		t.Errorf("cached entry mutated through returned pointer: %q", second.CanonicalName)
	}
}

func TestMemoryCache_Expiration(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	if err := cache.Set(ctx, "short", testFood("x"), 1*time.Millisecond); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	time.Sleep(10 * time.Millisecond)

	if _, err := cache.Get(ctx, "short"); err != domain.ErrCacheMiss {
		t.Errorf("Get() after expiry error = %v, want %v", err, domain.ErrCacheMiss)
	}
}

func TestMemoryCache_Get_CacheMiss(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	_, err := cache.Get(ctx, "non-existent-key")
	if err != domain.ErrCacheMiss {
		t.Errorf("Get() error = %v, want %v", err, domain.ErrCacheMiss)
	}
}

func TestMemoryCache_Delete(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	key := "delete-test"
	if err := cache.Set(ctx, key, testFood("x"), 1*time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, err := cache.Get(ctx, key); err != nil {
		t.Fatalf("Get() before delete error = %v", err)
	}

	if err := cache.Delete(ctx, key); err != nil {
		t.Errorf("Delete() error = %v", err)
	}

	if _, err := cache.Get(ctx, key); err != domain.ErrCacheMiss {
		t.Errorf("Get() after delete error = %v, want %v", err, domain.ErrCacheMiss)
	}
}

func TestMemoryCache_Exists(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	key := "exists-test"

	exists, err := cache.Exists(ctx, key)
	if err != nil {
		t.Errorf("Exists() error = %v", err)
	}
	if exists {
		t.Errorf("Exists() = true, want false for non-existent key")
	}

	if err := cache.Set(ctx, key, testFood("x"), 1*time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	exists, err = cache.Exists(ctx, key)
	if err != nil {
		t.Errorf("Exists() error = %v", err)
	}
	if !exists {
		t.Errorf("Exists() = false, want true after setting value")
	}

	shortKey := "short-ttl"
	if err := cache.Set(ctx, shortKey, testFood("x"), 1*time.Millisecond); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	time.Sleep(10 * time.Millisecond)

	exists, err = cache.Exists(ctx, shortKey)
	if err != nil {
		t.Errorf("Exists() error = %v", err)
	}
	if exists {
		t.Errorf("Exists() = true, want false after expiration")
	}
}

func TestMemoryCache_SizeAndClear(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	if size := cache.Size(); size != 0 {
		t.Errorf("Size() = %d, want 0 for empty cache", size)
	}

	for i := 0; i < 5; i++ {
		key := string(rune('a' + i))
		if err := cache.Set(ctx, key, testFood(key), 1*time.Minute); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
	}

	if size := cache.Size(); size != 5 {
		t.Errorf("Size() = %d, want 5", size)
	}

	if err := cache.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if size := cache.Size(); size != 4 {
		t.Errorf("Size() = %d, want 4 after delete", size)
	}

	cache.Clear()

	if size := cache.Size(); size != 0 {
		t.Errorf("Size() = %d, want 0 after clear", size)
	}
	if _, err := cache.Get(ctx, "b"); err != domain.ErrCacheMiss {
		t.Errorf("Get() after clear error = %v, want %v", err, domain.ErrCacheMiss)
	}
}

func TestMemoryCache_Concurrent(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func(id int) {
			key := string(rune('a' + id))
			if err := cache.Set(ctx, key, testFood(key), 1*time.Minute); err != nil {
				t.Errorf("Concurrent Set() error = %v", err)
			}
			if _, err := cache.Get(ctx, key); err != nil {
				t.Errorf("Concurrent Get() error = %v", err)
			}
			done <- true
		}(i)
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}

var _ domain.CacheRepository = (*MemoryCache)(nil)
