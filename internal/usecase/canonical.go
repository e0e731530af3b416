package usecase

import "github.com/nutrilens/backend/internal/domain"

// Fixed default serving sizes per source
var (
	genericServings = []domain.ServingSize{
		{Name: "100 g", Grams: 100},
		{Name: "1 portion", Grams: 250},
	}
	brandedServings = []domain.ServingSize{
		{Name: "100 g", Grams: 100},
		{Name: "1 serving", Grams: 30},
	}
)

func canonicalFromGeneric(entry *domain.FoodEntry) domain.CanonicalFood {
	return domain.CanonicalFood{
		CanonicalName: entry.Name,
		Source:        domain.SourceGeneric,
		SourceID:      entry.SourceID,
		Per100g:       entry.Nutrients,
		Servings:      cloneServings(genericServings),
	}
}

func canonicalFromBranded(entry *domain.BrandedFoodEntry) domain.CanonicalFood {
	return domain.CanonicalFood{
		CanonicalName: entry.Name,
		Source:        domain.SourceBranded,
		SourceID:      entry.Barcode,
		Per100g:       entry.Nutrients,
		Servings:      cloneServings(brandedServings),
		Enrichment: &domain.Enrichment{
			ProcessingCode: entry.ProcessingCode,
			QualityGrade:   entry.QualityGrade,
			Additives:      entry.Additives,
			Categories:     entry.Categories,
			Brands:         entry.Brands,
		},
	}
}

func cloneServings(servings []domain.ServingSize) []domain.ServingSize {
	out := make([]domain.ServingSize, len(servings))
	copy(out, servings)
	return out
}
