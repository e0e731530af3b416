package domain

// Source identifies which corpus a food record came from
type Source string

const (
	// SourceGeneric covers generic food composition datasets (CoFID, USDA)
	SourceGeneric Source = "generic"
	// SourceBranded covers barcode-keyed branded products
	SourceBranded Source = "branded"
)

// NutrientVector holds nutrition values per 100 g of a food.
// A nil field means the value is unknown; it is never coerced to zero
// outside the documented scoring fallbacks.
type NutrientVector struct {
	EnergyKcal    *float64 `json:"energy_kcal"`
	ProteinG      *float64 `json:"protein_g"`
	CarbG         *float64 `json:"carb_g"`
	FatG          *float64 `json:"fat_g"`
	FiberG        *float64 `json:"fiber_g,omitempty"`
	SugarG        *float64 `json:"sugar_g,omitempty"`
	SaturatedFatG *float64 `json:"saturated_fat_g,omitempty"`
	SodiumMg      *float64 `json:"sodium_mg,omitempty"`
}

// FoodEntry is a generic food record
type FoodEntry struct {
	SourceID  string
	Name      string
	NameLower string
	Nutrients NutrientVector
	Category  string
}

// BrandedFoodEntry is a branded product keyed by barcode
type BrandedFoodEntry struct {
	Barcode   string
	Name      string
	NameLower string
	Nutrients NutrientVector

	// Enrichment from the product database; all optional
	ProcessingCode *int // NOVA-like, 1 (unprocessed) to 4 (ultra-processed)
	QualityGrade   string
	Additives      []string
	Categories     []string
	Brands         string
	Countries      string // comma-joined country tags, empty when unknown
}

// Alias is an alternative name redirecting to a canonical food.
// An alias never points at another alias.
type Alias struct {
	Alias      string
	AliasLower string
	Target     CanonicalID
}

// LabelMapping is a precomputed exact shortcut from an external label
// (e.g. a vision-model class name) to a canonical food
type LabelMapping struct {
	Label      string
	Target     CanonicalID
	Confidence float64
}

// ServingSize is a named portion
type ServingSize struct {
	Name  string  `json:"name"`
	Grams float64 `json:"grams"`
}

// Enrichment carries optional branded-product metadata on a canonical food
type Enrichment struct {
	ProcessingCode *int     `json:"processing_code,omitempty"`
	QualityGrade   string   `json:"quality_grade,omitempty"`
	Additives      []string `json:"additives,omitempty"`
	Categories     []string `json:"categories,omitempty"`
	Brands         string   `json:"brands,omitempty"`
}

// CanonicalFood is the resolved output shape shared by resolve, search and
// barcode lookup
type CanonicalFood struct {
	CanonicalName string         `json:"canonical_name"`
	Source        Source         `json:"source"`
	SourceID      string         `json:"source_id"`
	Per100g       NutrientVector `json:"per_100g"`
	Servings      []ServingSize  `json:"servings"`
	Enrichment    *Enrichment    `json:"enrichment,omitempty"`
}

// ID returns the canonical identity of the food
func (f *CanonicalFood) ID() CanonicalID {
	return CanonicalID{Source: f.Source, Key: f.SourceID}
}

// SearchResult pairs a candidate food with its similarity score (0-100)
type SearchResult struct {
	Food  CanonicalFood `json:"food"`
	Score float64       `json:"score"`
}

// PortionMacros holds nutrition scaled to a portion, rounded to one decimal.
// Optional nutrients stay nil when the per-100g value is unknown.
type PortionMacros struct {
	EnergyKcal    float64  `json:"energy_kcal"`
	ProteinG      float64  `json:"protein_g"`
	CarbG         float64  `json:"carb_g"`
	FatG          float64  `json:"fat_g"`
	FiberG        *float64 `json:"fiber_g,omitempty"`
	SugarG        *float64 `json:"sugar_g,omitempty"`
	SaturatedFatG *float64 `json:"saturated_fat_g,omitempty"`
	SodiumMg      *float64 `json:"sodium_mg,omitempty"`
}

// SubScores holds the five quality components and the weighted overall.
// ProteinDensity, CarbQuality, FatQuality and Transparency lie in [0,1];
// Processing may dip below zero through the additive penalty, which is how
// Overall can reach the F band.
type SubScores struct {
	ProteinDensity float64 `json:"protein_density"`
	CarbQuality    float64 `json:"carb_quality"`
	FatQuality     float64 `json:"fat_quality"`
	Processing     float64 `json:"processing"`
	Transparency   float64 `json:"transparency"`
	Overall        float64 `json:"overall"`
}

// PortionScore is the full scoring result for one portion
type PortionScore struct {
	Macros PortionMacros `json:"macros"`
	Score  SubScores     `json:"score"`
	Grade  string        `json:"grade"`
}
