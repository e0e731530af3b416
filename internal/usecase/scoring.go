package usecase

import (
	"context"
	"log"
	"math"
	"strings"

	"github.com/nutrilens/backend/internal/domain"
)

// Scoring constants. The grade thresholds below are fixed policy; only the
// component weights are configurable.
const (
	// energyFloorKcal guards the protein-density denominator
	energyFloorKcal = 1e-9
	// proteinSaturationG is the g/100kcal level at which protein density
	// saturates at 1.0
	proteinSaturationG = 10.0
	// additivePenaltyStep and additivePenaltyCap bound the processing
	// penalty per listed additive
	additivePenaltyStep = 0.05
	additivePenaltyCap  = 0.3
)

// qualityGradeScores maps an upstream A-E quality grade onto the processing
// scale when no processing code is available
var qualityGradeScores = map[string]float64{
	"A": 1.0,
	"B": 0.75,
	"C": 0.5,
	"D": 0.25,
	"E": 0.0,
}

// ScoreWeights weights the five sub-scores in the overall score. Weights are
// caller-supplied configuration, never ambient state, so grading policy can
// be tuned without touching the algorithm.
type ScoreWeights struct {
	ProteinDensity float64
	CarbQuality    float64
	FatQuality     float64
	Processing     float64
	Transparency   float64
}

// DefaultScoreWeights returns the standard weighting
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{
		ProteinDensity: 0.25,
		CarbQuality:    0.20,
		FatQuality:     0.15,
		Processing:     0.25,
		Transparency:   0.15,
	}
}

// ScoreEnrichment carries the optional metadata feeding the processing
// sub-score. Additive parsing happens at the data boundary; the engine only
// ever sees a resolved count.
type ScoreEnrichment struct {
	ProcessingCode *int
	QualityGrade   string
	AdditiveCount  int
}

// ScorePortion computes portion macros, the five sub-scores, the weighted
// overall and the letter grade for a per-100g nutrient vector.
//
// Every sub-score has a documented fallback for missing data and every
// division is guarded; missing optional nutrients never raise. The
// sub-scores depend only on the per-100g vector and enrichment, so they are
// invariant under grams; portion size affects only the macros.
func ScorePortion(
	nutrients domain.NutrientVector,
	grams float64,
	enrichment ScoreEnrichment,
	weights ScoreWeights,
) (domain.PortionMacros, domain.SubScores, string, error) {
	if grams < 0 {
		return domain.PortionMacros{}, domain.SubScores{}, "", domain.ErrInvalidPortion
	}

	macros := scaleToPortion(nutrients, grams)

	proteinDensity := proteinDensityScore(nutrients)
	carbQuality := carbQualityScore(nutrients)
	fatQuality := fatQualityScore(nutrients)
	processing := processingScore(enrichment)
	transparency := transparencyScore(nutrients)

	overall := proteinDensity*weights.ProteinDensity +
		carbQuality*weights.CarbQuality +
		fatQuality*weights.FatQuality +
		processing*weights.Processing +
		transparency*weights.Transparency

	scores := domain.SubScores{
		ProteinDensity: round2(proteinDensity),
		CarbQuality:    round2(carbQuality),
		FatQuality:     round2(fatQuality),
		Processing:     round2(processing),
		Transparency:   round2(transparency),
		Overall:        round2(overall),
	}

	return macros, scores, gradeFor(overall), nil
}

// gradeFor maps an overall score onto the fixed letter-grade thresholds.
// The F band below zero is reachable only through the additive penalty and
// marks "worse than worst-case ultra-processed".
func gradeFor(overall float64) string {
	switch {
	case overall >= 0.8:
		return "A"
	case overall >= 0.6:
		return "B"
	case overall >= 0.4:
		return "C"
	case overall >= 0.2:
		return "D"
	case overall >= 0:
		return "E"
	default:
		return "F"
	}
}

// proteinDensityScore scales grams of protein per 100 kcal so that
// proteinSaturationG saturates at 1.0. Zero or unknown energy scores 0
// rather than dividing by zero.
func proteinDensityScore(n domain.NutrientVector) float64 {
	energy := valueOrZero(n.EnergyKcal)
	if energy <= energyFloorKcal {
		return 0
	}
	perHundredKcal := valueOrZero(n.ProteinG) / energy * 100
	return clamp01(perHundredKcal / proteinSaturationG)
}

// carbQualityScore rewards fiber and penalizes sugar. Missing sugar is
// pessimistically assumed to be all of the carbohydrate; zero or unknown
// carbohydrate is neutral.
func carbQualityScore(n domain.NutrientVector) float64 {
	carb := valueOrZero(n.CarbG)
	if carb <= 0 {
		return 0.5
	}

	fiber := valueOrZero(n.FiberG)
	sugar := carb
	if n.SugarG != nil {
		sugar = *n.SugarG
	}

	return clamp01(0.5*(fiber/carb) + 0.5*(1-sugar/carb))
}

// fatQualityScore rewards a low saturated-fat share. Missing saturated fat
// is assumed to be half the total fat; zero or unknown fat is neutral.
func fatQualityScore(n domain.NutrientVector) float64 {
	fat := valueOrZero(n.FatG)
	if fat <= 0 {
		return 0.5
	}

	saturated := fat * 0.5
	if n.SaturatedFatG != nil {
		saturated = *n.SaturatedFatG
	}

	return clamp01(1 - saturated/fat)
}

// processingScore prefers the processing code, falls back to the quality
// grade, then to neutral. The additive penalty is subtracted without a lower
// clamp, so heavily additive-laden ultra-processed foods can push the score
// below zero.
func processingScore(e ScoreEnrichment) float64 {
	base := 0.5
	switch {
	case e.ProcessingCode != nil && *e.ProcessingCode >= 1 && *e.ProcessingCode <= 4:
		base = float64(5-*e.ProcessingCode) / 4
	case e.QualityGrade != "":
		// Malformed grades degrade to neutral
		if v, ok := qualityGradeScores[strings.ToUpper(strings.TrimSpace(e.QualityGrade))]; ok {
			base = v
		}
	}

	penalty := float64(e.AdditiveCount) * additivePenaltyStep
	if penalty < 0 {
		penalty = 0
	}
	if penalty > additivePenaltyCap {
		penalty = additivePenaltyCap
	}

	return base - penalty
}

// transparencyScore is the fraction of the eight core nutrient fields that
// are present in the per-100g vector, independent of portion size
func transparencyScore(n domain.NutrientVector) float64 {
	fields := []*float64{
		n.EnergyKcal, n.ProteinG, n.CarbG, n.FatG,
		n.FiberG, n.SugarG, n.SaturatedFatG, n.SodiumMg,
	}
	present := 0
	for _, f := range fields {
		if f != nil {
			present++
		}
	}
	return float64(present) / float64(len(fields))
}

// scaleToPortion scales the per-100g vector to the portion, rounding to one
// decimal. The four core macros coerce unknown to zero for display; the
// optional nutrients stay absent.
func scaleToPortion(n domain.NutrientVector, grams float64) domain.PortionMacros {
	multiplier := grams / 100.0
	return domain.PortionMacros{
		EnergyKcal:    round1(valueOrZero(n.EnergyKcal) * multiplier),
		ProteinG:      round1(valueOrZero(n.ProteinG) * multiplier),
		CarbG:         round1(valueOrZero(n.CarbG) * multiplier),
		FatG:          round1(valueOrZero(n.FatG) * multiplier),
		FiberG:        scaleOptional(n.FiberG, multiplier),
		SugarG:        scaleOptional(n.SugarG, multiplier),
		SaturatedFatG: scaleOptional(n.SaturatedFatG, multiplier),
		SodiumMg:      scaleOptional(n.SodiumMg, multiplier),
	}
}

func scaleOptional(v *float64, multiplier float64) *float64 {
	if v == nil {
		return nil
	}
	scaled := round1(*v * multiplier)
	return &scaled
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ScoringEngine scores portions of foods fetched by canonical id
type ScoringEngine struct {
	generic domain.GenericFoodRepository
	branded domain.BrandedFoodRepository
	weights ScoreWeights
	debug   bool
}

// ScoringConfig holds configuration for the scoring engine
type ScoringConfig struct {
	Weights            ScoreWeights
	EnableDebugLogging bool
}

// NewScoringEngine creates a scoring engine backed by the two nutrient
// sources. A zero Weights falls back to the defaults.
func NewScoringEngine(
	generic domain.GenericFoodRepository,
	branded domain.BrandedFoodRepository,
	config ScoringConfig,
) *ScoringEngine {
	weights := config.Weights
	if weights == (ScoreWeights{}) {
		weights = DefaultScoreWeights()
	}

	return &ScoringEngine{
		generic: generic,
		branded: branded,
		weights: weights,
		debug:   config.EnableDebugLogging,
	}
}

// ScorePortionByID resolves a canonical id string ("source:key", or a bare
// barcode defaulting to the branded source), fetches the record and scores
// the given portion
func (s *ScoringEngine) ScorePortionByID(ctx context.Context, canonicalID string, grams float64) (*domain.PortionScore, error) {
	id, err := domain.ParseCanonicalID(canonicalID)
	if err != nil {
		return nil, err
	}
	if grams < 0 {
		return nil, domain.ErrInvalidPortion
	}

	var (
		nutrients  domain.NutrientVector
		enrichment ScoreEnrichment
	)

	switch id.Source {
	case domain.SourceBranded:
		entry, err := s.branded.GetByBarcode(ctx, id.Key)
		if err != nil {
			return nil, err
		}
		nutrients = entry.Nutrients
		enrichment = ScoreEnrichment{
			ProcessingCode: entry.ProcessingCode,
			QualityGrade:   entry.QualityGrade,
			AdditiveCount:  len(entry.Additives),
		}
	case domain.SourceGeneric:
		entry, err := s.generic.GetByID(ctx, id.Key)
		if err != nil {
			return nil, err
		}
		nutrients = entry.Nutrients
	default:
		return nil, domain.ErrInvalidCanonicalID
	}

	macros, scores, grade, err := ScorePortion(nutrients, grams, enrichment, s.weights)
	if err != nil {
		return nil, err
	}

	if s.debug {
		log.Printf("[SCORE] %s grams=%.1f overall=%.2f grade=%s", id, grams, scores.Overall, grade)
	}

	return &domain.PortionScore{Macros: macros, Score: scores, Grade: grade}, nil
}
