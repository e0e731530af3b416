package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/nutrilens/backend/internal/domain"
)

// Insert helpers used by the offline import jobs and by tests. Resolution
// never writes; these are the only mutation points.

// InsertGeneric upserts one generic food entry
func (s *Store) InsertGeneric(ctx context.Context, entry domain.FoodEntry) error {
	if entry.NameLower == "" {
		entry.NameLower = strings.ToLower(entry.Name)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO foods_generic (`+genericColumns+`)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.SourceID, entry.Name, entry.NameLower,
		entry.Nutrients.EnergyKcal, entry.Nutrients.ProteinG, entry.Nutrients.CarbG, entry.Nutrients.FatG,
		entry.Nutrients.FiberG, entry.Nutrients.SugarG, entry.Nutrients.SaturatedFatG, entry.Nutrients.SodiumMg,
		entry.Category,
	)
	if err != nil {
		return fmt.Errorf("insert generic food %q: %w", entry.SourceID, err)
	}
	return nil
}

// InsertBranded upserts one branded product. The additive list is stored as
// raw text to mirror the inconsistent import feeds; pass either a JSON array
// or a comma-joined string.
func (s *Store) InsertBranded(ctx context.Context, entry domain.BrandedFoodEntry, rawAdditives, rawCategories string) error {
	if entry.NameLower == "" {
		entry.NameLower = strings.ToLower(entry.Name)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO foods_branded (`+brandedColumns+`)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.Barcode, entry.Name, entry.NameLower,
		entry.Nutrients.EnergyKcal, entry.Nutrients.ProteinG, entry.Nutrients.CarbG, entry.Nutrients.FatG,
		entry.Nutrients.FiberG, entry.Nutrients.SugarG, entry.Nutrients.SaturatedFatG, entry.Nutrients.SodiumMg,
		entry.ProcessingCode, entry.QualityGrade, rawAdditives, rawCategories, entry.Brands, entry.Countries,
	)
	if err != nil {
		return fmt.Errorf("insert branded food %q: %w", entry.Barcode, err)
	}
	return nil
}

// InsertAlias adds one alias redirect
func (s *Store) InsertAlias(ctx context.Context, alias domain.Alias) error {
	if alias.AliasLower == "" {
		alias.AliasLower = strings.ToLower(alias.Alias)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO aliases (alias, alias_lower, canonical_source, canonical_id)
         VALUES (?, ?, ?, ?)`,
		alias.Alias, alias.AliasLower, string(alias.Target.Source), alias.Target.Key,
	)
	if err != nil {
		return fmt.Errorf("insert alias %q: %w", alias.Alias, err)
	}
	return nil
}

// InsertLabelMapping upserts one external-label shortcut
func (s *Store) InsertLabelMapping(ctx context.Context, mapping domain.LabelMapping) error {
	confidence := mapping.Confidence
	if confidence == 0 {
		confidence = 1.0
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO label_map (label, canonical_source, canonical_id, confidence)
         VALUES (?, ?, ?, ?)`,
		mapping.Label, string(mapping.Target.Source), mapping.Target.Key, confidence,
	)
	if err != nil {
		return fmt.Errorf("insert label mapping %q: %w", mapping.Label, err)
	}
	return nil
}
