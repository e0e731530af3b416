// Package store provides read access to the food corpus in SQLite. The
// tables are populated by offline import jobs and treated as immutable
// during resolution; the insert helpers exist for those jobs and for tests.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/nutrilens/backend/internal/domain"
)

// Store manages the food corpus database. The per-source adapter views
// (Generic, Branded, Aliases, LabelMap) implement the domain repository
// interfaces.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the food database and applies the schema
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.applySchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Generic returns the generic-foods adapter
func (s *Store) Generic() *GenericRepo { return &GenericRepo{db: s.db} }

// Branded returns the branded-products adapter
func (s *Store) Branded() *BrandedRepo { return &BrandedRepo{db: s.db} }

// Aliases returns the alias-table adapter
func (s *Store) Aliases() *AliasRepo { return &AliasRepo{db: s.db} }

// LabelMap returns the label-map adapter
func (s *Store) LabelMap() *LabelMapRepo { return &LabelMapRepo{db: s.db} }

func (s *Store) applySchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS foods_generic (
            source_id TEXT PRIMARY KEY,
            name TEXT NOT NULL,
            name_lower TEXT NOT NULL,
            energy_kcal REAL,
            protein_g REAL,
            carb_g REAL,
            fat_g REAL,
            fiber_g REAL,
            sugar_g REAL,
            saturated_fat_g REAL,
            sodium_mg REAL,
            category TEXT NOT NULL DEFAULT ''
        )`,
		`CREATE INDEX IF NOT EXISTS idx_foods_generic_name_lower ON foods_generic(name_lower)`,
		`CREATE TABLE IF NOT EXISTS foods_branded (
            barcode TEXT PRIMARY KEY,
            name TEXT NOT NULL,
            name_lower TEXT NOT NULL,
            energy_kcal REAL,
            protein_g REAL,
            carb_g REAL,
            fat_g REAL,
            fiber_g REAL,
            sugar_g REAL,
            saturated_fat_g REAL,
            sodium_mg REAL,
            processing_code INTEGER,
            quality_grade TEXT NOT NULL DEFAULT '',
            additives TEXT NOT NULL DEFAULT '',
            categories TEXT NOT NULL DEFAULT '',
            brands TEXT NOT NULL DEFAULT '',
            countries TEXT NOT NULL DEFAULT ''
        )`,
		`CREATE INDEX IF NOT EXISTS idx_foods_branded_name_lower ON foods_branded(name_lower)`,
		`CREATE TABLE IF NOT EXISTS aliases (
            alias TEXT NOT NULL,
            alias_lower TEXT NOT NULL,
            canonical_source TEXT NOT NULL,
            canonical_id TEXT NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS idx_aliases_alias_lower ON aliases(alias_lower)`,
		`CREATE TABLE IF NOT EXISTS label_map (
            label TEXT PRIMARY KEY,
            canonical_source TEXT NOT NULL,
            canonical_id TEXT NOT NULL,
            confidence REAL NOT NULL DEFAULT 1.0
        )`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

// GenericRepo reads the foods_generic table
type GenericRepo struct {
	db *sql.DB
}

const genericColumns = `source_id, name, name_lower,
    energy_kcal, protein_g, carb_g, fat_g, fiber_g, sugar_g, saturated_fat_g, sodium_mg,
    category`

// GetByID fetches one generic food by its source-local key
func (r *GenericRepo) GetByID(ctx context.Context, sourceID string) (*domain.FoodEntry, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+genericColumns+` FROM foods_generic WHERE source_id = ?`, sourceID)
	return scanGeneric(row)
}

// SearchByName returns up to limit generic foods whose lowercase name
// contains the given substring
func (r *GenericRepo) SearchByName(ctx context.Context, nameSubstring string, limit int) ([]domain.FoodEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+genericColumns+` FROM foods_generic
         WHERE instr(name_lower, ?) > 0 LIMIT ?`, nameSubstring, limit)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	defer rows.Close()

	var entries []domain.FoodEntry
	for rows.Next() {
		entry, err := scanGeneric(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, wrapStoreErr(rows.Err())
}

// BrandedRepo reads the foods_branded table
type BrandedRepo struct {
	db *sql.DB
}

const brandedColumns = `barcode, name, name_lower,
    energy_kcal, protein_g, carb_g, fat_g, fiber_g, sugar_g, saturated_fat_g, sodium_mg,
    processing_code, quality_grade, additives, categories, brands, countries`

// GetByBarcode fetches one branded product by barcode
func (r *BrandedRepo) GetByBarcode(ctx context.Context, barcode string) (*domain.BrandedFoodEntry, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+brandedColumns+` FROM foods_branded WHERE barcode = ?`, barcode)
	return scanBranded(row)
}

// SearchByName returns up to limit branded products whose lowercase name
// contains the given substring
func (r *BrandedRepo) SearchByName(ctx context.Context, nameSubstring string, limit int) ([]domain.BrandedFoodEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+brandedColumns+` FROM foods_branded
         WHERE instr(name_lower, ?) > 0 LIMIT ?`, nameSubstring, limit)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	defer rows.Close()

	var entries []domain.BrandedFoodEntry
	for rows.Next() {
		entry, err := scanBranded(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, wrapStoreErr(rows.Err())
}

// AliasRepo reads the aliases table
type AliasRepo struct {
	db *sql.DB
}

// SearchByAlias returns up to limit aliases whose lowercase text contains
// the given substring
func (r *AliasRepo) SearchByAlias(ctx context.Context, aliasSubstring string, limit int) ([]domain.Alias, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT alias, alias_lower, canonical_source, canonical_id FROM aliases
         WHERE instr(alias_lower, ?) > 0 LIMIT ?`, aliasSubstring, limit)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	defer rows.Close()

	var aliases []domain.Alias
	for rows.Next() {
		var alias domain.Alias
		var source string
		if err := rows.Scan(&alias.Alias, &alias.AliasLower, &source, &alias.Target.Key); err != nil {
			return nil, wrapStoreErr(err)
		}
		alias.Target.Source = domain.Source(source)
		aliases = append(aliases, alias)
	}
	return aliases, wrapStoreErr(rows.Err())
}

// LabelMapRepo reads the label_map table
type LabelMapRepo struct {
	db *sql.DB
}

// GetByLabel fetches one label mapping by its exact external label
func (r *LabelMapRepo) GetByLabel(ctx context.Context, label string) (*domain.LabelMapping, error) {
	var (
		mapping domain.LabelMapping
		source  string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT label, canonical_source, canonical_id, confidence FROM label_map WHERE label = ?`,
		label).Scan(&mapping.Label, &source, &mapping.Target.Key, &mapping.Confidence)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrFoodNotFound
	}
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	mapping.Target.Source = domain.Source(source)
	return &mapping, nil
}

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanGeneric(row scanner) (*domain.FoodEntry, error) {
	var (
		entry domain.FoodEntry
		vec   [8]sql.NullFloat64
	)
	err := row.Scan(
		&entry.SourceID, &entry.Name, &entry.NameLower,
		&vec[0], &vec[1], &vec[2], &vec[3], &vec[4], &vec[5], &vec[6], &vec[7],
		&entry.Category,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrFoodNotFound
	}
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	entry.Nutrients = nutrientsFromColumns(vec)
	return &entry, nil
}

func scanBranded(row scanner) (*domain.BrandedFoodEntry, error) {
	var (
		entry      domain.BrandedFoodEntry
		vec        [8]sql.NullFloat64
		processing sql.NullInt64
		additives  string
		categories string
	)
	err := row.Scan(
		&entry.Barcode, &entry.Name, &entry.NameLower,
		&vec[0], &vec[1], &vec[2], &vec[3], &vec[4], &vec[5], &vec[6], &vec[7],
		&processing, &entry.QualityGrade, &additives, &categories, &entry.Brands, &entry.Countries,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrFoodNotFound
	}
	if err != nil {
		return nil, wrapStoreErr(err)
	}

	entry.Nutrients = nutrientsFromColumns(vec)
	if processing.Valid {
		code := int(processing.Int64)
		entry.ProcessingCode = &code
	}
	entry.Additives = parseListField(additives)
	entry.Categories = parseListField(categories)
	return &entry, nil
}

func nutrientsFromColumns(vec [8]sql.NullFloat64) domain.NutrientVector {
	return domain.NutrientVector{
		EnergyKcal:    nullableFloat(vec[0]),
		ProteinG:      nullableFloat(vec[1]),
		CarbG:         nullableFloat(vec[2]),
		FatG:          nullableFloat(vec[3]),
		FiberG:        nullableFloat(vec[4]),
		SugarG:        nullableFloat(vec[5]),
		SaturatedFatG: nullableFloat(vec[6]),
		SodiumMg:      nullableFloat(vec[7]),
	}
}

func nullableFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	value := v.Float64
	return &value
}

// parseListField decodes a stored list that may be a JSON array or a
// comma-joined string; import feeds are inconsistent about the format.
// Parsing here keeps that ambiguity out of the scoring core.
func parseListField(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	if strings.HasPrefix(raw, "[") {
		var items []string
		if err := json.Unmarshal([]byte(raw), &items); err == nil {
			return trimListItems(items)
		}
	}
	return trimListItems(strings.Split(raw, ","))
}

func trimListItems(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func wrapStoreErr(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
}
