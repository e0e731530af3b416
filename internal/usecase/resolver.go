package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/nutrilens/backend/internal/domain"
)

const (
	// defaultMinScore is the fuzzy-match floor when the caller passes none
	defaultMinScore = 60.0
	// defaultSearchLimit bounds result lists when no limit is given
	defaultSearchLimit = 10
	// poolMultiplier caps the per-source candidate pool relative to the
	// requested limit; the fuzzy scorer never runs against the full corpus
	poolMultiplier = 2
)

// ResolverConfig holds configuration for the resolver
type ResolverConfig struct {
	MinScore           float64
	MaxLimit           int
	CacheTTL           time.Duration
	EnableDebugLogging bool
}

// Resolver maps an informal food reference (vision label, free text,
// barcode) to one canonical nutrition record. Lookup order: exact label-map
// hit first, then fuzzy multi-source search.
type Resolver struct {
	labelMap domain.LabelMapRepository
	cache    domain.CacheRepository

	// closed set of fuzzy-search sources, iterated in order:
	// generic, branded, alias
	producers []candidateProducer

	fetcher  *recordFetcher
	minScore float64
	maxLimit int
	cacheTTL time.Duration
	debug    bool
}

// NewResolver creates a resolver over the three food sources. cache may be
// nil to disable resolve caching.
func NewResolver(
	generic domain.GenericFoodRepository,
	branded domain.BrandedFoodRepository,
	aliases domain.AliasRepository,
	labelMap domain.LabelMapRepository,
	cache domain.CacheRepository,
	config ResolverConfig,
) *Resolver {
	minScore := config.MinScore
	if minScore <= 0 {
		minScore = defaultMinScore
	}

	maxLimit := config.MaxLimit
	if maxLimit <= 0 {
		maxLimit = 50
	}

	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 24 * time.Hour
	}

	fetcher := &recordFetcher{generic: generic, branded: branded}

	return &Resolver{
		labelMap: labelMap,
		cache:    cache,
		producers: []candidateProducer{
			&genericProducer{repo: generic},
			&brandedProducer{repo: branded},
			&aliasProducer{repo: aliases, generic: generic, branded: branded},
		},
		fetcher:  fetcher,
		minScore: minScore,
		maxLimit: maxLimit,
		cacheTTL: cacheTTL,
		debug:    config.EnableDebugLogging,
	}
}

// Resolve returns the single best canonical food for a query.
// An exact label-map entry always wins over fuzzy search; a dangling
// label-map target degrades to a fuzzy miss, never an error.
func (r *Resolver) Resolve(ctx context.Context, query, country string) (*domain.CanonicalFood, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil, domain.ErrInvalidQuery
	}

	cacheKey := resolveCacheKey(trimmed, country)
	if r.cache != nil {
		if food, err := r.cache.Get(ctx, cacheKey); err == nil && food != nil {
			if r.debug {
				log.Printf("[RESOLVE] cache hit for %q", trimmed)
			}
			return food, nil
		}
	}

	// 1. Exact label-map lookup
	mapping, err := r.labelMap.GetByLabel(ctx, trimmed)
	switch {
	case err == nil:
		food, fetchErr := r.fetcher.fetch(ctx, mapping.Target)
		switch {
		case fetchErr == nil:
			if r.debug {
				log.Printf("[RESOLVE] label map hit: %q -> %s", trimmed, mapping.Target)
			}
			r.cacheResult(ctx, cacheKey, food)
			return food, nil
		case errors.Is(fetchErr, domain.ErrFoodNotFound):
			// Dangling mapping target; fall through to fuzzy search
			if r.debug {
				log.Printf("[RESOLVE] dangling label map target %s for %q", mapping.Target, trimmed)
			}
		default:
			return nil, fetchErr
		}
	case errors.Is(err, domain.ErrFoodNotFound):
		// No mapping for this label; fall through
	default:
		return nil, err
	}

	// 2. Fuzzy multi-source fallback with limit 1
	results, err := r.Search(ctx, trimmed, 1, country, 0)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, domain.ErrFoodNotFound
	}

	food := results[0].Food
	r.cacheResult(ctx, cacheKey, &food)
	return &food, nil
}

// Search runs the fuzzy multi-source pipeline and returns the ranked,
// deduplicated result list. minScore <= 0 selects the configured default.
func (r *Resolver) Search(ctx context.Context, query string, limit int, country string, minScore float64) ([]domain.SearchResult, error) {
	queryLower := strings.ToLower(strings.TrimSpace(query))
	if queryLower == "" {
		return nil, domain.ErrInvalidQuery
	}

	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > r.maxLimit {
		limit = r.maxLimit
	}
	if minScore <= 0 {
		minScore = r.minScore
	}
	pool := limit * poolMultiplier
	countryLower := strings.ToLower(strings.TrimSpace(country))

	var ranked []scoredCandidate
	for _, producer := range r.producers {
		candidates, err := producer.candidates(ctx, queryLower, pool)
		if err != nil {
			return nil, err
		}

		for _, cand := range candidates {
			score := TokenSetRatio(queryLower, cand.matchText)
			if score < minScore {
				continue
			}
			// Country tags only ever exclude; their absence never does
			if countryLower != "" && cand.countries != "" &&
				!strings.Contains(strings.ToLower(cand.countries), countryLower) {
				continue
			}
			ranked = append(ranked, scoredCandidate{candidate: cand, score: score})
		}
	}

	// Stable sort keeps first-seen order on ties (generic, branded, alias)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	// Deduplicate by canonical id; the first occurrence is the best score
	seen := make(map[domain.CanonicalID]bool, len(ranked))
	results := make([]domain.SearchResult, 0, limit)
	for _, cand := range ranked {
		id := cand.food.ID()
		if seen[id] {
			continue
		}
		seen[id] = true
		results = append(results, domain.SearchResult{Food: cand.food, Score: cand.score})
		if len(results) >= limit {
			break
		}
	}

	if r.debug {
		log.Printf("[SEARCH] %q -> %d results (pool %d/source, min score %.0f)",
			queryLower, len(results), pool, minScore)
	}
	return results, nil
}

// LookupBarcode fetches a product by barcode/GTIN, trying the branded table
// first and falling back to generic foods (some carry barcodes as keys)
func (r *Resolver) LookupBarcode(ctx context.Context, gtin string) (*domain.CanonicalFood, error) {
	gtin = strings.TrimSpace(gtin)
	if gtin == "" {
		return nil, domain.ErrInvalidQuery
	}

	food, err := r.fetcher.fetch(ctx, domain.CanonicalID{Source: domain.SourceBranded, Key: gtin})
	if err == nil {
		return food, nil
	}
	if !errors.Is(err, domain.ErrFoodNotFound) {
		return nil, err
	}

	return r.fetcher.fetch(ctx, domain.CanonicalID{Source: domain.SourceGeneric, Key: gtin})
}

func (r *Resolver) cacheResult(ctx context.Context, key string, food *domain.CanonicalFood) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Set(ctx, key, food, r.cacheTTL); err != nil && r.debug {
		log.Printf("[RESOLVE] cache store failed: %v", err)
	}
}

func resolveCacheKey(query, country string) string {
	return fmt.Sprintf("resolve:%s:%s", strings.ToLower(query), strings.ToLower(country))
}

// recordFetcher fetches and formats one record by canonical id
type recordFetcher struct {
	generic domain.GenericFoodRepository
	branded domain.BrandedFoodRepository
}

func (f *recordFetcher) fetch(ctx context.Context, id domain.CanonicalID) (*domain.CanonicalFood, error) {
	switch id.Source {
	case domain.SourceGeneric:
		entry, err := f.generic.GetByID(ctx, id.Key)
		if err != nil {
			return nil, err
		}
		food := canonicalFromGeneric(entry)
		return &food, nil
	case domain.SourceBranded:
		entry, err := f.branded.GetByBarcode(ctx, id.Key)
		if err != nil {
			return nil, err
		}
		food := canonicalFromBranded(entry)
		return &food, nil
	default:
		return nil, domain.ErrInvalidCanonicalID
	}
}

// candidate is one fuzzy-search hit before scoring
type candidate struct {
	food domain.CanonicalFood
	// matchText is the normalized text the query is scored against: the
	// entry's lowercase name, or the alias text for alias hits
	matchText string
	// countries carries branded country tags for filtering; empty when
	// unknown or not applicable
	countries string
}

type scoredCandidate struct {
	candidate
	score float64
}

// candidateProducer is one source of fuzzy-search candidates. The set of
// implementations is closed: generic foods, branded products, aliases.
type candidateProducer interface {
	candidates(ctx context.Context, queryLower string, pool int) ([]candidate, error)
}

type genericProducer struct {
	repo domain.GenericFoodRepository
}

func (p *genericProducer) candidates(ctx context.Context, queryLower string, pool int) ([]candidate, error) {
	entries, err := p.repo.SearchByName(ctx, queryLower, pool)
	if err != nil {
		return nil, err
	}

	out := make([]candidate, 0, len(entries))
	for i := range entries {
		out = append(out, candidate{
			food:      canonicalFromGeneric(&entries[i]),
			matchText: entries[i].NameLower,
		})
	}
	return out, nil
}

type brandedProducer struct {
	repo domain.BrandedFoodRepository
}

func (p *brandedProducer) candidates(ctx context.Context, queryLower string, pool int) ([]candidate, error) {
	entries, err := p.repo.SearchByName(ctx, queryLower, pool)
	if err != nil {
		return nil, err
	}

	out := make([]candidate, 0, len(entries))
	for i := range entries {
		out = append(out, candidate{
			food:      canonicalFromBranded(&entries[i]),
			matchText: entries[i].NameLower,
			countries: entries[i].Countries,
		})
	}
	return out, nil
}

type aliasProducer struct {
	repo    domain.AliasRepository
	generic domain.GenericFoodRepository
	branded domain.BrandedFoodRepository
}

func (p *aliasProducer) candidates(ctx context.Context, queryLower string, pool int) ([]candidate, error) {
	aliases, err := p.repo.SearchByAlias(ctx, queryLower, pool)
	if err != nil {
		return nil, err
	}

	out := make([]candidate, 0, len(aliases))
	for _, alias := range aliases {
		// An alias is scored on its own text but returns the target record.
		// Dangling or malformed targets are skipped, never an error.
		switch alias.Target.Source {
		case domain.SourceGeneric:
			entry, err := p.generic.GetByID(ctx, alias.Target.Key)
			if errors.Is(err, domain.ErrFoodNotFound) {
				continue
			}
			if err != nil {
				return nil, err
			}
			out = append(out, candidate{
				food:      canonicalFromGeneric(entry),
				matchText: alias.AliasLower,
			})
		case domain.SourceBranded:
			entry, err := p.branded.GetByBarcode(ctx, alias.Target.Key)
			if errors.Is(err, domain.ErrFoodNotFound) {
				continue
			}
			if err != nil {
				return nil, err
			}
			out = append(out, candidate{
				food:      canonicalFromBranded(entry),
				matchText: alias.AliasLower,
				countries: entry.Countries,
			})
		}
	}
	return out, nil
}
