package domain

import "errors"

var (
	// ErrFoodNotFound is returned when a query, barcode or canonical id has
	// no resolvable match. It is a normal outcome, not a failure.
	ErrFoodNotFound = errors.New("food not found")

	// ErrInvalidQuery is returned for empty or whitespace-only queries
	ErrInvalidQuery = errors.New("query must not be empty")

	// ErrInvalidPortion is returned when the portion size is negative
	ErrInvalidPortion = errors.New("portion grams must not be negative")

	// ErrInvalidCanonicalID is returned for a malformed canonical id string
	ErrInvalidCanonicalID = errors.New("invalid canonical id")

	// ErrSourceUnavailable is returned when a source adapter cannot be
	// reached; the core surfaces it without retrying
	ErrSourceUnavailable = errors.New("food source unavailable")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)
