package domain

import "errors"

var (
	// ErrProductNotFound is returned when a source has no record for a query
	ErrProductNotFound = errors.New("product not found in USDA database")

	// ErrUSDAAPIFailure is returned when USDA API request fails
	ErrUSDAAPIFailure = errors.New("USDA API request failed")

	// ErrMissingAPIKey is returned when the USDA client has no API key
	ErrMissingAPIKey = errors.New("USDA API key not configured")

	// ErrSourceUnavailable is returned when a single nutrition source could not be queried
	ErrSourceUnavailable = errors.New("nutrition source unavailable")

	// ErrNoMatchFound is returned when no source produced a candidate
	ErrNoMatchFound = errors.New("no match found")

	// ErrMalformedGuess is returned when a guess has no usable food name
	ErrMalformedGuess = errors.New("malformed food guess")

	// ErrItemProcessing is returned when enriching one item failed unexpectedly
	ErrItemProcessing = errors.New("item processing failed")

	// ErrNoFoodsFound is returned when a vision answer contains no valid food item
	ErrNoFoodsFound = errors.New("no valid food items found")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrUnknownCuisine is returned when a cuisine filter names no known profile
	ErrUnknownCuisine = errors.New("unknown cuisine")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)
