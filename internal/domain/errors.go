package domain

import "github.com/pkg/errors"

var (
	// ErrGuardUnavailable means the conflict check itself could not complete.
	// It is distinct from "no conflicts": a failed order fetch never passes
	// for an empty conflict set.
	ErrGuardUnavailable = errors.New("conflict check unavailable")

	// ErrRefreshFailed means at least one collection fetch failed during a
	// refresh; partial results are discarded, never merged.
	ErrRefreshFailed = errors.New("view refresh failed")

	ErrNotFound        = errors.New("resource not found")
	ErrInvalidID       = errors.New("invalid identifier")
	ErrNameRequired    = errors.New("product name is required")
	ErrInvalidPrice    = errors.New("product price must be non-negative")
	ErrInvalidQuantity = errors.New("order quantity must be positive")
	ErrInvalidAmount   = errors.New("order amount must be non-negative")
)
