package domain

import "errors"

var (
	// ErrInvalidSheetFormat marks a grid without a usable header structure.
	ErrInvalidSheetFormat = errors.New("invalid sheet format")
	// ErrSourceUnavailable wraps failures fetching a grid from its source.
	ErrSourceUnavailable = errors.New("inventory source unavailable")
	// ErrNoSnapshot is returned when no inventory data has been loaded yet.
	ErrNoSnapshot = errors.New("inventory data not loaded")
	// ErrInvalidFilter marks a malformed query filter.
	ErrInvalidFilter = errors.New("invalid filter")
)
