package catalog

import "errors"

var (
	// ErrNotFound is returned when a problem id is not in the catalog.
	ErrNotFound = errors.New("catalog: problem not found")

	// ErrIncompatibleBank is returned when a bank declares a format
	// version this build cannot read.
	ErrIncompatibleBank = errors.New("catalog: incompatible bank format")
)
