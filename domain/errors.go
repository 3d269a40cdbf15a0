package domain

import "errors"

// Sentinel errors shared across the marketplace. Callers resolve them with
// errors.Is at the boundary and translate them into client-facing statuses.
var (
	// ErrNotFound is returned when a package, asset directory or installed
	// entry does not exist.
	ErrNotFound = errors.New("package not found")

	// ErrConflict is returned when a package name is already taken, either
	// as a catalog row or as an asset directory.
	ErrConflict = errors.New("package already exists")

	// ErrUnauthorized is returned when the supplied pre-shared key does not
	// match the configured secret.
	ErrUnauthorized = errors.New("invalid pre-shared key")

	// ErrMarketplaceDisabled is returned when a write operation is attempted
	// while the marketplace feature flag is off.
	ErrMarketplaceDisabled = errors.New("marketplace is disabled")

	// ErrInvalidPackage is returned when a package record fails boundary
	// validation (missing name or unknown type variant).
	ErrInvalidPackage = errors.New("invalid package")
)
