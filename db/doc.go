// Package db provides the database layer for the Souk marketplace.
// It encapsulates all interactions with the underlying SQL database, managing
// data persistence for the package catalog and the user's installed package
// collections (themes and plugins).
//
// This package is responsible for:
// - Establishing and managing database connections (`db.go`).
// - Defining database-specific data structures that map to SQL table schemas.
// - Implementing repository interfaces (e.g., `PackageRepository`, `SettingsRepository`)
//   to perform CRUD operations.
// - Handling data conversion between domain-specific structs (from the `domain` package)
//   and database-friendly structs.
// - Managing database migrations (`migrations/`).
// - Providing common database utility types (`types.go`).
package db
