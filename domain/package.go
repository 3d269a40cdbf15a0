package domain

import "time"

// PackageType identifies what a marketplace package installs as: a theme, or a
// plugin running in one of the two plugin execution contexts.
type PackageType string

const (
	TypeTheme      PackageType = "theme"       // CSS/media theme
	TypePluginPage PackageType = "plugin-page" // plugin running in page context
	TypePluginSW   PackageType = "plugin-sw"   // plugin running as a service worker
)

// Valid reports whether the type is one of the known variants.
func (t PackageType) Valid() bool {
	switch t {
	case TypeTheme, TypePluginPage, TypePluginSW:
		return true
	}
	return false
}

// Package is a catalog record for a distributable package. The Name doubles as
// the name of the asset directory holding the package's media files; a record
// without its directory (or the reverse) is an inconsistent state the mutation
// path must not introduce.
type Package struct {
	Name            string      // Unique identifier, immutable after creation.
	Title           string      // Display title.
	Description     string      // Display description.
	Author          string      // Display author name.
	Image           string      // Relative media filename inside the asset directory.
	Tags            []string    // Optional unordered tags.
	Version         string      // Opaque version string, no ordering semantics.
	BackgroundImage string      // Optional relative filename.
	BackgroundVideo string      // Optional relative filename.
	Payload         string      // Inline code or relative filename, interpreted per Type.
	Type            PackageType // theme | plugin-page | plugin-sw.
	CreatedAt       time.Time   // Set by the store on insert.
}

// Validate checks the record at the boundary before it reaches the store.
func (p *Package) Validate() error {
	if p.Name == "" {
		return ErrInvalidPackage
	}
	if !p.Type.Valid() {
		return ErrInvalidPackage
	}
	return nil
}

// PackageRepository defines the interface for the server-side catalog store.
type PackageRepository interface {
	// ListPackages retrieves one page of packages in stable insertion order,
	// along with the total number of pages. Page size is fixed at 20; a page
	// beyond the last yields an empty slice. Page values below 1 are a
	// caller error.
	ListPackages(page int) ([]*Package, int, error)

	// GetPackageByName retrieves a single package by its unique name.
	// It returns ErrNotFound if no package with the specified name exists.
	GetPackageByName(name string) (*Package, error)

	// CreatePackage inserts a new catalog record. It returns ErrConflict if
	// the name is already taken.
	CreatePackage(pkg *Package) error

	// DeletePackage removes a catalog record. It exists as the compensating
	// action for a failed asset directory creation and is not exposed to
	// clients.
	DeletePackage(name string) error

	// CountPackages returns the total number of catalog records.
	CountPackages() (int, error)
}
