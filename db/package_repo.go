package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tfkr-ae/souk/domain"
)

var _ domain.PackageRepository = (*Repository)(nil)

// pageSize is the fixed number of catalog records per listing page.
const pageSize = 20

// dbPackage represents the structure of a catalog record as stored in the database.
// It uses the Tags type for its tags column to handle JSON serialization.
type dbPackage struct {
	Name            string    `db:"name"`
	Title           string    `db:"title"`
	Description     string    `db:"description"`
	Author          string    `db:"author"`
	Image           string    `db:"image"`
	Tags            Tags      `db:"tags"`
	Version         string    `db:"version"`
	BackgroundImage string    `db:"background_image"`
	BackgroundVideo string    `db:"background_video"`
	Payload         string    `db:"payload"`
	Type            string    `db:"type"`
	CreatedAt       time.Time `db:"created_at"`
}

// toDomainPackage converts a dbPackage struct to its domain.Package representation.
func toDomainPackage(dbPkg *dbPackage) *domain.Package {
	return &domain.Package{
		Name:            dbPkg.Name,
		Title:           dbPkg.Title,
		Description:     dbPkg.Description,
		Author:          dbPkg.Author,
		Image:           dbPkg.Image,
		Tags:            []string(dbPkg.Tags),
		Version:         dbPkg.Version,
		BackgroundImage: dbPkg.BackgroundImage,
		BackgroundVideo: dbPkg.BackgroundVideo,
		Payload:         dbPkg.Payload,
		Type:            domain.PackageType(dbPkg.Type),
		CreatedAt:       dbPkg.CreatedAt,
	}
}

// ListPackages implements the domain.PackageRepository interface.
// It retrieves one page of catalog records ordered by insertion (rowid), so the
// ordering is stable across identical queries, together with the total page count.
func (repo *Repository) ListPackages(page int) ([]*domain.Package, int, error) {
	if page < 1 {
		return nil, 0, fmt.Errorf("page must be >= 1, got %d", page)
	}

	count, err := repo.CountPackages()
	if err != nil {
		return nil, 0, fmt.Errorf("counting packages for page %d: %w", page, err)
	}
	totalPages := (count + pageSize - 1) / pageSize

	var dbPkgs []*dbPackage
	query := `SELECT name, title, description, author, image, tags, version,
	                 background_image, background_video, payload, type, created_at
	          FROM package ORDER BY rowid ASC LIMIT ? OFFSET ?`

	err = repo.dbConn.Select(&dbPkgs, query, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("fetching packages page %d: %w", page, err)
	}

	domainPkgs := make([]*domain.Package, len(dbPkgs))
	for i, dbPkg := range dbPkgs {
		domainPkgs[i] = toDomainPackage(dbPkg)
	}
	return domainPkgs, totalPages, nil
}

// GetPackageByName implements the domain.PackageRepository interface.
// It retrieves a single catalog record by its name and converts it to a domain.Package.
func (repo *Repository) GetPackageByName(name string) (*domain.Package, error) {
	var dbPkg dbPackage
	query := `SELECT name, title, description, author, image, tags, version,
	                 background_image, background_video, payload, type, created_at
	          FROM package WHERE name = ?`

	err := repo.dbConn.Get(&dbPkg, query, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("fetching package %s: %w", name, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("fetching package %s: %w", name, err)
	}

	return toDomainPackage(&dbPkg), nil
}

// CreatePackage implements the domain.PackageRepository interface.
// Uniqueness on the package name is enforced by the primary key constraint and
// surfaced as domain.ErrConflict.
func (repo *Repository) CreatePackage(pkg *domain.Package) error {
	query := `INSERT INTO package (name, title, description, author, image, tags, version,
	                               background_image, background_video, payload, type, created_at)
	          VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`

	_, err := repo.dbConn.Exec(query,
		pkg.Name, pkg.Title, pkg.Description, pkg.Author, pkg.Image, Tags(pkg.Tags),
		pkg.Version, pkg.BackgroundImage, pkg.BackgroundVideo, pkg.Payload, string(pkg.Type),
		time.Now().UTC())
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("creating package %s: %w", pkg.Name, domain.ErrConflict)
		}
		return fmt.Errorf("creating package %s: %w", pkg.Name, err)
	}

	return nil
}

// DeletePackage implements the domain.PackageRepository interface.
// It is the compensating action used by the mutation gateway when the asset
// directory step of a create fails after the record was inserted.
func (repo *Repository) DeletePackage(name string) error {
	query := `DELETE FROM package WHERE name = ?`

	result, err := repo.dbConn.Exec(query, name)
	if err != nil {
		return fmt.Errorf("deleting package %s: %w", name, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("fetching rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("deleting package %s: %w", name, domain.ErrNotFound)
	}

	return nil
}

// CountPackages implements the domain.PackageRepository interface.
func (repo *Repository) CountPackages() (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM package`

	err := repo.dbConn.Get(&count, query)
	if err != nil {
		return 0, fmt.Errorf("counting packages: %w", err)
	}

	return count, nil
}
