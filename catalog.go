package souk

import (
	"errors"
	"fmt"

	"github.com/tfkr-ae/souk/domain"
)

// ErrInvalidPage is returned by ListPage for page values below 1. The HTTP
// layer short-circuits on it rather than computing a payload alongside the
// error status.
var ErrInvalidPage = errors.New("page must be a positive number")

// PublicPackage is the public field set of a catalog record, as served by the
// read endpoints and consumed by the client install state machine.
type PublicPackage struct {
	Title           string             `json:"title"`
	Description     string             `json:"description"`
	Image           string             `json:"image"`
	Author          string             `json:"author"`
	Tags            []string           `json:"tags"`
	Version         string             `json:"version"`
	BackgroundImage string             `json:"background_image"`
	BackgroundVideo string             `json:"background_video"`
	Payload         string             `json:"payload"`
	Type            domain.PackageType `json:"type"`
}

// CatalogPage is one page of the catalog, keyed by package name.
type CatalogPage struct {
	Assets map[string]PublicPackage `json:"assets"`
	Pages  int                      `json:"pages"`
}

// toPublicPackage converts a domain.Package to its public representation.
func toPublicPackage(pkg *domain.Package) PublicPackage {
	tags := pkg.Tags
	if tags == nil {
		tags = []string{}
	}
	return PublicPackage{
		Title:           pkg.Title,
		Description:     pkg.Description,
		Image:           pkg.Image,
		Author:          pkg.Author,
		Tags:            tags,
		Version:         pkg.Version,
		BackgroundImage: pkg.BackgroundImage,
		BackgroundVideo: pkg.BackgroundVideo,
		Payload:         pkg.Payload,
		Type:            pkg.Type,
	}
}

// Catalog provides the read-only paginated and single-item catalog views.
// Both operations are side-effect free.
type Catalog struct {
	repo Repository
}

// NewCatalog creates a Catalog backed by the given repository.
func NewCatalog(repo Repository) *Catalog {
	return &Catalog{repo: repo}
}

// ListPage returns one page of packages keyed by name plus the total page
// count. Page size is fixed at 20; a page beyond the last yields an empty
// asset map, while a page below 1 yields ErrInvalidPage.
func (c *Catalog) ListPage(page int) (*CatalogPage, error) {
	if page < 1 {
		return nil, ErrInvalidPage
	}

	pkgs, totalPages, err := c.repo.ListPackages(page)
	if err != nil {
		return nil, fmt.Errorf("listing catalog page %d : %w", page, err)
	}

	assets := make(map[string]PublicPackage, len(pkgs))
	for _, pkg := range pkgs {
		assets[pkg.Name] = toPublicPackage(pkg)
	}

	return &CatalogPage{Assets: assets, Pages: totalPages}, nil
}

// GetPackage returns the public field set of a single package.
// It propagates domain.ErrNotFound for unknown names.
func (c *Catalog) GetPackage(name string) (*PublicPackage, error) {
	pkg, err := c.repo.GetPackageByName(name)
	if err != nil {
		return nil, fmt.Errorf("getting package %s : %w", name, err)
	}

	public := toPublicPackage(pkg)
	return &public, nil
}
