// Package souk provides the package marketplace for a browser extension/proxy
// platform: a catalog of installable themes and plugins (CSS/JS payloads plus
// media assets), a gated mutation path that keeps catalog records and their
// backing asset directories consistent, and read-only paginated catalog views.
// It is designed to be decoupled from transport and GUI implementations; the
// server and client packages build the HTTP surface and the install state
// machine on top of it.
//
// The core functionality includes:
//   - SQLite-backed catalog store with paginated listing and point lookup
//   - One asset directory per package, mirroring the catalog record
//   - Pre-shared-key gated create/upload mutation gateway with rollback
//   - Remote package import from GitHub releases via a YAML manifest
package souk

import (
	"fmt"
	"io"

	"github.com/tfkr-ae/souk/domain"
	"go.uber.org/zap"
)

// Repository defines the methods consumed by the marketplace to interact with
// the SQLite backend. It provides an abstraction layer over the catalog store
// so the storage engine can be swapped in tests.
type Repository interface {
	ListPackages(page int) ([]*domain.Package, int, error)
	GetPackageByName(name string) (*domain.Package, error)
	CreatePackage(pkg *domain.Package) error
	DeletePackage(name string) error
	CountPackages() (int, error)
	Close() error
}

// AssetStore defines the methods consumed by the marketplace to manage the
// per-package asset directories that mirror catalog records.
type AssetStore interface {
	Exists(name string) bool
	Create(name string) error
	Remove(name string) error
	WriteFile(name string, filename string, r io.Reader) (int64, string, error)
	Path(name string, filename string) string
	Root() string
}

// Marketplace is the main struct that orchestrates the package catalog, the
// asset directories and the gated mutation path. It serves as the central
// coordinator for the Souk marketplace.
type Marketplace struct {
	ConfigDir string      // The configuration directory (defaults to the souk folder under the user configuration directory).
	Config    Config      // Viper-backed configuration (feature flag, pre-shared key, paths).
	Repo      Repository  // The catalog store.
	Assets    AssetStore  // The asset directory store.
	Logger    *zap.Logger // Structured logger shared by the gateway and server.

	Gateway *Gateway // Authorizes and sequences the write operations.
	Catalog *Catalog // Read-only catalog views.
}

// New creates a Marketplace and applies the given options. The Gateway and
// Catalog are wired once the repository and asset store are configured.
func New(options ...func(*Marketplace) error) (*Marketplace, error) {
	market := &Marketplace{}

	if err := market.WithOptions(options...); err != nil {
		return nil, err
	}

	return market, nil
}

// WithOptions applies a series of configuration functions to the marketplace instance.
// Each option function can modify the marketplace configuration and return an error if it fails.
//
// Parameters:
//   - options: Variadic list of configuration functions
//
// Returns:
//   - error: First error encountered from any option function
func (market *Marketplace) WithOptions(options ...func(*Marketplace) error) error {
	for _, option := range options {
		err := option(market)
		if err != nil {
			return fmt.Errorf("applying option on souk : %w", err)
		}
	}

	if market.Logger == nil {
		market.Logger = zap.NewNop()
	}

	// Options can arrive in any order and across multiple calls; rewire the
	// services once both stores are present.
	if market.Repo != nil && market.Assets != nil {
		market.Gateway = NewGateway(GatewayConfig{
			Enabled: market.Config.MarketplaceEnabled,
			PSK:     market.Config.MarketplacePSK,
		}, market.Repo, market.Assets, market.Logger)
		market.Catalog = NewCatalog(market.Repo)
	}
	return nil
}
