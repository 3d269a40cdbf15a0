package souk

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"io"

	"github.com/tfkr-ae/souk/domain"
	"go.uber.org/zap"
)

// GatewayConfig carries the gate state for the write operations. It is a
// plain value injected at construction so tests can swap it without touching
// persisted configuration.
type GatewayConfig struct {
	Enabled bool   // Marketplace feature flag.
	PSK     string // Configured pre-shared key.
}

// Gateway authorizes and sequences the two write operations against the
// catalog store and the asset directory store. Creating a package touches both
// resources; the gateway guarantees that either both succeed or neither stays
// visible, by deleting the catalog record when the directory step fails.
type Gateway struct {
	cfg    GatewayConfig
	repo   Repository
	assets AssetStore
	logger *zap.Logger
}

// NewGateway creates a Gateway with explicit configuration and collaborators.
func NewGateway(cfg GatewayConfig, repo Repository, assets AssetStore, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{
		cfg:    cfg,
		repo:   repo,
		assets: assets,
		logger: logger,
	}
}

// Authorize checks the marketplace gate for a supplied pre-shared key.
// It returns domain.ErrMarketplaceDisabled when the feature flag is off and
// domain.ErrUnauthorized when the key does not match the configured secret.
func (g *Gateway) Authorize(psk string) error {
	if !g.cfg.Enabled {
		return domain.ErrMarketplaceDisabled
	}
	if subtle.ConstantTimeCompare([]byte(psk), []byte(g.cfg.PSK)) != 1 {
		return domain.ErrUnauthorized
	}
	return nil
}

// CreatePackage validates the record and creates the catalog row and its asset
// directory as one logical unit. The directory is checked before the insert,
// and a directory creation failure rolls the insert back, so a conflicting or
// failed create never leaves a stray catalog row behind.
// It returns domain.ErrConflict when either resource already exists.
func (g *Gateway) CreatePackage(pkg *domain.Package) error {
	if err := pkg.Validate(); err != nil {
		return fmt.Errorf("validating package : %w", err)
	}

	if g.assets.Exists(pkg.Name) {
		return fmt.Errorf("package %s : %w", pkg.Name, domain.ErrConflict)
	}

	if err := g.repo.CreatePackage(pkg); err != nil {
		return err
	}

	if err := g.assets.Create(pkg.Name); err != nil {
		if delErr := g.repo.DeletePackage(pkg.Name); delErr != nil {
			// The record survived a failed directory step; the two stores are
			// now inconsistent and need operator attention.
			g.logger.Error("rollback failed after asset directory error",
				zap.String("package", pkg.Name),
				zap.NamedError("create_error", err),
				zap.NamedError("rollback_error", delErr))
		}
		if errors.Is(err, domain.ErrConflict) {
			return fmt.Errorf("package %s : %w", pkg.Name, domain.ErrConflict)
		}
		return fmt.Errorf("creating asset directory for %s : %w", pkg.Name, err)
	}

	g.logger.Info("package created",
		zap.String("package", pkg.Name),
		zap.String("type", string(pkg.Type)))
	return nil
}

// UploadAsset streams an uploaded file into the package's asset directory at
// its original filename, overwriting any previous file. The directory is never
// created implicitly: its absence surfaces as domain.ErrNotFound, which the
// HTTP layer reports as a generic upload failure.
func (g *Gateway) UploadAsset(packageName string, filename string, r io.Reader) (int64, error) {
	written, contentType, err := g.assets.WriteFile(packageName, filename, r)
	if err != nil {
		return written, fmt.Errorf("uploading %s to package %s : %w", filename, packageName, err)
	}

	g.logger.Info("asset uploaded",
		zap.String("package", packageName),
		zap.String("filename", filename),
		zap.String("content_type", contentType),
		zap.Int64("bytes", written))
	return written, nil
}
