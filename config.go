package souk

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the marketplace configuration, persisted through Viper in the
// configuration directory. The feature flag and pre-shared key gate all write
// endpoints; they are read here once and injected explicitly into the mutation
// gateway so tests can swap them without ambient globals.
type Config struct {
	viper              *viper.Viper
	ConfigDir          string `mapstructure:"config_dir"`          // Current config dir
	MarketplaceEnabled bool   `mapstructure:"marketplace_enabled"` // Feature flag gating all write endpoints
	MarketplacePSK     string `mapstructure:"marketplace_psk"`     // Pre-shared key required by write endpoints
	DefaultAddress     string `mapstructure:"default_address"`     // Listen address for the HTTP server
	DefaultPort        string `mapstructure:"default_port"`        // Listen port for the HTTP server
	AssetsDir          string `mapstructure:"assets_dir"`          // Root directory for package asset directories
	DBFile             string `mapstructure:"db_file"`             // SQLite database file path
}

// SetMarketplaceEnabled flips the marketplace feature flag and persists the change.
func (cfg *Config) SetMarketplaceEnabled(enabled bool) error {
	cfg.MarketplaceEnabled = enabled
	cfg.viper.Set("marketplace_enabled", enabled)
	if err := cfg.viper.WriteConfig(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}
	if err := cfg.viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("unmarshalling config to struct : %w", err)
	}
	return nil
}

// SetMarketplacePSK updates the pre-shared key and persists the change.
func (cfg *Config) SetMarketplacePSK(psk string) error {
	cfg.MarketplacePSK = psk
	cfg.viper.Set("marketplace_psk", psk)
	if err := cfg.viper.WriteConfig(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}
	if err := cfg.viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("unmarshalling config to struct : %w", err)
	}
	return nil
}
