package souk

import (
	"fmt"
	"log"
	"os"
	"path"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// WithConfigDir configures the marketplace to use the specified configuration directory.
// It creates the directory if it doesn't exist and initializes the configuration file using Viper.
//
// Parameters:
//   - appConfigDir: Path to the configuration directory
//
// Returns:
//   - func(*Marketplace) error: Configuration function that sets up the config directory
func WithConfigDir(appConfigDir string) func(*Marketplace) error {
	return func(market *Marketplace) error {
		_, err := os.ReadDir(appConfigDir)
		if err != nil {
			if os.IsNotExist(err) {
				log.Println("[*] creating config dir")
				err := os.MkdirAll(appConfigDir, 0700)
				if err != nil {
					return fmt.Errorf("creating config dir %s: %w", appConfigDir, err)
				}
			} else {
				return fmt.Errorf("checking if directory exists %s: %w", appConfigDir, err)
			}
		}
		// At this point, the directory exists or was created successfully
		market.ConfigDir = appConfigDir

		// VIPER
		v := viper.New()
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(appConfigDir)
		v.SetDefault("marketplace_enabled", false)
		v.SetDefault("marketplace_psk", "")
		v.SetDefault("default_address", "127.0.0.1")
		v.SetDefault("default_port", "8787")
		v.SetDefault("assets_dir", path.Join(appConfigDir, "assets"))
		v.SetDefault("db_file", path.Join(appConfigDir, "souk.db"))
		err = v.ReadInConfig()
		if err != nil {
			// need to check if the error is config file doesn't exist
			if _, ok := err.(viper.ConfigFileNotFoundError); ok {
				// Config file is not found
				err = v.SafeWriteConfig()
				if err != nil {
					return fmt.Errorf("writing config file : %w", err)
				}
			} else {
				return fmt.Errorf("reading config file : %w", err)
			}
		}
		if err := v.Unmarshal(&market.Config); err != nil {
			return fmt.Errorf("unmarshalling config to struct : %w", err)
		}

		market.Config.viper = v
		market.Config.ConfigDir = appConfigDir
		// Rewrite entire file from struct
		err = v.WriteConfig()
		if err != nil {
			return fmt.Errorf("writing config after unmarshalling : %w", err)
		}
		return nil
	}
}

// WithRepo will set the catalog store consumed by the marketplace,
// closing any repository that was configured before it.
func WithRepo(repo Repository) func(*Marketplace) error {
	return func(market *Marketplace) error {
		if market.Repo != nil {
			if err := market.Repo.Close(); err != nil {
				return err
			}
			market.Repo = nil
		}
		market.Repo = repo
		return nil
	}
}

// WithAssets sets the asset directory store consumed by the marketplace.
func WithAssets(store AssetStore) func(*Marketplace) error {
	return func(market *Marketplace) error {
		market.Assets = store
		return nil
	}
}

// WithLogger sets the structured logger shared by the gateway and server.
// A nil logger is replaced with a no-op logger so call sites stay safe.
func WithLogger(logger *zap.Logger) func(*Marketplace) error {
	return func(market *Marketplace) error {
		if logger == nil {
			logger = zap.NewNop()
		}
		market.Logger = logger
		return nil
	}
}
