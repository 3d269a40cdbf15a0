package souk

import (
	"os"
	"path"
	"testing"

	"go.uber.org/zap"
)

func TestWithConfigDir(t *testing.T) {
	t.Run("should create the directory and a config file with defaults", func(t *testing.T) {
		configDir := path.Join(t.TempDir(), "souk")

		market, err := New(WithConfigDir(configDir))
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		if _, err := os.Stat(path.Join(configDir, "config.yaml")); err != nil {
			t.Fatalf("wanted config file to be written: %v", err)
		}
		if market.Config.MarketplaceEnabled {
			t.Fatalf("wanted the marketplace to be disabled by default")
		}
		if market.Config.DefaultPort != "8787" {
			t.Fatalf("\nwanted:\n%q\ngot:\n%q", "8787", market.Config.DefaultPort)
		}
		if market.Config.AssetsDir != path.Join(configDir, "assets") {
			t.Fatalf("\nwanted:\n%q\ngot:\n%q", path.Join(configDir, "assets"), market.Config.AssetsDir)
		}
	})

	t.Run("should persist flag changes across loads", func(t *testing.T) {
		configDir := path.Join(t.TempDir(), "souk")

		market, err := New(WithConfigDir(configDir))
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if err := market.Config.SetMarketplaceEnabled(true); err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if err := market.Config.SetMarketplacePSK("secret"); err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		reloaded, err := New(WithConfigDir(configDir))
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if !reloaded.Config.MarketplaceEnabled {
			t.Fatalf("wanted the enabled flag to survive a reload")
		}
		if reloaded.Config.MarketplacePSK != "secret" {
			t.Fatalf("\nwanted:\n%q\ngot:\n%q", "secret", reloaded.Config.MarketplacePSK)
		}
	})
}

func TestWithLogger(t *testing.T) {
	t.Run("should replace a nil logger with a no-op logger", func(t *testing.T) {
		market, err := New(WithLogger(nil))
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if market.Logger == nil {
			t.Fatalf("wanted a non-nil logger")
		}
	})

	t.Run("should keep the provided logger", func(t *testing.T) {
		logger := zap.NewNop()

		market, err := New(WithLogger(logger))
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if market.Logger != logger {
			t.Fatalf("wanted the provided logger to be kept")
		}
	})
}

func TestWithOptions(t *testing.T) {
	t.Run("should wire gateway and catalog once both stores are set", func(t *testing.T) {
		market, err := New()
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if market.Gateway != nil || market.Catalog != nil {
			t.Fatalf("wanted no wiring before the stores are configured")
		}

		err = market.WithOptions(WithRepo(&mockRepo{}), WithAssets(&mockStore{}))
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if market.Gateway == nil || market.Catalog == nil {
			t.Fatalf("wanted gateway and catalog to be wired")
		}
	})
}
