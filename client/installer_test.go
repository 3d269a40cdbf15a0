package client

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"github.com/tfkr-ae/souk"
	"github.com/tfkr-ae/souk/db"
	"github.com/tfkr-ae/souk/domain"
)

type mockCatalogAPI struct {
	GetPackageFunc func(ctx context.Context, name string) (*souk.PublicPackage, error)
}

func (m *mockCatalogAPI) GetPackage(ctx context.Context, name string) (*souk.PublicPackage, error) {
	if m.GetPackageFunc != nil {
		return m.GetPackageFunc(ctx, name)
	}
	return nil, domain.ErrNotFound
}

func setupTestSettings(t *testing.T) domain.SettingsRepository {
	t.Helper()

	dbConn, err := db.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("db.New() failed: %v", err)
	}
	repo := db.NewMarketRepo(dbConn)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func catalogWith(pkg *souk.PublicPackage) *mockCatalogAPI {
	return &mockCatalogAPI{
		GetPackageFunc: func(ctx context.Context, name string) (*souk.PublicPackage, error) {
			return pkg, nil
		},
	}
}

func themePackage() *souk.PublicPackage {
	return &souk.PublicPackage{
		Title:   "Aurora",
		Payload: "body {}",
		Type:    domain.TypeTheme,
	}
}

func TestInstaller_Load(t *testing.T) {
	t.Run("should start as not installed for a fresh package", func(t *testing.T) {
		installer := NewInstaller(catalogWith(themePackage()), setupTestSettings(t))

		if err := installer.Load(context.Background(), "pkg-1"); err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if installer.State() != StateNotInstalled {
			t.Fatalf("\nwanted:\n%q\ngot:\n%q", StateNotInstalled, installer.State())
		}
	})

	t.Run("should report installed when the theme is in settings", func(t *testing.T) {
		settings := setupTestSettings(t)
		if err := settings.InstallTheme(domain.ThemeInstall{Name: "pkg-1", Payload: "body {}"}); err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		installer := NewInstaller(catalogWith(themePackage()), settings)
		if err := installer.Load(context.Background(), "pkg-1"); err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if installer.State() != StateInstalled {
			t.Fatalf("\nwanted:\n%q\ngot:\n%q", StateInstalled, installer.State())
		}
	})

	t.Run("should treat a removed plugin as not installed", func(t *testing.T) {
		settings := setupTestSettings(t)
		if err := settings.InstallPlugin(domain.InstalledPlugin{Name: "pkg-1", Src: "p.js", Type: domain.PluginContextPage}); err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if err := settings.UninstallPlugin("pkg-1"); err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		pkg := &souk.PublicPackage{Payload: "p.js", Type: domain.TypePluginPage}
		installer := NewInstaller(catalogWith(pkg), settings)
		if err := installer.Load(context.Background(), "pkg-1"); err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if installer.State() != StateNotInstalled {
			t.Fatalf("\nwanted:\n%q\ngot:\n%q", StateNotInstalled, installer.State())
		}
	})

	t.Run("should propagate catalog errors", func(t *testing.T) {
		installer := NewInstaller(&mockCatalogAPI{}, setupTestSettings(t))

		err := installer.Load(context.Background(), "missing")
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", domain.ErrNotFound, err)
		}
	})
}

func TestInstaller_InstallTheme(t *testing.T) {
	t.Run("should persist the theme payload and flip the state", func(t *testing.T) {
		settings := setupTestSettings(t)
		installer := NewInstaller(catalogWith(themePackage()), settings)

		if err := installer.Load(context.Background(), "pkg-1"); err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if err := installer.Install(); err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if installer.State() != StateInstalled {
			t.Fatalf("\nwanted:\n%q\ngot:\n%q", StateInstalled, installer.State())
		}

		themes, err := settings.InstalledThemes()
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if !slices.Contains(themes, "pkg-1") {
			t.Fatalf("\nwanted:\npkg-1 in settings\ngot:\n%v", themes)
		}
	})

	t.Run("should reject a second install", func(t *testing.T) {
		installer := NewInstaller(catalogWith(themePackage()), setupTestSettings(t))

		if err := installer.Load(context.Background(), "pkg-1"); err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if err := installer.Install(); err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		err := installer.Install()
		if !errors.Is(err, ErrAlreadyInstalled) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", ErrAlreadyInstalled, err)
		}
	})

	t.Run("should reject install before load", func(t *testing.T) {
		installer := NewInstaller(&mockCatalogAPI{}, setupTestSettings(t))

		err := installer.Install()
		if !errors.Is(err, ErrNotLoaded) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", ErrNotLoaded, err)
		}
	})
}

func TestInstaller_InstallPlugin(t *testing.T) {
	t.Run("should dispatch page plugins to the page context", func(t *testing.T) {
		settings := setupTestSettings(t)
		pkg := &souk.PublicPackage{Payload: "plugin.js", Type: domain.TypePluginPage}
		installer := NewInstaller(catalogWith(pkg), settings)

		if err := installer.Load(context.Background(), "pkg-1"); err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if err := installer.Install(); err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		plugins, err := settings.InstalledPlugins()
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if len(plugins) != 1 || plugins[0].Type != domain.PluginContextPage {
			t.Fatalf("\nwanted:\none page-context plugin\ngot:\n%v", plugins)
		}
		if plugins[0].Src != "plugin.js" {
			t.Fatalf("\nwanted:\n%q\ngot:\n%q", "plugin.js", plugins[0].Src)
		}
	})

	t.Run("should dispatch service worker plugins to the worker context", func(t *testing.T) {
		settings := setupTestSettings(t)
		pkg := &souk.PublicPackage{Payload: "worker.js", Type: domain.TypePluginSW}
		installer := NewInstaller(catalogWith(pkg), settings)

		if err := installer.Load(context.Background(), "pkg-1"); err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if err := installer.Install(); err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		plugins, err := settings.InstalledPlugins()
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if len(plugins) != 1 || plugins[0].Type != domain.PluginContextServiceWorker {
			t.Fatalf("\nwanted:\none service-worker plugin\ngot:\n%v", plugins)
		}
	})
}

func TestInstaller_Uninstall(t *testing.T) {
	t.Run("should delete an installed theme", func(t *testing.T) {
		settings := setupTestSettings(t)
		installer := NewInstaller(catalogWith(themePackage()), settings)

		if err := installer.Load(context.Background(), "pkg-1"); err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if err := installer.Install(); err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if err := installer.Uninstall(); err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if installer.State() != StateNotInstalled {
			t.Fatalf("\nwanted:\n%q\ngot:\n%q", StateNotInstalled, installer.State())
		}

		themes, err := settings.InstalledThemes()
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if slices.Contains(themes, "pkg-1") {
			t.Fatalf("\nwanted:\npkg-1 removed from settings\ngot:\n%v", themes)
		}
	})

	t.Run("should mark an installed plugin as removed", func(t *testing.T) {
		settings := setupTestSettings(t)
		pkg := &souk.PublicPackage{Payload: "plugin.js", Type: domain.TypePluginPage}
		installer := NewInstaller(catalogWith(pkg), settings)

		if err := installer.Load(context.Background(), "pkg-1"); err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if err := installer.Install(); err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if err := installer.Uninstall(); err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		plugins, err := settings.InstalledPlugins()
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if len(plugins) != 1 || !plugins[0].Remove {
			t.Fatalf("\nwanted:\ndescriptor kept and marked removed\ngot:\n%v", plugins)
		}
	})

	t.Run("should reject uninstall when not installed", func(t *testing.T) {
		installer := NewInstaller(catalogWith(themePackage()), setupTestSettings(t))

		if err := installer.Load(context.Background(), "pkg-1"); err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		err := installer.Uninstall()
		if !errors.Is(err, ErrNotInstalled) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", ErrNotInstalled, err)
		}
	})
}

func TestInstaller_Render(t *testing.T) {
	t.Run("should pick the video branch first", func(t *testing.T) {
		pkg := &souk.PublicPackage{
			Image:           "preview.png",
			BackgroundImage: "bg.png",
			BackgroundVideo: "bg.mp4",
			Type:            domain.TypeTheme,
		}
		installer := NewInstaller(catalogWith(pkg), setupTestSettings(t))

		if err := installer.Load(context.Background(), "pkg-1"); err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if got := installer.Render(); got != RenderVideo {
			t.Fatalf("\nwanted:\n%q\ngot:\n%q", RenderVideo, got)
		}
	})

	t.Run("should fall back to the background image", func(t *testing.T) {
		pkg := &souk.PublicPackage{
			Image:           "preview.png",
			BackgroundImage: "bg.png",
			Type:            domain.TypeTheme,
		}
		installer := NewInstaller(catalogWith(pkg), setupTestSettings(t))

		if err := installer.Load(context.Background(), "pkg-1"); err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if got := installer.Render(); got != RenderBackgroundImage {
			t.Fatalf("\nwanted:\n%q\ngot:\n%q", RenderBackgroundImage, got)
		}
	})

	t.Run("should default to the plain image", func(t *testing.T) {
		pkg := &souk.PublicPackage{Image: "preview.png", Type: domain.TypeTheme}
		installer := NewInstaller(catalogWith(pkg), setupTestSettings(t))

		if err := installer.Load(context.Background(), "pkg-1"); err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if got := installer.Render(); got != RenderImage {
			t.Fatalf("\nwanted:\n%q\ngot:\n%q", RenderImage, got)
		}
	})
}
