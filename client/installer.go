package client

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/tfkr-ae/souk"
	"github.com/tfkr-ae/souk/domain"
)

// InstallState is the per-package toggle state.
type InstallState string

const (
	StateNotInstalled InstallState = "not-installed"
	StateInstalled    InstallState = "installed"
)

// RenderBranch is the media-rendering decision for a package view. Exactly one
// branch is active, picked in fixed priority order: video, then background
// image, then plain image.
type RenderBranch string

const (
	RenderVideo           RenderBranch = "video"
	RenderBackgroundImage RenderBranch = "background-image"
	RenderImage           RenderBranch = "image"
)

// Installer state machine errors.
var (
	ErrNotLoaded        = errors.New("no package loaded")
	ErrAlreadyInstalled = errors.New("package is already installed")
	ErrNotInstalled     = errors.New("package is not installed")
)

// CatalogAPI is the read surface the installer needs from the marketplace.
type CatalogAPI interface {
	GetPackage(ctx context.Context, name string) (*souk.PublicPackage, error)
}

// Installer drives the install/uninstall toggle for a single package view.
// Load recomputes the state from persisted settings; it is not reactive to
// settings changes made by other views during the same session.
type Installer struct {
	api      CatalogAPI
	settings domain.SettingsRepository

	name  string
	pkg   *souk.PublicPackage
	state InstallState
}

// NewInstaller creates an Installer over the given catalog API and settings store.
func NewInstaller(api CatalogAPI, settings domain.SettingsRepository) *Installer {
	return &Installer{
		api:      api,
		settings: settings,
	}
}

// Load fetches the catalog record and derives the install state from the
// persisted collections: themes count as installed when their identifier is
// present, plugins when present and not marked removed.
func (i *Installer) Load(ctx context.Context, name string) error {
	pkg, err := i.api.GetPackage(ctx, name)
	if err != nil {
		return fmt.Errorf("loading package %s : %w", name, err)
	}

	i.name = name
	i.pkg = pkg

	installed, err := i.isInstalled()
	if err != nil {
		return fmt.Errorf("reading install state for %s : %w", name, err)
	}

	if installed {
		i.state = StateInstalled
	} else {
		i.state = StateNotInstalled
	}
	return nil
}

func (i *Installer) isInstalled() (bool, error) {
	if i.pkg.Type == domain.TypeTheme {
		themes, err := i.settings.InstalledThemes()
		if err != nil {
			return false, err
		}
		return slices.Contains(themes, i.name), nil
	}

	plugins, err := i.settings.InstalledPlugins()
	if err != nil {
		return false, err
	}
	for _, plugin := range plugins {
		if plugin.Name == i.name && !plugin.Remove {
			return true, nil
		}
	}
	return false, nil
}

// State returns the current toggle state.
func (i *Installer) State() InstallState {
	return i.state
}

// Package returns the loaded catalog record.
func (i *Installer) Package() *souk.PublicPackage {
	return i.pkg
}

// Render returns the active media branch for the loaded record. A declared
// background video always wins, then a background image, then the plain image.
func (i *Installer) Render() RenderBranch {
	switch {
	case i.pkg == nil:
		return RenderImage
	case i.pkg.BackgroundVideo != "":
		return RenderVideo
	case i.pkg.BackgroundImage != "":
		return RenderBackgroundImage
	default:
		return RenderImage
	}
}

// Install persists the type-specific payload into the settings store and moves
// the toggle to Installed. It is only valid from NotInstalled; a failed
// dispatch leaves the state unchanged.
func (i *Installer) Install() error {
	if i.pkg == nil {
		return ErrNotLoaded
	}
	if i.state == StateInstalled {
		return fmt.Errorf("installing %s : %w", i.name, ErrAlreadyInstalled)
	}

	var err error
	switch i.pkg.Type {
	case domain.TypeTheme:
		err = i.settings.InstallTheme(domain.ThemeInstall{
			Name:    i.name,
			Payload: i.pkg.Payload,
			Video:   i.pkg.BackgroundVideo,
			BgImage: i.pkg.BackgroundImage,
		})
	case domain.TypePluginPage:
		err = i.settings.InstallPlugin(domain.InstalledPlugin{
			Name: i.name,
			Src:  i.pkg.Payload,
			Type: domain.PluginContextPage,
		})
	default:
		err = i.settings.InstallPlugin(domain.InstalledPlugin{
			Name: i.name,
			Src:  i.pkg.Payload,
			Type: domain.PluginContextServiceWorker,
		})
	}
	if err != nil {
		return fmt.Errorf("installing %s : %w", i.name, err)
	}

	i.state = StateInstalled
	return nil
}

// Uninstall removes the package from the persisted collections and moves the
// toggle back to NotInstalled. Themes are deleted outright; plugins are marked
// removed so the platform can tear down their execution context. It is only
// valid from Installed.
func (i *Installer) Uninstall() error {
	if i.pkg == nil {
		return ErrNotLoaded
	}
	if i.state != StateInstalled {
		return fmt.Errorf("uninstalling %s : %w", i.name, ErrNotInstalled)
	}

	var err error
	if i.pkg.Type == domain.TypeTheme {
		err = i.settings.UninstallTheme(i.name)
	} else {
		err = i.settings.UninstallPlugin(i.name)
	}
	if err != nil {
		return fmt.Errorf("uninstalling %s : %w", i.name, err)
	}

	i.state = StateNotInstalled
	return nil
}
