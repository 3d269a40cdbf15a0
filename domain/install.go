package domain

// PluginContext identifies where an installed plugin executes.
type PluginContext string

const (
	PluginContextPage          PluginContext = "page"
	PluginContextServiceWorker PluginContext = "serviceWorker"
)

// ThemeInstall is the payload dispatched to the settings store when a theme
// package is installed. Video and BgImage carry the optional background media
// filenames declared by the catalog record.
type ThemeInstall struct {
	Name    string
	Payload string
	Video   string
	BgImage string
}

// InstalledPlugin is the descriptor persisted for an installed plugin.
// A descriptor with Remove set is logically absent: it stays in storage but
// does not count as installed.
type InstalledPlugin struct {
	Name   string
	Src    string
	Type   PluginContext
	Remove bool
}

// SettingsRepository persists the user's installed package collections: theme
// identifiers and plugin descriptors. Membership in the appropriate collection
// is the sole source of truth for a package's install state and must be read
// back from storage on every view activation.
type SettingsRepository interface {
	// InstallTheme records a theme as installed, overwriting a previous
	// entry for the same name.
	InstallTheme(theme ThemeInstall) error

	// UninstallTheme removes a theme from the installed collection.
	UninstallTheme(name string) error

	// InstalledThemes returns the identifiers of all installed themes in
	// insertion order.
	InstalledThemes() ([]string, error)

	// InstallPlugin records a plugin descriptor as installed, clearing any
	// previous remove mark for the same name.
	InstallPlugin(plugin InstalledPlugin) error

	// UninstallPlugin marks a plugin descriptor as removed. The row is kept
	// so the platform can clean up the plugin's execution context on next
	// load. It returns ErrNotFound if no descriptor exists for the name.
	UninstallPlugin(name string) error

	// InstalledPlugins returns all plugin descriptors, including ones marked
	// removed, in insertion order.
	InstalledPlugins() ([]InstalledPlugin, error)
}
