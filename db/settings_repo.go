package db

import (
	"fmt"

	"github.com/tfkr-ae/souk/domain"
)

var _ domain.SettingsRepository = (*Repository)(nil)

// dbInstalledPlugin represents an installed plugin descriptor as stored in the database.
type dbInstalledPlugin struct {
	Name   string `db:"name"`
	Src    string `db:"src"`
	Type   string `db:"type"`
	Remove bool   `db:"remove"`
}

// InstallTheme implements the domain.SettingsRepository interface.
// It records a theme as installed, replacing any previous entry for the same name.
func (repo *Repository) InstallTheme(theme domain.ThemeInstall) error {
	query := `INSERT OR REPLACE INTO installed_theme (name, payload, video, bg_image) VALUES (?,?,?,?)`

	_, err := repo.dbConn.Exec(query, theme.Name, theme.Payload, theme.Video, theme.BgImage)
	if err != nil {
		return fmt.Errorf("installing theme %s: %w", theme.Name, err)
	}

	return nil
}

// UninstallTheme implements the domain.SettingsRepository interface.
// It removes the theme entry entirely; absence from the collection is what
// marks a theme as not installed.
func (repo *Repository) UninstallTheme(name string) error {
	query := `DELETE FROM installed_theme WHERE name = ?`

	_, err := repo.dbConn.Exec(query, name)
	if err != nil {
		return fmt.Errorf("uninstalling theme %s: %w", name, err)
	}

	return nil
}

// InstalledThemes implements the domain.SettingsRepository interface.
// It returns installed theme identifiers in insertion order.
func (repo *Repository) InstalledThemes() ([]string, error) {
	var names []string
	query := `SELECT name FROM installed_theme ORDER BY rowid ASC`

	err := repo.dbConn.Select(&names, query)
	if err != nil {
		return nil, fmt.Errorf("fetching installed themes: %w", err)
	}

	return names, nil
}

// InstallPlugin implements the domain.SettingsRepository interface.
// Re-installing a plugin that was marked removed clears the mark.
func (repo *Repository) InstallPlugin(plugin domain.InstalledPlugin) error {
	query := `INSERT OR REPLACE INTO installed_plugin (name, src, type, remove) VALUES (?,?,?,0)`

	_, err := repo.dbConn.Exec(query, plugin.Name, plugin.Src, string(plugin.Type))
	if err != nil {
		return fmt.Errorf("installing plugin %s: %w", plugin.Name, err)
	}

	return nil
}

// UninstallPlugin implements the domain.SettingsRepository interface.
// The descriptor row is kept with the remove mark set so the platform can tear
// down the plugin's execution context on its next load.
func (repo *Repository) UninstallPlugin(name string) error {
	query := `UPDATE installed_plugin SET remove = 1 WHERE name = ?`

	result, err := repo.dbConn.Exec(query, name)
	if err != nil {
		return fmt.Errorf("uninstalling plugin %s: %w", name, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("fetching rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("uninstalling plugin %s: %w", name, domain.ErrNotFound)
	}

	return nil
}

// InstalledPlugins implements the domain.SettingsRepository interface.
// It returns every descriptor, including removed ones, in insertion order.
func (repo *Repository) InstalledPlugins() ([]domain.InstalledPlugin, error) {
	var dbPlugins []*dbInstalledPlugin
	query := `SELECT name, src, type, remove FROM installed_plugin ORDER BY rowid ASC`

	err := repo.dbConn.Select(&dbPlugins, query)
	if err != nil {
		return nil, fmt.Errorf("fetching installed plugins: %w", err)
	}

	plugins := make([]domain.InstalledPlugin, len(dbPlugins))
	for i, dbPlugin := range dbPlugins {
		plugins[i] = domain.InstalledPlugin{
			Name:   dbPlugin.Name,
			Src:    dbPlugin.Src,
			Type:   domain.PluginContext(dbPlugin.Type),
			Remove: dbPlugin.Remove,
		}
	}
	return plugins, nil
}
