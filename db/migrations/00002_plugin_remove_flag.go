package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

func init() {
	goose.AddMigrationContext(upAddPluginRemoveFlag, downAddPluginRemoveFlag)
}

// upAddPluginRemoveFlag adds the remove mark to installed plugin descriptors.
// A marked descriptor is logically uninstalled but kept around so the platform
// can tear down the plugin's execution context on its next load.
func upAddPluginRemoveFlag(ctx context.Context, tx *sql.Tx) error {
	alterQuery := `ALTER TABLE installed_plugin ADD COLUMN remove BOOLEAN NOT NULL DEFAULT 0;`
	_, err := tx.Exec(alterQuery)
	if err != nil {
		return fmt.Errorf("adding remove column : %w", err)
	}

	_, err = tx.Exec("UPDATE installed_plugin SET remove = 0")
	if err != nil {
		return fmt.Errorf("backfilling remove column : %w", err)
	}
	return nil
}

func downAddPluginRemoveFlag(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.Exec(`ALTER TABLE installed_plugin DROP COLUMN remove`)
	if err != nil {
		return fmt.Errorf("dropping remove column : %w", err)
	}
	return nil
}
