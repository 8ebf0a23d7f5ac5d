package catalog

import "database/sql"

const (
	// SQLite schema for storing table definitions
	createMetadataTable = `
		CREATE TABLE IF NOT EXISTS metadata (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`

	createDefinitionsTable = `
		CREATE TABLE IF NOT EXISTS table_definitions (
			table_name TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			definition_json TEXT NOT NULL
		);
	`
)

// initializeSchema creates the necessary tables in the SQLite catalog database
func initializeSchema(db *sql.DB) error {
	schemas := []string{
		createMetadataTable,
		createDefinitionsTable,
	}

	for _, schema := range schemas {
		if _, err := db.Exec(schema); err != nil {
			return err
		}
	}

	return nil
}
