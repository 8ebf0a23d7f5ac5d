// Package catalog stores table definitions in a SQLite file so DDL and test
// data can be generated later without access to the source database.
package catalog

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "modernc.org/sqlite"

	"github.com/koba/tabledef/internal/construct"
	"github.com/koba/tabledef/internal/database"
	"github.com/koba/tabledef/internal/schema"
)

// Catalog is a loaded catalog file
type Catalog struct {
	Metadata map[string]string
	Tables   map[string]*schema.Table
	order    []string
}

// Save writes the tables to a new catalog file, replacing any existing one.
// Tables are keyed by their qualified name.
func Save(outputPath string, tables []*schema.Table, metadata map[string]string) error {
	// Ensure output directory exists
	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	// Remove existing catalog file if it exists
	if _, err := os.Stat(outputPath); err == nil {
		if err := os.Remove(outputPath); err != nil {
			return fmt.Errorf("failed to remove existing catalog: %w", err)
		}
	}

	db, err := sql.Open("sqlite", outputPath)
	if err != nil {
		return fmt.Errorf("failed to create catalog database: %w", err)
	}
	defer db.Close()

	if err := initializeSchema(db); err != nil {
		return fmt.Errorf("failed to initialize catalog schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	meta := map[string]string{"created_at": time.Now().Format(time.RFC3339)}
	for key, value := range metadata {
		meta[key] = value
	}
	for key, value := range meta {
		if _, err := tx.Exec("INSERT INTO metadata (key, value) VALUES (?, ?)", key, value); err != nil {
			return fmt.Errorf("failed to insert metadata: %w", err)
		}
	}

	stmt, err := tx.Prepare("INSERT INTO table_definitions (table_name, position, definition_json) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for i, table := range tables {
		definition, err := json.Marshal(table)
		if err != nil {
			return fmt.Errorf("failed to marshal table %s: %w", table.QualifiedName(), err)
		}
		if _, err := stmt.Exec(table.QualifiedName(), i, string(definition)); err != nil {
			return fmt.Errorf("failed to insert table %s: %w", table.QualifiedName(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Load reads a catalog file
func Load(catalogPath string) (*Catalog, error) {
	// Check if file exists
	if _, err := os.Stat(catalogPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("catalog file does not exist: %s", catalogPath)
	}

	db, err := sql.Open("sqlite", catalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog database: %w", err)
	}
	defer db.Close()

	catalog := &Catalog{
		Metadata: make(map[string]string),
		Tables:   make(map[string]*schema.Table),
	}

	rows, err := db.Query("SELECT key, value FROM metadata")
	if err != nil {
		return nil, fmt.Errorf("failed to query metadata: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}
		catalog.Metadata[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}

	defRows, err := db.Query("SELECT table_name, definition_json FROM table_definitions ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("failed to query table definitions: %w", err)
	}
	defer defRows.Close()

	for defRows.Next() {
		var tableName, definition string
		if err := defRows.Scan(&tableName, &definition); err != nil {
			return nil, fmt.Errorf("failed to scan table definition: %w", err)
		}

		var table schema.Table
		if err := json.Unmarshal([]byte(definition), &table); err != nil {
			return nil, fmt.Errorf("failed to unmarshal table %s: %w", tableName, err)
		}

		catalog.Tables[tableName] = &table
		catalog.order = append(catalog.order, tableName)
	}
	if err := defRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read table definitions: %w", err)
	}

	return catalog, nil
}

// Names returns the stored table names in the order they were saved
func (c *Catalog) Names() []string {
	if c.order == nil {
		names := make([]string, 0, len(c.Tables))
		for name := range c.Tables {
			names = append(names, name)
		}
		sort.Strings(names)
		return names
	}
	return append([]string(nil), c.order...)
}

// Source returns a definition source for a stored table
func (c *Catalog) Source(tableName string) (*TableSource, error) {
	table, ok := c.Tables[tableName]
	if !ok {
		return nil, fmt.Errorf("table %s not found in catalog", tableName)
	}
	return &TableSource{table: table}, nil
}

// TableSource replays a stored definition. It implements construct.Source.
type TableSource struct {
	table *schema.Table
}

// ReadSchema returns the stored table metadata
func (s *TableSource) ReadSchema() (construct.TableInfo, error) {
	return construct.TableInfo{
		Name:    s.table.Name(),
		Schema:  s.table.Schema(),
		Comment: s.table.Comment(),
	}, nil
}

// ReadColumns returns the stored columns
func (s *TableSource) ReadColumns() ([]construct.ColumnRow, error) {
	return construct.FromColumns(s.table.Columns()), nil
}

// ReadIndexes returns the stored indexes
func (s *TableSource) ReadIndexes() ([]schema.Index, error) {
	return s.table.Indexes(), nil
}

// Snapshot introspects tables from a live database and saves them to a
// catalog file. An empty table list means every table.
func Snapshot(db database.Database, tables []string, qualifier, outputPath string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	// Get all tables if not specified
	if len(tables) == 0 {
		var err error
		tables, err = db.GetAllTables()
		if err != nil {
			return fmt.Errorf("failed to get all tables: %w", err)
		}
	}

	builder := construct.NewBuilder(logger)
	definitions := make([]*schema.Table, 0, len(tables))
	for _, tableName := range tables {
		src := db.Table(tableName)
		src.Qualifier = qualifier

		table, err := builder.Build(src)
		if err != nil {
			return fmt.Errorf("failed to introspect table %s: %w", tableName, err)
		}
		definitions = append(definitions, table)
	}

	if err := Save(outputPath, definitions, nil); err != nil {
		return err
	}

	logger.Info("catalog written", slog.String("path", outputPath), slog.Int("tables", len(definitions)))
	return nil
}
