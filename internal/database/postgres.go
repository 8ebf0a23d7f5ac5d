package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/lib/pq"

	"github.com/koba/tabledef/internal/construct"
	"github.com/koba/tabledef/internal/schema"
)

// Postgres implements the Database interface for PostgreSQL
type Postgres struct {
	config Config
	db     *sql.DB
}

// NewPostgres creates a new PostgreSQL database connection
func NewPostgres(config Config) *Postgres {
	if config.Schema == "" {
		config.Schema = "public"
	}
	return &Postgres{config: config}
}

// NewPostgresWithDB wraps an already open connection
func NewPostgresWithDB(db *sql.DB, namespace string) *Postgres {
	p := NewPostgres(Config{Type: "postgres", Schema: namespace})
	p.db = db
	return p
}

// Connect establishes a connection to PostgreSQL
func (p *Postgres) Connect() error {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		p.config.Host,
		p.config.Port,
		p.config.User,
		p.config.Password,
		p.config.Database,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("failed to open PostgreSQL connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	p.db = db
	return nil
}

// Close closes the PostgreSQL connection
func (p *Postgres) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}

// GetAllTables retrieves all table names in the configured schema
func (p *Postgres) GetAllTables() ([]string, error) {
	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = $1 AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`
	rows, err := p.db.Query(query, p.config.Schema)
	if err != nil {
		return nil, fmt.Errorf("failed to get tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		tables = append(tables, tableName)
	}

	return tables, rows.Err()
}

// Table returns a definition source for one table
func (p *Postgres) Table(tableName string) *TableSource {
	return &TableSource{in: p, Name: tableName}
}

func (p *Postgres) tableComment(tableName string) (string, error) {
	query := `
		SELECT obj_description(c.oid, 'pg_class')
		FROM pg_class c
		JOIN pg_namespace n ON n.oid = c.relnamespace
		WHERE n.nspname = $1 AND c.relname = $2 AND c.relkind = 'r'
	`

	var comment sql.NullString
	err := p.db.QueryRow(query, p.config.Schema, tableName).Scan(&comment)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("table %s not found in schema %s", tableName, p.config.Schema)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get table comment: %w", err)
	}
	return comment.String, nil
}

func (p *Postgres) columns(tableName string) ([]construct.ColumnRow, error) {
	query := `
		SELECT
			c.column_name,
			c.data_type,
			c.character_maximum_length,
			c.numeric_precision,
			c.numeric_scale,
			c.numeric_precision_radix,
			c.is_nullable,
			c.column_default,
			col_description(format('%I.%I', c.table_schema, c.table_name)::regclass, c.ordinal_position),
			EXISTS (
				SELECT 1
				FROM information_schema.table_constraints tc
				JOIN information_schema.key_column_usage kcu
					ON tc.constraint_name = kcu.constraint_name
					AND tc.table_schema = kcu.table_schema
				WHERE tc.table_schema = c.table_schema
					AND tc.table_name = c.table_name
					AND tc.constraint_type = 'PRIMARY KEY'
					AND kcu.column_name = c.column_name
			),
			EXISTS (
				SELECT 1
				FROM information_schema.table_constraints tc
				JOIN information_schema.key_column_usage kcu
					ON tc.constraint_name = kcu.constraint_name
					AND tc.table_schema = kcu.table_schema
				WHERE tc.table_schema = c.table_schema
					AND tc.table_name = c.table_name
					AND tc.constraint_type = 'UNIQUE'
					AND kcu.column_name = c.column_name
			)
		FROM information_schema.columns c
		WHERE c.table_schema = $1 AND c.table_name = $2
		ORDER BY c.ordinal_position
	`
	rows, err := p.db.Query(query, p.config.Schema, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}
	defer rows.Close()

	var columns []construct.ColumnRow
	for rows.Next() {
		var col construct.ColumnRow
		var charLength, numPrecision, numScale, radix sql.NullInt64
		var nullable string
		var defaultValue, comment sql.NullString

		if err := rows.Scan(&col.Name, &col.DataType, &charLength, &numPrecision, &numScale, &radix,
			&nullable, &defaultValue, &comment, &col.PrimaryKey, &col.Unique); err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}

		col.DataType = strings.ToUpper(col.DataType)
		// integer and float precision is reported in bits
		if radix.Int64 != 10 {
			numPrecision.Valid = false
		}
		col.Length, col.Precision = sizes(charLength, numPrecision, numScale)
		col.NotNull = nullable == "NO"
		if defaultValue.Valid {
			col.Default = normalizeDefault(defaultValue.String, col.DataType)
		}
		if comment.Valid && comment.String != "" {
			col.Comment = schema.StringPtr(comment.String)
		}

		columns = append(columns, col)
	}

	return columns, rows.Err()
}

func (p *Postgres) indexes(tableName string) ([]schema.Index, error) {
	query := `
		SELECT
			i.relname AS index_name,
			a.attname AS column_name,
			ix.indisunique AS is_unique
		FROM pg_class t
		JOIN pg_namespace n ON n.oid = t.relnamespace
		JOIN pg_index ix ON t.oid = ix.indrelid
		JOIN pg_class i ON i.oid = ix.indexrelid
		JOIN pg_attribute a ON a.attrelid = t.oid AND a.attnum = ANY(ix.indkey)
		WHERE n.nspname = $1 AND t.relname = $2 AND t.relkind = 'r' AND NOT ix.indisprimary
		ORDER BY i.relname, array_position(ix.indkey::int2[], a.attnum)
	`
	rows, err := p.db.Query(query, p.config.Schema, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to get indexes: %w", err)
	}
	defer rows.Close()

	var set indexSet
	for rows.Next() {
		var indexName, columnName string
		var isUnique bool

		if err := rows.Scan(&indexName, &columnName, &isUnique); err != nil {
			return nil, fmt.Errorf("failed to scan index: %w", err)
		}
		set.add(indexName, columnName, isUnique)
	}

	return set.list, rows.Err()
}
