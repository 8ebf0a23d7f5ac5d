package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"

	"github.com/koba/tabledef/internal/construct"
	"github.com/koba/tabledef/internal/schema"
)

// MySQL implements the Database interface for MySQL
type MySQL struct {
	config Config
	db     *sql.DB
}

// NewMySQL creates a new MySQL database connection
func NewMySQL(config Config) *MySQL {
	return &MySQL{config: config}
}

// NewMySQLWithDB wraps an already open connection
func NewMySQLWithDB(db *sql.DB, database string) *MySQL {
	return &MySQL{config: Config{Type: "mysql", Database: database}, db: db}
}

// Connect establishes a connection to MySQL
func (m *MySQL) Connect() error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		m.config.User,
		m.config.Password,
		m.config.Host,
		m.config.Port,
		m.config.Database,
	)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("failed to open MySQL connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping MySQL: %w", err)
	}

	m.db = db
	return nil
}

// Close closes the MySQL connection
func (m *MySQL) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}

// GetAllTables retrieves all base table names in the database
func (m *MySQL) GetAllTables() ([]string, error) {
	query := "SELECT TABLE_NAME FROM information_schema.TABLES WHERE TABLE_SCHEMA = ? AND TABLE_TYPE = 'BASE TABLE' ORDER BY TABLE_NAME"
	rows, err := m.db.Query(query, m.config.Database)
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
func (m *MySQL) Table(tableName string) *TableSource {
	return &TableSource{in: m, Name: tableName}
}

func (m *MySQL) tableComment(tableName string) (string, error) {
	query := "SELECT TABLE_COMMENT FROM information_schema.TABLES WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ?"

	var comment sql.NullString
	err := m.db.QueryRow(query, m.config.Database, tableName).Scan(&comment)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("table %s not found in %s", tableName, m.config.Database)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get table comment: %w", err)
	}
	return comment.String, nil
}

func (m *MySQL) columns(tableName string) ([]construct.ColumnRow, error) {
	query := `
		SELECT
			COLUMN_NAME,
			DATA_TYPE,
			CHARACTER_MAXIMUM_LENGTH,
			NUMERIC_PRECISION,
			NUMERIC_SCALE,
			IS_NULLABLE,
			COLUMN_DEFAULT,
			COLUMN_KEY,
			COLUMN_COMMENT
		FROM information_schema.COLUMNS
		WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ?
		ORDER BY ORDINAL_POSITION
	`
	rows, err := m.db.Query(query, m.config.Database, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}
	defer rows.Close()

	var columns []construct.ColumnRow
	for rows.Next() {
		var col construct.ColumnRow
		var charLength, numPrecision, numScale sql.NullInt64
		var nullable, key, comment string
		var defaultValue sql.NullString

		if err := rows.Scan(&col.Name, &col.DataType, &charLength, &numPrecision, &numScale,
			&nullable, &defaultValue, &key, &comment); err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}

		col.DataType = strings.ToUpper(col.DataType)
		col.Length, col.Precision = sizes(charLength, numPrecision, numScale)
		col.Length = integerDigits(col.DataType, col.Length)
		col.NotNull = nullable == "NO"
		col.PrimaryKey = key == "PRI"
		col.Unique = key == "UNI"
		if defaultValue.Valid {
			col.Default = normalizeDefault(defaultValue.String, col.DataType)
		}
		if comment != "" {
			col.Comment = schema.StringPtr(comment)
		}

		columns = append(columns, col)
	}

	return columns, rows.Err()
}

func (m *MySQL) indexes(tableName string) ([]schema.Index, error) {
	query := `
		SELECT
			INDEX_NAME,
			COLUMN_NAME,
			NON_UNIQUE
		FROM information_schema.STATISTICS
		WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ? AND INDEX_NAME <> 'PRIMARY'
		ORDER BY INDEX_NAME, SEQ_IN_INDEX
	`
	rows, err := m.db.Query(query, m.config.Database, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to get indexes: %w", err)
	}
	defer rows.Close()

	var set indexSet
	for rows.Next() {
		var indexName, columnName string
		var nonUnique int

		if err := rows.Scan(&indexName, &columnName, &nonUnique); err != nil {
			return nil, fmt.Errorf("failed to scan index: %w", err)
		}
		set.add(indexName, columnName, nonUnique == 0)
	}

	return set.list, rows.Err()
}

var integerTypes = map[string]bool{
	"TINYINT":   true,
	"SMALLINT":  true,
	"MEDIUMINT": true,
	"INT":       true,
	"INTEGER":   true,
	"BIGINT":    true,
}

// integerDigits drops one digit from the precision MySQL reports for integer
// types. The reported value is the digit count of the type's maximum, so a
// value of all nines at that length would overflow it.
func integerDigits(dataType string, length *int) *int {
	if length == nil || *length <= 1 || !integerTypes[dataType] {
		return length
	}
	return schema.IntPtr(*length - 1)
}

// sizes maps catalog size columns onto length and precision: character
// length wins over numeric precision, and scale becomes the precision.
func sizes(charLength, numPrecision, numScale sql.NullInt64) (length, precision *int) {
	switch {
	case charLength.Valid:
		length = schema.IntPtr(int(charLength.Int64))
	case numPrecision.Valid:
		length = schema.IntPtr(int(numPrecision.Int64))
	}
	if numScale.Valid {
		precision = schema.IntPtr(int(numScale.Int64))
	}
	return length, precision
}
