package database

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/koba/tabledef/internal/construct"
	"github.com/koba/tabledef/internal/schema"
)

// Config holds database connection configuration
type Config struct {
	Type     string // "mysql" or "postgres"
	Host     string
	Port     string
	Database string
	User     string
	Password string
	Schema   string // PostgreSQL namespace, "public" when empty
}

// Database interface defines operations for database connections
type Database interface {
	Connect() error
	Close() error
	GetAllTables() ([]string, error)
	Table(tableName string) *TableSource
}

// NewDatabase creates a new database connection based on type
func NewDatabase(config Config) (Database, error) {
	switch strings.ToLower(config.Type) {
	case "mysql":
		return NewMySQL(config), nil
	case "postgres", "postgresql":
		return NewPostgres(config), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", config.Type)
	}
}

// DefaultPort returns the conventional port for a database type
func DefaultPort(dbType string) string {
	switch strings.ToLower(dbType) {
	case "mysql":
		return "3306"
	case "postgres", "postgresql":
		return "5432"
	default:
		return ""
	}
}

// introspector reads one table's definition from a live database
type introspector interface {
	tableComment(tableName string) (string, error)
	columns(tableName string) ([]construct.ColumnRow, error)
	indexes(tableName string) ([]schema.Index, error)
}

// TableSource reads a single table through information_schema. It
// implements construct.Source.
type TableSource struct {
	in   introspector
	Name string
	// Qualifier is emitted as the table's schema; empty leaves it unqualified
	Qualifier string
}

// ReadSchema returns the table name, qualifier and comment
func (s *TableSource) ReadSchema() (construct.TableInfo, error) {
	comment, err := s.in.tableComment(s.Name)
	if err != nil {
		return construct.TableInfo{}, err
	}
	return construct.TableInfo{Name: s.Name, Schema: s.Qualifier, Comment: comment}, nil
}

// ReadColumns returns the columns in ordinal order
func (s *TableSource) ReadColumns() ([]construct.ColumnRow, error) {
	return s.in.columns(s.Name)
}

// ReadIndexes returns the secondary indexes
func (s *TableSource) ReadIndexes() ([]schema.Index, error) {
	return s.in.indexes(s.Name)
}

var castSuffix = regexp.MustCompile(`^(.+?)::[a-z_ ]+$`)

// normalizeDefault turns a catalog default into a SQL literal usable in DDL
// and INSERT text: casts are dropped and bare character defaults are quoted.
// A NULL default, cast or not, is no default at all.
func normalizeDefault(def, dataType string) *string {
	if m := castSuffix.FindStringSubmatch(def); m != nil {
		def = m[1]
	}
	if strings.EqualFold(strings.TrimSpace(def), "NULL") {
		return nil
	}
	if schema.FamilyOf(dataType) == schema.FamilyCharacter && !strings.HasPrefix(def, "'") {
		def = "'" + def + "'"
	}
	return &def
}

// indexSet folds (index, column) rows into indexes, keeping the order in
// which index names first appear
type indexSet struct {
	list []schema.Index
	pos  map[string]int
}

func (s *indexSet) add(name, column string, unique bool) {
	if s.pos == nil {
		s.pos = make(map[string]int)
	}
	if i, exists := s.pos[name]; exists {
		s.list[i].Columns = append(s.list[i].Columns, column)
		return
	}
	s.pos[name] = len(s.list)
	s.list = append(s.list, schema.Index{Name: name, Columns: []string{column}, Unique: unique})
}
