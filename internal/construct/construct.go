// Package construct builds schema.Table values from definition sources.
//
// A Source supplies three independent reads: table metadata, the column
// listing and the index listing. Builder calls them in that order and hands
// the result to schema.NewTable, which enforces the model invariants.
package construct

import (
	"fmt"
	"log/slog"

	"github.com/koba/tabledef/internal/schema"
)

// TableInfo holds table-level metadata
type TableInfo struct {
	Name    string `yaml:"name"`
	Schema  string `yaml:"schema"`
	Comment string `yaml:"comment"`
}

// ColumnRow is one row of a column listing. Optional fields are nil when the
// source has no value for them.
type ColumnRow struct {
	Name       string  `yaml:"name"`
	DataType   string  `yaml:"data_type"`
	Length     *int    `yaml:"length"`
	Precision  *int    `yaml:"precision"`
	PrimaryKey bool    `yaml:"primary_key"`
	Unique     bool    `yaml:"unique"`
	NotNull    bool    `yaml:"not_null"`
	Default    *string `yaml:"default"`
	Comment    *string `yaml:"comment"`
}

// Source defines the reads a table definition source must provide
type Source interface {
	ReadSchema() (TableInfo, error)
	ReadColumns() ([]ColumnRow, error)
	ReadIndexes() ([]schema.Index, error)
}

// Builder turns a Source into a validated schema.Table
type Builder struct {
	logger *slog.Logger
}

// NewBuilder creates a new builder. A nil logger discards output.
func NewBuilder(logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Builder{logger: logger}
}

// Build reads the source and returns the table definition
func (b *Builder) Build(src Source) (*schema.Table, error) {
	info, err := src.ReadSchema()
	if err != nil {
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}

	rows, err := src.ReadColumns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	indexes, err := src.ReadIndexes()
	if err != nil {
		return nil, fmt.Errorf("failed to read indexes: %w", err)
	}

	table, err := schema.NewTable(info.Name, info.Schema, info.Comment, ToColumns(rows), indexes)
	if err != nil {
		return nil, err
	}

	b.logger.Debug("table constructed",
		slog.String("table", table.QualifiedName()),
		slog.Int("columns", len(rows)),
		slog.Int("indexes", len(indexes)))
	return table, nil
}

// Build reads the source with a default builder
func Build(src Source) (*schema.Table, error) {
	return NewBuilder(nil).Build(src)
}

// ToColumns converts rows to columns, numbering them from 1 in row order
func ToColumns(rows []ColumnRow) []schema.Column {
	columns := make([]schema.Column, len(rows))
	for i, row := range rows {
		columns[i] = schema.Column{
			Name:       row.Name,
			DataType:   row.DataType,
			Length:     row.Length,
			Precision:  row.Precision,
			PrimaryKey: row.PrimaryKey,
			Unique:     row.Unique,
			NotNull:    row.NotNull,
			Default:    row.Default,
			Comment:    row.Comment,
			Position:   i + 1,
		}
	}
	return columns
}

// FromColumns is the inverse of ToColumns
func FromColumns(columns []schema.Column) []ColumnRow {
	rows := make([]ColumnRow, len(columns))
	for i, c := range columns {
		rows[i] = ColumnRow{
			Name:       c.Name,
			DataType:   c.DataType,
			Length:     c.Length,
			Precision:  c.Precision,
			PrimaryKey: c.PrimaryKey,
			Unique:     c.Unique,
			NotNull:    c.NotNull,
			Default:    c.Default,
			Comment:    c.Comment,
		}
	}
	return rows
}
