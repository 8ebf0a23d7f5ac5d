package generator

import (
	"fmt"
	"strings"

	"github.com/koba/tabledef/internal/schema"
)

// DDLOption configures a DDLGenerator
type DDLOption func(*DDLGenerator)

// WithIfNotExists adds IF NOT EXISTS where the dialect supports it
func WithIfNotExists() DDLOption {
	return func(g *DDLGenerator) { g.ifNotExists = true }
}

// WithTemporary creates a temporary table. Dialects without a temporary
// keyword ignore it.
func WithTemporary() DDLOption {
	return func(g *DDLGenerator) { g.temporary = true }
}

// DDLGenerator generates DDL statements for a table definition.
//
// Comment text and default literals are emitted as given; nothing is
// escaped beyond the quote stripping the value generator applies.
type DDLGenerator struct {
	dialect     *Dialect
	ifNotExists bool
	temporary   bool
}

// NewDDLGenerator creates a new DDL generator. It fails with
// UnsupportedDialectError when the dialect is not registered.
func NewDDLGenerator(dialect string, opts ...DDLOption) (*DDLGenerator, error) {
	d, err := LookupDialect(dialect)
	if err != nil {
		return nil, err
	}
	g := &DDLGenerator{dialect: d}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// CreateTable renders the DDL script for a table in the given dialect
func CreateTable(table *schema.Table, dialect string, opts ...DDLOption) (string, error) {
	g, err := NewDDLGenerator(dialect, opts...)
	if err != nil {
		return "", err
	}
	return g.CreateTable(table)
}

// Dialect returns the generator's dialect
func (g *DDLGenerator) Dialect() *Dialect {
	return g.dialect
}

// CreateTable renders CREATE TABLE, comment and CREATE INDEX statements
func (g *DDLGenerator) CreateTable(table *schema.Table) (string, error) {
	if table == nil {
		return "", &PreconditionError{Op: "create table", Reason: "no table definition"}
	}

	statements := []string{g.generateCreateTable(table)}

	// Comments
	if !g.dialect.InlineComments {
		if table.Comment() != "" {
			statements = append(statements, fmt.Sprintf("COMMENT ON TABLE %s IS '%s'",
				table.QualifiedName(), table.Comment()))
		}
		for _, col := range table.Columns() {
			if comment := col.CommentText(); comment != "" {
				statements = append(statements, fmt.Sprintf("COMMENT ON COLUMN %s.%s IS '%s'",
					table.QualifiedName(), col.Name, comment))
			}
		}
	}

	// Indexes
	for _, idx := range table.Indexes() {
		statements = append(statements, g.generateCreateIndex(table.QualifiedName(), idx))
	}

	term := g.dialect.Terminator
	return strings.Join(statements, term+"\n") + term, nil
}

func (g *DDLGenerator) generateCreateTable(table *schema.Table) string {
	var header strings.Builder
	header.WriteString("CREATE ")
	if g.temporary && g.dialect.Temporary != "" {
		header.WriteString(g.dialect.Temporary + " ")
	}
	header.WriteString("TABLE ")
	if g.ifNotExists && g.dialect.IfNotExists {
		header.WriteString("IF NOT EXISTS ")
	}
	header.WriteString(table.QualifiedName())

	columns := table.Columns()
	parts := make([]string, len(columns))
	for i := range columns {
		parts[i] = g.columnDefinition(&columns[i])
	}

	stmt := fmt.Sprintf("%s (\n  %s\n)", header.String(), strings.Join(parts, ",\n  "))
	if g.dialect.InlineComments && table.Comment() != "" {
		stmt += fmt.Sprintf(" COMMENT='%s'", table.Comment())
	}
	return stmt
}

func (g *DDLGenerator) generateCreateIndex(tableName string, idx schema.Index) string {
	indexType := ""
	if idx.Unique {
		indexType = "UNIQUE "
	}

	return fmt.Sprintf("CREATE %sINDEX %s ON %s (%s)",
		indexType,
		idx.Name,
		tableName,
		strings.Join(idx.Columns, ", "),
	)
}

func (g *DDLGenerator) columnDefinition(col *schema.Column) string {
	def := col.Name + " " + col.DataType

	if col.Length != nil && *col.Length > 0 && schema.TakesLength(col.DataType) {
		def += fmt.Sprintf("(%d)", *col.Length)
	}

	if col.PrimaryKey {
		def += " PRIMARY KEY"
	}

	if col.NotNull {
		def += " NOT NULL"
	}

	if col.Default != nil && *col.Default != "" {
		def += fmt.Sprintf(" DEFAULT %s", *col.Default)
	}

	if g.dialect.InlineComments && col.CommentText() != "" {
		def += fmt.Sprintf(" COMMENT '%s'", col.CommentText())
	}

	return def
}
