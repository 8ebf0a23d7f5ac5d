// Package generator renders DDL and synthetic INSERT statements for table
// definitions.
package generator

import (
	"strings"

	"github.com/koba/tabledef/internal/schema"
)

// ScriptOptions controls GenerateScript
type ScriptOptions struct {
	DDL   []DDLOption
	Rows  int
	Batch bool
}

// GenerateScript renders the DDL for a table followed by INSERT statements
// built from freshly generated values. Rows of zero skips the inserts. A nil
// values generator uses the defaults with the dialect's maximum date.
func GenerateScript(table *schema.Table, dialect string, values *ValueGenerator, opts ScriptOptions) (string, error) {
	g, err := NewDDLGenerator(dialect, opts.DDL...)
	if err != nil {
		return "", err
	}
	ddl, err := g.CreateTable(table)
	if err != nil {
		return "", err
	}
	if opts.Rows == 0 {
		return ddl, nil
	}

	if values == nil {
		values = NewValueGenerator(WithMaxDate(g.Dialect().MaxDate))
	}
	f, err := values.Generate(table)
	if err != nil {
		return "", err
	}

	b := NewInsertBuilder(f, nil)
	req := InsertRequest{Table: table.Name(), Schema: table.Schema(), Rows: opts.Rows}

	var sqlStatements []string
	sqlStatements = append(sqlStatements, ddl)
	if opts.Batch {
		stmt, err := b.BatchInsert(req)
		if err != nil {
			return "", err
		}
		sqlStatements = append(sqlStatements, stmt)
	} else {
		statements, err := b.Insert(req)
		if err != nil {
			return "", err
		}
		sqlStatements = append(sqlStatements, strings.Join(statements, "\n"))
	}

	return strings.Join(sqlStatements, "\n\n"), nil
}
